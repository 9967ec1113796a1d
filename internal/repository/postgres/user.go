package postgres

import (
	"context"
	"strings"

	"rental-portal-backend/internal/domain"
	"rental-portal-backend/internal/logger"
	"rental-portal-backend/internal/repository"
)

type userRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	logger.EnterMethod("userRepository.Create", "email", u.Email)

	query := `INSERT INTO users (email, name, password_hash, role, is_staff)
	          VALUES ($1, $2, $3, $4, $5) RETURNING id, created_on`
	err := r.db.QueryRowContext(ctx, query,
		strings.ToLower(u.Email), u.Name, u.PasswordHash, u.Role, u.IsStaff,
	).Scan(&u.ID, &u.CreatedOn)
	if err != nil {
		logger.ExitMethodWithError("userRepository.Create", err, "email", u.Email)
		return mapError(err)
	}

	logger.ExitMethod("userRepository.Create", "userID", u.ID)
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	query := `SELECT id, email, name, password_hash, role, is_staff, created_on FROM users WHERE id = $1`
	return r.get(ctx, query, id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT id, email, name, password_hash, role, is_staff, created_on FROM users WHERE email = $1`
	return r.get(ctx, query, strings.ToLower(email))
}

func (r *userRepository) get(ctx context.Context, query string, arg any) (*domain.User, error) {
	u := &domain.User{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Role, &u.IsStaff, &u.CreatedOn,
	)
	if err != nil {
		return nil, mapError(err)
	}
	return u, nil
}
