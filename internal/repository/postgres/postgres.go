package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"rental-portal-backend/internal/domain"
	"rental-portal-backend/internal/logger"
	"rental-portal-backend/internal/repository"

	"github.com/lib/pq"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx, so every repository can run
// inside or outside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Store struct {
	db *sql.DB
	repository.UserRepository
	repository.PropertyRepository
	repository.ApplicationRepository
	repository.LeaseRepository
	repository.PaymentRepository
	repository.MaintenanceRepository
}

func NewStore(db *sql.DB) *Store {
	repos := NewRepositories(db)
	return &Store{
		db:                    db,
		UserRepository:        repos.Users,
		PropertyRepository:    repos.Properties,
		ApplicationRepository: repos.Applications,
		LeaseRepository:       repos.Leases,
		PaymentRepository:     repos.Payments,
		MaintenanceRepository: repos.Maintenance,
	}
}

// NewRepositories binds every repository to db.
func NewRepositories(db DBTX) repository.Repositories {
	return repository.Repositories{
		Users:        NewUserRepository(db),
		Properties:   NewPropertyRepository(db),
		Applications: NewApplicationRepository(db),
		Leases:       NewLeaseRepository(db),
		Payments:     NewPaymentRepository(db),
		Maintenance:  NewMaintenanceRepository(db),
	}
}

// Repositories returns the pool-bound repositories.
func (s *Store) Repositories() repository.Repositories {
	return repository.Repositories{
		Users:        s.UserRepository,
		Properties:   s.PropertyRepository,
		Applications: s.ApplicationRepository,
		Leases:       s.LeaseRepository,
		Payments:     s.PaymentRepository,
		Maintenance:  s.MaintenanceRepository,
	}
}

// WithinTx implements repository.Transactor.
func (s *Store) WithinTx(ctx context.Context, fn func(repos repository.Repositories) error) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(NewRepositories(tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("Transaction rollback failed", "error", rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", mapError(err))
	}
	return nil
}

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
	pqCheckViolation      = "23514"
)

// mapError translates driver errors into domain sentinels.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqUniqueViolation:
			return fmt.Errorf("%w: %s already exists", domain.ErrInvalidState, pqErr.Constraint)
		case pqForeignKeyViolation, pqCheckViolation:
			return fmt.Errorf("%w: %s", domain.ErrValidation, pqErr.Message)
		}
	}
	return err
}

// scopeArgs returns the landlord and tenant filter arguments used by scoped
// list queries; zero disables a filter.
func scopeArgs(scope repository.Scope) (int32, int32) {
	return scope.LandlordID, scope.TenantID
}
