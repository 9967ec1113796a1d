package postgres

import (
	"context"

	"rental-portal-backend/internal/domain"
	"rental-portal-backend/internal/logger"
	"rental-portal-backend/internal/repository"
)

type propertyRepository struct {
	db DBTX
}

func NewPropertyRepository(db DBTX) repository.PropertyRepository {
	return &propertyRepository{db: db}
}

const propertyColumns = `id, landlord_id, title, address, monthly_rent, bedrooms, bathrooms, sqft,
	description, is_active, created_at`

func (r *propertyRepository) Create(ctx context.Context, p *domain.Property) error {
	logger.EnterMethod("propertyRepository.Create", "landlordID", p.LandlordID, "title", p.Title)

	query := `
		INSERT INTO properties (landlord_id, title, address, monthly_rent, bedrooms, bathrooms, sqft, description, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		p.LandlordID, p.Title, p.Address, p.MonthlyRent, p.Bedrooms, p.Bathrooms, p.Sqft, p.Description, p.IsActive,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		logger.ExitMethodWithError("propertyRepository.Create", err, "landlordID", p.LandlordID)
		return mapError(err)
	}

	logger.ExitMethod("propertyRepository.Create", "propertyID", p.ID)
	return nil
}

func (r *propertyRepository) GetByID(ctx context.Context, id int32) (*domain.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE id = $1`
	p := &domain.Property{}
	if err := scanProperty(r.db.QueryRowContext(ctx, query, id), p); err != nil {
		return nil, mapError(err)
	}
	return p, nil
}

func (r *propertyRepository) Update(ctx context.Context, p *domain.Property) error {
	logger.EnterMethod("propertyRepository.Update", "propertyID", p.ID)

	query := `
		UPDATE properties SET title = $1, address = $2, monthly_rent = $3, bedrooms = $4,
			bathrooms = $5, sqft = $6, description = $7, is_active = $8
		WHERE id = $9
	`
	res, err := r.db.ExecContext(ctx, query,
		p.Title, p.Address, p.MonthlyRent, p.Bedrooms, p.Bathrooms, p.Sqft, p.Description, p.IsActive, p.ID,
	)
	if err != nil {
		logger.ExitMethodWithError("propertyRepository.Update", err, "propertyID", p.ID)
		return mapError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}

	logger.ExitMethod("propertyRepository.Update", "propertyID", p.ID)
	return nil
}

// Delete removes the property; applications, leases, payments and tickets
// cascade with it.
func (r *propertyRepository) Delete(ctx context.Context, id int32) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM properties WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	n, _ := res.RowsAffected()
	logger.DatabaseResult("DELETE properties", n, nil, "propertyID", id)
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *propertyRepository) ListActive(ctx context.Context) ([]domain.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE is_active ORDER BY created_at DESC, id DESC`
	return r.list(ctx, query)
}

func (r *propertyRepository) ListByLandlord(ctx context.Context, landlordID int32) ([]domain.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE landlord_id = $1 ORDER BY created_at DESC, id DESC`
	return r.list(ctx, query, landlordID)
}

func (r *propertyRepository) list(ctx context.Context, query string, args ...any) ([]domain.Property, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var properties []domain.Property
	for rows.Next() {
		var p domain.Property
		if err := scanProperty(rows, &p); err != nil {
			return nil, err
		}
		properties = append(properties, p)
	}
	return properties, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProperty(s scanner, p *domain.Property) error {
	return s.Scan(&p.ID, &p.LandlordID, &p.Title, &p.Address, &p.MonthlyRent, &p.Bedrooms, &p.Bathrooms,
		&p.Sqft, &p.Description, &p.IsActive, &p.CreatedAt)
}
