package postgres

import (
	"context"

	"rental-portal-backend/internal/domain"
	"rental-portal-backend/internal/logger"
	"rental-portal-backend/internal/repository"
)

type leaseRepository struct {
	db DBTX
}

func NewLeaseRepository(db DBTX) repository.LeaseRepository {
	return &leaseRepository{db: db}
}

const leaseSelect = `
	SELECT l.id, l.application_id, l.tenant_id, l.property_id, p.landlord_id, l.start_date, l.end_date,
	       l.monthly_rent, l.security_deposit, l.is_active, l.created_at
	FROM leases l
	JOIN properties p ON p.id = l.property_id
`

// Create inserts the lease. A second lease for the same application violates
// leases_application_id_key and surfaces as domain.ErrInvalidState.
func (r *leaseRepository) Create(ctx context.Context, l *domain.Lease) error {
	logger.EnterMethod("leaseRepository.Create", "applicationID", l.ApplicationID)

	query := `
		INSERT INTO leases (application_id, tenant_id, property_id, start_date, end_date,
			monthly_rent, security_deposit, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		l.ApplicationID, l.TenantID, l.PropertyID, l.StartDate, l.EndDate,
		l.MonthlyRent, l.SecurityDeposit, l.IsActive,
	).Scan(&l.ID, &l.CreatedAt)
	if err != nil {
		logger.ExitMethodWithError("leaseRepository.Create", err, "applicationID", l.ApplicationID)
		return mapError(err)
	}

	logger.ExitMethod("leaseRepository.Create", "leaseID", l.ID)
	return nil
}

func (r *leaseRepository) GetByID(ctx context.Context, id int32) (*domain.Lease, error) {
	l := &domain.Lease{}
	if err := scanLease(r.db.QueryRowContext(ctx, leaseSelect+` WHERE l.id = $1`, id), l); err != nil {
		return nil, mapError(err)
	}
	return l, nil
}

func (r *leaseRepository) List(ctx context.Context, scope repository.Scope) ([]domain.Lease, error) {
	query := leaseSelect + `
		WHERE ($1 = 0 OR p.landlord_id = $1) AND ($2 = 0 OR l.tenant_id = $2)
		ORDER BY l.start_date DESC, l.id DESC
	`
	landlordID, tenantID := scopeArgs(scope)
	rows, err := r.db.QueryContext(ctx, query, landlordID, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leases []domain.Lease
	for rows.Next() {
		var l domain.Lease
		if err := scanLease(rows, &l); err != nil {
			return nil, err
		}
		leases = append(leases, l)
	}
	return leases, rows.Err()
}

func (r *leaseRepository) SetActive(ctx context.Context, id int32, active bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE leases SET is_active = $1 WHERE id = $2`, active, id)
	if err != nil {
		return mapError(err)
	}
	n, _ := res.RowsAffected()
	logger.DatabaseResult("UPDATE leases.is_active", n, nil, "leaseID", id, "active", active)
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanLease(s scanner, l *domain.Lease) error {
	return s.Scan(&l.ID, &l.ApplicationID, &l.TenantID, &l.PropertyID, &l.LandlordID, &l.StartDate, &l.EndDate,
		&l.MonthlyRent, &l.SecurityDeposit, &l.IsActive, &l.CreatedAt)
}
