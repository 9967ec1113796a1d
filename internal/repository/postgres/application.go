package postgres

import (
	"context"
	"fmt"

	"rental-portal-backend/internal/domain"
	"rental-portal-backend/internal/logger"
	"rental-portal-backend/internal/repository"
)

type applicationRepository struct {
	db DBTX
}

func NewApplicationRepository(db DBTX) repository.ApplicationRepository {
	return &applicationRepository{db: db}
}

func (r *applicationRepository) Create(ctx context.Context, app *domain.Application) error {
	logger.EnterMethod("applicationRepository.Create", "propertyID", app.PropertyID, "tenantID", app.TenantID)

	query := `INSERT INTO applications (property_id, tenant_id, message, status)
	          VALUES ($1, $2, $3, $4) RETURNING id, submitted_at`
	err := r.db.QueryRowContext(ctx, query, app.PropertyID, app.TenantID, app.Message, app.Status).
		Scan(&app.ID, &app.SubmittedAt)
	if err != nil {
		logger.ExitMethodWithError("applicationRepository.Create", err, "propertyID", app.PropertyID)
		return mapError(err)
	}

	logger.ExitMethod("applicationRepository.Create", "applicationID", app.ID)
	return nil
}

func (r *applicationRepository) GetByID(ctx context.Context, id int32) (*domain.Application, error) {
	query := `SELECT id, property_id, tenant_id, message, status, submitted_at FROM applications WHERE id = $1`
	app := &domain.Application{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&app.ID, &app.PropertyID, &app.TenantID, &app.Message, &app.Status, &app.SubmittedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}
	return app, nil
}

func (r *applicationRepository) List(ctx context.Context, scope repository.Scope) ([]domain.Application, error) {
	query := `
		SELECT a.id, a.property_id, a.tenant_id, a.message, a.status, a.submitted_at
		FROM applications a
		JOIN properties p ON p.id = a.property_id
		WHERE ($1 = 0 OR p.landlord_id = $1) AND ($2 = 0 OR a.tenant_id = $2)
		ORDER BY a.submitted_at DESC, a.id DESC
	`
	landlordID, tenantID := scopeArgs(scope)
	rows, err := r.db.QueryContext(ctx, query, landlordID, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var apps []domain.Application
	for rows.Next() {
		var a domain.Application
		if err := rows.Scan(&a.ID, &a.PropertyID, &a.TenantID, &a.Message, &a.Status, &a.SubmittedAt); err != nil {
			return nil, err
		}
		apps = append(apps, a)
	}
	return apps, rows.Err()
}

// TransitionStatus is a compare-and-swap on the status column. Concurrent
// deciders serialise on the row lock and all but one see zero rows affected.
func (r *applicationRepository) TransitionStatus(ctx context.Context, id int32, from, to domain.ApplicationStatus) error {
	logger.EnterMethod("applicationRepository.TransitionStatus", "applicationID", id, "from", from, "to", to)

	res, err := r.db.ExecContext(ctx,
		`UPDATE applications SET status = $1 WHERE id = $2 AND status = $3`, to, id, from)
	if err != nil {
		logger.ExitMethodWithError("applicationRepository.TransitionStatus", err, "applicationID", id)
		return mapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: application %d is no longer %s", domain.ErrInvalidState, id, from)
	}

	logger.ExitMethod("applicationRepository.TransitionStatus", "applicationID", id)
	return nil
}
