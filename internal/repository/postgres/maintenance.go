package postgres

import (
	"context"

	"rental-portal-backend/internal/domain"
	"rental-portal-backend/internal/logger"
	"rental-portal-backend/internal/repository"
)

type maintenanceRepository struct {
	db DBTX
}

func NewMaintenanceRepository(db DBTX) repository.MaintenanceRepository {
	return &maintenanceRepository{db: db}
}

func (r *maintenanceRepository) Create(ctx context.Context, t *domain.MaintenanceTicket) error {
	logger.EnterMethod("maintenanceRepository.Create", "leaseID", t.LeaseID)

	query := `
		INSERT INTO maintenance_tickets (lease_id, created_by, title, description, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query, t.LeaseID, t.CreatedBy, t.Title, t.Description, t.Status).
		Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		logger.ExitMethodWithError("maintenanceRepository.Create", err, "leaseID", t.LeaseID)
		return mapError(err)
	}

	logger.ExitMethod("maintenanceRepository.Create", "ticketID", t.ID)
	return nil
}

func (r *maintenanceRepository) GetByID(ctx context.Context, id int32) (*domain.MaintenanceTicket, error) {
	query := `SELECT id, lease_id, created_by, title, description, status, created_at, updated_at
	          FROM maintenance_tickets WHERE id = $1`
	t := &domain.MaintenanceTicket{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&t.ID, &t.LeaseID, &t.CreatedBy, &t.Title, &t.Description, &t.Status, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}
	return t, nil
}

func (r *maintenanceRepository) Update(ctx context.Context, t *domain.MaintenanceTicket) error {
	logger.EnterMethod("maintenanceRepository.Update", "ticketID", t.ID, "status", t.Status)

	query := `
		UPDATE maintenance_tickets SET title = $1, description = $2, status = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING updated_at
	`
	err := r.db.QueryRowContext(ctx, query, t.Title, t.Description, t.Status, t.ID).Scan(&t.UpdatedAt)
	if err != nil {
		logger.ExitMethodWithError("maintenanceRepository.Update", err, "ticketID", t.ID)
		return mapError(err)
	}

	logger.ExitMethod("maintenanceRepository.Update", "ticketID", t.ID)
	return nil
}

func (r *maintenanceRepository) List(ctx context.Context, scope repository.Scope) ([]domain.MaintenanceTicket, error) {
	query := `
		SELECT t.id, t.lease_id, t.created_by, t.title, t.description, t.status, t.created_at, t.updated_at
		FROM maintenance_tickets t
		JOIN leases l ON l.id = t.lease_id
		JOIN properties p ON p.id = l.property_id
		WHERE ($1 = 0 OR p.landlord_id = $1) AND ($2 = 0 OR l.tenant_id = $2)
		ORDER BY t.created_at DESC, t.id DESC
	`
	landlordID, tenantID := scopeArgs(scope)
	rows, err := r.db.QueryContext(ctx, query, landlordID, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tickets []domain.MaintenanceTicket
	for rows.Next() {
		var t domain.MaintenanceTicket
		if err := rows.Scan(&t.ID, &t.LeaseID, &t.CreatedBy, &t.Title, &t.Description, &t.Status, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		tickets = append(tickets, t)
	}
	return tickets, rows.Err()
}
