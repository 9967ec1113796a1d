package repository

import (
	"context"
	"time"

	"rental-portal-backend/internal/domain"
)

// Scope narrows a list query to what one actor may see. A zero Scope means
// no restriction (staff). LandlordID matches through the property owner,
// TenantID through the lease or application tenant.
type Scope struct {
	LandlordID int32
	TenantID   int32
}

// ScopeFor derives the visibility scope for an actor.
func ScopeFor(actor domain.Actor) Scope {
	switch {
	case actor.IsStaff:
		return Scope{}
	case actor.IsLandlord():
		return Scope{LandlordID: actor.UserID}
	default:
		return Scope{TenantID: actor.UserID}
	}
}

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int32) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type PropertyRepository interface {
	Create(ctx context.Context, property *domain.Property) error
	GetByID(ctx context.Context, id int32) (*domain.Property, error)
	Update(ctx context.Context, property *domain.Property) error
	Delete(ctx context.Context, id int32) error
	ListActive(ctx context.Context) ([]domain.Property, error)
	ListByLandlord(ctx context.Context, landlordID int32) ([]domain.Property, error)
}

type ApplicationRepository interface {
	Create(ctx context.Context, app *domain.Application) error
	GetByID(ctx context.Context, id int32) (*domain.Application, error)
	List(ctx context.Context, scope Scope) ([]domain.Application, error)
	// TransitionStatus moves the application from one status to another only
	// if it is still in from. Losing the race returns domain.ErrInvalidState.
	TransitionStatus(ctx context.Context, id int32, from, to domain.ApplicationStatus) error
}

type LeaseRepository interface {
	Create(ctx context.Context, lease *domain.Lease) error
	GetByID(ctx context.Context, id int32) (*domain.Lease, error)
	List(ctx context.Context, scope Scope) ([]domain.Lease, error)
	SetActive(ctx context.Context, id int32, active bool) error
}

type PaymentRepository interface {
	CreateBatch(ctx context.Context, payments []*domain.Payment) error
	GetByID(ctx context.Context, id int32) (*domain.Payment, error)
	// List returns payments within scope ordered by due date. An empty
	// statuses slice matches every status.
	List(ctx context.Context, scope Scope, statuses []domain.PaymentStatus) ([]domain.Payment, error)
	// ListDueBefore returns DUE payments within scope whose due date is
	// strictly before cutoff.
	ListDueBefore(ctx context.Context, scope Scope, cutoff time.Time) ([]domain.Payment, error)
	// MarkOverdue persists status, amount and fee flag if the stored row is
	// still DUE. It reports whether this call performed the update.
	MarkOverdue(ctx context.Context, payment *domain.Payment) (bool, error)
	// MarkPaid persists the paid fields if the stored row is not yet PAID.
	MarkPaid(ctx context.Context, payment *domain.Payment) (bool, error)
	ListOverdueReminders(ctx context.Context) ([]domain.OverdueReminder, error)
}

type MaintenanceRepository interface {
	Create(ctx context.Context, ticket *domain.MaintenanceTicket) error
	GetByID(ctx context.Context, id int32) (*domain.MaintenanceTicket, error)
	Update(ctx context.Context, ticket *domain.MaintenanceTicket) error
	List(ctx context.Context, scope Scope) ([]domain.MaintenanceTicket, error)
}

// Repositories is the set of repositories bound to one database handle,
// either the pool or an open transaction.
type Repositories struct {
	Users        UserRepository
	Properties   PropertyRepository
	Applications ApplicationRepository
	Leases       LeaseRepository
	Payments     PaymentRepository
	Maintenance  MaintenanceRepository
}

// Transactor runs fn against repositories sharing a single transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(repos Repositories) error) error
}
