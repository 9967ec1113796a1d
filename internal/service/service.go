package service

import (
	"context"
	"time"

	"rental-portal-backend/internal/domain"

	"github.com/shopspring/decimal"
)

// Clock returns the current instant. Services take one so tests can pin today.
type Clock func() time.Time

func clockOrNow(c Clock) Clock {
	if c == nil {
		return time.Now
	}
	return c
}

type AuthService interface {
	Register(ctx context.Context, email, name, password string, role domain.Role) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}

type PropertyService interface {
	CreateProperty(ctx context.Context, actor domain.Actor, property *domain.Property) error
	UpdateProperty(ctx context.Context, actor domain.Actor, property *domain.Property) error
	DeleteProperty(ctx context.Context, actor domain.Actor, id int32) error
	GetProperty(ctx context.Context, id int32) (*domain.Property, error)
	ListProperties(ctx context.Context) ([]domain.Property, error)
	ListMyProperties(ctx context.Context, actor domain.Actor) ([]domain.Property, error)
}

// Approval is everything created when an application is approved.
type Approval struct {
	Application *domain.Application `json:"application"`
	Lease       *domain.Lease       `json:"lease"`
	Payments    []*domain.Payment   `json:"payments"`
}

type ApplicationService interface {
	Apply(ctx context.Context, actor domain.Actor, propertyID int32, message string) (*domain.Application, error)
	ListApplications(ctx context.Context, actor domain.Actor) ([]domain.Application, error)
	ApproveApplication(ctx context.Context, actor domain.Actor, id int32) (*Approval, error)
	RejectApplication(ctx context.Context, actor domain.Actor, id int32) (*domain.Application, error)
}

type LeaseService interface {
	ListLeases(ctx context.Context, actor domain.Actor) ([]domain.Lease, error)
	GetLease(ctx context.Context, actor domain.Actor, id int32) (*domain.Lease, error)
	SetLeaseActive(ctx context.Context, actor domain.Actor, id int32, active bool) (*domain.Lease, error)
}

type PaymentService interface {
	// ListPayments brings the caller's overdue payments up to date, then
	// lists them by due date.
	ListPayments(ctx context.Context, actor domain.Actor, statuses []domain.PaymentStatus) ([]domain.Payment, error)
	MarkPaid(ctx context.Context, actor domain.Actor, id int32, method string) (*domain.Payment, error)
	// SweepOverdue applies the overdue rule to every DUE payment and returns
	// how many were flipped.
	SweepOverdue(ctx context.Context) (int, error)
	ListOverdueReminders(ctx context.Context) ([]domain.OverdueReminder, error)
}

// TicketUpdate holds the fields a landlord may change; nil leaves a field as is.
type TicketUpdate struct {
	Title       *string
	Description *string
	Status      *domain.TicketStatus
}

type MaintenanceService interface {
	ListTickets(ctx context.Context, actor domain.Actor) ([]domain.MaintenanceTicket, error)
	CreateTicket(ctx context.Context, actor domain.Actor, leaseID int32, title, description string, status domain.TicketStatus) (*domain.MaintenanceTicket, error)
	UpdateTicket(ctx context.Context, actor domain.Actor, id int32, update TicketUpdate) (*domain.MaintenanceTicket, error)
}

type EmailService interface {
	SendApplicationDecision(ctx context.Context, email, name, propertyTitle string, status domain.ApplicationStatus) error
	SendOverdueReminder(ctx context.Context, email, name, propertyTitle string, dueDate time.Time, amount decimal.Decimal) error
}
