package service

import (
	"context"
	"time"

	"rental-portal-backend/internal/domain"
	"rental-portal-backend/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockUserRepo struct{ mock.Mock }

func (m *MockUserRepo) Create(ctx context.Context, u *domain.User) error {
	return m.Called(ctx, u).Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type MockPropertyRepo struct{ mock.Mock }

func (m *MockPropertyRepo) Create(ctx context.Context, p *domain.Property) error {
	return m.Called(ctx, p).Error(0)
}
func (m *MockPropertyRepo) GetByID(ctx context.Context, id int32) (*domain.Property, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Property), args.Error(1)
}
func (m *MockPropertyRepo) Update(ctx context.Context, p *domain.Property) error {
	return m.Called(ctx, p).Error(0)
}
func (m *MockPropertyRepo) Delete(ctx context.Context, id int32) error {
	return m.Called(ctx, id).Error(0)
}
func (m *MockPropertyRepo) ListActive(ctx context.Context) ([]domain.Property, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Property), args.Error(1)
}
func (m *MockPropertyRepo) ListByLandlord(ctx context.Context, landlordID int32) ([]domain.Property, error) {
	args := m.Called(ctx, landlordID)
	return args.Get(0).([]domain.Property), args.Error(1)
}

type MockApplicationRepo struct{ mock.Mock }

func (m *MockApplicationRepo) Create(ctx context.Context, a *domain.Application) error {
	return m.Called(ctx, a).Error(0)
}
func (m *MockApplicationRepo) GetByID(ctx context.Context, id int32) (*domain.Application, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}
func (m *MockApplicationRepo) List(ctx context.Context, scope repository.Scope) ([]domain.Application, error) {
	args := m.Called(ctx, scope)
	return args.Get(0).([]domain.Application), args.Error(1)
}
func (m *MockApplicationRepo) TransitionStatus(ctx context.Context, id int32, from, to domain.ApplicationStatus) error {
	return m.Called(ctx, id, from, to).Error(0)
}

type MockLeaseRepo struct{ mock.Mock }

func (m *MockLeaseRepo) Create(ctx context.Context, l *domain.Lease) error {
	return m.Called(ctx, l).Error(0)
}
func (m *MockLeaseRepo) GetByID(ctx context.Context, id int32) (*domain.Lease, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Lease), args.Error(1)
}
func (m *MockLeaseRepo) List(ctx context.Context, scope repository.Scope) ([]domain.Lease, error) {
	args := m.Called(ctx, scope)
	return args.Get(0).([]domain.Lease), args.Error(1)
}
func (m *MockLeaseRepo) SetActive(ctx context.Context, id int32, active bool) error {
	return m.Called(ctx, id, active).Error(0)
}

type MockPaymentRepo struct{ mock.Mock }

func (m *MockPaymentRepo) CreateBatch(ctx context.Context, payments []*domain.Payment) error {
	return m.Called(ctx, payments).Error(0)
}
func (m *MockPaymentRepo) GetByID(ctx context.Context, id int32) (*domain.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}
func (m *MockPaymentRepo) List(ctx context.Context, scope repository.Scope, statuses []domain.PaymentStatus) ([]domain.Payment, error) {
	args := m.Called(ctx, scope, statuses)
	return args.Get(0).([]domain.Payment), args.Error(1)
}
func (m *MockPaymentRepo) ListDueBefore(ctx context.Context, scope repository.Scope, cutoff time.Time) ([]domain.Payment, error) {
	args := m.Called(ctx, scope, cutoff)
	return args.Get(0).([]domain.Payment), args.Error(1)
}
func (m *MockPaymentRepo) MarkOverdue(ctx context.Context, p *domain.Payment) (bool, error) {
	args := m.Called(ctx, p)
	return args.Bool(0), args.Error(1)
}
func (m *MockPaymentRepo) MarkPaid(ctx context.Context, p *domain.Payment) (bool, error) {
	args := m.Called(ctx, p)
	return args.Bool(0), args.Error(1)
}
func (m *MockPaymentRepo) ListOverdueReminders(ctx context.Context) ([]domain.OverdueReminder, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.OverdueReminder), args.Error(1)
}

type MockMaintenanceRepo struct{ mock.Mock }

func (m *MockMaintenanceRepo) Create(ctx context.Context, t *domain.MaintenanceTicket) error {
	return m.Called(ctx, t).Error(0)
}
func (m *MockMaintenanceRepo) GetByID(ctx context.Context, id int32) (*domain.MaintenanceTicket, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MaintenanceTicket), args.Error(1)
}
func (m *MockMaintenanceRepo) Update(ctx context.Context, t *domain.MaintenanceTicket) error {
	return m.Called(ctx, t).Error(0)
}
func (m *MockMaintenanceRepo) List(ctx context.Context, scope repository.Scope) ([]domain.MaintenanceTicket, error) {
	args := m.Called(ctx, scope)
	return args.Get(0).([]domain.MaintenanceTicket), args.Error(1)
}

type MockEmailService struct{ mock.Mock }

func (m *MockEmailService) SendApplicationDecision(ctx context.Context, email, name, propertyTitle string, status domain.ApplicationStatus) error {
	return m.Called(ctx, email, name, propertyTitle, status).Error(0)
}
func (m *MockEmailService) SendOverdueReminder(ctx context.Context, email, name, propertyTitle string, dueDate time.Time, amount decimal.Decimal) error {
	return m.Called(ctx, email, name, propertyTitle, dueDate, amount).Error(0)
}

// fakeTx runs the callback directly against the mock repositories.
type fakeTx struct {
	repos repository.Repositories
}

func (f *fakeTx) WithinTx(ctx context.Context, fn func(repos repository.Repositories) error) error {
	return fn(f.repos)
}

type mockSet struct {
	users        *MockUserRepo
	properties   *MockPropertyRepo
	applications *MockApplicationRepo
	leases       *MockLeaseRepo
	payments     *MockPaymentRepo
	maintenance  *MockMaintenanceRepo
	email        *MockEmailService
}

func newMockSet() *mockSet {
	return &mockSet{
		users:        new(MockUserRepo),
		properties:   new(MockPropertyRepo),
		applications: new(MockApplicationRepo),
		leases:       new(MockLeaseRepo),
		payments:     new(MockPaymentRepo),
		maintenance:  new(MockMaintenanceRepo),
		email:        new(MockEmailService),
	}
}

func (m *mockSet) repos() repository.Repositories {
	return repository.Repositories{
		Users:        m.users,
		Properties:   m.properties,
		Applications: m.applications,
		Leases:       m.leases,
		Payments:     m.payments,
		Maintenance:  m.maintenance,
	}
}

func fixedClock(y int, mo time.Month, d int) Clock {
	return func() time.Time { return time.Date(y, mo, d, 9, 30, 0, 0, time.UTC) }
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

var (
	landlord = domain.Actor{UserID: 4, Role: domain.RoleLandlord}
	tenant   = domain.Actor{UserID: 7, Role: domain.RoleTenant}
	stranger = domain.Actor{UserID: 99, Role: domain.RoleTenant}
	staff    = domain.Actor{UserID: 1, Role: domain.RoleTenant, IsStaff: true}
)
