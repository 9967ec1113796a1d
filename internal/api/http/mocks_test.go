package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"rental-portal-backend/internal/config"
	"rental-portal-backend/internal/domain"
	"rental-portal-backend/internal/security"
	"rental-portal-backend/internal/service"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockAuthService struct{ mock.Mock }

func (m *MockAuthService) Register(ctx context.Context, email, name, password string, role domain.Role) (*domain.User, error) {
	args := m.Called(ctx, email, name, password, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockAuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(1) == nil {
		return args.String(0), nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(*domain.User), args.Error(2)
}

type MockPropertyService struct{ mock.Mock }

func (m *MockPropertyService) CreateProperty(ctx context.Context, actor domain.Actor, p *domain.Property) error {
	return m.Called(ctx, actor, p).Error(0)
}
func (m *MockPropertyService) UpdateProperty(ctx context.Context, actor domain.Actor, p *domain.Property) error {
	return m.Called(ctx, actor, p).Error(0)
}
func (m *MockPropertyService) DeleteProperty(ctx context.Context, actor domain.Actor, id int32) error {
	return m.Called(ctx, actor, id).Error(0)
}
func (m *MockPropertyService) GetProperty(ctx context.Context, id int32) (*domain.Property, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Property), args.Error(1)
}
func (m *MockPropertyService) ListProperties(ctx context.Context) ([]domain.Property, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Property), args.Error(1)
}
func (m *MockPropertyService) ListMyProperties(ctx context.Context, actor domain.Actor) ([]domain.Property, error) {
	args := m.Called(ctx, actor)
	return args.Get(0).([]domain.Property), args.Error(1)
}

type MockApplicationService struct{ mock.Mock }

func (m *MockApplicationService) Apply(ctx context.Context, actor domain.Actor, propertyID int32, message string) (*domain.Application, error) {
	args := m.Called(ctx, actor, propertyID, message)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}
func (m *MockApplicationService) ListApplications(ctx context.Context, actor domain.Actor) ([]domain.Application, error) {
	args := m.Called(ctx, actor)
	return args.Get(0).([]domain.Application), args.Error(1)
}
func (m *MockApplicationService) ApproveApplication(ctx context.Context, actor domain.Actor, id int32) (*service.Approval, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Approval), args.Error(1)
}
func (m *MockApplicationService) RejectApplication(ctx context.Context, actor domain.Actor, id int32) (*domain.Application, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}

type MockLeaseService struct{ mock.Mock }

func (m *MockLeaseService) ListLeases(ctx context.Context, actor domain.Actor) ([]domain.Lease, error) {
	args := m.Called(ctx, actor)
	return args.Get(0).([]domain.Lease), args.Error(1)
}
func (m *MockLeaseService) GetLease(ctx context.Context, actor domain.Actor, id int32) (*domain.Lease, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Lease), args.Error(1)
}
func (m *MockLeaseService) SetLeaseActive(ctx context.Context, actor domain.Actor, id int32, active bool) (*domain.Lease, error) {
	args := m.Called(ctx, actor, id, active)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Lease), args.Error(1)
}

type MockPaymentService struct{ mock.Mock }

func (m *MockPaymentService) ListPayments(ctx context.Context, actor domain.Actor, statuses []domain.PaymentStatus) ([]domain.Payment, error) {
	args := m.Called(ctx, actor, statuses)
	return args.Get(0).([]domain.Payment), args.Error(1)
}
func (m *MockPaymentService) MarkPaid(ctx context.Context, actor domain.Actor, id int32, method string) (*domain.Payment, error) {
	args := m.Called(ctx, actor, id, method)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}
func (m *MockPaymentService) SweepOverdue(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}
func (m *MockPaymentService) ListOverdueReminders(ctx context.Context) ([]domain.OverdueReminder, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.OverdueReminder), args.Error(1)
}

type MockMaintenanceService struct{ mock.Mock }

func (m *MockMaintenanceService) ListTickets(ctx context.Context, actor domain.Actor) ([]domain.MaintenanceTicket, error) {
	args := m.Called(ctx, actor)
	return args.Get(0).([]domain.MaintenanceTicket), args.Error(1)
}
func (m *MockMaintenanceService) CreateTicket(ctx context.Context, actor domain.Actor, leaseID int32, title, description string, status domain.TicketStatus) (*domain.MaintenanceTicket, error) {
	args := m.Called(ctx, actor, leaseID, title, description, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MaintenanceTicket), args.Error(1)
}
func (m *MockMaintenanceService) UpdateTicket(ctx context.Context, actor domain.Actor, id int32, update service.TicketUpdate) (*domain.MaintenanceTicket, error) {
	args := m.Called(ctx, actor, id, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MaintenanceTicket), args.Error(1)
}

const testSecret = "0123456789abcdef0123456789abcdef"

type testAPI struct {
	router       *mux.Router
	tokens       security.TokenManager
	auth         *MockAuthService
	properties   *MockPropertyService
	applications *MockApplicationService
	leases       *MockLeaseService
	payments     *MockPaymentService
	maintenance  *MockMaintenanceService
}

func newTestAPI() *testAPI {
	api := &testAPI{
		tokens:       security.NewTokenManager(testSecret, time.Hour),
		auth:         new(MockAuthService),
		properties:   new(MockPropertyService),
		applications: new(MockApplicationService),
		leases:       new(MockLeaseService),
		payments:     new(MockPaymentService),
		maintenance:  new(MockMaintenanceService),
	}
	api.router = NewRouter(Services{
		Auth:         api.auth,
		Properties:   api.properties,
		Applications: api.applications,
		Leases:       api.leases,
		Payments:     api.payments,
		Maintenance:  api.maintenance,
	}, api.tokens, config.MetricsConfig{Enabled: false})
	return api
}

func (a *testAPI) token(t *testing.T, user *domain.User) string {
	t.Helper()
	token, err := a.tokens.GenerateAccessToken(user)
	require.NoError(t, err)
	return token
}

// do sends a request; an empty token sends it unauthenticated.
func (a *testAPI) do(method, path, body, token string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

var (
	landlordUser = &domain.User{ID: 4, Email: "lee@example.com", Role: domain.RoleLandlord}
	tenantUser   = &domain.User{ID: 7, Email: "tina@example.com", Role: domain.RoleTenant}
	staffUser    = &domain.User{ID: 1, Email: "ops@example.com", Role: domain.RoleTenant, IsStaff: true}
)
