package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"rental-portal-backend/internal/domain"
	"rental-portal-backend/internal/security"
	"rental-portal-backend/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func decodeBody[T any](t *testing.T, body []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(body, &v))
	return v
}

func TestHealth(t *testing.T) {
	api := newTestAPI()
	rec := api.do(http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))
}

func TestRequestIDIsEchoed(t *testing.T) {
	api := newTestAPI()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "req-123")
	rec := httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)
	assert.Equal(t, "req-123", rec.Header().Get(requestIDHeader))
}

func TestAuthMiddleware(t *testing.T) {
	api := newTestAPI()
	api.leases.On("ListLeases", mock.Anything, mock.Anything).Return([]domain.Lease{}, nil)

	t.Run("Missing token", func(t *testing.T) {
		rec := api.do(http.MethodGet, "/api/v1/leases", "", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Garbage token", func(t *testing.T) {
		rec := api.do(http.MethodGet, "/api/v1/leases", "", "not.a.jwt")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Token signed with another secret", func(t *testing.T) {
		other := security.NewTokenManager("another-secret-another-secret-xx", time.Hour)
		token, err := other.GenerateAccessToken(tenantUser)
		require.NoError(t, err)
		rec := api.do(http.MethodGet, "/api/v1/leases", "", token)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Valid token reaches handler with actor", func(t *testing.T) {
		rec := api.do(http.MethodGet, "/api/v1/leases", "", api.token(t, tenantUser))
		assert.Equal(t, http.StatusOK, rec.Code)
		api.leases.AssertCalled(t, "ListLeases", mock.Anything, domain.Actor{UserID: 7, Role: domain.RoleTenant})
	})

	t.Run("Tenant on landlord route", func(t *testing.T) {
		rec := api.do(http.MethodGet, "/api/v1/applications", "", api.token(t, tenantUser))
		assert.Equal(t, http.StatusForbidden, rec.Code)
		api.applications.AssertNotCalled(t, "ListApplications", mock.Anything, mock.Anything)
	})
}

func TestRegisterAndLogin(t *testing.T) {
	api := newTestAPI()

	t.Run("Register", func(t *testing.T) {
		api.auth.On("Register", mock.Anything, "tina@example.com", "Tina", "password123", domain.RoleTenant).
			Return(&domain.User{ID: 7, Email: "tina@example.com", Name: "Tina", PasswordHash: "secret-hash", Role: domain.RoleTenant}, nil)

		rec := api.do(http.MethodPost, "/api/v1/auth/register",
			`{"email":"tina@example.com","name":"Tina","password":"password123","role":"TENANT"}`, "")
		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.NotContains(t, rec.Body.String(), "secret-hash")
	})

	t.Run("Unknown field", func(t *testing.T) {
		rec := api.do(http.MethodPost, "/api/v1/auth/register", `{"email":"x@example.com","admin":true}`, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Bad credentials", func(t *testing.T) {
		api.auth.On("Login", mock.Anything, "tina@example.com", "wrong").Return("", nil, service.ErrInvalidCredentials)

		rec := api.do(http.MethodPost, "/api/v1/auth/login", `{"email":"tina@example.com","password":"wrong"}`, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Login", func(t *testing.T) {
		api.auth.On("Login", mock.Anything, "tina@example.com", "password123").Return("tok", tenantUser, nil)

		rec := api.do(http.MethodPost, "/api/v1/auth/login", `{"email":"tina@example.com","password":"password123"}`, "")
		require.Equal(t, http.StatusOK, rec.Code)
		resp := decodeBody[loginResponse](t, rec.Body.Bytes())
		assert.Equal(t, "tok", resp.AccessToken)
		assert.Equal(t, "Bearer", resp.TokenType)
	})
}

func TestPropertyRoutes(t *testing.T) {
	api := newTestAPI()

	t.Run("Public list", func(t *testing.T) {
		api.properties.On("ListProperties", mock.Anything).Return([]domain.Property{{ID: 3, Title: "Loft"}}, nil)
		rec := api.do(http.MethodGet, "/api/v1/properties", "", "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("Mine is not parsed as an id", func(t *testing.T) {
		api.properties.On("ListMyProperties", mock.Anything, landlordUser.Actor()).Return([]domain.Property{}, nil)
		rec := api.do(http.MethodGet, "/api/v1/properties/mine", "", api.token(t, landlordUser))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("Create", func(t *testing.T) {
		api.properties.On("CreateProperty", mock.Anything, landlordUser.Actor(), mock.MatchedBy(func(p *domain.Property) bool {
			return p.Title == "Loft" && p.MonthlyRent.Equal(decimal.RequireFromString("1200.50")) && p.IsActive
		})).Return(nil)

		rec := api.do(http.MethodPost, "/api/v1/properties",
			`{"title":"Loft","address":"1 Main St","monthly_rent":"1200.50","bedrooms":2,"bathrooms":1}`, api.token(t, landlordUser))
		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("Get missing", func(t *testing.T) {
		api.properties.On("GetProperty", mock.Anything, int32(404)).Return(nil, fmt.Errorf("%w: property 404", domain.ErrNotFound))
		rec := api.do(http.MethodGet, "/api/v1/properties/404", "", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("Staff deletes", func(t *testing.T) {
		api.properties.On("DeleteProperty", mock.Anything, staffUser.Actor(), int32(3)).Return(nil)
		rec := api.do(http.MethodDelete, "/api/v1/properties/3", "", api.token(t, staffUser))
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}

func TestApplicationRoutes(t *testing.T) {
	api := newTestAPI()

	t.Run("Apply", func(t *testing.T) {
		api.applications.On("Apply", mock.Anything, tenantUser.Actor(), int32(3), "Hi").
			Return(&domain.Application{ID: 10, PropertyID: 3, TenantID: 7, Status: domain.ApplicationStatusPending}, nil)
		rec := api.do(http.MethodPost, "/api/v1/properties/3/applications", `{"message":"Hi"}`, api.token(t, tenantUser))
		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("Approve", func(t *testing.T) {
		approval := &service.Approval{
			Application: &domain.Application{ID: 10, Status: domain.ApplicationStatusApproved},
			Lease:       &domain.Lease{ID: 21},
			Payments:    []*domain.Payment{{LeaseID: 21}, {LeaseID: 21}},
		}
		api.applications.On("ApproveApplication", mock.Anything, landlordUser.Actor(), int32(10)).Return(approval, nil)

		rec := api.do(http.MethodPost, "/api/v1/applications/10/approve", "", api.token(t, landlordUser))
		require.Equal(t, http.StatusCreated, rec.Code)
		got := decodeBody[service.Approval](t, rec.Body.Bytes())
		assert.Len(t, got.Payments, 2)
	})

	t.Run("Approve twice conflicts", func(t *testing.T) {
		api.applications.On("ApproveApplication", mock.Anything, landlordUser.Actor(), int32(11)).
			Return(nil, fmt.Errorf("%w: application 11 is APPROVED", domain.ErrInvalidState))
		rec := api.do(http.MethodPost, "/api/v1/applications/11/approve", "", api.token(t, landlordUser))
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("Reject denied", func(t *testing.T) {
		api.applications.On("RejectApplication", mock.Anything, landlordUser.Actor(), int32(12)).
			Return(nil, domain.ErrPermissionDenied)
		rec := api.do(http.MethodPost, "/api/v1/applications/12/reject", "", api.token(t, landlordUser))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestPaymentRoutes(t *testing.T) {
	api := newTestAPI()

	t.Run("Status filter", func(t *testing.T) {
		api.payments.On("ListPayments", mock.Anything, tenantUser.Actor(),
			[]domain.PaymentStatus{domain.PaymentStatusDue, domain.PaymentStatusOverdue}).Return([]domain.Payment{}, nil)
		rec := api.do(http.MethodGet, "/api/v1/payments?status=due,OVERDUE", "", api.token(t, tenantUser))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("Unknown status", func(t *testing.T) {
		rec := api.do(http.MethodGet, "/api/v1/payments?status=LATE", "", api.token(t, tenantUser))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Mark paid", func(t *testing.T) {
		paidOn := time.Date(2024, 2, 3, 0, 0, 0, 0, time.UTC)
		api.payments.On("MarkPaid", mock.Anything, tenantUser.Actor(), int32(1), "CASH").
			Return(&domain.Payment{ID: 1, Status: domain.PaymentStatusPaid, PaidOn: &paidOn, Method: domain.PaymentMethodCash}, nil)
		rec := api.do(http.MethodPost, "/api/v1/payments/1/mark-paid", `{"method":"CASH"}`, api.token(t, tenantUser))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("Mark paid with bad method", func(t *testing.T) {
		api.payments.On("MarkPaid", mock.Anything, tenantUser.Actor(), int32(2), "GOLD").
			Return(nil, fmt.Errorf("%w: unknown payment method", domain.ErrValidation))
		rec := api.do(http.MethodPost, "/api/v1/payments/2/mark-paid", `{"method":"GOLD"}`, api.token(t, tenantUser))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Unexpected error is hidden", func(t *testing.T) {
		api.payments.On("MarkPaid", mock.Anything, tenantUser.Actor(), int32(3), "CARD").
			Return(nil, errors.New("pq: connection refused"))
		rec := api.do(http.MethodPost, "/api/v1/payments/3/mark-paid", `{"method":"CARD"}`, api.token(t, tenantUser))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "pq:")
	})
}

func TestLeaseAndTicketRoutes(t *testing.T) {
	api := newTestAPI()

	t.Run("Set active requires field", func(t *testing.T) {
		rec := api.do(http.MethodPut, "/api/v1/leases/21/active", `{}`, api.token(t, landlordUser))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Set active", func(t *testing.T) {
		api.leases.On("SetLeaseActive", mock.Anything, landlordUser.Actor(), int32(21), false).
			Return(&domain.Lease{ID: 21}, nil)
		rec := api.do(http.MethodPut, "/api/v1/leases/21/active", `{"is_active":false}`, api.token(t, landlordUser))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("Create ticket", func(t *testing.T) {
		api.maintenance.On("CreateTicket", mock.Anything, tenantUser.Actor(), int32(21), "Leaky tap", "Kitchen", domain.TicketStatus("")).
			Return(&domain.MaintenanceTicket{ID: 30, Status: domain.TicketStatusOpen}, nil)
		rec := api.do(http.MethodPost, "/api/v1/leases/21/tickets", `{"title":"Leaky tap","description":"Kitchen"}`, api.token(t, tenantUser))
		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("Update ticket", func(t *testing.T) {
		resolved := domain.TicketStatusResolved
		api.maintenance.On("UpdateTicket", mock.Anything, landlordUser.Actor(), int32(30), service.TicketUpdate{Status: &resolved}).
			Return(&domain.MaintenanceTicket{ID: 30, Status: resolved}, nil)
		rec := api.do(http.MethodPut, "/api/v1/tickets/30", `{"status":"RESOLVED"}`, api.token(t, landlordUser))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{domain.ErrValidation, http.StatusBadRequest},
		{fmt.Errorf("wrapped: %w", domain.ErrPermissionDenied), http.StatusForbidden},
		{domain.ErrNotFound, http.StatusNotFound},
		{domain.ErrInvalidState, http.StatusConflict},
		{service.ErrInvalidCredentials, http.StatusUnauthorized},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), tt.err.Error())
	}
}
