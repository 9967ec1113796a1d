package http

import (
	"context"
	"net/http"

	"rental-portal-backend/internal/config"
	"rental-portal-backend/internal/security"
	"rental-portal-backend/internal/service"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Services holds everything the handlers call into.
type Services struct {
	Auth         service.AuthService
	Properties   service.PropertyService
	Applications service.ApplicationService
	Leases       service.LeaseService
	Payments     service.PaymentService
	Maintenance  service.MaintenanceService
	// Health reports whether backing stores are reachable. Nil means always healthy.
	Health func(ctx context.Context) error
}

type handler struct {
	services Services
}

// NewRouter builds the JSON API. Every route is named; the name selects its
// security level from config.RouteSecurityConfig.
func NewRouter(services Services, tokens security.TokenManager, metrics config.MetricsConfig) *mux.Router {
	h := &handler{services: services}
	r := mux.NewRouter()
	r.Use(requestIDMiddleware, metricsMiddleware, newAuthMiddleware(tokens).handle)
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeErrorMessage(w, http.StatusNotFound, "route not found")
	})

	r.HandleFunc("/health", h.health).Methods(http.MethodGet).Name("health")
	if metrics.Enabled {
		path := metrics.Path
		if path == "" {
			path = "/metrics"
		}
		r.Handle(path, promhttp.Handler()).Methods(http.MethodGet).Name("metrics")
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/auth/register", h.register).Methods(http.MethodPost).Name("auth.register")
	api.HandleFunc("/auth/login", h.login).Methods(http.MethodPost).Name("auth.login")

	api.HandleFunc("/properties", h.listProperties).Methods(http.MethodGet).Name("properties.list")
	api.HandleFunc("/properties/mine", h.listMyProperties).Methods(http.MethodGet).Name("properties.mine")
	api.HandleFunc("/properties/{id:[0-9]+}", h.getProperty).Methods(http.MethodGet).Name("properties.get")
	api.HandleFunc("/properties", h.createProperty).Methods(http.MethodPost).Name("properties.create")
	api.HandleFunc("/properties/{id:[0-9]+}", h.updateProperty).Methods(http.MethodPut).Name("properties.update")
	api.HandleFunc("/properties/{id:[0-9]+}", h.deleteProperty).Methods(http.MethodDelete).Name("properties.delete")

	api.HandleFunc("/properties/{id:[0-9]+}/applications", h.apply).Methods(http.MethodPost).Name("applications.create")
	api.HandleFunc("/applications", h.listApplications).Methods(http.MethodGet).Name("applications.list")
	api.HandleFunc("/applications/{id:[0-9]+}/approve", h.approveApplication).Methods(http.MethodPost).Name("applications.approve")
	api.HandleFunc("/applications/{id:[0-9]+}/reject", h.rejectApplication).Methods(http.MethodPost).Name("applications.reject")

	api.HandleFunc("/leases", h.listLeases).Methods(http.MethodGet).Name("leases.list")
	api.HandleFunc("/leases/{id:[0-9]+}", h.getLease).Methods(http.MethodGet).Name("leases.get")
	api.HandleFunc("/leases/{id:[0-9]+}/active", h.setLeaseActive).Methods(http.MethodPut).Name("leases.set_active")

	api.HandleFunc("/payments", h.listPayments).Methods(http.MethodGet).Name("payments.list")
	api.HandleFunc("/payments/{id:[0-9]+}/mark-paid", h.markPaid).Methods(http.MethodPost).Name("payments.mark_paid")

	api.HandleFunc("/tickets", h.listTickets).Methods(http.MethodGet).Name("tickets.list")
	api.HandleFunc("/leases/{id:[0-9]+}/tickets", h.createTicket).Methods(http.MethodPost).Name("tickets.create")
	api.HandleFunc("/tickets/{id:[0-9]+}", h.updateTicket).Methods(http.MethodPut).Name("tickets.update")

	return r
}

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	if h.services.Health != nil {
		if err := h.services.Health(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
