package http

import (
	"fmt"
	"net/http"
	"strings"

	"rental-portal-backend/internal/domain"
)

type markPaidRequest struct {
	Method string `json:"method"`
}

// parseStatuses accepts ?status=DUE&status=OVERDUE as well as ?status=DUE,OVERDUE.
func parseStatuses(r *http.Request) ([]domain.PaymentStatus, error) {
	var statuses []domain.PaymentStatus
	for _, raw := range r.URL.Query()["status"] {
		for _, part := range strings.Split(raw, ",") {
			part = strings.ToUpper(strings.TrimSpace(part))
			if part == "" {
				continue
			}
			s := domain.PaymentStatus(part)
			switch s {
			case domain.PaymentStatusDue, domain.PaymentStatusPaid, domain.PaymentStatusOverdue:
				statuses = append(statuses, s)
			default:
				return nil, fmt.Errorf("%w: unknown payment status %q", domain.ErrValidation, part)
			}
		}
	}
	return statuses, nil
}

func (h *handler) listPayments(w http.ResponseWriter, r *http.Request) {
	actor, ok := mustActor(w, r)
	if !ok {
		return
	}
	statuses, err := parseStatuses(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	payments, err := h.services.Payments.ListPayments(r.Context(), actor, statuses)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, payments)
}

func (h *handler) markPaid(w http.ResponseWriter, r *http.Request) {
	actor, ok := mustActor(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req markPaidRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	payment, err := h.services.Payments.MarkPaid(r.Context(), actor, id, req.Method)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, payment)
}
