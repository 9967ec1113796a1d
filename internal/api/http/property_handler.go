package http

import (
	"net/http"

	"rental-portal-backend/internal/domain"

	"github.com/shopspring/decimal"
)

type propertyRequest struct {
	Title       string          `json:"title"`
	Address     string          `json:"address"`
	MonthlyRent decimal.Decimal `json:"monthly_rent"`
	Bedrooms    int32           `json:"bedrooms"`
	Bathrooms   int32           `json:"bathrooms"`
	Sqft        *int32          `json:"sqft"`
	Description string          `json:"description"`
	IsActive    *bool           `json:"is_active"`
}

func (req propertyRequest) toProperty() *domain.Property {
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	return &domain.Property{
		Title:       req.Title,
		Address:     req.Address,
		MonthlyRent: req.MonthlyRent,
		Bedrooms:    req.Bedrooms,
		Bathrooms:   req.Bathrooms,
		Sqft:        req.Sqft,
		Description: req.Description,
		IsActive:    active,
	}
}

func (h *handler) listProperties(w http.ResponseWriter, r *http.Request) {
	props, err := h.services.Properties.ListProperties(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, props)
}

func (h *handler) listMyProperties(w http.ResponseWriter, r *http.Request) {
	actor, ok := mustActor(w, r)
	if !ok {
		return
	}
	props, err := h.services.Properties.ListMyProperties(r.Context(), actor)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, props)
}

func (h *handler) getProperty(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	prop, err := h.services.Properties.GetProperty(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, prop)
}

func (h *handler) createProperty(w http.ResponseWriter, r *http.Request) {
	actor, ok := mustActor(w, r)
	if !ok {
		return
	}
	var req propertyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	prop := req.toProperty()
	if err := h.services.Properties.CreateProperty(r.Context(), actor, prop); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, prop)
}

func (h *handler) updateProperty(w http.ResponseWriter, r *http.Request) {
	actor, ok := mustActor(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req propertyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	prop := req.toProperty()
	prop.ID = id
	if err := h.services.Properties.UpdateProperty(r.Context(), actor, prop); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, prop)
}

func (h *handler) deleteProperty(w http.ResponseWriter, r *http.Request) {
	actor, ok := mustActor(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.services.Properties.DeleteProperty(r.Context(), actor, id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
