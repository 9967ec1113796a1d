package domain

import (
	"fmt"
	"strings"
	"time"
)

type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "OPEN"
	TicketStatusInProgress TicketStatus = "IN_PROGRESS"
	TicketStatusResolved   TicketStatus = "RESOLVED"
)

func (s TicketStatus) Valid() bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusResolved:
		return true
	}
	return false
}

type MaintenanceTicket struct {
	ID          int32        `json:"id"`
	LeaseID     int32        `json:"lease_id"`
	CreatedBy   int32        `json:"created_by"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Status      TicketStatus `json:"status"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

func (t *MaintenanceTicket) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if len(t.Title) > 200 {
		return fmt.Errorf("%w: title must be at most 200 characters", ErrValidation)
	}
	if !t.Status.Valid() {
		return fmt.Errorf("%w: unknown ticket status %q", ErrValidation, t.Status)
	}
	return nil
}
