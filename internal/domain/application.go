package domain

import (
	"fmt"
	"time"
)

type ApplicationStatus string

const (
	ApplicationStatusPending  ApplicationStatus = "PENDING"
	ApplicationStatusApproved ApplicationStatus = "APPROVED"
	ApplicationStatusRejected ApplicationStatus = "REJECTED"
)

type Application struct {
	ID          int32             `json:"id"`
	PropertyID  int32             `json:"property_id"`
	TenantID    int32             `json:"tenant_id"`
	Message     string            `json:"message"`
	Status      ApplicationStatus `json:"status"`
	SubmittedAt time.Time         `json:"submitted_at"`
}

// Approve moves a pending application to APPROVED. The state is checked
// before authorization, so a decided application reports ErrInvalidState to
// every caller.
func (a *Application) Approve(authorized bool) error {
	return a.decide(ApplicationStatusApproved, authorized)
}

// Reject moves a pending application to REJECTED.
func (a *Application) Reject(authorized bool) error {
	return a.decide(ApplicationStatusRejected, authorized)
}

func (a *Application) decide(target ApplicationStatus, authorized bool) error {
	if a.Status != ApplicationStatusPending {
		return fmt.Errorf("%w: application %d is %s", ErrInvalidState, a.ID, a.Status)
	}
	if !authorized {
		return fmt.Errorf("%w: not allowed to decide application %d", ErrPermissionDenied, a.ID)
	}
	a.Status = target
	return nil
}
