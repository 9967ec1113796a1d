package service

import (
	"context"
	"fmt"

	"rental-portal-backend/internal/domain"
	"rental-portal-backend/internal/logger"
	"rental-portal-backend/internal/repository"
)

type leaseService struct {
	leaseRepo repository.LeaseRepository
	policy    Policy
}

func NewLeaseService(leaseRepo repository.LeaseRepository, policy Policy) LeaseService {
	return &leaseService{leaseRepo: leaseRepo, policy: policy}
}

func (s *leaseService) ListLeases(ctx context.Context, actor domain.Actor) ([]domain.Lease, error) {
	return s.leaseRepo.List(ctx, repository.ScopeFor(actor))
}

func (s *leaseService) GetLease(ctx context.Context, actor domain.Actor, id int32) (*domain.Lease, error) {
	lease, err := s.leaseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.policy.CanAccessLease(actor, lease) {
		return nil, fmt.Errorf("%w: lease %d", domain.ErrPermissionDenied, id)
	}
	return lease, nil
}

// SetLeaseActive toggles the lease flag only; the payment schedule is fixed
// at creation and is not regenerated.
func (s *leaseService) SetLeaseActive(ctx context.Context, actor domain.Actor, id int32, active bool) (*domain.Lease, error) {
	lease, err := s.leaseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.policy.CanManageLease(actor, lease) {
		return nil, fmt.Errorf("%w: lease %d", domain.ErrPermissionDenied, id)
	}
	if err := s.leaseRepo.SetActive(ctx, id, active); err != nil {
		return nil, err
	}
	lease.IsActive = active
	logger.InfoContext(ctx, "Lease active flag changed", "leaseID", id, "active", active, "by", actor.UserID)
	return lease, nil
}
