package service

import (
	"context"
	"fmt"

	"rental-portal-backend/internal/domain"
	"rental-portal-backend/internal/logger"
	"rental-portal-backend/internal/repository"
)

type propertyService struct {
	propertyRepo repository.PropertyRepository
	policy       Policy
}

func NewPropertyService(propertyRepo repository.PropertyRepository, policy Policy) PropertyService {
	return &propertyService{propertyRepo: propertyRepo, policy: policy}
}

// CreateProperty lists a new property owned by the caller.
func (s *propertyService) CreateProperty(ctx context.Context, actor domain.Actor, p *domain.Property) error {
	if !s.policy.CanCreateProperty(actor) {
		return fmt.Errorf("%w: only landlords can list properties", domain.ErrPermissionDenied)
	}
	p.LandlordID = actor.UserID
	if err := p.Validate(); err != nil {
		return err
	}
	if err := s.propertyRepo.Create(ctx, p); err != nil {
		return err
	}
	logger.InfoContext(ctx, "Property created", "propertyID", p.ID, "landlordID", p.LandlordID)
	return nil
}

// UpdateProperty replaces the listing fields. Existing leases keep the rent
// they were signed at.
func (s *propertyService) UpdateProperty(ctx context.Context, actor domain.Actor, p *domain.Property) error {
	existing, err := s.propertyRepo.GetByID(ctx, p.ID)
	if err != nil {
		return err
	}
	if !s.policy.CanManageProperty(actor, existing) {
		return fmt.Errorf("%w: not the landlord of property %d", domain.ErrPermissionDenied, p.ID)
	}
	p.LandlordID = existing.LandlordID
	p.CreatedAt = existing.CreatedAt
	if err := p.Validate(); err != nil {
		return err
	}
	return s.propertyRepo.Update(ctx, p)
}

func (s *propertyService) DeleteProperty(ctx context.Context, actor domain.Actor, id int32) error {
	existing, err := s.propertyRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !s.policy.CanManageProperty(actor, existing) {
		return fmt.Errorf("%w: not the landlord of property %d", domain.ErrPermissionDenied, id)
	}
	if err := s.propertyRepo.Delete(ctx, id); err != nil {
		return err
	}
	logger.InfoContext(ctx, "Property deleted", "propertyID", id, "by", actor.UserID)
	return nil
}

func (s *propertyService) GetProperty(ctx context.Context, id int32) (*domain.Property, error) {
	return s.propertyRepo.GetByID(ctx, id)
}

func (s *propertyService) ListProperties(ctx context.Context) ([]domain.Property, error) {
	return s.propertyRepo.ListActive(ctx)
}

func (s *propertyService) ListMyProperties(ctx context.Context, actor domain.Actor) ([]domain.Property, error) {
	return s.propertyRepo.ListByLandlord(ctx, actor.UserID)
}
