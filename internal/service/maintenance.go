package service

import (
	"context"
	"fmt"
	"strings"

	"rental-portal-backend/internal/domain"
	"rental-portal-backend/internal/logger"
	"rental-portal-backend/internal/repository"
)

type maintenanceService struct {
	ticketRepo repository.MaintenanceRepository
	leaseRepo  repository.LeaseRepository
	policy     Policy
}

func NewMaintenanceService(ticketRepo repository.MaintenanceRepository, leaseRepo repository.LeaseRepository, policy Policy) MaintenanceService {
	return &maintenanceService{ticketRepo: ticketRepo, leaseRepo: leaseRepo, policy: policy}
}

func (s *maintenanceService) ListTickets(ctx context.Context, actor domain.Actor) ([]domain.MaintenanceTicket, error) {
	return s.ticketRepo.List(ctx, repository.ScopeFor(actor))
}

func (s *maintenanceService) CreateTicket(ctx context.Context, actor domain.Actor, leaseID int32, title, description string, status domain.TicketStatus) (*domain.MaintenanceTicket, error) {
	lease, err := s.leaseRepo.GetByID(ctx, leaseID)
	if err != nil {
		return nil, err
	}
	if !s.policy.CanAccessLease(actor, lease) {
		return nil, fmt.Errorf("%w: lease %d", domain.ErrPermissionDenied, leaseID)
	}
	if status == "" {
		status = domain.TicketStatusOpen
	}

	ticket := &domain.MaintenanceTicket{
		LeaseID:     leaseID,
		CreatedBy:   actor.UserID,
		Title:       strings.TrimSpace(title),
		Description: description,
		Status:      status,
	}
	if err := ticket.Validate(); err != nil {
		return nil, err
	}
	if err := s.ticketRepo.Create(ctx, ticket); err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "Maintenance ticket opened", "ticketID", ticket.ID, "leaseID", leaseID)
	return ticket, nil
}

func (s *maintenanceService) UpdateTicket(ctx context.Context, actor domain.Actor, id int32, update TicketUpdate) (*domain.MaintenanceTicket, error) {
	ticket, err := s.ticketRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	lease, err := s.leaseRepo.GetByID(ctx, ticket.LeaseID)
	if err != nil {
		return nil, err
	}
	if !s.policy.CanManageLease(actor, lease) {
		return nil, fmt.Errorf("%w: ticket %d", domain.ErrPermissionDenied, id)
	}

	if update.Title != nil {
		ticket.Title = strings.TrimSpace(*update.Title)
	}
	if update.Description != nil {
		ticket.Description = *update.Description
	}
	if update.Status != nil {
		ticket.Status = *update.Status
	}
	if err := ticket.Validate(); err != nil {
		return nil, err
	}
	if err := s.ticketRepo.Update(ctx, ticket); err != nil {
		return nil, err
	}
	return ticket, nil
}
