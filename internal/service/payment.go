package service

import (
	"context"
	"fmt"
	"time"

	"rental-portal-backend/internal/domain"
	"rental-portal-backend/internal/logger"
	"rental-portal-backend/internal/monitoring"
	"rental-portal-backend/internal/repository"
	"rental-portal-backend/internal/utils"
)

type paymentService struct {
	paymentRepo repository.PaymentRepository
	leaseRepo   repository.LeaseRepository
	policy      Policy
	overdue     domain.OverduePolicy
	now         Clock
}

func NewPaymentService(paymentRepo repository.PaymentRepository, leaseRepo repository.LeaseRepository, policy Policy, overdue domain.OverduePolicy, clock Clock) PaymentService {
	return &paymentService{
		paymentRepo: paymentRepo,
		leaseRepo:   leaseRepo,
		policy:      policy,
		overdue:     overdue,
		now:         clockOrNow(clock),
	}
}

func (s *paymentService) ListPayments(ctx context.Context, actor domain.Actor, statuses []domain.PaymentStatus) ([]domain.Payment, error) {
	scope := repository.ScopeFor(actor)
	if _, err := s.refreshOverdue(ctx, scope); err != nil {
		return nil, err
	}
	return s.paymentRepo.List(ctx, scope, statuses)
}

func (s *paymentService) SweepOverdue(ctx context.Context) (int, error) {
	start := time.Now()
	flipped, err := s.refreshOverdue(ctx, repository.Scope{})
	monitoring.OverdueSweepDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return flipped, err
	}
	logger.InfoContext(ctx, "Overdue sweep finished", "flipped", flipped)
	return flipped, nil
}

// refreshOverdue applies the overdue rule to every DUE payment in scope that
// is past its grace period. Persisting is conditional on the row still being
// DUE, so a payment raced by another reader or the sweep is skipped.
func (s *paymentService) refreshOverdue(ctx context.Context, scope repository.Scope) (int, error) {
	today := utils.DateOf(s.now())
	candidates, err := s.paymentRepo.ListDueBefore(ctx, scope, domain.OverdueCutoff(today, s.overdue))
	if err != nil {
		return 0, err
	}

	flipped := 0
	for i := range candidates {
		p := &candidates[i]
		hadFee := p.LateFeeApplied
		if !p.ApplyOverdueLogic(today, s.overdue) {
			continue
		}
		won, err := s.paymentRepo.MarkOverdue(ctx, p)
		if err != nil {
			return flipped, err
		}
		if !won {
			continue
		}
		flipped++
		if !hadFee && p.LateFeeApplied {
			monitoring.LateFeesApplied.Inc()
		}
		logger.DebugContext(ctx, "Payment marked overdue", "paymentID", p.ID, "amount", p.Amount.StringFixed(2))
	}
	return flipped, nil
}

func (s *paymentService) MarkPaid(ctx context.Context, actor domain.Actor, id int32, rawMethod string) (*domain.Payment, error) {
	method, err := domain.ParsePaymentMethod(rawMethod)
	if err != nil {
		return nil, err
	}

	p, err := s.paymentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	lease, err := s.leaseRepo.GetByID(ctx, p.LeaseID)
	if err != nil {
		return nil, err
	}
	if err := p.MarkPaid(method, s.now(), s.policy.CanAccessLease(actor, lease)); err != nil {
		return nil, err
	}
	won, err := s.paymentRepo.MarkPaid(ctx, p)
	if err != nil {
		return nil, err
	}
	if !won {
		return nil, fmt.Errorf("%w: payment %d is already paid", domain.ErrInvalidState, id)
	}

	monitoring.PaymentsMarkedPaid.WithLabelValues(string(method)).Inc()
	logger.InfoContext(ctx, "Payment marked paid", "paymentID", id, "method", method, "by", actor.UserID)
	return p, nil
}

func (s *paymentService) ListOverdueReminders(ctx context.Context) ([]domain.OverdueReminder, error) {
	return s.paymentRepo.ListOverdueReminders(ctx)
}
