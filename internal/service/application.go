package service

import (
	"context"
	"fmt"
	"strings"

	"rental-portal-backend/internal/domain"
	"rental-portal-backend/internal/logger"
	"rental-portal-backend/internal/monitoring"
	"rental-portal-backend/internal/repository"
)

type applicationService struct {
	repos    repository.Repositories
	tx       repository.Transactor
	policy   Policy
	emailSvc EmailService
	terms    domain.LeaseTerms
	now      Clock
}

func NewApplicationService(repos repository.Repositories, tx repository.Transactor, policy Policy, emailSvc EmailService, terms domain.LeaseTerms, clock Clock) ApplicationService {
	return &applicationService{
		repos:    repos,
		tx:       tx,
		policy:   policy,
		emailSvc: emailSvc,
		terms:    terms,
		now:      clockOrNow(clock),
	}
}

func (s *applicationService) Apply(ctx context.Context, actor domain.Actor, propertyID int32, message string) (*domain.Application, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, fmt.Errorf("%w: message is required", domain.ErrValidation)
	}

	prop, err := s.repos.Properties.GetByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if !prop.IsActive {
		return nil, fmt.Errorf("%w: property %d is not accepting applications", domain.ErrInvalidState, propertyID)
	}

	app := &domain.Application{
		PropertyID: prop.ID,
		TenantID:   actor.UserID,
		Message:    message,
		Status:     domain.ApplicationStatusPending,
	}
	if err := s.repos.Applications.Create(ctx, app); err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "Application submitted", "applicationID", app.ID, "propertyID", prop.ID, "tenantID", actor.UserID)
	return app, nil
}

func (s *applicationService) ListApplications(ctx context.Context, actor domain.Actor) ([]domain.Application, error) {
	return s.repos.Applications.List(ctx, repository.ScopeFor(actor))
}

// ApproveApplication decides the application, creates its lease and the full
// payment schedule in one transaction. The status update is a compare-and-swap,
// so of several concurrent approvals exactly one commits and the rest get
// domain.ErrInvalidState.
func (s *applicationService) ApproveApplication(ctx context.Context, actor domain.Actor, id int32) (*Approval, error) {
	var (
		result Approval
		prop   *domain.Property
	)

	err := s.tx.WithinTx(ctx, func(repos repository.Repositories) error {
		app, err := repos.Applications.GetByID(ctx, id)
		if err != nil {
			return err
		}
		prop, err = repos.Properties.GetByID(ctx, app.PropertyID)
		if err != nil {
			return err
		}
		if err := app.Approve(s.policy.CanDecideApplication(actor, prop)); err != nil {
			return err
		}
		if err := repos.Applications.TransitionStatus(ctx, app.ID, domain.ApplicationStatusPending, app.Status); err != nil {
			return err
		}

		lease, err := domain.NewLease(app, prop, s.now(), s.terms)
		if err != nil {
			return err
		}
		if err := repos.Leases.Create(ctx, lease); err != nil {
			return err
		}

		payments := lease.GeneratePaymentSchedule()
		if err := repos.Payments.CreateBatch(ctx, payments); err != nil {
			return err
		}

		result = Approval{Application: app, Lease: lease, Payments: payments}
		return nil
	})
	if err != nil {
		return nil, err
	}

	monitoring.ApplicationsDecided.WithLabelValues(string(domain.ApplicationStatusApproved)).Inc()
	monitoring.LeasesCreated.Inc()
	monitoring.PaymentsScheduled.Add(float64(len(result.Payments)))
	logger.InfoContext(ctx, "Application approved",
		"applicationID", id, "leaseID", result.Lease.ID, "payments", len(result.Payments), "by", actor.UserID)

	s.notifyDecision(ctx, result.Application, prop)
	return &result, nil
}

func (s *applicationService) RejectApplication(ctx context.Context, actor domain.Actor, id int32) (*domain.Application, error) {
	app, err := s.repos.Applications.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	prop, err := s.repos.Properties.GetByID(ctx, app.PropertyID)
	if err != nil {
		return nil, err
	}
	if err := app.Reject(s.policy.CanDecideApplication(actor, prop)); err != nil {
		return nil, err
	}
	if err := s.repos.Applications.TransitionStatus(ctx, app.ID, domain.ApplicationStatusPending, app.Status); err != nil {
		return nil, err
	}

	monitoring.ApplicationsDecided.WithLabelValues(string(domain.ApplicationStatusRejected)).Inc()
	logger.InfoContext(ctx, "Application rejected", "applicationID", id, "by", actor.UserID)

	s.notifyDecision(ctx, app, prop)
	return app, nil
}

// notifyDecision emails the tenant after the decision is committed. Failures
// are logged and never undo the decision.
func (s *applicationService) notifyDecision(ctx context.Context, app *domain.Application, prop *domain.Property) {
	tenant, err := s.repos.Users.GetByID(ctx, app.TenantID)
	if err != nil {
		logger.WarnContext(ctx, "Could not load tenant for decision email", "applicationID", app.ID, "error", err)
		return
	}
	if err := s.emailSvc.SendApplicationDecision(ctx, tenant.Email, tenant.Name, prop.Title, app.Status); err != nil {
		logger.WarnContext(ctx, "Decision email failed", "applicationID", app.ID, "error", err)
	}
}
