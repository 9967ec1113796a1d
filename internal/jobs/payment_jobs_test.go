package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"rental-portal-backend/internal/config"
	"rental-portal-backend/internal/domain"
	"rental-portal-backend/internal/lock"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockPaymentService struct{ mock.Mock }

func (m *MockPaymentService) ListPayments(ctx context.Context, actor domain.Actor, statuses []domain.PaymentStatus) ([]domain.Payment, error) {
	args := m.Called(ctx, actor, statuses)
	return args.Get(0).([]domain.Payment), args.Error(1)
}
func (m *MockPaymentService) MarkPaid(ctx context.Context, actor domain.Actor, id int32, method string) (*domain.Payment, error) {
	args := m.Called(ctx, actor, id, method)
	return args.Get(0).(*domain.Payment), args.Error(1)
}
func (m *MockPaymentService) SweepOverdue(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}
func (m *MockPaymentService) ListOverdueReminders(ctx context.Context) ([]domain.OverdueReminder, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.OverdueReminder), args.Error(1)
}

type MockEmailService struct{ mock.Mock }

func (m *MockEmailService) SendApplicationDecision(ctx context.Context, email, name, propertyTitle string, status domain.ApplicationStatus) error {
	return m.Called(ctx, email, name, propertyTitle, status).Error(0)
}
func (m *MockEmailService) SendOverdueReminder(ctx context.Context, email, name, propertyTitle string, dueDate time.Time, amount decimal.Decimal) error {
	return m.Called(ctx, email, name, propertyTitle, dueDate, amount).Error(0)
}

type stubLocker struct {
	err      error
	keys     []string
	released int
}

func (l *stubLocker) Acquire(_ context.Context, key string, _ time.Duration) (func(), error) {
	l.keys = append(l.keys, key)
	if l.err != nil {
		return nil, l.err
	}
	return func() { l.released++ }, nil
}

func newRunner(locker lock.Locker) (*JobRunner, *MockPaymentService, *MockEmailService) {
	payments := new(MockPaymentService)
	email := new(MockEmailService)
	cfg := config.Defaults()
	return NewJobRunner(&Services{Payment: payments, Email: email}, &cfg, locker), payments, email
}

func TestSweepOverduePayments(t *testing.T) {
	locker := &stubLocker{}
	runner, payments, _ := newRunner(locker)
	payments.On("SweepOverdue", mock.Anything).Return(3, nil)

	runner.SweepOverduePayments()

	payments.AssertExpectations(t)
	assert.Equal(t, []string{SweepOverduePaymentsJob}, locker.keys)
	assert.Equal(t, 1, locker.released)
}

func TestSweepOverduePayments_SkipsWhenLocked(t *testing.T) {
	locker := &stubLocker{err: lock.ErrNotAcquired}
	runner, payments, _ := newRunner(locker)

	runner.SweepOverduePayments()

	payments.AssertNotCalled(t, "SweepOverdue", mock.Anything)
}

func TestSweepOverduePayments_ErrorReleasesLock(t *testing.T) {
	locker := &stubLocker{}
	runner, payments, _ := newRunner(locker)
	payments.On("SweepOverdue", mock.Anything).Return(0, errors.New("db down"))

	runner.SweepOverduePayments()

	assert.Equal(t, 1, locker.released)
}

func TestSendOverdueReminders_ContinuesPastFailures(t *testing.T) {
	runner, payments, email := newRunner(nil)
	due := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	payments.On("ListOverdueReminders", mock.Anything).Return([]domain.OverdueReminder{
		{PaymentID: 1, TenantEmail: "a@example.com", TenantName: "A", PropertyTitle: "Loft", DueDate: due, Amount: decimal.NewFromInt(1050)},
		{PaymentID: 2, TenantEmail: "b@example.com", TenantName: "B", PropertyTitle: "Flat", DueDate: due, Amount: decimal.NewFromInt(840)},
	}, nil)
	email.On("SendOverdueReminder", mock.Anything, "a@example.com", "A", "Loft", due, mock.Anything).Return(errors.New("bounce"))
	email.On("SendOverdueReminder", mock.Anything, "b@example.com", "B", "Flat", due, mock.Anything).Return(nil)

	runner.SendOverdueReminders()

	email.AssertNumberOfCalls(t, "SendOverdueReminder", 2)
}

func TestRunWithRecovery_SwallowsPanic(t *testing.T) {
	runner, _, _ := newRunner(nil)
	assert.NotPanics(t, func() {
		runner.runWithRecovery("boom", func(context.Context) error { panic("unexpected") })
	})
}

func TestRunAllNightlyJobs(t *testing.T) {
	runner, payments, _ := newRunner(nil)
	payments.On("SweepOverdue", mock.Anything).Return(0, nil)
	payments.On("ListOverdueReminders", mock.Anything).Return([]domain.OverdueReminder{}, nil)

	runner.RunAllNightlyJobs()

	payments.AssertExpectations(t)
}
