package jobs

import (
	"context"

	"rental-portal-backend/internal/logger"
)

const (
	SweepOverduePaymentsJob = "sweep-overdue-payments"
	SendOverdueRemindersJob = "send-overdue-reminders"
)

// SweepOverduePayments flips every DUE payment past its grace period to
// OVERDUE and applies the late fee.
func (jr *JobRunner) SweepOverduePayments() {
	jr.runWithRecovery(SweepOverduePaymentsJob, func(ctx context.Context) error {
		flipped, err := jr.services.Payment.SweepOverdue(ctx)
		if err != nil {
			return err
		}
		logger.Info("Marked payments as overdue", "count", flipped)
		return nil
	})
}

// SendOverdueReminders emails the tenant of every overdue payment on an
// active lease.
func (jr *JobRunner) SendOverdueReminders() {
	jr.runWithRecovery(SendOverdueRemindersJob, func(ctx context.Context) error {
		reminders, err := jr.services.Payment.ListOverdueReminders(ctx)
		if err != nil {
			return err
		}

		sent := 0
		for _, r := range reminders {
			if err := jr.services.Email.SendOverdueReminder(ctx, r.TenantEmail, r.TenantName, r.PropertyTitle, r.DueDate, r.Amount); err != nil {
				logger.Error("Failed to send overdue reminder", "payment_id", r.PaymentID, "email", r.TenantEmail, "error", err)
				continue
			}
			sent++
		}

		logger.Info("Sent overdue payment reminders", "sent", sent, "total", len(reminders))
		return nil
	})
}
