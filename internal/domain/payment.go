package domain

import (
	"fmt"
	"strings"
	"time"

	"rental-portal-backend/internal/utils"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusDue     PaymentStatus = "DUE"
	PaymentStatusPaid    PaymentStatus = "PAID"
	PaymentStatusOverdue PaymentStatus = "OVERDUE"
)

type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "CASH"
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentMethodMobilePay    PaymentMethod = "MOBILE_PAY"
	PaymentMethodCard         PaymentMethod = "CARD"
	PaymentMethodCheck        PaymentMethod = "CHECK"
)

var paymentMethods = map[PaymentMethod]struct{}{
	PaymentMethodCash:         {},
	PaymentMethodBankTransfer: {},
	PaymentMethodMobilePay:    {},
	PaymentMethodCard:         {},
	PaymentMethodCheck:        {},
}

// ParsePaymentMethod accepts a method name case-insensitively.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	m := PaymentMethod(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := paymentMethods[m]; !ok {
		return "", fmt.Errorf("%w: unknown payment method %q", ErrValidation, s)
	}
	return m, nil
}

// OverduePolicy holds the configured grace period and late fee.
type OverduePolicy struct {
	GraceDays      int
	LateFeePercent int
}

type Payment struct {
	ID             int32           `json:"id"`
	LeaseID        int32           `json:"lease_id"`
	DueDate        time.Time       `json:"due_date"`
	Amount         decimal.Decimal `json:"amount"`
	Status         PaymentStatus   `json:"status"`
	PaidOn         *time.Time      `json:"paid_on,omitempty"`
	Method         PaymentMethod   `json:"method,omitempty"`
	LateFeeApplied bool            `json:"late_fee_applied"`
}

// OverdueCutoff is the latest due date that is already past its grace period
// on today: a DUE payment with DueDate before the cutoff is overdue.
func OverdueCutoff(today time.Time, policy OverduePolicy) time.Time {
	return utils.DateOf(today).AddDate(0, 0, -policy.GraceDays)
}

// ApplyOverdueLogic flips a DUE payment to OVERDUE once today is strictly
// after DueDate + GraceDays, adding the late fee at most once. It reports
// whether the payment changed. PAID and OVERDUE payments are left alone.
func (p *Payment) ApplyOverdueLogic(today time.Time, policy OverduePolicy) bool {
	if p.Status != PaymentStatusDue {
		return false
	}
	if !p.DueDate.Before(OverdueCutoff(today, policy)) {
		return false
	}
	p.Status = PaymentStatusOverdue
	if !p.LateFeeApplied {
		p.Amount = utils.ApplyLateFee(p.Amount, policy.LateFeePercent)
		p.LateFeeApplied = true
	}
	return true
}

// MarkPaid settles a DUE or OVERDUE payment. The method is validated first,
// then the state, then authorized; nothing is mutated on error.
func (p *Payment) MarkPaid(method PaymentMethod, today time.Time, authorized bool) error {
	if _, ok := paymentMethods[method]; !ok {
		return fmt.Errorf("%w: unknown payment method %q", ErrValidation, method)
	}
	if p.Status == PaymentStatusPaid {
		return fmt.Errorf("%w: payment %d is already paid", ErrInvalidState, p.ID)
	}
	if !authorized {
		return fmt.Errorf("%w: payment %d", ErrPermissionDenied, p.ID)
	}
	paidOn := utils.DateOf(today)
	p.Status = PaymentStatusPaid
	p.PaidOn = &paidOn
	p.Method = method
	return nil
}

// OverdueReminder is an overdue payment joined with who owes it.
type OverdueReminder struct {
	PaymentID     int32           `json:"payment_id"`
	LeaseID       int32           `json:"lease_id"`
	TenantEmail   string          `json:"tenant_email"`
	TenantName    string          `json:"tenant_name"`
	PropertyTitle string          `json:"property_title"`
	DueDate       time.Time       `json:"due_date"`
	Amount        decimal.Decimal `json:"amount"`
}
