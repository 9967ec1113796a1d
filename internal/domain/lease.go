package domain

import (
	"fmt"
	"time"

	"rental-portal-backend/internal/utils"

	"github.com/shopspring/decimal"
)

// LeaseTerms holds the configured defaults applied when a lease is created.
type LeaseTerms struct {
	DefaultMonths int
}

type Lease struct {
	ID              int32           `json:"id"`
	ApplicationID   int32           `json:"application_id"`
	TenantID        int32           `json:"tenant_id"`
	PropertyID      int32           `json:"property_id"`
	LandlordID      int32           `json:"landlord_id"` // denormalised from the property on read
	StartDate       time.Time       `json:"start_date"`
	EndDate         time.Time       `json:"end_date"`
	MonthlyRent     decimal.Decimal `json:"monthly_rent"`
	SecurityDeposit decimal.Decimal `json:"security_deposit"`
	IsActive        bool            `json:"is_active"`
	CreatedAt       time.Time       `json:"created_at"`
}

// NewLease builds the lease created when app is approved on today. Rent is
// snapshotted from the property; the deposit equals one month of rent.
func NewLease(app *Application, prop *Property, today time.Time, terms LeaseTerms) (*Lease, error) {
	if terms.DefaultMonths < 1 {
		return nil, fmt.Errorf("%w: lease length must be at least one month", ErrValidation)
	}
	start := utils.DateOf(today)
	return &Lease{
		ApplicationID:   app.ID,
		TenantID:        app.TenantID,
		PropertyID:      prop.ID,
		LandlordID:      prop.LandlordID,
		StartDate:       start,
		EndDate:         utils.AddMonths(start, terms.DefaultMonths-1),
		MonthlyRent:     prop.MonthlyRent,
		SecurityDeposit: utils.SecurityDeposit(prop.MonthlyRent),
		IsActive:        true,
	}, nil
}

// Months is the number of calendar months the lease touches, both ends included.
func (l *Lease) Months() int {
	return utils.InclusiveMonthSpan(l.StartDate, l.EndDate)
}

// GeneratePaymentSchedule returns one DUE payment per lease month, the i-th
// due on AddMonths(start, i). The lease must already carry its ID.
func (l *Lease) GeneratePaymentSchedule() []*Payment {
	months := l.Months()
	if months < 1 {
		return nil
	}
	payments := make([]*Payment, 0, months)
	for i := 0; i < months; i++ {
		payments = append(payments, &Payment{
			LeaseID: l.ID,
			DueDate: utils.AddMonths(l.StartDate, i),
			Amount:  l.MonthlyRent,
			Status:  PaymentStatusDue,
		})
	}
	return payments
}
