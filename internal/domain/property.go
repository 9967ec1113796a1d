package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Property struct {
	ID          int32           `json:"id"`
	LandlordID  int32           `json:"landlord_id"`
	Title       string          `json:"title"`
	Address     string          `json:"address"`
	MonthlyRent decimal.Decimal `json:"monthly_rent"`
	Bedrooms    int32           `json:"bedrooms"`
	Bathrooms   int32           `json:"bathrooms"`
	Sqft        *int32          `json:"sqft,omitempty"`
	Description string          `json:"description"`
	IsActive    bool            `json:"is_active"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Validate checks the listing fields a landlord controls.
func (p *Property) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if len(p.Title) > 200 {
		return fmt.Errorf("%w: title must be at most 200 characters", ErrValidation)
	}
	if strings.TrimSpace(p.Address) == "" {
		return fmt.Errorf("%w: address is required", ErrValidation)
	}
	if !p.MonthlyRent.IsPositive() {
		return fmt.Errorf("%w: monthly rent must be greater than zero", ErrValidation)
	}
	if !p.MonthlyRent.Equal(p.MonthlyRent.Round(2)) {
		return fmt.Errorf("%w: monthly rent must have at most 2 decimal places", ErrValidation)
	}
	if p.Bedrooms < 0 || p.Bathrooms < 0 {
		return fmt.Errorf("%w: bedrooms and bathrooms cannot be negative", ErrValidation)
	}
	if p.Sqft != nil && *p.Sqft < 0 {
		return fmt.Errorf("%w: sqft cannot be negative", ErrValidation)
	}
	return nil
}
