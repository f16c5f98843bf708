package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrTransporterNotFound = errors.New("transporter not found")
	ErrTransporterInactive = errors.New("transporter is inactive")
	ErrInvalidCommission   = errors.New("commission percent must be between 0 and 100")
)

// Transporter is a third-party carrier profile with its commission rate.
// Bookings reference transporters by id, never embed them.
type Transporter struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	CommissionPercent decimal.Decimal `json:"commission_percent"`
	Active            bool            `json:"active"`
}

// ValidCommissionPercent reports whether pct lies in [0, 100].
func ValidCommissionPercent(pct decimal.Decimal) bool {
	return pct.GreaterThanOrEqual(decimal.Zero) && pct.LessThanOrEqual(decimal.NewFromInt(100))
}
