package repositories

import (
	"context"
	"time"

	"github.com/fundops/fund_admin_app/internal/core/domain"
)

// PricingReader exposes the pricing engine's timeline. Read-only; this
// service never writes pricing data.
type PricingReader interface {
	// ListPricingPeriods retrieves the fund's recorded pricing periods in
	// ascending end-date order.
	ListPricingPeriods(ctx context.Context, fundID string) ([]domain.PricingPeriod, error)

	// LastPricingDate returns the most recent pricing end date, or nil when
	// the fund has never been priced.
	LastPricingDate(ctx context.Context, fundID string) (*time.Time, error)
}
