package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fundops/fund_admin_app/internal/core/domain"
	portsrepo "github.com/fundops/fund_admin_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxPricingRepository reads the pricing engine's timeline. This service
// never writes pricing data.
type PgxPricingRepository struct {
	pool *pgxpool.Pool
}

// NewPgxPricingRepository creates a read-only repository over pricing periods.
func NewPgxPricingRepository(pool *pgxpool.Pool) portsrepo.PricingReader {
	return &PgxPricingRepository{pool: pool}
}

var _ portsrepo.PricingReader = (*PgxPricingRepository)(nil)

// ListPricingPeriods retrieves the fund's pricing periods in ascending
// end-date order.
func (r *PgxPricingRepository) ListPricingPeriods(ctx context.Context, fundID string) ([]domain.PricingPeriod, error) {
	query := `
		SELECT fund_id, end_date, period_name
		FROM pricing_periods
		WHERE fund_id = $1
		ORDER BY end_date ASC;
	`
	rows, err := r.pool.Query(ctx, query, fundID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pricing periods for fund %s: %w", fundID, err)
	}
	defer rows.Close()

	var periods []domain.PricingPeriod
	for rows.Next() {
		var period domain.PricingPeriod
		if err := rows.Scan(&period.FundID, &period.EndDate, &period.PeriodName); err != nil {
			return nil, fmt.Errorf("failed to scan pricing period row: %w", err)
		}
		periods = append(periods, period)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating pricing periods: %w", err)
	}
	return periods, nil
}

// LastPricingDate returns the most recent pricing end date, or nil when the
// fund has never been priced.
func (r *PgxPricingRepository) LastPricingDate(ctx context.Context, fundID string) (*time.Time, error) {
	query := `
		SELECT end_date
		FROM pricing_periods
		WHERE fund_id = $1
		ORDER BY end_date DESC
		LIMIT 1;
	`
	var endDate time.Time
	err := r.pool.QueryRow(ctx, query, fundID).Scan(&endDate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find last pricing date for fund %s: %w", fundID, err)
	}
	return &endDate, nil
}
