package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/fundops/fund_admin_app/internal/core/domain"
	portsrepo "github.com/fundops/fund_admin_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PgxLedgerRepository implements the ledger query collaborator: it computes
// balance sets by aggregating posted ledger entries.
type PgxLedgerRepository struct {
	pool *pgxpool.Pool
}

// NewPgxLedgerRepository creates the ledger read adapter.
func NewPgxLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerReader {
	return &PgxLedgerRepository{pool: pool}
}

var _ portsrepo.LedgerReader = (*PgxLedgerRepository)(nil)

// scopeStart resolves the lower bound of the aggregation window. PTD has no
// lower bound and returns nil.
func scopeStart(asOf time.Time, scope domain.BalanceScope) *time.Time {
	t := asOf.UTC()
	var start time.Time
	switch scope {
	case domain.ScopeMTD:
		start = time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	case domain.ScopeQTD:
		quarterMonth := time.Month(((int(t.Month())-1)/3)*3 + 1)
		start = time.Date(t.Year(), quarterMonth, 1, 0, 0, 0, 0, time.UTC)
	case domain.ScopeYTD:
		start = time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	default: // ScopePTD
		return nil
	}
	return &start
}

// ComputedBalances aggregates the fund's ledger entries into a balance set
// for the as-of date and scope window. Closings are signed in one uniform
// direction: credits raise a balance, debits lower it. This is the frame the
// uploaded trial balance is stated in, and the frame the adjustment legs are
// chosen for, so debiting a GL walks a positive difference back down.
func (r *PgxLedgerRepository) ComputedBalances(ctx context.Context, fundID string, asOf time.Time, scope domain.BalanceScope) (domain.BalanceSet, error) {
	set := domain.NewBalanceSet(fundID, asOf, scope, domain.OriginComputed)
	start := scopeStart(asOf, scope)

	var query string
	var args []any
	if start == nil {
		query = `
			SELECT gl_code, MAX(gl_name) AS gl_name,
			       0::numeric AS opening,
			       COALESCE(SUM(debit), 0) AS period_debit,
			       COALESCE(SUM(credit), 0) AS period_credit
			FROM ledger_entries
			WHERE fund_id = $1 AND entry_date <= $2
			GROUP BY gl_code;
		`
		args = []any{fundID, asOf}
	} else {
		query = `
			SELECT gl_code, MAX(gl_name) AS gl_name,
			       COALESCE(SUM(CASE WHEN entry_date < $3 THEN credit - debit ELSE 0 END), 0) AS opening,
			       COALESCE(SUM(CASE WHEN entry_date >= $3 THEN debit ELSE 0 END), 0) AS period_debit,
			       COALESCE(SUM(CASE WHEN entry_date >= $3 THEN credit ELSE 0 END), 0) AS period_credit
			FROM ledger_entries
			WHERE fund_id = $1 AND entry_date <= $2
			GROUP BY gl_code;
		`
		args = []any{fundID, asOf, *start}
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return set, fmt.Errorf("failed to compute balances for fund %s: %w", fundID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var glCode, glName string
		var opening, periodDebit, periodCredit decimal.Decimal
		if err := rows.Scan(&glCode, &glName, &opening, &periodDebit, &periodCredit); err != nil {
			return set, fmt.Errorf("failed to scan computed balance row: %w", err)
		}

		set.Put(domain.BalanceRow{
			GLCode:  glCode,
			GLName:  glName,
			Opening: opening,
			Debit:   periodDebit,
			Credit:  periodCredit,
			Closing: opening.Add(periodCredit.Sub(periodDebit)),
		})
	}
	if err := rows.Err(); err != nil {
		return set, fmt.Errorf("error iterating computed balance rows: %w", err)
	}
	return set, nil
}
