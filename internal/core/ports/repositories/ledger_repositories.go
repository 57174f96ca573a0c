package repositories

import (
	"context"
	"time"

	"github.com/fundops/fund_admin_app/internal/core/domain"
)

// LedgerReader is the ledger query collaborator: it computes balance sets
// from posted journal lines. The migration engine only ever reads from it.
type LedgerReader interface {
	// ComputedBalances aggregates the fund's posted journal lines into a
	// balance set for the given as-of date and scope window. Closings are
	// signed in one uniform direction: credits raise a balance, debits
	// lower it.
	ComputedBalances(ctx context.Context, fundID string, asOf time.Time, scope domain.BalanceScope) (domain.BalanceSet, error)
}

// AdjustmentJournalWriter posts and removes migration adjustment journals.
type AdjustmentJournalWriter interface {
	// PostAdjustments persists the batch, tagged with the migration file that
	// produced it, and returns the created count. The call returns only after
	// the write is committed, so a subsequent ComputedBalances read observes
	// the posted journals.
	PostAdjustments(ctx context.Context, fundID, orgID, fileID string, journalDate time.Time, entries []domain.AdjustmentJournalEntry) (int, error)

	// DeleteAdjustmentsByFile removes every journal synthesized for a
	// migration file, returning the deleted count.
	DeleteAdjustmentsByFile(ctx context.Context, fundID, fileID string) (int, error)
}
