package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/fundops/fund_admin_app/internal/core/domain"
	portsrepo "github.com/fundops/fund_admin_app/internal/core/ports/repositories"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PgxAdjustmentJournalRepository posts migration adjustment journals and
// their ledger entries, and removes them on revert.
type PgxAdjustmentJournalRepository struct {
	pool *pgxpool.Pool
}

// NewPgxAdjustmentJournalRepository creates the journal posting adapter.
func NewPgxAdjustmentJournalRepository(pool *pgxpool.Pool) portsrepo.AdjustmentJournalWriter {
	return &PgxAdjustmentJournalRepository{pool: pool}
}

var _ portsrepo.AdjustmentJournalWriter = (*PgxAdjustmentJournalRepository)(nil)

// PostAdjustments persists the batch inside one transaction. Each entry
// writes a journal header plus two ledger entries, one per leg, so the
// ledger read side observes the adjustments as soon as this call returns.
func (r *PgxAdjustmentJournalRepository) PostAdjustments(ctx context.Context, fundID, orgID, fileID string, journalDate time.Time, entries []domain.AdjustmentJournalEntry) (int, error) {
	if len(entries) == 0 {
		return 0, nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx) // Ignore rollback error
	}()

	journalQuery := `
		INSERT INTO adjustment_journals (journal_id, fund_id, org_id, file_id, gl_code, gl_name, difference, amount, is_positive, dr_account, cr_account, journal_date, description, journal_type, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
	`
	entryQuery := `
		INSERT INTO ledger_entries (entry_id, fund_id, gl_code, gl_name, entry_date, debit, credit, journal_id, source)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`

	batch := &pgx.Batch{}
	for _, entry := range entries {
		batch.Queue(journalQuery,
			entry.JournalID,
			fundID,
			orgID,
			fileID,
			entry.GLCode,
			entry.GLName,
			entry.Difference,
			entry.Amount,
			entry.IsPositive,
			entry.DrAccount,
			entry.CrAccount,
			entry.JournalDate,
			entry.Description,
			entry.JournalType,
			entry.CreatedAt,
			entry.CreatedBy,
		)
		// Debit leg
		batch.Queue(entryQuery,
			uuid.NewString(), fundID, entry.DrAccount, entry.GLName, journalDate,
			entry.Amount, decimal.Zero, entry.JournalID, domain.JournalTypeMigration,
		)
		// Credit leg
		batch.Queue(entryQuery,
			uuid.NewString(), fundID, entry.CrAccount, entry.GLName, journalDate,
			decimal.Zero, entry.Amount, entry.JournalID, domain.JournalTypeMigration,
		)
	}

	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return 0, fmt.Errorf("failed to execute adjustment batch for file %s: %w", fileID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit adjustments for file %s: %w", fileID, err)
	}
	return len(entries), nil
}

// DeleteAdjustmentsByFile removes every journal synthesized for a migration
// file along with its ledger entries, returning the deleted journal count.
func (r *PgxAdjustmentJournalRepository) DeleteAdjustmentsByFile(ctx context.Context, fundID, fileID string) (int, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	_, err = tx.Exec(ctx, `
		DELETE FROM ledger_entries
		WHERE fund_id = $1 AND journal_id IN (
			SELECT journal_id FROM adjustment_journals WHERE fund_id = $1 AND file_id = $2
		);
	`, fundID, fileID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete ledger entries for file %s: %w", fileID, err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM adjustment_journals WHERE fund_id = $1 AND file_id = $2;`, fundID, fileID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete adjustment journals for file %s: %w", fileID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit adjustment delete for file %s: %w", fileID, err)
	}
	return int(tag.RowsAffected()), nil
}
