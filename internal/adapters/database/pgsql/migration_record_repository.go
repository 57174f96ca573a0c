package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fundops/fund_admin_app/internal/apperrors"
	"github.com/fundops/fund_admin_app/internal/core/domain"
	portsrepo "github.com/fundops/fund_admin_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxMigrationRepository persists migration records and their uploaded
// balance rows (the upload buffer).
type PgxMigrationRepository struct {
	pool *pgxpool.Pool
}

// NewPgxMigrationRepository creates a new repository for migration data.
func NewPgxMigrationRepository(pool *pgxpool.Pool) portsrepo.MigrationRecordRepositoryFacade {
	return &PgxMigrationRepository{pool: pool}
}

var _ portsrepo.MigrationRecordRepositoryFacade = (*PgxMigrationRepository)(nil)

// CreateMigration inserts the record and its buffered rows in one
// transaction. The unique index on fund_id makes the insert conditional:
// a concurrent or pre-existing active migration surfaces as ErrConflict.
func (r *PgxMigrationRepository) CreateMigration(ctx context.Context, record domain.MigrationRecord, rows []domain.BalanceRow) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx) // Ignore rollback error
	}()

	recordQuery := `
		INSERT INTO fund_migrations (file_id, fund_id, file_name, status, reporting_period, uploaded_at, uploaded_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err = tx.Exec(ctx, recordQuery,
		record.FileID,
		record.FundID,
		record.FileName,
		record.Status,
		record.ReportingPeriod,
		record.UploadedAt,
		record.UploadedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return apperrors.ErrConflict
		}
		return fmt.Errorf("failed to insert migration record %s: %w", record.FileID, err)
	}

	batch := &pgx.Batch{}
	rowQuery := `
		INSERT INTO migration_balance_rows (file_id, fund_id, gl_code, gl_name, opening, debit, credit, closing)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	for _, row := range rows {
		batch.Queue(rowQuery,
			record.FileID,
			record.FundID,
			row.GLCode,
			row.GLName,
			row.Opening,
			row.Debit,
			row.Credit,
			row.Closing,
		)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to buffer uploaded rows for file %s: %w", record.FileID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit migration %s: %w", record.FileID, err)
	}
	return nil
}

// FindMigration retrieves a migration record by (fundID, fileID).
func (r *PgxMigrationRepository) FindMigration(ctx context.Context, fundID, fileID string) (*domain.MigrationRecord, error) {
	query := `
		SELECT file_id, fund_id, file_name, status, reporting_period, uploaded_at, uploaded_by
		FROM fund_migrations
		WHERE fund_id = $1 AND file_id = $2;
	`
	return r.scanRecord(r.pool.QueryRow(ctx, query, fundID, fileID))
}

// FindActiveMigrationByFund returns the fund's single non-reverted record.
func (r *PgxMigrationRepository) FindActiveMigrationByFund(ctx context.Context, fundID string) (*domain.MigrationRecord, error) {
	query := `
		SELECT file_id, fund_id, file_name, status, reporting_period, uploaded_at, uploaded_by
		FROM fund_migrations
		WHERE fund_id = $1;
	`
	return r.scanRecord(r.pool.QueryRow(ctx, query, fundID))
}

func (r *PgxMigrationRepository) scanRecord(row pgx.Row) (*domain.MigrationRecord, error) {
	var record domain.MigrationRecord
	err := row.Scan(
		&record.FileID,
		&record.FundID,
		&record.FileName,
		&record.Status,
		&record.ReportingPeriod,
		&record.UploadedAt,
		&record.UploadedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan migration record: %w", err)
	}
	return &record, nil
}

// ListMigrationsByFund retrieves the fund's upload history, newest first.
func (r *PgxMigrationRepository) ListMigrationsByFund(ctx context.Context, fundID string) ([]domain.MigrationRecord, error) {
	query := `
		SELECT file_id, fund_id, file_name, status, reporting_period, uploaded_at, uploaded_by
		FROM fund_migrations
		WHERE fund_id = $1
		ORDER BY uploaded_at DESC;
	`
	rows, err := r.pool.Query(ctx, query, fundID)
	if err != nil {
		return nil, fmt.Errorf("failed to list migrations for fund %s: %w", fundID, err)
	}
	defer rows.Close()

	var records []domain.MigrationRecord
	for rows.Next() {
		var record domain.MigrationRecord
		if err := rows.Scan(
			&record.FileID,
			&record.FundID,
			&record.FileName,
			&record.Status,
			&record.ReportingPeriod,
			&record.UploadedAt,
			&record.UploadedBy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan migration record row: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating migration records: %w", err)
	}
	return records, nil
}

// UploadedBalances reconstructs the uploaded balance set buffered for a file.
func (r *PgxMigrationRepository) UploadedBalances(ctx context.Context, fundID, fileID string, asOf time.Time) (domain.BalanceSet, error) {
	set := domain.NewBalanceSet(fundID, asOf, domain.ScopePTD, domain.OriginUploaded)

	query := `
		SELECT gl_code, gl_name, opening, debit, credit, closing
		FROM migration_balance_rows
		WHERE fund_id = $1 AND file_id = $2;
	`
	rows, err := r.pool.Query(ctx, query, fundID, fileID)
	if err != nil {
		return set, fmt.Errorf("failed to query uploaded balances for file %s: %w", fileID, err)
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var row domain.BalanceRow
		if err := rows.Scan(&row.GLCode, &row.GLName, &row.Opening, &row.Debit, &row.Credit, &row.Closing); err != nil {
			return set, fmt.Errorf("failed to scan uploaded balance row: %w", err)
		}
		set.Put(row)
		count++
	}
	if err := rows.Err(); err != nil {
		return set, fmt.Errorf("error iterating uploaded balance rows: %w", err)
	}
	if count == 0 {
		return set, apperrors.ErrNotFound
	}
	return set, nil
}

// UpdateMigrationStatus advances the record's status, stamping the reporting
// period when one is supplied.
func (r *PgxMigrationRepository) UpdateMigrationStatus(ctx context.Context, fundID, fileID string, status domain.MigrationStatus, reportingPeriod *time.Time) error {
	var tag pgconn.CommandTag
	var err error
	if reportingPeriod != nil {
		query := `UPDATE fund_migrations SET status = $1, reporting_period = $2 WHERE fund_id = $3 AND file_id = $4;`
		tag, err = r.pool.Exec(ctx, query, status, *reportingPeriod, fundID, fileID)
	} else {
		query := `UPDATE fund_migrations SET status = $1 WHERE fund_id = $2 AND file_id = $3;`
		tag, err = r.pool.Exec(ctx, query, status, fundID, fileID)
	}
	if err != nil {
		return fmt.Errorf("failed to update migration %s status: %w", fileID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteMigration removes the record and its buffered rows in one
// transaction, returning how many of each were deleted.
func (r *PgxMigrationRepository) DeleteMigration(ctx context.Context, fundID, fileID string) (int, int, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	bufferTag, err := tx.Exec(ctx, `DELETE FROM migration_balance_rows WHERE fund_id = $1 AND file_id = $2;`, fundID, fileID)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to delete buffered rows for file %s: %w", fileID, err)
	}

	recordTag, err := tx.Exec(ctx, `DELETE FROM fund_migrations WHERE fund_id = $1 AND file_id = $2;`, fundID, fileID)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to delete migration record %s: %w", fileID, err)
	}
	if recordTag.RowsAffected() == 0 {
		return 0, 0, apperrors.ErrNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, 0, fmt.Errorf("failed to commit migration delete %s: %w", fileID, err)
	}
	return int(recordTag.RowsAffected()), int(bufferTag.RowsAffected()), nil
}
