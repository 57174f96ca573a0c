package repositories

import (
	"context"
	"time"

	"github.com/fundops/fund_admin_app/internal/core/domain"
)

// MigrationRecordReader defines read operations for migration records and
// their uploaded balance rows.
type MigrationRecordReader interface {
	// FindMigration retrieves a migration record by (fundID, fileID).
	FindMigration(ctx context.Context, fundID, fileID string) (*domain.MigrationRecord, error)

	// FindActiveMigrationByFund returns the fund's single non-reverted
	// migration record, or apperrors.ErrNotFound when none exists.
	FindActiveMigrationByFund(ctx context.Context, fundID string) (*domain.MigrationRecord, error)

	// ListMigrationsByFund retrieves the fund's upload history, newest first.
	ListMigrationsByFund(ctx context.Context, fundID string) ([]domain.MigrationRecord, error)

	// UploadedBalances reconstructs the uploaded balance set buffered for a
	// migration file.
	UploadedBalances(ctx context.Context, fundID, fileID string, asOf time.Time) (domain.BalanceSet, error)
}

// MigrationRecordWriter defines write operations for migration records.
type MigrationRecordWriter interface {
	// CreateMigration inserts the record and its uploaded balance rows in one
	// transaction. The insert is conditional on no active record existing for
	// the fund; a loser returns apperrors.ErrConflict.
	CreateMigration(ctx context.Context, record domain.MigrationRecord, rows []domain.BalanceRow) error

	// UpdateMigrationStatus advances the record's status. reportingPeriod is
	// stamped only when non-nil (the bookclose transition).
	UpdateMigrationStatus(ctx context.Context, fundID, fileID string, status domain.MigrationStatus, reportingPeriod *time.Time) error

	// DeleteMigration removes the record and its buffered balance rows,
	// returning how many of each were deleted. Synthesized journals are
	// removed separately through the adjustment journal writer.
	DeleteMigration(ctx context.Context, fundID, fileID string) (migrationRows int, bufferRows int, err error)
}

// MigrationRecordRepositoryFacade combines all migration record interfaces.
type MigrationRecordRepositoryFacade interface {
	MigrationRecordReader
	MigrationRecordWriter
}
