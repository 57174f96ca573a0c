package services

import (
	"context"
	"io"
	"time"

	"github.com/fundops/fund_admin_app/internal/core/domain"
	"github.com/fundops/fund_admin_app/internal/dto"
)

// MigrationReaderSvc defines the read side of the migration engine.
type MigrationReaderSvc interface {
	// CanUploadMigration answers whether a new trial balance may be uploaded
	// for the fund right now. A false answer carries the failing rule text.
	CanUploadMigration(ctx context.Context, fundID string) (bool, string, error)

	// GetComparisonReport compares the computed ledger balances against the
	// uploaded trial balance. A non-nil rangeFilter restricts the rows shown;
	// it never affects CanReconcile, which is always computed unrestricted.
	GetComparisonReport(ctx context.Context, fundID, fileID string, rangeFilter []domain.GLRange) (*domain.ComparisonReport, error)

	// GetGroupedComparison is the trial-balance style view of the comparison,
	// bucketed by GL category.
	GetGroupedComparison(ctx context.Context, fundID, fileID string) (*domain.GroupedComparisonReport, error)

	// ListUploads retrieves the fund's migration upload history.
	ListUploads(ctx context.Context, fundID string) ([]domain.MigrationRecord, error)

	// CanRevertMigration answers whether the migration may be reverted.
	CanRevertMigration(ctx context.Context, fundID, fileID string) (bool, string, error)
}

// MigrationWriterSvc defines the state transitions of the migration engine.
type MigrationWriterSvc interface {
	// UploadTrialBalance ingests a legacy trial balance workbook, creating
	// the fund's migration record in Uploaded state.
	UploadTrialBalance(ctx context.Context, fundID, fileName string, file io.Reader, uploadedBy string) (*domain.MigrationRecord, error)

	// MarkPending moves an Uploaded record to Pending. Idempotent; records
	// already past Uploaded are left untouched.
	MarkPending(ctx context.Context, fundID, fileID string) error

	// Reconcile synthesizes adjustment journals for unresolved differences,
	// posts them, re-fetches computed balances and re-compares. On success
	// the record becomes Reconciled.
	Reconcile(ctx context.Context, fundID, fileID, userID string) (*dto.ReconcileResult, error)

	// Bookclose finalizes a Reconciled migration, stamping its reporting
	// period. Blocked with ErrInconsistent when the refreshed comparison no
	// longer reconciles.
	Bookclose(ctx context.Context, fundID, fileID string) (*domain.MigrationRecord, error)

	// RevertMigration deletes the record, its uploaded rows and every journal
	// it synthesized.
	RevertMigration(ctx context.Context, fundID, fileID string) (domain.DeletedCounts, error)
}

// MigrationSvcFacade combines the full migration engine surface.
type MigrationSvcFacade interface {
	MigrationReaderSvc
	MigrationWriterSvc
}

// ComparisonSvc merges balance sets and computes difference reports.
// Pure computation; no I/O.
type ComparisonSvc interface {
	// Compare produces the unrestricted comparison used to gate reconcile
	// and bookclose.
	Compare(computed, uploaded domain.BalanceSet) domain.ComparisonReport

	// CompareFiltered produces a display-only comparison restricted to the
	// given GL ranges. CanReconcile still reflects the unrestricted result.
	CompareFiltered(computed, uploaded domain.BalanceSet, ranges []domain.GLRange) domain.ComparisonReport

	// CompareGrouped buckets the unrestricted comparison by GL category.
	CompareGrouped(computed, uploaded domain.BalanceSet) domain.GroupedComparisonReport
}

// AdjustmentSvc synthesizes balancing journal entries from comparison rows.
// Pure computation; posting is the caller's concern.
type AdjustmentSvc interface {
	Synthesize(rows []domain.ComparisonRow, offsetAccount string, journalDate time.Time, createdBy string) []domain.AdjustmentJournalEntry
}

// PricingGuardSvc decides, from the fund's pricing timeline, whether
// migration uploads and reverts are currently allowed. A nil error means
// allowed; rejections wrap apperrors.ErrGuardRejected with the failing rule.
type PricingGuardSvc interface {
	CanUpload(ctx context.Context, fundID string) error
	CanRevert(ctx context.Context, fundID string, reportingPeriod time.Time) error
}

// TrialBalanceParser turns an uploaded workbook into balance rows.
type TrialBalanceParser interface {
	ParseTrialBalance(r io.Reader) ([]domain.BalanceRow, error)
}
