package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/fundops/fund_admin_app/internal/apperrors"
	"github.com/fundops/fund_admin_app/internal/core/domain"
	portsrepo "github.com/fundops/fund_admin_app/internal/core/ports/repositories"
	portssvc "github.com/fundops/fund_admin_app/internal/core/ports/services"
	"github.com/fundops/fund_admin_app/internal/dto"
)

var (
	ErrActiveMigrationExists = errors.New("an active migration already exists for this fund")
	ErrEmptyUpload           = errors.New("uploaded trial balance contains no rows")
	ErrNothingToCompare      = errors.New("no balances found to compare")
	ErrNotReconciled         = errors.New("migration must be reconciled before bookclose")
	ErrAlreadyBookclosed     = errors.New("migration is already bookclosed")
)

// migrationService orchestrates the Uploaded -> Pending -> Reconciled ->
// Bookclosed lifecycle, plus revert. It holds no cross-request state; every
// action is a short request/response pipeline over the collaborators.
type migrationService struct {
	BaseService
	fundRepo      portsrepo.FundReader
	glRepo        portsrepo.GLAccountReader
	migrationRepo portsrepo.MigrationRecordRepositoryFacade
	pricingRepo   portsrepo.PricingReader
	ledgerRepo    portsrepo.LedgerReader
	journalRepo   portsrepo.AdjustmentJournalWriter

	comparison portssvc.ComparisonSvc
	adjustment portssvc.AdjustmentSvc
	guard      portssvc.PricingGuardSvc
	parser     portssvc.TrialBalanceParser

	offsetAccount   string
	upstreamTimeout time.Duration
}

// NewMigrationService creates the migration engine service.
func NewMigrationService(
	fundRepo portsrepo.FundReader,
	glRepo portsrepo.GLAccountReader,
	migrationRepo portsrepo.MigrationRecordRepositoryFacade,
	pricingRepo portsrepo.PricingReader,
	ledgerRepo portsrepo.LedgerReader,
	journalRepo portsrepo.AdjustmentJournalWriter,
	comparison portssvc.ComparisonSvc,
	adjustment portssvc.AdjustmentSvc,
	guard portssvc.PricingGuardSvc,
	parser portssvc.TrialBalanceParser,
	offsetAccount string,
	upstreamTimeout time.Duration,
) portssvc.MigrationSvcFacade {
	return &migrationService{
		fundRepo:        fundRepo,
		glRepo:          glRepo,
		migrationRepo:   migrationRepo,
		pricingRepo:     pricingRepo,
		ledgerRepo:      ledgerRepo,
		journalRepo:     journalRepo,
		comparison:      comparison,
		adjustment:      adjustment,
		guard:           guard,
		parser:          parser,
		offsetAccount:   offsetAccount,
		upstreamTimeout: upstreamTimeout,
	}
}

var _ portssvc.MigrationSvcFacade = (*migrationService)(nil)

// upstreamCtx bounds a single collaborator call. Failures surface as
// ErrUpstreamUnavailable for manual retry; nothing is retried automatically
// because journal posting is not guaranteed idempotent.
func (s *migrationService) upstreamCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.upstreamTimeout)
}

// reportingAsOf resolves the as-of date for ledger queries and the reporting
// period stamp: the fund's last pricing date, or the last day of the
// reporting-start-date month when no pricing exists yet.
func (s *migrationService) reportingAsOf(ctx context.Context, fund *domain.Fund) (time.Time, error) {
	callCtx, cancel := s.upstreamCtx(ctx)
	defer cancel()
	last, err := s.pricingRepo.LastPricingDate(callCtx, fund.FundID)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: last pricing date query failed: %v", apperrors.ErrUpstreamUnavailable, err)
	}
	if last != nil {
		return last.UTC(), nil
	}
	return domain.EndOfMonth(fund.ReportingStartDate), nil
}

func (s *migrationService) findFund(ctx context.Context, fundID string) (*domain.Fund, error) {
	if fundID == "" {
		return nil, fmt.Errorf("%w: fund ID is required", apperrors.ErrValidation)
	}
	fund, err := s.fundRepo.FindFundByID(ctx, fundID)
	if err != nil {
		return nil, err
	}
	return fund, nil
}

// fetchBalanceSets loads the computed and uploaded sides for a comparison.
// The two reads are independent; each is an isolated bounded call. The offset
// account is the engine's own balancing plug, so any residual parked on it is
// stripped from both sides before comparing.
func (s *migrationService) fetchBalanceSets(ctx context.Context, fundID, fileID string, asOf time.Time) (computed, uploaded domain.BalanceSet, err error) {
	computedCtx, cancelComputed := s.upstreamCtx(ctx)
	defer cancelComputed()
	computed, err = s.ledgerRepo.ComputedBalances(computedCtx, fundID, asOf, domain.ScopePTD)
	if err != nil {
		err = fmt.Errorf("%w: ledger query failed: %v", apperrors.ErrUpstreamUnavailable, err)
		return
	}

	uploadedCtx, cancelUploaded := s.upstreamCtx(ctx)
	defer cancelUploaded()
	uploaded, err = s.migrationRepo.UploadedBalances(uploadedCtx, fundID, fileID, asOf)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return
		}
		err = fmt.Errorf("%w: upload store query failed: %v", apperrors.ErrUpstreamUnavailable, err)
		return
	}

	computed.Remove(s.offsetAccount)
	uploaded.Remove(s.offsetAccount)
	return
}

// decorateGLNames fills missing GL names on comparison rows from the GL
// master. Best effort; a row keeps an empty name when no master entry exists.
func (s *migrationService) decorateGLNames(ctx context.Context, rows []domain.ComparisonRow) {
	var missing []string
	for _, row := range rows {
		if row.GLName == "" {
			missing = append(missing, row.GLCode)
		}
	}
	if len(missing) == 0 {
		return
	}
	names, err := s.glRepo.FindGLAccountNames(ctx, missing)
	if err != nil {
		s.LogWarn(ctx, "Failed to resolve GL names from master", slog.String("error", err.Error()))
		return
	}
	for i := range rows {
		if rows[i].GLName == "" {
			rows[i].GLName = names[rows[i].GLCode]
		}
	}
}

// CanUploadMigration answers the upload pre-check without side effects.
func (s *migrationService) CanUploadMigration(ctx context.Context, fundID string) (bool, string, error) {
	if _, err := s.findFund(ctx, fundID); err != nil {
		return false, "", err
	}

	if _, err := s.migrationRepo.FindActiveMigrationByFund(ctx, fundID); err == nil {
		return false, ErrActiveMigrationExists.Error(), nil
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return false, "", err
	}

	if err := s.guard.CanUpload(ctx, fundID); err != nil {
		if errors.Is(err, apperrors.ErrGuardRejected) {
			return false, err.Error(), nil
		}
		return false, "", err
	}
	return true, "", nil
}

// UploadTrialBalance ingests a legacy trial balance for the fund.
func (s *migrationService) UploadTrialBalance(ctx context.Context, fundID, fileName string, file io.Reader, uploadedBy string) (*domain.MigrationRecord, error) {
	fund, err := s.findFund(ctx, fundID)
	if err != nil {
		return nil, err
	}

	if err := s.guard.CanUpload(ctx, fund.FundID); err != nil {
		s.LogWarn(ctx, "Upload refused by pricing timeline guard", slog.String("fund_id", fundID), slog.String("error", err.Error()))
		return nil, err
	}

	rows, err := s.parser.ParseTrialBalance(file)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, ErrEmptyUpload)
	}

	record := domain.MigrationRecord{
		FileID:     uuid.NewString(),
		FundID:     fund.FundID,
		FileName:   fileName,
		Status:     domain.MigrationUploaded,
		UploadedAt: time.Now().UTC(),
		UploadedBy: uploadedBy,
	}

	// One active record per fund is a persistence-level condition, not an
	// in-process lock; a concurrent winner makes this insert fail.
	if err := s.migrationRepo.CreateMigration(ctx, record, rows); err != nil {
		if errors.Is(err, apperrors.ErrConflict) || errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrConflict, ErrActiveMigrationExists)
		}
		return nil, err
	}

	s.LogInfo(ctx, "Trial balance uploaded",
		slog.String("fund_id", fund.FundID),
		slog.String("file_id", record.FileID),
		slog.Int("row_count", len(rows)))
	return &record, nil
}

// ListUploads retrieves the fund's migration upload history.
func (s *migrationService) ListUploads(ctx context.Context, fundID string) ([]domain.MigrationRecord, error) {
	if _, err := s.findFund(ctx, fundID); err != nil {
		return nil, err
	}
	return s.migrationRepo.ListMigrationsByFund(ctx, fundID)
}

// GetComparisonReport compares computed against uploaded balances. The range
// filter trims the visible rows only; eligibility always reflects the
// unrestricted comparison.
func (s *migrationService) GetComparisonReport(ctx context.Context, fundID, fileID string, rangeFilter []domain.GLRange) (*domain.ComparisonReport, error) {
	fund, err := s.findFund(ctx, fundID)
	if err != nil {
		return nil, err
	}
	if _, err := s.migrationRepo.FindMigration(ctx, fundID, fileID); err != nil {
		return nil, err
	}

	asOf, err := s.reportingAsOf(ctx, fund)
	if err != nil {
		return nil, err
	}
	computed, uploaded, err := s.fetchBalanceSets(ctx, fundID, fileID, asOf)
	if err != nil {
		return nil, err
	}

	report := s.comparison.CompareFiltered(computed, uploaded, rangeFilter)
	s.decorateGLNames(ctx, report.Rows)
	return &report, nil
}

// GetGroupedComparison returns the trial-balance style comparison view.
func (s *migrationService) GetGroupedComparison(ctx context.Context, fundID, fileID string) (*domain.GroupedComparisonReport, error) {
	fund, err := s.findFund(ctx, fundID)
	if err != nil {
		return nil, err
	}
	if _, err := s.migrationRepo.FindMigration(ctx, fundID, fileID); err != nil {
		return nil, err
	}

	asOf, err := s.reportingAsOf(ctx, fund)
	if err != nil {
		return nil, err
	}
	computed, uploaded, err := s.fetchBalanceSets(ctx, fundID, fileID, asOf)
	if err != nil {
		return nil, err
	}

	grouped := s.comparison.CompareGrouped(computed, uploaded)
	for i := range grouped.Sections {
		s.decorateGLNames(ctx, grouped.Sections[i].Rows)
	}
	return &grouped, nil
}

// MarkPending moves an Uploaded record to Pending when the comparison view is
// abandoned before reconciling. Idempotent.
func (s *migrationService) MarkPending(ctx context.Context, fundID, fileID string) error {
	record, err := s.migrationRepo.FindMigration(ctx, fundID, fileID)
	if err != nil {
		return err
	}
	if record.Status != domain.MigrationUploaded {
		return nil
	}
	return s.migrationRepo.UpdateMigrationStatus(ctx, fundID, fileID, domain.MigrationPending, nil)
}

// Reconcile synthesizes and posts adjustment journals for every unresolved
// difference, then re-fetches computed balances and re-compares. The re-read
// happens strictly after the posting call acknowledges its commit.
func (s *migrationService) Reconcile(ctx context.Context, fundID, fileID, userID string) (*dto.ReconcileResult, error) {
	fund, err := s.findFund(ctx, fundID)
	if err != nil {
		return nil, err
	}
	record, err := s.migrationRepo.FindMigration(ctx, fundID, fileID)
	if err != nil {
		return nil, err
	}
	if record.Status == domain.MigrationBookclosed {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrConflict, ErrAlreadyBookclosed)
	}

	asOf, err := s.reportingAsOf(ctx, fund)
	if err != nil {
		return nil, err
	}
	computed, uploaded, err := s.fetchBalanceSets(ctx, fundID, fileID, asOf)
	if err != nil {
		return nil, err
	}

	report := s.comparison.Compare(computed, uploaded)
	if len(report.Rows) == 0 {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, ErrNothingToCompare)
	}

	journalsCreated := 0
	if !report.CanReconcile {
		entries := s.adjustment.Synthesize(report.Rows, s.offsetAccount, asOf, userID)
		if len(entries) > 0 {
			postCtx, cancel := s.upstreamCtx(ctx)
			created, postErr := s.journalRepo.PostAdjustments(postCtx, fund.FundID, fund.OrgID, fileID, asOf, entries)
			cancel()
			if postErr != nil {
				s.LogError(ctx, postErr, "Adjustment journal posting failed",
					slog.String("fund_id", fundID), slog.String("file_id", fileID))
				return nil, fmt.Errorf("%w: journal posting failed: %v", apperrors.ErrUpstreamUnavailable, postErr)
			}
			journalsCreated = created
		}

		// Posting acknowledged; the computed side has changed, so re-fetch
		// and re-compare before any transition. The offset legs just posted
		// land on the plug account, which stays out of the comparison.
		refreshCtx, cancel := s.upstreamCtx(ctx)
		computed, err = s.ledgerRepo.ComputedBalances(refreshCtx, fundID, asOf, domain.ScopePTD)
		cancel()
		if err != nil {
			return nil, fmt.Errorf("%w: ledger refresh failed: %v", apperrors.ErrUpstreamUnavailable, err)
		}
		computed.Remove(s.offsetAccount)
		report = s.comparison.Compare(computed, uploaded)
	}

	if !report.CanReconcile {
		s.LogError(ctx, apperrors.ErrInconsistent, "Differences remain after posting adjustments",
			slog.String("fund_id", fundID),
			slog.String("file_id", fileID),
			slog.String("total_diff", report.TotalDiff.String()))
		return nil, fmt.Errorf("%w: differences remain after posting adjustments", apperrors.ErrInconsistent)
	}

	if err := s.migrationRepo.UpdateMigrationStatus(ctx, fundID, fileID, domain.MigrationReconciled, nil); err != nil {
		return nil, err
	}

	s.decorateGLNames(ctx, report.Rows)
	s.LogInfo(ctx, "Migration reconciled",
		slog.String("fund_id", fundID),
		slog.String("file_id", fileID),
		slog.Int("journals_created", journalsCreated))
	return &dto.ReconcileResult{JournalsCreated: journalsCreated, Report: report}, nil
}

// Bookclose finalizes a Reconciled migration as authoritative for its
// reporting period. The refreshed unrestricted comparison must still
// reconcile; otherwise ErrInconsistent blocks the transition and no
// reporting period is stamped.
func (s *migrationService) Bookclose(ctx context.Context, fundID, fileID string) (*domain.MigrationRecord, error) {
	fund, err := s.findFund(ctx, fundID)
	if err != nil {
		return nil, err
	}
	record, err := s.migrationRepo.FindMigration(ctx, fundID, fileID)
	if err != nil {
		return nil, err
	}
	if record.Status == domain.MigrationBookclosed {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrConflict, ErrAlreadyBookclosed)
	}
	if record.Status != domain.MigrationReconciled {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, ErrNotReconciled)
	}

	asOf, err := s.reportingAsOf(ctx, fund)
	if err != nil {
		return nil, err
	}
	computed, uploaded, err := s.fetchBalanceSets(ctx, fundID, fileID, asOf)
	if err != nil {
		return nil, err
	}
	report := s.comparison.Compare(computed, uploaded)
	if !report.CanReconcile {
		s.LogError(ctx, apperrors.ErrInconsistent, "Bookclose blocked: comparison no longer reconciles",
			slog.String("fund_id", fundID),
			slog.String("file_id", fileID),
			slog.String("total_diff", report.TotalDiff.String()))
		return nil, fmt.Errorf("%w: comparison no longer reconciles", apperrors.ErrInconsistent)
	}

	reportingPeriod := asOf
	if err := s.migrationRepo.UpdateMigrationStatus(ctx, fundID, fileID, domain.MigrationBookclosed, &reportingPeriod); err != nil {
		return nil, err
	}

	record.Status = domain.MigrationBookclosed
	record.ReportingPeriod = &reportingPeriod
	s.LogInfo(ctx, "Migration bookclosed",
		slog.String("fund_id", fundID),
		slog.String("file_id", fileID),
		slog.String("reporting_period", reportingPeriod.Format("2006-01-02")))
	return record, nil
}

// revertReportingPeriod resolves the period the revert guard checks against:
// the stamped reporting period, or the would-be period for records that never
// reached bookclose.
func (s *migrationService) revertReportingPeriod(ctx context.Context, fund *domain.Fund, record *domain.MigrationRecord) (time.Time, error) {
	if record.ReportingPeriod != nil {
		return *record.ReportingPeriod, nil
	}
	return s.reportingAsOf(ctx, fund)
}

// CanRevertMigration answers the revert pre-check without side effects.
func (s *migrationService) CanRevertMigration(ctx context.Context, fundID, fileID string) (bool, string, error) {
	fund, err := s.findFund(ctx, fundID)
	if err != nil {
		return false, "", err
	}
	record, err := s.migrationRepo.FindMigration(ctx, fundID, fileID)
	if err != nil {
		return false, "", err
	}

	reportingPeriod, err := s.revertReportingPeriod(ctx, fund, record)
	if err != nil {
		return false, "", err
	}
	if err := s.guard.CanRevert(ctx, fundID, reportingPeriod); err != nil {
		if errors.Is(err, apperrors.ErrGuardRejected) {
			return false, err.Error(), nil
		}
		return false, "", err
	}
	return true, "", nil
}

// RevertMigration deletes the record, its buffered rows and every journal it
// synthesized. This is removal, not a return to Uploaded.
func (s *migrationService) RevertMigration(ctx context.Context, fundID, fileID string) (domain.DeletedCounts, error) {
	var counts domain.DeletedCounts

	fund, err := s.findFund(ctx, fundID)
	if err != nil {
		return counts, err
	}
	record, err := s.migrationRepo.FindMigration(ctx, fundID, fileID)
	if err != nil {
		return counts, err
	}

	reportingPeriod, err := s.revertReportingPeriod(ctx, fund, record)
	if err != nil {
		return counts, err
	}
	if err := s.guard.CanRevert(ctx, fundID, reportingPeriod); err != nil {
		s.LogWarn(ctx, "Revert refused by pricing timeline guard",
			slog.String("fund_id", fundID), slog.String("file_id", fileID), slog.String("error", err.Error()))
		return counts, err
	}

	journalRows, err := s.journalRepo.DeleteAdjustmentsByFile(ctx, fundID, fileID)
	if err != nil {
		return counts, fmt.Errorf("%w: journal cleanup failed: %v", apperrors.ErrUpstreamUnavailable, err)
	}
	migrationRows, bufferRows, err := s.migrationRepo.DeleteMigration(ctx, fundID, fileID)
	if err != nil {
		return counts, err
	}

	counts = domain.DeletedCounts{
		MigrationRows: migrationRows,
		BufferRows:    bufferRows,
		JournalRows:   journalRows,
	}
	s.LogInfo(ctx, "Migration reverted",
		slog.String("fund_id", fundID),
		slog.String("file_id", fileID),
		slog.Int("migration_rows", counts.MigrationRows),
		slog.Int("buffer_rows", counts.BufferRows),
		slog.Int("journal_rows", counts.JournalRows))
	return counts, nil
}
