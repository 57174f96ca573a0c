package services_test

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/fundops/fund_admin_app/internal/apperrors"
	"github.com/fundops/fund_admin_app/internal/core/domain"
	portssvc "github.com/fundops/fund_admin_app/internal/core/ports/services"
	"github.com/fundops/fund_admin_app/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock FundRepository ---
type MockFundRepository struct {
	mock.Mock
}

func (m *MockFundRepository) FindFundByID(ctx context.Context, fundID string) (*domain.Fund, error) {
	args := m.Called(ctx, fundID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Fund), args.Error(1)
}

func (m *MockFundRepository) ListFunds(ctx context.Context) ([]domain.Fund, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Fund), args.Error(1)
}

func (m *MockFundRepository) SaveFund(ctx context.Context, fund domain.Fund) error {
	args := m.Called(ctx, fund)
	return args.Error(0)
}

// --- Mock GLAccountRepository ---
type MockGLAccountRepository struct {
	mock.Mock
}

func (m *MockGLAccountRepository) FindGLAccountByCode(ctx context.Context, code string) (*domain.GLAccount, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GLAccount), args.Error(1)
}

func (m *MockGLAccountRepository) ListGLAccounts(ctx context.Context) ([]domain.GLAccount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.GLAccount), args.Error(1)
}

func (m *MockGLAccountRepository) FindGLAccountNames(ctx context.Context, codes []string) (map[string]string, error) {
	args := m.Called(ctx, codes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}

func (m *MockGLAccountRepository) SaveGLAccount(ctx context.Context, account domain.GLAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

// --- Mock LedgerRepository ---
type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) ComputedBalances(ctx context.Context, fundID string, asOf time.Time, scope domain.BalanceScope) (domain.BalanceSet, error) {
	args := m.Called(ctx, fundID, asOf, scope)
	return args.Get(0).(domain.BalanceSet), args.Error(1)
}

// --- Mock JournalRepository ---
type MockJournalRepository struct {
	mock.Mock
}

func (m *MockJournalRepository) PostAdjustments(ctx context.Context, fundID, orgID, fileID string, journalDate time.Time, entries []domain.AdjustmentJournalEntry) (int, error) {
	args := m.Called(ctx, fundID, orgID, fileID, journalDate, entries)
	return args.Int(0), args.Error(1)
}

func (m *MockJournalRepository) DeleteAdjustmentsByFile(ctx context.Context, fundID, fileID string) (int, error) {
	args := m.Called(ctx, fundID, fileID)
	return args.Int(0), args.Error(1)
}

// --- Mock PricingGuard ---
type MockPricingGuard struct {
	mock.Mock
}

func (m *MockPricingGuard) CanUpload(ctx context.Context, fundID string) error {
	args := m.Called(ctx, fundID)
	return args.Error(0)
}

func (m *MockPricingGuard) CanRevert(ctx context.Context, fundID string, reportingPeriod time.Time) error {
	args := m.Called(ctx, fundID, reportingPeriod)
	return args.Error(0)
}

// --- Mock TrialBalanceParser ---
type MockTrialBalanceParser struct {
	mock.Mock
}

func (m *MockTrialBalanceParser) ParseTrialBalance(r io.Reader) ([]domain.BalanceRow, error) {
	args := m.Called(r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BalanceRow), args.Error(1)
}

// --- Test Suite ---
type MigrationServiceTestSuite struct {
	suite.Suite
	mockFunds     *MockFundRepository
	mockGLs       *MockGLAccountRepository
	mockMigration *MockMigrationRepository
	mockPricing   *MockPricingRepository
	mockLedger    *MockLedgerRepository
	mockJournals  *MockJournalRepository
	mockGuard     *MockPricingGuard
	mockParser    *MockTrialBalanceParser
	service       portssvc.MigrationSvcFacade

	fund        domain.Fund
	lastPricing time.Time
}

func (suite *MigrationServiceTestSuite) SetupTest() {
	suite.mockFunds = new(MockFundRepository)
	suite.mockGLs = new(MockGLAccountRepository)
	suite.mockMigration = new(MockMigrationRepository)
	suite.mockPricing = new(MockPricingRepository)
	suite.mockLedger = new(MockLedgerRepository)
	suite.mockJournals = new(MockJournalRepository)
	suite.mockGuard = new(MockPricingGuard)
	suite.mockParser = new(MockTrialBalanceParser)

	tolerance := decimal.RequireFromString("0.01")
	suite.service = services.NewMigrationService(
		suite.mockFunds,
		suite.mockGLs,
		suite.mockMigration,
		suite.mockPricing,
		suite.mockLedger,
		suite.mockJournals,
		services.NewComparisonService(tolerance),
		services.NewAdjustmentService(tolerance),
		suite.mockGuard,
		suite.mockParser,
		domain.DefaultOffsetAccount,
		5*time.Second,
	)

	suite.fund = domain.Fund{
		FundID:             "fund-1",
		OrgID:              "org-1",
		Name:               "Test Fund",
		OnboardMode:        domain.ExistingFund,
		ReportingStartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	suite.lastPricing = time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
}

func (suite *MigrationServiceTestSuite) expectFund() {
	suite.mockFunds.On("FindFundByID", mock.Anything, "fund-1").Return(&suite.fund, nil)
}

func (suite *MigrationServiceTestSuite) expectLastPricing() {
	suite.mockPricing.On("LastPricingDate", mock.Anything, "fund-1").Return(&suite.lastPricing, nil)
}

func (suite *MigrationServiceTestSuite) computedSet(closings map[string]string) domain.BalanceSet {
	set := domain.NewBalanceSet("fund-1", suite.lastPricing, domain.ScopePTD, domain.OriginComputed)
	for code, closing := range closings {
		set.Put(domain.BalanceRow{GLCode: code, Closing: decimal.RequireFromString(closing)})
	}
	return set
}

func (suite *MigrationServiceTestSuite) uploadedSet(closings map[string]string) domain.BalanceSet {
	set := domain.NewBalanceSet("fund-1", suite.lastPricing, domain.ScopePTD, domain.OriginUploaded)
	for code, closing := range closings {
		set.Put(domain.BalanceRow{GLCode: code, Closing: decimal.RequireFromString(closing)})
	}
	return set
}

// --- Upload ---

func (suite *MigrationServiceTestSuite) TestUploadTrialBalance_Success() {
	ctx := context.Background()
	file := strings.NewReader("workbook-bytes")
	rows := []domain.BalanceRow{{GLCode: "13110", Closing: decimal.RequireFromString("100")}}

	suite.expectFund()
	suite.mockGuard.On("CanUpload", ctx, "fund-1").Return(nil).Once()
	suite.mockParser.On("ParseTrialBalance", file).Return(rows, nil).Once()
	suite.mockMigration.On("CreateMigration", ctx, mock.MatchedBy(func(r domain.MigrationRecord) bool {
		return r.FundID == "fund-1" && r.Status == domain.MigrationUploaded && r.FileName == "tb.xlsx" && r.UploadedBy == "user-1" && r.FileID != ""
	}), rows).Return(nil).Once()

	record, err := suite.service.UploadTrialBalance(ctx, "fund-1", "tb.xlsx", file, "user-1")

	suite.Require().NoError(err)
	suite.Require().NotNil(record)
	suite.Equal(domain.MigrationUploaded, record.Status)
	suite.Nil(record.ReportingPeriod)
	suite.mockMigration.AssertExpectations(suite.T())
}

func (suite *MigrationServiceTestSuite) TestUploadTrialBalance_GuardRejected() {
	ctx := context.Background()

	suite.expectFund()
	guardErr := apperrors.ErrGuardRejected
	suite.mockGuard.On("CanUpload", ctx, "fund-1").Return(guardErr).Once()

	record, err := suite.service.UploadTrialBalance(ctx, "fund-1", "tb.xlsx", strings.NewReader(""), "user-1")

	suite.Nil(record)
	suite.ErrorIs(err, apperrors.ErrGuardRejected)
	suite.mockParser.AssertNotCalled(suite.T(), "ParseTrialBalance", mock.Anything)
}

func (suite *MigrationServiceTestSuite) TestUploadTrialBalance_EmptyWorkbook() {
	ctx := context.Background()
	file := strings.NewReader("")

	suite.expectFund()
	suite.mockGuard.On("CanUpload", ctx, "fund-1").Return(nil).Once()
	suite.mockParser.On("ParseTrialBalance", file).Return([]domain.BalanceRow{}, nil).Once()

	record, err := suite.service.UploadTrialBalance(ctx, "fund-1", "tb.xlsx", file, "user-1")

	suite.Nil(record)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockMigration.AssertNotCalled(suite.T(), "CreateMigration", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *MigrationServiceTestSuite) TestUploadTrialBalance_ActiveMigrationConflict() {
	ctx := context.Background()
	file := strings.NewReader("workbook-bytes")
	rows := []domain.BalanceRow{{GLCode: "13110", Closing: decimal.RequireFromString("100")}}

	suite.expectFund()
	suite.mockGuard.On("CanUpload", ctx, "fund-1").Return(nil).Once()
	suite.mockParser.On("ParseTrialBalance", file).Return(rows, nil).Once()
	suite.mockMigration.On("CreateMigration", ctx, mock.Anything, rows).Return(apperrors.ErrConflict).Once()

	record, err := suite.service.UploadTrialBalance(ctx, "fund-1", "tb.xlsx", file, "user-1")

	suite.Nil(record)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *MigrationServiceTestSuite) TestCanUploadMigration_BlockedByActiveRecord() {
	ctx := context.Background()

	suite.expectFund()
	suite.mockMigration.On("FindActiveMigrationByFund", ctx, "fund-1").Return(&domain.MigrationRecord{FileID: "file-1"}, nil).Once()

	allowed, reason, err := suite.service.CanUploadMigration(ctx, "fund-1")

	suite.NoError(err)
	suite.False(allowed)
	suite.NotEmpty(reason)
	suite.mockGuard.AssertNotCalled(suite.T(), "CanUpload", mock.Anything, mock.Anything)
}

func (suite *MigrationServiceTestSuite) TestCanUploadMigration_Allowed() {
	ctx := context.Background()

	suite.expectFund()
	suite.mockMigration.On("FindActiveMigrationByFund", ctx, "fund-1").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockGuard.On("CanUpload", ctx, "fund-1").Return(nil).Once()

	allowed, reason, err := suite.service.CanUploadMigration(ctx, "fund-1")

	suite.NoError(err)
	suite.True(allowed)
	suite.Empty(reason)
}

// --- MarkPending ---

func (suite *MigrationServiceTestSuite) TestMarkPending_FromUploaded() {
	ctx := context.Background()

	suite.mockMigration.On("FindMigration", ctx, "fund-1", "file-1").
		Return(&domain.MigrationRecord{FileID: "file-1", FundID: "fund-1", Status: domain.MigrationUploaded}, nil).Once()
	suite.mockMigration.On("UpdateMigrationStatus", ctx, "fund-1", "file-1", domain.MigrationPending, (*time.Time)(nil)).Return(nil).Once()

	suite.NoError(suite.service.MarkPending(ctx, "fund-1", "file-1"))
	suite.mockMigration.AssertExpectations(suite.T())
}

func (suite *MigrationServiceTestSuite) TestMarkPending_IdempotentPastUploaded() {
	ctx := context.Background()

	suite.mockMigration.On("FindMigration", ctx, "fund-1", "file-1").
		Return(&domain.MigrationRecord{FileID: "file-1", FundID: "fund-1", Status: domain.MigrationReconciled}, nil).Once()

	suite.NoError(suite.service.MarkPending(ctx, "fund-1", "file-1"))
	suite.mockMigration.AssertNotCalled(suite.T(), "UpdateMigrationStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// --- Reconcile ---

func (suite *MigrationServiceTestSuite) TestReconcile_PostsAdjustmentsAndRefetches() {
	ctx := context.Background()

	suite.expectFund()
	suite.expectLastPricing()
	suite.mockMigration.On("FindMigration", ctx, "fund-1", "file-1").
		Return(&domain.MigrationRecord{FileID: "file-1", FundID: "fund-1", Status: domain.MigrationPending}, nil).Once()

	// First read: computed is 50 short on 21210. After posting, the refreshed
	// read matches the uploaded side, with the posted debit leg parked on the
	// offset account.
	suite.mockLedger.On("ComputedBalances", mock.Anything, "fund-1", suite.lastPricing, domain.ScopePTD).
		Return(suite.computedSet(map[string]string{"21210": "50"}), nil).Once()
	suite.mockMigration.On("UploadedBalances", mock.Anything, "fund-1", "file-1", suite.lastPricing).
		Return(suite.uploadedSet(map[string]string{"21210": "100"}), nil).Once()

	suite.mockJournals.On("PostAdjustments", mock.Anything, "fund-1", "org-1", "file-1", suite.lastPricing,
		mock.MatchedBy(func(entries []domain.AdjustmentJournalEntry) bool {
			if len(entries) != 1 {
				return false
			}
			e := entries[0]
			// difference = computed - uploaded = -50: offset debits, GL credits
			return e.GLCode == "21210" && !e.IsPositive &&
				e.Amount.Equal(decimal.RequireFromString("50")) &&
				e.DrAccount == domain.DefaultOffsetAccount && e.CrAccount == "21210"
		})).Return(1, nil).Once()

	suite.mockLedger.On("ComputedBalances", mock.Anything, "fund-1", suite.lastPricing, domain.ScopePTD).
		Return(suite.computedSet(map[string]string{"21210": "100", domain.DefaultOffsetAccount: "-50"}), nil).Once()

	suite.mockMigration.On("UpdateMigrationStatus", ctx, "fund-1", "file-1", domain.MigrationReconciled, (*time.Time)(nil)).Return(nil).Once()
	suite.mockGLs.On("FindGLAccountNames", ctx, []string{"21210"}).Return(map[string]string{"21210": "Payables"}, nil).Once()

	result, err := suite.service.Reconcile(ctx, "fund-1", "file-1", "user-1")

	suite.Require().NoError(err)
	suite.Equal(1, result.JournalsCreated)
	suite.True(result.Report.CanReconcile)
	suite.Require().Len(result.Report.Rows, 1, "offset residual stays out of the comparison")
	suite.Equal("21210", result.Report.Rows[0].GLCode)
	suite.Equal("Payables", result.Report.Rows[0].GLName)
	suite.mockJournals.AssertExpectations(suite.T())
	suite.mockLedger.AssertExpectations(suite.T())
}

func (suite *MigrationServiceTestSuite) TestReconcile_RefreshDerivedFromPostedLegs() {
	ctx := context.Background()

	suite.expectFund()
	suite.expectLastPricing()
	suite.mockMigration.On("FindMigration", ctx, "fund-1", "file-1").
		Return(&domain.MigrationRecord{FileID: "file-1", FundID: "fund-1", Status: domain.MigrationPending}, nil).Once()

	// Debit-nature holding: closings are signed with credits positive, so a
	// 100 debit-side balance reads as -100.
	suite.mockLedger.On("ComputedBalances", mock.Anything, "fund-1", suite.lastPricing, domain.ScopePTD).
		Return(suite.computedSet(map[string]string{"13110": "-40"}), nil).Once()
	suite.mockMigration.On("UploadedBalances", mock.Anything, "fund-1", "file-1", suite.lastPricing).
		Return(suite.uploadedSet(map[string]string{"13110": "-100"}), nil).Once()

	// The refreshed read is not stubbed to match the upload: it is derived by
	// replaying the posted legs under the ledger's aggregation rule (debits
	// lower a closing, credits raise it), offset account included.
	refreshed := suite.computedSet(map[string]string{"13110": "-40"})
	suite.mockJournals.On("PostAdjustments", mock.Anything, "fund-1", "org-1", "file-1", suite.lastPricing,
		mock.MatchedBy(func(entries []domain.AdjustmentJournalEntry) bool {
			if len(entries) != 1 {
				return false
			}
			e := entries[0]
			// difference = -40 - (-100) = +60: GL debits, offset credits
			return e.GLCode == "13110" && e.IsPositive &&
				e.Amount.Equal(decimal.RequireFromString("60")) &&
				e.DrAccount == "13110" && e.CrAccount == domain.DefaultOffsetAccount
		})).
		Run(func(args mock.Arguments) {
			for _, e := range args.Get(5).([]domain.AdjustmentJournalEntry) {
				refreshed.Put(domain.BalanceRow{GLCode: e.DrAccount, Closing: e.Amount.Neg()})
				refreshed.Put(domain.BalanceRow{GLCode: e.CrAccount, Closing: e.Amount})
			}
		}).Return(1, nil).Once()
	suite.mockLedger.On("ComputedBalances", mock.Anything, "fund-1", suite.lastPricing, domain.ScopePTD).
		Return(refreshed, nil).Once()

	suite.mockMigration.On("UpdateMigrationStatus", ctx, "fund-1", "file-1", domain.MigrationReconciled, (*time.Time)(nil)).Return(nil).Once()
	suite.mockGLs.On("FindGLAccountNames", ctx, []string{"13110"}).Return(map[string]string{}, nil).Once()

	result, err := suite.service.Reconcile(ctx, "fund-1", "file-1", "user-1")

	suite.Require().NoError(err)
	suite.Equal(1, result.JournalsCreated)
	suite.True(result.Report.CanReconcile)
	suite.Require().Len(result.Report.Rows, 1, "the credited offset stays out of the comparison")
	suite.Equal("13110", result.Report.Rows[0].GLCode)
	suite.True(result.Report.Rows[0].Difference.IsZero())
	suite.mockJournals.AssertExpectations(suite.T())
	suite.mockLedger.AssertExpectations(suite.T())
}

func (suite *MigrationServiceTestSuite) TestReconcile_AlreadyReconciledPostsNothing() {
	ctx := context.Background()

	suite.expectFund()
	suite.expectLastPricing()
	suite.mockMigration.On("FindMigration", ctx, "fund-1", "file-1").
		Return(&domain.MigrationRecord{FileID: "file-1", FundID: "fund-1", Status: domain.MigrationPending}, nil).Once()

	matching := map[string]string{"13110": "100"}
	suite.mockLedger.On("ComputedBalances", mock.Anything, "fund-1", suite.lastPricing, domain.ScopePTD).
		Return(suite.computedSet(matching), nil).Once()
	suite.mockMigration.On("UploadedBalances", mock.Anything, "fund-1", "file-1", suite.lastPricing).
		Return(suite.uploadedSet(matching), nil).Once()
	suite.mockMigration.On("UpdateMigrationStatus", ctx, "fund-1", "file-1", domain.MigrationReconciled, (*time.Time)(nil)).Return(nil).Once()
	suite.mockGLs.On("FindGLAccountNames", ctx, []string{"13110"}).Return(map[string]string{}, nil).Once()

	result, err := suite.service.Reconcile(ctx, "fund-1", "file-1", "user-1")

	suite.Require().NoError(err)
	suite.Zero(result.JournalsCreated)
	suite.mockJournals.AssertNotCalled(suite.T(), "PostAdjustments", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *MigrationServiceTestSuite) TestReconcile_StillUnresolvedAfterPosting() {
	ctx := context.Background()

	suite.expectFund()
	suite.expectLastPricing()
	suite.mockMigration.On("FindMigration", ctx, "fund-1", "file-1").
		Return(&domain.MigrationRecord{FileID: "file-1", FundID: "fund-1", Status: domain.MigrationPending}, nil).Once()

	suite.mockLedger.On("ComputedBalances", mock.Anything, "fund-1", suite.lastPricing, domain.ScopePTD).
		Return(suite.computedSet(map[string]string{"21210": "50"}), nil).Once()
	suite.mockMigration.On("UploadedBalances", mock.Anything, "fund-1", "file-1", suite.lastPricing).
		Return(suite.uploadedSet(map[string]string{"21210": "100"}), nil).Once()
	suite.mockJournals.On("PostAdjustments", mock.Anything, "fund-1", "org-1", "file-1", suite.lastPricing, mock.Anything).Return(1, nil).Once()

	// The refreshed ledger read still disagrees with the upload.
	suite.mockLedger.On("ComputedBalances", mock.Anything, "fund-1", suite.lastPricing, domain.ScopePTD).
		Return(suite.computedSet(map[string]string{"21210": "70"}), nil).Once()

	result, err := suite.service.Reconcile(ctx, "fund-1", "file-1", "user-1")

	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrInconsistent)
	suite.mockMigration.AssertNotCalled(suite.T(), "UpdateMigrationStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *MigrationServiceTestSuite) TestReconcile_BookclosedConflict() {
	ctx := context.Background()

	suite.expectFund()
	suite.mockMigration.On("FindMigration", ctx, "fund-1", "file-1").
		Return(&domain.MigrationRecord{FileID: "file-1", FundID: "fund-1", Status: domain.MigrationBookclosed}, nil).Once()

	result, err := suite.service.Reconcile(ctx, "fund-1", "file-1", "user-1")

	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

// --- Bookclose ---

func (suite *MigrationServiceTestSuite) TestBookclose_StampsReportingPeriod() {
	ctx := context.Background()

	suite.expectFund()
	suite.expectLastPricing()
	suite.mockMigration.On("FindMigration", ctx, "fund-1", "file-1").
		Return(&domain.MigrationRecord{FileID: "file-1", FundID: "fund-1", Status: domain.MigrationReconciled}, nil).Once()

	// The earlier reconcile parked its residual on the offset account; the
	// re-verification must still pass.
	suite.mockLedger.On("ComputedBalances", mock.Anything, "fund-1", suite.lastPricing, domain.ScopePTD).
		Return(suite.computedSet(map[string]string{"13110": "-100", domain.DefaultOffsetAccount: "100"}), nil).Once()
	suite.mockMigration.On("UploadedBalances", mock.Anything, "fund-1", "file-1", suite.lastPricing).
		Return(suite.uploadedSet(map[string]string{"13110": "-100"}), nil).Once()
	suite.mockMigration.On("UpdateMigrationStatus", ctx, "fund-1", "file-1", domain.MigrationBookclosed, &suite.lastPricing).Return(nil).Once()

	record, err := suite.service.Bookclose(ctx, "fund-1", "file-1")

	suite.Require().NoError(err)
	suite.Equal(domain.MigrationBookclosed, record.Status)
	suite.Require().NotNil(record.ReportingPeriod)
	suite.True(record.ReportingPeriod.Equal(suite.lastPricing))
	suite.mockMigration.AssertExpectations(suite.T())
}

func (suite *MigrationServiceTestSuite) TestBookclose_RefusesWhenNotReconciled() {
	ctx := context.Background()

	suite.expectFund()
	suite.mockMigration.On("FindMigration", ctx, "fund-1", "file-1").
		Return(&domain.MigrationRecord{FileID: "file-1", FundID: "fund-1", Status: domain.MigrationPending}, nil).Once()

	record, err := suite.service.Bookclose(ctx, "fund-1", "file-1")

	suite.Nil(record)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *MigrationServiceTestSuite) TestBookclose_InconsistentComparisonBlocksStamp() {
	ctx := context.Background()

	suite.expectFund()
	suite.expectLastPricing()
	suite.mockMigration.On("FindMigration", ctx, "fund-1", "file-1").
		Return(&domain.MigrationRecord{FileID: "file-1", FundID: "fund-1", Status: domain.MigrationReconciled}, nil).Once()

	suite.mockLedger.On("ComputedBalances", mock.Anything, "fund-1", suite.lastPricing, domain.ScopePTD).
		Return(suite.computedSet(map[string]string{"13110": "100"}), nil).Once()
	suite.mockMigration.On("UploadedBalances", mock.Anything, "fund-1", "file-1", suite.lastPricing).
		Return(suite.uploadedSet(map[string]string{"13110": "90"}), nil).Once()

	record, err := suite.service.Bookclose(ctx, "fund-1", "file-1")

	suite.Nil(record)
	suite.ErrorIs(err, apperrors.ErrInconsistent)
	suite.mockMigration.AssertNotCalled(suite.T(), "UpdateMigrationStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// --- Revert ---

func (suite *MigrationServiceTestSuite) TestRevertMigration_DeletesEverything() {
	ctx := context.Background()
	reportingPeriod := suite.lastPricing

	suite.expectFund()
	suite.mockMigration.On("FindMigration", ctx, "fund-1", "file-1").
		Return(&domain.MigrationRecord{FileID: "file-1", FundID: "fund-1", Status: domain.MigrationBookclosed, ReportingPeriod: &reportingPeriod}, nil).Once()
	suite.mockGuard.On("CanRevert", ctx, "fund-1", reportingPeriod).Return(nil).Once()
	suite.mockJournals.On("DeleteAdjustmentsByFile", ctx, "fund-1", "file-1").Return(3, nil).Once()
	suite.mockMigration.On("DeleteMigration", ctx, "fund-1", "file-1").Return(1, 42, nil).Once()

	counts, err := suite.service.RevertMigration(ctx, "fund-1", "file-1")

	suite.Require().NoError(err)
	suite.Equal(domain.DeletedCounts{MigrationRows: 1, BufferRows: 42, JournalRows: 3}, counts)
	suite.mockJournals.AssertExpectations(suite.T())
}

func (suite *MigrationServiceTestSuite) TestRevertMigration_GuardRejected() {
	ctx := context.Background()
	reportingPeriod := suite.lastPricing

	suite.expectFund()
	suite.mockMigration.On("FindMigration", ctx, "fund-1", "file-1").
		Return(&domain.MigrationRecord{FileID: "file-1", FundID: "fund-1", Status: domain.MigrationBookclosed, ReportingPeriod: &reportingPeriod}, nil).Once()
	suite.mockGuard.On("CanRevert", ctx, "fund-1", reportingPeriod).Return(apperrors.ErrGuardRejected).Once()

	_, err := suite.service.RevertMigration(ctx, "fund-1", "file-1")

	suite.ErrorIs(err, apperrors.ErrGuardRejected)
	suite.mockJournals.AssertNotCalled(suite.T(), "DeleteAdjustmentsByFile", mock.Anything, mock.Anything, mock.Anything)
	suite.mockMigration.AssertNotCalled(suite.T(), "DeleteMigration", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *MigrationServiceTestSuite) TestRevertMigration_UnstampedRecordUsesWouldBePeriod() {
	ctx := context.Background()

	suite.expectFund()
	suite.expectLastPricing()
	suite.mockMigration.On("FindMigration", ctx, "fund-1", "file-1").
		Return(&domain.MigrationRecord{FileID: "file-1", FundID: "fund-1", Status: domain.MigrationPending}, nil).Once()
	suite.mockGuard.On("CanRevert", ctx, "fund-1", suite.lastPricing).Return(nil).Once()
	suite.mockJournals.On("DeleteAdjustmentsByFile", ctx, "fund-1", "file-1").Return(0, nil).Once()
	suite.mockMigration.On("DeleteMigration", ctx, "fund-1", "file-1").Return(1, 10, nil).Once()

	counts, err := suite.service.RevertMigration(ctx, "fund-1", "file-1")

	suite.Require().NoError(err)
	suite.Equal(domain.DeletedCounts{MigrationRows: 1, BufferRows: 10, JournalRows: 0}, counts)
}

func (suite *MigrationServiceTestSuite) TestCanRevertMigration_Blocked() {
	ctx := context.Background()
	reportingPeriod := suite.lastPricing

	suite.expectFund()
	suite.mockMigration.On("FindMigration", ctx, "fund-1", "file-1").
		Return(&domain.MigrationRecord{FileID: "file-1", FundID: "fund-1", Status: domain.MigrationBookclosed, ReportingPeriod: &reportingPeriod}, nil).Once()
	suite.mockGuard.On("CanRevert", ctx, "fund-1", reportingPeriod).Return(apperrors.ErrGuardRejected).Once()

	allowed, reason, err := suite.service.CanRevertMigration(ctx, "fund-1", "file-1")

	suite.NoError(err)
	suite.False(allowed)
	suite.NotEmpty(reason)
}

// --- Comparison views ---

func (suite *MigrationServiceTestSuite) TestGetComparisonReport_ReviewFilterKeepsEligibilityUnrestricted() {
	ctx := context.Background()

	suite.expectFund()
	suite.expectLastPricing()
	suite.mockMigration.On("FindMigration", ctx, "fund-1", "file-1").
		Return(&domain.MigrationRecord{FileID: "file-1", FundID: "fund-1", Status: domain.MigrationUploaded}, nil).Once()

	// 40100 differs but sits outside the review ranges.
	suite.mockLedger.On("ComputedBalances", mock.Anything, "fund-1", suite.lastPricing, domain.ScopePTD).
		Return(suite.computedSet(map[string]string{"13110": "100", "40100": "500"}), nil).Once()
	suite.mockMigration.On("UploadedBalances", mock.Anything, "fund-1", "file-1", suite.lastPricing).
		Return(suite.uploadedSet(map[string]string{"13110": "100", "40100": "10"}), nil).Once()
	suite.mockGLs.On("FindGLAccountNames", ctx, []string{"13110"}).Return(map[string]string{}, nil).Once()

	report, err := suite.service.GetComparisonReport(ctx, "fund-1", "file-1", domain.DefaultReviewRanges)

	suite.Require().NoError(err)
	suite.Require().Len(report.Rows, 1)
	suite.Equal("13110", report.Rows[0].GLCode)
	suite.False(report.CanReconcile, "hidden unresolved row still blocks eligibility")
}

func (suite *MigrationServiceTestSuite) TestGetGroupedComparison_BucketsByCategory() {
	ctx := context.Background()

	suite.expectFund()
	suite.expectLastPricing()
	suite.mockMigration.On("FindMigration", ctx, "fund-1", "file-1").
		Return(&domain.MigrationRecord{FileID: "file-1", FundID: "fund-1", Status: domain.MigrationUploaded}, nil).Once()

	matching := map[string]string{"13110": "100", "21210": "-40"}
	suite.mockLedger.On("ComputedBalances", mock.Anything, "fund-1", suite.lastPricing, domain.ScopePTD).
		Return(suite.computedSet(matching), nil).Once()
	suite.mockMigration.On("UploadedBalances", mock.Anything, "fund-1", "file-1", suite.lastPricing).
		Return(suite.uploadedSet(matching), nil).Once()
	suite.mockGLs.On("FindGLAccountNames", ctx, mock.Anything).Return(map[string]string{}, nil)

	grouped, err := suite.service.GetGroupedComparison(ctx, "fund-1", "file-1")

	suite.Require().NoError(err)
	suite.Require().Len(grouped.Sections, 2)
	suite.Equal(domain.Asset, grouped.Sections[0].Category)
	suite.Equal(domain.Liability, grouped.Sections[1].Category)
	suite.True(grouped.CanReconcile)
}

func TestMigrationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(MigrationServiceTestSuite))
}
