package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/fundops/fund_admin_app/internal/apperrors"
	"github.com/fundops/fund_admin_app/internal/core/domain"
	portssvc "github.com/fundops/fund_admin_app/internal/core/ports/services"
	"github.com/fundops/fund_admin_app/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock PricingRepository ---
type MockPricingRepository struct {
	mock.Mock
}

func (m *MockPricingRepository) ListPricingPeriods(ctx context.Context, fundID string) ([]domain.PricingPeriod, error) {
	args := m.Called(ctx, fundID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PricingPeriod), args.Error(1)
}

func (m *MockPricingRepository) LastPricingDate(ctx context.Context, fundID string) (*time.Time, error) {
	args := m.Called(ctx, fundID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*time.Time), args.Error(1)
}

// --- Mock MigrationRepository ---
type MockMigrationRepository struct {
	mock.Mock
}

func (m *MockMigrationRepository) FindMigration(ctx context.Context, fundID, fileID string) (*domain.MigrationRecord, error) {
	args := m.Called(ctx, fundID, fileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MigrationRecord), args.Error(1)
}

func (m *MockMigrationRepository) FindActiveMigrationByFund(ctx context.Context, fundID string) (*domain.MigrationRecord, error) {
	args := m.Called(ctx, fundID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MigrationRecord), args.Error(1)
}

func (m *MockMigrationRepository) ListMigrationsByFund(ctx context.Context, fundID string) ([]domain.MigrationRecord, error) {
	args := m.Called(ctx, fundID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MigrationRecord), args.Error(1)
}

func (m *MockMigrationRepository) UploadedBalances(ctx context.Context, fundID, fileID string, asOf time.Time) (domain.BalanceSet, error) {
	args := m.Called(ctx, fundID, fileID, asOf)
	return args.Get(0).(domain.BalanceSet), args.Error(1)
}

func (m *MockMigrationRepository) CreateMigration(ctx context.Context, record domain.MigrationRecord, rows []domain.BalanceRow) error {
	args := m.Called(ctx, record, rows)
	return args.Error(0)
}

func (m *MockMigrationRepository) UpdateMigrationStatus(ctx context.Context, fundID, fileID string, status domain.MigrationStatus, reportingPeriod *time.Time) error {
	args := m.Called(ctx, fundID, fileID, status, reportingPeriod)
	return args.Error(0)
}

func (m *MockMigrationRepository) DeleteMigration(ctx context.Context, fundID, fileID string) (int, int, error) {
	args := m.Called(ctx, fundID, fileID)
	return args.Int(0), args.Int(1), args.Error(2)
}

// --- Test Suite ---
type PricingGuardServiceTestSuite struct {
	suite.Suite
	mockPricing   *MockPricingRepository
	mockMigration *MockMigrationRepository
	guard         portssvc.PricingGuardSvc
}

func (suite *PricingGuardServiceTestSuite) SetupTest() {
	suite.mockPricing = new(MockPricingRepository)
	suite.mockMigration = new(MockMigrationRepository)
	suite.guard = services.NewPricingGuardService(suite.mockPricing, suite.mockMigration)
}

func pricingPeriod(fundID string, year int, month time.Month, day int) domain.PricingPeriod {
	return domain.PricingPeriod{
		FundID:  fundID,
		EndDate: time.Date(year, month, day, 0, 0, 0, 0, time.UTC),
	}
}

func (suite *PricingGuardServiceTestSuite) TestCanUpload_NoPricingPeriods() {
	ctx := context.Background()
	suite.mockPricing.On("ListPricingPeriods", ctx, "fund-1").Return([]domain.PricingPeriod{}, nil).Once()

	suite.NoError(suite.guard.CanUpload(ctx, "fund-1"))
	suite.mockPricing.AssertExpectations(suite.T())
}

func (suite *PricingGuardServiceTestSuite) TestCanUpload_TwoOrMorePeriods() {
	ctx := context.Background()
	suite.mockPricing.On("ListPricingPeriods", ctx, "fund-1").Return([]domain.PricingPeriod{
		pricingPeriod("fund-1", 2024, time.January, 31),
		pricingPeriod("fund-1", 2024, time.February, 29),
	}, nil).Once()

	suite.NoError(suite.guard.CanUpload(ctx, "fund-1"))
	suite.mockPricing.AssertExpectations(suite.T())
}

func (suite *PricingGuardServiceTestSuite) TestCanUpload_SinglePeriodWithMatchingMigrationMonth() {
	ctx := context.Background()
	reportingPeriod := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	suite.mockPricing.On("ListPricingPeriods", ctx, "fund-1").Return([]domain.PricingPeriod{
		pricingPeriod("fund-1", 2024, time.January, 31),
	}, nil).Once()
	suite.mockMigration.On("ListMigrationsByFund", ctx, "fund-1").Return([]domain.MigrationRecord{
		{FileID: "file-1", FundID: "fund-1", Status: domain.MigrationBookclosed, ReportingPeriod: &reportingPeriod},
	}, nil).Once()

	suite.NoError(suite.guard.CanUpload(ctx, "fund-1"))
	suite.mockPricing.AssertExpectations(suite.T())
	suite.mockMigration.AssertExpectations(suite.T())
}

func (suite *PricingGuardServiceTestSuite) TestCanUpload_SinglePeriodWrongMonth() {
	ctx := context.Background()
	reportingPeriod := time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)

	suite.mockPricing.On("ListPricingPeriods", ctx, "fund-1").Return([]domain.PricingPeriod{
		pricingPeriod("fund-1", 2024, time.January, 31),
	}, nil).Once()
	suite.mockMigration.On("ListMigrationsByFund", ctx, "fund-1").Return([]domain.MigrationRecord{
		{FileID: "file-1", FundID: "fund-1", Status: domain.MigrationBookclosed, ReportingPeriod: &reportingPeriod},
	}, nil).Once()

	err := suite.guard.CanUpload(ctx, "fund-1")
	suite.ErrorIs(err, apperrors.ErrGuardRejected)
	suite.Contains(err.Error(), "2024-01")
}

func (suite *PricingGuardServiceTestSuite) TestCanUpload_SinglePeriodNoMigrations() {
	ctx := context.Background()

	suite.mockPricing.On("ListPricingPeriods", ctx, "fund-1").Return([]domain.PricingPeriod{
		pricingPeriod("fund-1", 2024, time.January, 31),
	}, nil).Once()
	suite.mockMigration.On("ListMigrationsByFund", ctx, "fund-1").Return(nil, apperrors.ErrNotFound).Once()

	suite.ErrorIs(suite.guard.CanUpload(ctx, "fund-1"), apperrors.ErrGuardRejected)
}

func (suite *PricingGuardServiceTestSuite) TestCanUpload_UnstampedRecordsDoNotSatisfyGuard() {
	ctx := context.Background()

	suite.mockPricing.On("ListPricingPeriods", ctx, "fund-1").Return([]domain.PricingPeriod{
		pricingPeriod("fund-1", 2024, time.January, 31),
	}, nil).Once()
	suite.mockMigration.On("ListMigrationsByFund", ctx, "fund-1").Return([]domain.MigrationRecord{
		{FileID: "file-1", FundID: "fund-1", Status: domain.MigrationPending, ReportingPeriod: nil},
	}, nil).Once()

	suite.ErrorIs(suite.guard.CanUpload(ctx, "fund-1"), apperrors.ErrGuardRejected)
}

func (suite *PricingGuardServiceTestSuite) TestCanUpload_PricingQueryFailure() {
	ctx := context.Background()
	suite.mockPricing.On("ListPricingPeriods", ctx, "fund-1").Return(nil, assert.AnError).Once()

	suite.ErrorIs(suite.guard.CanUpload(ctx, "fund-1"), apperrors.ErrUpstreamUnavailable)
}

func (suite *PricingGuardServiceTestSuite) TestCanRevert_NoLaterPricing() {
	ctx := context.Background()
	reportingPeriod := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	suite.mockPricing.On("ListPricingPeriods", ctx, "fund-1").Return([]domain.PricingPeriod{
		pricingPeriod("fund-1", 2024, time.January, 31),
	}, nil).Once()

	suite.NoError(suite.guard.CanRevert(ctx, "fund-1", reportingPeriod))
}

func (suite *PricingGuardServiceTestSuite) TestCanRevert_LaterPricingBlocks() {
	ctx := context.Background()
	reportingPeriod := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	suite.mockPricing.On("ListPricingPeriods", ctx, "fund-1").Return([]domain.PricingPeriod{
		pricingPeriod("fund-1", 2024, time.January, 31),
		pricingPeriod("fund-1", 2024, time.March, 31),
	}, nil).Once()

	err := suite.guard.CanRevert(ctx, "fund-1", reportingPeriod)
	suite.ErrorIs(err, apperrors.ErrGuardRejected)
	suite.Contains(err.Error(), "2024-03")
}

func (suite *PricingGuardServiceTestSuite) TestCanRevert_SameMonthLaterDayAllowed() {
	ctx := context.Background()
	// Pricing later in the same month compares equal on (year, month).
	reportingPeriod := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	suite.mockPricing.On("ListPricingPeriods", ctx, "fund-1").Return([]domain.PricingPeriod{
		pricingPeriod("fund-1", 2024, time.January, 31),
	}, nil).Once()

	suite.NoError(suite.guard.CanRevert(ctx, "fund-1", reportingPeriod))
}

func TestPricingGuardServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PricingGuardServiceTestSuite))
}
