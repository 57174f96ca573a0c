package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/fundops/fund_admin_app/internal/apperrors"
	"github.com/fundops/fund_admin_app/internal/core/domain"
	portssvc "github.com/fundops/fund_admin_app/internal/core/ports/services"
	"github.com/fundops/fund_admin_app/internal/core/services"
	"github.com/fundops/fund_admin_app/internal/dto"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

func newFundRequest(onboardMode string) dto.CreateFundRequest {
	return dto.CreateFundRequest{
		Name:               "Test Fund",
		OrgID:              "org-1",
		OnboardMode:        onboardMode,
		ReportingStartDate: "2024-01-01",
		CurrencyCode:       "USD",
	}
}

type FundServiceTestSuite struct {
	suite.Suite
	mockRepo *MockFundRepository
	service  portssvc.FundSvcFacade
}

func (suite *FundServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockFundRepository)
	suite.service = services.NewFundService(suite.mockRepo)
}

func (suite *FundServiceTestSuite) TestCreateFund_Success() {
	ctx := context.Background()
	req := newFundRequest("new_fund")

	suite.mockRepo.On("SaveFund", ctx, mock.MatchedBy(func(f domain.Fund) bool {
		return f.Name == req.Name && f.OnboardMode == domain.NewFund &&
			f.ReportingStartDate.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) &&
			f.IsActive && f.CreatedBy == "user-1" && f.FundID != ""
	})).Return(nil).Once()

	fund, err := suite.service.CreateFund(ctx, req, "user-1")

	suite.Require().NoError(err)
	suite.Require().NotNil(fund)
	suite.Equal(domain.NewFund, fund.OnboardMode)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *FundServiceTestSuite) TestCreateFund_NormalizesOnboardModeCase() {
	ctx := context.Background()
	req := newFundRequest("  existing_fund ")

	suite.mockRepo.On("SaveFund", ctx, mock.MatchedBy(func(f domain.Fund) bool {
		return f.OnboardMode == domain.ExistingFund
	})).Return(nil).Once()

	fund, err := suite.service.CreateFund(ctx, req, "user-1")

	suite.Require().NoError(err)
	suite.Equal(domain.ExistingFund, fund.OnboardMode)
}

func (suite *FundServiceTestSuite) TestCreateFund_RejectsUnknownOnboardMode() {
	ctx := context.Background()
	req := newFundRequest("TRANSFER_FUND")

	fund, err := suite.service.CreateFund(ctx, req, "user-1")

	suite.Nil(fund)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveFund", mock.Anything, mock.Anything)
}

func (suite *FundServiceTestSuite) TestCreateFund_RejectsBadStartDate() {
	ctx := context.Background()
	req := newFundRequest("new_fund")
	req.ReportingStartDate = "01/01/2024"

	fund, err := suite.service.CreateFund(ctx, req, "user-1")

	suite.Nil(fund)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *FundServiceTestSuite) TestGetFundByID_EmptyID() {
	_, err := suite.service.GetFundByID(context.Background(), "")
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func TestFundServiceTestSuite(t *testing.T) {
	suite.Run(t, new(FundServiceTestSuite))
}
