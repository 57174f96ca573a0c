package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/fundops/fund_admin_app/internal/apperrors"
	"github.com/fundops/fund_admin_app/internal/core/domain"
	portsrepo "github.com/fundops/fund_admin_app/internal/core/ports/repositories"
	portssvc "github.com/fundops/fund_admin_app/internal/core/ports/services"
	"github.com/fundops/fund_admin_app/internal/dto"
)

// fundService provides fund master operations.
type fundService struct {
	BaseService
	fundRepo portsrepo.FundRepositoryFacade
}

// NewFundService creates a new FundService.
func NewFundService(fundRepo portsrepo.FundRepositoryFacade) portssvc.FundSvcFacade {
	return &fundService{fundRepo: fundRepo}
}

var _ portssvc.FundSvcFacade = (*fundService)(nil)

// CreateFund registers a new fund. The onboarding mode is validated into the
// closed enum here, at ingestion, so nothing downstream pattern-matches it.
func (s *fundService) CreateFund(ctx context.Context, req dto.CreateFundRequest, creatorUserID string) (*domain.Fund, error) {
	mode, err := domain.ParseOnboardMode(req.OnboardMode)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	startDate, err := time.ParseInLocation("2006-01-02", req.ReportingStartDate, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid reporting start date %q", apperrors.ErrValidation, req.ReportingStartDate)
	}

	now := time.Now().UTC()
	fund := domain.Fund{
		FundID:             uuid.NewString(),
		OrgID:              req.OrgID,
		Name:               req.Name,
		OnboardMode:        mode,
		ReportingStartDate: startDate,
		CurrencyCode:       req.CurrencyCode,
		IsActive:           true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.fundRepo.SaveFund(ctx, fund); err != nil {
		s.LogError(ctx, err, "Failed to save fund", slog.String("fund_name", req.Name))
		return nil, err
	}

	s.LogInfo(ctx, "Fund created", slog.String("fund_id", fund.FundID), slog.String("fund_name", fund.Name))
	return &fund, nil
}

// GetFundByID retrieves a fund by ID.
func (s *fundService) GetFundByID(ctx context.Context, fundID string) (*domain.Fund, error) {
	if fundID == "" {
		return nil, fmt.Errorf("%w: fund ID is required", apperrors.ErrValidation)
	}
	return s.fundRepo.FindFundByID(ctx, fundID)
}

// ListFunds retrieves all active funds.
func (s *fundService) ListFunds(ctx context.Context) ([]domain.Fund, error) {
	return s.fundRepo.ListFunds(ctx)
}
