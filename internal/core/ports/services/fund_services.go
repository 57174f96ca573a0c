package services

import (
	"context"

	"github.com/fundops/fund_admin_app/internal/core/domain"
	"github.com/fundops/fund_admin_app/internal/dto"
)

// FundSvcFacade defines the fund master operations.
type FundSvcFacade interface {
	// CreateFund registers a new fund.
	CreateFund(ctx context.Context, req dto.CreateFundRequest, creatorUserID string) (*domain.Fund, error)

	// GetFundByID retrieves a fund by ID.
	GetFundByID(ctx context.Context, fundID string) (*domain.Fund, error)

	// ListFunds retrieves all active funds.
	ListFunds(ctx context.Context) ([]domain.Fund, error)
}
