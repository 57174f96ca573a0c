package repositories

import (
	"context"

	"github.com/fundops/fund_admin_app/internal/core/domain"
)

// FundReader defines read operations for fund master data.
type FundReader interface {
	// FindFundByID retrieves a fund by its unique identifier.
	FindFundByID(ctx context.Context, fundID string) (*domain.Fund, error)

	// ListFunds retrieves all active funds.
	ListFunds(ctx context.Context) ([]domain.Fund, error)
}

// FundWriter defines write operations for fund master data.
type FundWriter interface {
	// SaveFund persists a new fund.
	SaveFund(ctx context.Context, fund domain.Fund) error
}

// FundRepositoryFacade combines all fund repository interfaces.
type FundRepositoryFacade interface {
	FundReader
	FundWriter
}
