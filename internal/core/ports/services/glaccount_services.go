package services

import (
	"context"

	"github.com/fundops/fund_admin_app/internal/core/domain"
	"github.com/fundops/fund_admin_app/internal/dto"
)

// GLAccountSvcFacade defines the GL master operations.
type GLAccountSvcFacade interface {
	// CreateGLAccount adds a GL master entry; category and nature are derived
	// from the code, never taken from the request.
	CreateGLAccount(ctx context.Context, req dto.CreateGLAccountRequest, creatorUserID string) (*domain.GLAccount, error)

	// GetGLAccountByCode retrieves a GL master entry.
	GetGLAccountByCode(ctx context.Context, code string) (*domain.GLAccount, error)

	// ListGLAccounts retrieves all GL master entries.
	ListGLAccounts(ctx context.Context) ([]domain.GLAccount, error)
}
