package repositories

import (
	"context"

	"github.com/fundops/fund_admin_app/internal/core/domain"
)

// GLAccountReader defines read operations for the GL master.
type GLAccountReader interface {
	// FindGLAccountByCode retrieves a GL master entry by code.
	FindGLAccountByCode(ctx context.Context, code string) (*domain.GLAccount, error)

	// ListGLAccounts retrieves all GL master entries.
	ListGLAccounts(ctx context.Context) ([]domain.GLAccount, error)

	// FindGLAccountNames returns a code -> name map for the given codes.
	// Codes without a master entry are simply absent from the result.
	FindGLAccountNames(ctx context.Context, codes []string) (map[string]string, error)
}

// GLAccountWriter defines write operations for the GL master.
type GLAccountWriter interface {
	// SaveGLAccount persists a new GL master entry.
	SaveGLAccount(ctx context.Context, account domain.GLAccount) error
}

// GLAccountRepositoryFacade combines all GL master repository interfaces.
type GLAccountRepositoryFacade interface {
	GLAccountReader
	GLAccountWriter
}
