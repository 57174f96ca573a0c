package pgsql

import (
	portsrepo "github.com/fundops/fund_admin_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires every pgx-backed repository over the shared pool.
func NewRepositoryProvider(pool *pgxpool.Pool) *portsrepo.RepositoryProvider {
	return &portsrepo.RepositoryProvider{
		FundRepo:      NewPgxFundRepository(pool),
		GLAccountRepo: NewPgxGLAccountRepository(pool),
		MigrationRepo: NewPgxMigrationRepository(pool),
		PricingRepo:   NewPgxPricingRepository(pool),
		LedgerRepo:    NewPgxLedgerRepository(pool),
		JournalRepo:   NewPgxAdjustmentJournalRepository(pool),
	}
}
