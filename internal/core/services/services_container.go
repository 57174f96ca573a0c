package services

import (
	portsrepo "github.com/fundops/fund_admin_app/internal/core/ports/repositories"
	portssvc "github.com/fundops/fund_admin_app/internal/core/ports/services"
	"github.com/fundops/fund_admin_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly
// initialized dependencies.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, parser portssvc.TrialBalanceParser) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Fund = NewFundService(repos.FundRepo)
	container.GLAccount = NewGLAccountService(repos.GLAccountRepo)

	// The pure engine pieces share one tolerance so comparison and
	// synthesis can never disagree on materiality.
	comparison := NewComparisonService(cfg.Tolerance)
	adjustment := NewAdjustmentService(cfg.Tolerance)
	guard := NewPricingGuardService(repos.PricingRepo, repos.MigrationRepo)

	container.Migration = NewMigrationService(
		repos.FundRepo,
		repos.GLAccountRepo,
		repos.MigrationRepo,
		repos.PricingRepo,
		repos.LedgerRepo,
		repos.JournalRepo,
		comparison,
		adjustment,
		guard,
		parser,
		cfg.OffsetAccount,
		cfg.UpstreamTimeout,
	)

	return container
}
