package repositories

// RepositoryProvider aggregates every repository implementation the service
// container needs, so wiring happens in one place.
type RepositoryProvider struct {
	FundRepo      FundRepositoryFacade
	GLAccountRepo GLAccountRepositoryFacade
	MigrationRepo MigrationRecordRepositoryFacade
	PricingRepo   PricingReader
	LedgerRepo    LedgerReader
	JournalRepo   AdjustmentJournalWriter
}
