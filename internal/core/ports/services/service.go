package services

// ServiceContainer holds instances of all the application services.
// Handlers receive this and pick the facades they need.
type ServiceContainer struct {
	Fund      FundSvcFacade
	GLAccount GLAccountSvcFacade
	Migration MigrationSvcFacade
}
