package domain

import "time"

// Fund is the reference-data master the migration engine operates against.
type Fund struct {
	FundID             string      `json:"fundID"` // Primary Key (e.g., UUID)
	OrgID              string      `json:"orgID"`
	Name               string      `json:"name"`
	OnboardMode        OnboardMode `json:"onboardMode"`
	ReportingStartDate time.Time   `json:"reportingStartDate"` // date-only
	CurrencyCode       string      `json:"currencyCode"`
	IsActive           bool        `json:"isActive"`
	AuditFields
}
