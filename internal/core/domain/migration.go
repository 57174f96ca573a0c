package domain

import (
	"fmt"
	"strings"
	"time"
)

// MigrationStatus is the lifecycle state of a trial-balance migration.
type MigrationStatus string

const (
	MigrationUploaded   MigrationStatus = "UPLOADED"
	MigrationPending    MigrationStatus = "PENDING"
	MigrationReconciled MigrationStatus = "RECONCILED"
	MigrationBookclosed MigrationStatus = "BOOKCLOSED"
)

// OnboardMode says whether a fund is brand new to the platform or carries an
// existing accounting history. Validated once at ingestion; never inferred by
// string matching downstream.
type OnboardMode string

const (
	NewFund      OnboardMode = "NEW_FUND"
	ExistingFund OnboardMode = "EXISTING_FUND"
)

// ParseOnboardMode validates a raw onboarding mode value into the closed enum.
func ParseOnboardMode(raw string) (OnboardMode, error) {
	switch OnboardMode(strings.ToUpper(strings.TrimSpace(raw))) {
	case NewFund:
		return NewFund, nil
	case ExistingFund:
		return ExistingFund, nil
	default:
		return "", fmt.Errorf("invalid onboard mode %q", raw)
	}
}

// MigrationRecord tracks one uploaded legacy trial balance for a fund.
// At most one non-reverted record exists per fund at any time; status is
// mutated only by the migration service and ReportingPeriod is stamped at
// bookclose.
type MigrationRecord struct {
	FileID          string          `json:"fileID"`
	FundID          string          `json:"fundID"`
	FileName        string          `json:"fileName"`
	Status          MigrationStatus `json:"status"`
	ReportingPeriod *time.Time      `json:"reportingPeriod,omitempty"` // date-only, set at bookclose
	UploadedAt      time.Time       `json:"uploadedAt"`
	UploadedBy      string          `json:"uploadedBy"`
}

// DeletedCounts reports what a migration revert removed.
type DeletedCounts struct {
	MigrationRows int `json:"migrationRows"`
	BufferRows    int `json:"bufferRows"`
	JournalRows   int `json:"journalRows"`
}
