package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/fundops/fund_admin_app/internal/apperrors"
	"github.com/fundops/fund_admin_app/internal/core/domain"
	portsrepo "github.com/fundops/fund_admin_app/internal/core/ports/repositories"
	portssvc "github.com/fundops/fund_admin_app/internal/core/ports/services"
)

// pricingGuardService decides whether migration uploads and reverts are
// allowed given the fund's pricing timeline.
type pricingGuardService struct {
	BaseService
	pricingRepo   portsrepo.PricingReader
	migrationRepo portsrepo.MigrationRecordReader
}

// NewPricingGuardService creates the pricing timeline guard.
func NewPricingGuardService(pricingRepo portsrepo.PricingReader, migrationRepo portsrepo.MigrationRecordReader) portssvc.PricingGuardSvc {
	return &pricingGuardService{
		pricingRepo:   pricingRepo,
		migrationRepo: migrationRepo,
	}
}

var _ portssvc.PricingGuardSvc = (*pricingGuardService)(nil)

// CanUpload applies the upload rule by pricing-period count:
// none recorded -> always allowed; two or more -> always allowed; exactly
// one -> allowed only when an existing migration's reporting period falls in
// the month of the earliest pricing period. Selection is by ascending end
// date since one month can hold multiple pricing runs.
func (s *pricingGuardService) CanUpload(ctx context.Context, fundID string) error {
	periods, err := s.pricingRepo.ListPricingPeriods(ctx, fundID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list pricing periods for upload guard", slog.String("fund_id", fundID))
		return fmt.Errorf("%w: pricing timeline query failed: %v", apperrors.ErrUpstreamUnavailable, err)
	}

	if len(periods) != 1 {
		return nil
	}

	earliest := periods[0]
	records, err := s.migrationRepo.ListMigrationsByFund(ctx, fundID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to list migrations for upload guard", slog.String("fund_id", fundID))
		return fmt.Errorf("%w: migration record query failed: %v", apperrors.ErrUpstreamUnavailable, err)
	}
	for _, record := range records {
		if record.ReportingPeriod == nil {
			continue
		}
		if domain.SameMonth(*record.ReportingPeriod, earliest.EndDate) {
			return nil
		}
	}

	return fmt.Errorf("%w: first-month migration missing for %s", apperrors.ErrGuardRejected, earliest.EndDate.UTC().Format("2006-01"))
}

// CanRevert refuses when any recorded pricing period's month is strictly
// after the migration's reporting period month. Months compare as UTC
// (year, month) tuples.
func (s *pricingGuardService) CanRevert(ctx context.Context, fundID string, reportingPeriod time.Time) error {
	periods, err := s.pricingRepo.ListPricingPeriods(ctx, fundID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list pricing periods for revert guard", slog.String("fund_id", fundID))
		return fmt.Errorf("%w: pricing timeline query failed: %v", apperrors.ErrUpstreamUnavailable, err)
	}

	for _, period := range periods {
		if domain.MonthAfter(period.EndDate, reportingPeriod) {
			return fmt.Errorf("%w: pricing period %s ends after reporting period %s",
				apperrors.ErrGuardRejected,
				period.EndDate.UTC().Format("2006-01"),
				reportingPeriod.UTC().Format("2006-01"))
		}
	}
	return nil
}
