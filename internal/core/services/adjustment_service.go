package services

import (
	"fmt"
	"time"

	"github.com/fundops/fund_admin_app/internal/core/domain"
	portssvc "github.com/fundops/fund_admin_app/internal/core/ports/services"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// adjustmentService synthesizes balancing journal entries for material
// comparison differences.
type adjustmentService struct {
	tolerance decimal.Decimal
}

// NewAdjustmentService creates a synthesizer with the given materiality
// tolerance. Differences below it are left alone.
func NewAdjustmentService(tolerance decimal.Decimal) portssvc.AdjustmentSvc {
	return &adjustmentService{tolerance: tolerance}
}

var _ portssvc.AdjustmentSvc = (*adjustmentService)(nil)

// Synthesize emits one entry per row with |difference| >= tolerance. A
// positive difference (computed above uploaded) debits the GL and credits the
// offset account; a negative one flips the legs. Debits lower a signed
// closing, so the GL leg always walks the computed balance toward the
// uploaded value. Every entry pairs the GL with the same offset account on
// the opposite side, so the batch balances globally by construction.
func (s *adjustmentService) Synthesize(rows []domain.ComparisonRow, offsetAccount string, journalDate time.Time, createdBy string) []domain.AdjustmentJournalEntry {
	now := time.Now().UTC()
	var entries []domain.AdjustmentJournalEntry
	for _, row := range rows {
		if row.Difference.Abs().LessThan(s.tolerance) {
			continue
		}
		isPositive := row.Difference.IsPositive()
		entry := domain.AdjustmentJournalEntry{
			JournalID:   uuid.NewString(),
			GLCode:      row.GLCode,
			GLName:      row.GLName,
			Difference:  row.Difference,
			Amount:      row.Difference.Abs(),
			IsPositive:  isPositive,
			JournalDate: journalDate,
			Description: fmt.Sprintf("Migration adjustment for GL %s", row.GLCode),
			JournalType: domain.JournalTypeMigration,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     createdBy,
				LastUpdatedAt: now,
				LastUpdatedBy: createdBy,
			},
		}
		if isPositive {
			entry.DrAccount = row.GLCode
			entry.CrAccount = offsetAccount
		} else {
			entry.DrAccount = offsetAccount
			entry.CrAccount = row.GLCode
		}
		entries = append(entries, entry)
	}
	return entries
}
