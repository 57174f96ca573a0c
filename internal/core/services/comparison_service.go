package services

import (
	"sort"

	"github.com/fundops/fund_admin_app/internal/core/domain"
	portssvc "github.com/fundops/fund_admin_app/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// comparisonService merges computed and uploaded balance sets by GL code and
// computes per-row and aggregate differences.
type comparisonService struct {
	tolerance decimal.Decimal
}

// NewComparisonService creates a comparator with the given reconciliation
// tolerance (currency units).
func NewComparisonService(tolerance decimal.Decimal) portssvc.ComparisonSvc {
	return &comparisonService{tolerance: tolerance}
}

var _ portssvc.ComparisonSvc = (*comparisonService)(nil)

// Compare unions the GL codes of both sets, defaulting the missing side's
// closing to zero, and sorts rows in ascending numeric GL-code order.
func (s *comparisonService) Compare(computed, uploaded domain.BalanceSet) domain.ComparisonReport {
	codes := make(map[string]struct{}, len(computed.Rows)+len(uploaded.Rows))
	for code := range computed.Rows {
		codes[code] = struct{}{}
	}
	for code := range uploaded.Rows {
		codes[code] = struct{}{}
	}

	rows := make([]domain.ComparisonRow, 0, len(codes))
	for code := range codes {
		row := domain.ComparisonRow{GLCode: code}
		row.Category, _ = domain.ClassifyGLCode(code)
		if c, ok := computed.Rows[code]; ok {
			row.ComputedClosing = c.Closing
			row.GLName = c.GLName
		} else {
			row.ComputedClosing = decimal.Zero
		}
		if u, ok := uploaded.Rows[code]; ok {
			row.UploadedClosing = u.Closing
			if row.GLName == "" {
				row.GLName = u.GLName
			}
		} else {
			row.UploadedClosing = decimal.Zero
		}
		row.Difference = row.ComputedClosing.Sub(row.UploadedClosing)
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		return domain.CompareGLCodes(rows[i].GLCode, rows[j].GLCode) < 0
	})

	report := domain.ComparisonReport{
		Rows:          rows,
		TotalComputed: decimal.Zero,
		TotalUploaded: decimal.Zero,
		TotalDiff:     decimal.Zero,
		Tolerance:     s.tolerance,
	}
	withinTolerance := true
	for _, row := range rows {
		report.TotalComputed = report.TotalComputed.Add(row.ComputedClosing)
		report.TotalUploaded = report.TotalUploaded.Add(row.UploadedClosing)
		report.TotalDiff = report.TotalDiff.Add(row.Difference)
		if row.Difference.Abs().GreaterThanOrEqual(s.tolerance) {
			withinTolerance = false
		}
	}
	report.CanReconcile = len(rows) > 0 && withinTolerance
	return report
}

// CompareFiltered restricts the displayed rows to the given GL ranges. The
// eligibility flag and totals still come from the unrestricted comparison, so
// filtering can never widen what bookclose would accept.
func (s *comparisonService) CompareFiltered(computed, uploaded domain.BalanceSet, ranges []domain.GLRange) domain.ComparisonReport {
	full := s.Compare(computed, uploaded)
	if len(ranges) == 0 {
		return full
	}

	filtered := make([]domain.ComparisonRow, 0, len(full.Rows))
	for _, row := range full.Rows {
		for _, r := range ranges {
			if r.Contains(row.GLCode) {
				filtered = append(filtered, row)
				break
			}
		}
	}
	full.Rows = filtered
	return full
}

// CompareGrouped buckets the unrestricted comparison by GL category for the
// trial-balance style display, with per-category subtotals and a grand total.
func (s *comparisonService) CompareGrouped(computed, uploaded domain.BalanceSet) domain.GroupedComparisonReport {
	full := s.Compare(computed, uploaded)

	byCategory := make(map[domain.GLCategory][]domain.ComparisonRow)
	for _, row := range full.Rows {
		byCategory[row.Category] = append(byCategory[row.Category], row)
	}

	grouped := domain.GroupedComparisonReport{
		TotalComputed: full.TotalComputed,
		TotalUploaded: full.TotalUploaded,
		TotalDiff:     full.TotalDiff,
		CanReconcile:  full.CanReconcile,
	}
	for _, category := range domain.CategoryOrder {
		rows, ok := byCategory[category]
		if !ok {
			continue
		}
		section := domain.CategorySection{
			Category:      category,
			Rows:          rows,
			TotalComputed: decimal.Zero,
			TotalUploaded: decimal.Zero,
			TotalDiff:     decimal.Zero,
		}
		for _, row := range rows {
			section.TotalComputed = section.TotalComputed.Add(row.ComputedClosing)
			section.TotalUploaded = section.TotalUploaded.Add(row.UploadedClosing)
			section.TotalDiff = section.TotalDiff.Add(row.Difference)
		}
		nature := category.Nature()
		section.ComputedBalance = naturalSide(section.TotalComputed, nature)
		section.UploadedBalance = naturalSide(section.TotalUploaded, nature)
		grouped.Sections = append(grouped.Sections, section)
	}
	return grouped
}

// naturalSide restates a signed closing (credits positive) on the account's
// natural side. Debit-nature balances carry the opposite sign in the ledger
// frame, so they flip before normalizing.
func naturalSide(signed decimal.Decimal, nature domain.GLNature) domain.DebitCredit {
	if nature == domain.Debit {
		signed = signed.Neg()
	}
	return domain.NormalizeClosing(signed, nature)
}
