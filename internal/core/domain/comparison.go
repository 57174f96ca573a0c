package domain

import (
	"github.com/shopspring/decimal"
)

// ComparisonRow is one GL code's computed-vs-uploaded closing balances.
// A GL code absent from one side defaults that side's closing to zero.
type ComparisonRow struct {
	GLCode          string          `json:"glCode"`
	GLName          string          `json:"glName"`
	Category        GLCategory      `json:"category"`
	ComputedClosing decimal.Decimal `json:"computedClosing"`
	UploadedClosing decimal.Decimal `json:"uploadedClosing"`
	Difference      decimal.Decimal `json:"difference"` // computed - uploaded
}

// ComparisonReport is the ordered result of comparing a computed balance set
// against an uploaded one.
type ComparisonReport struct {
	Rows          []ComparisonRow `json:"rows"` // ascending numeric GL-code order
	TotalComputed decimal.Decimal `json:"totalComputed"`
	TotalUploaded decimal.Decimal `json:"totalUploaded"`
	TotalDiff     decimal.Decimal `json:"totalDiff"`
	Tolerance     decimal.Decimal `json:"tolerance"`
	CanReconcile  bool            `json:"canReconcile"`
}

// UnresolvedRows returns the rows whose difference is at or above the
// report's tolerance, i.e. the rows that still need adjustment journals.
func (r ComparisonReport) UnresolvedRows() []ComparisonRow {
	var out []ComparisonRow
	for _, row := range r.Rows {
		if row.Difference.Abs().GreaterThanOrEqual(r.Tolerance) {
			out = append(out, row)
		}
	}
	return out
}

// CategorySection groups comparison rows of one GL category with subtotals.
// ComputedBalance and UploadedBalance restate the subtotals on the category's
// natural side, the way a printed trial balance shows them: an asset subtotal
// appears in the debit column, a liability subtotal in the credit column.
type CategorySection struct {
	Category        GLCategory      `json:"category"`
	Rows            []ComparisonRow `json:"rows"`
	TotalComputed   decimal.Decimal `json:"totalComputed"`
	TotalUploaded   decimal.Decimal `json:"totalUploaded"`
	TotalDiff       decimal.Decimal `json:"totalDiff"`
	ComputedBalance DebitCredit     `json:"computedBalance"`
	UploadedBalance DebitCredit     `json:"uploadedBalance"`
}

// GroupedComparisonReport is the trial-balance style view of a comparison:
// category sections in Asset, Liability, Equity, Income, Expense, Other order
// plus a grand total.
type GroupedComparisonReport struct {
	Sections      []CategorySection `json:"sections"`
	TotalComputed decimal.Decimal   `json:"totalComputed"`
	TotalUploaded decimal.Decimal   `json:"totalUploaded"`
	TotalDiff     decimal.Decimal   `json:"totalDiff"`
	CanReconcile  bool              `json:"canReconcile"`
}

// GLRange is an inclusive numeric GL-code range used for display filtering.
type GLRange struct {
	From int64 `json:"from"`
	To   int64 `json:"to"`
}

// Contains reports whether the GL code's leading number falls in the range.
// Codes without a leading numeric run never match.
func (r GLRange) Contains(code string) bool {
	n, ok := glCodeNumber(code)
	if !ok {
		return false
	}
	return n >= r.From && n <= r.To
}

// DefaultReviewRanges are the GL ranges shown on the initial upload-review
// screen. Display filtering only; reconcile eligibility always comes from the
// unrestricted comparison.
var DefaultReviewRanges = []GLRange{
	{From: 13000, To: 13999},
	{From: 21000, To: 21999},
}
