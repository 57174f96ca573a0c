package domain

import "strconv"

// GLCategory is the chart-of-accounts category a GL code belongs to.
type GLCategory string

const (
	Asset     GLCategory = "ASSET"
	Liability GLCategory = "LIABILITY"
	Equity    GLCategory = "EQUITY"
	Income    GLCategory = "INCOME"
	Expense   GLCategory = "EXPENSE"
	Other     GLCategory = "OTHER"
)

// GLNature indicates whether a GL account carries a debit or credit balance.
type GLNature string

const (
	Debit  GLNature = "DEBIT"
	Credit GLNature = "CREDIT"
)

// Nature returns the balance nature shared by every code in the category.
func (c GLCategory) Nature() GLNature {
	switch c {
	case Liability, Equity, Income:
		return Credit
	default:
		return Debit
	}
}

// GLAccount represents an entry in the GL master.
// Category and nature are always derived from the code, never stored separately.
type GLAccount struct {
	Code        string     `json:"code"` // Leading digits encode the category
	Name        string     `json:"name"`
	Category    GLCategory `json:"category"`
	Nature      GLNature   `json:"nature"`
	Description string     `json:"description"`
	IsActive    bool       `json:"isActive"`
	AuditFields
}

// glCodeNumber parses the leading numeric run of a GL code.
// Returns false when the code has no leading digits.
func glCodeNumber(code string) (int64, bool) {
	end := 0
	for end < len(code) && code[end] >= '0' && code[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.ParseInt(code[:end], 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// ClassifyGLCode maps a GL code to its category and balance nature using the
// conventional numbering ranges of the chart of accounts:
//
//	10000-19999 Asset, 20000-29999 Liability, 30000-39999 Equity,
//	40000-49999 Income, 50000-60000 Expense.
//
// Codes outside these ranges, or codes without a leading numeric run, fall
// back to Other with debit nature.
func ClassifyGLCode(code string) (GLCategory, GLNature) {
	n, ok := glCodeNumber(code)
	if !ok {
		return Other, Other.Nature()
	}
	var category GLCategory
	switch {
	case n >= 10000 && n < 20000:
		category = Asset
	case n >= 20000 && n < 30000:
		category = Liability
	case n >= 30000 && n < 40000:
		category = Equity
	case n >= 40000 && n < 50000:
		category = Income
	case n >= 50000 && n <= 60000:
		category = Expense
	default:
		category = Other
	}
	return category, category.Nature()
}

// CompareGLCodes orders GL codes numerically by their leading digit run, with a
// plain lexicographic fallback for codes that do not start with digits.
// Returns a negative value when a sorts before b.
func CompareGLCodes(a, b string) int {
	na, oka := glCodeNumber(a)
	nb, okb := glCodeNumber(b)
	switch {
	case oka && okb:
		if na != nb {
			if na < nb {
				return -1
			}
			return 1
		}
		// Same numeric prefix, fall through to lexicographic tie-break.
	case oka:
		return -1
	case okb:
		return 1
	}
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// CategoryOrder is the display order of category sections in trial-balance
// style reports.
var CategoryOrder = []GLCategory{Asset, Liability, Equity, Income, Expense, Other}
