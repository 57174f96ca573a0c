package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BalanceScope is the aggregation window of a ledger balance query.
type BalanceScope string

const (
	ScopeMTD BalanceScope = "MTD"
	ScopeQTD BalanceScope = "QTD"
	ScopeYTD BalanceScope = "YTD"
	ScopePTD BalanceScope = "PTD"
)

// BalanceOrigin records where a balance set came from.
type BalanceOrigin string

const (
	OriginComputed BalanceOrigin = "COMPUTED" // derived from the ledger
	OriginUploaded BalanceOrigin = "UPLOADED" // parsed from a migration file
)

// BalanceRow holds the opening/debit/credit/closing figures for one GL code.
type BalanceRow struct {
	GLCode  string          `json:"glCode"`
	GLName  string          `json:"glName"`
	Opening decimal.Decimal `json:"opening"`
	Debit   decimal.Decimal `json:"debit"`
	Credit  decimal.Decimal `json:"credit"`
	Closing decimal.Decimal `json:"closing"`
}

// BalanceSet is a keyed collection of balance rows for one (fund, asOf, scope).
type BalanceSet struct {
	FundID   string                `json:"fundID"`
	AsOfDate time.Time             `json:"asOfDate"`
	Scope    BalanceScope          `json:"scope"`
	Origin   BalanceOrigin         `json:"origin"`
	Rows     map[string]BalanceRow `json:"rows"` // keyed by GL code
}

// NewBalanceSet builds an empty balance set for the given key.
func NewBalanceSet(fundID string, asOf time.Time, scope BalanceScope, origin BalanceOrigin) BalanceSet {
	return BalanceSet{
		FundID:   fundID,
		AsOfDate: asOf,
		Scope:    scope,
		Origin:   origin,
		Rows:     make(map[string]BalanceRow),
	}
}

// Put inserts or merges a row into the set. Figures for an already present GL
// code are accumulated, so duplicate source rows collapse into one balance.
func (s *BalanceSet) Put(row BalanceRow) {
	if existing, ok := s.Rows[row.GLCode]; ok {
		existing.Opening = existing.Opening.Add(row.Opening)
		existing.Debit = existing.Debit.Add(row.Debit)
		existing.Credit = existing.Credit.Add(row.Credit)
		existing.Closing = existing.Closing.Add(row.Closing)
		if existing.GLName == "" {
			existing.GLName = row.GLName
		}
		s.Rows[row.GLCode] = existing
		return
	}
	s.Rows[row.GLCode] = row
}

// Remove drops the row for a GL code, if present.
func (s *BalanceSet) Remove(code string) {
	delete(s.Rows, code)
}

// DebitCredit is a normalized (debit, credit) pair for a closing balance.
type DebitCredit struct {
	Debit  decimal.Decimal `json:"debit"`
	Credit decimal.Decimal `json:"credit"`
}

// NormalizeClosing converts a signed closing balance into a (debit, credit)
// pair according to the account's balance nature. The amount lands on the
// account's natural side; a negative closing flips to the opposite side, so
// both sides stay non-negative and at most one is nonzero. The natural-side
// net (credit - debit for credit accounts, debit - credit for debit accounts)
// always equals the original closing amount.
func NormalizeClosing(closing decimal.Decimal, nature GLNature) DebitCredit {
	if nature == Credit {
		if closing.IsNegative() {
			return DebitCredit{Debit: closing.Neg(), Credit: decimal.Zero}
		}
		return DebitCredit{Debit: decimal.Zero, Credit: closing}
	}
	if closing.IsNegative() {
		return DebitCredit{Debit: decimal.Zero, Credit: closing.Neg()}
	}
	return DebitCredit{Debit: closing, Credit: decimal.Zero}
}
