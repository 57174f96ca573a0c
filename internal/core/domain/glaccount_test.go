package domain_test

import (
	"testing"

	"github.com/fundops/fund_admin_app/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestClassifyGLCode(t *testing.T) {
	tests := []struct {
		name         string
		code         string
		wantCategory domain.GLCategory
		wantNature   domain.GLNature
	}{
		{name: "asset lower bound", code: "10000", wantCategory: domain.Asset, wantNature: domain.Debit},
		{name: "asset mid range", code: "13110", wantCategory: domain.Asset, wantNature: domain.Debit},
		{name: "asset upper bound", code: "19999", wantCategory: domain.Asset, wantNature: domain.Debit},
		{name: "liability lower bound", code: "20000", wantCategory: domain.Liability, wantNature: domain.Credit},
		{name: "liability mid range", code: "21200", wantCategory: domain.Liability, wantNature: domain.Credit},
		{name: "equity", code: "30500", wantCategory: domain.Equity, wantNature: domain.Credit},
		{name: "income", code: "40100", wantCategory: domain.Income, wantNature: domain.Credit},
		{name: "expense lower bound", code: "50000", wantCategory: domain.Expense, wantNature: domain.Debit},
		{name: "expense upper bound inclusive", code: "60000", wantCategory: domain.Expense, wantNature: domain.Debit},
		{name: "above expense range", code: "60001", wantCategory: domain.Other, wantNature: domain.Debit},
		{name: "below asset range", code: "9999", wantCategory: domain.Other, wantNature: domain.Debit},
		{name: "offset account", code: "99999", wantCategory: domain.Other, wantNature: domain.Debit},
		{name: "code with suffix uses leading digits", code: "21210-A", wantCategory: domain.Liability, wantNature: domain.Credit},
		{name: "non numeric code", code: "CASH", wantCategory: domain.Other, wantNature: domain.Debit},
		{name: "empty code", code: "", wantCategory: domain.Other, wantNature: domain.Debit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			category, nature := domain.ClassifyGLCode(tt.code)
			assert.Equal(t, tt.wantCategory, category)
			assert.Equal(t, tt.wantNature, nature)
		})
	}
}

func TestCompareGLCodes(t *testing.T) {
	assert.Negative(t, domain.CompareGLCodes("9999", "10000"), "numeric order, not lexicographic")
	assert.Negative(t, domain.CompareGLCodes("10000", "21210"))
	assert.Positive(t, domain.CompareGLCodes("21210", "13110"))
	assert.Zero(t, domain.CompareGLCodes("13110", "13110"))

	// Numeric codes sort before non-numeric ones.
	assert.Negative(t, domain.CompareGLCodes("10000", "CASH"))
	assert.Positive(t, domain.CompareGLCodes("CASH", "10000"))

	// Non-numeric codes fall back to lexicographic order.
	assert.Negative(t, domain.CompareGLCodes("ALPHA", "BETA"))

	// Same numeric prefix tie-breaks lexicographically.
	assert.Negative(t, domain.CompareGLCodes("21210-A", "21210-B"))
}

func TestGLRangeContains(t *testing.T) {
	r := domain.GLRange{From: 13000, To: 13999}

	assert.True(t, r.Contains("13000"))
	assert.True(t, r.Contains("13999"))
	assert.True(t, r.Contains("13110"))
	assert.False(t, r.Contains("12999"))
	assert.False(t, r.Contains("14000"))
	assert.False(t, r.Contains("CASH"))
	assert.False(t, r.Contains(""))
}
