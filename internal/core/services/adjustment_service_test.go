package services_test

import (
	"testing"
	"time"

	"github.com/fundops/fund_admin_app/internal/core/domain"
	"github.com/fundops/fund_admin_app/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSynthesize_LegsFollowDifferenceSign(t *testing.T) {
	svc := services.NewAdjustmentService(decimal.RequireFromString("0.01"))
	journalDate := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	rows := []domain.ComparisonRow{
		{GLCode: "13110", Difference: decimal.RequireFromString("100")}, // computed above uploaded
		{GLCode: "21210", Difference: decimal.RequireFromString("-50")}, // uploaded above computed
	}

	entries := svc.Synthesize(rows, domain.DefaultOffsetAccount, journalDate, "user-1")
	require.Len(t, entries, 2)

	positive := entries[0]
	assert.Equal(t, "13110", positive.GLCode)
	assert.True(t, positive.IsPositive)
	assert.True(t, positive.Amount.Equal(decimal.RequireFromString("100")))
	assert.Equal(t, "13110", positive.DrAccount)
	assert.Equal(t, "99999", positive.CrAccount)

	negative := entries[1]
	assert.Equal(t, "21210", negative.GLCode)
	assert.False(t, negative.IsPositive)
	assert.True(t, negative.Amount.Equal(decimal.RequireFromString("50")), "amount is |difference|")
	assert.Equal(t, "99999", negative.DrAccount)
	assert.Equal(t, "21210", negative.CrAccount)

	for _, entry := range entries {
		assert.NotEmpty(t, entry.JournalID)
		assert.Equal(t, journalDate, entry.JournalDate)
		assert.Equal(t, domain.JournalTypeMigration, entry.JournalType)
		assert.Equal(t, "user-1", entry.CreatedBy)
		assert.Contains(t, entry.Description, entry.GLCode)
	}
}

func TestSynthesize_SkipsImmaterialDifferences(t *testing.T) {
	svc := services.NewAdjustmentService(decimal.RequireFromString("0.01"))
	journalDate := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	rows := []domain.ComparisonRow{
		{GLCode: "13110", Difference: decimal.RequireFromString("0.005")}, // below tolerance
		{GLCode: "21210", Difference: decimal.RequireFromString("0.01")},  // at tolerance
		{GLCode: "40100", Difference: decimal.Zero},
	}

	entries := svc.Synthesize(rows, domain.DefaultOffsetAccount, journalDate, "user-1")
	require.Len(t, entries, 1, "only the at-tolerance row is material")
	assert.Equal(t, "21210", entries[0].GLCode)
}

func TestSynthesize_BatchBalances(t *testing.T) {
	svc := services.NewAdjustmentService(decimal.RequireFromString("0.01"))
	journalDate := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	rows := []domain.ComparisonRow{
		{GLCode: "13110", Difference: decimal.RequireFromString("120.40")},
		{GLCode: "21210", Difference: decimal.RequireFromString("-75.15")},
		{GLCode: "40100", Difference: decimal.RequireFromString("3.33")},
	}

	entries := svc.Synthesize(rows, domain.DefaultOffsetAccount, journalDate, "user-1")
	require.Len(t, entries, 3)

	// Every entry debits and credits the same amount, so each is balanced and
	// therefore the batch is too.
	for _, entry := range entries {
		assert.True(t, entry.Amount.IsPositive())
		assert.NotEqual(t, entry.DrAccount, entry.CrAccount)
		offsetLeg := entry.CrAccount
		if !entry.IsPositive {
			offsetLeg = entry.DrAccount
		}
		assert.Equal(t, domain.DefaultOffsetAccount, offsetLeg)
	}
}
