package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalTypeMigration marks journals synthesized by the migration engine.
const JournalTypeMigration = "Migration"

// DefaultOffsetAccount is the fixed offset GL code used as the balancing leg
// of every migration adjustment entry.
const DefaultOffsetAccount = "99999"

// AdjustmentJournalEntry is one balanced journal entry synthesized to clear a
// computed-vs-uploaded difference on a single GL code. One leg is always the
// offset account; the other is the GL code itself.
type AdjustmentJournalEntry struct {
	JournalID   string          `json:"journalID"`
	GLCode      string          `json:"glCode"`
	GLName      string          `json:"glName"`
	Difference  decimal.Decimal `json:"difference"` // computed - uploaded
	Amount      decimal.Decimal `json:"amount"`     // |difference|
	IsPositive  bool            `json:"isPositive"` // difference > 0
	DrAccount   string          `json:"drAccount"`
	CrAccount   string          `json:"crAccount"`
	JournalDate time.Time       `json:"journalDate"`
	Description string          `json:"description"`
	JournalType string          `json:"journalType"` // always JournalTypeMigration
	AuditFields
}
