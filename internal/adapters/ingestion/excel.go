package ingestion

import (
	"fmt"
	"io"
	"strings"

	"github.com/fundops/fund_admin_app/internal/apperrors"
	"github.com/fundops/fund_admin_app/internal/core/domain"
	portssvc "github.com/fundops/fund_admin_app/internal/core/ports/services"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// expected column order of the trial balance workbook.
const (
	colGLCode = iota
	colGLName
	colOpening
	colDebit
	colCredit
	colClosing
	columnCount
)

// ExcelTrialBalanceParser reads legacy trial balance workbooks. The first
// sheet holds a header row followed by one row per GL account:
// code, name, opening, debit, credit, closing. Closing figures are signed
// with credits positive, the same frame the ledger aggregates in, so a
// balanced export sums to zero.
type ExcelTrialBalanceParser struct{}

// NewExcelTrialBalanceParser creates the workbook parser.
func NewExcelTrialBalanceParser() portssvc.TrialBalanceParser {
	return &ExcelTrialBalanceParser{}
}

var _ portssvc.TrialBalanceParser = (*ExcelTrialBalanceParser)(nil)

// ParseTrialBalance turns the workbook into balance rows. Rows with a blank
// GL code are skipped; rows with unparseable amounts fail the whole upload.
func (p *ExcelTrialBalanceParser) ParseTrialBalance(r io.Reader) ([]domain.BalanceRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot open workbook: %v", apperrors.ErrValidation, err)
	}
	defer func() {
		_ = f.Close()
	}()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("%w: workbook has no sheets", apperrors.ErrValidation)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot read sheet %q: %v", apperrors.ErrValidation, sheet, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("%w: workbook has no balance rows", apperrors.ErrValidation)
	}

	parsed := make([]domain.BalanceRow, 0, len(rows)-1)
	for i, row := range rows[1:] { // skip header
		glCode := cell(row, colGLCode)
		if glCode == "" {
			continue
		}
		if len(row) < columnCount {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", apperrors.ErrValidation, i+2, len(row), columnCount)
		}

		balance := domain.BalanceRow{
			GLCode: glCode,
			GLName: cell(row, colGLName),
		}
		for _, field := range []struct {
			col  int
			name string
			dst  *decimal.Decimal
		}{
			{colOpening, "opening", &balance.Opening},
			{colDebit, "debit", &balance.Debit},
			{colCredit, "credit", &balance.Credit},
			{colClosing, "closing", &balance.Closing},
		} {
			amount, err := parseAmount(cell(row, field.col))
			if err != nil {
				return nil, fmt.Errorf("%w: row %d: bad %s amount: %v", apperrors.ErrValidation, i+2, field.name, err)
			}
			*field.dst = amount
		}
		parsed = append(parsed, balance)
	}
	return parsed, nil
}

func cell(row []string, col int) string {
	if col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

// parseAmount accepts blank cells as zero and tolerates thousands separators.
func parseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	s = strings.ReplaceAll(s, ",", "")
	// Accounting exports wrap negatives in parentheses.
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		s = "-" + strings.Trim(s, "()")
	}
	return decimal.NewFromString(s)
}
