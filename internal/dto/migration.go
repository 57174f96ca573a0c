package dto

import (
	"time"

	"github.com/fundops/fund_admin_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// MigrationRecordResponse is the API representation of a migration record.
type MigrationRecordResponse struct {
	FileID          string    `json:"fileID"`
	FundID          string    `json:"fundID"`
	FileName        string    `json:"fileName"`
	Status          string    `json:"status"`
	ReportingPeriod string    `json:"reportingPeriod,omitempty"` // YYYY-MM-DD
	UploadedAt      time.Time `json:"uploadedAt"`
	UploadedBy      string    `json:"uploadedBy"`
}

// ToMigrationRecordResponse maps a domain migration record to its API shape.
func ToMigrationRecordResponse(r domain.MigrationRecord) MigrationRecordResponse {
	resp := MigrationRecordResponse{
		FileID:     r.FileID,
		FundID:     r.FundID,
		FileName:   r.FileName,
		Status:     string(r.Status),
		UploadedAt: r.UploadedAt,
		UploadedBy: r.UploadedBy,
	}
	if r.ReportingPeriod != nil {
		resp.ReportingPeriod = r.ReportingPeriod.Format("2006-01-02")
	}
	return resp
}

// ToMigrationRecordResponses maps a slice of migration records.
func ToMigrationRecordResponses(records []domain.MigrationRecord) []MigrationRecordResponse {
	out := make([]MigrationRecordResponse, len(records))
	for i, r := range records {
		out[i] = ToMigrationRecordResponse(r)
	}
	return out
}

// CanUploadResponse answers the upload pre-check.
type CanUploadResponse struct {
	CanUpload bool   `json:"canUpload"`
	Reason    string `json:"reason,omitempty"` // failing rule when blocked
}

// CanRevertResponse answers the revert pre-check.
type CanRevertResponse struct {
	CanRevert bool   `json:"canRevert"`
	Reason    string `json:"reason,omitempty"`
}

// ComparisonRowResponse is one GL code's comparison line.
type ComparisonRowResponse struct {
	GLCode          string          `json:"glCode"`
	GLName          string          `json:"glName"`
	Category        string          `json:"category"`
	ComputedClosing decimal.Decimal `json:"computedClosing"`
	UploadedClosing decimal.Decimal `json:"uploadedClosing"`
	Difference      decimal.Decimal `json:"difference"`
}

// ComparisonReportResponse is the flat comparison view.
type ComparisonReportResponse struct {
	Rows          []ComparisonRowResponse `json:"rows"`
	TotalComputed decimal.Decimal         `json:"totalComputed"`
	TotalUploaded decimal.Decimal         `json:"totalUploaded"`
	TotalDiff     decimal.Decimal         `json:"totalDiff"`
	CanReconcile  bool                    `json:"canReconcile"`
}

// DebitCreditResponse presents a balance on its debit or credit side.
type DebitCreditResponse struct {
	Debit  decimal.Decimal `json:"debit"`
	Credit decimal.Decimal `json:"credit"`
}

// CategorySectionResponse is one category bucket of the grouped view. The
// balance pairs show the subtotals in trial-balance columns.
type CategorySectionResponse struct {
	Category        string                  `json:"category"`
	Rows            []ComparisonRowResponse `json:"rows"`
	TotalComputed   decimal.Decimal         `json:"totalComputed"`
	TotalUploaded   decimal.Decimal         `json:"totalUploaded"`
	TotalDiff       decimal.Decimal         `json:"totalDiff"`
	ComputedBalance DebitCreditResponse     `json:"computedBalance"`
	UploadedBalance DebitCreditResponse     `json:"uploadedBalance"`
}

// GroupedComparisonResponse is the trial-balance style comparison view.
type GroupedComparisonResponse struct {
	Sections      []CategorySectionResponse `json:"sections"`
	TotalComputed decimal.Decimal           `json:"totalComputed"`
	TotalUploaded decimal.Decimal           `json:"totalUploaded"`
	TotalDiff     decimal.Decimal           `json:"totalDiff"`
	CanReconcile  bool                      `json:"canReconcile"`
}

func toComparisonRows(rows []domain.ComparisonRow) []ComparisonRowResponse {
	out := make([]ComparisonRowResponse, len(rows))
	for i, r := range rows {
		out[i] = ComparisonRowResponse{
			GLCode:          r.GLCode,
			GLName:          r.GLName,
			Category:        string(r.Category),
			ComputedClosing: r.ComputedClosing,
			UploadedClosing: r.UploadedClosing,
			Difference:      r.Difference,
		}
	}
	return out
}

// ToComparisonReportResponse maps a domain comparison report.
func ToComparisonReportResponse(r domain.ComparisonReport) ComparisonReportResponse {
	return ComparisonReportResponse{
		Rows:          toComparisonRows(r.Rows),
		TotalComputed: r.TotalComputed,
		TotalUploaded: r.TotalUploaded,
		TotalDiff:     r.TotalDiff,
		CanReconcile:  r.CanReconcile,
	}
}

// ToGroupedComparisonResponse maps the grouped comparison view.
func ToGroupedComparisonResponse(r domain.GroupedComparisonReport) GroupedComparisonResponse {
	sections := make([]CategorySectionResponse, len(r.Sections))
	for i, s := range r.Sections {
		sections[i] = CategorySectionResponse{
			Category:        string(s.Category),
			Rows:            toComparisonRows(s.Rows),
			TotalComputed:   s.TotalComputed,
			TotalUploaded:   s.TotalUploaded,
			TotalDiff:       s.TotalDiff,
			ComputedBalance: DebitCreditResponse{Debit: s.ComputedBalance.Debit, Credit: s.ComputedBalance.Credit},
			UploadedBalance: DebitCreditResponse{Debit: s.UploadedBalance.Debit, Credit: s.UploadedBalance.Credit},
		}
	}
	return GroupedComparisonResponse{
		Sections:      sections,
		TotalComputed: r.TotalComputed,
		TotalUploaded: r.TotalUploaded,
		TotalDiff:     r.TotalDiff,
		CanReconcile:  r.CanReconcile,
	}
}

// ReconcileResult reports what a reconcile run did.
type ReconcileResult struct {
	JournalsCreated int                     `json:"journalsCreated"`
	Report          domain.ComparisonReport `json:"report"`
}

// ReconcileResponse is the API shape of a reconcile run.
type ReconcileResponse struct {
	JournalsCreated int                      `json:"journalsCreated"`
	Report          ComparisonReportResponse `json:"report"`
}

// ToReconcileResponse maps a reconcile result.
func ToReconcileResponse(r ReconcileResult) ReconcileResponse {
	return ReconcileResponse{
		JournalsCreated: r.JournalsCreated,
		Report:          ToComparisonReportResponse(r.Report),
	}
}

// RevertResponse reports what a migration revert deleted.
type RevertResponse struct {
	MigrationRows int `json:"migrationRows"`
	BufferRows    int `json:"bufferRows"`
	JournalRows   int `json:"journalRows"`
}

// ToRevertResponse maps the deletion counts.
func ToRevertResponse(c domain.DeletedCounts) RevertResponse {
	return RevertResponse{
		MigrationRows: c.MigrationRows,
		BufferRows:    c.BufferRows,
		JournalRows:   c.JournalRows,
	}
}
