package dto

import (
	"time"

	"github.com/fundops/fund_admin_app/internal/core/domain"
)

// CreateFundRequest is the payload for registering a fund.
type CreateFundRequest struct {
	Name               string `json:"name" binding:"required"`
	OrgID              string `json:"orgID" binding:"required"`
	OnboardMode        string `json:"onboardMode" binding:"required"`
	ReportingStartDate string `json:"reportingStartDate" binding:"required"` // YYYY-MM-DD
	CurrencyCode       string `json:"currencyCode" binding:"required,len=3"`
}

// FundResponse is the API representation of a fund.
type FundResponse struct {
	FundID             string    `json:"fundID"`
	OrgID              string    `json:"orgID"`
	Name               string    `json:"name"`
	OnboardMode        string    `json:"onboardMode"`
	ReportingStartDate string    `json:"reportingStartDate"`
	CurrencyCode       string    `json:"currencyCode"`
	IsActive           bool      `json:"isActive"`
	CreatedAt          time.Time `json:"createdAt"`
}

// ToFundResponse maps a domain fund to its API shape.
func ToFundResponse(f domain.Fund) FundResponse {
	return FundResponse{
		FundID:             f.FundID,
		OrgID:              f.OrgID,
		Name:               f.Name,
		OnboardMode:        string(f.OnboardMode),
		ReportingStartDate: f.ReportingStartDate.Format("2006-01-02"),
		CurrencyCode:       f.CurrencyCode,
		IsActive:           f.IsActive,
		CreatedAt:          f.CreatedAt,
	}
}

// ToFundResponses maps a slice of domain funds.
func ToFundResponses(funds []domain.Fund) []FundResponse {
	out := make([]FundResponse, len(funds))
	for i, f := range funds {
		out[i] = ToFundResponse(f)
	}
	return out
}
