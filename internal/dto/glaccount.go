package dto

import (
	"github.com/fundops/fund_admin_app/internal/core/domain"
)

// CreateGLAccountRequest is the payload for adding a GL master entry.
type CreateGLAccountRequest struct {
	Code        string `json:"code" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// GLAccountResponse is the API representation of a GL master entry.
type GLAccountResponse struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Nature      string `json:"nature"`
	Description string `json:"description"`
	IsActive    bool   `json:"isActive"`
}

// ToGLAccountResponse maps a domain GL account to its API shape.
func ToGLAccountResponse(a domain.GLAccount) GLAccountResponse {
	return GLAccountResponse{
		Code:        a.Code,
		Name:        a.Name,
		Category:    string(a.Category),
		Nature:      string(a.Nature),
		Description: a.Description,
		IsActive:    a.IsActive,
	}
}

// ToGLAccountResponses maps a slice of domain GL accounts.
func ToGLAccountResponses(accounts []domain.GLAccount) []GLAccountResponse {
	out := make([]GLAccountResponse, len(accounts))
	for i, a := range accounts {
		out[i] = ToGLAccountResponse(a)
	}
	return out
}
