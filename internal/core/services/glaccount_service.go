package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fundops/fund_admin_app/internal/apperrors"
	"github.com/fundops/fund_admin_app/internal/core/domain"
	portsrepo "github.com/fundops/fund_admin_app/internal/core/ports/repositories"
	portssvc "github.com/fundops/fund_admin_app/internal/core/ports/services"
	"github.com/fundops/fund_admin_app/internal/dto"
)

// glAccountService provides GL master operations.
type glAccountService struct {
	BaseService
	glRepo portsrepo.GLAccountRepositoryFacade
}

// NewGLAccountService creates a new GLAccountService.
func NewGLAccountService(glRepo portsrepo.GLAccountRepositoryFacade) portssvc.GLAccountSvcFacade {
	return &glAccountService{glRepo: glRepo}
}

var _ portssvc.GLAccountSvcFacade = (*glAccountService)(nil)

// CreateGLAccount adds a GL master entry. Category and nature come from the
// code's numbering convention, never from the caller.
func (s *glAccountService) CreateGLAccount(ctx context.Context, req dto.CreateGLAccountRequest, creatorUserID string) (*domain.GLAccount, error) {
	category, nature := domain.ClassifyGLCode(req.Code)
	if category == domain.Other {
		s.LogWarn(ctx, "GL code outside conventional ranges", slog.String("gl_code", req.Code))
	}

	now := time.Now().UTC()
	account := domain.GLAccount{
		Code:        req.Code,
		Name:        req.Name,
		Category:    category,
		Nature:      nature,
		Description: req.Description,
		IsActive:    true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.glRepo.SaveGLAccount(ctx, account); err != nil {
		s.LogError(ctx, err, "Failed to save GL account", slog.String("gl_code", req.Code))
		return nil, err
	}

	s.LogInfo(ctx, "GL account created", slog.String("gl_code", account.Code), slog.String("category", string(category)))
	return &account, nil
}

// GetGLAccountByCode retrieves a GL master entry.
func (s *glAccountService) GetGLAccountByCode(ctx context.Context, code string) (*domain.GLAccount, error) {
	if code == "" {
		return nil, fmt.Errorf("%w: GL code is required", apperrors.ErrValidation)
	}
	return s.glRepo.FindGLAccountByCode(ctx, code)
}

// ListGLAccounts retrieves all GL master entries.
func (s *glAccountService) ListGLAccounts(ctx context.Context) ([]domain.GLAccount, error) {
	return s.glRepo.ListGLAccounts(ctx)
}
