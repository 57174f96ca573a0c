package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/fundops/fund_admin_app/internal/apperrors"
	portssvc "github.com/fundops/fund_admin_app/internal/core/ports/services"
	"github.com/fundops/fund_admin_app/internal/dto"
	"github.com/fundops/fund_admin_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// glAccountHandler handles HTTP requests related to the GL master.
type glAccountHandler struct {
	glAccountService portssvc.GLAccountSvcFacade
}

func newGLAccountHandler(gs portssvc.GLAccountSvcFacade) *glAccountHandler {
	return &glAccountHandler{glAccountService: gs}
}

// registerGLAccountRoutes registers routes related to the GL master.
func registerGLAccountRoutes(rg *gin.RouterGroup, glAccountService portssvc.GLAccountSvcFacade) {
	h := newGLAccountHandler(glAccountService)

	accounts := rg.Group("/gl-accounts")
	{
		accounts.POST("", h.createGLAccount)
		accounts.GET("", h.listGLAccounts)
		accounts.GET("/:code", h.getGLAccountByCode)
	}
}

// createGLAccount godoc
// @Summary Add a GL master entry
// @Description Creates a GL account; category and nature are derived from the code range
// @Tags gl-accounts
// @Accept  json
// @Produce  json
// @Param   account body dto.CreateGLAccountRequest true "GL account details"
// @Success 201 {object} dto.GLAccountResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 409 {object} map[string]string "GL code already exists"
// @Failure 500 {object} map[string]string "Failed to create GL account"
// @Router /gl-accounts [post]
func (h *glAccountHandler) createGLAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateGLAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateGLAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID := requestUserID(c)
	logger = logger.With(slog.String("creator_user_id", creatorUserID))
	logger.Info("Received request to create GL account", slog.String("gl_code", req.Code))

	created, err := h.glAccountService.CreateGLAccount(c.Request.Context(), req, creatorUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error creating GL account", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrDuplicate) {
			logger.Warn("Attempted to create duplicate GL account", slog.String("gl_code", req.Code))
			c.JSON(http.StatusConflict, gin.H{"error": fmt.Sprintf("GL code '%s' already exists", req.Code)})
		} else {
			logger.Error("Failed to create GL account in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create GL account"})
		}
		return
	}

	logger.Info("GL account created successfully", slog.String("gl_code", created.Code))
	c.JSON(http.StatusCreated, dto.ToGLAccountResponse(*created))
}

// getGLAccountByCode godoc
// @Summary Get a GL master entry by code
// @Tags gl-accounts
// @Produce  json
// @Param   code path string true "GL code"
// @Success 200 {object} dto.GLAccountResponse
// @Failure 404 {object} map[string]string "GL account not found"
// @Failure 500 {object} map[string]string "Failed to retrieve GL account"
// @Router /gl-accounts/{code} [get]
func (h *glAccountHandler) getGLAccountByCode(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	code := c.Param("code")

	account, err := h.glAccountService.GetGLAccountByCode(c.Request.Context(), code)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("GL account not found", slog.String("gl_code", code))
			c.JSON(http.StatusNotFound, gin.H{"error": "GL account not found"})
		} else {
			logger.Error("Failed to get GL account", slog.String("gl_code", code), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve GL account"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToGLAccountResponse(*account))
}

// listGLAccounts godoc
// @Summary List GL master entries
// @Tags gl-accounts
// @Produce  json
// @Success 200 {array} dto.GLAccountResponse
// @Failure 500 {object} map[string]string "Failed to list GL accounts"
// @Router /gl-accounts [get]
func (h *glAccountHandler) listGLAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	accounts, err := h.glAccountService.ListGLAccounts(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list GL accounts", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list GL accounts"})
		return
	}

	c.JSON(http.StatusOK, dto.ToGLAccountResponses(accounts))
}
