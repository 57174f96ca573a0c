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

// fundHandler handles HTTP requests related to funds.
type fundHandler struct {
	fundService portssvc.FundSvcFacade
}

func newFundHandler(fs portssvc.FundSvcFacade) *fundHandler {
	return &fundHandler{fundService: fs}
}

// registerFundRoutes registers routes related to the fund master.
func registerFundRoutes(rg *gin.RouterGroup, fundService portssvc.FundSvcFacade) {
	h := newFundHandler(fundService)

	funds := rg.Group("/funds")
	{
		funds.POST("", h.createFund)
		funds.GET("", h.listFunds)
		funds.GET("/:fundID", h.getFundByID)
	}
}

// createFund godoc
// @Summary Register a new fund
// @Description Creates a fund master entry with its onboarding mode and reporting start date
// @Tags funds
// @Accept  json
// @Produce  json
// @Param   fund body dto.CreateFundRequest true "Fund details"
// @Success 201 {object} dto.FundResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 409 {object} map[string]string "Fund already exists"
// @Failure 500 {object} map[string]string "Failed to create fund"
// @Router /funds [post]
func (h *fundHandler) createFund(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateFundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateFund", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID := requestUserID(c)
	logger = logger.With(slog.String("creator_user_id", creatorUserID))
	logger.Info("Received request to create fund", slog.String("fund_name", req.Name))

	createdFund, err := h.fundService.CreateFund(c.Request.Context(), req, creatorUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error creating fund", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrDuplicate) {
			logger.Warn("Attempted to create duplicate fund", slog.String("fund_name", req.Name))
			c.JSON(http.StatusConflict, gin.H{"error": fmt.Sprintf("Fund '%s' already exists", req.Name)})
		} else {
			logger.Error("Failed to create fund in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create fund"})
		}
		return
	}

	logger.Info("Fund created successfully", slog.String("fund_id", createdFund.FundID))
	c.JSON(http.StatusCreated, dto.ToFundResponse(*createdFund))
}

// getFundByID godoc
// @Summary Get a fund by ID
// @Tags funds
// @Produce  json
// @Param   fundID path string true "Fund ID"
// @Success 200 {object} dto.FundResponse
// @Failure 404 {object} map[string]string "Fund not found"
// @Failure 500 {object} map[string]string "Failed to retrieve fund"
// @Router /funds/{fundID} [get]
func (h *fundHandler) getFundByID(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	fundID := c.Param("fundID")

	fund, err := h.fundService.GetFundByID(c.Request.Context(), fundID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Fund not found", slog.String("fund_id", fundID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Fund not found"})
		} else {
			logger.Error("Failed to get fund", slog.String("fund_id", fundID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve fund"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToFundResponse(*fund))
}

// listFunds godoc
// @Summary List funds
// @Tags funds
// @Produce  json
// @Success 200 {array} dto.FundResponse
// @Failure 500 {object} map[string]string "Failed to list funds"
// @Router /funds [get]
func (h *fundHandler) listFunds(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	funds, err := h.fundService.ListFunds(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list funds", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list funds"})
		return
	}

	c.JSON(http.StatusOK, dto.ToFundResponses(funds))
}
