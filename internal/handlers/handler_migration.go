package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/fundops/fund_admin_app/internal/apperrors"
	"github.com/fundops/fund_admin_app/internal/core/domain"
	portssvc "github.com/fundops/fund_admin_app/internal/core/ports/services"
	"github.com/fundops/fund_admin_app/internal/dto"
	"github.com/fundops/fund_admin_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// migrationHandler handles HTTP requests for the migration engine.
type migrationHandler struct {
	migrationService portssvc.MigrationSvcFacade
}

func newMigrationHandler(ms portssvc.MigrationSvcFacade) *migrationHandler {
	return &migrationHandler{migrationService: ms}
}

// RegisterMigrationRoutes registers the migration engine routes under a fund.
func RegisterMigrationRoutes(rg *gin.RouterGroup, migrationService portssvc.MigrationSvcFacade) {
	h := newMigrationHandler(migrationService)

	migration := rg.Group("/funds/:fundID/migration")
	{
		migration.GET("/can-upload", h.canUpload)
		migration.POST("/upload", h.upload)
		migration.GET("/uploads", h.listUploads)
		migration.GET("/:fileID/comparison", h.comparison)
		migration.POST("/:fileID/pending", h.markPending)
		migration.POST("/:fileID/reconcile", h.reconcile)
		migration.POST("/:fileID/bookclose", h.bookclose)
		migration.GET("/:fileID/can-revert", h.canRevert)
		migration.DELETE("/:fileID", h.revert)
	}
}

// respondMigrationError maps service errors onto the API's status codes.
func respondMigrationError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation error", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Resource not found", slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrConflict), errors.Is(err, apperrors.ErrDuplicate):
		logger.Warn("Conflicting migration state", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrGuardRejected):
		logger.Warn("Pricing guard rejected the operation", slog.String("error", err.Error()))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrUpstreamUnavailable):
		logger.Error("Upstream collaborator unavailable", slog.String("error", err.Error()))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Upstream system unavailable, try again later"})
	default:
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

// canUpload godoc
// @Summary Check whether a trial balance upload is currently allowed
// @Tags migration
// @Produce  json
// @Param   fundID path string true "Fund ID"
// @Success 200 {object} dto.CanUploadResponse
// @Failure 404 {object} map[string]string "Fund not found"
// @Failure 502 {object} map[string]string "Upstream unavailable"
// @Router /funds/{fundID}/migration/can-upload [get]
func (h *migrationHandler) canUpload(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	fundID := c.Param("fundID")

	allowed, reason, err := h.migrationService.CanUploadMigration(c.Request.Context(), fundID)
	if err != nil {
		respondMigrationError(c, logger, err, "Failed to evaluate upload pre-check")
		return
	}

	c.JSON(http.StatusOK, dto.CanUploadResponse{CanUpload: allowed, Reason: reason})
}

// upload godoc
// @Summary Upload a legacy trial balance workbook
// @Description Ingests the workbook and creates the fund's migration record in Uploaded state
// @Tags migration
// @Accept  multipart/form-data
// @Produce  json
// @Param   fundID path string true "Fund ID"
// @Param   file formData file true "Trial balance workbook (.xlsx)"
// @Success 201 {object} dto.MigrationRecordResponse
// @Failure 400 {object} map[string]string "Invalid workbook"
// @Failure 409 {object} map[string]string "Fund already has an active migration"
// @Failure 422 {object} map[string]string "Pricing guard rejected the upload"
// @Router /funds/{fundID}/migration/upload [post]
func (h *migrationHandler) upload(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	fundID := c.Param("fundID")

	fileHeader, err := c.FormFile("file")
	if err != nil {
		logger.Warn("Missing upload file", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing 'file' form field"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		logger.Error("Failed to open uploaded file", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot read uploaded file"})
		return
	}
	defer func() {
		_ = file.Close()
	}()

	uploadedBy := requestUserID(c)
	logger = logger.With(slog.String("fund_id", fundID), slog.String("uploaded_by", uploadedBy))
	logger.Info("Received trial balance upload", slog.String("file_name", fileHeader.Filename))

	record, err := h.migrationService.UploadTrialBalance(c.Request.Context(), fundID, fileHeader.Filename, file, uploadedBy)
	if err != nil {
		respondMigrationError(c, logger, err, "Failed to ingest trial balance")
		return
	}

	logger.Info("Trial balance uploaded", slog.String("file_id", record.FileID))
	c.JSON(http.StatusCreated, dto.ToMigrationRecordResponse(*record))
}

// listUploads godoc
// @Summary List the fund's migration uploads
// @Tags migration
// @Produce  json
// @Param   fundID path string true "Fund ID"
// @Success 200 {array} dto.MigrationRecordResponse
// @Failure 500 {object} map[string]string "Failed to list uploads"
// @Router /funds/{fundID}/migration/uploads [get]
func (h *migrationHandler) listUploads(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	fundID := c.Param("fundID")

	records, err := h.migrationService.ListUploads(c.Request.Context(), fundID)
	if err != nil {
		respondMigrationError(c, logger, err, "Failed to list uploads")
		return
	}

	c.JSON(http.StatusOK, dto.ToMigrationRecordResponses(records))
}

// comparison godoc
// @Summary Compare computed ledger balances against the uploaded trial balance
// @Description view=review restricts the rows to the review GL ranges, view=grouped buckets by category, view=full (default) shows everything
// @Tags migration
// @Produce  json
// @Param   fundID path string true "Fund ID"
// @Param   fileID path string true "Migration file ID"
// @Param   view query string false "review | full | grouped" default(full)
// @Success 200 {object} dto.ComparisonReportResponse
// @Failure 400 {object} map[string]string "Unknown view"
// @Failure 404 {object} map[string]string "Migration not found"
// @Failure 502 {object} map[string]string "Upstream unavailable"
// @Router /funds/{fundID}/migration/{fileID}/comparison [get]
func (h *migrationHandler) comparison(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	fundID := c.Param("fundID")
	fileID := c.Param("fileID")

	switch c.DefaultQuery("view", "full") {
	case "grouped":
		report, err := h.migrationService.GetGroupedComparison(c.Request.Context(), fundID, fileID)
		if err != nil {
			respondMigrationError(c, logger, err, "Failed to build comparison")
			return
		}
		c.JSON(http.StatusOK, dto.ToGroupedComparisonResponse(*report))
	case "review":
		report, err := h.migrationService.GetComparisonReport(c.Request.Context(), fundID, fileID, domain.DefaultReviewRanges)
		if err != nil {
			respondMigrationError(c, logger, err, "Failed to build comparison")
			return
		}
		c.JSON(http.StatusOK, dto.ToComparisonReportResponse(*report))
	case "full":
		report, err := h.migrationService.GetComparisonReport(c.Request.Context(), fundID, fileID, nil)
		if err != nil {
			respondMigrationError(c, logger, err, "Failed to build comparison")
			return
		}
		c.JSON(http.StatusOK, dto.ToComparisonReportResponse(*report))
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "view must be one of review, full, grouped"})
	}
}

// markPending godoc
// @Summary Move an Uploaded migration to Pending
// @Tags migration
// @Produce  json
// @Param   fundID path string true "Fund ID"
// @Param   fileID path string true "Migration file ID"
// @Success 204 "Marked pending"
// @Failure 404 {object} map[string]string "Migration not found"
// @Router /funds/{fundID}/migration/{fileID}/pending [post]
func (h *migrationHandler) markPending(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	fundID := c.Param("fundID")
	fileID := c.Param("fileID")

	if err := h.migrationService.MarkPending(c.Request.Context(), fundID, fileID); err != nil {
		respondMigrationError(c, logger, err, "Failed to mark migration pending")
		return
	}

	c.Status(http.StatusNoContent)
}

// reconcile godoc
// @Summary Reconcile the migration
// @Description Synthesizes and posts adjustment journals for unresolved differences, then re-verifies the comparison
// @Tags migration
// @Produce  json
// @Param   fundID path string true "Fund ID"
// @Param   fileID path string true "Migration file ID"
// @Success 200 {object} dto.ReconcileResponse
// @Failure 400 {object} map[string]string "Nothing to reconcile"
// @Failure 404 {object} map[string]string "Migration not found"
// @Failure 409 {object} map[string]string "Migration already bookclosed"
// @Failure 500 {object} map[string]string "Comparison still unresolved after posting"
// @Failure 502 {object} map[string]string "Upstream unavailable"
// @Router /funds/{fundID}/migration/{fileID}/reconcile [post]
func (h *migrationHandler) reconcile(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	fundID := c.Param("fundID")
	fileID := c.Param("fileID")
	userID := requestUserID(c)

	logger = logger.With(slog.String("fund_id", fundID), slog.String("file_id", fileID))
	logger.Info("Received request to reconcile migration")

	result, err := h.migrationService.Reconcile(c.Request.Context(), fundID, fileID, userID)
	if err != nil {
		respondMigrationError(c, logger, err, "Failed to reconcile migration")
		return
	}

	logger.Info("Migration reconciled", slog.Int("journals_created", result.JournalsCreated))
	c.JSON(http.StatusOK, dto.ToReconcileResponse(*result))
}

// bookclose godoc
// @Summary Bookclose a reconciled migration
// @Description Re-verifies the comparison and stamps the reporting period
// @Tags migration
// @Produce  json
// @Param   fundID path string true "Fund ID"
// @Param   fileID path string true "Migration file ID"
// @Success 200 {object} dto.MigrationRecordResponse
// @Failure 404 {object} map[string]string "Migration not found"
// @Failure 409 {object} map[string]string "Migration is not in Reconciled state"
// @Failure 500 {object} map[string]string "Comparison no longer reconciles"
// @Failure 502 {object} map[string]string "Upstream unavailable"
// @Router /funds/{fundID}/migration/{fileID}/bookclose [post]
func (h *migrationHandler) bookclose(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	fundID := c.Param("fundID")
	fileID := c.Param("fileID")

	logger = logger.With(slog.String("fund_id", fundID), slog.String("file_id", fileID))
	logger.Info("Received request to bookclose migration")

	record, err := h.migrationService.Bookclose(c.Request.Context(), fundID, fileID)
	if err != nil {
		respondMigrationError(c, logger, err, "Failed to bookclose migration")
		return
	}

	logger.Info("Migration bookclosed")
	c.JSON(http.StatusOK, dto.ToMigrationRecordResponse(*record))
}

// canRevert godoc
// @Summary Check whether the migration may be reverted
// @Tags migration
// @Produce  json
// @Param   fundID path string true "Fund ID"
// @Param   fileID path string true "Migration file ID"
// @Success 200 {object} dto.CanRevertResponse
// @Failure 404 {object} map[string]string "Migration not found"
// @Router /funds/{fundID}/migration/{fileID}/can-revert [get]
func (h *migrationHandler) canRevert(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	fundID := c.Param("fundID")
	fileID := c.Param("fileID")

	allowed, reason, err := h.migrationService.CanRevertMigration(c.Request.Context(), fundID, fileID)
	if err != nil {
		respondMigrationError(c, logger, err, "Failed to evaluate revert pre-check")
		return
	}

	c.JSON(http.StatusOK, dto.CanRevertResponse{CanRevert: allowed, Reason: reason})
}

// revert godoc
// @Summary Revert the migration
// @Description Deletes the migration record, its uploaded rows and every journal it synthesized
// @Tags migration
// @Produce  json
// @Param   fundID path string true "Fund ID"
// @Param   fileID path string true "Migration file ID"
// @Success 200 {object} dto.RevertResponse
// @Failure 404 {object} map[string]string "Migration not found"
// @Failure 422 {object} map[string]string "Pricing guard rejected the revert"
// @Router /funds/{fundID}/migration/{fileID} [delete]
func (h *migrationHandler) revert(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	fundID := c.Param("fundID")
	fileID := c.Param("fileID")

	logger = logger.With(slog.String("fund_id", fundID), slog.String("file_id", fileID))
	logger.Info("Received request to revert migration")

	counts, err := h.migrationService.RevertMigration(c.Request.Context(), fundID, fileID)
	if err != nil {
		respondMigrationError(c, logger, err, "Failed to revert migration")
		return
	}

	logger.Info("Migration reverted",
		slog.Int("migration_rows", counts.MigrationRows),
		slog.Int("buffer_rows", counts.BufferRows),
		slog.Int("journal_rows", counts.JournalRows),
	)
	c.JSON(http.StatusOK, dto.ToRevertResponse(counts))
}
