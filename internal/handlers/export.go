package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"stepik-analytics/internal/logger"
	"stepik-analytics/internal/services"
	"stepik-analytics/internal/types"
)

type ExportHandler struct {
	log       *logger.Logger
	export    services.ExportService
	exportDir string
}

func NewExportHandler(baseLog *logger.Logger, export services.ExportService, exportDir string) *ExportHandler {
	return &ExportHandler{
		log:       baseLog.With("handler", "ExportHandler"),
		export:    export,
		exportDir: exportDir,
	}
}

type exportRequest struct {
	StepikID int64  `json:"stepik_id" binding:"required"`
	Period   string `json:"period"`
	Date     string `json:"date"`
}

func (h *ExportHandler) ExportCSV(c *gin.Context) {
	var req exportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	anchor := types.DateOf(time.Now().UTC())
	if req.Date != "" {
		parsed, err := types.ParseDate(req.Date)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_date", err)
			return
		}
		anchor = parsed
	}
	period := types.PeriodWeek
	if req.Period != "" {
		period = types.Period(req.Period)
	}
	r, err := types.RangeFrom(anchor, period)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_period", err)
		return
	}

	path, err := h.export.ExportCSV(c.Request.Context(), req.StepikID, r, h.exportDir)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "export_failed", err)
		return
	}
	if path == "" {
		RespondError(c, http.StatusNotFound, "no_data", nil)
		return
	}
	RespondOK(c, gin.H{"path": path})
}
