package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"stepik-analytics/internal/logger"
	"stepik-analytics/internal/services"
)

type SyncHandler struct {
	log  *logger.Logger
	sync services.SyncService
}

func NewSyncHandler(baseLog *logger.Logger, sync services.SyncService) *SyncHandler {
	return &SyncHandler{
		log:  baseLog.With("handler", "SyncHandler"),
		sync: sync,
	}
}

// SyncAll runs a full sync inline; the request context owns cancellation, so
// a disconnected client aborts the run.
func (h *SyncHandler) SyncAll(c *gin.Context) {
	if err := h.sync.SyncAll(c.Request.Context()); err != nil {
		if errors.Is(err, context.Canceled) {
			RespondError(c, http.StatusRequestTimeout, "sync_cancelled", err)
			return
		}
		RespondError(c, http.StatusInternalServerError, "sync_failed", err)
		return
	}
	RespondOK(c, gin.H{"status": "ok"})
}

func (h *SyncHandler) SyncCourse(c *gin.Context) {
	stepikID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_course_id", fmt.Errorf("invalid course id %q", c.Param("id")))
		return
	}

	if err := h.sync.SyncCourse(c.Request.Context(), stepikID); err != nil {
		if errors.Is(err, context.Canceled) {
			RespondError(c, http.StatusRequestTimeout, "sync_cancelled", err)
			return
		}
		RespondError(c, http.StatusInternalServerError, "sync_failed", err)
		return
	}
	RespondOK(c, gin.H{"status": "ok"})
}
