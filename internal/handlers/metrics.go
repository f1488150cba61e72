package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"stepik-analytics/internal/logger"
	"stepik-analytics/internal/services"
	"stepik-analytics/internal/types"
)

type MetricsHandler struct {
	log *logger.Logger
	agg services.AggregationService
}

func NewMetricsHandler(baseLog *logger.Logger, agg services.AggregationService) *MetricsHandler {
	return &MetricsHandler{
		log: baseLog.With("handler", "MetricsHandler"),
		agg: agg,
	}
}

func (h *MetricsHandler) Daily(c *gin.Context) {
	stepikIDs, r, err := parseMetricsQuery(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	rows, err := h.agg.DailyMetrics(c.Request.Context(), stepikIDs, r)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "metrics_failed", err)
		return
	}
	RespondOK(c, gin.H{"range": r, "metrics": rows})
}

func (h *MetricsHandler) Summary(c *gin.Context) {
	stepikIDs, r, err := parseMetricsQuery(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	summary, err := h.agg.Summary(c.Request.Context(), stepikIDs, r)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "summary_failed", err)
		return
	}
	RespondOK(c, gin.H{"range": r, "summary": summary})
}

// parseMetricsQuery reads course_ids (comma-separated, empty = all courses),
// period (default week) and date (default today, UTC).
func parseMetricsQuery(c *gin.Context) ([]int64, types.TimeRange, error) {
	var stepikIDs []int64
	if raw := c.Query("course_ids"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
			if err != nil {
				return nil, types.TimeRange{}, fmt.Errorf("invalid course id %q", part)
			}
			stepikIDs = append(stepikIDs, id)
		}
	}

	anchor := types.DateOf(time.Now().UTC())
	if raw := c.Query("date"); raw != "" {
		parsed, err := types.ParseDate(raw)
		if err != nil {
			return nil, types.TimeRange{}, fmt.Errorf("invalid date %q", raw)
		}
		anchor = parsed
	}

	period := types.Period(c.DefaultQuery("period", string(types.PeriodWeek)))
	r, err := types.RangeFrom(anchor, period)
	if err != nil {
		return nil, types.TimeRange{}, err
	}
	return stepikIDs, r, nil
}
