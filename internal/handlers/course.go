package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"stepik-analytics/internal/logger"
	"stepik-analytics/internal/services"
)

type CourseHandler struct {
	log     *logger.Logger
	courses services.CourseService
}

func NewCourseHandler(baseLog *logger.Logger, courses services.CourseService) *CourseHandler {
	return &CourseHandler{
		log:     baseLog.With("handler", "CourseHandler"),
		courses: courses,
	}
}

func (h *CourseHandler) List(c *gin.Context) {
	courses, err := h.courses.List(c.Request.Context())
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "list_courses_failed", err)
		return
	}
	RespondOK(c, gin.H{"courses": courses})
}

type registerCourseRequest struct {
	StepikID int64  `json:"stepik_id" binding:"required"`
	Title    string `json:"title"`
	URL      string `json:"url"`
}

func (h *CourseHandler) Register(c *gin.Context) {
	var req registerCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	course, err := h.courses.Register(c.Request.Context(), req.StepikID, req.Title, req.URL)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "register_course_failed", err)
		return
	}
	RespondOK(c, gin.H{"course": course})
}

func (h *CourseHandler) Runs(c *gin.Context) {
	stepikID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_course_id", fmt.Errorf("invalid course id %q", c.Param("id")))
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	runs, err := h.courses.RecentRuns(c.Request.Context(), stepikID, limit)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "list_runs_failed", err)
		return
	}
	RespondOK(c, gin.H{"runs": runs})
}
