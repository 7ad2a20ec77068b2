package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eduvillage/eduvillage-api/internal/service"
	appErrors "github.com/eduvillage/eduvillage-api/pkg/errors"
	"github.com/eduvillage/eduvillage-api/pkg/response"
)

// ProgressHandler exposes dashboard, resume and completion endpoints.
type ProgressHandler struct {
	progression *service.ProgressionService
}

// NewProgressHandler constructs handler.
func NewProgressHandler(progression *service.ProgressionService) *ProgressHandler {
	return &ProgressHandler{progression: progression}
}

// Dashboard godoc
// @Summary Student dashboard
// @Description Per-enrollment progress with resume pointers
// @Tags Progress
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dashboard [get]
func (h *ProgressHandler) Dashboard(c *gin.Context) {
	student := studentFromContext(c)
	if student == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "student profile required"))
		return
	}

	entries, err := h.progression.Dashboard(c.Request.Context(), student.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}

// CourseProgress godoc
// @Summary Progress within one course
// @Tags Progress
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /courses/{id}/progress [get]
func (h *ProgressHandler) CourseProgress(c *gin.Context) {
	student := studentFromContext(c)
	if student == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "student profile required"))
		return
	}

	progress, err := h.progression.CourseProgress(c.Request.Context(), student.ID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, progress, nil)
}

// Resume godoc
// @Summary Resume point within a course
// @Description First incomplete lesson, or the last lesson when done
// @Tags Progress
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /courses/{id}/resume [get]
func (h *ProgressHandler) Resume(c *gin.Context) {
	student := studentFromContext(c)
	if student == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "student profile required"))
		return
	}

	point, err := h.progression.Resume(c.Request.Context(), student.ID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, point, nil)
}

// CanAccess godoc
// @Summary Check access to a lesson
// @Description Reports whether the immediate predecessor is completed
// @Tags Lessons
// @Produce json
// @Param id path string true "Lesson ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /lessons/{id}/can-access [get]
func (h *ProgressHandler) CanAccess(c *gin.Context) {
	student := studentFromContext(c)
	if student == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "student profile required"))
		return
	}

	allowed, err := h.progression.CanAccess(c.Request.Context(), student.ID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"can_access": allowed}, nil)
}

// MarkComplete godoc
// @Summary Mark a lesson completed
// @Description Direct completion for lessons without a quiz gate
// @Tags Progress
// @Produce json
// @Param id path string true "Lesson ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /lessons/{id}/complete [post]
func (h *ProgressHandler) MarkComplete(c *gin.Context) {
	student := studentFromContext(c)
	if student == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "student profile required"))
		return
	}

	if err := h.progression.MarkCompleted(c.Request.Context(), student.ID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"status": "completed"}, nil)
}
