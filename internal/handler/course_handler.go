package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eduvillage/eduvillage-api/internal/service"
	appErrors "github.com/eduvillage/eduvillage-api/pkg/errors"
	"github.com/eduvillage/eduvillage-api/pkg/response"
)

// CourseHandler exposes the course catalog and lesson endpoints.
type CourseHandler struct {
	courses *service.CourseService
}

// NewCourseHandler constructs handler.
func NewCourseHandler(courses *service.CourseService) *CourseHandler {
	return &CourseHandler{courses: courses}
}

// List godoc
// @Summary List courses
// @Tags Courses
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /courses [get]
func (h *CourseHandler) List(c *gin.Context) {
	courses, err := h.courses.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses, nil)
}

// Get godoc
// @Summary Get course by ID
// @Tags Courses
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /courses/{id} [get]
func (h *CourseHandler) Get(c *gin.Context) {
	course, err := h.courses.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, course, nil)
}

// Enroll godoc
// @Summary Enroll in a course
// @Description Enroll the authenticated student; enrolling twice is a no-op
// @Tags Courses
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Success 201 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /courses/{id}/enroll [post]
func (h *CourseHandler) Enroll(c *gin.Context) {
	student := studentFromContext(c)
	if student == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "student profile required"))
		return
	}

	enrollment, created, err := h.courses.Enroll(c.Request.Context(), student.ID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if created {
		response.Created(c, enrollment)
		return
	}
	response.JSON(c, http.StatusOK, enrollment, nil)
}

// Lessons godoc
// @Summary List course lessons with unlock state
// @Tags Courses
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /courses/{id}/lessons [get]
func (h *CourseHandler) Lessons(c *gin.Context) {
	student := studentFromContext(c)
	if student == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "student profile required"))
		return
	}

	lessons, err := h.courses.Lessons(c.Request.Context(), student.ID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, lessons, nil)
}

// LessonDetail godoc
// @Summary Get lesson content
// @Description Returns the full lesson body when unlocked for the student
// @Tags Lessons
// @Produce json
// @Param id path string true "Lesson ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /lessons/{id} [get]
func (h *CourseHandler) LessonDetail(c *gin.Context) {
	student := studentFromContext(c)
	if student == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "student profile required"))
		return
	}

	lesson, err := h.courses.LessonDetail(c.Request.Context(), student.ID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, lesson, nil)
}
