package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eduvillage/eduvillage-api/internal/service"
	appErrors "github.com/eduvillage/eduvillage-api/pkg/errors"
	"github.com/eduvillage/eduvillage-api/pkg/response"
)

// QuizHandler exposes quiz content and grading endpoints.
type QuizHandler struct {
	quizzes *service.QuizService
}

// NewQuizHandler constructs handler.
func NewQuizHandler(quizzes *service.QuizService) *QuizHandler {
	return &QuizHandler{quizzes: quizzes}
}

// SubmitQuizRequest is the grading payload: question ID to selected option.
type SubmitQuizRequest struct {
	Answers map[string]string `json:"answers"`
}

// Detail godoc
// @Summary Get quiz without answer key
// @Tags Quizzes
// @Produce json
// @Param id path string true "Quiz ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /quizzes/{id} [get]
func (h *QuizHandler) Detail(c *gin.Context) {
	student := studentFromContext(c)
	if student == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "student profile required"))
		return
	}

	quiz, err := h.quizzes.Detail(c.Request.Context(), student.ID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, quiz, nil)
}

// Submit godoc
// @Summary Submit quiz answers for grading
// @Description Grades the submission; a passing score completes the owning lesson
// @Tags Quizzes
// @Accept json
// @Produce json
// @Param id path string true "Quiz ID"
// @Param payload body SubmitQuizRequest true "Answers payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /quizzes/{id}/submit [post]
func (h *QuizHandler) Submit(c *gin.Context) {
	student := studentFromContext(c)
	if student == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "student profile required"))
		return
	}

	var req SubmitQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	result, err := h.quizzes.Grade(c.Request.Context(), student.ID, c.Param("id"), req.Answers)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
