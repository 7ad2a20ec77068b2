package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/eduvillage/eduvillage-api/internal/middleware"
	"github.com/eduvillage/eduvillage-api/internal/models"
)

func studentPrincipal() *models.Principal {
	return &models.Principal{
		Kind:    models.PrincipalStudent,
		User:    models.UserInfo{ID: "user-1", Role: models.RoleStudent},
		Student: &models.Student{ID: "stu-1", UserID: "user-1"},
	}
}

func TestQuizHandlerSubmitRequiresStudentProfile(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewQuizHandler(nil)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/quizzes/quiz-1/submit", nil)
	c.Set(middleware.ContextPrincipalKey, &models.Principal{
		Kind: models.PrincipalTeacher,
		User: models.UserInfo{ID: "user-2", Role: models.RoleTeacher},
	})

	handler.Submit(c)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestQuizHandlerSubmitRejectsInvalidPayload(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewQuizHandler(nil)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/quizzes/quiz-1/submit", strings.NewReader("{not json"))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.ContextPrincipalKey, studentPrincipal())

	handler.Submit(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestQuizHandlerDetailRequiresStudentProfile(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewQuizHandler(nil)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/quizzes/quiz-1", nil)

	handler.Detail(c)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}
