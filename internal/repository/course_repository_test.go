package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var lessonColumns = []string{"id", "course_id", "title", "content", "lesson_order", "quiz_id"}

func TestCourseRepositoryFindNextLessonByOrder(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectQuery("SELECT id, course_id, title, content, lesson_order, quiz_id").
		WithArgs("course-1", 2).
		WillReturnRows(sqlmock.NewRows(lessonColumns).
			AddRow("lesson-3", "course-1", "Funcs", "body", 3, nil))

	next, err := repo.FindNextLessonByOrder(context.Background(), "course-1", 2)
	require.NoError(t, err)
	assert.Equal(t, "lesson-3", next.ID)
	assert.Equal(t, 3, next.Order)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryFindNextLessonByOrder_EndOfCourse(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectQuery("SELECT id, course_id, title, content, lesson_order, quiz_id").
		WithArgs("course-1", 3).
		WillReturnRows(sqlmock.NewRows(lessonColumns))

	_, err := repo.FindNextLessonByOrder(context.Background(), "course-1", 3)
	require.Error(t, err)
	assert.True(t, errors.Is(err, sql.ErrNoRows))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryListLessons_StableOrder(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	quizID := "quiz-2"
	mock.ExpectQuery("SELECT id, course_id, title, content, lesson_order, quiz_id").
		WithArgs("course-1").
		WillReturnRows(sqlmock.NewRows(lessonColumns).
			AddRow("lesson-1", "course-1", "Basics", "body", 1, nil).
			AddRow("lesson-2", "course-1", "Types", "body", 2, quizID))

	lessons, err := repo.ListLessons(context.Background(), "course-1")
	require.NoError(t, err)
	require.Len(t, lessons, 2)
	assert.False(t, lessons[0].HasQuiz())
	assert.True(t, lessons[1].HasQuiz())
	assert.NoError(t, mock.ExpectationsWereMet())
}
