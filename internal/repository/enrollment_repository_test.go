package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnrollmentRepositoryGetOrCreate_NewEnrollment(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	joined := time.Date(2025, 2, 1, 8, 0, 0, 0, time.UTC)

	mock.ExpectExec("INSERT INTO enrollments").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery("SELECT id, student_id, course_id, joined_at FROM enrollments").
		WithArgs("stu-1", "course-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "student_id", "course_id", "joined_at"}).
			AddRow("enr-1", "stu-1", "course-1", joined))

	enrollment, created, err := repo.GetOrCreate(context.Background(), "stu-1", "course-1")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "enr-1", enrollment.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryGetOrCreate_AlreadyEnrolled(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectExec("INSERT INTO enrollments").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT id, student_id, course_id, joined_at FROM enrollments").
		WithArgs("stu-1", "course-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "student_id", "course_id", "joined_at"}).
			AddRow("enr-1", "stu-1", "course-1", time.Now()))

	_, created, err := repo.GetOrCreate(context.Background(), "stu-1", "course-1")
	require.NoError(t, err)
	assert.False(t, created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryExists(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM enrollments WHERE student_id = $1 AND course_id = $2 LIMIT 1")).
		WithArgs("stu-1", "course-1").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

	enrolled, err := repo.Exists(context.Background(), "stu-1", "course-1")
	require.NoError(t, err)
	assert.True(t, enrolled)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM enrollments WHERE student_id = $1 AND course_id = $2 LIMIT 1")).
		WithArgs("stu-1", "course-2").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}))

	enrolled, err = repo.Exists(context.Background(), "stu-1", "course-2")
	require.NoError(t, err)
	assert.False(t, enrolled)
	assert.NoError(t, mock.ExpectationsWereMet())
}
