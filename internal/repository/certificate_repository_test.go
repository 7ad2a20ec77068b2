package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCertificateRepositoryGetOrCreate_ExistingRowWins(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCertificateRepository(db)

	issued := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	// Conflict on (student_id, course_id) leaves the original row untouched.
	mock.ExpectExec("INSERT INTO certificates").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT id, student_id, course_id, issued_at, is_revoked FROM certificates").
		WithArgs("stu-1", "course-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "student_id", "course_id", "issued_at", "is_revoked"}).
			AddRow("cert-original", "stu-1", "course-1", issued, false))

	cert, err := repo.GetOrCreate(context.Background(), "stu-1", "course-1")
	require.NoError(t, err)
	assert.Equal(t, "cert-original", cert.ID)
	assert.Equal(t, issued, cert.IssuedAt.UTC())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCertificateRepositoryFindByID_Missing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCertificateRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, student_id, course_id, issued_at, is_revoked FROM certificates WHERE id = $1")).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, sql.ErrNoRows))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCertificateRepositoryRevoke(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCertificateRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE certificates SET is_revoked = TRUE WHERE id = $1")).
		WithArgs("cert-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Revoke(context.Background(), "cert-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
