package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/eduvillage/eduvillage-api/internal/models"
	"github.com/eduvillage/eduvillage-api/pkg/certpdf"
	appErrors "github.com/eduvillage/eduvillage-api/pkg/errors"
)

type fakeCertRepo struct {
	certs map[string]*models.Certificate
}

func (f *fakeCertRepo) key(studentID, courseID string) string {
	return studentID + "/" + courseID
}

func (f *fakeCertRepo) FindByID(_ context.Context, id string) (*models.Certificate, error) {
	for _, cert := range f.certs {
		if cert.ID == id {
			return cert, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeCertRepo) GetOrCreate(_ context.Context, studentID, courseID string) (*models.Certificate, error) {
	if f.certs == nil {
		f.certs = map[string]*models.Certificate{}
	}
	if cert, ok := f.certs[f.key(studentID, courseID)]; ok {
		return cert, nil
	}
	cert := &models.Certificate{
		ID:        uuid.NewString(),
		StudentID: studentID,
		CourseID:  courseID,
		IssuedAt:  time.Now().UTC(),
	}
	f.certs[f.key(studentID, courseID)] = cert
	return cert, nil
}

func (f *fakeCertRepo) Revoke(_ context.Context, id string) error {
	for _, cert := range f.certs {
		if cert.ID == id {
			cert.IsRevoked = true
			return nil
		}
	}
	return nil
}

type fakeStudentDetails struct {
	detail *models.StudentDetail
}

func (f *fakeStudentDetails) FindDetailByID(context.Context, string) (*models.StudentDetail, error) {
	if f.detail == nil {
		return nil, sql.ErrNoRows
	}
	return f.detail, nil
}

func newCertService(certs *fakeCertRepo, courses *fakeCourseRepo, ledger *fakeLedger) *CertificateService {
	students := &fakeStudentDetails{detail: &models.StudentDetail{
		Student:  models.Student{ID: "stu-1", UserID: "user-1"},
		FullName: "Ada Lovelace",
	}}
	return NewCertificateService(certs, courses, ledger, students, certpdf.NewRenderer(), CertificateConfig{
		VerifyBaseURL: "https://edu.example.com",
		IssuerName:    "EduVillage",
	}, zap.NewNop())
}

func TestCertificateIssueOrGet_RequiresFullCompletion(t *testing.T) {
	courses := courseFixture()
	ledger := &fakeLedger{completed: map[string]bool{"lesson-1": true}}
	svc := newCertService(&fakeCertRepo{}, courses, ledger)

	_, err := svc.IssueOrGet(context.Background(), "stu-1", "course-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotEligible.Code, appErrors.FromError(err).Code)
}

func TestCertificateIssueOrGet_EmptyCourseNeverQualifies(t *testing.T) {
	courses := &fakeCourseRepo{course: &models.Course{ID: "course-1"}}
	svc := newCertService(&fakeCertRepo{}, courses, &fakeLedger{})

	_, err := svc.IssueOrGet(context.Background(), "stu-1", "course-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotEligible.Code, appErrors.FromError(err).Code)
}

func TestCertificateIssueOrGet_IdempotentWithStableTimestamp(t *testing.T) {
	courses := courseFixture()
	ledger := &fakeLedger{completed: map[string]bool{"lesson-1": true, "lesson-2": true, "lesson-3": true}}
	svc := newCertService(&fakeCertRepo{}, courses, ledger)

	first, err := svc.IssueOrGet(context.Background(), "stu-1", "course-1")
	require.NoError(t, err)

	second, err := svc.IssueOrGet(context.Background(), "stu-1", "course-1")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.IssuedAt, second.IssuedAt)
	assert.Equal(t, "https://edu.example.com/verify-certificate/"+first.ID, first.VerifyURL)
}

func TestCertificateVerify_States(t *testing.T) {
	courses := courseFixture()
	ledger := &fakeLedger{completed: map[string]bool{"lesson-1": true, "lesson-2": true, "lesson-3": true}}
	certs := &fakeCertRepo{}
	svc := newCertService(certs, courses, ledger)

	_, err := svc.Verify(context.Background(), "unknown")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)

	issue, err := svc.IssueOrGet(context.Background(), "stu-1", "course-1")
	require.NoError(t, err)

	verification, err := svc.Verify(context.Background(), issue.ID)
	require.NoError(t, err)
	assert.True(t, verification.Valid)
	assert.False(t, verification.Revoked)
	assert.Equal(t, "Ada Lovelace", verification.StudentName)
	assert.Equal(t, "Intro to Go", verification.CourseTitle)
	assert.Equal(t, issue.IssuedAt.Format("2 January 2006"), verification.IssuedOn)

	require.NoError(t, svc.Revoke(context.Background(), issue.ID))

	verification, err = svc.Verify(context.Background(), issue.ID)
	require.NoError(t, err)
	assert.False(t, verification.Valid)
	assert.True(t, verification.Revoked)
	assert.Empty(t, verification.StudentName)
	assert.Empty(t, verification.CourseTitle)
	assert.Empty(t, verification.IssuedOn)
}

func TestCertificateRenderPDF(t *testing.T) {
	courses := courseFixture()
	ledger := &fakeLedger{completed: map[string]bool{"lesson-1": true, "lesson-2": true, "lesson-3": true}}
	certs := &fakeCertRepo{}
	svc := newCertService(certs, courses, ledger)

	pdf, filename, err := svc.RenderPDF(context.Background(), "stu-1", "course-1")
	require.NoError(t, err)

	assert.NotEmpty(t, pdf)
	assert.Equal(t, "Intro to Go_certificate.pdf", filename)
}

func TestCertificateRenderPDF_RevokedRefused(t *testing.T) {
	courses := courseFixture()
	ledger := &fakeLedger{completed: map[string]bool{"lesson-1": true, "lesson-2": true, "lesson-3": true}}
	certs := &fakeCertRepo{}
	svc := newCertService(certs, courses, ledger)

	issue, err := svc.IssueOrGet(context.Background(), "stu-1", "course-1")
	require.NoError(t, err)
	require.NoError(t, svc.Revoke(context.Background(), issue.ID))

	_, _, err = svc.RenderPDF(context.Background(), "stu-1", "course-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotEligible.Code, appErrors.FromError(err).Code)
}

func TestCertificateRevoke_UnknownNotFound(t *testing.T) {
	svc := newCertService(&fakeCertRepo{}, courseFixture(), &fakeLedger{})

	err := svc.Revoke(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
