package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/eduvillage/eduvillage-api/internal/models"
	"github.com/eduvillage/eduvillage-api/pkg/certpdf"
	appErrors "github.com/eduvillage/eduvillage-api/pkg/errors"
)

type certificateRepo interface {
	FindByID(ctx context.Context, id string) (*models.Certificate, error)
	GetOrCreate(ctx context.Context, studentID, courseID string) (*models.Certificate, error)
	Revoke(ctx context.Context, id string) error
}

type certCourseReader interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
	CountLessons(ctx context.Context, courseID string) (int, error)
}

type certLedger interface {
	CountCompletedInCourse(ctx context.Context, studentID, courseID string) (int, error)
}

type studentDetailReader interface {
	FindDetailByID(ctx context.Context, id string) (*models.StudentDetail, error)
}

// CertificateConfig carries issuance settings.
type CertificateConfig struct {
	VerifyBaseURL string
	IssuerName    string
}

// CertificateService issues, renders, verifies and revokes completion
// certificates.
type CertificateService struct {
	certificates certificateRepo
	courses      certCourseReader
	ledger       certLedger
	students     studentDetailReader
	renderer     *certpdf.Renderer
	cfg          CertificateConfig
	logger       *zap.Logger
}

// NewCertificateService constructs a CertificateService.
func NewCertificateService(certificates certificateRepo, courses certCourseReader, ledger certLedger, students studentDetailReader, renderer *certpdf.Renderer, cfg CertificateConfig, logger *zap.Logger) *CertificateService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CertificateService{
		certificates: certificates,
		courses:      courses,
		ledger:       ledger,
		students:     students,
		renderer:     renderer,
		cfg:          cfg,
		logger:       logger,
	}
}

// IssueOrGet returns the student's certificate for a fully completed course,
// creating it on first request. Repeated calls return the same certificate
// with its original issuance timestamp. Eligibility requires every lesson in
// the course to be completed; a course with zero lessons never qualifies.
func (s *CertificateService) IssueOrGet(ctx context.Context, studentID, courseID string) (*models.CertificateIssue, error) {
	if _, err := s.courses.FindByID(ctx, courseID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	total, err := s.courses.CountLessons(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count lessons")
	}
	completed, err := s.ledger.CountCompletedInCourse(ctx, studentID, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count completed lessons")
	}
	if total == 0 || completed < total {
		return nil, appErrors.Clone(appErrors.ErrNotEligible, "course is not fully completed")
	}

	cert, err := s.certificates.GetOrCreate(ctx, studentID, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to issue certificate")
	}

	s.logger.Info("certificate issued",
		zap.String("certificate_id", cert.ID),
		zap.String("student_id", studentID),
		zap.String("course_id", courseID),
	)

	return &models.CertificateIssue{
		Certificate: *cert,
		VerifyURL:   s.verifyURL(cert.ID),
	}, nil
}

// RenderPDF produces the downloadable document for an issued certificate and
// the filename it should be served under. Revoked certificates do not render.
func (s *CertificateService) RenderPDF(ctx context.Context, studentID, courseID string) ([]byte, string, error) {
	issue, err := s.IssueOrGet(ctx, studentID, courseID)
	if err != nil {
		return nil, "", err
	}
	if issue.IsRevoked {
		return nil, "", appErrors.Clone(appErrors.ErrNotEligible, "certificate has been revoked")
	}

	student, err := s.students.FindDetailByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	pdf, err := s.renderer.Render(certpdf.Certificate{
		ID:          issue.ID,
		StudentName: student.FullName,
		CourseTitle: course.Title,
		IssuedOn:    issue.IssuedAt,
		VerifyURL:   issue.VerifyURL,
		Issuer:      s.cfg.IssuerName,
	})
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render certificate")
	}

	return pdf, certpdf.Filename(course.Title), nil
}

// Verify resolves a certificate identifier into its validity report.
// Unknown identifiers are not found; revoked certificates report only the
// identifier; valid ones include the display metadata.
func (s *CertificateService) Verify(ctx context.Context, certificateID string) (*models.CertificateVerification, error) {
	cert, err := s.certificates.FindByID(ctx, certificateID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "certificate not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load certificate")
	}

	if cert.IsRevoked {
		return &models.CertificateVerification{
			CertificateID: cert.ID,
			Valid:         false,
			Revoked:       true,
		}, nil
	}

	student, err := s.students.FindDetailByID(ctx, cert.StudentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	course, err := s.courses.FindByID(ctx, cert.CourseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	return &models.CertificateVerification{
		CertificateID: cert.ID,
		Valid:         true,
		Revoked:       false,
		StudentName:   student.FullName,
		CourseTitle:   course.Title,
		IssuedOn:      cert.IssuedAt.Format("2 January 2006"),
	}, nil
}

// Revoke invalidates a certificate. The row survives so verification can
// distinguish revoked from never issued.
func (s *CertificateService) Revoke(ctx context.Context, certificateID string) error {
	if _, err := s.certificates.FindByID(ctx, certificateID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "certificate not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load certificate")
	}
	if err := s.certificates.Revoke(ctx, certificateID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to revoke certificate")
	}
	s.logger.Info("certificate revoked", zap.String("certificate_id", certificateID))
	return nil
}

func (s *CertificateService) verifyURL(certificateID string) string {
	base := strings.TrimRight(s.cfg.VerifyBaseURL, "/")
	return base + "/verify-certificate/" + certificateID
}
