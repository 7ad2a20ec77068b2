package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/eduvillage/eduvillage-api/internal/models"
)

// CertificateRepository handles persistence of completion certificates.
type CertificateRepository struct {
	db *sqlx.DB
}

// NewCertificateRepository constructs the repository.
func NewCertificateRepository(db *sqlx.DB) *CertificateRepository {
	return &CertificateRepository{db: db}
}

// FindByID returns a certificate by its public identifier.
func (r *CertificateRepository) FindByID(ctx context.Context, id string) (*models.Certificate, error) {
	const query = `SELECT id, student_id, course_id, issued_at, is_revoked FROM certificates WHERE id = $1`
	var cert models.Certificate
	if err := r.db.GetContext(ctx, &cert, query, id); err != nil {
		return nil, err
	}
	return &cert, nil
}

// FindByStudentAndCourse returns the certificate for a (student, course) pair.
func (r *CertificateRepository) FindByStudentAndCourse(ctx context.Context, studentID, courseID string) (*models.Certificate, error) {
	const query = `SELECT id, student_id, course_id, issued_at, is_revoked FROM certificates
        WHERE student_id = $1 AND course_id = $2`
	var cert models.Certificate
	if err := r.db.GetContext(ctx, &cert, query, studentID, courseID); err != nil {
		return nil, err
	}
	return &cert, nil
}

// GetOrCreate returns the existing certificate or creates one with a fresh
// random identifier and the current timestamp. The unique (student_id,
// course_id) constraint makes concurrent issuance converge to a single row;
// an existing row keeps its original issued_at.
func (r *CertificateRepository) GetOrCreate(ctx context.Context, studentID, courseID string) (*models.Certificate, error) {
	cert := models.Certificate{
		ID:        uuid.NewString(),
		StudentID: studentID,
		CourseID:  courseID,
		IssuedAt:  time.Now().UTC(),
	}
	const insert = `INSERT INTO certificates (id, student_id, course_id, issued_at, is_revoked)
        VALUES (:id, :student_id, :course_id, :issued_at, :is_revoked)
        ON CONFLICT (student_id, course_id) DO NOTHING`
	if _, err := r.db.NamedExecContext(ctx, insert, cert); err != nil {
		return nil, fmt.Errorf("create certificate: %w", err)
	}
	return r.FindByStudentAndCourse(ctx, studentID, courseID)
}

// Revoke flips the one-way revocation flag.
func (r *CertificateRepository) Revoke(ctx context.Context, id string) error {
	const query = `UPDATE certificates SET is_revoked = TRUE WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("revoke certificate: %w", err)
	}
	return nil
}
