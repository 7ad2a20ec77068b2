package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/eduvillage/eduvillage-api/internal/models"
)

// EnrollmentRepository handles persistence of course enrollments.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs the repository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// GetOrCreate enrolls the student if not already enrolled and returns the
// record either way. Concurrent duplicate attempts converge on the unique
// (student_id, course_id) constraint.
func (r *EnrollmentRepository) GetOrCreate(ctx context.Context, studentID, courseID string) (*models.Enrollment, bool, error) {
	enrollment := models.Enrollment{
		ID:        uuid.NewString(),
		StudentID: studentID,
		CourseID:  courseID,
		JoinedAt:  time.Now().UTC(),
	}
	const insert = `INSERT INTO enrollments (id, student_id, course_id, joined_at)
        VALUES (:id, :student_id, :course_id, :joined_at)
        ON CONFLICT (student_id, course_id) DO NOTHING`
	res, err := r.db.NamedExecContext(ctx, insert, enrollment)
	if err != nil {
		return nil, false, fmt.Errorf("create enrollment: %w", err)
	}
	affected, _ := res.RowsAffected()

	existing, err := r.Find(ctx, studentID, courseID)
	if err != nil {
		return nil, false, fmt.Errorf("load enrollment: %w", err)
	}
	return existing, affected > 0, nil
}

// Find returns the enrollment for a (student, course) pair.
func (r *EnrollmentRepository) Find(ctx context.Context, studentID, courseID string) (*models.Enrollment, error) {
	const query = `SELECT id, student_id, course_id, joined_at FROM enrollments
        WHERE student_id = $1 AND course_id = $2`
	var enrollment models.Enrollment
	if err := r.db.GetContext(ctx, &enrollment, query, studentID, courseID); err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// Exists checks enrollment for a (student, course) pair.
func (r *EnrollmentRepository) Exists(ctx context.Context, studentID, courseID string) (bool, error) {
	const query = `SELECT 1 FROM enrollments WHERE student_id = $1 AND course_id = $2 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, studentID, courseID); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check enrollment: %w", err)
	}
	return true, nil
}

// ListByStudent returns the student's enrollments ordered by join time.
func (r *EnrollmentRepository) ListByStudent(ctx context.Context, studentID string) ([]models.Enrollment, error) {
	const query = `SELECT id, student_id, course_id, joined_at FROM enrollments
        WHERE student_id = $1 ORDER BY joined_at`
	var enrollments []models.Enrollment
	if err := r.db.SelectContext(ctx, &enrollments, query, studentID); err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	return enrollments, nil
}
