package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/eduvillage/eduvillage-api/internal/models"
)

// StudentRepository handles persistence of student profiles and the
// passed-quiz set.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs the repository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// FindByID returns a student profile by its ID.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.Student, error) {
	const query = `SELECT id, user_id, roll_number, department FROM students WHERE id = $1`
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		return nil, err
	}
	return &student, nil
}

// FindByUserID returns the student profile attached to a user account.
func (r *StudentRepository) FindByUserID(ctx context.Context, userID string) (*models.Student, error) {
	const query = `SELECT id, user_id, roll_number, department FROM students WHERE user_id = $1`
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, userID); err != nil {
		return nil, err
	}
	return &student, nil
}

// FindDetailByID returns a student joined with its user account.
func (r *StudentRepository) FindDetailByID(ctx context.Context, id string) (*models.StudentDetail, error) {
	const query = `SELECT s.id, s.user_id, s.roll_number, s.department, u.full_name, u.email
        FROM students s JOIN users u ON u.id = s.user_id WHERE s.id = $1`
	var detail models.StudentDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		return nil, err
	}
	return &detail, nil
}

// List returns all student profiles with user info.
func (r *StudentRepository) List(ctx context.Context) ([]models.StudentDetail, error) {
	const query = `SELECT s.id, s.user_id, s.roll_number, s.department, u.full_name, u.email
        FROM students s JOIN users u ON u.id = s.user_id ORDER BY u.full_name`
	var students []models.StudentDetail
	if err := r.db.SelectContext(ctx, &students, query); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return students, nil
}

// AddPassedQuiz records quiz membership in the student's passed set.
// Membership-add is the only mutation on the set; repeating it is a no-op.
func (r *StudentRepository) AddPassedQuiz(ctx context.Context, studentID, quizID string) error {
	const query = `INSERT INTO student_passed_quizzes (student_id, quiz_id)
        VALUES ($1, $2) ON CONFLICT (student_id, quiz_id) DO NOTHING`
	if _, err := r.db.ExecContext(ctx, query, studentID, quizID); err != nil {
		return fmt.Errorf("add passed quiz: %w", err)
	}
	return nil
}

// HasPassedQuiz checks membership of a quiz in the student's passed set.
func (r *StudentRepository) HasPassedQuiz(ctx context.Context, studentID, quizID string) (bool, error) {
	const query = `SELECT 1 FROM student_passed_quizzes WHERE student_id = $1 AND quiz_id = $2 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, studentID, quizID); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check passed quiz: %w", err)
	}
	return true, nil
}
