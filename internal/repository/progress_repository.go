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

// ProgressRepository is the progress ledger: lesson completion and submitted
// answers, written as idempotent upserts keyed by their natural unique pairs.
// No cross-entity validation happens here.
type ProgressRepository struct {
	db *sqlx.DB
}

// NewProgressRepository constructs the repository.
func NewProgressRepository(db *sqlx.DB) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// UpsertCompletion records lesson completion for a student. Concurrent writes
// for the same pair converge on the unique constraint.
func (r *ProgressRepository) UpsertCompletion(ctx context.Context, studentID, lessonID string, completed bool) error {
	progress := models.Progress{
		ID:        uuid.NewString(),
		StudentID: studentID,
		LessonID:  lessonID,
		Completed: completed,
		UpdatedAt: time.Now().UTC(),
	}
	const query = `INSERT INTO progress (id, student_id, lesson_id, completed, updated_at)
        VALUES (:id, :student_id, :lesson_id, :completed, :updated_at)
        ON CONFLICT (student_id, lesson_id)
        DO UPDATE SET completed = EXCLUDED.completed, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, progress); err != nil {
		return fmt.Errorf("upsert progress: %w", err)
	}
	return nil
}

// IsCompleted reports whether the student completed the lesson.
func (r *ProgressRepository) IsCompleted(ctx context.Context, studentID, lessonID string) (bool, error) {
	const query = `SELECT 1 FROM progress WHERE student_id = $1 AND lesson_id = $2 AND completed = TRUE LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, studentID, lessonID); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check progress: %w", err)
	}
	return true, nil
}

// CountCompletedInCourse returns how many lessons of the course the student
// has completed.
func (r *ProgressRepository) CountCompletedInCourse(ctx context.Context, studentID, courseID string) (int, error) {
	const query = `SELECT COUNT(*) FROM progress p
        JOIN lessons l ON l.id = p.lesson_id
        WHERE p.student_id = $1 AND l.course_id = $2 AND p.completed = TRUE`
	var total int
	if err := r.db.GetContext(ctx, &total, query, studentID, courseID); err != nil {
		return 0, fmt.Errorf("count completed lessons: %w", err)
	}
	return total, nil
}

// ListCompletedLessonIDs returns the completed lesson IDs within a course.
func (r *ProgressRepository) ListCompletedLessonIDs(ctx context.Context, studentID, courseID string) ([]string, error) {
	const query = `SELECT p.lesson_id FROM progress p
        JOIN lessons l ON l.id = p.lesson_id
        WHERE p.student_id = $1 AND l.course_id = $2 AND p.completed = TRUE`
	var ids []string
	if err := r.db.SelectContext(ctx, &ids, query, studentID, courseID); err != nil {
		return nil, fmt.Errorf("list completed lessons: %w", err)
	}
	return ids, nil
}

// UpsertAnswer records the last-submitted selection for a question.
// Re-submission overwrites the previous row.
func (r *ProgressRepository) UpsertAnswer(ctx context.Context, answer *models.StudentAnswer) error {
	if answer.ID == "" {
		answer.ID = uuid.NewString()
	}
	answer.UpdatedAt = time.Now().UTC()
	const query = `INSERT INTO student_answers (id, student_id, question_id, selected, is_correct, updated_at)
        VALUES (:id, :student_id, :question_id, :selected, :is_correct, :updated_at)
        ON CONFLICT (student_id, question_id)
        DO UPDATE SET selected = EXCLUDED.selected, is_correct = EXCLUDED.is_correct, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, answer); err != nil {
		return fmt.Errorf("upsert student answer: %w", err)
	}
	return nil
}
