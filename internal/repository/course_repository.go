package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/eduvillage/eduvillage-api/internal/models"
)

// CourseRepository handles read access to courses and their ordered lessons.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository constructs the repository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// List returns all courses.
func (r *CourseRepository) List(ctx context.Context) ([]models.Course, error) {
	const query = `SELECT id, title, description, teacher_id FROM courses ORDER BY title`
	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, query); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}

// FindByID returns a course by its ID.
func (r *CourseRepository) FindByID(ctx context.Context, id string) (*models.Course, error) {
	const query = `SELECT id, title, description, teacher_id FROM courses WHERE id = $1`
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, id); err != nil {
		return nil, err
	}
	return &course, nil
}

// ListLessons returns a course's lessons ordered by lesson_order, id.
// The id tiebreak keeps walks deterministic when order values collide.
func (r *CourseRepository) ListLessons(ctx context.Context, courseID string) ([]models.Lesson, error) {
	const query = `SELECT id, course_id, title, content, lesson_order, quiz_id
        FROM lessons WHERE course_id = $1 ORDER BY lesson_order, id`
	var lessons []models.Lesson
	if err := r.db.SelectContext(ctx, &lessons, query, courseID); err != nil {
		return nil, fmt.Errorf("list lessons: %w", err)
	}
	return lessons, nil
}

// FindLessonByID returns a lesson by its ID.
func (r *CourseRepository) FindLessonByID(ctx context.Context, id string) (*models.Lesson, error) {
	const query = `SELECT id, course_id, title, content, lesson_order, quiz_id FROM lessons WHERE id = $1`
	var lesson models.Lesson
	if err := r.db.GetContext(ctx, &lesson, query, id); err != nil {
		return nil, err
	}
	return &lesson, nil
}

// FindLessonByQuiz returns the lesson owning the given quiz.
func (r *CourseRepository) FindLessonByQuiz(ctx context.Context, quizID string) (*models.Lesson, error) {
	const query = `SELECT id, course_id, title, content, lesson_order, quiz_id FROM lessons WHERE quiz_id = $1`
	var lesson models.Lesson
	if err := r.db.GetContext(ctx, &lesson, query, quizID); err != nil {
		return nil, err
	}
	return &lesson, nil
}

// ListPriorLessons returns lessons in the course with strictly smaller order,
// walked in ascending order.
func (r *CourseRepository) ListPriorLessons(ctx context.Context, courseID string, order int) ([]models.Lesson, error) {
	const query = `SELECT id, course_id, title, content, lesson_order, quiz_id
        FROM lessons WHERE course_id = $1 AND lesson_order < $2 ORDER BY lesson_order, id`
	var lessons []models.Lesson
	if err := r.db.SelectContext(ctx, &lessons, query, courseID, order); err != nil {
		return nil, fmt.Errorf("list prior lessons: %w", err)
	}
	return lessons, nil
}

// FindLessonAtOrder returns the first lesson in the course at exactly the
// given order value, or sql.ErrNoRows.
func (r *CourseRepository) FindLessonAtOrder(ctx context.Context, courseID string, order int) (*models.Lesson, error) {
	const query = `SELECT id, course_id, title, content, lesson_order, quiz_id
        FROM lessons WHERE course_id = $1 AND lesson_order = $2 ORDER BY id LIMIT 1`
	var lesson models.Lesson
	if err := r.db.GetContext(ctx, &lesson, query, courseID, order); err != nil {
		return nil, err
	}
	return &lesson, nil
}

// FindNextLessonByOrder returns the lesson with the smallest order strictly
// greater than the given one, or sql.ErrNoRows.
func (r *CourseRepository) FindNextLessonByOrder(ctx context.Context, courseID string, order int) (*models.Lesson, error) {
	const query = `SELECT id, course_id, title, content, lesson_order, quiz_id
        FROM lessons WHERE course_id = $1 AND lesson_order > $2 ORDER BY lesson_order, id LIMIT 1`
	var lesson models.Lesson
	if err := r.db.GetContext(ctx, &lesson, query, courseID, order); err != nil {
		return nil, err
	}
	return &lesson, nil
}

// FindNextLessonByID returns the lesson with the smallest ID strictly greater
// than the given one within the course, or sql.ErrNoRows. Fallback path for
// courses with duplicate or degenerate order values.
func (r *CourseRepository) FindNextLessonByID(ctx context.Context, courseID, lessonID string) (*models.Lesson, error) {
	const query = `SELECT id, course_id, title, content, lesson_order, quiz_id
        FROM lessons WHERE course_id = $1 AND id > $2 ORDER BY id LIMIT 1`
	var lesson models.Lesson
	if err := r.db.GetContext(ctx, &lesson, query, courseID, lessonID); err != nil {
		return nil, err
	}
	return &lesson, nil
}

// CountLessons returns the number of lessons in a course.
func (r *CourseRepository) CountLessons(ctx context.Context, courseID string) (int, error) {
	const query = `SELECT COUNT(*) FROM lessons WHERE course_id = $1`
	var total int
	if err := r.db.GetContext(ctx, &total, query, courseID); err != nil {
		return 0, fmt.Errorf("count lessons: %w", err)
	}
	return total, nil
}
