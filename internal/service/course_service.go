package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/eduvillage/eduvillage-api/internal/models"
	appErrors "github.com/eduvillage/eduvillage-api/pkg/errors"
)

type courseReader interface {
	List(ctx context.Context) ([]models.Course, error)
	FindByID(ctx context.Context, id string) (*models.Course, error)
	ListLessons(ctx context.Context, courseID string) ([]models.Lesson, error)
	FindLessonByID(ctx context.Context, id string) (*models.Lesson, error)
}

type enroller interface {
	GetOrCreate(ctx context.Context, studentID, courseID string) (*models.Enrollment, bool, error)
}

type lessonGate interface {
	IsUnlocked(ctx context.Context, studentID string, lesson *models.Lesson) (bool, error)
	EnsureEnrolled(ctx context.Context, studentID, courseID string) error
}

// CourseService exposes the course catalog and gated lesson content.
type CourseService struct {
	courses     courseReader
	enrollments enroller
	gate        lessonGate
	logger      *zap.Logger
}

// NewCourseService constructs a CourseService.
func NewCourseService(courses courseReader, enrollments enroller, gate lessonGate, logger *zap.Logger) *CourseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{courses: courses, enrollments: enrollments, gate: gate, logger: logger}
}

// List returns the full course catalog.
func (s *CourseService) List(ctx context.Context) ([]models.Course, error) {
	courses, err := s.courses.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	return courses, nil
}

// Get returns one course by ID.
func (s *CourseService) Get(ctx context.Context, courseID string) (*models.Course, error) {
	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	return course, nil
}

// Enroll joins the student to the course. Enrolling twice is a no-op that
// returns the original record.
func (s *CourseService) Enroll(ctx context.Context, studentID, courseID string) (*models.Enrollment, bool, error) {
	if _, err := s.Get(ctx, courseID); err != nil {
		return nil, false, err
	}
	enrollment, created, err := s.enrollments.GetOrCreate(ctx, studentID, courseID)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enroll")
	}
	if created {
		s.logger.Info("student enrolled",
			zap.String("student_id", studentID),
			zap.String("course_id", courseID),
		)
	}
	return enrollment, created, nil
}

// Lessons lists a course's lessons with the student's unlock state per lesson.
// Content is withheld here; LessonDetail serves it after the gate checks.
func (s *CourseService) Lessons(ctx context.Context, studentID, courseID string) ([]models.LessonSummary, error) {
	if _, err := s.Get(ctx, courseID); err != nil {
		return nil, err
	}
	if err := s.gate.EnsureEnrolled(ctx, studentID, courseID); err != nil {
		return nil, err
	}

	lessons, err := s.courses.ListLessons(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list lessons")
	}

	summaries := make([]models.LessonSummary, 0, len(lessons))
	for i := range lessons {
		lesson := &lessons[i]
		unlocked, err := s.gate.IsUnlocked(ctx, studentID, lesson)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, models.LessonSummary{
			ID:       lesson.ID,
			Title:    lesson.Title,
			Order:    lesson.Order,
			Unlocked: unlocked,
			HasQuiz:  lesson.HasQuiz(),
			QuizID:   lesson.QuizID,
		})
	}
	return summaries, nil
}

// LessonDetail returns the full lesson body, refusing locked lessons.
func (s *CourseService) LessonDetail(ctx context.Context, studentID, lessonID string) (*models.Lesson, error) {
	lesson, err := s.courses.FindLessonByID(ctx, lessonID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "lesson not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load lesson")
	}

	if err := s.gate.EnsureEnrolled(ctx, studentID, lesson.CourseID); err != nil {
		return nil, err
	}

	unlocked, err := s.gate.IsUnlocked(ctx, studentID, lesson)
	if err != nil {
		return nil, err
	}
	if !unlocked {
		return nil, appErrors.Clone(appErrors.ErrLessonLocked, "complete the previous lessons first")
	}
	return lesson, nil
}
