package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/eduvillage/eduvillage-api/internal/models"
	appErrors "github.com/eduvillage/eduvillage-api/pkg/errors"
)

type progressionCourseRepo interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
	FindLessonByID(ctx context.Context, id string) (*models.Lesson, error)
	ListLessons(ctx context.Context, courseID string) ([]models.Lesson, error)
	ListPriorLessons(ctx context.Context, courseID string, order int) ([]models.Lesson, error)
	FindLessonAtOrder(ctx context.Context, courseID string, order int) (*models.Lesson, error)
	FindNextLessonByOrder(ctx context.Context, courseID string, order int) (*models.Lesson, error)
	FindNextLessonByID(ctx context.Context, courseID, lessonID string) (*models.Lesson, error)
	CountLessons(ctx context.Context, courseID string) (int, error)
}

type progressLedger interface {
	UpsertCompletion(ctx context.Context, studentID, lessonID string, completed bool) error
	IsCompleted(ctx context.Context, studentID, lessonID string) (bool, error)
	CountCompletedInCourse(ctx context.Context, studentID, courseID string) (int, error)
	ListCompletedLessonIDs(ctx context.Context, studentID, courseID string) ([]string, error)
}

type passedQuizReader interface {
	HasPassedQuiz(ctx context.Context, studentID, quizID string) (bool, error)
}

type enrollmentReader interface {
	Exists(ctx context.Context, studentID, courseID string) (bool, error)
	ListByStudent(ctx context.Context, studentID string) ([]models.Enrollment, error)
}

// AdvanceResult is the outcome of advancing past a completed lesson.
type AdvanceResult struct {
	NextLessonID        *string
	AllLessonsCompleted bool
}

// ProgressionService decides lesson accessibility and moves students forward
// through a course.
type ProgressionService struct {
	courses     progressionCourseRepo
	ledger      progressLedger
	passed      passedQuizReader
	enrollments enrollmentReader
	cache       *CacheService
	logger      *zap.Logger
}

// NewProgressionService constructs a ProgressionService.
func NewProgressionService(courses progressionCourseRepo, ledger progressLedger, passed passedQuizReader, enrollments enrollmentReader, cache *CacheService, logger *zap.Logger) *ProgressionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProgressionService{courses: courses, ledger: ledger, passed: passed, enrollments: enrollments, cache: cache, logger: logger}
}

// IsUnlocked reports whether the student may view the lesson.
//
// A lesson with order 1 is always unlocked; enrollment is deliberately not
// checked here, callers compose EnsureEnrolled where it matters. For higher
// orders, every lesson in the course with strictly smaller order must be
// completed, and its quiz (when present) passed. The walk short-circuits on
// the first unsatisfied prior lesson.
func (s *ProgressionService) IsUnlocked(ctx context.Context, studentID string, lesson *models.Lesson) (bool, error) {
	if lesson.Order == 1 {
		return true, nil
	}

	priors, err := s.courses.ListPriorLessons(ctx, lesson.CourseID, lesson.Order)
	if err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to walk prior lessons")
	}

	for i := range priors {
		prior := &priors[i]

		done, err := s.ledger.IsCompleted(ctx, studentID, prior.ID)
		if err != nil {
			return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read progress")
		}
		if !done {
			return false, nil
		}

		if prior.HasQuiz() {
			passed, err := s.passed.HasPassedQuiz(ctx, studentID, *prior.QuizID)
			if err != nil {
				return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read passed quizzes")
			}
			if !passed {
				return false, nil
			}
		}
	}

	return true, nil
}

// CanAccess is the narrower reachability check: it requires enrollment, then
// looks only at the single lesson at order-1 and its completion state, never
// at quizzes. Looser than IsUnlocked on purpose; both semantics have callers.
func (s *ProgressionService) CanAccess(ctx context.Context, studentID, lessonID string) (bool, error) {
	lesson, err := s.courses.FindLessonByID(ctx, lessonID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, appErrors.Clone(appErrors.ErrNotFound, "lesson not found")
		}
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load lesson")
	}

	enrolled, err := s.enrollments.Exists(ctx, studentID, lesson.CourseID)
	if err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check enrollment")
	}
	if !enrolled {
		return false, nil
	}

	if lesson.Order == 1 {
		return true, nil
	}

	prev, err := s.courses.FindLessonAtOrder(ctx, lesson.CourseID, lesson.Order-1)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load predecessor lesson")
	}

	done, err := s.ledger.IsCompleted(ctx, studentID, prev.ID)
	if err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read progress")
	}
	return done, nil
}

// EnsureEnrolled fails with NotEligible unless the student is enrolled.
func (s *ProgressionService) EnsureEnrolled(ctx context.Context, studentID, courseID string) error {
	enrolled, err := s.enrollments.Exists(ctx, studentID, courseID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check enrollment")
	}
	if !enrolled {
		return appErrors.Clone(appErrors.ErrNotEligible, "not enrolled in this course")
	}
	return nil
}

// Advance marks the lesson complete and resolves the next lesson in course
// order. Order values are not unique, so resolution is two-tier: smallest
// strictly-greater order first, then smallest strictly-greater lesson ID
// within the course. AllLessonsCompleted comes from comparing completed and
// total counts, not from the absence of a next lesson; the two disagree when
// orders collide.
func (s *ProgressionService) Advance(ctx context.Context, studentID string, lesson *models.Lesson) (*AdvanceResult, error) {
	if err := s.ledger.UpsertCompletion(ctx, studentID, lesson.ID, true); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record completion")
	}
	s.invalidateProgress(ctx, studentID)

	result := &AdvanceResult{}

	next, err := s.courses.FindNextLessonByOrder(ctx, lesson.CourseID, lesson.Order)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to find next lesson")
	}
	if next == nil || errors.Is(err, sql.ErrNoRows) {
		next, err = s.courses.FindNextLessonByID(ctx, lesson.CourseID, lesson.ID)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to find next lesson by id")
		}
	}
	if next != nil {
		result.NextLessonID = &next.ID
	}

	total, err := s.courses.CountLessons(ctx, lesson.CourseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count lessons")
	}
	completed, err := s.ledger.CountCompletedInCourse(ctx, studentID, lesson.CourseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count completed lessons")
	}
	result.AllLessonsCompleted = total > 0 && completed >= total

	return result, nil
}

// MarkCompleted records direct completion of a lesson (no quiz involved).
func (s *ProgressionService) MarkCompleted(ctx context.Context, studentID, lessonID string) error {
	if _, err := s.courses.FindLessonByID(ctx, lessonID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "lesson not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load lesson")
	}
	if err := s.ledger.UpsertCompletion(ctx, studentID, lessonID, true); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record completion")
	}
	s.invalidateProgress(ctx, studentID)
	return nil
}

// CourseProgress summarises a student's completion in one course.
func (s *ProgressionService) CourseProgress(ctx context.Context, studentID, courseID string) (*models.CourseProgress, error) {
	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
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

	percent := 0
	if total > 0 {
		percent = completed * 100 / total
	}
	return &models.CourseProgress{
		CourseID:    course.ID,
		CourseTitle: course.Title,
		Completed:   completed,
		Total:       total,
		Percent:     percent,
	}, nil
}

// Dashboard returns per-enrollment progress with resume pointers.
func (s *ProgressionService) Dashboard(ctx context.Context, studentID string) ([]models.DashboardEntry, error) {
	cacheKey := fmt.Sprintf("dashboard:%s", studentID)
	var cached []models.DashboardEntry
	if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
		return cached, nil
	}

	enrollments, err := s.enrollments.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrollments")
	}

	entries := make([]models.DashboardEntry, 0, len(enrollments))
	for _, enrollment := range enrollments {
		progress, err := s.CourseProgress(ctx, studentID, enrollment.CourseID)
		if err != nil {
			return nil, err
		}

		lessons, err := s.courses.ListLessons(ctx, enrollment.CourseID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list lessons")
		}
		completedIDs, err := s.ledger.ListCompletedLessonIDs(ctx, studentID, enrollment.CourseID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list completed lessons")
		}
		completedSet := make(map[string]struct{}, len(completedIDs))
		for _, id := range completedIDs {
			completedSet[id] = struct{}{}
		}

		entry := models.DashboardEntry{CourseProgress: *progress}
		for i := range lessons {
			if _, ok := completedSet[lessons[i].ID]; ok {
				entry.LastCompleted = &lessons[i].Title
			} else {
				entry.ContinueLesson = &lessons[i].Title
				break
			}
		}
		entries = append(entries, entry)
	}

	if err := s.cache.Set(ctx, cacheKey, entries); err != nil {
		s.logger.Warn("failed to cache dashboard", zap.Error(err))
	}
	return entries, nil
}

// Resume returns the first incomplete lesson of the course, or the last
// lesson with a completed status when nothing remains.
func (s *ProgressionService) Resume(ctx context.Context, studentID, courseID string) (*models.ResumePoint, error) {
	if _, err := s.courses.FindByID(ctx, courseID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	if err := s.EnsureEnrolled(ctx, studentID, courseID); err != nil {
		return nil, err
	}

	lessons, err := s.courses.ListLessons(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list lessons")
	}
	if len(lessons) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no lessons found for this course")
	}

	for i := range lessons {
		done, err := s.ledger.IsCompleted(ctx, studentID, lessons[i].ID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read progress")
		}
		if !done {
			return &models.ResumePoint{
				LessonID: lessons[i].ID,
				Title:    lessons[i].Title,
				Order:    lessons[i].Order,
				Status:   models.ResumeStatusResume,
			}, nil
		}
	}

	last := lessons[len(lessons)-1]
	return &models.ResumePoint{
		LessonID: last.ID,
		Title:    last.Title,
		Order:    last.Order,
		Status:   models.ResumeStatusCompleted,
	}, nil
}

func (s *ProgressionService) invalidateProgress(ctx context.Context, studentID string) {
	if err := s.cache.Invalidate(ctx, fmt.Sprintf("dashboard:%s", studentID)); err != nil {
		s.logger.Warn("failed to invalidate dashboard cache", zap.Error(err))
	}
}
