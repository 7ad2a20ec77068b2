package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/eduvillage/eduvillage-api/internal/models"
	appErrors "github.com/eduvillage/eduvillage-api/pkg/errors"
)

// passThreshold is the minimum score (percent) counted as a pass.
const passThreshold = 60

type quizRepo interface {
	FindByID(ctx context.Context, id string) (*models.Quiz, error)
	ListQuestions(ctx context.Context, quizID string) ([]models.Question, error)
}

type quizLessonResolver interface {
	FindLessonByQuiz(ctx context.Context, quizID string) (*models.Lesson, error)
}

type answerWriter interface {
	UpsertAnswer(ctx context.Context, answer *models.StudentAnswer) error
}

type passedQuizStore interface {
	HasPassedQuiz(ctx context.Context, studentID, quizID string) (bool, error)
	AddPassedQuiz(ctx context.Context, studentID, quizID string) error
}

type lessonAdvancer interface {
	Advance(ctx context.Context, studentID string, lesson *models.Lesson) (*AdvanceResult, error)
}

// QuizService grades submissions and exposes quiz content to students.
type QuizService struct {
	quizzes  quizRepo
	lessons  quizLessonResolver
	answers  answerWriter
	passed   passedQuizStore
	advancer lessonAdvancer
	logger   *zap.Logger
}

// NewQuizService constructs a QuizService.
func NewQuizService(quizzes quizRepo, lessons quizLessonResolver, answers answerWriter, passed passedQuizStore, advancer lessonAdvancer, logger *zap.Logger) *QuizService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QuizService{quizzes: quizzes, lessons: lessons, answers: answers, passed: passed, advancer: advancer, logger: logger}
}

// Detail returns the quiz without its answer key. Locked reports whether the
// student already passed it.
func (s *QuizService) Detail(ctx context.Context, studentID, quizID string) (*models.QuizView, error) {
	quiz, err := s.quizzes.FindByID(ctx, quizID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "quiz not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load quiz")
	}

	if _, err := s.lessons.FindLessonByQuiz(ctx, quizID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "quiz has no owning lesson")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load lesson")
	}

	alreadyPassed, err := s.passed.HasPassedQuiz(ctx, studentID, quizID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read passed quizzes")
	}

	questions, err := s.quizzes.ListQuestions(ctx, quizID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load questions")
	}

	return &models.QuizView{
		ID:        quiz.ID,
		Title:     quiz.Title,
		Locked:    alreadyPassed,
		Questions: questions,
	}, nil
}

// Grade scores the submitted answer set against the quiz's answer key.
//
// Every question gets one upserted StudentAnswer regardless of outcome, so
// resubmission always replaces prior state. Only a pass mutates progression:
// the owning lesson is completed and the quiz joins the student's passed set.
// Grading is deterministic and independent of map iteration order.
func (s *QuizService) Grade(ctx context.Context, studentID, quizID string, answers map[string]string) (*models.QuizResult, error) {
	quiz, err := s.quizzes.FindByID(ctx, quizID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "quiz not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load quiz")
	}

	// Rejected before totals are known so the score division below can never
	// run with a zero denominator, quizzes without questions included.
	if len(answers) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "no answers submitted")
	}

	questions, err := s.quizzes.ListQuestions(ctx, quiz.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load questions")
	}
	total := len(questions)
	if total == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "quiz has no questions")
	}

	correct := 0
	details := make([]models.QuestionResult, 0, total)
	for i := range questions {
		q := &questions[i]
		selected := normalizeChoice(answers[q.ID])
		expected := normalizeChoice(q.Correct)
		isCorrect := selected != "" && selected == expected
		if isCorrect {
			correct++
		}

		details = append(details, models.QuestionResult{
			QuestionID: q.ID,
			Selected:   selected,
			Correct:    expected,
			IsCorrect:  isCorrect,
		})

		if err := s.answers.UpsertAnswer(ctx, &models.StudentAnswer{
			StudentID:  studentID,
			QuestionID: q.ID,
			Selected:   selected,
			IsCorrect:  isCorrect,
		}); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record answer")
		}
	}

	score := correct * 100 / total
	result := &models.QuizResult{
		Score:   score,
		Passed:  score >= passThreshold,
		Details: details,
	}

	if result.Passed {
		lesson, err := s.lessons.FindLessonByQuiz(ctx, quiz.ID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "quiz has no owning lesson")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load lesson")
		}

		advance, err := s.advancer.Advance(ctx, studentID, lesson)
		if err != nil {
			return nil, err
		}
		result.NextLessonID = advance.NextLessonID
		result.AllLessonsCompleted = advance.AllLessonsCompleted

		if err := s.passed.AddPassedQuiz(ctx, studentID, quiz.ID); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record passed quiz")
		}
	}

	return result, nil
}

// normalizeChoice lowercases and strips everything except letters, so stored
// keys like " B " or "b)" and submissions alike compare equal.
func normalizeChoice(raw string) string {
	lowered := strings.ToLower(strings.TrimSpace(raw))
	var b strings.Builder
	for _, r := range lowered {
		if unicode.IsLetter(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
