package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/eduvillage/eduvillage-api/internal/models"
	appErrors "github.com/eduvillage/eduvillage-api/pkg/errors"
)

type fakeQuizRepo struct {
	quiz      *models.Quiz
	questions []models.Question
}

func (f *fakeQuizRepo) FindByID(context.Context, string) (*models.Quiz, error) {
	if f.quiz == nil {
		return nil, sql.ErrNoRows
	}
	return f.quiz, nil
}

func (f *fakeQuizRepo) ListQuestions(context.Context, string) ([]models.Question, error) {
	return f.questions, nil
}

type fakeLessonResolver struct {
	lesson *models.Lesson
}

func (f *fakeLessonResolver) FindLessonByQuiz(context.Context, string) (*models.Lesson, error) {
	if f.lesson == nil {
		return nil, sql.ErrNoRows
	}
	return f.lesson, nil
}

type fakeAnswerWriter struct {
	recorded []models.StudentAnswer
}

func (f *fakeAnswerWriter) UpsertAnswer(_ context.Context, answer *models.StudentAnswer) error {
	f.recorded = append(f.recorded, *answer)
	return nil
}

type fakePassedStore struct {
	passed map[string]bool
	added  []string
}

func (f *fakePassedStore) HasPassedQuiz(_ context.Context, _, quizID string) (bool, error) {
	return f.passed[quizID], nil
}

func (f *fakePassedStore) AddPassedQuiz(_ context.Context, _, quizID string) error {
	f.added = append(f.added, quizID)
	return nil
}

type fakeAdvancer struct {
	result     *AdvanceResult
	calledWith *models.Lesson
}

func (f *fakeAdvancer) Advance(_ context.Context, _ string, lesson *models.Lesson) (*AdvanceResult, error) {
	f.calledWith = lesson
	return f.result, nil
}

func quizFixture() (*fakeQuizRepo, *fakeLessonResolver) {
	questions := []models.Question{
		{ID: "q1", QuizID: "quiz-1", Correct: "a"},
		{ID: "q2", QuizID: "quiz-1", Correct: "B"},
		{ID: "q3", QuizID: "quiz-1", Correct: " c "},
		{ID: "q4", QuizID: "quiz-1", Correct: "d"},
		{ID: "q5", QuizID: "quiz-1", Correct: "a"},
	}
	quizID := "quiz-1"
	return &fakeQuizRepo{quiz: &models.Quiz{ID: "quiz-1", Title: "Module quiz"}, questions: questions},
		&fakeLessonResolver{lesson: &models.Lesson{ID: "lesson-2", CourseID: "course-1", Order: 2, QuizID: &quizID}}
}

func TestQuizServiceGrade_PassNormalizesAndAdvances(t *testing.T) {
	quizzes, lessons := quizFixture()
	answers := &fakeAnswerWriter{}
	passed := &fakePassedStore{passed: map[string]bool{}}
	next := "lesson-3"
	advancer := &fakeAdvancer{result: &AdvanceResult{NextLessonID: &next}}

	svc := NewQuizService(quizzes, lessons, answers, passed, advancer, zap.NewNop())

	result, err := svc.Grade(context.Background(), "stu-1", "quiz-1", map[string]string{
		"q1": "A",
		"q2": " b ",
		"q3": "C)",
		"q4": "d",
		"q5": "a",
	})
	require.NoError(t, err)

	assert.Equal(t, 100, result.Score)
	assert.True(t, result.Passed)
	require.NotNil(t, result.NextLessonID)
	assert.Equal(t, "lesson-3", *result.NextLessonID)
	assert.Len(t, result.Details, 5)
	assert.Len(t, answers.recorded, 5)
	assert.Equal(t, []string{"quiz-1"}, passed.added)
	require.NotNil(t, advancer.calledWith)
	assert.Equal(t, "lesson-2", advancer.calledWith.ID)
}

func TestQuizServiceGrade_ExactThresholdPasses(t *testing.T) {
	quizzes, lessons := quizFixture()
	answers := &fakeAnswerWriter{}
	passed := &fakePassedStore{passed: map[string]bool{}}
	advancer := &fakeAdvancer{result: &AdvanceResult{AllLessonsCompleted: true}}

	svc := NewQuizService(quizzes, lessons, answers, passed, advancer, zap.NewNop())

	// 3 of 5 correct lands exactly on the pass mark.
	result, err := svc.Grade(context.Background(), "stu-1", "quiz-1", map[string]string{
		"q1": "a",
		"q2": "b",
		"q3": "c",
		"q4": "a",
		"q5": "d",
	})
	require.NoError(t, err)

	assert.Equal(t, 60, result.Score)
	assert.True(t, result.Passed)
	assert.True(t, result.AllLessonsCompleted)
}

func TestQuizServiceGrade_FailRecordsAnswersWithoutAdvancing(t *testing.T) {
	quizzes, lessons := quizFixture()
	answers := &fakeAnswerWriter{}
	passed := &fakePassedStore{passed: map[string]bool{}}
	advancer := &fakeAdvancer{result: &AdvanceResult{}}

	svc := NewQuizService(quizzes, lessons, answers, passed, advancer, zap.NewNop())

	result, err := svc.Grade(context.Background(), "stu-1", "quiz-1", map[string]string{
		"q1": "a",
		"q2": "a",
		"q3": "a",
		"q4": "a",
		"q5": "b",
	})
	require.NoError(t, err)

	assert.Equal(t, 20, result.Score)
	assert.False(t, result.Passed)
	assert.Nil(t, result.NextLessonID)
	assert.False(t, result.AllLessonsCompleted)
	assert.Len(t, answers.recorded, 5)
	assert.Nil(t, advancer.calledWith)
	assert.Empty(t, passed.added)
}

func TestQuizServiceGrade_UnansweredQuestionsCountWrong(t *testing.T) {
	quizzes, lessons := quizFixture()
	answers := &fakeAnswerWriter{}
	passed := &fakePassedStore{passed: map[string]bool{}}
	advancer := &fakeAdvancer{result: &AdvanceResult{}}

	svc := NewQuizService(quizzes, lessons, answers, passed, advancer, zap.NewNop())

	result, err := svc.Grade(context.Background(), "stu-1", "quiz-1", map[string]string{"q1": "a"})
	require.NoError(t, err)

	assert.Equal(t, 20, result.Score)
	assert.False(t, result.Passed)
	assert.Len(t, answers.recorded, 5)
}

func TestQuizServiceGrade_EmptySubmissionRejected(t *testing.T) {
	quizzes, lessons := quizFixture()
	svc := NewQuizService(quizzes, lessons, &fakeAnswerWriter{}, &fakePassedStore{}, &fakeAdvancer{}, zap.NewNop())

	_, err := svc.Grade(context.Background(), "stu-1", "quiz-1", map[string]string{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestQuizServiceGrade_QuizWithoutQuestionsRejected(t *testing.T) {
	quizzes := &fakeQuizRepo{quiz: &models.Quiz{ID: "quiz-1"}}
	svc := NewQuizService(quizzes, &fakeLessonResolver{}, &fakeAnswerWriter{}, &fakePassedStore{}, &fakeAdvancer{}, zap.NewNop())

	_, err := svc.Grade(context.Background(), "stu-1", "quiz-1", map[string]string{"q1": "a"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestQuizServiceGrade_UnknownQuizNotFound(t *testing.T) {
	svc := NewQuizService(&fakeQuizRepo{}, &fakeLessonResolver{}, &fakeAnswerWriter{}, &fakePassedStore{}, &fakeAdvancer{}, zap.NewNop())

	_, err := svc.Grade(context.Background(), "stu-1", "missing", map[string]string{"q1": "a"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestQuizServiceDetail_LockedAfterPass(t *testing.T) {
	quizzes, lessons := quizFixture()
	passed := &fakePassedStore{passed: map[string]bool{"quiz-1": true}}

	svc := NewQuizService(quizzes, lessons, &fakeAnswerWriter{}, passed, &fakeAdvancer{}, zap.NewNop())

	view, err := svc.Detail(context.Background(), "stu-1", "quiz-1")
	require.NoError(t, err)

	assert.True(t, view.Locked)
	assert.Len(t, view.Questions, 5)
}
