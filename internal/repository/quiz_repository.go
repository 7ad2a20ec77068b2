package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/eduvillage/eduvillage-api/internal/models"
)

// QuizRepository handles read access to quizzes and their questions.
type QuizRepository struct {
	db *sqlx.DB
}

// NewQuizRepository constructs the repository.
func NewQuizRepository(db *sqlx.DB) *QuizRepository {
	return &QuizRepository{db: db}
}

// FindByID returns a quiz by its ID.
func (r *QuizRepository) FindByID(ctx context.Context, id string) (*models.Quiz, error) {
	const query = `SELECT id, title FROM quizzes WHERE id = $1`
	var quiz models.Quiz
	if err := r.db.GetContext(ctx, &quiz, query, id); err != nil {
		return nil, err
	}
	return &quiz, nil
}

// ListQuestions returns a quiz's questions in stable order.
func (r *QuizRepository) ListQuestions(ctx context.Context, quizID string) ([]models.Question, error) {
	const query = `SELECT id, quiz_id, text, option_a, option_b, option_c, option_d, correct
        FROM questions WHERE quiz_id = $1 ORDER BY id`
	var questions []models.Question
	if err := r.db.SelectContext(ctx, &questions, query, quizID); err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	return questions, nil
}
