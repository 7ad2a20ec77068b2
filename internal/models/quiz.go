package models

import "time"

// Quiz is an ordered collection of questions, reachable only through its lesson.
type Quiz struct {
	ID    string `db:"id" json:"id"`
	Title string `db:"title" json:"title"`
}

// Question is multiple-choice with exactly one correct option among four.
// Correct holds a single letter; comparison is case- and whitespace-insensitive.
type Question struct {
	ID      string `db:"id" json:"id"`
	QuizID  string `db:"quiz_id" json:"quiz_id"`
	Text    string `db:"text" json:"text"`
	OptionA string `db:"option_a" json:"a"`
	OptionB string `db:"option_b" json:"b"`
	OptionC string `db:"option_c" json:"c"`
	OptionD string `db:"option_d" json:"d"`
	Correct string `db:"correct" json:"-"`
}

// StudentAnswer stores the last-submitted selection per (student, question).
// Re-submission overwrites.
type StudentAnswer struct {
	ID         string    `db:"id" json:"id"`
	StudentID  string    `db:"student_id" json:"student_id"`
	QuestionID string    `db:"question_id" json:"question_id"`
	Selected   string    `db:"selected" json:"selected"`
	IsCorrect  bool      `db:"is_correct" json:"is_correct"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// QuestionResult reports the grading outcome for one question.
type QuestionResult struct {
	QuestionID string `json:"question_id"`
	Selected   string `json:"selected"`
	Correct    string `json:"correct"`
	IsCorrect  bool   `json:"is_correct"`
}

// QuizResult is the outcome of a graded submission.
type QuizResult struct {
	Score               int              `json:"score"`
	Passed              bool             `json:"passed"`
	Details             []QuestionResult `json:"details"`
	NextLessonID        *string          `json:"next_lesson_id"`
	AllLessonsCompleted bool             `json:"all_lessons_completed"`
}

// QuizView exposes a quiz to students without the answer key.
type QuizView struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Locked    bool       `json:"locked"`
	Questions []Question `json:"questions"`
}
