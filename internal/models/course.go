package models

// Course groups an ordered collection of lessons owned by a teacher.
// Authoring is out of scope here, so courses are read-only.
type Course struct {
	ID          string `db:"id" json:"id"`
	Title       string `db:"title" json:"title"`
	Description string `db:"description" json:"description"`
	TeacherID   string `db:"teacher_id" json:"teacher_id"`
}

// Lesson belongs to exactly one course. Order is 1-based and NOT guaranteed
// unique within a course; duplicates must be tolerated by all ordering logic.
// At most one quiz is attached.
type Lesson struct {
	ID       string  `db:"id" json:"id"`
	CourseID string  `db:"course_id" json:"course_id"`
	Title    string  `db:"title" json:"title"`
	Content  string  `db:"content" json:"content"`
	Order    int     `db:"lesson_order" json:"order"`
	QuizID   *string `db:"quiz_id" json:"quiz_id,omitempty"`
}

// HasQuiz reports whether a quiz is attached to the lesson.
func (l *Lesson) HasQuiz() bool {
	return l.QuizID != nil && *l.QuizID != ""
}

// LessonSummary is the listing view of a lesson with the caller's unlock state.
type LessonSummary struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Order    int     `json:"order"`
	Unlocked bool    `json:"unlocked"`
	HasQuiz  bool    `json:"has_quiz"`
	QuizID   *string `json:"quiz_id,omitempty"`
}
