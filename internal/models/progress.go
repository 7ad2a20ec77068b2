package models

import "time"

// Progress marks lesson completion per (student, lesson). Upserted whenever a
// lesson is marked done, directly or via a quiz pass.
type Progress struct {
	ID        string    `db:"id" json:"id"`
	StudentID string    `db:"student_id" json:"student_id"`
	LessonID  string    `db:"lesson_id" json:"lesson_id"`
	Completed bool      `db:"completed" json:"completed"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// CourseProgress summarises completion within one course.
type CourseProgress struct {
	CourseID    string `json:"course_id"`
	CourseTitle string `json:"course"`
	Completed   int    `json:"completed"`
	Total       int    `json:"total"`
	Percent     int    `json:"percentage"`
}

// DashboardEntry is one enrolled course on the student dashboard.
type DashboardEntry struct {
	CourseProgress
	LastCompleted  *string `json:"last_completed"`
	ContinueLesson *string `json:"continue_lesson"`
}

// ResumeStatus values for resume queries.
const (
	ResumeStatusResume    = "resume"
	ResumeStatusCompleted = "completed"
)

// ResumePoint identifies where a student should continue within a course.
type ResumePoint struct {
	LessonID string `json:"lesson_id"`
	Title    string `json:"title"`
	Order    int    `json:"order"`
	Status   string `json:"status"`
}
