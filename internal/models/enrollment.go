package models

import "time"

// Enrollment links a student to a course. Unique per (student, course),
// created on enroll and never mutated afterwards.
type Enrollment struct {
	ID        string    `db:"id" json:"id"`
	StudentID string    `db:"student_id" json:"student_id"`
	CourseID  string    `db:"course_id" json:"course_id"`
	JoinedAt  time.Time `db:"joined_at" json:"joined_at"`
}
