package models

// Teacher is the instructor profile linked 1:1 to a user account.
type Teacher struct {
	ID      string `db:"id" json:"id"`
	UserID  string `db:"user_id" json:"user_id"`
	Subject string `db:"subject" json:"subject"`
}

// TeacherDetail joins the teacher profile with its user account.
type TeacherDetail struct {
	Teacher
	FullName string `db:"full_name" json:"full_name"`
	Email    string `db:"email" json:"email"`
}
