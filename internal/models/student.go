package models

// Student is the learner profile linked 1:1 to a user account.
type Student struct {
	ID         string `db:"id" json:"id"`
	UserID     string `db:"user_id" json:"user_id"`
	RollNumber string `db:"roll_number" json:"roll_number"`
	Department string `db:"department" json:"department"`
}

// StudentDetail joins the student profile with its user account.
type StudentDetail struct {
	Student
	FullName string `db:"full_name" json:"full_name"`
	Email    string `db:"email" json:"email"`
}
