package models

import "time"

// Certificate proves full completion of a course by a student. The identifier
// is a random UUID; it is the only secret needed to verify. Unique per
// (student, course). Revocation is one-way.
type Certificate struct {
	ID        string    `db:"id" json:"id"`
	StudentID string    `db:"student_id" json:"student_id"`
	CourseID  string    `db:"course_id" json:"course_id"`
	IssuedAt  time.Time `db:"issued_at" json:"issued_at"`
	IsRevoked bool      `db:"is_revoked" json:"is_revoked"`
}

// CertificateIssue is the issuance response including the verification locator.
type CertificateIssue struct {
	Certificate
	VerifyURL string `json:"verify_url"`
}

// CertificateVerification reports the current validity of a certificate.
// For revoked certificates only the identifier is populated.
type CertificateVerification struct {
	CertificateID string `json:"certificate_id"`
	Valid         bool   `json:"valid"`
	Revoked       bool   `json:"revoked"`
	StudentName   string `json:"student,omitempty"`
	CourseTitle   string `json:"course,omitempty"`
	IssuedOn      string `json:"issued_on,omitempty"`
}
