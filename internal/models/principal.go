package models

// PrincipalKind enumerates the resolved identity of an authenticated caller.
type PrincipalKind string

const (
	PrincipalAdmin   PrincipalKind = "ADMIN"
	PrincipalTeacher PrincipalKind = "TEACHER"
	PrincipalStudent PrincipalKind = "STUDENT"
	PrincipalUnknown PrincipalKind = "UNKNOWN"
)

// Principal is the caller identity resolved once at the auth boundary.
// Exactly one of Student/Teacher is populated depending on Kind; handlers
// pass explicit profile IDs into services rather than re-deriving roles.
type Principal struct {
	Kind    PrincipalKind `json:"kind"`
	User    UserInfo      `json:"user"`
	Student *Student      `json:"student,omitempty"`
	Teacher *Teacher      `json:"teacher,omitempty"`
}

// IsStudent reports whether the principal carries a student profile.
func (p *Principal) IsStudent() bool {
	return p != nil && p.Kind == PrincipalStudent && p.Student != nil
}
