package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/eduvillage/eduvillage-api/internal/models"
	appErrors "github.com/eduvillage/eduvillage-api/pkg/errors"
)

type fakeUserRepo struct {
	users  map[string]*models.User
	tokens map[string]*models.RefreshToken
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: map[string]*models.User{}, tokens: map[string]*models.RefreshToken{}}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeUserRepo) FindByID(_ context.Context, id string) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeUserRepo) UpdateLastLogin(context.Context, string, time.Time) error { return nil }

func (f *fakeUserRepo) UpdatePassword(context.Context, string, string, time.Time) error { return nil }

func (f *fakeUserRepo) RevokeUserRefreshTokens(context.Context, string) error { return nil }

func (f *fakeUserRepo) CreateRefreshToken(_ context.Context, token *models.RefreshToken) error {
	f.tokens[token.Token] = token
	return nil
}

func (f *fakeUserRepo) FindRefreshToken(_ context.Context, token string) (*models.RefreshToken, error) {
	if t, ok := f.tokens[token]; ok {
		return t, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeUserRepo) RevokeRefreshToken(_ context.Context, id string, _ time.Time) error {
	for _, t := range f.tokens {
		if t.ID == id {
			t.Revoked = true
		}
	}
	return nil
}

type fakeStudentProfile struct {
	student *models.Student
}

func (f *fakeStudentProfile) FindByUserID(context.Context, string) (*models.Student, error) {
	if f.student == nil {
		return nil, sql.ErrNoRows
	}
	return f.student, nil
}

type fakeTeacherProfile struct {
	teacher *models.Teacher
}

func (f *fakeTeacherProfile) FindByUserID(context.Context, string) (*models.Teacher, error) {
	if f.teacher == nil {
		return nil, sql.ErrNoRows
	}
	return f.teacher, nil
}

func testAuthConfig() AuthConfig {
	return AuthConfig{
		AccessTokenSecret:  "test-secret",
		AccessTokenExpiry:  time.Hour,
		RefreshTokenExpiry: 24 * time.Hour,
		Issuer:             "eduvillage-api",
		Audience:           []string{"eduvillage"},
	}
}

func testUser(t *testing.T) *models.User {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)
	return &models.User{
		ID:           "user-1",
		Email:        "ada@example.com",
		PasswordHash: string(hash),
		FullName:     "Ada Lovelace",
		Role:         models.RoleStudent,
		Active:       true,
	}
}

func TestAuthServiceLogin_IssuesValidTokens(t *testing.T) {
	repo := newFakeUserRepo(testUser(t))
	svc := NewAuthService(repo, &fakeStudentProfile{}, &fakeTeacherProfile{}, nil, zap.NewNop(), testAuthConfig())

	res, err := svc.Login(context.Background(), models.LoginRequest{Email: "ada@example.com", Password: "secret123"})
	require.NoError(t, err)

	assert.NotEmpty(t, res.AccessToken)
	assert.NotEmpty(t, res.RefreshToken)
	assert.Equal(t, "Ada Lovelace", res.User.FullName)

	claims, err := svc.ValidateToken(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, models.RoleStudent, claims.Role)
}

func TestAuthServiceLogin_WrongPassword(t *testing.T) {
	repo := newFakeUserRepo(testUser(t))
	svc := NewAuthService(repo, &fakeStudentProfile{}, &fakeTeacherProfile{}, nil, zap.NewNop(), testAuthConfig())

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "ada@example.com", Password: "wrong-pass"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceLogin_InactiveAccount(t *testing.T) {
	user := testUser(t)
	user.Active = false
	svc := NewAuthService(newFakeUserRepo(user), &fakeStudentProfile{}, &fakeTeacherProfile{}, nil, zap.NewNop(), testAuthConfig())

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "ada@example.com", Password: "secret123"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInactiveAccount.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceRefreshToken_RotatesAndRevokes(t *testing.T) {
	repo := newFakeUserRepo(testUser(t))
	svc := NewAuthService(repo, &fakeStudentProfile{}, &fakeTeacherProfile{}, nil, zap.NewNop(), testAuthConfig())

	login, err := svc.Login(context.Background(), models.LoginRequest{Email: "ada@example.com", Password: "secret123"})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(context.Background(), models.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)

	// The used token is revoked and cannot be exchanged again.
	_, err = svc.RefreshToken(context.Background(), models.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceResolvePrincipal_Precedence(t *testing.T) {
	student := &models.Student{ID: "stu-1", UserID: "user-1"}
	teacher := &models.Teacher{ID: "tch-1", UserID: "user-1"}

	cases := []struct {
		name     string
		role     models.Role
		students *fakeStudentProfile
		teachers *fakeTeacherProfile
		want     models.PrincipalKind
	}{
		{"admin role wins", models.RoleAdmin, &fakeStudentProfile{student: student}, &fakeTeacherProfile{teacher: teacher}, models.PrincipalAdmin},
		{"teacher profile before student", models.RoleTeacher, &fakeStudentProfile{student: student}, &fakeTeacherProfile{teacher: teacher}, models.PrincipalTeacher},
		{"student profile", models.RoleStudent, &fakeStudentProfile{student: student}, &fakeTeacherProfile{}, models.PrincipalStudent},
		{"no profile", models.RoleStudent, &fakeStudentProfile{}, &fakeTeacherProfile{}, models.PrincipalUnknown},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewAuthService(newFakeUserRepo(), tc.students, tc.teachers, nil, zap.NewNop(), testAuthConfig())
			principal, err := svc.ResolvePrincipal(context.Background(), &models.JWTClaims{UserID: "user-1", Role: tc.role})
			require.NoError(t, err)
			assert.Equal(t, tc.want, principal.Kind)
		})
	}
}
