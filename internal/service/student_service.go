package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/eduvillage/eduvillage-api/internal/models"
	appErrors "github.com/eduvillage/eduvillage-api/pkg/errors"
)

type studentLister interface {
	List(ctx context.Context) ([]models.StudentDetail, error)
	FindDetailByID(ctx context.Context, id string) (*models.StudentDetail, error)
}

// StudentService exposes read access to student profiles.
type StudentService struct {
	students studentLister
}

// NewStudentService constructs a StudentService.
func NewStudentService(students studentLister) *StudentService {
	return &StudentService{students: students}
}

// List returns all student profiles.
func (s *StudentService) List(ctx context.Context) ([]models.StudentDetail, error) {
	students, err := s.students.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	return students, nil
}

// Get returns one student profile with user info.
func (s *StudentService) Get(ctx context.Context, id string) (*models.StudentDetail, error) {
	student, err := s.students.FindDetailByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	return student, nil
}
