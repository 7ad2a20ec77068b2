package service

import (
	"context"

	"github.com/eduvillage/eduvillage-api/internal/models"
	appErrors "github.com/eduvillage/eduvillage-api/pkg/errors"
)

type teacherLister interface {
	List(ctx context.Context) ([]models.TeacherDetail, error)
}

// TeacherService exposes read access to teacher profiles.
type TeacherService struct {
	teachers teacherLister
}

// NewTeacherService constructs a TeacherService.
func NewTeacherService(teachers teacherLister) *TeacherService {
	return &TeacherService{teachers: teachers}
}

// List returns all teacher profiles.
func (s *TeacherService) List(ctx context.Context) ([]models.TeacherDetail, error) {
	teachers, err := s.teachers.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teachers")
	}
	return teachers, nil
}
