package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/RitamPal26/student-progress-site/models"
	"github.com/RitamPal26/student-progress-site/repositories"
)

// CreateStudentInput carries the fields a client may set on registration.
type CreateStudentInput struct {
	Name                  string  `json:"name"`
	Email                 string  `json:"email"`
	Phone                 *string `json:"phone"`
	Handle                string  `json:"codeforces_handle"`
	EmailRemindersEnabled *bool   `json:"email_reminders_enabled"`
}

// UpdateStudentInput carries a partial update; nil fields are left as-is.
type UpdateStudentInput struct {
	Name                  *string `json:"name"`
	Email                 *string `json:"email"`
	Phone                 *string `json:"phone"`
	Handle                *string `json:"codeforces_handle"`
	EmailRemindersEnabled *bool   `json:"email_reminders_enabled"`
}

// StudentService is the CRUD surface around the sync pipeline. Create,
// Update and Resync run a synchronous single-student sync so the returned
// record reflects the judge's current state.
type StudentService interface {
	Create(ctx context.Context, input CreateStudentInput) (*models.Student, error)
	GetByID(ctx context.Context, id int) (*models.Student, error)
	List(ctx context.Context) ([]models.Student, error)
	Update(ctx context.Context, id int, input UpdateStudentInput) (*models.Student, error)
	Delete(ctx context.Context, id int) error
	Resync(ctx context.Context, id int) (*models.Student, error)
}

type studentService struct {
	studentRepo repositories.StudentRepository
	sync        SyncService
}

func NewStudentService(studentRepo repositories.StudentRepository, sync SyncService) StudentService {
	return &studentService{studentRepo: studentRepo, sync: sync}
}

func (s *studentService) Create(ctx context.Context, input CreateStudentInput) (*models.Student, error) {
	student := &models.Student{
		Name:                  strings.TrimSpace(input.Name),
		Email:                 strings.TrimSpace(input.Email),
		Phone:                 input.Phone,
		Handle:                strings.TrimSpace(input.Handle),
		EmailRemindersEnabled: true,
	}
	if input.EmailRemindersEnabled != nil {
		student.EmailRemindersEnabled = *input.EmailRemindersEnabled
	}

	if err := validateStudent(student); err != nil {
		return nil, err
	}

	if err := s.studentRepo.Create(ctx, student); err != nil {
		return nil, mapRepositoryError(err)
	}

	// Live judge sync right after registration. The record exists either
	// way; a failing handle surfaces as a sync error on the created row.
	if _, err := s.sync.SyncStudent(ctx, student); err != nil {
		return student, err
	}
	return student, nil
}

func (s *studentService) GetByID(ctx context.Context, id int) (*models.Student, error) {
	student, err := s.studentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return student, nil
}

func (s *studentService) List(ctx context.Context) ([]models.Student, error) {
	return s.studentRepo.List(ctx)
}

func (s *studentService) Update(ctx context.Context, id int, input UpdateStudentInput) (*models.Student, error) {
	student, err := s.studentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	if input.Name != nil {
		student.Name = strings.TrimSpace(*input.Name)
	}
	if input.Email != nil {
		student.Email = strings.TrimSpace(*input.Email)
	}
	if input.Phone != nil {
		student.Phone = input.Phone
	}
	if input.Handle != nil {
		student.Handle = strings.TrimSpace(*input.Handle)
	}
	if input.EmailRemindersEnabled != nil {
		student.EmailRemindersEnabled = *input.EmailRemindersEnabled
	}

	if err := validateStudent(student); err != nil {
		return nil, err
	}

	if err := s.studentRepo.Update(ctx, student); err != nil {
		return nil, mapRepositoryError(err)
	}

	// Re-sync in case the handle changed, or simply to refresh ratings.
	if _, err := s.sync.SyncStudent(ctx, student); err != nil {
		return student, err
	}
	return student, nil
}

func (s *studentService) Delete(ctx context.Context, id int) error {
	if err := s.studentRepo.Delete(ctx, id); err != nil {
		return mapRepositoryError(err)
	}
	return nil
}

func (s *studentService) Resync(ctx context.Context, id int) (*models.Student, error) {
	student, err := s.studentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return s.sync.SyncStudent(ctx, student)
}

func validateStudent(student *models.Student) error {
	if student.Name == "" {
		return fmt.Errorf("%w: %w", ErrValidationFailed, ErrNameRequired)
	}
	if student.Handle == "" {
		return fmt.Errorf("%w: %w", ErrValidationFailed, ErrHandleRequired)
	}
	if _, err := mail.ParseAddress(student.Email); err != nil {
		return fmt.Errorf("%w: %w", ErrValidationFailed, ErrEmailInvalid)
	}
	return nil
}

func mapRepositoryError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrStudentNotFound):
		return ErrStudentNotFound
	case errors.Is(err, repositories.ErrStudentEmailConflict):
		return ErrEmailConflict
	case errors.Is(err, repositories.ErrStudentHandleConflict):
		return ErrHandleConflict
	}
	return err
}
