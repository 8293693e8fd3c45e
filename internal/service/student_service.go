package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/synchrony/student-management/internal/auth"
	"github.com/synchrony/student-management/internal/domain"
	"github.com/synchrony/student-management/internal/events"
	"github.com/synchrony/student-management/internal/idgen"
	"github.com/synchrony/student-management/internal/repository"
	apperrors "github.com/synchrony/student-management/pkg/util"
)

// StudentService manages student accounts for both admins and the students themselves.
type StudentService struct {
	students   repository.StudentRepository
	ids        *idgen.Generator
	photos     *PhotoService
	dispatcher events.Dispatcher
	bcryptCost int
	now        func() time.Time
	logger     *zap.Logger
}

// NewStudentService builds the service.
func NewStudentService(deps AccountDependencies) *StudentService {
	return &StudentService{
		students:   deps.StudentRepo,
		ids:        deps.IDs,
		photos:     deps.Photos,
		dispatcher: deps.Dispatcher,
		bcryptCost: deps.BcryptCost,
		now:        time.Now,
		logger:     deps.Logger,
	}
}

// ListStudents returns every student.
func (s *StudentService) ListStudents(ctx context.Context) ([]*domain.Student, error) {
	students, err := s.students.List(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return students, nil
}

// AddStudent enrolls a student. The identifier is derived from the date of birth.
func (s *StudentService) AddStudent(ctx context.Context, student *domain.Student, password string, photo *PhotoUpload) (*domain.Student, error) {
	if password == "" {
		return nil, requiredPassword()
	}
	if err := s.photos.Check(photo); err != nil {
		return nil, err
	}

	userName, err := s.ids.NewStudentID(ctx, student.DateOfBirth)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	now := s.now()
	student.UserName = userName
	student.Password = hash
	student.CreatedDate = now
	student.ModifiedDate = now
	if student.DateOfRegistration == nil {
		today := now
		student.DateOfRegistration = &today
	}
	if student.ProfileStatus == "" {
		student.ProfileStatus = domain.ProfileStatusActive
	}
	if photo != nil {
		if student.ProfilePhotoKey, err = s.photos.Store(ctx, domain.AccountKindStudent, userName, photo); err != nil {
			return nil, err
		}
	}

	if err := s.students.Create(ctx, student); err != nil {
		s.photos.Discard(ctx, student.ProfilePhotoKey)
		return nil, writeErr(err, "Student", "userName", userName)
	}
	publish(ctx, s.dispatcher, s.logger, events.Event{
		Type:     events.EventAccountCreated,
		Kind:     domain.AccountKindStudent,
		UserName: userName,
	})
	return student, nil
}

// GetStudent loads a student.
func (s *StudentService) GetStudent(ctx context.Context, userName string) (*domain.Student, error) {
	student, err := s.students.GetByUserName(ctx, userName)
	if err != nil {
		return nil, lookupErr(err, "Student", "userName", userName)
	}
	return student, nil
}

// EditStudent applies edit to the stored record and optionally replaces its photo. It backs
// the admin basic-details update, the admin-only academics update and the student's own edit.
func (s *StudentService) EditStudent(ctx context.Context, userName string, edit func(*domain.Student), photo *PhotoUpload) (*domain.Student, error) {
	if err := s.photos.Check(photo); err != nil {
		return nil, err
	}
	student, err := s.GetStudent(ctx, userName)
	if err != nil {
		return nil, err
	}

	edit(student)
	student.UserName = userName
	oldKey, err := s.photos.Replace(ctx, domain.AccountKindStudent, userName, &student.ProfilePhotoKey, photo)
	if err != nil {
		return nil, err
	}
	if err := s.save(ctx, student); err != nil {
		if photo != nil {
			s.photos.Discard(ctx, student.ProfilePhotoKey)
		}
		return nil, err
	}
	photoReplaced(ctx, s.dispatcher, s.logger, domain.AccountKindStudent, userName, oldKey)
	return student, nil
}

// DeleteStudent removes the account; its photo is cleaned up through the account_deleted
// event.
func (s *StudentService) DeleteStudent(ctx context.Context, userName string) error {
	student, err := s.GetStudent(ctx, userName)
	if err != nil {
		return err
	}
	if err := s.students.Delete(ctx, userName); err != nil {
		return lookupErr(err, "Student", "userName", userName)
	}
	publish(ctx, s.dispatcher, s.logger, events.Event{
		Type:     events.EventAccountDeleted,
		Kind:     domain.AccountKindStudent,
		UserName: userName,
		Payload:  events.PhotoPayload{PhotoKey: student.ProfilePhotoKey},
	})
	return nil
}

// SearchByFirstName returns students whose first name contains fragment.
func (s *StudentService) SearchByFirstName(ctx context.Context, fragment string) ([]*domain.Student, error) {
	students, err := s.students.SearchByFirstName(ctx, fragment)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return students, nil
}

// SearchByLastName returns students whose last name contains fragment.
func (s *StudentService) SearchByLastName(ctx context.Context, fragment string) ([]*domain.Student, error) {
	students, err := s.students.SearchByLastName(ctx, fragment)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return students, nil
}

// UploadPhoto replaces the student's profile picture.
func (s *StudentService) UploadPhoto(ctx context.Context, userName string, photo *PhotoUpload) error {
	if photo == nil {
		return apperrors.NewBadRequest("profile picture is required")
	}
	_, err := s.EditStudent(ctx, userName, func(*domain.Student) {}, photo)
	return err
}

// DeletePhoto reverts the student to the default picture.
func (s *StudentService) DeletePhoto(ctx context.Context, userName string) error {
	student, err := s.GetStudent(ctx, userName)
	if err != nil {
		return err
	}
	oldKey := student.ProfilePhotoKey
	if oldKey == "" {
		return nil
	}
	student.ProfilePhotoKey = ""
	if err := s.save(ctx, student); err != nil {
		return err
	}
	photoReplaced(ctx, s.dispatcher, s.logger, domain.AccountKindStudent, userName, oldKey)
	return nil
}

// Photo returns the student's picture or the default one.
func (s *StudentService) Photo(ctx context.Context, userName string) (*PhotoUpload, error) {
	student, err := s.GetStudent(ctx, userName)
	if err != nil {
		return nil, err
	}
	p, err := s.photos.Load(ctx, student.ProfilePhotoKey)
	if err != nil {
		return nil, err
	}
	return &PhotoUpload{Data: p.Data, ContentType: p.ContentType}, nil
}

// ChangePassword verifies oldPassword before storing newPassword.
func (s *StudentService) ChangePassword(ctx context.Context, userName, oldPassword, newPassword string) error {
	student, err := s.GetStudent(ctx, userName)
	if err != nil {
		return err
	}
	if err := auth.ComparePassword(student.Password, oldPassword); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return apperrors.NewBadCredentials("Old password is incorrect.")
		}
		return apperrors.NewInternalError(err)
	}
	if student.Password, err = auth.HashPassword(newPassword, s.bcryptCost); err != nil {
		return apperrors.NewInternalError(err)
	}
	return s.save(ctx, student)
}

func (s *StudentService) save(ctx context.Context, student *domain.Student) error {
	student.ModifiedDate = s.now()
	if err := s.students.Update(ctx, student); err != nil {
		return writeErr(err, "Student", "userName", student.UserName)
	}
	return nil
}
