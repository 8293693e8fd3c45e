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

// AdminService manages administrator accounts.
type AdminService struct {
	admins     repository.AdminRepository
	ids        *idgen.Generator
	photos     *PhotoService
	dispatcher events.Dispatcher
	bcryptCost int
	now        func() time.Time
	logger     *zap.Logger
}

// AccountDependencies bundles collaborators shared by the account services.
type AccountDependencies struct {
	AdminRepo   repository.AdminRepository
	StudentRepo repository.StudentRepository
	IDs         *idgen.Generator
	Photos      *PhotoService
	Dispatcher  events.Dispatcher
	BcryptCost  int
	Logger      *zap.Logger
}

// NewAdminService builds the service.
func NewAdminService(deps AccountDependencies) *AdminService {
	return &AdminService{
		admins:     deps.AdminRepo,
		ids:        deps.IDs,
		photos:     deps.Photos,
		dispatcher: deps.Dispatcher,
		bcryptCost: deps.BcryptCost,
		now:        time.Now,
		logger:     deps.Logger,
	}
}

// CreateAdmin assigns an identifier, hashes the password and stores the account together
// with its optional photo.
func (s *AdminService) CreateAdmin(ctx context.Context, admin *domain.Admin, password string, photo *PhotoUpload) (*domain.Admin, error) {
	if password == "" {
		return nil, requiredPassword()
	}
	if err := s.photos.Check(photo); err != nil {
		return nil, err
	}

	created := s.now()
	userName, err := s.ids.NewAdminID(ctx, created)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	admin.UserName = userName
	admin.Password = hash
	admin.CreatedDate = created
	admin.ModifiedDate = created
	if admin.Status == "" {
		admin.Status = domain.ProfileStatusActive
	}
	if photo != nil {
		if admin.ProfilePhotoKey, err = s.photos.Store(ctx, domain.AccountKindAdmin, userName, photo); err != nil {
			return nil, err
		}
	}

	if err := s.admins.Create(ctx, admin); err != nil {
		s.photos.Discard(ctx, admin.ProfilePhotoKey)
		return nil, writeErr(err, "Admin", "userName", userName)
	}
	publish(ctx, s.dispatcher, s.logger, events.Event{
		Type:     events.EventAccountCreated,
		Kind:     domain.AccountKindAdmin,
		UserName: userName,
	})
	return admin, nil
}

// GetAdmin loads an administrator.
func (s *AdminService) GetAdmin(ctx context.Context, userName string) (*domain.Admin, error) {
	admin, err := s.admins.GetByUserName(ctx, userName)
	if err != nil {
		return nil, lookupErr(err, "Admin", "username", userName)
	}
	return admin, nil
}

// EditAdmin applies edit to the stored account. A non-empty password replaces the current
// one; a non-nil photo replaces the current picture.
func (s *AdminService) EditAdmin(ctx context.Context, userName string, edit func(*domain.Admin), password string, photo *PhotoUpload) (*domain.Admin, error) {
	if err := s.photos.Check(photo); err != nil {
		return nil, err
	}
	admin, err := s.GetAdmin(ctx, userName)
	if err != nil {
		return nil, err
	}

	edit(admin)
	admin.UserName = userName
	if password != "" {
		if admin.Password, err = auth.HashPassword(password, s.bcryptCost); err != nil {
			return nil, apperrors.NewInternalError(err)
		}
	}
	oldKey, err := s.photos.Replace(ctx, domain.AccountKindAdmin, userName, &admin.ProfilePhotoKey, photo)
	if err != nil {
		return nil, err
	}
	if err := s.save(ctx, admin); err != nil {
		if photo != nil {
			s.photos.Discard(ctx, admin.ProfilePhotoKey)
		}
		return nil, err
	}
	photoReplaced(ctx, s.dispatcher, s.logger, domain.AccountKindAdmin, userName, oldKey)
	return admin, nil
}

// DeleteAdmin removes the account. Its photo is cleaned up through the account_deleted
// event.
func (s *AdminService) DeleteAdmin(ctx context.Context, userName string) error {
	admin, err := s.GetAdmin(ctx, userName)
	if err != nil {
		return err
	}
	if err := s.admins.Delete(ctx, userName); err != nil {
		return lookupErr(err, "Admin", "username", userName)
	}
	publish(ctx, s.dispatcher, s.logger, events.Event{
		Type:     events.EventAccountDeleted,
		Kind:     domain.AccountKindAdmin,
		UserName: userName,
		Payload:  events.PhotoPayload{PhotoKey: admin.ProfilePhotoKey},
	})
	return nil
}

// UploadPhoto replaces the administrator's profile picture.
func (s *AdminService) UploadPhoto(ctx context.Context, userName string, photo *PhotoUpload) (*domain.Admin, error) {
	if photo == nil {
		return nil, apperrors.NewBadRequest("profile picture is required")
	}
	return s.EditAdmin(ctx, userName, func(*domain.Admin) {}, "", photo)
}

// Photo returns the administrator's picture or the default one.
func (s *AdminService) Photo(ctx context.Context, userName string) (*PhotoUpload, error) {
	admin, err := s.GetAdmin(ctx, userName)
	if err != nil {
		return nil, err
	}
	p, err := s.photos.Load(ctx, admin.ProfilePhotoKey)
	if err != nil {
		return nil, err
	}
	return &PhotoUpload{Data: p.Data, ContentType: p.ContentType}, nil
}

// ChangePassword verifies oldPassword before storing newPassword.
func (s *AdminService) ChangePassword(ctx context.Context, userName, oldPassword, newPassword string) error {
	admin, err := s.GetAdmin(ctx, userName)
	if err != nil {
		return err
	}
	if err := auth.ComparePassword(admin.Password, oldPassword); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return apperrors.NewBadCredentials("Old password is incorrect.")
		}
		return apperrors.NewInternalError(err)
	}
	if admin.Password, err = auth.HashPassword(newPassword, s.bcryptCost); err != nil {
		return apperrors.NewInternalError(err)
	}
	return s.save(ctx, admin)
}

// Count reports how many administrators exist.
func (s *AdminService) Count(ctx context.Context) (int64, error) {
	return s.admins.Count(ctx)
}

func (s *AdminService) save(ctx context.Context, admin *domain.Admin) error {
	admin.ModifiedDate = s.now()
	if err := s.admins.Update(ctx, admin); err != nil {
		return writeErr(err, "Admin", "username", admin.UserName)
	}
	return nil
}
