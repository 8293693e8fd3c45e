package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/synchrony/student-management/internal/config"
	"github.com/synchrony/student-management/internal/domain"
	"github.com/synchrony/student-management/internal/storage"
	apperrors "github.com/synchrony/student-management/pkg/util"
)

// PhotoUpload is an image received from a client.
type PhotoUpload struct {
	Data        []byte
	ContentType string
}

// PhotoService validates and stores profile pictures.
type PhotoService struct {
	store   storage.PhotoStore
	maxSize int64
	allowed []string
	logger  *zap.Logger
}

// NewPhotoService builds the service on top of store.
func NewPhotoService(store storage.PhotoStore, cfg config.PhotoConfig, logger *zap.Logger) *PhotoService {
	return &PhotoService{
		store:   store,
		maxSize: cfg.MaxSizeBytes,
		allowed: cfg.AllowedContentTypes,
		logger:  logger,
	}
}

// Check rejects uploads that are empty, too large or of an unaccepted type. A nil upload is
// valid and means "no new photo".
func (s *PhotoService) Check(upload *PhotoUpload) error {
	if upload == nil {
		return nil
	}
	if len(upload.Data) == 0 {
		return apperrors.NewBadRequest("profile picture is empty")
	}
	if s.maxSize > 0 && int64(len(upload.Data)) > s.maxSize {
		return apperrors.NewBadRequest(fmt.Sprintf("profile picture exceeds %d bytes", s.maxSize))
	}
	if !storage.IsAllowedContentType(s.allowed, upload.ContentType) {
		return apperrors.NewUnsupportedMedia(fmt.Sprintf("unsupported profile picture type %q", upload.ContentType))
	}
	return nil
}

// Store saves upload under a fresh key for the account and returns the key.
func (s *PhotoService) Store(ctx context.Context, kind domain.AccountKind, userName string, upload *PhotoUpload) (string, error) {
	if err := s.Check(upload); err != nil {
		return "", err
	}
	key := storage.NewKey(kind, userName, upload.ContentType)
	if err := s.store.Put(ctx, key, storage.Photo{Data: upload.Data, ContentType: upload.ContentType}); err != nil {
		return "", apperrors.NewInternalError(err)
	}
	return key, nil
}

// Load returns the stored photo, falling back to the default picture when the account has
// none or the object disappeared.
func (s *PhotoService) Load(ctx context.Context, key string) (*storage.Photo, error) {
	if key == "" {
		return storage.DefaultPicture(), nil
	}
	photo, err := s.store.Get(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		s.logger.Warn("profile picture missing, serving default", zap.String("key", key))
		return storage.DefaultPicture(), nil
	}
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return photo, nil
}

// Remove deletes a stored photo. An empty key is a no-op.
func (s *PhotoService) Remove(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	return s.store.Delete(ctx, key)
}

// Replace stores upload for the account and points *key at it, returning the key it
// replaced. A nil upload leaves *key untouched.
func (s *PhotoService) Replace(ctx context.Context, kind domain.AccountKind, userName string, key *string, upload *PhotoUpload) (string, error) {
	if upload == nil {
		return "", nil
	}
	newKey, err := s.Store(ctx, kind, userName, upload)
	if err != nil {
		return "", err
	}
	old := *key
	*key = newKey
	return old, nil
}

// Discard removes a photo that never became referenced, logging failures.
func (s *PhotoService) Discard(ctx context.Context, key string) {
	if err := s.Remove(ctx, key); err != nil {
		s.logger.Warn("discard orphan photo", zap.String("key", key), zap.Error(err))
	}
}
