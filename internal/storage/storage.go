// Package storage defines where profile pictures live. The minio subpackage talks to an
// S3 compatible bucket, the memory subpackage keeps objects in process for development and
// tests.
package storage

import (
	"context"
	_ "embed"
	"errors"
	"path"

	"github.com/google/uuid"

	"github.com/synchrony/student-management/internal/domain"
)

var (
	ErrNotFound        = errors.New("photo not found")
	ErrInvalidArgument = errors.New("invalid photo")
)

// DefaultContentType is the content type of the built-in profile picture.
const DefaultContentType = "image/png"

//go:embed default_profile.png
var defaultPicture []byte

// Photo is a stored image.
type Photo struct {
	Data        []byte
	ContentType string
}

// PhotoStore persists profile pictures under opaque keys.
type PhotoStore interface {
	Put(ctx context.Context, key string, photo Photo) error
	Get(ctx context.Context, key string) (*Photo, error)
	Delete(ctx context.Context, key string) error
}

// DefaultPicture returns a copy of the picture served when an account has no photo.
func DefaultPicture() *Photo {
	data := make([]byte, len(defaultPicture))
	copy(data, defaultPicture)
	return &Photo{Data: data, ContentType: DefaultContentType}
}

// NewKey builds "profile-photos/<kind>/<userName>/<uuid>.<ext>".
func NewKey(kind domain.AccountKind, userName, contentType string) string {
	return path.Join("profile-photos", string(kind), userName, uuid.NewString()+Extension(contentType))
}

// Extension maps an accepted image content type to its file extension.
func Extension(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	}
	return ""
}

// IsAllowedContentType reports whether contentType is in the allow-list.
func IsAllowedContentType(allow []string, contentType string) bool {
	for _, a := range allow {
		if a == contentType {
			return true
		}
	}
	return false
}
