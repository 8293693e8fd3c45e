package service

import (
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/synchrony/student-management/internal/auth"
	"github.com/synchrony/student-management/internal/config"
	"github.com/synchrony/student-management/internal/events"
	"github.com/synchrony/student-management/internal/idgen"
	"github.com/synchrony/student-management/internal/observability"
	"github.com/synchrony/student-management/internal/repository/mocks"
	"github.com/synchrony/student-management/internal/storage"
	"github.com/synchrony/student-management/internal/storage/memory"
	apperrors "github.com/synchrony/student-management/pkg/util"
)

var fixedNow = time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

type fixture struct {
	admins   *mocks.MockAdminRepository
	students *mocks.MockStudentRepository
	store    *memory.PhotoStore
	photos   *PhotoService
	metrics  *observability.Metrics
	tokens   *auth.TokenManager

	adminSvc   *AdminService
	studentSvc *StudentService
	authSvc    *AuthService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	logger := zap.NewNop()

	f := &fixture{
		admins:   mocks.NewMockAdminRepository(ctrl),
		students: mocks.NewMockStudentRepository(ctrl),
		store:    memory.New(),
		metrics:  observability.NewMetrics(),
	}
	f.photos = NewPhotoService(f.store, config.PhotoConfig{
		MaxSizeBytes:        16,
		AllowedContentTypes: []string{"image/png", "image/jpeg"},
	}, logger)

	dispatcher := events.NewInMemoryDispatcher()
	NewPhotoCleanupService(dispatcher, f.photos, logger).RegisterHandlers()

	deps := AccountDependencies{
		AdminRepo:   f.admins,
		StudentRepo: f.students,
		IDs:         idgen.NewInMemory(idgen.WithClock(func() time.Time { return fixedNow })),
		Photos:      f.photos,
		Dispatcher:  dispatcher,
		BcryptCost:  4,
		Logger:      logger,
	}
	f.adminSvc = NewAdminService(deps)
	f.adminSvc.now = func() time.Time { return fixedNow }
	f.studentSvc = NewStudentService(deps)
	f.studentSvc.now = func() time.Time { return fixedNow }

	f.tokens = auth.NewTokenManager(config.AuthConfig{
		JWTSecret:              "service-test-secret",
		TokenValidityMinutes:   20,
		RefreshValidityMinutes: 1440,
		CookieName:             "synchrony-jwt",
		RefreshCookieName:      "synchrony-jwt-refresh",
		CookiePath:             "/synchrony",
		CookieSecure:           true,
	})
	resolver := auth.NewResolver(f.admins, f.students, logger)
	f.authSvc = NewAuthService(resolver, f.tokens, logger, f.metrics)
	return f
}

func hashed(t *testing.T, password string) string {
	t.Helper()
	h, err := auth.HashPassword(password, 4)
	require.NoError(t, err)
	return h
}

func requireCode(t *testing.T, err error, code string, status int) {
	t.Helper()
	require.Error(t, err)
	de := apperrors.ToDomainError(err)
	require.Equal(t, code, de.Code, de.Message)
	require.Equal(t, status, de.HTTPStatus)
}

var pngPhoto = &PhotoUpload{Data: []byte("\x89PNG-small"), ContentType: "image/png"}

func photoOf(u *PhotoUpload) *storage.Photo {
	return &storage.Photo{Data: u.Data, ContentType: u.ContentType}
}
