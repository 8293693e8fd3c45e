package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/synchrony/student-management/internal/api/http/handlers"
	"github.com/synchrony/student-management/internal/auth"
	"github.com/synchrony/student-management/internal/config"
	"github.com/synchrony/student-management/internal/events"
	"github.com/synchrony/student-management/internal/idgen"
	"github.com/synchrony/student-management/internal/observability"
	"github.com/synchrony/student-management/internal/service"
	"github.com/synchrony/student-management/internal/storage"
	"github.com/synchrony/student-management/internal/storage/memory"
)

const (
	basePath        = "/synchrony"
	adminPassword   = "Admin@12345"
	studentPassword = "Student@123"
)

var customPNG = []byte("\x89PNG\r\n\x1a\nstudent-photo")

// clock is a settable time source shared by the token manager of one test server.
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type testServer struct {
	app     *fiber.App
	clock   *clock
	tokens  *auth.TokenManager
	store   *memory.PhotoStore
	seeded  *service.SeedResult
	metrics *observability.Metrics
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	admins, students := newMemAdmins(), newMemStudents()
	store := memory.New()

	photos := service.NewPhotoService(store, config.PhotoConfig{
		MaxSizeBytes:        1024,
		AllowedContentTypes: []string{"image/png", "image/jpeg"},
	}, logger)
	dispatcher := events.NewInMemoryDispatcher()
	service.NewPhotoCleanupService(dispatcher, photos, logger).RegisterHandlers()

	deps := service.AccountDependencies{
		AdminRepo:   admins,
		StudentRepo: students,
		IDs:         idgen.NewInMemory(),
		Photos:      photos,
		Dispatcher:  dispatcher,
		BcryptCost:  4,
		Logger:      logger,
	}
	adminSvc := service.NewAdminService(deps)
	studentSvc := service.NewStudentService(deps)

	seeded, err := service.NewSeeder(adminSvc, studentSvc, config.SeedConfig{
		Enabled:         true,
		AdminPassword:   adminPassword,
		StudentPassword: studentPassword,
	}, logger).Seed(context.Background())
	require.NoError(t, err)
	require.NotNil(t, seeded)

	clk := &clock{now: time.Now()}
	tokens := auth.NewTokenManager(config.AuthConfig{
		JWTSecret:              "router-test-secret",
		TokenValidityMinutes:   20,
		RefreshValidityMinutes: 1440,
		CookieName:             "synchrony-jwt",
		RefreshCookieName:      "synchrony-jwt-refresh",
		CookiePath:             basePath,
		CookieSecure:           true,
	}, auth.WithClock(clk.Now))
	resolver := auth.NewResolver(admins, students, logger)
	urls := handlers.PhotoURLs{BasePath: basePath}

	app := NewServer(ServerConfig{AppName: "router-test", BodyLimit: 4 << 20, RequestTimeout: 5 * time.Second}, RouteConfig{
		BasePath:      basePath,
		Health:        handlers.NewHealthHandler("student-management", "test"),
		Auth:          handlers.NewAuthHandler(service.NewAuthService(resolver, tokens, logger, metrics)),
		Admin:         handlers.NewAdminHandler(adminSvc, studentSvc, urls),
		Student:       handlers.NewStudentHandler(studentSvc, urls),
		Authenticator: auth.NewAuthenticator(tokens, resolver, logger, metrics),
		Metrics:       metrics,
	}, logger)

	return &testServer{app: app, clock: clk, tokens: tokens, store: store, seeded: seeded, metrics: metrics}
}

func (s *testServer) do(t *testing.T, req *http.Request, cookies ...*http.Cookie) *http.Response {
	t.Helper()
	for _, c := range cookies {
		req.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func jsonRequest(method, path string, body any) *http.Request {
	var r io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, basePath+path, r)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return req
}

func multipartRequest(t *testing.T, method, path string, data any, file []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if data != nil {
		b, err := json.Marshal(data)
		require.NoError(t, err)
		require.NoError(t, w.WriteField("data", string(b)))
	}
	if file != nil {
		part, err := w.CreateFormFile("file", "photo.png")
		require.NoError(t, err)
		_, err = part.Write(file)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(method, basePath+path, &buf)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	return req
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func cookieNamed(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// login returns the access and refresh cookies issued for the account.
func (s *testServer) login(t *testing.T, username, password string) (*http.Cookie, *http.Cookie) {
	t.Helper()
	resp := s.do(t, jsonRequest(http.MethodPost, "/auth/login", map[string]string{
		"username": username,
		"password": password,
	}))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	access := cookieNamed(resp, s.tokens.AccessCookieName())
	refresh := cookieNamed(resp, s.tokens.RefreshCookieName())
	require.NotNil(t, access)
	require.NotNil(t, refresh)
	return access, refresh
}

func studentPayload() map[string]any {
	return map[string]any{
		"firstName":     "Jane",
		"lastName":      "Doe",
		"age":           15,
		"dateOfBirth":   "2009-03-04",
		"contactNumber": "9876543210",
		"bloodGroup":    "O+",
		"email":         "jane@example.com",
		"password":      "Secret@123",
	}
}

func TestLogin_IssuesCookiesAndBody(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(t, jsonRequest(http.MethodPost, "/auth/login", map[string]string{
		"username": s.seeded.AdminUserName,
		"password": adminPassword,
	}))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	access := cookieNamed(resp, "synchrony-jwt")
	require.NotNil(t, access)
	require.True(t, access.HttpOnly)
	require.True(t, access.Secure)
	require.Equal(t, basePath, access.Path)
	require.Equal(t, 20*60, access.MaxAge)

	refresh := cookieNamed(resp, "synchrony-jwt-refresh")
	require.NotNil(t, refresh)
	require.Equal(t, 1440*60, refresh.MaxAge)

	body := decode[map[string]any](t, resp)
	require.Equal(t, access.Value, body["token"])
	require.Equal(t, s.seeded.AdminUserName, body["username"])
	require.Equal(t, []any{"ROLE_ADMIN"}, body["authorities"])
}

func TestLogin_BadCredentials(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(t, jsonRequest(http.MethodPost, "/auth/login", map[string]string{
		"username": s.seeded.AdminUserName,
		"password": "nope",
	}))
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body := decode[map[string]any](t, resp)
	require.Equal(t, "BAD_CREDENTIALS", body["errorCode"])
	require.Equal(t, "Invalid username or password", body["message"])
	require.Nil(t, cookieNamed(resp, "synchrony-jwt"))
}

func TestAdminRoutes_RequireAuthentication(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(t, jsonRequest(http.MethodGet, "/admin/students", nil))
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	body := decode[map[string]any](t, resp)
	require.Equal(t, "Unauthorized", body["error"])
	require.Equal(t, "Full authentication is required to access this resource", body["message"])
	require.Equal(t, basePath+"/admin/students", body["path"])
}

func TestAdminRoutes_ForbiddenForStudents(t *testing.T) {
	s := newTestServer(t)
	access, _ := s.login(t, s.seeded.StudentUserName, studentPassword)

	resp := s.do(t, jsonRequest(http.MethodGet, "/admin/students", nil), access)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	require.Equal(t, "FORBIDDEN", decode[map[string]any](t, resp)["errorCode"])
}

func TestStudentRoutes_SelfOrAdmin(t *testing.T) {
	s := newTestServer(t)
	adminAccess, _ := s.login(t, s.seeded.AdminUserName, adminPassword)

	resp := s.do(t, jsonRequest(http.MethodPost, "/admin/students", studentPayload()), adminAccess)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	other := decode[map[string]any](t, resp)["userName"].(string)

	studentAccess, _ := s.login(t, s.seeded.StudentUserName, studentPassword)

	resp = s.do(t, jsonRequest(http.MethodGet, "/student/"+s.seeded.StudentUserName, nil), studentAccess)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, s.seeded.StudentUserName, decode[map[string]any](t, resp)["userName"])

	resp = s.do(t, jsonRequest(http.MethodGet, "/student/"+other, nil), studentAccess)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = s.do(t, jsonRequest(http.MethodGet, "/student/"+other, nil), adminAccess)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestExpiredAccessToken_RotatesSilently(t *testing.T) {
	s := newTestServer(t)
	access, refresh := s.login(t, s.seeded.StudentUserName, studentPassword)

	s.clock.Advance(21 * time.Minute)

	resp := s.do(t, jsonRequest(http.MethodGet, "/student/"+s.seeded.StudentUserName, nil), access, refresh)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	rotated := cookieNamed(resp, "synchrony-jwt")
	require.NotNil(t, rotated)
	require.NotEqual(t, access.Value, rotated.Value)
	require.NotNil(t, cookieNamed(resp, "synchrony-jwt-refresh"))

	// The refresh endpoint hands back the pair minted by the filter for the same request.
	resp = s.do(t, jsonRequest(http.MethodPost, "/auth/refresh-token", nil), access, refresh)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	issued := cookieNamed(resp, "synchrony-jwt")
	require.NotNil(t, issued)
	require.Equal(t, issued.Value, decode[map[string]any](t, resp)["token"])

	s.clock.Advance(24 * time.Hour)
	resp = s.do(t, jsonRequest(http.MethodGet, "/student/"+s.seeded.StudentUserName, nil), access, refresh)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Nil(t, cookieNamed(resp, "synchrony-jwt"))
}

func TestRefreshToken_WithoutCookie(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(t, jsonRequest(http.MethodPost, "/auth/refresh-token", nil))
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body := decode[map[string]any](t, resp)
	require.Equal(t, "UNAUTHORIZED", body["errorCode"])
	require.Equal(t, "uri="+basePath+"/auth/refresh-token", body["description"])
}

func TestLogout(t *testing.T) {
	s := newTestServer(t)
	access, refresh := s.login(t, s.seeded.AdminUserName, adminPassword)

	resp := s.do(t, jsonRequest(http.MethodPost, "/auth/logout", nil), access, refresh)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[map[string]any](t, resp)
	require.Equal(t, "User logged out successfully.", body["message"])
	require.Equal(t, true, body["status"])
	cleared := cookieNamed(resp, "synchrony-jwt")
	require.NotNil(t, cleared)
	require.Empty(t, cleared.Value)
	require.NotNil(t, cookieNamed(resp, "synchrony-jwt-refresh"))

	resp = s.do(t, jsonRequest(http.MethodPost, "/auth/logout", nil))
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body = decode[map[string]any](t, resp)
	require.Equal(t, "Invalid token or User.", body["message"])
	require.Equal(t, false, body["status"])
	require.NotNil(t, cookieNamed(resp, "synchrony-jwt"))
}

func TestValidationFailure_ReturnsFieldMap(t *testing.T) {
	s := newTestServer(t)
	access, _ := s.login(t, s.seeded.AdminUserName, adminPassword)

	payload := studentPayload()
	delete(payload, "firstName")
	payload["email"] = "not-an-email"

	resp := s.do(t, jsonRequest(http.MethodPost, "/admin/students", payload), access)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	fields := decode[map[string]string](t, resp)
	require.Equal(t, "firstName is required", fields["firstName"])
	require.Equal(t, "email must be a valid email address", fields["email"])
}

func TestNotFound_ErrorBody(t *testing.T) {
	s := newTestServer(t)
	access, _ := s.login(t, s.seeded.AdminUserName, adminPassword)

	resp := s.do(t, jsonRequest(http.MethodGet, "/admin/students/199001010099", nil), access)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	body := decode[map[string]any](t, resp)
	require.Equal(t, "RESOURCE_NOT_FOUND", body["errorCode"])
	require.Equal(t, "uri="+basePath+"/admin/students/199001010099", body["description"])
	require.Contains(t, body["message"], "199001010099")
	require.NotEmpty(t, body["timestamp"])
}

func TestStudentPhoto_Lifecycle(t *testing.T) {
	s := newTestServer(t)
	access, _ := s.login(t, s.seeded.AdminUserName, adminPassword)

	resp := s.do(t, multipartRequest(t, http.MethodPost, "/admin/students", studentPayload(), customPNG), access)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[map[string]any](t, resp)
	userName := created["userName"].(string)
	require.Equal(t, basePath+"/student/"+userName+"/profile-picture", created["profilePhotoUrl"])
	require.Equal(t, 1, s.store.Len())

	resp = s.do(t, jsonRequest(http.MethodGet, "/student/"+userName+"/profile-picture", nil), access)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "image/png", resp.Header.Get(fiber.HeaderContentType))
	got, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, customPNG, got)

	resp = s.do(t, jsonRequest(http.MethodDelete, "/student/"+userName+"/profile-picture", nil), access)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	require.Equal(t, 0, s.store.Len())

	resp = s.do(t, jsonRequest(http.MethodGet, "/student/"+userName+"/profile-picture", nil), access)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got, err = io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, storage.DefaultPicture().Data, got)
}

func TestStudentPhoto_RejectsUnsupportedType(t *testing.T) {
	s := newTestServer(t)
	access, _ := s.login(t, s.seeded.StudentUserName, studentPassword)

	req := multipartRequest(t, http.MethodPost, "/student/"+s.seeded.StudentUserName+"/profile-picture", nil, []byte("plain text, not an image"))
	resp := s.do(t, req, access)
	require.Equal(t, http.StatusUnsupportedMediaType, resp.StatusCode)
	require.Equal(t, "UNSUPPORTED_MEDIA_TYPE", decode[map[string]any](t, resp)["errorCode"])
	require.Equal(t, 0, s.store.Len())
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)

	resp := s.do(t, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, resp.Header.Get(RequestIDHeader))

	resp = s.do(t, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	s.login(t, s.seeded.AdminUserName, adminPassword)
	resp = s.do(t, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(body), "student_management_logins_total"))
}

func TestUnknownRoute_UsesErrorBody(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(t, httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Equal(t, "RESOURCE_NOT_FOUND", decode[map[string]any](t, resp)["errorCode"])
}

func TestChangePassword_OldPasswordFromQuery(t *testing.T) {
	s := newTestServer(t)
	access, _ := s.login(t, s.seeded.StudentUserName, studentPassword)
	path := "/student/" + s.seeded.StudentUserName + "/password"

	resp := s.do(t, jsonRequest(http.MethodPut, path+"?oldPassword=wrong", map[string]string{"password": "Changed@456"}), access)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, "BAD_CREDENTIALS", decode[map[string]any](t, resp)["errorCode"])

	resp = s.do(t, jsonRequest(http.MethodPut, path+"?oldPassword="+studentPassword, map[string]string{"password": "Changed@456"}), access)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "Password changed successfully", decode[map[string]any](t, resp)["message"])

	s.login(t, s.seeded.StudentUserName, "Changed@456")
}

func TestMalformedJSON_IsBadRequest(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, basePath+"/auth/login", strings.NewReader("{"))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp := s.do(t, req)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "BAD_REQUEST", decode[map[string]any](t, resp)["errorCode"])
}
