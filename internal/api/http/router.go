package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"go.uber.org/zap"

	"github.com/synchrony/student-management/internal/api/http/handlers"
	"github.com/synchrony/student-management/internal/auth"
	"github.com/synchrony/student-management/internal/domain"
	"github.com/synchrony/student-management/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	BasePath      string
	Health        *handlers.HealthHandler
	Auth          *handlers.AuthHandler
	Admin         *handlers.AdminHandler
	Student       *handlers.StudentHandler
	Authenticator *auth.Authenticator
	Metrics       *observability.Metrics
}

// ServerConfig carries the fiber level settings.
type ServerConfig struct {
	AppName        string
	BodyLimit      int
	RequestTimeout time.Duration
}

// NewServer builds the fiber app with middlewares and routes installed.
func NewServer(cfg ServerConfig, routes RouteConfig, logger *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               cfg.AppName,
		BodyLimit:             cfg.BodyLimit,
		DisableStartupMessage: true,
		ErrorHandler:          ErrorHandler(logger, routes.Metrics),
	})
	RegisterMiddlewares(app, logger, routes.Metrics, cfg.RequestTimeout)
	RegisterRoutes(app, routes)
	return app
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}

	api := app.Group(cfg.BasePath, cfg.Authenticator.Handle)

	authGroup := api.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/refresh-token", cfg.Auth.RefreshToken)
	authGroup.Post("/logout", cfg.Auth.Logout)

	admin := api.Group("/admin", auth.RequireRole(domain.RoleAdmin))
	admin.Get("/students", cfg.Admin.ListStudents)
	admin.Post("/students", cfg.Admin.AddStudent)
	admin.Get("/students/search/first-name/:firstName", cfg.Admin.SearchByFirstName)
	admin.Get("/students/search/last-name/:lastName", cfg.Admin.SearchByLastName)
	admin.Get("/students/:userName", cfg.Admin.GetStudent)
	admin.Put("/students/:userName", cfg.Admin.UpdateStudent)
	admin.Put("/students/:userName/academics", cfg.Admin.UpdateStudentAcademics)
	admin.Delete("/students/:userName", cfg.Admin.DeleteStudent)
	admin.Post("/admins", cfg.Admin.CreateAdmin)
	admin.Get("/admins/:userName", cfg.Admin.GetAdmin)
	admin.Put("/admins/:userName", cfg.Admin.EditAdmin)
	admin.Delete("/admins/:userName", cfg.Admin.DeleteAdmin)
	admin.Get("/admins/:userName/profile-picture", cfg.Admin.GetAdminPhoto)
	admin.Post("/admins/:userName/profile-picture", cfg.Admin.UploadAdminPhoto)
	admin.Put("/admins/:userName/password", cfg.Admin.ChangeAdminPassword)

	self := auth.RequireSelfOrAdmin("userName")
	api.Get("/student/:userName", self, cfg.Student.ViewMyData)
	api.Put("/student/:userName", self, cfg.Student.EditDetails)
	api.Get("/student/:userName/profile-picture", self, cfg.Student.GetPhoto)
	api.Post("/student/:userName/profile-picture", self, cfg.Student.UploadPhoto)
	api.Delete("/student/:userName/profile-picture", self, cfg.Student.DeletePhoto)
	api.Put("/student/:userName/password", self, cfg.Student.ChangePassword)
}
