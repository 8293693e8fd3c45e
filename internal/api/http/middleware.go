package http

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/synchrony/student-management/internal/observability"
	apperrors "github.com/synchrony/student-management/pkg/util"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

// RegisterMiddlewares attaches global middlewares. Order matters: the request logger wraps
// the error translator so it observes the rendered status.
func RegisterMiddlewares(app *fiber.App, logger *zap.Logger, metrics *observability.Metrics, timeout time.Duration) {
	app.Use(requestIDMiddleware())
	if timeout > 0 {
		app.Use(requestTimeoutMiddleware(timeout))
	}
	app.Use(observability.RequestLogger(logger, metrics))
	app.Use(errorHandlingMiddleware(logger, metrics))
}

func requestIDMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Locals(observability.RequestIDKey, id)
		c.Set(RequestIDHeader, id)
		return c.Next()
	}
}

func requestTimeoutMiddleware(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

func errorHandlingMiddleware(logger *zap.Logger, metrics *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
				err = apperrors.NewInternalError(nil)
			}
			if err != nil {
				err = renderError(c, err, logger, metrics)
			}
		}()
		return c.Next()
	}
}

// ErrorHandler is installed as fiber's ErrorHandler for errors raised outside the
// middleware chain, such as unmatched routes.
func ErrorHandler(logger *zap.Logger, metrics *observability.Metrics) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		return renderError(c, err, logger, metrics)
	}
}

func renderError(c *fiber.Ctx, err error, logger *zap.Logger, metrics *observability.Metrics) error {
	domainErr := apperrors.ToDomainError(err)
	metrics.RecordError(c.Route().Path, c.Method(), domainErr.Code)
	if domainErr.HTTPStatus >= fiber.StatusInternalServerError {
		logger.Error("request failed", zap.String("path", c.Path()), zap.Error(domainErr))
	}

	c.Status(domainErr.HTTPStatus)
	if domainErr.Code == apperrors.CodeValidationFailed && len(domainErr.Fields) > 0 {
		return c.JSON(domainErr.Fields)
	}

	message := domainErr.Message
	if domainErr.HTTPStatus >= fiber.StatusInternalServerError {
		message = "An unexpected error occurred"
	}
	return c.JSON(fiber.Map{
		"timestamp":   time.Now(),
		"message":     message,
		"description": "uri=" + c.Path(),
		"errorCode":   domainErr.Code,
	})
}
