package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Pinger is a dependency whose reachability gates readiness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependency names a readiness check.
type Dependency struct {
	Name   string
	Pinger Pinger
}

// HealthHandler responds to liveness and readiness probes.
type HealthHandler struct {
	serviceName  string
	version      string
	dependencies []Dependency
}

// NewHealthHandler returns a new handler instance.
func NewHealthHandler(serviceName, version string, deps ...Dependency) *HealthHandler {
	return &HealthHandler{serviceName: serviceName, version: version, dependencies: deps}
}

// Live reports service liveness.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "alive",
		"service": h.serviceName,
		"version": h.version,
	})
}

// Ready reports service readiness by checking dependencies.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	depStatus := fiber.Map{}
	ready := true
	for _, dep := range h.dependencies {
		if err := dep.Pinger.Ping(ctx); err != nil {
			depStatus[dep.Name] = err.Error()
			ready = false
			continue
		}
		depStatus[dep.Name] = "ok"
	}

	if ready {
		return c.JSON(fiber.Map{
			"status":       "ready",
			"dependencies": depStatus,
		})
	}

	return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
		"timestamp":    time.Now(),
		"message":      "one or more dependencies unavailable",
		"errorCode":    "DEPENDENCY_UNAVAILABLE",
		"dependencies": depStatus,
	})
}
