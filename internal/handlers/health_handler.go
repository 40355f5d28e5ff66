package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Pinger reports whether a backing store is reachable.
type Pinger func(ctx context.Context) error

// HealthHandler serves the liveness endpoint.
type HealthHandler struct {
	ping Pinger
}

// NewHealthHandler creates a new HealthHandler. A nil ping always reports healthy.
func NewHealthHandler(ping Pinger) *HealthHandler {
	return &HealthHandler{ping: ping}
}

// RegisterRoutes registers the health route with the Fiber router.
func (h *HealthHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/health", h.HandleHealth)
}

// HandleHealth reports service and store status.
func (h *HealthHandler) HandleHealth(c *fiber.Ctx) error {
	status, store := "healthy", "connected"
	code := fiber.StatusOK
	if h.ping != nil {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := h.ping(ctx); err != nil {
			status, store = "unhealthy", err.Error()
			code = fiber.StatusServiceUnavailable
		}
	}

	return c.Status(code).JSON(fiber.Map{
		"status": status,
		"store":  store,
		"time":   time.Now().Format(time.RFC3339),
	})
}
