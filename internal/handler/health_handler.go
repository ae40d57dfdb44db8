package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// Pinger is an interface for health check ping operations.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles health check requests.
type HealthHandler struct {
	store Pinger
}

// NewHealthHandler creates a new HealthHandler with the given row store.
func NewHealthHandler(store Pinger) *HealthHandler {
	return &HealthHandler{store: store}
}

// Check performs a health check by pinging the row store.
// Returns 200 OK with {"status": "healthy"} when the store is reachable.
// Returns 503 Service Unavailable when it is not.
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	if err := h.store.Ping(c.Context()); err != nil {
		log.Error().Err(err).Msg("health check failed: row store unreachable")
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "unhealthy",
			"error":  "row store connection failed",
		})
	}
	return c.JSON(fiber.Map{
		"status": "healthy",
	})
}
