package handler

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/Neutx/snap-and-win/internal/auth"
	"github.com/Neutx/snap-and-win/internal/model"
)

// Authenticator defines the login operation used by the handler.
type Authenticator interface {
	Login(email, password string) (string, time.Time, error)
}

// defaultRedirect is where a login without a saved path lands.
const defaultRedirect = "/admin/dashboard"

// AuthHandler handles staff login requests.
type AuthHandler struct {
	auth      Authenticator
	validator *validator.Validate
}

// NewAuthHandler creates a new AuthHandler with the given authenticator and validator.
func NewAuthHandler(a Authenticator, v *validator.Validate) *AuthHandler {
	return &AuthHandler{auth: a, validator: v}
}

// Login handles POST /api/auth/login requests.
// Invalid credentials are rejected uniformly; the response never reveals
// which field was wrong.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req model.LoginRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request: email and password are required"})
	}

	token, expiresAt, err := h.auth.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid email or password"})
		}
		log.Error().Err(err).Msg("login failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	redirectTo := req.RedirectTo
	if redirectTo == "" {
		redirectTo = defaultRedirect
	}

	log.Info().Str("email", req.Email).Msg("staff login")

	return c.JSON(model.LoginResponse{
		Token:      token,
		ExpiresAt:  expiresAt.UTC().Format(time.RFC3339),
		RedirectTo: redirectTo,
	})
}
