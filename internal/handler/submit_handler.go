package handler

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/Neutx/snap-and-win/internal/model"
	"github.com/Neutx/snap-and-win/internal/service"
)

// IngestServiceInterface defines the interface for submission ingest logic.
type IngestServiceInterface interface {
	Submit(ctx context.Context, req *model.SubmitRequest) (*model.SubmitResponse, error)
}

// SubmitHandler handles HTTP requests for submission intake.
type SubmitHandler struct {
	service   IngestServiceInterface
	validator *validator.Validate
}

// NewSubmitHandler creates a new SubmitHandler with the given service and validator.
func NewSubmitHandler(svc IngestServiceInterface, v *validator.Validate) *SubmitHandler {
	return &SubmitHandler{service: svc, validator: v}
}

// formatSubmitValidationError converts validator errors to field-scoped messages.
func formatSubmitValidationError(err error) string {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			field := fe.Field()
			tag := fe.Tag()

			switch field {
			case "FullName":
				if tag == "min" {
					return "invalid request: fullName must be at least 2 characters"
				}
				return "invalid request: fullName is required"
			case "PhoneNumber":
				if tag == "min" {
					return "invalid request: phoneNumber must be at least 10 characters"
				}
				return "invalid request: phoneNumber is required"
			case "InstagramHandle":
				if tag == "ighandle" {
					return "invalid request: instagramHandle must start with @ or be an https:// URL"
				}
				return "invalid request: instagramHandle is required"
			case "Screenshot":
				return "invalid request: screenshot is required"
			case "AcceptTerms":
				return "invalid request: you must accept the terms and conditions"
			default:
				if tag == "required" {
					return "invalid request: " + field + " is required"
				}
				return "invalid request: " + field + " is invalid"
			}
		}
	}
	return "invalid request"
}

// Submit handles POST /api/submit requests.
// Validation failures are the submitter's to fix and come back as 400;
// once validation passes the response is always a success envelope (see
// the ingest service for the masked-failure policy).
func (h *SubmitHandler) Submit(c *fiber.Ctx) error {
	var req model.SubmitRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatSubmitValidationError(err)})
	}

	resp, err := h.service.Submit(c.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRequest) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
		}
		log.Error().Err(err).Msg("failed to process submission")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	log.Info().
		Str("request_id", c.GetRespHeader("X-Request-ID")).
		Str("submission_id", resp.SubmissionID).
		Str("instagram_handle", req.InstagramHandle).
		Msg("submission received")

	return c.JSON(resp)
}
