package handler

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/Neutx/snap-and-win/internal/auth"
	"github.com/Neutx/snap-and-win/internal/model"
	"github.com/Neutx/snap-and-win/internal/service"
)

// ReviewServiceInterface defines the interface for admin review logic.
type ReviewServiceInterface interface {
	List(ctx context.Context, filter model.ListFilter) ([]*model.Submission, model.Stats, error)
	Process(ctx context.Context, req *model.ProcessRequest) (*model.Submission, error)
}

// AdminHandler handles HTTP requests for the review dashboard.
type AdminHandler struct {
	service   ReviewServiceInterface
	validator *validator.Validate
}

// NewAdminHandler creates a new AdminHandler with the given service and validator.
func NewAdminHandler(svc ReviewServiceInterface, v *validator.Validate) *AdminHandler {
	return &AdminHandler{service: svc, validator: v}
}

// formatProcessValidationError converts validator errors to field-scoped messages.
func formatProcessValidationError(err error) string {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			field := fe.Field()
			tag := fe.Tag()

			switch field {
			case "SubmissionID":
				return "invalid request: submissionId is required"
			case "Action":
				if tag == "oneof" {
					return "invalid request: action must be approve or reject"
				}
				return "invalid request: action is required"
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

// List handles GET /api/admin/submissions requests.
// Query params: search (case-insensitive substring) and status
// (all|pending|approved|rejected).
func (h *AdminHandler) List(c *fiber.Ctx) error {
	filter := model.ListFilter{
		Search: c.Query("search"),
		Status: c.Query("status", "all"),
	}

	subs, stats, err := h.service.List(c.Context(), filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to list submissions")
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "failed to fetch submissions, please try again"})
	}

	return c.JSON(model.ListResponse{
		Success:     true,
		Submissions: subs,
		Stats:       stats,
	})
}

// Process handles POST /api/admin/submissions/process requests.
func (h *AdminHandler) Process(c *fiber.Ctx) error {
	var req model.ProcessRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatProcessValidationError(err)})
	}

	sub, err := h.service.Process(c.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrReasonRequired):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "rejection reason is required"})
		case errors.Is(err, service.ErrInvalidAction), errors.Is(err, service.ErrInvalidRequest):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
		case errors.Is(err, service.ErrSubmissionNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "submission not found"})
		case errors.Is(err, service.ErrAlreadyProcessed):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "submission already processed"})
		case errors.Is(err, service.ErrStoreUnavailable):
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "failed to update submission, please try again"})
		}
		log.Error().
			Err(err).
			Str("request_id", c.GetRespHeader("X-Request-ID")).
			Str("submission_id", req.SubmissionID).
			Str("action", req.Action).
			Msg("failed to process submission")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	log.Info().
		Str("request_id", c.GetRespHeader("X-Request-ID")).
		Str("submission_id", sub.ID).
		Str("status", string(sub.Status)).
		Str("reviewer", reviewerEmail(c)).
		Msg("submission reviewed")

	return c.JSON(fiber.Map{
		"success":    true,
		"submission": sub,
	})
}

func reviewerEmail(c *fiber.Ctx) string {
	if email, ok := c.Locals(auth.SessionEmailKey).(string); ok {
		return email
	}
	return ""
}
