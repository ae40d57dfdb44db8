package handler

import (
	"context"
	"errors"
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/Neutx/snap-and-win/internal/uploader"
)

// UploadGateway defines the image-host operations used by the handler.
type UploadGateway interface {
	SignUploadRequest(paramsToSign map[string]string) uploader.SignedRequest
	StartUpload(ctx context.Context, filename string, size int64, content io.Reader) (string, error)
	EnsurePreset(ctx context.Context) error
}

// UploadHandler handles upload signing, the server-side upload path, the
// asynchronous upload callback, and preset provisioning.
type UploadHandler struct {
	gateway UploadGateway
}

// NewUploadHandler creates a new UploadHandler with the given gateway.
func NewUploadHandler(gw UploadGateway) *UploadHandler {
	return &UploadHandler{gateway: gw}
}

type signRequest struct {
	ParamsToSign map[string]string `json:"paramsToSign"`
}

// Sign handles POST /api/uploads/sign requests. It returns a time-boxed
// signature so the client can upload directly to the image host without
// ever seeing the API secret.
func (h *UploadHandler) Sign(c *fiber.Ctx) error {
	var req signRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	return c.JSON(h.gateway.SignUploadRequest(req.ParamsToSign))
}

// Upload handles POST /api/uploads multipart requests: the server-side
// upload path for clients that cannot use the hosted widget.
func (h *UploadHandler) Upload(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request: file is required"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request: unreadable file"})
	}
	defer file.Close()

	url, err := h.gateway.StartUpload(c.Context(), fileHeader.Filename, fileHeader.Size, file)
	if err != nil {
		if errors.Is(err, uploader.ErrFileTooLarge) {
			return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{"error": "file exceeds maximum size"})
		}
		if errors.Is(err, uploader.ErrUnsupportedFormat) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unsupported image format"})
		}
		log.Error().Err(err).Str("filename", fileHeader.Filename).Msg("image upload failed")
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "upload failed, please try again"})
	}

	return c.JSON(fiber.Map{"success": true, "url": url})
}

// Callback handles POST /api/uploads/callback notifications from the
// image host. The payload is audit-logged; a malformed body is logged
// and acknowledged anyway so the host never retries.
func (h *UploadHandler) Callback(c *fiber.Ctx) error {
	var payload map[string]any
	if err := c.BodyParser(&payload); err != nil {
		log.Warn().
			Err(err).
			Str("request_id", c.GetRespHeader("X-Request-ID")).
			Msg("malformed upload callback payload")
		return c.JSON(fiber.Map{"success": true})
	}

	log.Info().
		Str("request_id", c.GetRespHeader("X-Request-ID")).
		Interface("payload", payload).
		Msg("upload callback received")

	return c.JSON(fiber.Map{"success": true})
}

// Preset handles POST /api/uploads/preset requests to provision the
// unsigned upload preset on the image host.
func (h *UploadHandler) Preset(c *fiber.Ctx) error {
	if err := h.gateway.EnsurePreset(c.Context()); err != nil {
		log.Error().Err(err).Msg("failed to provision upload preset")
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "failed to configure upload preset"})
	}
	return c.JSON(fiber.Map{"success": true, "message": "upload preset created successfully"})
}
