package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Neutx/snap-and-win/internal/config"
)

// ConfigHandler serves the public campaign settings the front end needs:
// brand copy plus the cloud name and preset for the upload widget.
type ConfigHandler struct {
	brand      config.BrandConfig
	cloudinary config.CloudinaryConfig
}

// NewConfigHandler creates a new ConfigHandler from configuration.
func NewConfigHandler(brand config.BrandConfig, cloudinary config.CloudinaryConfig) *ConfigHandler {
	return &ConfigHandler{brand: brand, cloudinary: cloudinary}
}

// Get handles GET /api/config requests. Only public values are exposed;
// secrets never leave the config package.
func (h *ConfigHandler) Get(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"brandName":       h.brand.Name,
		"couponValue":     h.brand.CouponValue,
		"instagramHandle": h.brand.InstagramHandle,
		"cloudName":       h.cloudinary.CloudName,
		"uploadPreset":    h.cloudinary.UploadPreset,
		"uploadFolder":    h.cloudinary.Folder,
		"maxFileSize":     h.cloudinary.MaxFileSize,
		"allowedFormats":  h.cloudinary.AllowedFormatList(),
	})
}
