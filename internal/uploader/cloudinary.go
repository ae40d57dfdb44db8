// Package uploader is the single image-host capability: produce a
// durable HTTPS URL for a proof image. Two upload paths exist (client
// direct with a server-issued signature, and server-side multipart) and
// both converge on that contract.
package uploader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"

	"github.com/Neutx/snap-and-win/internal/config"
)

var (
	// ErrFileTooLarge is returned when an upload exceeds the configured limit
	ErrFileTooLarge = errors.New("file exceeds maximum size")

	// ErrUnsupportedFormat is returned for extensions outside the allowed list
	ErrUnsupportedFormat = errors.New("unsupported image format")
)

// Uploader is the capability the rest of the system depends on.
type Uploader interface {
	StartUpload(ctx context.Context, filename string, size int64, content io.Reader) (string, error)
}

// SignedRequest authorizes one client-direct upload without exposing the
// long-lived API secret.
type SignedRequest struct {
	Signature string `json:"signature"`
	Timestamp int64  `json:"timestamp"`
	CloudName string `json:"cloudName"`
	APIKey    string `json:"apiKey"`
}

// Cloudinary implements Uploader against the Cloudinary REST API.
type Cloudinary struct {
	cfg  config.CloudinaryConfig
	http *resty.Client
	now  func() time.Time
}

// NewCloudinary creates a Cloudinary uploader from configuration.
func NewCloudinary(cfg config.CloudinaryConfig) *Cloudinary {
	return &Cloudinary{
		cfg: cfg,
		http: resty.New().
			SetBaseURL(cfg.BaseURL).
			SetTimeout(60 * time.Second),
		now: time.Now,
	}
}

// SignUploadRequest computes a time-boxed authorization for a client
// upload. The fixed preset is always part of the signed parameters so a
// client cannot redirect the upload elsewhere.
func (c *Cloudinary) SignUploadRequest(paramsToSign map[string]string) SignedRequest {
	timestamp := c.now().Unix()

	params := map[string]string{
		"timestamp":     strconv.FormatInt(timestamp, 10),
		"upload_preset": c.cfg.UploadPreset,
	}
	for k, v := range paramsToSign {
		params[k] = v
	}

	return SignedRequest{
		Signature: signParams(params, c.cfg.APISecret),
		Timestamp: timestamp,
		CloudName: c.cfg.CloudName,
		APIKey:    c.cfg.APIKey,
	}
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
}

// StartUpload pushes the image to the host and returns its durable HTTPS
// URL. Size and format limits are enforced before any network call.
func (c *Cloudinary) StartUpload(ctx context.Context, filename string, size int64, content io.Reader) (string, error) {
	if size > c.cfg.MaxFileSize {
		return "", ErrFileTooLarge
	}
	if !c.formatAllowed(filename) {
		return "", ErrUnsupportedFormat
	}

	timestamp := strconv.FormatInt(c.now().Unix(), 10)
	params := map[string]string{
		"timestamp": timestamp,
		"folder":    c.cfg.Folder,
	}

	var out uploadResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetFileReader("file", filename, content).
		SetFormData(map[string]string{
			"api_key":   c.cfg.APIKey,
			"timestamp": timestamp,
			"folder":    c.cfg.Folder,
			"signature": signParams(params, c.cfg.APISecret),
		}).
		SetResult(&out).
		Post(fmt.Sprintf("/v1_1/%s/image/upload", c.cfg.CloudName))
	if err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}
	if !resp.IsSuccess() {
		return "", fmt.Errorf("upload image: unexpected status %d", resp.StatusCode())
	}
	if out.SecureURL == "" {
		return "", fmt.Errorf("upload image: response missing secure_url")
	}

	log.Info().
		Str("public_id", out.PublicID).
		Str("folder", c.cfg.Folder).
		Msg("image uploaded")
	return out.SecureURL, nil
}

// EnsurePreset provisions the unsigned upload preset used by the client
// widget. An existing preset is deleted first so a stale configuration
// never lingers; a failed delete just means there was nothing to delete.
func (c *Cloudinary) EnsurePreset(ctx context.Context) error {
	delResp, err := c.http.R().
		SetContext(ctx).
		SetBasicAuth(c.cfg.APIKey, c.cfg.APISecret).
		Delete(fmt.Sprintf("/v1_1/%s/upload_presets/%s", c.cfg.CloudName, c.cfg.UploadPreset))
	if err != nil {
		return fmt.Errorf("delete upload preset: %w", err)
	}
	if !delResp.IsSuccess() && delResp.StatusCode() != 404 {
		log.Warn().
			Int("status", delResp.StatusCode()).
			Str("preset", c.cfg.UploadPreset).
			Msg("could not delete existing upload preset")
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetBasicAuth(c.cfg.APIKey, c.cfg.APISecret).
		SetBody(map[string]any{
			"name":     c.cfg.UploadPreset,
			"unsigned": true,
			"folder":   c.cfg.Folder,
		}).
		Post(fmt.Sprintf("/v1_1/%s/upload_presets", c.cfg.CloudName))
	if err != nil {
		return fmt.Errorf("create upload preset: %w", err)
	}
	if !resp.IsSuccess() {
		return fmt.Errorf("create upload preset: unexpected status %d", resp.StatusCode())
	}

	log.Info().Str("preset", c.cfg.UploadPreset).Msg("upload preset provisioned")
	return nil
}

func (c *Cloudinary) formatAllowed(filename string) bool {
	idx := strings.LastIndex(filename, ".")
	if idx < 0 {
		return false
	}
	ext := strings.ToLower(filename[idx+1:])
	for _, allowed := range c.cfg.AllowedFormatList() {
		if ext == allowed {
			return true
		}
	}
	return false
}
