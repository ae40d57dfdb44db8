package config

import (
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all configuration for the application.
// It is built once at startup and injected into every component;
// nothing reads the environment after Load returns.
type Config struct {
	Server     ServerConfig
	Log        LogConfig
	Auth       AuthConfig
	Sheets     SheetsConfig
	Cloudinary CloudinaryConfig
	Brand      BrandConfig
	DB         DBConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Port            string `envconfig:"SERVER_PORT" default:"3000"`
	ShutdownTimeout int    `envconfig:"SHUTDOWN_TIMEOUT" default:"30"` // seconds
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `envconfig:"LOG_LEVEL" default:"info"`
	Pretty bool   `envconfig:"LOG_PRETTY" default:"false"`
}

// AuthConfig holds the static staff credential and session settings.
// AdminPasswordHash (bcrypt) takes precedence over AdminPassword when set;
// the plaintext variant exists for local development only.
type AuthConfig struct {
	AdminEmail        string `envconfig:"AUTH_ADMIN_EMAIL" default:"admin@example.com"`
	AdminPassword     string `envconfig:"AUTH_ADMIN_PASSWORD"`
	AdminPasswordHash string `envconfig:"AUTH_ADMIN_PASSWORD_HASH"`
	JWTSecret         string `envconfig:"AUTH_JWT_SECRET" required:"true"`
	SessionTTLDays    int    `envconfig:"AUTH_SESSION_TTL_DAYS" default:"30"`
}

// SheetsConfig holds the row-store connection settings.
// PrivateKey may arrive with literal "\n" sequences (the usual way a PEM
// key is stuffed into a single env var); PrivateKeyPEM normalizes it.
type SheetsConfig struct {
	SpreadsheetID string `envconfig:"SHEETS_SPREADSHEET_ID" required:"true"`
	SheetName     string `envconfig:"SHEETS_SHEET_NAME" default:"Submissions"`
	ClientEmail   string `envconfig:"SHEETS_CLIENT_EMAIL" required:"true"`
	PrivateKey    string `envconfig:"SHEETS_PRIVATE_KEY" required:"true"`
	BaseURL       string `envconfig:"SHEETS_BASE_URL" default:"https://sheets.googleapis.com"`
	TokenURL      string `envconfig:"SHEETS_TOKEN_URL" default:"https://oauth2.googleapis.com/token"`
	MaxRetries    int    `envconfig:"SHEETS_MAX_RETRIES" default:"3"`
}

// PrivateKeyPEM returns the service-account key with escaped newlines restored.
func (c SheetsConfig) PrivateKeyPEM() string {
	return strings.ReplaceAll(c.PrivateKey, `\n`, "\n")
}

// CloudinaryConfig holds the image-host settings.
type CloudinaryConfig struct {
	CloudName      string `envconfig:"CLOUDINARY_CLOUD_NAME" required:"true"`
	APIKey         string `envconfig:"CLOUDINARY_API_KEY" required:"true"`
	APISecret      string `envconfig:"CLOUDINARY_API_SECRET" required:"true"`
	UploadPreset   string `envconfig:"CLOUDINARY_UPLOAD_PRESET" default:"instagram_promotion"`
	Folder         string `envconfig:"CLOUDINARY_FOLDER" default:"instagram_posts"`
	BaseURL        string `envconfig:"CLOUDINARY_BASE_URL" default:"https://api.cloudinary.com"`
	MaxFileSize    int64  `envconfig:"CLOUDINARY_MAX_FILE_SIZE" default:"5000000"` // bytes
	AllowedFormats string `envconfig:"CLOUDINARY_ALLOWED_FORMATS" default:"jpg,jpeg,png,gif"`
}

// AllowedFormatList splits AllowedFormats into individual extensions.
func (c CloudinaryConfig) AllowedFormatList() []string {
	parts := strings.Split(c.AllowedFormats, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// BrandConfig holds the promotional campaign settings surfaced to the client.
type BrandConfig struct {
	Name            string `envconfig:"BRAND_NAME" default:"Snap & Win"`
	CouponValue     string `envconfig:"BRAND_COUPON_VALUE" default:"200"`
	InstagramHandle string `envconfig:"BRAND_INSTAGRAM_HANDLE" default:"@snapandwin"`
	CouponPrefix    string `envconfig:"BRAND_COUPON_PREFIX" default:"WIN"`
}

// DBConfig holds the optional fallback-store connection string.
// When DSN is empty the backlog store is disabled and failed sheet appends
// are only logged.
type DBConfig struct {
	DSN        string `envconfig:"DB_DSN"`
	MaxRetries int    `envconfig:"DB_MAX_RETRIES" default:"5"`
}

// Load parses environment variables into the Config struct.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
