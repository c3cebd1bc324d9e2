package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v6"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	// http
	Port        string `env:"PORT" envDefault:"3001"`
	FrontendURL string `env:"FRONTEND_URL"` // empty allows any origin

	// database path
	DatabasePath string `env:"DATABASE_PATH" envDefault:"diary.db"`

	// local media storage
	UploadsPath  string `env:"UPLOADS_PATH" envDefault:"uploads"`
	MediaBaseURL string `env:"MEDIA_BASE_URL" envDefault:"/uploads"` // prefix joined with local references

	// remote media storage; presence of a URL switches away from local disk
	StorageURL    string `env:"STORAGE_URL"`
	CloudinaryURL string `env:"CLOUDINARY_URL"`
	StorageFolder string `env:"STORAGE_FOLDER" envDefault:"travel-diary"`

	// admin access
	AdminPassword     string `env:"ADMIN_PASSWORD"`
	AdminPasswordHash string `env:"ADMIN_PASSWORD_HASH"` // bcrypt, takes precedence over ADMIN_PASSWORD

	// upload limits
	MaxUploadMB      int `env:"MAX_UPLOAD_MB" envDefault:"200"`
	MaxFilesPerEntry int `env:"MAX_FILES_PER_ENTRY" envDefault:"20"`

	// fill missing coordinates/date from photo EXIF
	ExifAutofill bool `env:"EXIF_AUTOFILL" envDefault:"false"`

	AppEnv string `env:"APP_ENV" envDefault:"development"`
}

// RemoteStorageURL returns the connection string of the remote store, or ""
// when uploads should land on local disk.
func (c Config) RemoteStorageURL() string {
	if c.StorageURL != "" {
		return c.StorageURL
	}
	return c.CloudinaryURL
}

// MaxUploadBytes is the per-file size limit.
func (c Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

// MaxRequestBytes bounds a whole multipart create request.
func (c Config) MaxRequestBytes() int64 {
	return int64(c.MaxFilesPerEntry)*c.MaxUploadBytes() + 1<<20
}

func (c Config) IsProduction() bool {
	return c.AppEnv == EnvProduction
}

// setEnviron is the process environment without blank variables, so a var
// exported as "" falls back to its envDefault instead of parsing as empty.
func setEnviron() map[string]string {
	vars := make(map[string]string)
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || v == "" {
			continue
		}
		vars[k] = v
	}
	return vars
}

func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg, env.Options{Environment: setEnviron()}); err != nil {
		return Config{}, fmt.Errorf("failed to parse environment: %w", err)
	}

	if cfg.MaxUploadMB <= 0 {
		return Config{}, fmt.Errorf("MAX_UPLOAD_MB must be positive, got %d", cfg.MaxUploadMB)
	}
	if cfg.MaxFilesPerEntry <= 0 {
		return Config{}, fmt.Errorf("MAX_FILES_PER_ENTRY must be positive, got %d", cfg.MaxFilesPerEntry)
	}

	switch cfg.AppEnv {
	case EnvDevelopment, EnvProduction:
	default:
		return Config{}, fmt.Errorf("APP_ENV must be %q or %q, got %q", EnvDevelopment, EnvProduction, cfg.AppEnv)
	}

	absUploads, err := filepath.Abs(cfg.UploadsPath)
	if err != nil {
		return Config{}, fmt.Errorf("failed to get absolute path for uploads directory '%s': %w", cfg.UploadsPath, err)
	}
	cfg.UploadsPath = absUploads

	cfg.MediaBaseURL = strings.TrimRight(cfg.MediaBaseURL, "/")
	if cfg.MediaBaseURL == "" {
		cfg.MediaBaseURL = "/uploads"
	}

	return cfg, nil
}
