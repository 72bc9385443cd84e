package config

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds environment-driven configuration for the catalog server.
type Config struct {
	Addr           string
	DatabaseURL    string
	LogLevel       string
	FrontendOrigin string
	UploadDir      string

	AdminPassword     string
	AdminPasswordHash string
	SessionSecret     string
	CookieSecure      bool
	CookieSameSite    string

	PublicBaseURL    string
	PlaceholderImage string
	OrderPhone       string
}

var ErrMissingPassword = errors.New("ADMIN_PASSWORD or ADMIN_PASSWORD_HASH must be set")
var ErrMissingDatabase = errors.New("DATABASE_URL is not set")

// Load reads configuration from environment variables, after loading a .env
// file from the working directory when one exists.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config from lookup, applying defaults for unset keys.
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	get := func(key, def string) string {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return def
	}

	cfg := Config{
		Addr:              get("CATALOG_ADDR", ":8080"),
		DatabaseURL:       get("DATABASE_URL", ""),
		LogLevel:          get("LOG_LEVEL", "info"),
		FrontendOrigin:    get("FRONTEND_ORIGIN", "http://localhost:3000"),
		UploadDir:         get("UPLOAD_DIR", "uploads"),
		AdminPassword:     get("ADMIN_PASSWORD", ""),
		AdminPasswordHash: get("ADMIN_PASSWORD_HASH", ""),
		SessionSecret:     get("SESSION_SECRET", ""),
		CookieSameSite:    get("COOKIE_SAMESITE", "None"),
		PublicBaseURL:     get("PUBLIC_BASE_URL", ""),
		PlaceholderImage:  get("PLACEHOLDER_IMAGE", "/images/placeholder.jpg"),
		OrderPhone:        get("ORDER_PHONE", ""),
	}

	secure, err := strconv.ParseBool(get("COOKIE_SECURE", "true"))
	if err != nil {
		return Config{}, errors.New("COOKIE_SECURE must be a boolean")
	}
	cfg.CookieSecure = secure

	if cfg.DatabaseURL == "" {
		return Config{}, ErrMissingDatabase
	}
	if cfg.AdminPassword == "" && cfg.AdminPasswordHash == "" {
		return Config{}, ErrMissingPassword
	}
	return cfg, nil
}
