package foodies

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// SiteConfig holds all configuration for a foodies site.
type SiteConfig struct {
	Name        string // Site name (default "Foodies")
	URL         string // Canonical URL (default "http://localhost:3000")
	Description string // Site description for the RSS feed

	Addr         string // Listen address (default ":3000")
	DatabasePath string // SQLite path or postgres:// URL (default "data/meals.db")
	StaticDir    string // Directory served under /public (default "public")

	SessionSecret string // Required: session encryption secret
	CookieSecure  bool   // Set true for HTTPS

	MealCacheTTL  time.Duration // Listing cache TTL (default 5min)
	MaxUploadSize int64         // Image upload limit in bytes (default 10MB)
	ShareLimit    int           // Shares per IP per ShareWindow (default 5)
	ShareWindow   time.Duration // Rate limit window (default 1min)

	LogLevel string // debug, info, warn, error (default "info")
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Foodies"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	c.URL = strings.TrimSuffix(c.URL, "/")
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/meals.db"
	}
	if c.StaticDir == "" {
		c.StaticDir = "public"
	}
	if c.MealCacheTTL == 0 {
		c.MealCacheTTL = 5 * time.Minute
	}
	if c.MaxUploadSize == 0 {
		c.MaxUploadSize = 10 << 20
	}
	if c.ShareLimit == 0 {
		c.ShareLimit = 5
	}
	if c.ShareWindow == 0 {
		c.ShareWindow = time.Minute
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// ConfigFromEnv builds a SiteConfig from environment variables, loading a
// .env file first when one exists. Unset values keep their defaults.
func ConfigFromEnv() SiteConfig {
	_ = godotenv.Load()

	cfg := SiteConfig{
		Name:          os.Getenv("SITE_NAME"),
		URL:           os.Getenv("SITE_URL"),
		Description:   os.Getenv("SITE_DESCRIPTION"),
		Addr:          os.Getenv("ADDR"),
		DatabasePath:  os.Getenv("DATABASE_URL"),
		StaticDir:     os.Getenv("STATIC_DIR"),
		SessionSecret: os.Getenv("SESSION_SECRET"),
		CookieSecure:  strings.EqualFold(os.Getenv("COOKIE_SECURE"), "true"),
		LogLevel:      os.Getenv("LOG_LEVEL"),
	}
	if d, err := time.ParseDuration(os.Getenv("MEAL_CACHE_TTL")); err == nil {
		cfg.MealCacheTTL = d
	}
	if mb, err := strconv.Atoi(os.Getenv("MAX_UPLOAD_MB")); err == nil && mb > 0 {
		cfg.MaxUploadSize = int64(mb) << 20
	}
	if n, err := strconv.Atoi(os.Getenv("SHARE_LIMIT")); err == nil && n > 0 {
		cfg.ShareLimit = n
	}
	cfg.setDefaults()
	return cfg
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStore replaces the default SQLite store, e.g. with a postgres.Store.
// The App takes ownership and closes it on Close.
func WithStore(s MealStore) Option {
	return func(a *App) {
		a.Store = s
	}
}
