package foodies

import (
	"testing"
	"time"

	glog "github.com/labstack/gommon/log"
)

func TestSetDefaults(t *testing.T) {
	var cfg SiteConfig
	cfg.setDefaults()

	if cfg.Name != "Foodies" {
		t.Errorf("Name = %q, want Foodies", cfg.Name)
	}
	if cfg.URL != "http://localhost:3000" {
		t.Errorf("URL = %q", cfg.URL)
	}
	if cfg.Addr != ":3000" {
		t.Errorf("Addr = %q", cfg.Addr)
	}
	if cfg.DatabasePath != "data/meals.db" {
		t.Errorf("DatabasePath = %q", cfg.DatabasePath)
	}
	if cfg.StaticDir != "public" {
		t.Errorf("StaticDir = %q", cfg.StaticDir)
	}
	if cfg.MealCacheTTL != 5*time.Minute {
		t.Errorf("MealCacheTTL = %v", cfg.MealCacheTTL)
	}
	if cfg.MaxUploadSize != 10<<20 {
		t.Errorf("MaxUploadSize = %d", cfg.MaxUploadSize)
	}
	if cfg.ShareLimit != 5 || cfg.ShareWindow != time.Minute {
		t.Errorf("share limit = %d per %v", cfg.ShareLimit, cfg.ShareWindow)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
}

func TestSetDefaultsKeepsValues(t *testing.T) {
	cfg := SiteConfig{Name: "Kitchen", URL: "https://kitchen.example/", ShareLimit: 2}
	cfg.setDefaults()

	if cfg.Name != "Kitchen" {
		t.Errorf("Name = %q, want Kitchen", cfg.Name)
	}
	if cfg.URL != "https://kitchen.example" {
		t.Errorf("URL should lose its trailing slash, got %q", cfg.URL)
	}
	if cfg.ShareLimit != 2 {
		t.Errorf("ShareLimit = %d, want 2", cfg.ShareLimit)
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SITE_NAME", "Kitchen")
	t.Setenv("SITE_URL", "https://kitchen.example/")
	t.Setenv("DATABASE_URL", "postgres://localhost/meals")
	t.Setenv("SESSION_SECRET", "s3cret")
	t.Setenv("COOKIE_SECURE", "TRUE")
	t.Setenv("MEAL_CACHE_TTL", "30s")
	t.Setenv("MAX_UPLOAD_MB", "2")
	t.Setenv("SHARE_LIMIT", "9")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := ConfigFromEnv()

	if cfg.Name != "Kitchen" || cfg.URL != "https://kitchen.example" {
		t.Errorf("site = %q %q", cfg.Name, cfg.URL)
	}
	if cfg.DatabasePath != "postgres://localhost/meals" {
		t.Errorf("DatabasePath = %q", cfg.DatabasePath)
	}
	if cfg.SessionSecret != "s3cret" || !cfg.CookieSecure {
		t.Errorf("session settings = %q secure=%v", cfg.SessionSecret, cfg.CookieSecure)
	}
	if cfg.MealCacheTTL != 30*time.Second {
		t.Errorf("MealCacheTTL = %v", cfg.MealCacheTTL)
	}
	if cfg.MaxUploadSize != 2<<20 {
		t.Errorf("MaxUploadSize = %d", cfg.MaxUploadSize)
	}
	if cfg.ShareLimit != 9 {
		t.Errorf("ShareLimit = %d", cfg.ShareLimit)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
}

func TestConfigFromEnvIgnoresBadNumbers(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("MEAL_CACHE_TTL", "soon")
	t.Setenv("MAX_UPLOAD_MB", "-1")
	t.Setenv("SHARE_LIMIT", "many")

	cfg := ConfigFromEnv()
	if cfg.MealCacheTTL != 5*time.Minute || cfg.MaxUploadSize != 10<<20 || cfg.ShareLimit != 5 {
		t.Errorf("bad values should fall back to defaults, got %v %d %d", cfg.MealCacheTTL, cfg.MaxUploadSize, cfg.ShareLimit)
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]glog.Lvl{
		"debug":   glog.DEBUG,
		"INFO":    glog.INFO,
		"warning": glog.WARN,
		"error":   glog.ERROR,
		"off":     glog.OFF,
		"":        glog.INFO,
		"chatty":  glog.INFO,
	}
	for in, want := range tests {
		if got := parseLogLevel(in); got != want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
