package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestToTitle(t *testing.T) {
	tests := map[string]string{
		"my-kitchen": "My Kitchen",
		"foodies":    "Foodies",
		"home_cooks": "Home Cooks",
		"---":        "Foodies",
	}
	for in, want := range tests {
		if got := toTitle(in); got != want {
			t.Errorf("toTitle(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRunInit(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "my-kitchen")

	if err := runInit(dir); err != nil {
		t.Fatalf("runInit failed: %v", err)
	}
	for _, sub := range []string{"data", "public/uploads"} {
		if fi, err := os.Stat(filepath.Join(dir, sub)); err != nil || !fi.IsDir() {
			t.Errorf("%s not created", sub)
		}
	}
	env, err := os.ReadFile(filepath.Join(dir, ".env.example"))
	if err != nil {
		t.Fatalf("read .env.example: %v", err)
	}
	if !strings.Contains(string(env), "SITE_NAME=My Kitchen") {
		t.Errorf(".env.example missing site name:\n%s", env)
	}
	if strings.Contains(string(env), "SESSION_SECRET=\n") {
		t.Errorf("session secret should be generated")
	}

	if err := runInit(dir); err == nil {
		t.Error("second init should refuse to overwrite .env.example")
	}
}
