package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "LISTEN_ADDR", "DATABASE_PATH", "JWT_SECRET", "GIN_MODE",
		"UPLOAD_DIR", "UPLOAD_URL_PATH", "MAX_FILE_SIZE", "GEMINI_API_KEY",
		"GEMINI_MODEL", "ADMIN_USERNAME", "ADMIN_PASSWORD", "FRONTEND_URL",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.Port != "4000" {
		t.Fatalf("expected default port 4000, got %q", cfg.Port)
	}
	if cfg.ListenAddr != ":4000" {
		t.Fatalf("expected listen addr derived from port, got %q", cfg.ListenAddr)
	}
	if cfg.DatabasePath != "lumenblog.db" {
		t.Fatalf("unexpected default database path %q", cfg.DatabasePath)
	}
	if cfg.MaxUploadSize != defaultMaxUploadSize {
		t.Fatalf("unexpected default upload size %d", cfg.MaxUploadSize)
	}
	if cfg.GinMode != "release" {
		t.Fatalf("expected release mode by default, got %q", cfg.GinMode)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LISTEN_ADDR", "")
	t.Setenv("MAX_FILE_SIZE", "1048576")
	t.Setenv("GEMINI_API_KEY", "  key-with-spaces  ")

	cfg := Load()
	if cfg.ListenAddr != ":9090" {
		t.Fatalf("expected listen addr :9090, got %q", cfg.ListenAddr)
	}
	if cfg.MaxUploadSize != 1048576 {
		t.Fatalf("expected upload size override, got %d", cfg.MaxUploadSize)
	}
	if cfg.GeminiAPIKey != "key-with-spaces" {
		t.Fatalf("expected trimmed api key, got %q", cfg.GeminiAPIKey)
	}
}

func TestLoadIgnoresInvalidUploadSize(t *testing.T) {
	t.Setenv("MAX_FILE_SIZE", "not-a-number")

	cfg := Load()
	if cfg.MaxUploadSize != defaultMaxUploadSize {
		t.Fatalf("invalid size must fall back to default, got %d", cfg.MaxUploadSize)
	}
}
