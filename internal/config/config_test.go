package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "MAX_UPLOAD_MB", "MAIL_WORKERS", "JWT_EXPIRES_IN",
		"ASSET_SWEEP_SCHEDULE", "ASSET_SWEEP_MIN_AGE", "CORS_ALLOWED_ORIGINS", "SMTP_HOST"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("expected port 8080, got %s", cfg.Port)
	}
	if cfg.MaxUploadBytes != 5<<20 {
		t.Errorf("expected 5 MB upload limit, got %d", cfg.MaxUploadBytes)
	}
	if cfg.MailWorkers != 4 {
		t.Errorf("expected 4 mail workers, got %d", cfg.MailWorkers)
	}
	if cfg.JWTExpirationDur != 24*time.Hour {
		t.Errorf("expected 24h token lifetime, got %s", cfg.JWTExpirationDur)
	}
	if cfg.AssetSweepSchedule != "@hourly" || cfg.AssetSweepMinAge != time.Hour {
		t.Errorf("unexpected sweep settings %q %s", cfg.AssetSweepSchedule, cfg.AssetSweepMinAge)
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
		t.Errorf("expected wildcard CORS, got %v", cfg.CORSAllowedOrigins)
	}
	if cfg.MailEnabled() {
		t.Error("expected mail disabled without SMTP_HOST")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("MAX_UPLOAD_MB", "2")
	t.Setenv("MAIL_WORKERS", "8")
	t.Setenv("JWT_EXPIRES_IN", "90m")
	t.Setenv("ASSET_SWEEP_MIN_AGE", "30m")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000, https://admin.spice.com ,")
	t.Setenv("SMTP_HOST", "smtp.sendgrid.net")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.MaxUploadBytes != 2<<20 {
		t.Errorf("expected 2 MB upload limit, got %d", cfg.MaxUploadBytes)
	}
	if cfg.MailWorkers != 8 {
		t.Errorf("expected 8 mail workers, got %d", cfg.MailWorkers)
	}
	if cfg.JWTExpirationDur != 90*time.Minute {
		t.Errorf("expected 90m, got %s", cfg.JWTExpirationDur)
	}
	if cfg.AssetSweepMinAge != 30*time.Minute {
		t.Errorf("expected 30m, got %s", cfg.AssetSweepMinAge)
	}
	want := []string{"http://localhost:3000", "https://admin.spice.com"}
	if len(cfg.CORSAllowedOrigins) != len(want) {
		t.Fatalf("expected %v, got %v", want, cfg.CORSAllowedOrigins)
	}
	for i := range want {
		if cfg.CORSAllowedOrigins[i] != want[i] {
			t.Errorf("origin %d: expected %s, got %s", i, want[i], cfg.CORSAllowedOrigins[i])
		}
	}
	if !cfg.MailEnabled() {
		t.Error("expected mail enabled")
	}
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("MAX_UPLOAD_MB", "lots")
	t.Setenv("MAIL_WORKERS", "-3")
	t.Setenv("JWT_EXPIRES_IN", "forever")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.MaxUploadBytes != 5<<20 {
		t.Errorf("expected default upload limit, got %d", cfg.MaxUploadBytes)
	}
	if cfg.MailWorkers != 4 {
		t.Errorf("expected default workers, got %d", cfg.MailWorkers)
	}
	if cfg.JWTExpirationDur != 24*time.Hour {
		t.Errorf("expected default lifetime, got %s", cfg.JWTExpirationDur)
	}
}

func TestDatabaseURL(t *testing.T) {
	cfg := &Config{DBUser: "u", DBPassword: "p", DBHost: "db", DBPort: "5432", DBName: "spice", DBSSLMode: "disable"}

	if got, want := cfg.DatabaseURL(), "postgres://u:p@db:5432/spice?sslmode=disable"; got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}
