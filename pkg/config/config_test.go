package config

import (
	"testing"
	"time"

	"gorm.io/gorm/logger"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.DB.Host != "localhost" {
		t.Errorf("DB.Host = %q, want %q", cfg.DB.Host, "localhost")
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("Server.Port = %q, want %q", cfg.Server.Port, "8080")
	}
	if cfg.Quota.FreeNoteLimit != 3 {
		t.Errorf("Quota.FreeNoteLimit = %d, want 3", cfg.Quota.FreeNoteLimit)
	}
	if cfg.JWT.ExpirationHours != 24 {
		t.Errorf("JWT.ExpirationHours = %d, want 24", cfg.JWT.ExpirationHours)
	}
	if cfg.Metrics.Prefix != "notes" {
		t.Errorf("Metrics.Prefix = %q, want %q", cfg.Metrics.Prefix, "notes")
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_CONN_MAX_LIFETIME", "30m")
	t.Setenv("DB_LOG_LEVEL", "silent")
	t.Setenv("NOTE_LIMIT", "5")
	t.Setenv("SERVER_PORT", "9000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.DB.Host != "db.internal" {
		t.Errorf("DB.Host = %q, want %q", cfg.DB.Host, "db.internal")
	}
	if cfg.DB.ConnMaxLifetime != 30*time.Minute {
		t.Errorf("DB.ConnMaxLifetime = %v, want 30m", cfg.DB.ConnMaxLifetime)
	}
	if cfg.DB.LogLevel != logger.Silent {
		t.Errorf("DB.LogLevel = %v, want silent", cfg.DB.LogLevel)
	}
	if cfg.Quota.FreeNoteLimit != 5 {
		t.Errorf("Quota.FreeNoteLimit = %d, want 5", cfg.Quota.FreeNoteLimit)
	}
	if cfg.Server.Port != "9000" {
		t.Errorf("Server.Port = %q, want %q", cfg.Server.Port, "9000")
	}
}

func TestGetDSN(t *testing.T) {
	db := DBConfig{
		Host:     "localhost",
		Port:     "5432",
		User:     "postgres",
		Password: "secret",
		DBName:   "notes_service",
		SSLMode:  "disable",
	}

	want := "host=localhost port=5432 user=postgres password=secret dbname=notes_service sslmode=disable"
	if got := db.GetDSN(); got != want {
		t.Errorf("GetDSN() = %q, want %q", got, want)
	}
}

func TestGetEnvAsIntInvalidValue(t *testing.T) {
	t.Setenv("NOTE_LIMIT", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Quota.FreeNoteLimit != 3 {
		t.Errorf("Quota.FreeNoteLimit = %d, want default 3", cfg.Quota.FreeNoteLimit)
	}
}
