package config

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig()

	if cfg.Port != "8080" {
		t.Errorf("port = %q, want 8080", cfg.Port)
	}
	if cfg.BoardRows != 6 || cfg.BoardColumns != 7 || cfg.WinLength != 4 {
		t.Errorf("board rules = %dx%d win %d, want 6x7 win 4", cfg.BoardRows, cfg.BoardColumns, cfg.WinLength)
	}
	if cfg.GameSnapshotTTL != 120*time.Minute {
		t.Errorf("snapshot TTL = %v, want 2h", cfg.GameSnapshotTTL)
	}
	if cfg.SessionTTLDays != 30 {
		t.Errorf("session TTL = %d days, want 30", cfg.SessionTTLDays)
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("BOARD_ROWS", "8")
	t.Setenv("BOARD_COLUMNS", "9")
	t.Setenv("WIN_LENGTH", "5")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")

	cfg := LoadConfig()

	if cfg.Port != "9999" {
		t.Errorf("port = %q, want 9999", cfg.Port)
	}
	if cfg.BoardRows != 8 || cfg.BoardColumns != 9 || cfg.WinLength != 5 {
		t.Errorf("board rules = %dx%d win %d, want 8x9 win 5", cfg.BoardRows, cfg.BoardColumns, cfg.WinLength)
	}

	found := 0
	for _, origin := range cfg.AllowedOrigins {
		if origin == "https://a.example.com" || origin == "https://b.example.com" {
			found++
		}
	}
	if found != 2 {
		t.Errorf("allowed origins missing CSV entries: %v", cfg.AllowedOrigins)
	}
}

func TestGetEnvAsIntRejectsGarbage(t *testing.T) {
	t.Setenv("SOME_NUMBER", "not-a-number")

	if got := GetEnvAsInt("SOME_NUMBER", 42); got != 42 {
		t.Errorf("GetEnvAsInt = %d, want fallback 42", got)
	}
}
