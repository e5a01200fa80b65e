package config

import (
	"testing"
	"time"
)

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv err: %v", err)
	}
	if cfg.ServerURL != defaultServerURL {
		t.Fatalf("ServerURL = %q", cfg.ServerURL)
	}
	if cfg.KeepaliveInterval != 30*time.Second {
		t.Fatalf("KeepaliveInterval = %v", cfg.KeepaliveInterval)
	}
	if cfg.ReconnectAttempts != 1 {
		t.Fatalf("ReconnectAttempts = %d", cfg.ReconnectAttempts)
	}
	if cfg.HistoryMode != HistoryModeSQLite {
		t.Fatalf("HistoryMode = %q", cfg.HistoryMode)
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("TABLE_SERVER_URL", "wss://play.example.com/ws")
	t.Setenv("RECONNECT_DELAY", "5s")
	t.Setenv("RECONNECT_ATTEMPTS", "3")
	t.Setenv("HISTORY_MODE", "postgres")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv err: %v", err)
	}
	if cfg.ServerURL != "wss://play.example.com/ws" {
		t.Fatalf("ServerURL = %q", cfg.ServerURL)
	}
	if cfg.ReconnectDelay != 5*time.Second {
		t.Fatalf("ReconnectDelay = %v", cfg.ReconnectDelay)
	}
	if cfg.ReconnectAttempts != 3 {
		t.Fatalf("ReconnectAttempts = %d", cfg.ReconnectAttempts)
	}
	if cfg.HistoryMode != HistoryModePostgres {
		t.Fatalf("HistoryMode = %q", cfg.HistoryMode)
	}
}

func TestFromEnv_InvalidDuration(t *testing.T) {
	t.Setenv("RECONNECT_DELAY", "soon")
	if _, err := FromEnv(); err == nil {
		t.Fatal("expected error for unparseable duration")
	}

	t.Setenv("RECONNECT_DELAY", "-2s")
	if _, err := FromEnv(); err == nil {
		t.Fatal("expected error for non-positive duration")
	}
}

func TestHistoryModeAliases(t *testing.T) {
	for raw, want := range map[string]string{
		"":         HistoryModeSQLite,
		"pg":       HistoryModePostgres,
		"none":     HistoryModeOff,
		"disabled": HistoryModeOff,
	} {
		t.Setenv("HISTORY_MODE", raw)
		cfg, err := FromEnv()
		if err != nil {
			t.Fatal(err)
		}
		if cfg.HistoryMode != want {
			t.Fatalf("HISTORY_MODE=%q resolved to %q, want %q", raw, cfg.HistoryMode, want)
		}
	}
}
