// Package config resolves client configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultServerURL         = "ws://localhost:8080/ws"
	defaultAuthBaseURL       = "http://localhost:8080"
	defaultKeepaliveInterval = 30 * time.Second
	defaultReconnectDelay    = 3 * time.Second
	defaultReconnectAttempts = 1
	defaultDebounceWindow    = 500 * time.Millisecond
	defaultTickInterval      = 100 * time.Millisecond
	defaultTimerTolerance    = 2.0
)

// Config carries everything the client and its collaborators need to start.
type Config struct {
	// ServerURL is the WebSocket endpoint of the table server.
	ServerURL string
	// AuthBaseURL is the base URL of the HTTP auth/lobby service.
	AuthBaseURL string

	KeepaliveInterval time.Duration
	// ReconnectDelay is the fixed wait before a resume attempt.
	ReconnectDelay time.Duration
	// ReconnectAttempts bounds automatic resume attempts after an
	// unexpected drop while at a table. Never unbounded.
	ReconnectAttempts int

	DebounceWindow time.Duration
	TickInterval   time.Duration
	// TimerTolerance is the authoritative-vs-local countdown tolerance
	// in seconds.
	TimerTolerance float64

	// HistoryMode selects the hand-history backend: "sqlite", "postgres"
	// or "off".
	HistoryMode string
	HistoryPath string
	HistoryDSN  string
}

const (
	HistoryModeSQLite   = "sqlite"
	HistoryModePostgres = "postgres"
	HistoryModeOff      = "off"
)

// FromEnv builds a Config from environment variables, with defaults for
// anything unset. Invalid durations or counts are an error rather than a
// silent fallback.
func FromEnv() (Config, error) {
	cfg := Config{
		ServerURL:         stringFromEnv("TABLE_SERVER_URL", defaultServerURL),
		AuthBaseURL:       stringFromEnv("AUTH_BASE_URL", defaultAuthBaseURL),
		KeepaliveInterval: defaultKeepaliveInterval,
		ReconnectDelay:    defaultReconnectDelay,
		ReconnectAttempts: defaultReconnectAttempts,
		DebounceWindow:    defaultDebounceWindow,
		TickInterval:      defaultTickInterval,
		TimerTolerance:    defaultTimerTolerance,
		HistoryMode:       historyModeFromEnv(),
		HistoryPath:       stringFromEnv("HISTORY_DB_PATH", ""),
		HistoryDSN:        stringFromEnv("HISTORY_DATABASE_DSN", ""),
	}

	var err error
	if cfg.KeepaliveInterval, err = durationFromEnv("KEEPALIVE_INTERVAL", defaultKeepaliveInterval); err != nil {
		return Config{}, err
	}
	if cfg.ReconnectDelay, err = durationFromEnv("RECONNECT_DELAY", defaultReconnectDelay); err != nil {
		return Config{}, err
	}
	if cfg.ReconnectAttempts, err = intFromEnv("RECONNECT_ATTEMPTS", defaultReconnectAttempts); err != nil {
		return Config{}, err
	}
	if cfg.DebounceWindow, err = durationFromEnv("DEBOUNCE_WINDOW", defaultDebounceWindow); err != nil {
		return Config{}, err
	}
	if cfg.TickInterval, err = durationFromEnv("TICK_INTERVAL", defaultTickInterval); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func stringFromEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func historyModeFromEnv() string {
	raw := strings.ToLower(strings.TrimSpace(os.Getenv("HISTORY_MODE")))
	switch raw {
	case "", HistoryModeSQLite:
		return HistoryModeSQLite
	case HistoryModePostgres, "pg", "postgresql":
		return HistoryModePostgres
	case HistoryModeOff, "none", "disabled":
		return HistoryModeOff
	default:
		return raw
	}
}

func durationFromEnv(key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be positive", key, raw)
	}
	return d, nil
}

func intFromEnv(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("invalid %s %q: must be >= 0", key, raw)
	}
	return n, nil
}
