// Package history persists what this client witnessed during a session:
// finished hands and table chat. It is a local convenience cache for the
// UI; the server remains the source of truth.
package history

import (
	"context"
	"errors"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"holdem-client/internal/config"
)

var ErrNotFound = errors.New("history: not found")

const (
	defaultRecentLimit = 200
	defaultCacheSize   = 64
)

type Winner struct {
	Username string `json:"username"`
	Amount   int64  `json:"amount"`
	Hand     string `json:"hand,omitempty"`
}

type HandRecord struct {
	TableID    string   `json:"table_id"`
	HandNumber int64    `json:"hand_number"`
	Pot        int64    `json:"pot"`
	Winners    []Winner `json:"winners"`
	PlayedAt   time.Time
}

type ChatRecord struct {
	TableID  string
	Username string
	Message  string
	SentAt   time.Time
}

// Service stores and recalls session history. Implementations must be safe
// for concurrent use.
type Service interface {
	RecordHand(ctx context.Context, rec HandRecord) error
	RecordChat(ctx context.Context, rec ChatRecord) error
	RecentHands(ctx context.Context, tableID string, limit int) ([]HandRecord, error)
	Hand(ctx context.Context, tableID string, handNumber int64) (HandRecord, error)
	RecentChat(ctx context.Context, tableID string, limit int) ([]ChatRecord, error)
	Close() error
}

// NewServiceFromConfig selects the backend from HISTORY_MODE: sqlite
// (default), postgres, or off. The returned string is the resolved mode.
func NewServiceFromConfig(cfg config.Config) (Service, string, error) {
	switch cfg.HistoryMode {
	case config.HistoryModeSQLite:
		svc, err := NewSQLiteService(cfg.HistoryPath)
		if err != nil {
			return nil, cfg.HistoryMode, err
		}
		return NewCached(svc, defaultCacheSize), cfg.HistoryMode, nil
	case config.HistoryModePostgres:
		svc, err := NewPostgresService(cfg.HistoryDSN)
		if err != nil {
			return nil, cfg.HistoryMode, err
		}
		return NewCached(svc, defaultCacheSize), cfg.HistoryMode, nil
	case config.HistoryModeOff:
		return Nop{}, cfg.HistoryMode, nil
	default:
		return nil, cfg.HistoryMode, fmt.Errorf("invalid HISTORY_MODE %q (supported: %s, %s, %s)",
			cfg.HistoryMode, config.HistoryModeSQLite, config.HistoryModePostgres, config.HistoryModeOff)
	}
}

// Nop discards everything. Used when history is disabled.
type Nop struct{}

func (Nop) RecordHand(context.Context, HandRecord) error { return nil }
func (Nop) RecordChat(context.Context, ChatRecord) error { return nil }
func (Nop) RecentHands(context.Context, string, int) ([]HandRecord, error) {
	return nil, nil
}
func (Nop) Hand(context.Context, string, int64) (HandRecord, error) {
	return HandRecord{}, ErrNotFound
}
func (Nop) RecentChat(context.Context, string, int) ([]ChatRecord, error) {
	return nil, nil
}
func (Nop) Close() error { return nil }

type handKey struct {
	tableID    string
	handNumber int64
}

// Cached decorates a Service with an in-memory LRU of recent hand records
// so the UI can re-open the last few results without a storage round trip.
type Cached struct {
	inner Service
	hands *lru.Cache[handKey, HandRecord]
}

func NewCached(inner Service, size int) *Cached {
	if size <= 0 {
		size = defaultCacheSize
	}
	// Size is positive, so construction cannot fail.
	cache, _ := lru.New[handKey, HandRecord](size)
	return &Cached{inner: inner, hands: cache}
}

func (c *Cached) RecordHand(ctx context.Context, rec HandRecord) error {
	if err := c.inner.RecordHand(ctx, rec); err != nil {
		return err
	}
	c.hands.Add(handKey{rec.TableID, rec.HandNumber}, rec)
	return nil
}

func (c *Cached) Hand(ctx context.Context, tableID string, handNumber int64) (HandRecord, error) {
	if rec, ok := c.hands.Get(handKey{tableID, handNumber}); ok {
		return rec, nil
	}
	rec, err := c.inner.Hand(ctx, tableID, handNumber)
	if err != nil {
		return HandRecord{}, err
	}
	c.hands.Add(handKey{tableID, handNumber}, rec)
	return rec, nil
}

func (c *Cached) RecordChat(ctx context.Context, rec ChatRecord) error {
	return c.inner.RecordChat(ctx, rec)
}

func (c *Cached) RecentHands(ctx context.Context, tableID string, limit int) ([]HandRecord, error) {
	return c.inner.RecentHands(ctx, tableID, limit)
}

func (c *Cached) RecentChat(ctx context.Context, tableID string, limit int) ([]ChatRecord, error) {
	return c.inner.RecentChat(ctx, tableID, limit)
}

func (c *Cached) Close() error {
	c.hands.Purge()
	return c.inner.Close()
}
