package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const defaultLocalDBName = "table_history.db"

// SQLiteService is the default, file-backed history store.
type SQLiteService struct {
	db          *sql.DB
	recentLimit int
}

// NewSQLiteService opens (and if needed creates) the sqlite database at
// dbPath. An empty path resolves to the user config directory; ":memory:"
// is accepted for tests.
func NewSQLiteService(dbPath string) (*SQLiteService, error) {
	dbPath = strings.TrimSpace(dbPath)
	if dbPath == "" {
		userConfigDir, err := os.UserConfigDir()
		if err != nil {
			return nil, err
		}
		dbPath = filepath.Join(userConfigDir, "holdem-client", defaultLocalDBName)
	}
	if dbPath != ":memory:" {
		parent := filepath.Dir(dbPath)
		if parent != "" && parent != "." {
			if err := os.MkdirAll(parent, 0o755); err != nil {
				return nil, err
			}
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, pragma := range []string{
		`PRAGMA busy_timeout = 5000;`,
		`PRAGMA journal_mode = WAL;`,
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := ensureSQLiteSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLiteService{db: db, recentLimit: defaultRecentLimit}, nil
}

func (s *SQLiteService) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteService) RecordHand(ctx context.Context, rec HandRecord) error {
	if strings.TrimSpace(rec.TableID) == "" || rec.HandNumber <= 0 {
		return fmt.Errorf("invalid hand record: table=%q hand=%d", rec.TableID, rec.HandNumber)
	}
	if rec.PlayedAt.IsZero() {
		rec.PlayedAt = time.Now().UTC()
	}
	winnersRaw, err := json.Marshal(rec.Winners)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
INSERT INTO hand_history (table_id, hand_number, pot, winners_json, played_at_ms)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT (table_id, hand_number) DO UPDATE
SET
    pot = excluded.pot,
    winners_json = excluded.winners_json,
    played_at_ms = excluded.played_at_ms
`, rec.TableID, rec.HandNumber, rec.Pot, string(winnersRaw), rec.PlayedAt.UTC().UnixMilli())
	if err != nil {
		return err
	}

	if s.recentLimit > 0 {
		_, err = tx.ExecContext(ctx, `
DELETE FROM hand_history
WHERE table_id = ?
  AND id IN (
      SELECT id
      FROM hand_history
      WHERE table_id = ?
      ORDER BY hand_number DESC
      LIMIT -1 OFFSET ?
  )
`, rec.TableID, rec.TableID, s.recentLimit)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *SQLiteService) RecordChat(ctx context.Context, rec ChatRecord) error {
	if strings.TrimSpace(rec.Message) == "" {
		return nil
	}
	if rec.SentAt.IsZero() {
		rec.SentAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO chat_log (table_id, username, message, sent_at_ms)
VALUES (?, ?, ?, ?)
`, rec.TableID, rec.Username, rec.Message, rec.SentAt.UTC().UnixMilli())
	return err
}

func (s *SQLiteService) RecentHands(ctx context.Context, tableID string, limit int) ([]HandRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT table_id, hand_number, pot, winners_json, played_at_ms
FROM hand_history
WHERE table_id = ?
ORDER BY hand_number DESC
LIMIT ?
`, tableID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanHands(rows)
}

func (s *SQLiteService) Hand(ctx context.Context, tableID string, handNumber int64) (HandRecord, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT table_id, hand_number, pot, winners_json, played_at_ms
FROM hand_history
WHERE table_id = ?
  AND hand_number = ?
`, tableID, handNumber)
	rec, err := scanHand(row)
	if errors.Is(err, sql.ErrNoRows) {
		return HandRecord{}, ErrNotFound
	}
	return rec, err
}

func (s *SQLiteService) RecentChat(ctx context.Context, tableID string, limit int) ([]ChatRecord, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT table_id, username, message, sent_at_ms
FROM chat_log
WHERE table_id = ?
ORDER BY sent_at_ms DESC, id DESC
LIMIT ?
`, tableID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]ChatRecord, 0, limit)
	for rows.Next() {
		var rec ChatRecord
		var sentAtMs int64
		if err := rows.Scan(&rec.TableID, &rec.Username, &rec.Message, &sentAtMs); err != nil {
			return nil, err
		}
		rec.SentAt = time.UnixMilli(sentAtMs).UTC()
		out = append(out, rec)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHand(row rowScanner) (HandRecord, error) {
	var rec HandRecord
	var winnersRaw []byte
	var playedAtMs int64
	if err := row.Scan(&rec.TableID, &rec.HandNumber, &rec.Pot, &winnersRaw, &playedAtMs); err != nil {
		return HandRecord{}, err
	}
	rec.PlayedAt = time.UnixMilli(playedAtMs).UTC()
	if len(winnersRaw) > 0 {
		_ = json.Unmarshal(winnersRaw, &rec.Winners)
	}
	return rec, nil
}

func scanHands(rows *sql.Rows) ([]HandRecord, error) {
	var out []HandRecord
	for rows.Next() {
		rec, err := scanHand(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func ensureSQLiteSchema(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`
CREATE TABLE IF NOT EXISTS hand_history (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    table_id TEXT NOT NULL,
    hand_number INTEGER NOT NULL,
    pot INTEGER NOT NULL DEFAULT 0,
    winners_json TEXT NOT NULL DEFAULT '[]',
    played_at_ms INTEGER NOT NULL,
    UNIQUE (table_id, hand_number)
)`,
		`CREATE INDEX IF NOT EXISTS idx_hand_history_recent ON hand_history(table_id, hand_number DESC)`,
		`
CREATE TABLE IF NOT EXISTS chat_log (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    table_id TEXT NOT NULL,
    username TEXT NOT NULL,
    message TEXT NOT NULL,
    sent_at_ms INTEGER NOT NULL
)`,
		`CREATE INDEX IF NOT EXISTS idx_chat_log_recent ON chat_log(table_id, sent_at_ms DESC)`,
	}
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
