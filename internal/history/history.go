// Package history persists generated exam papers. The whole history lives
// as one JSON list under a single key in a key-value table, most recent
// first, capped at a fixed number of entries.
package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/edutools-id/bikinsoal/internal/model"

	_ "modernc.org/sqlite"
)

// storageKey matches the key the original web client used, so a dump of
// its local storage can be imported as-is.
const storageKey = "bikin-soal-history-v1"

// MaxItems is the history cap. The oldest entries beyond it are evicted
// silently on insert.
const MaxItems = 20

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS app_storage (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);`
	_, err := s.db.Exec(schema)
	return err
}

// List returns the saved history, most recent first. Corrupted stored data
// is logged and treated as an empty history, never an error.
func (s *Store) List() ([]model.HistoryItem, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM app_storage WHERE key = ?`, storageKey).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}

	var items []model.HistoryItem
	if err := json.Unmarshal([]byte(value), &items); err != nil {
		slog.Warn("discarding corrupted history", "error", err)
		return nil, nil
	}
	return items, nil
}

// Add saves a new (request, result) pair at the head of the history and
// returns the stored item. Entries beyond the cap are dropped.
func (s *Store) Add(req model.QuestionRequest, result string) (model.HistoryItem, error) {
	item := model.HistoryItem{
		ID:        uuid.New().String(),
		Timestamp: time.Now().UTC(),
		Request:   req,
		Result:    result,
	}

	items, err := s.List()
	if err != nil {
		return model.HistoryItem{}, err
	}
	items = append([]model.HistoryItem{item}, items...)
	if len(items) > MaxItems {
		items = items[:MaxItems]
	}
	if err := s.write(items); err != nil {
		return model.HistoryItem{}, err
	}
	return item, nil
}

// Delete removes one entry by id. Unknown ids are a no-op.
func (s *Store) Delete(id string) error {
	items, err := s.List()
	if err != nil {
		return err
	}
	kept := items[:0]
	for _, it := range items {
		if it.ID != id {
			kept = append(kept, it)
		}
	}
	return s.write(kept)
}

// Clear removes the whole history.
func (s *Store) Clear() error {
	_, err := s.db.Exec(`DELETE FROM app_storage WHERE key = ?`, storageKey)
	if err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}

func (s *Store) write(items []model.HistoryItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO app_storage (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = ?`,
		storageKey, string(data), string(data),
	)
	if err != nil {
		return fmt.Errorf("write history: %w", err)
	}
	return nil
}
