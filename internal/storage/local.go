package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/claude/rpecalc/internal/models"
	"github.com/claude/rpecalc/internal/plates"
	"github.com/claude/rpecalc/internal/rpe"
	_ "modernc.org/sqlite"
)

// LocalStore keeps preferences in a SQLite file for single-machine use.
type LocalStore struct {
	db *sql.DB
}

// OpenLocalStore opens (or creates) the SQLite database at dir/prefs.db.
func OpenLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating store dir %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dir, "prefs.db"))
	if err != nil {
		return nil, fmt.Errorf("opening prefs db: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS preferences (
		id           INTEGER PRIMARY KEY CHECK (id = 1),
		units        TEXT NOT NULL,
		collars      INTEGER NOT NULL,
		kilo_plates  TEXT NOT NULL,
		pound_plates TEXT NOT NULL,
		rounding     REAL NOT NULL,
		strategy     TEXT NOT NULL,
		updated_at   INTEGER NOT NULL
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating preferences table: %w", err)
	}

	return &LocalStore{db: db}, nil
}

// GetPreferences returns the saved preferences, or the defaults when nothing
// has been saved yet.
func (s *LocalStore) GetPreferences(ctx context.Context) (models.Preferences, error) {
	var (
		p                models.Preferences
		units, strategy  string
		kiloJSON, lbJSON string
		updated          int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT units, collars, kilo_plates, pound_plates, rounding, strategy, updated_at
		 FROM preferences WHERE id = 1`,
	).Scan(&units, &p.Collars, &kiloJSON, &lbJSON, &p.Rounding, &strategy, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return models.DefaultPreferences(), nil
	}
	if err != nil {
		return models.Preferences{}, fmt.Errorf("querying preferences: %w", err)
	}
	if err := json.Unmarshal([]byte(kiloJSON), &p.KiloPlates); err != nil {
		return models.Preferences{}, fmt.Errorf("decoding kilo plates: %w", err)
	}
	if err := json.Unmarshal([]byte(lbJSON), &p.PoundPlates); err != nil {
		return models.Preferences{}, fmt.Errorf("decoding pound plates: %w", err)
	}
	p.Units = plates.Unit(units)
	p.Strategy = rpe.Strategy(strategy)
	p.UpdatedAt = time.Unix(updated, 0).UTC()
	p.Normalize()
	return p, nil
}

// SavePreferences validates and replaces the stored preferences.
func (s *LocalStore) SavePreferences(ctx context.Context, p models.Preferences) (models.Preferences, error) {
	p.Normalize()
	if err := p.Validate(); err != nil {
		return models.Preferences{}, err
	}

	kiloJSON, err := json.Marshal(p.KiloPlates)
	if err != nil {
		return models.Preferences{}, err
	}
	lbJSON, err := json.Marshal(p.PoundPlates)
	if err != nil {
		return models.Preferences{}, err
	}

	p.UpdatedAt = time.Now().UTC().Truncate(time.Second)
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO preferences
		 (id, units, collars, kilo_plates, pound_plates, rounding, strategy, updated_at)
		 VALUES (1, ?, ?, ?, ?, ?, ?, ?)`,
		string(p.Units), p.Collars, string(kiloJSON), string(lbJSON), p.Rounding, string(p.Strategy), p.UpdatedAt.Unix(),
	)
	if err != nil {
		return models.Preferences{}, fmt.Errorf("saving preferences: %w", err)
	}
	return p, nil
}

// Close closes the database.
func (s *LocalStore) Close() error {
	return s.db.Close()
}
