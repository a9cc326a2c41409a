package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/claude/rpecalc/internal/models"
	"github.com/claude/rpecalc/internal/plates"
	"github.com/claude/rpecalc/internal/rpe"
	"github.com/jackc/pgx/v5"
)

// GetPreferences returns the saved preferences, or the defaults when nothing
// has been saved yet.
func (db *DB) GetPreferences(ctx context.Context) (models.Preferences, error) {
	var (
		p               models.Preferences
		units, strategy string
	)
	err := db.Pool.QueryRow(ctx,
		`SELECT units, collars, kilo_plates, pound_plates, rounding, strategy, updated_at
		 FROM preferences WHERE id = 1`,
	).Scan(&units, &p.Collars, &p.KiloPlates, &p.PoundPlates, &p.Rounding, &strategy, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.DefaultPreferences(), nil
	}
	if err != nil {
		return models.Preferences{}, fmt.Errorf("querying preferences: %w", err)
	}
	p.Units = plates.Unit(units)
	p.Strategy = rpe.Strategy(strategy)
	p.Normalize()
	return p, nil
}

// SavePreferences validates and replaces the stored preferences, returning
// what was written.
func (db *DB) SavePreferences(ctx context.Context, p models.Preferences) (models.Preferences, error) {
	p.Normalize()
	if err := p.Validate(); err != nil {
		return models.Preferences{}, err
	}

	err := db.Pool.QueryRow(ctx,
		`INSERT INTO preferences (id, units, collars, kilo_plates, pound_plates, rounding, strategy)
		 VALUES (1, $1, $2, $3, $4, $5, $6)
		 ON CONFLICT (id) DO UPDATE SET
			units = EXCLUDED.units, collars = EXCLUDED.collars,
			kilo_plates = EXCLUDED.kilo_plates, pound_plates = EXCLUDED.pound_plates,
			rounding = EXCLUDED.rounding, strategy = EXCLUDED.strategy,
			updated_at = NOW()
		 RETURNING updated_at`,
		string(p.Units), p.Collars, p.KiloPlates, p.PoundPlates, p.Rounding, string(p.Strategy),
	).Scan(&p.UpdatedAt)
	if err != nil {
		return models.Preferences{}, fmt.Errorf("saving preferences: %w", err)
	}
	return p, nil
}
