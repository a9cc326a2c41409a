package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/claude/rpecalc/internal/plates"
	"github.com/claude/rpecalc/internal/rpe"
)

// RoundingOptions are the target weight increments offered to users.
var RoundingOptions = []float64{5, 2.5, 1, 0.01}

// Preferences are the calculator defaults remembered between sessions.
type Preferences struct {
	Units       plates.Unit  `json:"units"`
	Collars     bool         `json:"collars"`
	KiloPlates  []float64    `json:"kilo_plates"`
	PoundPlates []float64    `json:"pound_plates"`
	Rounding    float64      `json:"rounding"`
	Strategy    rpe.Strategy `json:"strategy"`
	UpdatedAt   time.Time    `json:"updated_at,omitzero"`
}

// DefaultPreferences are used until the user saves their own.
func DefaultPreferences() Preferences {
	return Preferences{
		Units:       plates.Pounds,
		Collars:     false,
		KiloPlates:  plates.Kilograms.StandardPlates(),
		PoundPlates: plates.Pounds.StandardPlates(),
		Rounding:    5,
		Strategy:    rpe.Interpolated,
	}
}

// Inventory returns the selected plates for the given unit.
func (p Preferences) Inventory(unit plates.Unit) []float64 {
	if unit == plates.Kilograms {
		return p.KiloPlates
	}
	return p.PoundPlates
}

// Normalize fills unset fields with defaults.
func (p *Preferences) Normalize() {
	d := DefaultPreferences()
	if p.Units == "" {
		p.Units = d.Units
	} else if u, err := plates.ParseUnit(string(p.Units)); err == nil {
		p.Units = u
	}
	if p.KiloPlates == nil {
		p.KiloPlates = d.KiloPlates
	}
	if p.PoundPlates == nil {
		p.PoundPlates = d.PoundPlates
	}
	if p.Rounding == 0 {
		p.Rounding = d.Rounding
	}
	if p.Strategy == "" {
		p.Strategy = d.Strategy
	}
}

// ErrInvalidPreferences wraps every error returned by Validate.
var ErrInvalidPreferences = errors.New("invalid preferences")

// Validate checks that every field holds a supported value.
func (p Preferences) Validate() error {
	if err := p.validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPreferences, err)
	}
	return nil
}

func (p Preferences) validate() error {
	if p.Units != plates.Kilograms && p.Units != plates.Pounds {
		return fmt.Errorf("units must be %q or %q", plates.Kilograms, plates.Pounds)
	}
	if err := plates.ValidateInventory(plates.Kilograms, p.KiloPlates); err != nil {
		return fmt.Errorf("kilo_plates: %w", err)
	}
	if err := plates.ValidateInventory(plates.Pounds, p.PoundPlates); err != nil {
		return fmt.Errorf("pound_plates: %w", err)
	}
	if !(p.Rounding > 0) {
		return fmt.Errorf("rounding must be greater than 0")
	}
	if _, err := rpe.ParseStrategy(string(p.Strategy)); err != nil {
		return err
	}
	return nil
}
