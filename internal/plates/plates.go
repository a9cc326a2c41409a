// Package plates works out how to load a barbell for a target weight.
package plates

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
)

// Unit is the unit system plates and bars are measured in.
type Unit string

const (
	Kilograms Unit = "kg"
	Pounds    Unit = "lb"
)

var (
	kiloPlates  = []float64{25, 20, 15, 10, 5, 2.5, 1.25, 0.5, 0.25}
	poundPlates = []float64{55, 45, 35, 25, 10, 5, 2.5, 1.25, 0.5}
)

// ParseUnit accepts kg/lb and their common spellings.
func ParseUnit(s string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "kg", "kgs", "kilo", "kilos", "kilograms":
		return Kilograms, nil
	case "lb", "lbs", "pound", "pounds":
		return Pounds, nil
	default:
		return "", fmt.Errorf("unknown unit %q", s)
	}
}

// StandardPlates returns the full plate set for the unit, heaviest first.
func (u Unit) StandardPlates() []float64 {
	if u == Kilograms {
		return slices.Clone(kiloPlates)
	}
	return slices.Clone(poundPlates)
}

// BarWeight is the weight of an empty bar.
func (u Unit) BarWeight() float64 {
	if u == Kilograms {
		return 20
	}
	return 45
}

// CollarWeight is the combined weight of both collars, or zero without them.
func (u Unit) CollarWeight(collars bool) float64 {
	switch {
	case !collars:
		return 0
	case u == Kilograms:
		return 5
	default:
		return 11
	}
}

// MinimumLoad is the lightest weight the bar can show: the bar plus collars.
func (u Unit) MinimumLoad(collars bool) float64 {
	switch {
	case u == Kilograms && collars:
		return 25
	case u == Kilograms:
		return 20
	case collars:
		return 56
	default:
		return 45
	}
}

// Loadout is the plates for one side of the bar, heaviest first, and the
// total weight they actually make.
type Loadout struct {
	Plates   []float64 `json:"plates"`
	Achieved float64   `json:"achieved"`
}

// MaxLoad is the heaviest total, in either unit, a caller may ask to load.
// Decompose appends one plate per step, so its cost grows with the target.
const MaxLoad = 2000.0

// ErrTooHeavy wraps every error returned by CheckLoad.
var ErrTooHeavy = errors.New("too heavy to load")

// CheckLoad rejects targets above MaxLoad. Callers taking weights from users
// run it before Load.
func CheckLoad(target float64) error {
	if target > MaxLoad {
		return fmt.Errorf("%w: %g exceeds %g", ErrTooHeavy, target, MaxLoad)
	}
	return nil
}

// Decompose greedily loads the heaviest plate that still fits on both sides
// until nothing else fits. The result never exceeds target unless target is
// lighter than the bar and collars themselves. A target of zero or less means
// no weight was given and yields an empty loadout.
func Decompose(target float64, inventory []float64, barWeight, collarWeight float64) Loadout {
	if !(target > 0) || math.IsInf(target, 1) {
		return Loadout{Plates: []float64{}}
	}

	sizes := make([]float64, 0, len(inventory))
	for _, p := range inventory {
		if p > 0 {
			sizes = append(sizes, p)
		}
	}
	slices.SortFunc(sizes, func(a, b float64) int { return cmp.Compare(b, a) })

	remaining := target - barWeight - collarWeight
	out := Loadout{Plates: []float64{}, Achieved: barWeight + collarWeight}
	for {
		i := slices.IndexFunc(sizes, func(p float64) bool { return 2*p <= remaining })
		if i < 0 {
			return out
		}
		p := sizes[i]
		out.Plates = append(out.Plates, p)
		remaining -= 2 * p
		out.Achieved += 2 * p
	}
}

// Load decomposes target using the unit's bar and collar weights. A nil
// inventory uses the unit's standard plates.
func Load(target float64, unit Unit, collars bool, inventory []float64) Loadout {
	if inventory == nil {
		inventory = unit.StandardPlates()
	}
	return Decompose(target, inventory, unit.BarWeight(), unit.CollarWeight(collars))
}

// DisplayWeight clamps an achieved weight to what an empty bar with its
// hardware actually weighs. It is applied when presenting a loadout, never
// inside Decompose.
func DisplayWeight(achieved float64, unit Unit, collars bool) float64 {
	return max(unit.MinimumLoad(collars), achieved)
}

// ValidateInventory rejects plate sizes that are not part of the unit's
// standard set.
func ValidateInventory(unit Unit, inventory []float64) error {
	standard := unit.StandardPlates()
	for _, p := range inventory {
		if !slices.Contains(standard, p) {
			return fmt.Errorf("plate %g %s is not a standard size", p, unit)
		}
	}
	return nil
}
