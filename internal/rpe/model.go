// Package rpe converts sets performed at a rated perceived exertion into an
// estimated one-rep max and projects that max back onto other rep/RPE targets.
package rpe

import (
	"fmt"
	"math"
)

// MaxReps is the highest rep count the coefficient data covers.
const MaxReps = 12

// Strategy selects how coefficients are derived.
type Strategy string

const (
	// Interpolated uses per-RPE linear fits and interpolates fractional RPEs.
	Interpolated Strategy = "interpolated"
	// Table uses the fixed chart with integer RPEs 6 through 10.
	Table Strategy = "table"
)

// Model returns the fraction of a one-rep max that a set of reps at a given
// RPE represents.
type Model interface {
	Coefficient(reps int, rating float64) (float64, error)
	RatingRange() (min, max float64)
}

// New returns the model for the given strategy.
func New(s Strategy) (Model, error) {
	switch s {
	case Interpolated, "":
		return interpolatedModel{}, nil
	case Table:
		return tableModel{}, nil
	default:
		return nil, fmt.Errorf("unknown strategy %q", s)
	}
}

// ParseStrategy validates a strategy name. An empty name selects Interpolated.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case "", Interpolated:
		return Interpolated, nil
	case Table:
		return Table, nil
	default:
		return "", fmt.Errorf("unknown strategy %q (want %q or %q)", s, Interpolated, Table)
	}
}

// DomainError reports a rating (or rating/reps pair) the model has no data for.
type DomainError struct {
	Rating float64
	Reps   int
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("rpe: no coefficient for rating %g at %d reps", e.Rating, e.Reps)
}

// RangeError reports a numeric argument outside its documented bounds.
type RangeError struct {
	Field string
	Value float64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("rpe: %s %g out of range", e.Field, e.Value)
}

func checkReps(reps int) error {
	if reps < 1 || reps > MaxReps {
		return &RangeError{Field: "reps", Value: float64(reps)}
	}
	return nil
}

// linearFit is coefficient = slope*(reps-1) + intercept.
type linearFit struct {
	slope     float64
	intercept float64
}

func (f linearFit) at(reps int) float64 {
	return f.slope*float64(reps-1) + f.intercept
}

// Linear regressions of the chart data, one per integer RPE.
var fits = map[int]linearFit{
	5:  {slope: -0.0261, intercept: 0.828},
	6:  {slope: -0.026, intercept: 0.856},
	7:  {slope: -0.0262, intercept: 0.891},
	8:  {slope: -0.0259, intercept: 0.917},
	9:  {slope: -0.0262, intercept: 0.947},
	10: {slope: -0.0277, intercept: 0.993},
}

type interpolatedModel struct{}

func (interpolatedModel) RatingRange() (float64, float64) { return 5, 10 }

func (interpolatedModel) Coefficient(reps int, rating float64) (float64, error) {
	if err := checkReps(reps); err != nil {
		return 0, err
	}
	if math.IsNaN(rating) || rating < 5 || rating > 10 {
		return 0, &DomainError{Rating: rating, Reps: reps}
	}
	// The 10 RPE fit falls off too steeply near a single; pin the top of the
	// scale to the full max.
	if rating == 10 && reps == 1 {
		return 1, nil
	}

	lower := fits[int(math.Floor(rating))].at(reps)
	upper := fits[int(math.Ceil(rating))].at(reps)
	_, frac := math.Modf(rating)
	return lower + (upper-lower)*frac, nil
}

// chart[rpe][reps-1]
var chart = map[int][MaxReps]float64{
	10: {1, 0.96, 0.92, 0.89, 0.86, 0.84, 0.81, 0.79, 0.76, 0.74, 0.71, 0.69},
	9:  {0.96, 0.92, 0.89, 0.86, 0.84, 0.81, 0.79, 0.76, 0.74, 0.71, 0.69, 0.66},
	8:  {0.92, 0.89, 0.86, 0.84, 0.81, 0.79, 0.76, 0.74, 0.71, 0.68, 0.66, 0.63},
	7:  {0.89, 0.86, 0.84, 0.81, 0.79, 0.76, 0.74, 0.71, 0.68, 0.65, 0.63, 0.6},
	6:  {0.86, 0.83, 0.8, 0.78, 0.75, 0.73, 0.7, 0.67, 0.65, 0.62, 0.6, 0.57},
}

type tableModel struct{}

func (tableModel) RatingRange() (float64, float64) { return 6, 10 }

func (tableModel) Coefficient(reps int, rating float64) (float64, error) {
	if err := checkReps(reps); err != nil {
		return 0, err
	}
	if math.IsInf(rating, 0) || rating != math.Trunc(rating) {
		return 0, &DomainError{Rating: rating, Reps: reps}
	}
	row, ok := chart[int(rating)]
	if !ok {
		return 0, &DomainError{Rating: rating, Reps: reps}
	}
	return row[reps-1], nil
}
