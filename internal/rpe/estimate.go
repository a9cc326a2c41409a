package rpe

import (
	"encoding/json"
	"math"
)

// Result is a computed weight. The zero value means the inputs were not yet
// sufficient to compute one (for example mid-entry), which is an expected
// state rather than an error.
type Result struct {
	Value float64
	Valid bool
}

// NotComputable is the "no result yet" value.
var NotComputable = Result{}

// Of wraps a computed value.
func Of(v float64) Result {
	return Result{Value: v, Valid: true}
}

// Ptr returns nil for a result that could not be computed.
func (r Result) Ptr() *float64 {
	if !r.Valid {
		return nil
	}
	v := r.Value
	return &v
}

// MarshalJSON encodes the value as a number, or null when not computable.
func (r Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Ptr())
}

// UnmarshalJSON accepts a number or null.
func (r *Result) UnmarshalJSON(data []byte) error {
	var v *float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if v == nil {
		*r = NotComputable
		return nil
	}
	*r = Of(*v)
	return nil
}

// RoundToNearest rounds v to the nearest multiple of increment.
func RoundToNearest(v, increment float64) float64 {
	return math.Round(v/increment) * increment
}

// EstimateOneRepMax returns weight divided by the coefficient for reps at rating.
// Zero weight, reps or rating are treated as not yet entered.
func EstimateOneRepMax(m Model, weight float64, reps int, rating float64) (Result, error) {
	if weight == 0 || reps == 0 || rating == 0 {
		return NotComputable, nil
	}
	if weight < 0 || math.IsNaN(weight) || math.IsInf(weight, 0) {
		return NotComputable, &RangeError{Field: "weight", Value: weight}
	}
	c, err := m.Coefficient(reps, rating)
	if err != nil {
		return NotComputable, err
	}
	if c <= 0 {
		return NotComputable, nil
	}
	return Of(weight / c), nil
}

// TargetWeight projects a one-rep max onto reps at rating, rounded to the
// nearest multiple of increment.
func TargetWeight(m Model, oneRepMax Result, reps int, rating, increment float64) (Result, error) {
	if !oneRepMax.Valid || reps == 0 || rating == 0 {
		return NotComputable, nil
	}
	if increment <= 0 || math.IsNaN(increment) || math.IsInf(increment, 0) {
		return NotComputable, &RangeError{Field: "increment", Value: increment}
	}
	c, err := m.Coefficient(reps, rating)
	if err != nil {
		return NotComputable, err
	}
	return Of(RoundToNearest(oneRepMax.Value*c, increment)), nil
}
