// Package calculator runs the full screen flow: validate the entered set,
// estimate a max, project a target and load the bar for it.
package calculator

import (
	"errors"
	"fmt"

	"github.com/claude/rpecalc/internal/plates"
	"github.com/claude/rpecalc/internal/rpe"
)

// DefaultRounding and DefaultMultiplier apply when the input leaves them unset.
const (
	DefaultRounding   = 5.0
	DefaultMultiplier = 100.0
)

// Input is one snapshot of the entered values. Zero values mean "not entered".
type Input struct {
	StartingWeight float64 `json:"starting_weight"`
	StartingReps   int     `json:"starting_reps"`
	StartingRPE    float64 `json:"starting_rpe"`
	TargetReps     int     `json:"target_reps"`
	TargetRPE      float64 `json:"target_rpe"`

	// Rounding is the target weight increment.
	Rounding float64 `json:"rounding,omitempty"`
	// E1RMMultiplier is a percentage applied to the e1RM for display.
	E1RMMultiplier float64 `json:"e1rm_multiplier,omitempty"`

	// BarWeight, when set, is loaded instead of the target weight.
	BarWeight *float64    `json:"bar_weight,omitempty"`
	Units     plates.Unit `json:"units,omitempty"`
	Collars   *bool       `json:"collars,omitempty"`
	Plates    []float64   `json:"plates,omitempty"`
}

// FieldErrors maps an input field to a user-facing message.
type FieldErrors map[string]string

// Output holds everything derived from an Input.
type Output struct {
	E1RM          rpe.Result     `json:"e1rm"`
	ScaledE1RM    rpe.Result     `json:"scaled_e1rm"`
	TargetWeight  rpe.Result     `json:"target_weight"`
	Loadout       plates.Loadout `json:"loadout"`
	DisplayWeight float64        `json:"display_weight"`

	// ScaledLoadout loads the bar at ScaledE1RM, for working up to a
	// percentage of the max.
	ScaledLoadout       plates.Loadout `json:"scaled_loadout"`
	ScaledDisplayWeight float64        `json:"scaled_display_weight"`

	Units  plates.Unit `json:"units"`
	Errors FieldErrors `json:"errors,omitempty"`
}

// Validate reports per-field problems with the input against the model's
// supported domain.
func Validate(m rpe.Model, in Input) FieldErrors {
	errs := FieldErrors{}
	lo, hi := m.RatingRange()

	switch {
	case in.StartingWeight < 0:
		errs["starting_weight"] = "Weight must be greater than 0"
	case in.StartingWeight > plates.MaxLoad:
		errs["starting_weight"] = tooHeavy
	}
	if in.StartingReps < 0 || in.StartingReps > rpe.MaxReps {
		errs["starting_reps"] = fmt.Sprintf("Reps must be between 1 and %d", rpe.MaxReps)
	}
	if in.StartingRPE != 0 && !ratingOK(m, in.StartingRPE) {
		errs["starting_rpe"] = fmt.Sprintf("RPE must be between %g and %g", lo, hi)
	}
	if in.TargetReps < 0 || in.TargetReps > rpe.MaxReps {
		errs["target_reps"] = fmt.Sprintf("Reps must be between 1 and %d", rpe.MaxReps)
	}
	if in.TargetRPE != 0 && !ratingOK(m, in.TargetRPE) {
		errs["target_rpe"] = fmt.Sprintf("RPE must be between %g and %g", lo, hi)
	}
	if in.Rounding < 0 {
		errs["rounding"] = "Rounding must be greater than 0"
	}
	if in.E1RMMultiplier < 0 {
		errs["e1rm_multiplier"] = "Multiplier must be greater than 0"
	}
	if in.BarWeight != nil {
		switch {
		case *in.BarWeight < 0:
			errs["bar_weight"] = "Bar weight must be greater than 0"
		case *in.BarWeight > plates.MaxLoad:
			errs["bar_weight"] = tooHeavy
		}
	}
	switch units := unitsOrDefault(in.Units); {
	case units != plates.Kilograms && units != plates.Pounds:
		errs["units"] = "Units must be kg or lb"
	case plates.ValidateInventory(units, in.Plates) != nil:
		errs["plates"] = fmt.Sprintf("Plates must be standard %s sizes", units)
	}
	return errs
}

// ratingOK asks the model itself, so table models reject half steps.
func ratingOK(m rpe.Model, rating float64) bool {
	_, err := m.Coefficient(1, rating)
	var de *rpe.DomainError
	return !errors.As(err, &de)
}

// Calculate validates the input and computes every result the inputs allow.
// Fields with errors leave their dependent results not computable.
func Calculate(m rpe.Model, in Input) (Output, error) {
	errs := Validate(m, in)

	rounding := in.Rounding
	if rounding == 0 {
		rounding = DefaultRounding
	}
	multiplier := in.E1RMMultiplier
	if multiplier == 0 {
		multiplier = DefaultMultiplier
	}
	units := unitsOrDefault(in.Units)
	collars := in.Collars != nil && *in.Collars

	out := Output{
		Units:         units,
		Loadout:       plates.Loadout{Plates: []float64{}},
		ScaledLoadout: plates.Loadout{Plates: []float64{}},
	}

	if !errs.has("starting_weight", "starting_reps", "starting_rpe") {
		e1rm, err := rpe.EstimateOneRepMax(m, in.StartingWeight, in.StartingReps, in.StartingRPE)
		if err != nil {
			return Output{}, fmt.Errorf("estimating e1RM: %w", err)
		}
		out.E1RM = e1rm
	}
	if out.E1RM.Valid && !errs.has("e1rm_multiplier") {
		out.ScaledE1RM = rpe.Of(out.E1RM.Value * multiplier / 100)
	}
	if !errs.has("target_reps", "target_rpe", "rounding") {
		target, err := rpe.TargetWeight(m, out.E1RM, in.TargetReps, in.TargetRPE, rounding)
		if err != nil {
			return Output{}, fmt.Errorf("projecting target weight: %w", err)
		}
		out.TargetWeight = target
	}

	if !errs.has("bar_weight", "units", "plates") {
		load, field := 0.0, "bar_weight"
		switch {
		case in.BarWeight != nil:
			load = *in.BarWeight
		case out.TargetWeight.Valid:
			load, field = out.TargetWeight.Value, "target_weight"
		}
		if plates.CheckLoad(load) != nil {
			errs[field] = tooHeavy
		} else {
			out.Loadout = plates.Load(load, units, collars, in.Plates)
		}
		out.DisplayWeight = plates.DisplayWeight(out.Loadout.Achieved, units, collars)

		if out.ScaledE1RM.Valid {
			if plates.CheckLoad(out.ScaledE1RM.Value) != nil {
				errs["scaled_e1rm"] = tooHeavy
			} else {
				out.ScaledLoadout = plates.Load(out.ScaledE1RM.Value, units, collars, in.Plates)
			}
		}
		out.ScaledDisplayWeight = plates.DisplayWeight(out.ScaledLoadout.Achieved, units, collars)
	}

	if len(errs) > 0 {
		out.Errors = errs
	}
	return out, nil
}

var tooHeavy = fmt.Sprintf("Weight must be at most %g", plates.MaxLoad)

// unitsOrDefault treats unset units as pounds.
func unitsOrDefault(u plates.Unit) plates.Unit {
	if u == "" {
		return plates.Pounds
	}
	return u
}

func (e FieldErrors) has(fields ...string) bool {
	for _, f := range fields {
		if _, ok := e[f]; ok {
			return true
		}
	}
	return false
}
