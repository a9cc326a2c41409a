package rpe

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
)

func mustModel(t *testing.T, s Strategy) Model {
	t.Helper()
	m, err := New(s)
	if err != nil {
		t.Fatalf("New(%q): %v", s, err)
	}
	return m
}

func approx(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

// TestCoefficientBounds verifies every supported (reps, rating) pair yields a
// coefficient in (0, 1] for both strategies.
func TestCoefficientBounds(t *testing.T) {
	for _, s := range []Strategy{Interpolated, Table} {
		m := mustModel(t, s)
		for _, rating := range Ratings(m) {
			for reps := 1; reps <= MaxReps; reps++ {
				c, err := m.Coefficient(reps, rating)
				if err != nil {
					t.Fatalf("%s: Coefficient(%d, %g): %v", s, reps, rating, err)
				}
				if c <= 0 || c > 1 {
					t.Errorf("%s: Coefficient(%d, %g) = %g, want in (0, 1]", s, reps, rating, c)
				}
			}
		}
	}
}

// TestCoefficientMonotonic verifies coefficients never rise with more reps and
// never fall with a harder rating.
func TestCoefficientMonotonic(t *testing.T) {
	for _, s := range []Strategy{Interpolated, Table} {
		m := mustModel(t, s)
		ratings := Ratings(m)
		for _, rating := range ratings {
			prev := math.Inf(1)
			for reps := 1; reps <= MaxReps; reps++ {
				c, _ := m.Coefficient(reps, rating)
				if c > prev {
					t.Errorf("%s: rating %g: reps %d coefficient %g > reps %d coefficient %g", s, rating, reps, c, reps-1, prev)
				}
				prev = c
			}
		}
		for reps := 1; reps <= MaxReps; reps++ {
			prev := math.Inf(1)
			// ratings are listed highest first
			for _, rating := range ratings {
				c, _ := m.Coefficient(reps, rating)
				if c > prev {
					t.Errorf("%s: reps %d: rating %g coefficient %g above the next harder rating (%g)", s, reps, rating, c, prev)
				}
				prev = c
			}
		}
	}
}

// TestInterpolatedTopOfScale verifies a single at RPE 10 is exactly the full max,
// not the raw fit output.
func TestInterpolatedTopOfScale(t *testing.T) {
	m := mustModel(t, Interpolated)
	c, err := m.Coefficient(1, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c != 1.0 {
		t.Errorf("Coefficient(1, 10) = %v, want exactly 1", c)
	}
}

// TestInterpolatedValues checks integer points against the fits and a
// fractional rating against the midpoint of its neighbours.
func TestInterpolatedValues(t *testing.T) {
	m := mustModel(t, Interpolated)
	cases := []struct {
		reps   int
		rating float64
		want   float64
	}{
		{5, 8, 0.8134},
		{5, 9, 0.8422},
		{5, 8.5, 0.8278},
		{12, 7, 0.6028},
		{1, 5, 0.828},
		{2, 10, 0.9653},
		{1, 9.5, 0.97},
	}
	for _, tc := range cases {
		got, err := m.Coefficient(tc.reps, tc.rating)
		if err != nil {
			t.Fatalf("Coefficient(%d, %g): %v", tc.reps, tc.rating, err)
		}
		if !approx(got, tc.want, 1e-9) {
			t.Errorf("Coefficient(%d, %g) = %v, want %v", tc.reps, tc.rating, got, tc.want)
		}
	}
}

// TestTableValues spot-checks the fixed chart.
func TestTableValues(t *testing.T) {
	m := mustModel(t, Table)
	cases := []struct {
		reps   int
		rating float64
		want   float64
	}{
		{1, 10, 1},
		{5, 8, 0.81},
		{12, 7, 0.60},
		{12, 6, 0.57},
		{3, 9, 0.89},
	}
	for _, tc := range cases {
		got, err := m.Coefficient(tc.reps, tc.rating)
		if err != nil {
			t.Fatalf("Coefficient(%d, %g): %v", tc.reps, tc.rating, err)
		}
		if got != tc.want {
			t.Errorf("Coefficient(%d, %g) = %v, want %v", tc.reps, tc.rating, got, tc.want)
		}
	}
}

// TestCoefficientErrors verifies out-of-domain ratings surface as DomainError
// and out-of-bounds reps as RangeError.
func TestCoefficientErrors(t *testing.T) {
	cases := []struct {
		strategy  Strategy
		reps      int
		rating    float64
		wantRange bool
	}{
		{Interpolated, 13, 8, true},
		{Interpolated, 0, 8, true},
		{Interpolated, -2, 8, true},
		{Interpolated, 5, 4.5, false},
		{Interpolated, 5, 10.5, false},
		{Interpolated, 5, math.NaN(), false},
		{Table, 13, 8, true},
		{Table, 5, 5, false},
		{Table, 5, 8.5, false},
		{Table, 5, 11, false},
	}
	for _, tc := range cases {
		m := mustModel(t, tc.strategy)
		_, err := m.Coefficient(tc.reps, tc.rating)
		if err == nil {
			t.Errorf("%s: Coefficient(%d, %g): expected error", tc.strategy, tc.reps, tc.rating)
			continue
		}
		var re *RangeError
		var de *DomainError
		if tc.wantRange && !errors.As(err, &re) {
			t.Errorf("%s: Coefficient(%d, %g) error = %v, want RangeError", tc.strategy, tc.reps, tc.rating, err)
		}
		if !tc.wantRange && !errors.As(err, &de) {
			t.Errorf("%s: Coefficient(%d, %g) error = %v, want DomainError", tc.strategy, tc.reps, tc.rating, err)
		}
	}
}

// TestEstimateOneRepMaxTable reproduces the worked example: 100 for 5 at RPE 8
// with the fixed chart is 100 / 0.81.
func TestEstimateOneRepMaxTable(t *testing.T) {
	m := mustModel(t, Table)
	got, err := EstimateOneRepMax(m, 100, 5, 8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Valid {
		t.Fatal("expected a computable result")
	}
	if !approx(got.Value, 123.46, 0.005) {
		t.Errorf("e1RM = %v, want ~123.46", got.Value)
	}
}

// TestTargetWeightRounds verifies 123.46 projected onto a single at RPE 10
// rounds up to the nearest 5.
func TestTargetWeightRounds(t *testing.T) {
	for _, s := range []Strategy{Interpolated, Table} {
		m := mustModel(t, s)
		got, err := TargetWeight(m, Of(123.46), 1, 10, 5)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", s, err)
		}
		if !got.Valid || got.Value != 125 {
			t.Errorf("%s: TargetWeight = %+v, want 125", s, got)
		}
	}
}

// TestRoundTrip verifies estimating and projecting back onto the same
// reps/rating recovers the original weight modulo rounding.
func TestRoundTrip(t *testing.T) {
	weights := []float64{100, 87.3, 140, 61.2}
	increments := []float64{5, 2.5, 1}
	for _, s := range []Strategy{Interpolated, Table} {
		m := mustModel(t, s)
		for _, w := range weights {
			for _, inc := range increments {
				for _, rating := range Ratings(m) {
					for reps := 1; reps <= MaxReps; reps++ {
						e1rm, err := EstimateOneRepMax(m, w, reps, rating)
						if err != nil {
							t.Fatalf("estimate: %v", err)
						}
						got, err := TargetWeight(m, e1rm, reps, rating, inc)
						if err != nil {
							t.Fatalf("target: %v", err)
						}
						want := RoundToNearest(w, inc)
						if !approx(got.Value, want, 1e-9) {
							t.Errorf("%s: round trip %g x%d @%g (inc %g) = %v, want %v", s, w, reps, rating, inc, got.Value, want)
						}
					}
				}
			}
		}
	}
}

// TestNotComputable verifies absent inputs produce the "no result yet" value
// rather than an error.
func TestNotComputable(t *testing.T) {
	m := mustModel(t, Interpolated)
	cases := []struct {
		name   string
		weight float64
		reps   int
		rating float64
	}{
		{"no weight", 0, 5, 8},
		{"no reps", 100, 0, 8},
		{"no rating", 100, 5, 0},
	}
	for _, tc := range cases {
		got, err := EstimateOneRepMax(m, tc.weight, tc.reps, tc.rating)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", tc.name, err)
		}
		if got.Valid {
			t.Errorf("%s: expected not computable, got %v", tc.name, got.Value)
		}
	}

	got, err := TargetWeight(m, NotComputable, 3, 9, 5)
	if err != nil || got.Valid {
		t.Errorf("TargetWeight(not computable) = %+v, %v; want not computable, nil", got, err)
	}
}

// TestEstimateRangeErrors verifies negative weights and bad increments are
// contract violations.
func TestEstimateRangeErrors(t *testing.T) {
	m := mustModel(t, Interpolated)
	var re *RangeError

	if _, err := EstimateOneRepMax(m, -5, 5, 8); !errors.As(err, &re) || re.Field != "weight" {
		t.Errorf("negative weight error = %v, want weight RangeError", err)
	}
	if _, err := TargetWeight(m, Of(100), 5, 8, 0); !errors.As(err, &re) || re.Field != "increment" {
		t.Errorf("zero increment error = %v, want increment RangeError", err)
	}
	var de *DomainError
	if _, err := EstimateOneRepMax(m, 100, 5, 1); !errors.As(err, &de) {
		t.Errorf("rating 1 error = %v, want DomainError", err)
	}
}

// TestRoundToNearest covers the offered rounding increments.
func TestRoundToNearest(t *testing.T) {
	cases := []struct {
		v, inc, want float64
	}{
		{123.46, 5, 125},
		{122.4, 2.5, 122.5},
		{101.6, 1, 102},
		{101.234, 0.01, 101.23},
		{2.4, 5, 0},
	}
	for _, tc := range cases {
		if got := RoundToNearest(tc.v, tc.inc); !approx(got, tc.want, 1e-9) {
			t.Errorf("RoundToNearest(%g, %g) = %v, want %v", tc.v, tc.inc, got, tc.want)
		}
	}
}

// TestResultJSON verifies not-computable results encode as null.
func TestResultJSON(t *testing.T) {
	out, err := json.Marshal(map[string]Result{"a": Of(102.5), "b": NotComputable})
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != `{"a":102.5,"b":null}` {
		t.Errorf("json = %s", out)
	}

	var back map[string]Result
	if err := json.Unmarshal(out, &back); err != nil {
		t.Fatal(err)
	}
	if !back["a"].Valid || back["a"].Value != 102.5 || back["b"].Valid {
		t.Errorf("decoded = %+v", back)
	}
}

// TestParseStrategy covers defaults and rejection of unknown names.
func TestParseStrategy(t *testing.T) {
	if s, err := ParseStrategy(""); err != nil || s != Interpolated {
		t.Errorf("ParseStrategy(\"\") = %q, %v", s, err)
	}
	if s, err := ParseStrategy("table"); err != nil || s != Table {
		t.Errorf("ParseStrategy(table) = %q, %v", s, err)
	}
	if _, err := ParseStrategy("epley"); err == nil {
		t.Error("expected error for unknown strategy")
	}
	if _, err := New("epley"); err == nil {
		t.Error("expected error from New for unknown strategy")
	}
}
