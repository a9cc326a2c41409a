package plates

import (
	"errors"
	"math"
	"slices"
	"testing"
)

// TestDecomposeWorkedExample traces 143 kg on a 20 kg bar without collars:
// 123 to load, two 25s, a 10, a 1.25 and a 0.25 per side.
func TestDecomposeWorkedExample(t *testing.T) {
	got := Decompose(143, Kilograms.StandardPlates(), 20, 0)
	want := []float64{25, 25, 10, 1.25, 0.25}
	if !slices.Equal(got.Plates, want) {
		t.Errorf("plates = %v, want %v", got.Plates, want)
	}
	if got.Achieved != 143 {
		t.Errorf("achieved = %v, want 143", got.Achieved)
	}
}

// TestDecomposeRoundsDown verifies a weight that cannot be made exactly is
// loaded to the next lighter achievable weight.
func TestDecomposeRoundsDown(t *testing.T) {
	cases := []struct {
		name    string
		target  float64
		unit    Unit
		collars bool
		plates  []float64
		achieve float64
	}{
		{"kg odd", 101.3, Kilograms, false, []float64{25, 15, 0.5}, 101},
		{"kg collars", 100, Kilograms, true, []float64{25, 10, 2.5}, 100},
		{"lb", 227, Pounds, false, []float64{55, 35, 0.5, 0.5}, 227},
		{"lb collars", 315, Pounds, true, []float64{55, 55, 10, 5, 2.5, 1.25, 0.5}, 314.5},
	}
	for _, tc := range cases {
		got := Load(tc.target, tc.unit, tc.collars, nil)
		if !slices.Equal(got.Plates, tc.plates) {
			t.Errorf("%s: plates = %v, want %v", tc.name, got.Plates, tc.plates)
		}
		if got.Achieved != tc.achieve {
			t.Errorf("%s: achieved = %v, want %v", tc.name, got.Achieved, tc.achieve)
		}
		if got.Achieved > tc.target {
			t.Errorf("%s: achieved %v exceeds target %v", tc.name, got.Achieved, tc.target)
		}
	}
}

// TestDecomposeNeverExceedsTarget sweeps targets above the empty bar in
// quarter steps for both units, with and without collars.
func TestDecomposeNeverExceedsTarget(t *testing.T) {
	for _, unit := range []Unit{Kilograms, Pounds} {
		for _, collars := range []bool{false, true} {
			floor := unit.BarWeight() + unit.CollarWeight(collars)
			for target := floor; target <= floor+400; target += 0.25 {
				got := Load(target, unit, collars, nil)
				if got.Achieved > target {
					t.Fatalf("%s collars=%v: Load(%v).Achieved = %v", unit, collars, target, got.Achieved)
				}
			}
		}
	}
}

// TestDecomposeIdempotent verifies loading the achieved weight again gives the
// same plates.
func TestDecomposeIdempotent(t *testing.T) {
	subsets := [][]float64{
		nil,
		{20, 10, 5, 1.25},
		{15, 2.5},
	}
	for _, inv := range subsets {
		for target := 20.0; target <= 300; target += 0.75 {
			first := Load(target, Kilograms, false, inv)
			second := Load(first.Achieved, Kilograms, false, inv)
			if !slices.Equal(first.Plates, second.Plates) {
				t.Fatalf("inventory %v target %v: %v then %v", inv, target, first.Plates, second.Plates)
			}
			if first.Achieved != second.Achieved {
				t.Fatalf("inventory %v target %v: achieved %v then %v", inv, target, first.Achieved, second.Achieved)
			}
		}
	}
}

// TestDecomposeBoundaries covers the not-given sentinel and targets lighter
// than the bar.
func TestDecomposeBoundaries(t *testing.T) {
	got := Decompose(0, Kilograms.StandardPlates(), 20, 0)
	if len(got.Plates) != 0 || got.Achieved != 0 {
		t.Errorf("not given = %+v, want empty and 0", got)
	}
	if got.Plates == nil {
		t.Error("plates should be an empty slice, not nil")
	}

	got = Decompose(15, Kilograms.StandardPlates(), 20, 0)
	if len(got.Plates) != 0 || got.Achieved != 20 {
		t.Errorf("below bar = %+v, want empty and 20", got)
	}

	got = Decompose(-10, Kilograms.StandardPlates(), 20, 0)
	if len(got.Plates) != 0 || got.Achieved != 0 {
		t.Errorf("negative target = %+v, want empty and 0", got)
	}
}

// TestDecomposeSortsAndFiltersInventory verifies an unordered inventory is
// used heaviest first, is not reordered in place, and ignores non-positive
// sizes.
func TestDecomposeSortsAndFiltersInventory(t *testing.T) {
	inv := []float64{2.5, 0, 20, -5, 10}
	got := Decompose(85, inv, 20, 0)
	want := []float64{20, 10, 2.5}
	if !slices.Equal(got.Plates, want) {
		t.Errorf("plates = %v, want %v", got.Plates, want)
	}
	if !slices.Equal(inv, []float64{2.5, 0, 20, -5, 10}) {
		t.Errorf("inventory was modified: %v", inv)
	}
}

// TestDisplayWeight verifies the display clamp for each unit/collar
// combination.
func TestDisplayWeight(t *testing.T) {
	cases := []struct {
		unit     Unit
		collars  bool
		achieved float64
		want     float64
	}{
		{Kilograms, true, 0, 25},
		{Kilograms, false, 0, 20},
		{Pounds, true, 0, 56},
		{Pounds, false, 0, 45},
		{Kilograms, false, 142.5, 142.5},
		{Pounds, true, 20, 56},
	}
	for _, tc := range cases {
		if got := DisplayWeight(tc.achieved, tc.unit, tc.collars); got != tc.want {
			t.Errorf("DisplayWeight(%v, %s, %v) = %v, want %v", tc.achieved, tc.unit, tc.collars, got, tc.want)
		}
	}
}

// TestParseUnit covers accepted spellings.
func TestParseUnit(t *testing.T) {
	for in, want := range map[string]Unit{"kg": Kilograms, "Kilos": Kilograms, " lbs ": Pounds, "pounds": Pounds} {
		got, err := ParseUnit(in)
		if err != nil || got != want {
			t.Errorf("ParseUnit(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseUnit("stone"); err == nil {
		t.Error("expected error for unknown unit")
	}
}

// TestValidateInventory verifies only standard sizes are accepted.
func TestValidateInventory(t *testing.T) {
	if err := ValidateInventory(Kilograms, []float64{25, 1.25}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateInventory(Kilograms, []float64{55}); err == nil {
		t.Error("expected error for 55 kg plate")
	}
	if err := ValidateInventory(Pounds, []float64{45, 0.25}); err == nil {
		t.Error("expected error for 0.25 lb plate")
	}
}

// TestCheckLoad verifies the upper bound on what callers may ask to load.
func TestCheckLoad(t *testing.T) {
	for _, w := range []float64{0, 143, MaxLoad} {
		if err := CheckLoad(w); err != nil {
			t.Errorf("CheckLoad(%v) = %v, want nil", w, err)
		}
	}
	for _, w := range []float64{MaxLoad + 0.25, 1e9, math.Inf(1)} {
		if err := CheckLoad(w); !errors.Is(err, ErrTooHeavy) {
			t.Errorf("CheckLoad(%v) = %v, want ErrTooHeavy", w, err)
		}
	}
}
