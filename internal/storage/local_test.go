package storage

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/claude/rpecalc/internal/models"
	"github.com/claude/rpecalc/internal/plates"
	"github.com/claude/rpecalc/internal/rpe"
)

func openTestStore(t *testing.T) *LocalStore {
	t.Helper()
	s, err := OpenLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("OpenLocalStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// TestLocalStoreDefaults verifies an empty store returns the defaults.
func TestLocalStoreDefaults(t *testing.T) {
	s := openTestStore(t)
	got, err := s.GetPreferences(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := models.DefaultPreferences()
	if got.Units != want.Units || got.Rounding != want.Rounding || got.Strategy != want.Strategy {
		t.Errorf("defaults = %+v, want %+v", got, want)
	}
}

// TestLocalStoreSaveAndLoad verifies saved preferences survive a round trip,
// including plate selections and reopened databases.
func TestLocalStoreSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := OpenLocalStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	in := models.Preferences{
		Units:       plates.Kilograms,
		Collars:     true,
		KiloPlates:  []float64{20, 10, 2.5, 1.25},
		PoundPlates: []float64{45, 25, 5},
		Rounding:    2.5,
		Strategy:    rpe.Table,
	}
	saved, err := s.SavePreferences(ctx, in)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if saved.UpdatedAt.IsZero() {
		t.Error("updated_at not set")
	}
	s.Close()

	s, err = OpenLocalStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	got, err := s.GetPreferences(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Units != plates.Kilograms || !got.Collars || got.Rounding != 2.5 || got.Strategy != rpe.Table {
		t.Errorf("loaded = %+v", got)
	}
	if !slices.Equal(got.KiloPlates, in.KiloPlates) || !slices.Equal(got.PoundPlates, in.PoundPlates) {
		t.Errorf("plates = %v / %v, want %v / %v", got.KiloPlates, got.PoundPlates, in.KiloPlates, in.PoundPlates)
	}
	if !got.UpdatedAt.Equal(saved.UpdatedAt) {
		t.Errorf("updated_at = %v, want %v", got.UpdatedAt, saved.UpdatedAt)
	}
}

// TestLocalStoreRejectsInvalid verifies invalid preferences are not written.
func TestLocalStoreRejectsInvalid(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	p := models.DefaultPreferences()
	p.KiloPlates = []float64{7}
	if _, err := s.SavePreferences(ctx, p); !errors.Is(err, models.ErrInvalidPreferences) {
		t.Fatalf("error = %v, want ErrInvalidPreferences", err)
	}

	got, err := s.GetPreferences(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if slices.Contains(got.KiloPlates, 7) {
		t.Error("invalid plates were stored")
	}
}
