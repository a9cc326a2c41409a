package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/claude/rpecalc/internal/calculator"
	"github.com/claude/rpecalc/internal/models"
	"github.com/claude/rpecalc/internal/plates"
	"github.com/claude/rpecalc/internal/rpe"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	var in calculator.Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	prefs, m, ok := s.prefsAndModel(w, r)
	if !ok {
		return
	}

	if in.Units == "" {
		in.Units = prefs.Units
	} else if u, err := plates.ParseUnit(string(in.Units)); err == nil {
		in.Units = u
	}
	if in.Collars == nil {
		in.Collars = &prefs.Collars
	}
	if in.Plates == nil {
		in.Plates = prefs.Inventory(in.Units)
	}
	if in.Rounding == 0 {
		in.Rounding = prefs.Rounding
	}

	out, err := calculator.Calculate(m, in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCoefficient(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	reps, err := strconv.Atoi(q.Get("reps"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "reps parameter must be an integer"})
		return
	}
	rating, err := queryFloat(r, "rpe")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	prefs, m, ok := s.prefsAndModel(w, r)
	if !ok {
		return
	}
	coef, err := m.Coefficient(reps, rating)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"reps":        reps,
		"rpe":         rating,
		"coefficient": coef,
		"strategy":    prefs.Strategy,
	})
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	prefs, m, ok := s.prefsAndModel(w, r)
	if !ok {
		return
	}

	oneRM := rpe.NotComputable
	if r.URL.Query().Has("e1rm") {
		v, err := queryFloat(r, "e1rm")
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		if v > 0 {
			oneRM = rpe.Of(v)
		}
	}
	rounding := prefs.Rounding
	if r.URL.Query().Has("rounding") {
		v, err := queryFloat(r, "rounding")
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		rounding = v
	}

	rows, err := rpe.BuildChart(m, oneRM, rounding)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handlePlates(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	weight, err := queryFloat(r, "weight")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if err := plates.CheckLoad(weight); err != nil {
		s.writeError(w, r, err)
		return
	}

	prefs, err := s.store.GetPreferences(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	units := prefs.Units
	if v := q.Get("units"); v != "" {
		if units, err = plates.ParseUnit(v); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
	}
	collars := prefs.Collars
	if v := q.Get("collars"); v != "" {
		if collars, err = strconv.ParseBool(v); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "collars parameter must be true or false"})
			return
		}
	}

	loadout := plates.Load(weight, units, collars, prefs.Inventory(units))
	writeJSON(w, http.StatusOK, map[string]any{
		"units":          units,
		"collars":        collars,
		"bar_weight":     units.BarWeight(),
		"collar_weight":  units.CollarWeight(collars),
		"plates":         loadout.Plates,
		"achieved":       loadout.Achieved,
		"display_weight": plates.DisplayWeight(loadout.Achieved, units, collars),
	})
}

func (s *Server) handleGetPreferences(w http.ResponseWriter, r *http.Request) {
	prefs, err := s.store.GetPreferences(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, prefs)
}

func (s *Server) handlePutPreferences(w http.ResponseWriter, r *http.Request) {
	var p models.Preferences
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	saved, err := s.store.SavePreferences(r.Context(), p)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.log.Info("preferences saved", "units", saved.Units, "strategy", saved.Strategy)
	writeJSON(w, http.StatusOK, saved)
}

// prefsAndModel loads preferences and the model for the request. A strategy
// query parameter overrides the saved one and is reflected in the returned
// preferences. On failure the response has been
// written and ok is false.
func (s *Server) prefsAndModel(w http.ResponseWriter, r *http.Request) (prefs models.Preferences, m rpe.Model, ok bool) {
	prefs, err := s.store.GetPreferences(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return prefs, nil, false
	}

	strategy := prefs.Strategy
	if v := r.URL.Query().Get("strategy"); v != "" {
		if strategy, err = rpe.ParseStrategy(v); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return prefs, nil, false
		}
	}
	if m, err = rpe.New(strategy); err != nil {
		s.writeError(w, r, err)
		return prefs, nil, false
	}
	prefs.Strategy = strategy
	return prefs, m, true
}

// writeError maps domain and validation errors to 400 and everything else
// to 500.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		de *rpe.DomainError
		re *rpe.RangeError
	)
	if errors.As(err, &de) || errors.As(err, &re) || errors.Is(err, models.ErrInvalidPreferences) ||
		errors.Is(err, plates.ErrTooHeavy) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	s.log.Error("request failed", "path", r.URL.Path, "request_id", requestIDFromContext(r.Context()), "error", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func queryFloat(r *http.Request, name string) (float64, error) {
	v, err := strconv.ParseFloat(r.URL.Query().Get(name), 64)
	if err != nil {
		return 0, fmt.Errorf("%s parameter must be a number", name)
	}
	return v, nil
}
