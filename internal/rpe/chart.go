package rpe

// ChartCell is one rating column of a chart row.
type ChartCell struct {
	RPE         float64 `json:"rpe"`
	Coefficient float64 `json:"coefficient"`
	Weight      Result  `json:"weight"`
}

// ChartRow holds every rating for one rep count.
type ChartRow struct {
	Reps  int         `json:"reps"`
	Cells []ChartCell `json:"cells"`
}

// Ratings lists the ratings a model supports, highest first. Models that
// accept fractional ratings are listed in half steps.
func Ratings(m Model) []float64 {
	lo, hi := m.RatingRange()
	step := 1.0
	if _, err := m.Coefficient(1, lo+0.5); err == nil {
		step = 0.5
	}
	var out []float64
	for r := hi; r >= lo; r -= step {
		out = append(out, r)
	}
	return out
}

// BuildChart computes the reps x RPE grid of coefficients. When oneRepMax is
// valid each cell also carries the projected weight rounded to increment.
func BuildChart(m Model, oneRepMax Result, increment float64) ([]ChartRow, error) {
	ratings := Ratings(m)
	rows := make([]ChartRow, 0, MaxReps)
	for reps := 1; reps <= MaxReps; reps++ {
		row := ChartRow{Reps: reps, Cells: make([]ChartCell, 0, len(ratings))}
		for _, rating := range ratings {
			c, err := m.Coefficient(reps, rating)
			if err != nil {
				return nil, err
			}
			w, err := TargetWeight(m, oneRepMax, reps, rating, increment)
			if err != nil {
				return nil, err
			}
			row.Cells = append(row.Cells, ChartCell{RPE: rating, Coefficient: c, Weight: w})
		}
		rows = append(rows, row)
	}
	return rows, nil
}
