package mcp

import (
	"context"

	"github.com/claude/rpecalc/internal/calculator"
	"github.com/claude/rpecalc/internal/plates"
	"github.com/claude/rpecalc/internal/rpe"
	"github.com/mark3labs/mcp-go/mcp"
)

// --- Tool definitions ---

var strategyOption = mcp.WithString("strategy",
	mcp.Description("Coefficient model. Defaults to the saved preference."),
	mcp.Enum(string(rpe.Interpolated), string(rpe.Table)))

var toolEstimateOneRepMax = mcp.NewTool("estimate_one_rep_max",
	mcp.WithDescription("Estimate a one-rep max (e1RM) from a set of reps performed at a given RPE."),
	mcp.WithNumber("weight", mcp.Required(), mcp.Description("Weight lifted for the set"), mcp.Min(0)),
	mcp.WithNumber("reps", mcp.Required(), mcp.Description("Reps performed (1-12)"), mcp.Min(1), mcp.Max(rpe.MaxReps)),
	mcp.WithNumber("rpe", mcp.Required(), mcp.Description("Rated perceived exertion of the set (5-10; the table model accepts whole numbers 6-10)")),
	strategyOption,
)

var toolTargetWeight = mcp.NewTool("target_weight",
	mcp.WithDescription("Project an e1RM onto a target rep count and RPE, rounded to the given increment."),
	mcp.WithNumber("e1rm", mcp.Required(), mcp.Description("Estimated one-rep max"), mcp.Min(0)),
	mcp.WithNumber("reps", mcp.Required(), mcp.Description("Target reps (1-12)"), mcp.Min(1), mcp.Max(rpe.MaxReps)),
	mcp.WithNumber("rpe", mcp.Required(), mcp.Description("Target RPE")),
	mcp.WithNumber("rounding", mcp.Description("Rounding increment (e.g. 5, 2.5, 1, 0.01). Defaults to the saved preference.")),
	strategyOption,
)

var toolLoadBar = mcp.NewTool("load_bar",
	mcp.WithDescription("Work out the plates for each side of a barbell to reach a weight. Loads down to the nearest achievable weight."),
	mcp.WithNumber("weight", mcp.Required(), mcp.Description("Total bar weight wanted"), mcp.Min(0)),
	mcp.WithString("units", mcp.Description("kg or lb. Defaults to the saved preference."), mcp.Enum(string(plates.Kilograms), string(plates.Pounds))),
	mcp.WithBoolean("collars", mcp.Description("Whether collars are used. Defaults to the saved preference.")),
)

var toolPlanNextSet = mcp.NewTool("plan_next_set",
	mcp.WithDescription("Full calculator flow: from a performed set, estimate the e1RM, project the weight for the next set's reps and RPE, and load the bar for it."),
	mcp.WithNumber("weight", mcp.Required(), mcp.Description("Weight lifted for the performed set"), mcp.Min(0)),
	mcp.WithNumber("reps", mcp.Required(), mcp.Description("Reps performed")),
	mcp.WithNumber("rpe", mcp.Required(), mcp.Description("RPE of the performed set")),
	mcp.WithNumber("target_reps", mcp.Required(), mcp.Description("Reps for the next set")),
	mcp.WithNumber("target_rpe", mcp.Required(), mcp.Description("RPE for the next set")),
	mcp.WithNumber("rounding", mcp.Description("Rounding increment. Defaults to the saved preference.")),
	mcp.WithNumber("e1rm_multiplier", mcp.Description("Percentage of the e1RM to report alongside it. Defaults to 100.")),
	mcp.WithString("units", mcp.Description("kg or lb. Defaults to the saved preference."), mcp.Enum(string(plates.Kilograms), string(plates.Pounds))),
	mcp.WithBoolean("collars", mcp.Description("Whether collars are used. Defaults to the saved preference.")),
	strategyOption,
)

var toolRPEChart = mcp.NewTool("rpe_chart",
	mcp.WithDescription("The reps x RPE chart of e1RM percentages. With an e1RM, each cell also carries the projected weight."),
	mcp.WithNumber("e1rm", mcp.Description("Estimated one-rep max to project"), mcp.Min(0)),
	mcp.WithNumber("rounding", mcp.Description("Rounding increment. Defaults to the saved preference.")),
	strategyOption,
)

// --- Tool handlers ---

func (h *handlers) estimateOneRepMax(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	weight, err := req.RequireFloat("weight")
	if err != nil {
		return mcp.NewToolResultError("weight parameter is required"), nil
	}
	reps, err := req.RequireInt("reps")
	if err != nil {
		return mcp.NewToolResultError("reps parameter is required"), nil
	}
	rating, err := req.RequireFloat("rpe")
	if err != nil {
		return mcp.NewToolResultError("rpe parameter is required"), nil
	}

	_, m, err := h.prefsAndModel(ctx, req.GetString("strategy", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	coef, err := m.Coefficient(reps, rating)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	e1rm, err := rpe.EstimateOneRepMax(m, weight, reps, rating)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(map[string]any{
		"e1rm":        e1rm,
		"coefficient": coef,
	})
}

func (h *handlers) targetWeight(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	e1rm, err := req.RequireFloat("e1rm")
	if err != nil {
		return mcp.NewToolResultError("e1rm parameter is required"), nil
	}
	reps, err := req.RequireInt("reps")
	if err != nil {
		return mcp.NewToolResultError("reps parameter is required"), nil
	}
	rating, err := req.RequireFloat("rpe")
	if err != nil {
		return mcp.NewToolResultError("rpe parameter is required"), nil
	}

	prefs, m, err := h.prefsAndModel(ctx, req.GetString("strategy", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	rounding := req.GetFloat("rounding", prefs.Rounding)

	oneRM := rpe.NotComputable
	if e1rm > 0 {
		oneRM = rpe.Of(e1rm)
	}
	target, err := rpe.TargetWeight(m, oneRM, reps, rating, rounding)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(map[string]any{
		"target_weight": target,
		"rounding":      rounding,
	})
}

func (h *handlers) loadBar(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	weight, err := req.RequireFloat("weight")
	if err != nil {
		return mcp.NewToolResultError("weight parameter is required"), nil
	}
	if err := plates.CheckLoad(weight); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	prefs, err := h.store.GetPreferences(ctx)
	if err != nil {
		h.log.Error("mcp load_bar", "error", err)
		return mcp.NewToolResultError("loading preferences failed: " + err.Error()), nil
	}

	units, err := requestUnits(req, prefs.Units)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	collars := req.GetBool("collars", prefs.Collars)

	loadout := plates.Load(weight, units, collars, prefs.Inventory(units))
	return jsonResult(map[string]any{
		"units":          units,
		"collars":        collars,
		"plates":         loadout.Plates,
		"achieved":       loadout.Achieved,
		"display_weight": plates.DisplayWeight(loadout.Achieved, units, collars),
	})
}

func (h *handlers) planNextSet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	weight, err := req.RequireFloat("weight")
	if err != nil {
		return mcp.NewToolResultError("weight parameter is required"), nil
	}

	prefs, m, err := h.prefsAndModel(ctx, req.GetString("strategy", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	units, err := requestUnits(req, prefs.Units)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	in := calculator.Input{
		StartingWeight: weight,
		StartingReps:   req.GetInt("reps", 0),
		StartingRPE:    req.GetFloat("rpe", 0),
		TargetReps:     req.GetInt("target_reps", 0),
		TargetRPE:      req.GetFloat("target_rpe", 0),
		Rounding:       req.GetFloat("rounding", prefs.Rounding),
		E1RMMultiplier: req.GetFloat("e1rm_multiplier", calculator.DefaultMultiplier),
		Units:          units,
	}
	collars := req.GetBool("collars", prefs.Collars)
	in.Collars = &collars
	in.Plates = prefs.Inventory(in.Units)

	out, err := calculator.Calculate(m, in)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(out)
}

func (h *handlers) rpeChart(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	prefs, m, err := h.prefsAndModel(ctx, req.GetString("strategy", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	oneRM := rpe.NotComputable
	if e1rm := req.GetFloat("e1rm", 0); e1rm > 0 {
		oneRM = rpe.Of(e1rm)
	}
	rows, err := rpe.BuildChart(m, oneRM, req.GetFloat("rounding", prefs.Rounding))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(rows)
}

// requestUnits parses the optional units argument, falling back to def.
func requestUnits(req mcp.CallToolRequest, def plates.Unit) (plates.Unit, error) {
	u := req.GetString("units", "")
	if u == "" {
		return def, nil
	}
	return plates.ParseUnit(u)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(v)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
