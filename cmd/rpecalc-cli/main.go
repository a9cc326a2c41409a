package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/claude/rpecalc/internal/calculator"
	"github.com/claude/rpecalc/internal/mcp"
	"github.com/claude/rpecalc/internal/plates"
	"github.com/claude/rpecalc/internal/rpe"
	"github.com/claude/rpecalc/internal/storage"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	weight := flag.Float64("weight", 0, "weight lifted for the performed set")
	reps := flag.Int("reps", 0, "reps performed (1-12)")
	rating := flag.Float64("rpe", 0, "RPE of the performed set")
	targetReps := flag.Int("target-reps", 0, "reps for the next set")
	targetRPE := flag.Float64("target-rpe", 0, "RPE for the next set")
	rounding := flag.Float64("rounding", 0, "target weight increment (default: saved preference)")
	multiplier := flag.Float64("multiplier", calculator.DefaultMultiplier, "percentage of the e1RM to show")
	units := flag.String("units", "", "kg or lb (default: saved preference)")
	collars := flag.Bool("collars", false, "load with collars (default: saved preference)")
	bar := flag.Float64("bar", 0, "load this weight instead of the target weight")
	strategy := flag.String("strategy", "", "interpolated or table (default: saved preference)")
	chart := flag.Bool("chart", false, "print the RPE chart for the estimated max")
	save := flag.Bool("save", false, "save units, collars, rounding and strategy as defaults")
	serveMCP := flag.Bool("mcp", false, "serve MCP tools over stdio")
	remote := flag.String("remote", "", "RPECalc server URL to read preferences from instead of ~/.rpecalc")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("rpecalc-cli", Version)
		return
	}

	// stdout carries MCP traffic in -mcp mode
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	// Open preference store
	var store storage.PreferenceStore
	if *remote != "" {
		store = mcp.NewHTTPClient(*remote)
	} else {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			log.Error("failed to get home directory", "error", err)
			os.Exit(1)
		}
		local, err := storage.OpenLocalStore(filepath.Join(homeDir, ".rpecalc"))
		if err != nil {
			log.Error("failed to open preferences", "error", err)
			os.Exit(1)
		}
		defer local.Close()
		store = local
	}

	if *serveMCP {
		if err := mcpserver.ServeStdio(mcp.New(store, Version, log)); err != nil {
			log.Error("mcp server error", "error", err)
			os.Exit(1)
		}
		return
	}

	if !set["weight"] && !*save {
		fmt.Fprintf(os.Stderr, "Usage: rpecalc-cli -weight W -reps N -rpe R [-target-reps N -target-rpe R] [-units kg|lb] [-collars] [-save]\n\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	ctx := context.Background()
	prefs, err := store.GetPreferences(ctx)
	if err != nil {
		log.Error("failed to load preferences", "error", err)
		os.Exit(1)
	}

	// Flags override the saved defaults
	if set["units"] {
		if prefs.Units, err = plates.ParseUnit(*units); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
	if set["collars"] {
		prefs.Collars = *collars
	}
	if set["rounding"] {
		prefs.Rounding = *rounding
	}
	if set["strategy"] {
		if prefs.Strategy, err = rpe.ParseStrategy(*strategy); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	if *save {
		saved, err := store.SavePreferences(ctx, prefs)
		if err != nil {
			log.Error("failed to save preferences", "error", err)
			os.Exit(1)
		}
		log.Info("preferences saved", "units", saved.Units, "collars", saved.Collars,
			"rounding", saved.Rounding, "strategy", saved.Strategy)
		if !set["weight"] {
			return
		}
	}

	m, err := rpe.New(prefs.Strategy)
	if err != nil {
		log.Error("unknown strategy", "error", err)
		os.Exit(1)
	}

	in := calculator.Input{
		StartingWeight: *weight,
		StartingReps:   *reps,
		StartingRPE:    *rating,
		TargetReps:     *targetReps,
		TargetRPE:      *targetRPE,
		Rounding:       prefs.Rounding,
		E1RMMultiplier: *multiplier,
		Units:          prefs.Units,
		Collars:        &prefs.Collars,
		Plates:         prefs.Inventory(prefs.Units),
	}
	if set["bar"] {
		in.BarWeight = bar
	}

	out, err := calculator.Calculate(m, in)
	if err != nil {
		log.Error("calculation failed", "error", err)
		os.Exit(1)
	}
	if len(out.Errors) > 0 {
		printErrors(os.Stderr, out.Errors)
		os.Exit(1)
	}

	printOutput(os.Stdout, out, *multiplier)

	if *chart && out.E1RM.Valid {
		rows, err := rpe.BuildChart(m, out.E1RM, prefs.Rounding)
		if err != nil {
			log.Error("chart failed", "error", err)
			os.Exit(1)
		}
		printChart(os.Stdout, rows)
	}
}

func printErrors(w io.Writer, errs calculator.FieldErrors) {
	fields := make([]string, 0, len(errs))
	for f := range errs {
		fields = append(fields, f)
	}
	slices.Sort(fields)
	for _, f := range fields {
		fmt.Fprintf(w, "Error: %s: %s\n", f, errs[f])
	}
}

func printOutput(w io.Writer, out calculator.Output, multiplier float64) {
	u := string(out.Units)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  e1RM:           %s\n", withUnit(out.E1RM, u))
	if multiplier != calculator.DefaultMultiplier {
		fmt.Fprintf(w, "  %s%% of e1RM:   %s\n", formatWeight(multiplier), withUnit(out.ScaledE1RM, u))
	}
	fmt.Fprintf(w, "  Target weight:  %s\n", withUnit(out.TargetWeight, u))
	fmt.Fprintln(w)

	fmt.Fprintf(w, "  Plates per side: %s\n", perSide(out.Loadout.Plates))
	fmt.Fprintf(w, "  Bar total:       %s %s\n", formatWeight(out.DisplayWeight), u)
	if multiplier != calculator.DefaultMultiplier && out.ScaledE1RM.Valid {
		fmt.Fprintf(w, "  At %s%% of e1RM:  %s (%s %s)\n", formatWeight(multiplier),
			perSide(out.ScaledLoadout.Plates), formatWeight(out.ScaledDisplayWeight), u)
	}
	fmt.Fprintln(w)
}

func perSide(ps []float64) string {
	if len(ps) == 0 {
		return "empty bar"
	}
	names := make([]string, len(ps))
	for i, p := range ps {
		names[i] = formatWeight(p)
	}
	return strings.Join(names, ", ")
}

func printChart(w io.Writer, rows []rpe.ChartRow) {
	if len(rows) == 0 {
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprint(tw, "reps\t")
	for _, c := range rows[0].Cells {
		fmt.Fprintf(tw, "@%s\t", formatWeight(c.RPE))
	}
	fmt.Fprintln(tw)
	for _, row := range rows {
		fmt.Fprintf(tw, "%d\t", row.Reps)
		for _, c := range row.Cells {
			fmt.Fprintf(tw, "%s\t", withUnit(c.Weight, ""))
		}
		fmt.Fprintln(tw)
	}
	tw.Flush()
}

func withUnit(r rpe.Result, unit string) string {
	if !r.Valid {
		return "-"
	}
	if unit == "" {
		return formatWeight(r.Value)
	}
	return formatWeight(r.Value) + " " + unit
}

// formatWeight prints at most two decimals without trailing zeros.
func formatWeight(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
