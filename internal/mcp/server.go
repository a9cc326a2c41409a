package mcp

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/claude/rpecalc/internal/models"
	"github.com/claude/rpecalc/internal/rpe"
	"github.com/claude/rpecalc/internal/storage"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered.
func New(store storage.PreferenceStore, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("RPECalc", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("RPECalc strength calculator. Estimate a one-rep max from a set performed at an RPE, project target weights for other rep/RPE combinations, and work out how to load a barbell. Unit, collar and plate defaults come from the saved preferences."),
	)

	h := &handlers{store: store, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolEstimateOneRepMax, Handler: h.estimateOneRepMax},
		server.ServerTool{Tool: toolTargetWeight, Handler: h.targetWeight},
		server.ServerTool{Tool: toolLoadBar, Handler: h.loadBar},
		server.ServerTool{Tool: toolPlanNextSet, Handler: h.planNextSet},
		server.ServerTool{Tool: toolRPEChart, Handler: h.rpeChart},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resPreferences, Handler: h.preferences},
		server.ServerResource{Resource: resPlateInventory, Handler: h.plateInventory},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	store storage.PreferenceStore
	log   *slog.Logger
}

// prefsAndModel loads preferences and the model they select. A strategy
// argument on the request overrides the saved one.
func (h *handlers) prefsAndModel(ctx context.Context, strategy string) (models.Preferences, rpe.Model, error) {
	prefs, err := h.store.GetPreferences(ctx)
	if err != nil {
		return models.Preferences{}, nil, fmt.Errorf("loading preferences: %w", err)
	}
	s := prefs.Strategy
	if strategy != "" {
		s, err = rpe.ParseStrategy(strategy)
		if err != nil {
			return models.Preferences{}, nil, err
		}
	}
	m, err := rpe.New(s)
	if err != nil {
		return models.Preferences{}, nil, err
	}
	return prefs, m, nil
}

// --- Resource definitions ---

var resPreferences = mcp.NewResource(
	"rpecalc://preferences",
	"Preferences",
	mcp.WithResourceDescription("Saved calculator defaults: units, collars, selected plates, rounding and coefficient strategy"),
	mcp.WithMIMEType("application/json"),
)

var resPlateInventory = mcp.NewResource(
	"rpecalc://plate_inventory",
	"Plate Inventory",
	mcp.WithResourceDescription("Standard plate sizes, bar weights and collar weights for kilograms and pounds, with the plates currently selected"),
	mcp.WithMIMEType("application/json"),
)
