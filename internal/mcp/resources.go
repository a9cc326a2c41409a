package mcp

import (
	"context"
	"encoding/json"

	"github.com/claude/rpecalc/internal/plates"
	"github.com/mark3labs/mcp-go/mcp"
)

type unitInventory struct {
	BarWeight       float64   `json:"bar_weight"`
	CollarWeight    float64   `json:"collar_weight"`
	StandardPlates  []float64 `json:"standard_plates"`
	SelectedPlates  []float64 `json:"selected_plates"`
	MinimumLoad     float64   `json:"minimum_load"`
	MinimumCollared float64   `json:"minimum_load_with_collars"`
}

func inventoryFor(u plates.Unit, selected []float64) unitInventory {
	return unitInventory{
		BarWeight:       u.BarWeight(),
		CollarWeight:    u.CollarWeight(true),
		StandardPlates:  u.StandardPlates(),
		SelectedPlates:  selected,
		MinimumLoad:     u.MinimumLoad(false),
		MinimumCollared: u.MinimumLoad(true),
	}
}

func (h *handlers) preferences(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	prefs, err := h.store.GetPreferences(ctx)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(prefs)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (h *handlers) plateInventory(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	prefs, err := h.store.GetPreferences(ctx)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(map[string]unitInventory{
		string(plates.Kilograms): inventoryFor(plates.Kilograms, prefs.KiloPlates),
		string(plates.Pounds):    inventoryFor(plates.Pounds, prefs.PoundPlates),
	})
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
