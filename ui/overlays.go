package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// OverlayID uniquely identifies an overlay.
type OverlayID string

// Standard overlay IDs.
const (
	OverlayAnts      OverlayID = "ants"
	OverlayPheromone OverlayID = "pheromone"
	OverlayNest      OverlayID = "nest"
	OverlayBrush     OverlayID = "brush"
	OverlayStats     OverlayID = "stats"
	OverlayPerf      OverlayID = "perf"
)

// OverlayDescriptor defines an overlay that can be toggled.
type OverlayDescriptor struct {
	ID          OverlayID   // Unique identifier
	Name        string      // Display name
	Description string      // What this overlay shows
	Key         int32       // Keyboard key to toggle (0 = no key)
	KeyLabel    string      // Key label for display (e.g., "A", "S")
	Category    string      // Grouping (e.g., "layers", "panels")
	Default     bool        // Enabled at startup
	Exclusive   []OverlayID // Other overlays to disable when this is enabled
}

// OverlayRegistry manages overlay state and metadata.
type OverlayRegistry struct {
	descriptors []OverlayDescriptor
	byID        map[OverlayID]OverlayDescriptor
	enabled     map[OverlayID]bool
}

// NewOverlayRegistry creates a registry with default overlays.
func NewOverlayRegistry() *OverlayRegistry {
	reg := &OverlayRegistry{
		byID:    make(map[OverlayID]OverlayDescriptor),
		enabled: make(map[OverlayID]bool),
	}
	reg.registerDefaults()
	return reg
}

// registerDefaults adds standard overlays.
func (r *OverlayRegistry) registerDefaults() {
	// Simulation layers
	r.Register(OverlayDescriptor{
		ID:          OverlayAnts,
		Name:        "Ants",
		Description: "Draw every agent, tinted while carrying food",
		Key:         rl.KeyA,
		KeyLabel:    "A",
		Category:    "layers",
		Default:     true,
	})

	r.Register(OverlayDescriptor{
		ID:          OverlayPheromone,
		Name:        "Pheromone",
		Description: "Blend home and food scent over the grid",
		Key:         rl.KeyS,
		KeyLabel:    "S",
		Category:    "layers",
		Default:     true,
	})

	r.Register(OverlayDescriptor{
		ID:          OverlayNest,
		Name:        "Nest",
		Description: "Draw the nest circle",
		Key:         rl.KeyN,
		KeyLabel:    "N",
		Category:    "layers",
		Default:     true,
	})

	r.Register(OverlayDescriptor{
		ID:          OverlayBrush,
		Name:        "Brush Outline",
		Description: "Outline the active paint brush under the cursor",
		Key:         rl.KeyB,
		KeyLabel:    "B",
		Category:    "layers",
		Default:     true,
	})

	// Panels
	r.Register(OverlayDescriptor{
		ID:          OverlayStats,
		Name:        "Colony Stats",
		Description: "Agent counts, deliveries and remaining food",
		Key:         rl.KeyC,
		KeyLabel:    "C",
		Category:    "panels",
		Default:     true,
	})

	r.Register(OverlayDescriptor{
		ID:          OverlayPerf,
		Name:        "Phase Timing",
		Description: "Per-phase share of the tick",
		Key:         rl.KeyT,
		KeyLabel:    "T",
		Category:    "panels",
	})
}

// Register adds an overlay to the registry.
func (r *OverlayRegistry) Register(desc OverlayDescriptor) {
	r.descriptors = append(r.descriptors, desc)
	r.byID[desc.ID] = desc
	r.enabled[desc.ID] = desc.Default
}

// Toggle switches an overlay on/off and handles exclusivity.
func (r *OverlayRegistry) Toggle(id OverlayID) bool {
	if _, ok := r.byID[id]; !ok {
		return false
	}
	newState := !r.enabled[id]
	r.SetEnabled(id, newState)
	return newState
}

// SetEnabled explicitly sets an overlay's state.
func (r *OverlayRegistry) SetEnabled(id OverlayID, enabled bool) {
	desc, ok := r.byID[id]
	if !ok {
		return
	}

	r.enabled[id] = enabled

	// If enabling, disable exclusive overlays
	if enabled {
		for _, excl := range desc.Exclusive {
			r.enabled[excl] = false
		}
	}
}

// IsEnabled returns whether an overlay is active.
func (r *OverlayRegistry) IsEnabled(id OverlayID) bool {
	return r.enabled[id]
}

// ByCategory returns overlays filtered by category.
func (r *OverlayRegistry) ByCategory(category string) []OverlayDescriptor {
	var result []OverlayDescriptor
	for _, desc := range r.descriptors {
		if desc.Category == category {
			result = append(result, desc)
		}
	}
	return result
}

// Categories returns all unique categories in order.
func (r *OverlayRegistry) Categories() []string {
	seen := make(map[string]bool)
	var cats []string
	for _, desc := range r.descriptors {
		if !seen[desc.Category] {
			seen[desc.Category] = true
			cats = append(cats, desc.Category)
		}
	}
	return cats
}

// HandleKeys toggles every overlay whose key was pressed this frame.
func (r *OverlayRegistry) HandleKeys() {
	for _, desc := range r.descriptors {
		if desc.Key != 0 && rl.IsKeyPressed(desc.Key) {
			r.Toggle(desc.ID)
		}
	}
}
