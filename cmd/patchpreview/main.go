// Food patch preview tool - interactive tuning of the noise food scenario.
//
// Usage: go run ./cmd/patchpreview
package main

import (
	"fmt"
	"image/color"
	"log/slog"
	"os"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/antcolony/config"
	"github.com/pthm-cable/antcolony/renderer"
	"github.com/pthm-cable/antcolony/systems"
)

const (
	windowWidth  = 1000
	windowHeight = 720
	previewSize  = 512
	panelWidth   = windowWidth - previewSize - 30
	gridSize     = 256
)

// PatchParams holds the noise parameters of scenario.food_patches.
type PatchParams struct {
	Seed      float32
	Scale     float32
	Threshold float32
	Maze      bool
}

func main() {
	cfg, err := config.Default("")
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	fp := cfg.Scenario.FoodPatches

	rl.InitWindow(windowWidth, windowHeight, "Food Patch Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	// Initialize with default values from config
	params := PatchParams{
		Seed:      float32(fp.Seed),
		Scale:     float32(fp.Scale),
		Threshold: float32(fp.Threshold),
	}

	img := rl.GenImageColor(gridSize, gridSize, rl.Black)
	texture := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	defer rl.UnloadTexture(texture)

	pixels := make([]color.RGBA, gridSize*gridSize)
	var food, walls []bool
	needsRegen := true

	for !rl.WindowShouldClose() {
		if needsRegen {
			food = systems.FoodPatches(gridSize, int64(params.Seed), float64(params.Scale), float64(params.Threshold))
			walls = nil
			if params.Maze {
				walls = systems.Maze(gridSize)
			}
			updateTexture(texture, pixels, food, walls)
			needsRegen = false
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		// Draw preview
		rl.DrawTexturePro(
			texture,
			rl.Rectangle{X: 0, Y: 0, Width: gridSize, Height: gridSize},
			rl.Rectangle{X: 10, Y: 10, Width: previewSize, Height: previewSize},
			rl.Vector2{X: 0, Y: 0},
			0,
			rl.White,
		)
		rl.DrawRectangleLines(10, 10, previewSize, previewSize, rl.DarkGray)

		// Draw stats
		cells := 0
		for _, on := range food {
			if on {
				cells++
			}
		}
		coverage := float64(cells) / float64(len(food)) * 100
		statsY := int32(previewSize + 25)
		rl.DrawText(fmt.Sprintf("Food cells: %d (%.1f%%)", cells, coverage), 15, statsY, 16, rl.DarkGray)
		rl.DrawText(fmt.Sprintf("Units at %d: %.0f", cfg.World.Resolution, float64(cells)*fp.Units*
			float64(cfg.World.Resolution*cfg.World.Resolution)/float64(gridSize*gridSize)), 15, statsY+20, 16, rl.DarkGray)

		// Control panel
		panelX := float32(previewSize + 20)
		panelY := float32(10)

		rl.DrawText("Food Patch Parameters", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		// Seed slider
		rl.DrawText("Seed", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newSeed := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"0", "1000",
			params.Seed, 0, 1000,
		)
		newSeed = float32(int(newSeed))
		rl.DrawText(fmt.Sprintf("%.0f", params.Seed), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if newSeed != params.Seed {
			params.Seed = newSeed
			needsRegen = true
		}
		panelY += 35

		// Scale slider
		rl.DrawText("Scale (noise periods across the domain)", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newScale := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"1", "20",
			params.Scale, 1, 20,
		)
		rl.DrawText(fmt.Sprintf("%.1f", params.Scale), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if newScale != params.Scale {
			params.Scale = newScale
			needsRegen = true
		}
		panelY += 35

		// Threshold slider
		rl.DrawText("Threshold (noise above becomes food)", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newThreshold := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"0.5", "1.0",
			params.Threshold, 0.5, 1.0,
		)
		rl.DrawText(fmt.Sprintf("%.2f", params.Threshold), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if newThreshold != params.Threshold {
			params.Threshold = newThreshold
			needsRegen = true
		}
		panelY += 45

		// Buttons
		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, toggleText(params.Maze, "Hide Maze", "Show Maze")) {
			params.Maze = !params.Maze
			needsRegen = true
		}

		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			params = PatchParams{
				Seed:      float32(fp.Seed),
				Scale:     float32(fp.Scale),
				Threshold: float32(fp.Threshold),
			}
			needsRegen = true
		}
		panelY += 55

		// Output YAML
		yaml := patchYAML(params, fp.Units)
		rl.DrawText("YAML Config:", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25
		rl.DrawText(yaml, int32(panelX), int32(panelY), 14, rl.Gray)

		// Instructions
		rl.DrawText("Press C to copy YAML to clipboard", int32(panelX), int32(windowHeight-30), 12, rl.LightGray)

		if rl.IsKeyPressed(rl.KeyC) {
			rl.SetClipboardText(yaml)
		}

		rl.EndDrawing()
	}
}

func patchYAML(p PatchParams, units float64) string {
	return fmt.Sprintf(`scenario:
  maze: %t
  food_patches:
    enabled: true
    seed: %d
    scale: %.1f
    threshold: %.2f
    units: %.1f`,
		p.Maze, int64(p.Seed), p.Scale, p.Threshold, units)
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}

// updateTexture shades the masks the way the viewer shades the grids.
func updateTexture(texture rl.Texture2D, pixels []color.RGBA, food, walls []bool) {
	for i := range pixels {
		l := renderer.CellLayers{Food: food[i]}
		if walls != nil {
			l.Obstacle = walls[i]
		}
		pixels[i] = renderer.Shade(l, false)
	}
	rl.UpdateTexture(texture, pixels)
}
