// Frame dump tool - runs a colony headless and renders the final frame to a PNG.
//
// Usage: go run ./cmd/framedump -ticks 5000 -out colony.png
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/antcolony/camera"
	"github.com/pthm-cable/antcolony/colony"
	"github.com/pthm-cable/antcolony/config"
	"github.com/pthm-cable/antcolony/renderer"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	mode := flag.String("mode", "", "Behavior mode: colony or slime (empty = use config)")
	ticks := flag.Int("ticks", 3000, "Ticks to simulate before rendering")
	seed := flag.Int64("seed", 1, "RNG seed")
	outPath := flag.String("out", "frame.png", "Output PNG path")
	size := flag.Int("size", 768, "Render size in pixels")
	agents := flag.Bool("agents", true, "Draw agents over the fields")
	flag.Parse()

	cfg, err := config.LoadMode(*configPath, *mode)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg.Seed = *seed

	c, err := colony.New(cfg)
	if err != nil {
		slog.Error("failed to create colony", "error", err)
		os.Exit(1)
	}
	defer c.Close()

	for int(c.Ticks()) < *ticks {
		c.Tick()
	}
	snap := c.Snapshot()

	// Initialize raylib with hidden window
	rl.SetConfigFlags(rl.FlagWindowHidden)
	rl.InitWindow(int32(*size), int32(*size), "Frame Dump")
	defer rl.CloseWindow()

	fields := renderer.NewFieldRenderer(cfg.Fields.HomeScent.MaxValue, cfg.Fields.FoodScent.MaxValue)
	defer fields.Unload()
	fields.Update(&snap, true)
	cam := camera.New(0, 0, float32(*size))

	target := rl.LoadRenderTexture(int32(*size), int32(*size))
	defer rl.UnloadRenderTexture(target)

	rl.BeginTextureMode(target)
	rl.ClearBackground(rl.Black)
	fields.Draw(cam)
	renderer.DrawNest(cam, &snap)
	if *agents {
		renderer.DrawAgents(cam, &snap)
	}
	rl.EndTextureMode()

	// Get image from texture and flip it (OpenGL convention)
	img := rl.LoadImageFromTexture(target.Texture)
	rl.ImageFlipVertical(img)

	success := rl.ExportImage(*img, *outPath)
	rl.UnloadImage(img)

	if !success {
		fmt.Fprintf(os.Stderr, "Failed to export image\n")
		os.Exit(1)
	}
	fmt.Printf("Tick %d rendered to: %s (%dx%d, %d deliveries)\n",
		snap.Tick, *outPath, *size, *size, c.TotalDeliveries())
}
