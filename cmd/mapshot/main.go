// Command mapshot renders a world file to a PNG without opening the
// editor. Useful for wiki thumbnails and for eyeballing a world in CI.
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/png"
	"os"
	"strings"
	"time"

	"wilderness-editor/internal/api"
	"wilderness-editor/internal/editor"
	"wilderness-editor/internal/projection"
	"wilderness-editor/internal/render"
	"wilderness-editor/pkg/geometry"
)

func main() {
	out := flag.String("o", "map.png", "Output PNG path")
	width := flag.Int("w", 1024, "Image width in pixels")
	height := flag.Int("h", 768, "Image height in pixels")
	centerX := flag.Int("x", 0, "World X coordinate to center on")
	centerY := flag.Int("y", 0, "World Y coordinate to center on")
	scale := flag.Float64("s", 1.0, "Zoom scale")
	layers := flag.String("layers", "", "Comma-separated layers to draw (default all): background,grid,axes,regions,paths,landmarks")
	background := flag.String("bg", "", "Background image path or http(s) URL")
	server := flag.String("server", "", "Fetch the world from this server base URL instead of a file")
	token := flag.String("token", "", "Bearer token for -server")
	flag.Parse()

	if *server == "" && flag.NArg() != 1 {
		fmt.Println("Usage: mapshot [options] <world file>")
		fmt.Println("       mapshot [options] -server <base url>")
		flag.PrintDefaults()
		os.Exit(1)
	}

	state := editor.NewState()
	if err := loadWorld(state, flag.Arg(0), *server, *token); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load world: %v\n", err)
		os.Exit(1)
	}

	proj := projection.New(projection.DefaultConfig())

	view := projection.View{Scale: projection.ClampScale(*scale)}
	center := geometry.PointInt{X: *centerX, Y: *centerY}
	state.SetView(proj.CenterOn(view, center, float64(*width), float64(*height)))

	if *layers != "" {
		state.SetFlags(parseLayers(*layers))
	}

	frame := state.Frame()
	frame.Background = loadBackground(*background)

	img := render.NewPipeline(proj).Render(frame, *width, *height)

	f, err := os.Create(*out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create %s: %v\n", *out, err)
		os.Exit(1)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to encode PNG: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Wrote %s (%dx%d, %d regions, %d paths, %d landmarks)\n",
		*out, *width, *height, len(frame.Regions), len(frame.Paths), len(frame.Landmarks))
}

// loadWorld fills the state from a server when one is named, otherwise
// from the world file argument.
func loadWorld(state *editor.State, path, server, token string) error {
	if server == "" {
		return state.LoadWorld(path)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	w, err := api.NewClient(server, token, 30*time.Second).FetchWorld(ctx)
	if err != nil {
		return err
	}
	state.ReplaceWorld(w.Regions, w.Paths, w.Landmarks)
	return nil
}

// loadBackground fetches the reference image synchronously. The cache
// decodes on its own goroutine, so block on its done callback.
func loadBackground(source string) image.Image {
	if source == "" {
		return nil
	}

	cache := render.NewBackgroundCache()
	done := make(chan struct{})
	cache.Load(source, func() { close(done) })
	<-done

	img := cache.Image()
	if img == nil {
		fmt.Fprintln(os.Stderr, "Background failed to load, rendering without it")
	}
	return img
}

func parseLayers(spec string) render.Flags {
	var f render.Flags
	for _, name := range strings.Split(spec, ",") {
		switch strings.TrimSpace(strings.ToLower(name)) {
		case "background":
			f.Background = true
		case "grid":
			f.Grid = true
		case "axes":
			f.Axes = true
		case "regions":
			f.Regions = true
		case "paths":
			f.Paths = true
		case "landmarks":
			f.Landmarks = true
		}
	}
	return f
}
