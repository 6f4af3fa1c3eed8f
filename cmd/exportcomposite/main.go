// Command exportcomposite renders a comparison composite without the UI.
// It loads two impressions, optionally resamples them to a common
// resolution, and writes the side-by-side or overlay composite as a PNG.
package main

import (
	"flag"
	"fmt"
	"image/png"
	"os"

	"ridgecompare/internal/config"
	"ridgecompare/internal/plane"
	"ridgecompare/internal/session"
)

func main() {
	left := flag.String("l", "", "Path to left impression")
	right := flag.String("r", "", "Path to right impression")
	mode := flag.String("mode", "side", "Composite mode: side or overlay")
	opacity := flag.Float64("opacity", 0.5, "Overlay opacity, 0..1")
	gap := flag.Int("gap", 10, "Gap between panes in pixels, side mode only")
	dpi := flag.Float64("dpi", 0, "Resample both sides to this resolution (uses embedded DPI)")
	out := flag.String("o", "composite.png", "Output PNG path")
	flag.Parse()

	if *left == "" && *right == "" {
		fmt.Println("Usage: exportcomposite -l <left> [-r <right>] [-mode side|overlay] [-o out.png]")
		os.Exit(1)
	}

	cfg := config.Default()
	cfg.Export.GapPixels = *gap
	cfg.Overlay.Opacity = *opacity

	sess := session.New(cfg)
	defer sess.Close()

	for side, path := range map[plane.Side]string{
		plane.SideLeft:  *left,
		plane.SideRight: *right,
	} {
		if path == "" {
			continue
		}
		if err := sess.LoadSide(side, path); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load %s: %v\n", path, err)
			os.Exit(1)
		}
		if *dpi > 0 {
			if err := sess.AdoptNativeDPI(side); err != nil {
				fmt.Fprintf(os.Stderr, "No embedded resolution in %s, skipping resample: %v\n", path, err)
				continue
			}
			outcome, err := sess.ResampleSide(side, *dpi)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Resample of %s failed: %v\n", path, err)
				os.Exit(1)
			}
			fmt.Printf("%s: %.0fx%.0f -> %.0fx%.0f at %.0f dpi\n",
				path, outcome.OldSize.Width, outcome.OldSize.Height,
				outcome.NewSize.Width, outcome.NewSize.Height, outcome.TargetDPI)
		}
	}

	switch *mode {
	case "overlay":
		sess.SetMode(session.ModeOverlay)
	case "side":
		sess.SetMode(session.ModeSideBySide)
	default:
		fmt.Fprintf(os.Stderr, "Unknown mode %q\n", *mode)
		os.Exit(1)
	}

	img := sess.Capture()
	if img == nil {
		fmt.Fprintln(os.Stderr, "Nothing to export")
		os.Exit(1)
	}

	f, err := os.Create(*out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create %s: %v\n", *out, err)
		os.Exit(1)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to encode %s: %v\n", *out, err)
		os.Exit(1)
	}

	b := img.Bounds()
	fmt.Printf("Wrote %s (%dx%d)\n", *out, b.Dx(), b.Dy())
}
