// Command wandbench times the magic wand flood fill on an image and
// reports selection size and scan duration, optionally with a timeout
// to exercise cancellation.
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"time"

	_ "golang.org/x/image/tiff"

	"rasterpad/internal/selection"
	"rasterpad/internal/surface"
)

func main() {
	imagePath := flag.String("image", "", "Path to image (TIFF, PNG, or JPEG)")
	seedX := flag.Int("x", 0, "Seed X coordinate")
	seedY := flag.Int("y", 0, "Seed Y coordinate")
	tolerance := flag.Int("tolerance", 32, "Color tolerance (0-255)")
	global := flag.Bool("global", false, "Select all matching pixels, not just the connected region")
	timeout := flag.Duration("timeout", 0, "Cancel the scan after this duration (0 = none)")
	runs := flag.Int("runs", 5, "Number of timed runs")
	flag.Parse()

	if *imagePath == "" {
		fmt.Println("Usage: wandbench -image <path> [-x 0 -y 0] [-tolerance 32] [-global] [-timeout 50ms] [-runs 5]")
		os.Exit(1)
	}

	f, err := os.Open(*imagePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open image: %v\n", err)
		os.Exit(1)
	}
	img, format, err := image.Decode(f)
	f.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to decode image: %v\n", err)
		os.Exit(1)
	}

	surf, err := surface.FromImage(img)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build surface: %v\n", err)
		os.Exit(1)
	}

	bounds := surf.Bounds()
	fmt.Printf("Loaded %s image: %dx%d pixels\n", format, bounds.Dx(), bounds.Dy())
	fmt.Printf("Seed: (%d, %d)  tolerance: %d  contiguous: %v\n",
		*seedX, *seedY, *tolerance, !*global)

	var best, total time.Duration
	var selected int
	for i := 0; i < *runs; i++ {
		ctx := context.Background()
		var cancel context.CancelFunc
		if *timeout > 0 {
			ctx, cancel = context.WithTimeout(ctx, *timeout)
		}

		start := time.Now()
		sel, err := selection.Wand(ctx, surf, *seedX, *seedY, *tolerance, !*global)
		elapsed := time.Since(start)
		if cancel != nil {
			cancel()
		}

		if err != nil {
			fmt.Printf("run %d: cancelled after %v (%v)\n", i+1, elapsed, err)
			continue
		}

		selected = countSelected(sel)
		total += elapsed
		if best == 0 || elapsed < best {
			best = elapsed
		}
		fmt.Printf("run %d: %v  (%d px selected, bounds %v)\n",
			i+1, elapsed, selected, sel.Bounds)
	}

	if best > 0 {
		avg := total / time.Duration(*runs)
		pixels := bounds.Dx() * bounds.Dy()
		fmt.Printf("\nbest: %v  avg: %v  (%.1f Mpx/s scanned)\n",
			best, avg, float64(pixels)/best.Seconds()/1e6)
		fmt.Printf("selected %d of %d pixels (%.1f%%)\n",
			selected, pixels, 100*float64(selected)/float64(pixels))
	}
}

func countSelected(sel *selection.Selection) int {
	if sel == nil || sel.Mask == nil {
		return 0
	}
	n := 0
	for _, a := range sel.Mask.Pix {
		if a > 0 {
			n++
		}
	}
	return n
}
