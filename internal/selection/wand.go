package selection

import (
	"context"
	"image"
	"image/color"

	"rasterpad/internal/surface"
	"rasterpad/pkg/colorutil"
)

// cancelCheckInterval is how many pixels the wand processes between
// context checks.
const cancelCheckInterval = 4096

// Wand selects the region around a seed point by color similarity.
// Tolerance is the largest per-channel difference (0-255) a pixel may
// have from the seed color. With contiguous set, only the 4-connected
// region reachable from the seed is selected (diagonal neighbors do
// not connect); otherwise every matching pixel in the surface is
// included.
//
// The input surface is never modified. A seed outside the surface, or
// a match smaller than MinSize per axis, yields an empty selection and
// no error. If ctx is cancelled mid-scan the empty selection is
// returned along with the context's error.
func Wand(ctx context.Context, surf *surface.Surface, seedX, seedY, tolerance int, contiguous bool) (*Selection, error) {
	empty := &Selection{Tolerance: tolerance}
	if surf == nil {
		return empty, nil
	}
	bounds := surf.Bounds()
	if !(image.Point{X: seedX, Y: seedY}.In(bounds)) {
		return empty, nil
	}

	seed := surf.At(seedX, seedY)
	mask := newMask(bounds)

	var err error
	if contiguous {
		err = floodFill(ctx, surf, mask, seedX, seedY, seed, tolerance)
	} else {
		err = scanAll(ctx, surf, mask, seed, tolerance)
	}
	if err != nil {
		return empty, err
	}

	sel := &Selection{
		Mask:      mask,
		Bounds:    maskBounds(mask),
		Tolerance: tolerance,
	}
	if sel.Bounds.Dx() < MinSize || sel.Bounds.Dy() < MinSize {
		return empty, nil
	}
	return sel, nil
}

// floodFill grows a 4-connected region from the seed using an explicit
// queue, marking visited pixels directly in the mask.
func floodFill(ctx context.Context, surf *surface.Surface, mask *image.Alpha, seedX, seedY int, seed color.RGBA, tolerance int) error {
	bounds := surf.Bounds()
	w := bounds.Dx()

	idx := func(x, y int) int {
		return (y-bounds.Min.Y)*mask.Stride + (x - bounds.Min.X)
	}

	queue := make([]image.Point, 0, 1024)
	queue = append(queue, image.Point{X: seedX, Y: seedY})
	mask.Pix[idx(seedX, seedY)] = 255

	processed := 0
	for len(queue) > 0 {
		p := queue[len(queue)-1]
		queue = queue[:len(queue)-1]

		processed++
		if processed%cancelCheckInterval == 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
		}

		for _, n := range [4]image.Point{
			{X: p.X - 1, Y: p.Y},
			{X: p.X + 1, Y: p.Y},
			{X: p.X, Y: p.Y - 1},
			{X: p.X, Y: p.Y + 1},
		} {
			if n.X < bounds.Min.X || n.X >= bounds.Min.X+w ||
				n.Y < bounds.Min.Y || n.Y >= bounds.Max.Y {
				continue
			}
			i := idx(n.X, n.Y)
			if mask.Pix[i] != 0 {
				continue
			}
			if colorutil.ChannelDistance(surf.At(n.X, n.Y), seed) > tolerance {
				continue
			}
			mask.Pix[i] = 255
			queue = append(queue, n)
		}
	}
	return nil
}

// scanAll includes every pixel within tolerance of the seed color,
// regardless of connectivity. The context is checked once per row.
func scanAll(ctx context.Context, surf *surface.Surface, mask *image.Alpha, seed color.RGBA, tolerance int) error {
	bounds := surf.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if colorutil.ChannelDistance(surf.At(x, y), seed) <= tolerance {
				mask.Pix[(y-bounds.Min.Y)*mask.Stride+(x-bounds.Min.X)] = 255
			}
		}
	}
	return nil
}
