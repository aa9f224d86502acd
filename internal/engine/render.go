package engine

import (
	"image"

	xdraw "golang.org/x/image/draw"

	"rasterpad/internal/surface"
)

// Composite returns the flattened frame for the renderer to blit. The
// result is cached and recomputed only after a mutation; callers must
// treat it as read-only.
func (s *Session) Composite() *surface.Surface {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.composite == nil || s.dirty || s.stroking {
		out, err := s.comp.CompositeLayers(s.previewLayers(), s.cfg.Width, s.cfg.Height)
		if err != nil {
			return s.composite
		}
		s.composite = out
		s.dirty = false
	}
	return s.composite
}

// Thumbnail returns the composite scaled so its longer edge is maxEdge
// pixels, for layer panels and document pickers.
func (s *Session) Thumbnail(maxEdge int) image.Image {
	src := s.Composite()
	if src == nil || maxEdge <= 0 {
		return nil
	}

	w, h := src.Width(), src.Height()
	scale := float64(maxEdge) / float64(maxInt(w, h))
	if scale > 1 {
		scale = 1
	}
	tw, th := int(float64(w)*scale), int(float64(h)*scale)
	if tw < 1 {
		tw = 1
	}
	if th < 1 {
		th = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, tw, th))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src.RGBA(), src.Bounds(), xdraw.Src, nil)
	return dst
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
