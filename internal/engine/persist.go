package engine

import (
	"fmt"
	"image"

	"rasterpad/internal/layer"
	"rasterpad/internal/surface"
)

// LayerData is the on-disk form of one layer: its metadata plus a raw
// copy of its pixels. Undo history is deliberately absent; it never
// survives a save.
type LayerData struct {
	Layer  layer.Layer `json:"layer"`
	Width  int         `json:"width"`
	Height int         `json:"height"`
	Pixels []byte      `json:"-"`
}

// SerializeLayers captures every layer bottom-to-top along with the
// active layer index. Pixel buffers are copies; the caller may hold
// them across further edits.
func (s *Session) SerializeLayers() ([]LayerData, int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	layers := s.stack.Layers()
	out := make([]LayerData, 0, len(layers))
	for _, l := range layers {
		d := LayerData{Layer: *l}
		if surf := s.store.Get(l.Surface); surf != nil {
			d.Width = surf.Width()
			d.Height = surf.Height()
			pix := surf.ReadRegion(surf.Bounds())
			d.Pixels = pix.Pix
		}
		out = append(out, d)
	}
	return out, s.stack.ActiveIndex()
}

// LoadLayers replaces the document's layers with the given set. The
// undo history and selection are cleared; a loaded document starts
// with nothing to undo.
func (s *Session) LoadLayers(data []LayerData, active int) error {
	if len(data) == 0 {
		return fmt.Errorf("load layers: document has no layers")
	}

	s.mu.Lock()

	fresh := surface.NewStore()
	stack := layer.NewStack()
	for i := range data {
		d := &data[i]
		img := image.NewRGBA(image.Rect(0, 0, d.Width, d.Height))
		if len(d.Pixels) == len(img.Pix) {
			copy(img.Pix, d.Pixels)
		}
		surf, err := surface.FromImage(img)
		if err != nil {
			s.mu.Unlock()
			return fmt.Errorf("load layer %q: %w", d.Layer.Name, err)
		}
		l := d.Layer.Clone()
		l.Surface = fresh.Adopt(surf)
		stack.Push(l)
	}
	if active < 0 || active >= len(data) {
		active = len(data) - 1
	}
	stack.SetActive(active)

	s.history.Clear()
	s.store = fresh
	s.stack = stack
	s.comp = layer.NewCompositor(s.store)
	s.sel = nil
	s.stroking = false
	s.scratch = 0
	s.cfg.Width = data[0].Width
	s.cfg.Height = data[0].Height
	s.dirty = true

	s.mu.Unlock()

	s.bus.emit(Event{Kind: EventDocumentLoaded})
	s.bus.emit(Event{Kind: EventLayersChanged})
	return nil
}
