package project

import (
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/tiff"

	"rasterpad/internal/engine"
	"rasterpad/internal/layer"
	"rasterpad/internal/surface"
)

// ImportImage decodes an image file and opens it as a single-layer
// session. The canvas takes the image's dimensions.
func ImportImage(path string) (*engine.Session, error) {
	img, err := readImage(path)
	if err != nil {
		return nil, err
	}
	rgba := toRGBA(img)

	if rgba.Bounds().Dx()*rgba.Bounds().Dy() > surface.MaxPixels {
		return nil, fmt.Errorf("import %s: image exceeds canvas limit", filepath.Base(path))
	}

	s, err := engine.NewSession(engine.DefaultConfig(rgba.Bounds().Dx(), rgba.Bounds().Dy()))
	if err != nil {
		return nil, err
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	data := []engine.LayerData{{
		Layer:  *layer.New(1, name, 0),
		Width:  rgba.Bounds().Dx(),
		Height: rgba.Bounds().Dy(),
		Pixels: rgba.Pix,
	}}
	if err := s.LoadLayers(data, 0); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// ExportPNG writes the flattened composite of a session to a PNG file.
func ExportPNG(s *engine.Session, path string) error {
	flat := s.Composite()
	if flat == nil {
		return fmt.Errorf("export %s: nothing to export", filepath.Base(path))
	}
	return writePNG(path, flat.RGBA())
}

// toRGBA converts any decoded image to premultiplied RGBA, copying
// when the source is already RGBA so the result is always owned.
func toRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}

// SupportedFormats returns the list of importable image formats.
func SupportedFormats() []string {
	return []string{".png", ".jpg", ".jpeg", ".tiff", ".tif"}
}

// IsSupportedFormat checks if the given path has a supported image format.
func IsSupportedFormat(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, format := range SupportedFormats() {
		if ext == format {
			return true
		}
	}
	return false
}

// FileFilter returns a file filter string for use in file dialogs.
func FileFilter() string {
	return "Image Files (*.png, *.jpg, *.jpeg, *.tiff, *.tif)"
}
