// Package project provides document file handling and persistence.
//
// A document on disk is a .rpdoc JSON sidecar plus one PNG per layer
// stored next to it. The sidecar carries layer order, metadata and the
// active layer; pixel data lives only in the PNGs. Undo history is
// never written.
package project

import (
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"rasterpad/internal/engine"
	"rasterpad/internal/layer"
)

// Extension is the document sidecar extension.
const Extension = ".rpdoc"

// File represents a document sidecar file (.rpdoc).
type File struct {
	Version  int       `json:"version"`
	Name     string    `json:"name"`
	Created  time.Time `json:"created"`
	Modified time.Time `json:"modified"`

	Width  int `json:"width"`
	Height int `json:"height"`

	// Layer PNG paths are relative to the sidecar.
	Layers []LayerEntry `json:"layers"`
	Active int          `json:"active"`

	Settings Settings `json:"settings,omitempty"`
}

// LayerEntry pairs one layer's metadata with its pixel file.
type LayerEntry struct {
	Meta layer.Layer `json:"meta"`
	Path string      `json:"path"`
}

// Settings holds user preferences stored with the document.
type Settings struct {
	WandTolerance  int  `json:"wand_tolerance,omitempty"`
	WandContiguous bool `json:"wand_contiguous"`
	FeatherRadius  int  `json:"feather_radius,omitempty"`
}

// New creates an empty sidecar with default settings.
func New(name string, width, height int) *File {
	now := time.Now()
	return &File{
		Version:  1,
		Name:     name,
		Created:  now,
		Modified: now,
		Width:    width,
		Height:   height,
		Active:   0,
		Settings: Settings{
			WandTolerance:  32,
			WandContiguous: true,
		},
	}
}

// Load reads a sidecar from a .rpdoc file. Layer pixels are not read;
// use LoadDocument for the full document.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return &f, nil
}

// Save writes the sidecar to a file.
func (f *File) Save(path string) error {
	f.Modified = time.Now()

	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LayerPath returns the absolute path of the i-th layer's PNG.
func (f *File) LayerPath(sidecarPath string, i int) string {
	if i < 0 || i >= len(f.Layers) {
		return ""
	}
	p := f.Layers[i].Path
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(filepath.Dir(sidecarPath), p)
}

// SaveDocument writes a session's layers as a sidecar plus per-layer
// PNGs in the sidecar's directory.
func SaveDocument(s *engine.Session, path string) error {
	data, active := s.SerializeLayers()

	base := path[:len(path)-len(filepath.Ext(path))]
	name := filepath.Base(base)

	f := New(name, s.Width(), s.Height())
	f.Active = active

	for i, d := range data {
		layerFile := fmt.Sprintf("%s_layer%03d.png", name, i)
		img := image.NewRGBA(image.Rect(0, 0, d.Width, d.Height))
		copy(img.Pix, d.Pixels)
		if err := writePNG(filepath.Join(filepath.Dir(path), layerFile), img); err != nil {
			return fmt.Errorf("write layer %d: %w", i, err)
		}
		f.Layers = append(f.Layers, LayerEntry{Meta: d.Layer, Path: layerFile})
	}

	return f.Save(path)
}

// LoadDocument reads a sidecar and its layer PNGs into a session.
func LoadDocument(s *engine.Session, path string) error {
	f, err := Load(path)
	if err != nil {
		return err
	}
	if len(f.Layers) == 0 {
		return fmt.Errorf("%s: document has no layers", filepath.Base(path))
	}

	data := make([]engine.LayerData, 0, len(f.Layers))
	for i, entry := range f.Layers {
		img, err := readImage(f.LayerPath(path, i))
		if err != nil {
			return fmt.Errorf("read layer %q: %w", entry.Meta.Name, err)
		}
		rgba := toRGBA(img)
		data = append(data, engine.LayerData{
			Layer:  entry.Meta,
			Width:  rgba.Bounds().Dx(),
			Height: rgba.Bounds().Dy(),
			Pixels: rgba.Pix,
		})
	}

	return s.LoadLayers(data, f.Active)
}

func writePNG(path string, img image.Image) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()
	return png.Encode(out, img)
}

func readImage(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}
