// Package screenshot numbers inventory entries and burns numbered markers
// onto a copy of a captured page image.
package screenshot

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/gobold"

	"github.com/anxuanzi/specsheet-go/dom"
)

// ErrMissingAsset is returned when the source screenshot does not exist.
var ErrMissingAsset = errors.New("screenshot not found")

// Annotation pairs an overlay number with the marker position. The number is
// the only link between the image and the workbook table row.
type Annotation struct {
	Number int       `json:"number"`
	Center dom.Point `json:"center"`
}

// Number assigns 1..N in inventory order.
func Number(inv dom.Inventory) []Annotation {
	out := make([]Annotation, len(inv))
	for i, r := range inv {
		out[i] = Annotation{Number: i + 1, Center: r.Center()}
	}
	return out
}

// AnnotationConfig configures how markers are drawn.
type AnnotationConfig struct {
	// Radius is the marker radius in pixels, independent of element size.
	Radius float64

	// StrokeWidth is the marker outline width in pixels.
	StrokeWidth float64

	// FontSize is the number size in points.
	FontSize float64

	FillColor   color.NRGBA
	StrokeColor color.NRGBA
	TextColor   color.NRGBA

	// JPEGQuality applies when the source image is not a PNG.
	JPEGQuality int
}

// DefaultAnnotationConfig returns the standard red numbered markers.
func DefaultAnnotationConfig() AnnotationConfig {
	return AnnotationConfig{
		Radius:      16,
		StrokeWidth: 2,
		FontSize:    18,
		FillColor:   color.NRGBA{R: 231, G: 76, B: 60, A: 209},   // 82% opaque
		StrokeColor: color.NRGBA{R: 192, G: 57, B: 43, A: 255},   // #c0392b
		TextColor:   color.NRGBA{R: 255, G: 255, B: 255, A: 255}, // White
		JPEGQuality: 90,
	}
}

var (
	boldFont     *truetype.Font
	boldFontErr  error
	boldFontOnce sync.Once
)

func markerFont() (*truetype.Font, error) {
	boldFontOnce.Do(func() {
		boldFont, boldFontErr = truetype.Parse(gobold.TTF)
	})
	return boldFont, boldFontErr
}

// Annotate composites numbered markers over an encoded image and returns the
// result in the same format. The input slice is never modified.
func Annotate(imgData []byte, entries []Annotation, cfg AnnotationConfig) ([]byte, error) {
	img, format, err := image.Decode(bytes.NewReader(imgData))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image for annotation: %w", err)
	}

	if len(entries) == 0 {
		return bytes.Clone(imgData), nil
	}

	f, err := markerFont()
	if err != nil {
		return nil, fmt.Errorf("failed to load marker font: %w", err)
	}

	dc := gg.NewContextForImage(img)
	dc.SetFontFace(truetype.NewFace(f, &truetype.Options{Size: cfg.FontSize}))

	for _, e := range entries {
		x, y := float64(e.Center.X), float64(e.Center.Y)

		dc.DrawCircle(x, y, cfg.Radius)
		dc.SetColor(cfg.FillColor)
		dc.FillPreserve()
		dc.SetColor(cfg.StrokeColor)
		dc.SetLineWidth(cfg.StrokeWidth)
		dc.Stroke()

		dc.SetColor(cfg.TextColor)
		dc.DrawStringAnchored(strconv.Itoa(e.Number), x, y, 0.5, 0.35)
	}

	var buf bytes.Buffer
	switch format {
	case "png":
		err = png.Encode(&buf, dc.Image())
	default:
		err = jpeg.Encode(&buf, dc.Image(), &jpeg.Options{Quality: cfg.JPEGQuality})
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode annotated image: %w", err)
	}

	return buf.Bytes(), nil
}

// Result describes an annotated image written to disk.
type Result struct {
	Path   string
	Width  int
	Height int
}

// AnnotateFile reads src, writes the annotated copy to dst and returns the
// source dimensions. A missing src yields ErrMissingAsset.
func AnnotateFile(src, dst string, entries []Annotation, cfg AnnotationConfig) (Result, error) {
	data, err := os.ReadFile(src)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Result{}, fmt.Errorf("%w: %s", ErrMissingAsset, src)
		}
		return Result{}, fmt.Errorf("failed to read screenshot: %w", err)
	}

	imgCfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Result{}, fmt.Errorf("failed to read image size: %w", err)
	}

	out, err := Annotate(data, entries, cfg)
	if err != nil {
		return Result{}, err
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return Result{}, fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(dst, out, 0o644); err != nil {
		return Result{}, fmt.Errorf("failed to write annotated image: %w", err)
	}

	return Result{Path: dst, Width: imgCfg.Width, Height: imgCfg.Height}, nil
}

// Size returns the pixel dimensions of an image file.
func Size(path string) (int, int, error) {
	fh, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, 0, fmt.Errorf("%w: %s", ErrMissingAsset, path)
		}
		return 0, 0, fmt.Errorf("failed to open image: %w", err)
	}
	defer fh.Close()

	cfg, _, err := image.DecodeConfig(fh)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read image size: %w", err)
	}
	return cfg.Width, cfg.Height, nil
}
