// Package overlay renders a costgrid.Grid as a green heat map, optionally
// with a route drawn on top, for inspection outside any live display.
//
// Each cell becomes a Scale×Scale block whose green channel is the cell's
// normalized value (brighter = better terrain). A route is drawn as a
// polyline through cell centres with a dot on every waypoint.
package overlay

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/fogleman/gg"

	"github.com/katalvlaran/terrapath/costgrid"
)

// DefaultMaxPixels bounds the rendered image at 4096×4096.
const DefaultMaxPixels int64 = 1 << 24

// ErrTooLarge indicates that W·H·Scale² exceeds Options.MaxPixels.
var ErrTooLarge = errors.New("overlay: image exceeds the pixel limit")

// Options controls rendering.
type Options struct {
	Scale     int         // pixels per cell, ≥ 1
	MaxPixels int64       // image size limit, ≥ 1
	Alpha     uint8       // heat-map opacity
	Path      []costgrid.Cell
	LineColor color.Color // route polyline
	DotColor  color.Color // waypoint dots
	LineWidth float64
	DotRadius float64
}

// Option mutates Options.
type Option func(*Options)

// DefaultOptions: scale 4, DefaultMaxPixels, opaque, green route line,
// yellow dots.
func DefaultOptions() Options {
	return Options{
		Scale:     4,
		MaxPixels: DefaultMaxPixels,
		Alpha:     255,
		LineColor: color.RGBA{R: 0, G: 255, B: 0, A: 255},
		DotColor:  color.RGBA{R: 255, G: 255, B: 0, A: 255},
		LineWidth: 2,
		DotRadius: 3,
	}
}

// WithScale sets the pixels per cell. Panics if n < 1.
func WithScale(n int) Option {
	if n < 1 {
		panic("overlay: WithScale(n<1)")
	}
	return func(o *Options) { o.Scale = n }
}

// WithMaxPixels sets the image size limit. Panics if n < 1.
func WithMaxPixels(n int64) Option {
	if n < 1 {
		panic("overlay: WithMaxPixels(n<1)")
	}
	return func(o *Options) { o.MaxPixels = n }
}

// Pixels returns the pixel count of g rendered at scale.
func Pixels(g *costgrid.Grid, scale int) int64 {
	w, h := g.Dimensions()
	return int64(w) * int64(h) * int64(scale) * int64(scale)
}

// WithAlpha sets the heat-map opacity.
func WithAlpha(a uint8) Option {
	return func(o *Options) { o.Alpha = a }
}

// WithPath draws cells as a route.
func WithPath(cells []costgrid.Cell) Option {
	return func(o *Options) { o.Path = cells }
}

// WithColors overrides the route line and dot colours. Nil keeps the default.
func WithColors(line, dot color.Color) Option {
	return func(o *Options) {
		if line != nil {
			o.LineColor = line
		}
		if dot != nil {
			o.DotColor = dot
		}
	}
}

// Render draws g (and the optional route) into a new image of
// (W·Scale)×(H·Scale) pixels. Returns ErrTooLarge, before allocating,
// when that exceeds MaxPixels.
func Render(g *costgrid.Grid, opts ...Option) (*image.RGBA, error) {
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	dc, err := render(g, cfg)
	if err != nil {
		return nil, err
	}
	return dc.Image().(*image.RGBA), nil
}

// EncodePNG renders g and writes it to w as PNG.
func EncodePNG(w io.Writer, g *costgrid.Grid, opts ...Option) error {
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	dc, err := render(g, cfg)
	if err != nil {
		return err
	}
	return dc.EncodePNG(w)
}

// checkSize compares cells against MaxPixels/Scale² so the product never
// overflows.
func checkSize(g *costgrid.Grid, cfg Options) error {
	w, h := g.Dimensions()
	perCell := int64(cfg.Scale) * int64(cfg.Scale)
	if int64(w)*int64(h) > cfg.MaxPixels/perCell {
		return fmt.Errorf("%dx%d cells at scale %d, limit %d pixels: %w", w, h, cfg.Scale, cfg.MaxPixels, ErrTooLarge)
	}
	return nil
}

func render(g *costgrid.Grid, cfg Options) (*gg.Context, error) {
	if err := checkSize(g, cfg); err != nil {
		return nil, err
	}
	w, h := g.Dimensions()
	s := cfg.Scale
	img := image.NewRGBA(image.Rect(0, 0, w*s, h*s))

	// Heat map: written straight into the pixel buffer, one block per cell.
	for r := 0; r < h; r++ {
		for c := 0; c < w; c++ {
			n := g.Normalized(costgrid.Cell{Row: r, Col: c})
			px := premultiply(color.NRGBA{G: uint8(n*255 + 0.5), A: cfg.Alpha})
			for y := r * s; y < (r+1)*s; y++ {
				for x := c * s; x < (c+1)*s; x++ {
					img.SetRGBA(x, y, px)
				}
			}
		}
	}

	dc := gg.NewContextForRGBA(img)
	if len(cfg.Path) == 0 {
		return dc, nil
	}

	center := func(c costgrid.Cell) (float64, float64) {
		return (float64(c.Col) + 0.5) * float64(s), (float64(c.Row) + 0.5) * float64(s)
	}

	// Route polyline.
	if len(cfg.Path) > 1 {
		dc.SetColor(cfg.LineColor)
		dc.SetLineWidth(cfg.LineWidth)
		dc.MoveTo(center(cfg.Path[0]))
		for _, c := range cfg.Path[1:] {
			dc.LineTo(center(c))
		}
		dc.Stroke()
	}

	// Waypoint dots.
	dc.SetColor(cfg.DotColor)
	for _, c := range cfg.Path {
		x, y := center(c)
		dc.DrawCircle(x, y, cfg.DotRadius)
		dc.Fill()
	}
	return dc, nil
}

func premultiply(c color.NRGBA) color.RGBA {
	r, g, b, a := c.RGBA()
	return color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(a >> 8)}
}
