package sink

import (
	"io"

	"github.com/ganttkit/ganttkit/pkg/render"
	"github.com/ganttkit/ganttkit/pkg/render/ggsurface"
	"github.com/ganttkit/ganttkit/pkg/timeline"
)

// PNGOption configures PNG export.
type PNGOption func(*pngConfig)

type pngConfig struct {
	width, height int
	fontPath      string
	fontSize      float64
}

// WithPNGSize sets the canvas size in pixels (default 1024x576).
func WithPNGSize(width, height int) PNGOption {
	return func(c *pngConfig) { c.width, c.height = width, height }
}

// WithPNGFont sets an explicit TTF path instead of probing system fonts.
func WithPNGFont(path string) PNGOption {
	return func(c *pngConfig) { c.fontPath = path }
}

// WithPNGFontSize sets the label font size (default 12).
func WithPNGFontSize(points float64) PNGOption {
	return func(c *pngConfig) { c.fontSize = points }
}

// RenderPNG rasterizes the timeline's current state and writes it as
// PNG. Fails when no usable font is available.
func RenderPNG(tl *timeline.Timeline, w io.Writer, opts ...PNGOption) error {
	cfg := pngConfig{width: 1024, height: 576, fontSize: 12}
	for _, opt := range opts {
		opt(&cfg)
	}
	var surfOpts []ggsurface.Option
	if cfg.fontPath != "" {
		surfOpts = append(surfOpts, ggsurface.WithFont(cfg.fontPath))
	}
	surfOpts = append(surfOpts, ggsurface.WithFontSize(cfg.fontSize))
	surf, err := ggsurface.New(cfg.width, cfg.height, surfOpts...)
	if err != nil {
		return err
	}
	r := render.New(tl, surf, surf, render.WithSize(float64(cfg.width), float64(cfg.height)))
	r.Paint()
	return surf.EncodePNG(w)
}
