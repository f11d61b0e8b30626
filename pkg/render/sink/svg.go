// Package sink exports timeline snapshots to static image formats. The
// renderer draws through the same Surface contract the interactive host
// uses, so exported snapshots match the on-screen pixels.
package sink

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/ganttkit/ganttkit/pkg/errors"
	"github.com/ganttkit/ganttkit/pkg/geom"
	"github.com/ganttkit/ganttkit/pkg/render"
	"github.com/ganttkit/ganttkit/pkg/timeline"
)

// SVGOption configures SVG export.
type SVGOption func(*svgConfig)

type svgConfig struct {
	width, height float64
	fontSize      float64
}

// WithSVGSize sets the canvas size in pixels (default 1024x576).
func WithSVGSize(width, height float64) SVGOption {
	return func(c *svgConfig) { c.width, c.height = width, height }
}

// WithSVGFontSize sets the label font size (default 12).
func WithSVGFontSize(points float64) SVGOption {
	return func(c *svgConfig) { c.fontSize = points }
}

// RenderSVG paints the timeline's current state into an SVG document.
func RenderSVG(tl *timeline.Timeline, w io.Writer, opts ...SVGOption) error {
	cfg := svgConfig{width: 1024, height: 576, fontSize: 12}
	for _, opt := range opts {
		opt(&cfg)
	}
	s := newSVGSurface(cfg.fontSize)
	r := render.New(tl, s, s, render.WithSize(cfg.width, cfg.height))
	r.Paint()
	if err := s.write(w, cfg.width, cfg.height); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "writing SVG")
	}
	return nil
}

// svgSurface implements the drawing contract by accumulating SVG
// elements. Text metrics are approximated from the font size; SVG has
// no measurement oracle of its own.
type svgSurface struct {
	body     bytes.Buffer
	defs     bytes.Buffer
	clips    int
	frames   []int
	fontSize float64
}

func newSVGSurface(fontSize float64) *svgSurface {
	return &svgSurface{fontSize: fontSize}
}

func (s *svgSurface) write(w io.Writer, width, height float64) error {
	var out bytes.Buffer
	fmt.Fprintf(&out, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		width, height, width, height)
	if s.defs.Len() > 0 {
		out.WriteString("<defs>\n")
		out.Write(s.defs.Bytes())
		out.WriteString("</defs>\n")
	}
	out.Write(s.body.Bytes())
	out.WriteString("</svg>\n")
	_, err := w.Write(out.Bytes())
	return err
}

// MeasureString approximates text extent as 0.6em per character.
func (s *svgSurface) MeasureString(str string) (w, h float64) {
	return float64(len([]rune(str))) * s.fontSize * 0.6, s.fontSize * 1.2
}

func svgColor(c color.Color) (string, float64) {
	r, g, b, a := c.RGBA()
	if a == 0 {
		return "#000000", 0
	}
	// Un-premultiply back to 8-bit channels.
	return fmt.Sprintf("#%02x%02x%02x", (r*0xff)/a, (g*0xff)/a, (b*0xff)/a), float64(a) / 0xffff
}

func (s *svgSurface) FillRect(r geom.Rect, c color.Color) {
	hex, op := svgColor(c)
	fmt.Fprintf(&s.body, `<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s" fill-opacity="%.3f"/>`+"\n",
		r.X, r.Y, r.W, r.H, hex, op)
}

func (s *svgSurface) StrokeRect(r geom.Rect, c color.Color, lineWidth float64) {
	hex, op := svgColor(c)
	fmt.Fprintf(&s.body, `<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="none" stroke="%s" stroke-opacity="%.3f" stroke-width="%.1f"/>`+"\n",
		r.X, r.Y, r.W, r.H, hex, op, lineWidth)
}

func (s *svgSurface) FillRoundedRect(r geom.Rect, radius float64, c color.Color) {
	hex, op := svgColor(c)
	fmt.Fprintf(&s.body, `<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="%.1f" fill="%s" fill-opacity="%.3f"/>`+"\n",
		r.X, r.Y, r.W, r.H, radius, hex, op)
}

func (s *svgSurface) Line(x1, y1, x2, y2 float64, c color.Color, lineWidth float64) {
	hex, op := svgColor(c)
	fmt.Fprintf(&s.body, `<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-opacity="%.3f" stroke-width="%.1f"/>`+"\n",
		x1, y1, x2, y2, hex, op, lineWidth)
}

func (s *svgSurface) FillOval(r geom.Rect, c color.Color) {
	hex, op := svgColor(c)
	fmt.Fprintf(&s.body, `<ellipse cx="%.2f" cy="%.2f" rx="%.2f" ry="%.2f" fill="%s" fill-opacity="%.3f"/>`+"\n",
		r.CenterX(), r.CenterY(), r.W/2, r.H/2, hex, op)
}

func (s *svgSurface) Text(str string, x, y float64, c color.Color) {
	hex, op := svgColor(c)
	fmt.Fprintf(&s.body, `<text x="%.2f" y="%.2f" font-family="sans-serif" font-size="%.1f" fill="%s" fill-opacity="%.3f">%s</text>`+"\n",
		x, y+s.fontSize, s.fontSize, hex, op, escape(str))
}

func (s *svgSurface) TextCentered(str string, cx, cy float64, c color.Color) {
	hex, op := svgColor(c)
	fmt.Fprintf(&s.body, `<text x="%.2f" y="%.2f" font-family="sans-serif" font-size="%.1f" text-anchor="middle" dominant-baseline="central" fill="%s" fill-opacity="%.3f">%s</text>`+"\n",
		cx, cy, s.fontSize, hex, op, escape(str))
}

func (s *svgSurface) DrawImage(img image.Image, x, y float64) {
	// Raster blits are not round-tripped into vector output; the glyph
	// footprint is kept so hit boxes still line up.
	b := img.Bounds()
	fmt.Fprintf(&s.body, `<rect x="%.2f" y="%.2f" width="%d" height="%d" fill="#cccccc"/>`+"\n",
		x, y, b.Dx(), b.Dy())
}

func (s *svgSurface) PushClip(r geom.Rect) {
	s.clips++
	id := fmt.Sprintf("clip%d", s.clips)
	fmt.Fprintf(&s.defs, `<clipPath id="%s"><rect x="%.2f" y="%.2f" width="%.2f" height="%.2f"/></clipPath>`+"\n",
		id, r.X, r.Y, r.W, r.H)
	fmt.Fprintf(&s.body, `<g clip-path="url(#%s)">`+"\n", id)
}

func (s *svgSurface) PopClip() {
	s.body.WriteString("</g>\n")
}

func (s *svgSurface) Save() {
	s.frames = append(s.frames, 0)
	s.body.WriteString("<g>\n")
}

func (s *svgSurface) Restore() {
	if n := len(s.frames); n > 0 {
		for i := 0; i <= s.frames[n-1]; i++ {
			s.body.WriteString("</g>\n")
		}
		s.frames = s.frames[:n-1]
	}
}

func (s *svgSurface) Translate(dx, dy float64) {
	fmt.Fprintf(&s.body, `<g transform="translate(%.2f %.2f)">`+"\n", dx, dy)
	s.bumpFrame()
}

func (s *svgSurface) Rotate(radians float64) {
	fmt.Fprintf(&s.body, `<g transform="rotate(%.2f)">`+"\n", radians*180/3.141592653589793)
	s.bumpFrame()
}

func (s *svgSurface) bumpFrame() {
	if n := len(s.frames); n > 0 {
		s.frames[n-1]++
	}
}

func escape(s string) string {
	var b bytes.Buffer
	for _, r := range s {
		switch r {
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case '&':
			b.WriteString("&amp;")
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
