// Package ggsurface backs the renderer's drawing contract with an
// in-memory raster canvas. It doubles as the text-measurement oracle:
// header unit selection and label sizing use the same font face the
// pixels are drawn with.
package ggsurface

import (
	"image"
	"image/color"
	"io"
	"os"

	"github.com/flopp/go-findfont"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"

	"github.com/ganttkit/ganttkit/pkg/errors"
	"github.com/ganttkit/ganttkit/pkg/geom"
)

// defaultFonts are tried in order when no font is configured. The list
// covers the common Linux, macOS and Windows system fonts.
var defaultFonts = []string{"DejaVuSans.ttf", "Helvetica.ttc", "Arial.ttf", "Verdana.ttf"}

// Option configures a Surface.
type Option func(*config)

type config struct {
	fontPath string
	fontSize float64
}

// WithFont sets an explicit TTF path instead of probing system fonts.
func WithFont(path string) Option {
	return func(c *config) { c.fontPath = path }
}

// WithFontSize sets the font size in points.
func WithFontSize(points float64) Option {
	return func(c *config) { c.fontSize = points }
}

// Surface is a raster canvas drawing through fogleman/gg.
type Surface struct {
	dc   *gg.Context
	face font.Face
}

// New creates a white canvas of the given pixel size with a system font
// loaded. It fails with FONT_NOT_FOUND when no usable font exists.
func New(width, height int, opts ...Option) (*Surface, error) {
	cfg := config{fontSize: 12}
	for _, opt := range opts {
		opt(&cfg)
	}
	face, err := loadFace(cfg)
	if err != nil {
		return nil, err
	}
	dc := gg.NewContext(width, height)
	dc.SetFontFace(face)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	return &Surface{dc: dc, face: face}, nil
}

func loadFace(cfg config) (font.Face, error) {
	path := cfg.fontPath
	if path == "" {
		for _, name := range defaultFonts {
			if p, err := findfont.Find(name); err == nil {
				path = p
				break
			}
		}
	}
	if path == "" {
		return nil, errors.New(errors.ErrCodeFontNotFound, "no usable system font found")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFontNotFound, err, "reading font file")
	}
	ft, err := truetype.Parse(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFontNotFound, err, "parsing font file")
	}
	return truetype.NewFace(ft, &truetype.Options{Size: cfg.fontSize}), nil
}

// MeasureString reports the rendered pixel extent of s.
func (s *Surface) MeasureString(str string) (w, h float64) {
	return s.dc.MeasureString(str)
}

// Image returns the canvas pixels.
func (s *Surface) Image() image.Image { return s.dc.Image() }

// EncodePNG writes the canvas as PNG.
func (s *Surface) EncodePNG(w io.Writer) error {
	if err := s.dc.EncodePNG(w); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encoding PNG")
	}
	return nil
}

func (s *Surface) FillRect(r geom.Rect, c color.Color) {
	s.dc.SetColor(c)
	s.dc.DrawRectangle(r.X, r.Y, r.W, r.H)
	s.dc.Fill()
}

func (s *Surface) StrokeRect(r geom.Rect, c color.Color, lineWidth float64) {
	s.dc.SetColor(c)
	s.dc.SetLineWidth(lineWidth)
	s.dc.DrawRectangle(r.X, r.Y, r.W, r.H)
	s.dc.Stroke()
}

func (s *Surface) FillRoundedRect(r geom.Rect, radius float64, c color.Color) {
	s.dc.SetColor(c)
	s.dc.DrawRoundedRectangle(r.X, r.Y, r.W, r.H, radius)
	s.dc.Fill()
}

func (s *Surface) Line(x1, y1, x2, y2 float64, c color.Color, lineWidth float64) {
	s.dc.SetColor(c)
	s.dc.SetLineWidth(lineWidth)
	s.dc.DrawLine(x1, y1, x2, y2)
	s.dc.Stroke()
}

func (s *Surface) FillOval(r geom.Rect, c color.Color) {
	s.dc.SetColor(c)
	s.dc.DrawEllipse(r.CenterX(), r.CenterY(), r.W/2, r.H/2)
	s.dc.Fill()
}

func (s *Surface) Text(str string, x, y float64, c color.Color) {
	s.dc.SetColor(c)
	// ay=1 anchors the top edge of the text box at y.
	s.dc.DrawStringAnchored(str, x, y, 0, 1)
}

func (s *Surface) TextCentered(str string, cx, cy float64, c color.Color) {
	s.dc.SetColor(c)
	s.dc.DrawStringAnchored(str, cx, cy, 0.5, 0.5)
}

func (s *Surface) DrawImage(img image.Image, x, y float64) {
	s.dc.DrawImage(img, int(x), int(y))
}

// PushClip saves the context state and intersects the clip region with
// r; PopClip restores the state saved by the matching PushClip.
func (s *Surface) PushClip(r geom.Rect) {
	s.dc.Push()
	s.dc.DrawRectangle(r.X, r.Y, r.W, r.H)
	s.dc.Clip()
}

func (s *Surface) PopClip() { s.dc.Pop() }

func (s *Surface) Save()    { s.dc.Push() }
func (s *Surface) Restore() { s.dc.Pop() }

func (s *Surface) Translate(dx, dy float64) { s.dc.Translate(dx, dy) }
func (s *Surface) Rotate(radians float64)   { s.dc.Rotate(radians) }
