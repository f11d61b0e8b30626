// Package render implements the paint orchestrator for a timeline: it
// walks the line tree once per paint, draws every visible node through an
// abstract drawing surface, keeps the viewport in sync with scrollbar
// value ranges, and routes pointer input back into the model using the
// bounding boxes captured during the previous paint.
//
// The package is toolkit-agnostic. Production surfaces live in
// subpackages (ggsurface for raster, sink for PNG/SVG export); tests run
// against an in-memory recording surface, so row counts, bounding boxes
// and hit-testing are verified without rasterizing anything.
package render

import (
	"image"
	"image/color"

	"github.com/ganttkit/ganttkit/pkg/geom"
)

// Surface is the minimal 2D drawing contract the renderer needs. All
// coordinates are pixels with the origin at the top-left corner.
//
// Implementations are not required to be concurrency-safe; the renderer
// drives them from a single goroutine.
type Surface interface {
	// FillRect fills an axis-aligned rectangle.
	FillRect(r geom.Rect, c color.Color)
	// StrokeRect outlines an axis-aligned rectangle.
	StrokeRect(r geom.Rect, c color.Color, lineWidth float64)
	// FillRoundedRect fills a rectangle with rounded corners.
	FillRoundedRect(r geom.Rect, radius float64, c color.Color)
	// Line draws a straight line segment.
	Line(x1, y1, x2, y2 float64, c color.Color, lineWidth float64)
	// FillOval fills the ellipse inscribed in r.
	FillOval(r geom.Rect, c color.Color)
	// Text draws s with its top-left corner at (x, y).
	Text(s string, x, y float64, c color.Color)
	// TextCentered draws s centered on (cx, cy).
	TextCentered(s string, cx, cy float64, c color.Color)
	// DrawImage blits an image with its top-left corner at (x, y).
	DrawImage(img image.Image, x, y float64)
	// PushClip intersects the clip region with r; PopClip restores the
	// previous region. Calls nest.
	PushClip(r geom.Rect)
	PopClip()
	// Save pushes the transform state; Restore pops it.
	Save()
	Restore()
	// Translate moves the origin by (dx, dy).
	Translate(dx, dy float64)
	// Rotate rotates the coordinate system around the current origin.
	Rotate(radians float64)
}

// TextMeasurer is the font-metrics oracle: it reports the pixel extent
// of a string at the surface's font. Used for dynamic label sizing and
// header unit selection.
type TextMeasurer interface {
	MeasureString(s string) (w, h float64)
}
