package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ganttkit/ganttkit/pkg/cache"
	"github.com/ganttkit/ganttkit/pkg/render/sink"
	"github.com/ganttkit/ganttkit/pkg/scenario"
	"github.com/ganttkit/ganttkit/pkg/timeline"
)

const (
	defaultWidth    = 1024 // default canvas width in pixels
	defaultHeight   = 576  // default canvas height in pixels
	defaultFontSize = 12
	snapshotTTL     = 24 * time.Hour
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string   // output file path (or base path for multiple formats)
	formats  []string // output formats: "svg", "png"
	width    int      // canvas width in pixels
	height   int      // canvas height in pixels
	fontSize float64  // label font size in points
	font     string   // explicit TTF path for PNG output
	noCache  bool     // bypass the snapshot cache
}

// renderCommand creates the render command for generating snapshots.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{
		width:    defaultWidth,
		height:   defaultHeight,
		fontSize: defaultFontSize,
	}

	cmd := &cobra.Command{
		Use:   "render [scenario.toml]",
		Short: "Render a scenario to SVG or PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := validateFormats(opts.formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png (comma-separated)")
	cmd.Flags().IntVar(&opts.width, "width", opts.width, "canvas width")
	cmd.Flags().IntVar(&opts.height, "height", opts.height, "canvas height")
	cmd.Flags().Float64Var(&opts.fontSize, "font-size", opts.fontSize, "label font size")
	cmd.Flags().StringVar(&opts.font, "font", "", "TTF font file for PNG output (default: probe system fonts)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the snapshot cache")

	return cmd
}

// parseFormats parses the --format flag into a slice of output formats.
func parseFormats(s string) []string {
	if s == "" {
		return []string{"svg"}
	}
	return strings.Split(s, ",")
}

var validFormats = map[string]bool{"svg": true, "png": true}

func validateFormats(formats []string) error {
	for _, f := range formats {
		if !validFormats[f] {
			return fmt.Errorf("invalid format: %s (must be 'svg' or 'png')", f)
		}
	}
	return nil
}

// basePath derives the base output path from the output and input paths.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if validFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// runRender loads the scenario and writes one snapshot per format.
func (c *CLI) runRender(ctx context.Context, input string, opts *renderOpts) error {
	c.Logger.Infof("Rendering %s", input)
	doc, err := os.ReadFile(input)
	if err != nil {
		return err
	}
	tl, err := scenario.Parse(bytes.NewReader(doc))
	if err != nil {
		return err
	}
	c.Logger.Infof("Loaded scenario: %d top-level lines, %d rows", len(tl.Lines()), tl.TotalRows())

	store := newCache(opts.noCache)
	defer store.Close()

	base := basePath(opts.output, input)
	for _, format := range opts.formats {
		p := newProgress(c.Logger)
		data, cached, err := c.snapshot(ctx, store, doc, tl, format, opts)
		if err != nil {
			return fmt.Errorf("%s: %w", format, err)
		}

		path := opts.output
		if path == "" || len(opts.formats) > 1 {
			path = base + "." + format
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return err
		}
		if cached {
			p.done(fmt.Sprintf("Generated %s (cached)", path))
		} else {
			p.done(fmt.Sprintf("Generated %s", path))
		}
	}
	return nil
}

// snapshot renders one format, consulting the cache first. The cache is
// keyed by scenario content and render parameters, so a hit is always
// current.
func (c *CLI) snapshot(ctx context.Context, store cache.Cache, doc []byte, tl *timeline.Timeline, format string, opts *renderOpts) (data []byte, cached bool, err error) {
	key := cache.SnapshotKey(doc, format, opts.width, opts.height,
		fmt.Sprintf("fs=%g", opts.fontSize), "font="+opts.font)
	if data, ok, err := store.Get(ctx, key); err == nil && ok {
		return data, true, nil
	}

	var buf bytes.Buffer
	switch format {
	case "svg":
		err = sink.RenderSVG(tl, &buf,
			sink.WithSVGSize(float64(opts.width), float64(opts.height)),
			sink.WithSVGFontSize(opts.fontSize))
	case "png":
		pngOpts := []sink.PNGOption{
			sink.WithPNGSize(opts.width, opts.height),
			sink.WithPNGFontSize(opts.fontSize),
		}
		if opts.font != "" {
			pngOpts = append(pngOpts, sink.WithPNGFont(opts.font))
		}
		err = sink.RenderPNG(tl, &buf, pngOpts...)
	default:
		err = fmt.Errorf("unknown format: %s", format)
	}
	if err != nil {
		return nil, false, err
	}
	if err := store.Set(ctx, key, buf.Bytes(), snapshotTTL); err != nil {
		c.Logger.Debugf("caching snapshot failed: %v", err)
	}
	return buf.Bytes(), false, nil
}
