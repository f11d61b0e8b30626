package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/ganttkit/ganttkit/pkg/cache"
	"github.com/ganttkit/ganttkit/pkg/render/sink"
	"github.com/ganttkit/ganttkit/pkg/scenario"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr    string
	noCache bool
}

// serveCommand creates the serve command: an HTTP endpoint that renders
// a scenario file to snapshots on demand. The file is re-read per
// request, so edits show up without a restart.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{addr: ":8080"}

	cmd := &cobra.Command{
		Use:   "serve [scenario.toml]",
		Short: "Serve rendered snapshots over HTTP",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "listen address")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the snapshot cache")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, path string, opts *serveOpts) error {
	store := newCache(opts.noCache)
	defer store.Close()

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Get("/", indexHandler(path))
	r.Get("/snapshot.svg", c.snapshotHandler(path, "svg", store))
	r.Get("/snapshot.png", c.snapshotHandler(path, "png", store))

	srv := &http.Server{
		Addr:              opts.addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext: func(net.Listener) context.Context {
			return withLogger(context.Background(), c.Logger)
		},
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	c.Logger.Infof("Serving %s on %s", path, opts.addr)

	select {
	case <-ctx.Done():
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// indexHandler serves a minimal page embedding the SVG snapshot so the
// server is usable from a browser without remembering the endpoints.
func indexHandler(path string) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprintf(w, `<!doctype html>
<title>ganttkit — %s</title>
<p>%s &middot; <a href="/snapshot.svg">svg</a> &middot; <a href="/snapshot.png">png</a></p>
<img src="/snapshot.svg" alt="timeline snapshot" style="max-width:100%%">
`, html.EscapeString(filepath.Base(path)), html.EscapeString(path))
	}
}

// snapshotHandler renders the scenario to one format. Query parameters
// w and h override the canvas size.
func (c *CLI) snapshotHandler(path, format string, store cache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		logger := loggerFromContext(req.Context())

		width := queryInt(req, "w", defaultWidth)
		height := queryInt(req, "h", defaultHeight)
		doc, err := os.ReadFile(path)
		if err != nil {
			http.Error(w, "scenario unreadable", http.StatusInternalServerError)
			return
		}

		key := cache.SnapshotKey(doc, format, width, height)
		if data, ok, err := store.Get(req.Context(), key); err == nil && ok {
			logger.Debugf("snapshot %s %dx%d served from cache", format, width, height)
			writeSnapshot(w, format, data)
			return
		}

		tl, err := scenario.Parse(bytes.NewReader(doc))
		if err != nil {
			logger.Errorf("parsing scenario: %v", err)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		var buf bytes.Buffer
		switch format {
		case "svg":
			err = sink.RenderSVG(tl, &buf, sink.WithSVGSize(float64(width), float64(height)))
		case "png":
			err = sink.RenderPNG(tl, &buf, sink.WithPNGSize(width, height))
		}
		if err != nil {
			logger.Errorf("rendering snapshot: %v", err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if err := store.Set(req.Context(), key, buf.Bytes(), snapshotTTL); err != nil {
			logger.Debugf("caching snapshot failed: %v", err)
		}
		writeSnapshot(w, format, buf.Bytes())
	}
}

func writeSnapshot(w http.ResponseWriter, format string, data []byte) {
	switch format {
	case "svg":
		w.Header().Set("Content-Type", "image/svg+xml")
	case "png":
		w.Header().Set("Content-Type", "image/png")
	}
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	_, _ = w.Write(data)
}

func queryInt(req *http.Request, name string, fallback int) int {
	v := req.URL.Query().Get(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 || n > 8192 {
		return fallback
	}
	return n
}
