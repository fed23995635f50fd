package render

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/pkg/browser"

	"github.com/matzehuels/topodraw/pkg/cache"
	"github.com/matzehuels/topodraw/pkg/catalog"
	errs "github.com/matzehuels/topodraw/pkg/errors"
	"github.com/matzehuels/topodraw/pkg/observability"
	"github.com/matzehuels/topodraw/pkg/topology"
)

// DefaultTTL is how long rendered artifacts stay cached.
const DefaultTTL = 7 * 24 * time.Hour

// Renderer renders diagrams with caching. The zero value is not usable;
// create one with [NewRenderer] and adjust the exported fields.
//
// A Renderer holds no per-render state, so one value may serve several
// goroutines as long as its fields are not modified concurrently.
type Renderer struct {
	Catalog *catalog.Catalog
	Cache   cache.Cache
	Keyer   cache.Keyer
	Logger  *log.Logger
	TTL     time.Duration

	// Open displays an exported file. It defaults to the system viewer.
	Open func(path string) error
}

// NewRenderer creates a renderer with the default catalog.
// If keyer is nil, a DefaultKeyer is used.
// If c is nil, a NullCache is used (caching disabled).
// If logger is nil, log output is discarded.
func NewRenderer(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Renderer {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Renderer{
		Catalog: catalog.Default(),
		Cache:   c,
		Keyer:   keyer,
		Logger:  logger,
		TTL:     DefaultTTL,
		Open:    browser.OpenFile,
	}
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Renderer) Render(ctx context.Context, d *topology.Diagram, format string) ([]byte, error) {
	data, _, err := r.RenderWithCacheInfo(ctx, d, format)
	return data, err
}

// RenderWithCacheInfo closes d and renders it in format, reporting whether
// the artifact came from the cache. Binary formats are cached under the
// hash of the DOT source; DOT and Mermaid are always generated.
//
// Failures carry RENDER_FAILURE, except an unsupported format
// (INVALID_FORMAT).
func (r *Renderer) RenderWithCacheInfo(ctx context.Context, d *topology.Diagram, format string) ([]byte, bool, error) {
	f, err := ParseFormat(format)
	if err != nil {
		return nil, false, err
	}
	d.Close()

	hooks := observability.Render()
	hooks.OnRenderStart(ctx, string(f), d.NodeCount())
	start := time.Now()

	data, hit, err := r.render(ctx, d, f)
	hooks.OnRenderComplete(ctx, string(f), len(data), time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	r.Logger.Debug("rendered diagram",
		"title", d.Title(),
		"format", f,
		"bytes", len(data),
		"cached", hit,
		"duration", time.Since(start))
	return data, hit, nil
}

func (r *Renderer) render(ctx context.Context, d *topology.Diagram, f Format) ([]byte, bool, error) {
	if f == FormatMermaid {
		out, err := ToMermaid(d, r.Catalog)
		return []byte(out), false, err
	}
	dot, err := ToDOT(d, r.Catalog)
	if err != nil {
		return nil, false, err
	}
	if !f.Binary() {
		return []byte(dot), false, nil
	}

	key := r.Keyer.ArtifactKey([]byte(dot), string(f))
	if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
		observability.Cache().OnCacheHit(ctx, "artifact")
		return data, true, nil
	} else if err != nil {
		r.Logger.Warn("cache read failed", "error", err)
	}
	observability.Cache().OnCacheMiss(ctx, "artifact")

	data, err := r.rasterize(ctx, dot, f)
	if err != nil {
		return nil, false, errs.Wrap(errs.ErrCodeRenderFailure, err, "render %q as %s", d.Title(), f)
	}

	if err := r.Cache.Set(ctx, key, data, r.TTL); err != nil {
		r.Logger.Warn("cache write failed", "error", err)
	} else {
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}
	return data, false, nil
}

func (r *Renderer) rasterize(ctx context.Context, dot string, f Format) ([]byte, error) {
	if f != FormatPDF {
		return RenderGraphviz(ctx, dot, f)
	}
	svg, err := RenderGraphviz(ctx, dot, FormatSVG)
	if err != nil {
		return nil, err
	}
	return ToPDF(ctx, svg)
}

// Export renders d in its own format, writes <dir>/<filename>.<ext> and
// returns the path written. If d's show flag is set the file is then
// opened; a viewer that fails to start is logged, not returned.
func (r *Renderer) Export(ctx context.Context, d *topology.Diagram, dir string) (string, error) {
	if err := errs.ValidateFilename(d.Filename()); err != nil {
		return "", err
	}
	f, err := ParseFormat(d.Format())
	if err != nil {
		return "", err
	}
	data, err := r.Render(ctx, d, string(f))
	if err != nil {
		return "", err
	}

	if dir == "" {
		dir = "."
	}
	path := filepath.Join(dir, d.Filename()+f.Ext())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errs.Wrap(errs.ErrCodeRenderFailure, err, "create output directory %s", dir)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", errs.Wrap(errs.ErrCodeRenderFailure, err, "write %s", path)
	}
	r.Logger.Debug("exported diagram", "path", path, "bytes", len(data))

	if d.Show() && r.Open != nil {
		if err := r.Open(path); err != nil {
			r.Logger.Warn("could not open viewer", "path", path, "error", err)
		}
	}
	return path, nil
}
