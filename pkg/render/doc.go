// Package render turns a finished topology description into an artifact.
//
// # Overview
//
// Layout and rasterisation belong to Graphviz; this package only translates
// the description into something Graphviz (or Mermaid) understands and
// shuttles bytes around:
//
//   - [ToDOT] emits Graphviz DOT, one `subgraph cluster_*` per cluster
//   - [ToMermaid] emits a Mermaid flowchart for Markdown docs
//   - [RenderGraphviz] lays out DOT and exports SVG, PNG or JPG
//   - [ToPDF] converts SVG to PDF with rsvg-convert
//
// # Renderer
//
// [Renderer] ties these together, caches binary artifacts keyed by the DOT
// source and format, and reports render and cache events through
// [observability] hooks:
//
//	r := render.NewRenderer(c, nil, logger)
//	path, err := r.Export(ctx, d, ".")
//
// [Renderer.Export] writes `<dir>/<filename>.<ext>` in the diagram's format
// and, if the diagram's show flag is set, opens the file in the system
// viewer.
//
// # Styling
//
// Node appearance comes from a [catalog.Catalog]; a node whose category the
// catalog cannot resolve fails the render with RENDER_FAILURE naming the
// node and its cluster path. Cluster backgrounds alternate by depth.
//
// [observability]: github.com/matzehuels/topodraw/pkg/observability
// [catalog.Catalog]: github.com/matzehuels/topodraw/pkg/catalog
package render
