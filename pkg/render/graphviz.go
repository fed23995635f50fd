package render

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	errs "github.com/matzehuels/topodraw/pkg/errors"
)

var graphvizFormats = map[Format]graphviz.Format{
	FormatSVG: graphviz.SVG,
	FormatPNG: graphviz.PNG,
	FormatJPG: graphviz.JPG,
}

// RenderGraphviz lays out a DOT graph with Graphviz and exports it as SVG,
// PNG or JPG. PDF goes through [ToPDF]; textual formats need no layout.
func RenderGraphviz(ctx context.Context, dot string, format Format) ([]byte, error) {
	gvFormat, ok := graphvizFormats[format]
	if !ok {
		return nil, errs.New(errs.ErrCodeInvalidFormat, "graphviz cannot export %q", format)
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, gvFormat, &buf); err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return buf.Bytes(), nil
}
