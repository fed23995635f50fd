package render

import (
	"bytes"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/matzehuels/topodraw/pkg/catalog"
	errs "github.com/matzehuels/topodraw/pkg/errors"
	"github.com/matzehuels/topodraw/pkg/topology"
)

const (
	fontName  = "Sans-Serif"
	fontColor = "#2D3436"
	edgeColor = "#7B8894"
	penColor  = "#AEB6BE"
)

// clusterColors are cluster backgrounds, indexed by (depth-1) mod len.
var clusterColors = []string{"#E5F5FD", "#EBF3E7", "#ECE8F6", "#FDF7E3"}

var graphAttrs = []string{
	"pad=2.0",
	"splines=spline",
	"nodesep=0.60",
	"ranksep=0.75",
	`fontname="` + fontName + `"`,
	"fontsize=15",
	`fontcolor="` + fontColor + `"`,
}

var nodeAttrs = []string{
	"shape=box",
	"style=rounded",
	"fixedsize=false",
	"width=1.4",
	"height=1.4",
	"labelloc=b",
	`fontname="` + fontName + `"`,
	"fontsize=13",
	`fontcolor="` + fontColor + `"`,
}

// ToDOT converts a diagram to Graphviz DOT. The output depends only on the
// diagram and the catalog, so equal inputs produce byte-identical DOT.
// A nil catalog means [catalog.Default].
func ToDOT(d *topology.Diagram, cat *catalog.Catalog) (string, error) {
	if cat == nil {
		cat = catalog.Default()
	}
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "digraph %s {\n", quote(d.Title()))
	attrs := append([]string{
		"label=" + quote(d.Title()),
		"labelloc=t",
		"rankdir=" + string(d.Direction()),
	}, graphAttrs...)
	fmt.Fprintf(&buf, "  graph [%s];\n", strings.Join(attrs, ", "))
	fmt.Fprintf(&buf, "  node [%s];\n", strings.Join(nodeAttrs, ", "))
	fmt.Fprintf(&buf, "  edge [color=%s];\n", quote(edgeColor))

	if err := writeNodes(&buf, d.RootNodes(), cat, "  "); err != nil {
		return "", err
	}
	for _, c := range d.Clusters() {
		if err := writeCluster(&buf, c, cat, "  "); err != nil {
			return "", err
		}
	}

	if edges := d.Edges(); len(edges) > 0 {
		buf.WriteString("\n")
		for _, e := range edges {
			fmt.Fprintf(&buf, "  %s -> %s", quote(e.From.Name()), quote(e.To.Name()))
			if a := edgeAttrs(e); len(a) > 0 {
				fmt.Fprintf(&buf, " [%s]", strings.Join(a, ", "))
			}
			buf.WriteString(";\n")
		}
	}

	buf.WriteString("}\n")
	return buf.String(), nil
}

func writeCluster(buf *bytes.Buffer, c *topology.Cluster, cat *catalog.Catalog, indent string) error {
	fmt.Fprintf(buf, "\n%ssubgraph %s {\n", indent, quote("cluster_"+c.Key()))
	inner := indent + "  "
	fmt.Fprintf(buf, "%sgraph [%s];\n", inner, strings.Join([]string{
		"label=" + quote(c.Name()),
		"style=rounded",
		"labeljust=l",
		"pencolor=" + quote(penColor),
		"fontname=" + quote(fontName),
		"fontsize=12",
		"bgcolor=" + quote(clusterColor(c.Depth())),
	}, ", "))

	if err := writeNodes(buf, c.Nodes(), cat, inner); err != nil {
		return err
	}
	for _, child := range c.Clusters() {
		if err := writeCluster(buf, child, cat, inner); err != nil {
			return err
		}
	}
	fmt.Fprintf(buf, "%s}\n", indent)
	return nil
}

func writeNodes(buf *bytes.Buffer, nodes []*topology.Node, cat *catalog.Catalog, indent string) error {
	for _, n := range nodes {
		style, err := resolve(cat, n)
		if err != nil {
			return err
		}
		fmt.Fprintf(buf, "%s%s [%s];\n", indent, quote(n.Name()), strings.Join(fmtNodeAttrs(n, style), ", "))
	}
	return nil
}

// resolve looks up the node's category, reporting failures as render
// failures that locate the node.
func resolve(cat *catalog.Catalog, n *topology.Node) (catalog.Category, error) {
	style, err := cat.Resolve(n.Category())
	if err != nil {
		where := "top level"
		if p := n.Path(); len(p) > 0 {
			where = "cluster " + strings.Join(p, " > ")
		}
		return catalog.Category{}, errs.Wrap(errs.ErrCodeRenderFailure, err,
			"node %q (%s): cannot resolve category %q", n.ID(), where, n.Category())
	}
	return style, nil
}

func fmtNodeAttrs(n *topology.Node, c catalog.Category) []string {
	label := n.Label()
	if c.Glyph != "" {
		label = c.Glyph + "\n" + label
	}
	attrs := []string{
		"label=" + quote(label),
		"shape=" + quote(c.Shape),
		"style=" + quote(c.Style),
		"fillcolor=" + quote(c.FillColor),
		"fontcolor=" + quote(c.FontColor),
		"color=" + quote(c.PenColor),
	}
	if tip := fmtTooltip(n.Meta()); tip != "" {
		attrs = append(attrs, "tooltip="+quote(tip))
	}
	return attrs
}

func fmtTooltip(meta topology.Metadata) string {
	if len(meta) == 0 {
		return ""
	}
	parts := make([]string, 0, len(meta))
	for _, k := range slices.Sorted(maps.Keys(meta)) {
		parts = append(parts, fmt.Sprintf("%s: %v", k, meta[k]))
	}
	return strings.Join(parts, "\n")
}

func edgeAttrs(e topology.Edge) []string {
	var attrs []string
	if e.Label != "" {
		attrs = append(attrs, "label="+quote(e.Label))
	}
	if e.Color != "" {
		attrs = append(attrs, "color="+quote(e.Color))
	}
	if e.Style != "" {
		attrs = append(attrs, "style="+quote(e.Style))
	}
	if e.Dir != "" && e.Dir != topology.DirForward {
		attrs = append(attrs, "dir="+string(e.Dir))
	}
	return attrs
}

func clusterColor(depth int) string {
	if depth < 1 {
		depth = 1
	}
	return clusterColors[(depth-1)%len(clusterColors)]
}

var dotEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)

// quote returns s as a DOT double-quoted string.
func quote(s string) string {
	return `"` + dotEscaper.Replace(s) + `"`
}
