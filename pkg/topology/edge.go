package topology

import (
	errs "github.com/matzehuels/topodraw/pkg/errors"
)

// EdgeDir controls where arrowheads are drawn.
type EdgeDir string

const (
	DirForward EdgeDir = "forward" // arrow at the target (default)
	DirBack    EdgeDir = "back"    // arrow at the source
	DirBoth    EdgeDir = "both"
	DirNone    EdgeDir = "none"
)

// Valid reports whether d is a supported edge direction.
func (d EdgeDir) Valid() bool {
	switch d {
	case DirForward, DirBack, DirBoth, DirNone:
		return true
	}
	return false
}

// Edge is a directed connection between two nodes of the same diagram.
type Edge struct {
	From  *Node
	To    *Node
	Label string
	Color string
	Style string // Graphviz style: solid, dashed, dotted, bold
	Dir   EdgeDir
	Meta  Metadata // never nil for recorded edges
}

// EdgeOption configures the edges recorded by a single Connect call.
type EdgeOption func(*Edge)

// EdgeLabel sets the text drawn along the edge.
func EdgeLabel(label string) EdgeOption { return func(e *Edge) { e.Label = label } }

// EdgeColor sets the edge color (a Graphviz color name or #RRGGBB).
func EdgeColor(color string) EdgeOption { return func(e *Edge) { e.Color = color } }

// EdgeStyle sets the line style.
func EdgeStyle(style string) EdgeOption { return func(e *Edge) { e.Style = style } }

// EdgeDirection sets where arrowheads are drawn.
func EdgeDirection(dir EdgeDir) EdgeOption { return func(e *Edge) { e.Dir = dir } }

// EdgeMeta attaches metadata to every recorded edge.
func EdgeMeta(meta Metadata) EdgeOption {
	return func(e *Edge) {
		for k, v := range meta {
			e.Meta[k] = v
		}
	}
}

// Connect records one edge from every source to every target, source-major:
// Connect([a, b], [c, d]) records a→c, a→d, b→c, b→d.
//
// Every endpoint must be a node of this diagram. If any is not, Connect
// returns an UNKNOWN_NODE error wrapping [ErrUnknownNode] and records
// nothing. Empty groups record nothing and are not an error.
func (d *Diagram) Connect(from, to []*Node, opts ...EdgeOption) error {
	if err := d.checkOpen(); err != nil {
		return err
	}
	if err := d.checkEndpoints("source", from); err != nil {
		return err
	}
	if err := d.checkEndpoints("target", to); err != nil {
		return err
	}

	tmpl := Edge{Dir: DirForward, Meta: Metadata{}}
	for _, opt := range opts {
		opt(&tmpl)
	}
	if !tmpl.Dir.Valid() {
		return errs.New(errs.ErrCodeInvalidInput, "unsupported edge direction %q", tmpl.Dir)
	}

	for _, src := range from {
		for _, dst := range to {
			e := tmpl
			e.From, e.To = src, dst
			e.Meta = make(Metadata, len(tmpl.Meta))
			for k, v := range tmpl.Meta {
				e.Meta[k] = v
			}
			d.edges = append(d.edges, e)
		}
	}
	return nil
}

// Chain connects each group to the next: Chain([a], [b], [c, d]) records
// a→b, b→c and b→d. All endpoints are checked before any edge is recorded.
func (d *Diagram) Chain(groups ...[]*Node) error {
	if err := d.checkOpen(); err != nil {
		return err
	}
	for _, g := range groups {
		if err := d.checkEndpoints("chain", g); err != nil {
			return err
		}
	}
	for i := 0; i+1 < len(groups); i++ {
		if err := d.Connect(groups[i], groups[i+1]); err != nil {
			return err
		}
	}
	return nil
}

func (d *Diagram) checkOpen() error {
	if d.closed {
		return errs.Wrap(errs.ErrCodeClusterSealed, ErrSealed, "diagram %q is closed", d.title)
	}
	return nil
}

func (d *Diagram) checkEndpoints(role string, nodes []*Node) error {
	for i, n := range nodes {
		if !d.owns(n) {
			return errs.Wrap(errs.ErrCodeUnknownNode, ErrUnknownNode,
				"%s %d (%s) was not created in diagram %q", role, i, n, d.title)
		}
	}
	return nil
}
