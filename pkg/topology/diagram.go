package topology

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	errs "github.com/matzehuels/topodraw/pkg/errors"
)

var (
	// ErrInvalidIdentifier is returned when a node identifier or cluster name
	// is empty or contains control characters.
	ErrInvalidIdentifier = errors.New("invalid identifier")

	// ErrDuplicateIdentifier is returned by [Diagram.Node] and [Cluster.Node]
	// when the identifier is already used by another node in the same scope.
	ErrDuplicateIdentifier = errors.New("duplicate identifier")

	// ErrUnknownNode is returned by [Diagram.Connect] and [Diagram.Chain] when
	// an endpoint is nil or was created by another diagram.
	ErrUnknownNode = errors.New("unknown node")

	// ErrSealed is returned when adding to a closed cluster or diagram.
	ErrSealed = errors.New("scope is sealed")
)

// Metadata stores arbitrary key-value pairs attached to nodes, edges or the
// diagram. Metadata maps are never nil once attached.
type Metadata map[string]any

// Direction is the overall flow of the rendered graph.
type Direction string

const (
	DirectionLR Direction = "LR" // left to right (default)
	DirectionRL Direction = "RL"
	DirectionTB Direction = "TB"
	DirectionBT Direction = "BT"
)

// Valid reports whether d is one of the supported directions.
func (d Direction) Valid() bool {
	switch d {
	case DirectionLR, DirectionRL, DirectionTB, DirectionBT:
		return true
	}
	return false
}

const (
	// DefaultFormat is the output format used when none is configured.
	DefaultFormat = "png"

	// DefaultFilename is used when the diagram has no title.
	DefaultFilename = "diagrams_image"
)

// namespace roots every render name so that names are stable across runs.
var namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/matzehuels/topodraw"))

// Diagram is the root of a topology description. It owns the top-level nodes
// and clusters and the full, ordered edge list.
//
// The zero value is not usable - use New to create a diagram.
type Diagram struct {
	title     string
	filename  string
	direction Direction
	format    string
	show      bool
	meta      Metadata

	root   scope
	nodes  []*Node
	edges  []Edge
	closed bool
}

// Option configures a Diagram created by New.
type Option func(*Diagram)

// WithFilename sets the output file name (without extension).
// The default is derived from the title.
func WithFilename(name string) Option {
	return func(d *Diagram) { d.filename = name }
}

// WithDirection sets the graph direction. The default is [DirectionLR].
func WithDirection(dir Direction) Option {
	return func(d *Diagram) { d.direction = dir }
}

// WithFormat sets the output format (png, jpg, svg, pdf, dot, mermaid).
// The default is [DefaultFormat]. Support for a format is checked by the
// renderer, not here.
func WithFormat(format string) Option {
	return func(d *Diagram) { d.format = strings.ToLower(strings.TrimSpace(format)) }
}

// WithShow controls whether the exported file is opened for display.
// The default is true.
func WithShow(show bool) Option {
	return func(d *Diagram) { d.show = show }
}

// WithMeta attaches diagram-level metadata.
func WithMeta(meta Metadata) Option {
	return func(d *Diagram) {
		for k, v := range meta {
			d.meta[k] = v
		}
	}
}

// New creates an empty diagram with the given title.
//
// Returns an INVALID_INPUT error for a malformed title, INVALID_DIRECTION for
// an unsupported direction, and INVALID_FILENAME when the (explicit or
// derived) filename is not a plain basename.
func New(title string, opts ...Option) (*Diagram, error) {
	if err := errs.ValidateLabel(title); err != nil {
		return nil, err
	}
	d := &Diagram{
		title:     title,
		direction: DirectionLR,
		format:    DefaultFormat,
		show:      true,
		meta:      Metadata{},
		root:      newScope(uuid.NewSHA1(namespace, []byte(title))),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.filename == "" {
		d.filename = defaultFilename(title)
	}
	if !d.direction.Valid() {
		return nil, errs.New(errs.ErrCodeInvalidDirection, "unsupported direction %q (must be LR, RL, TB or BT)", d.direction)
	}
	if d.format == "" {
		return nil, errs.New(errs.ErrCodeInvalidFormat, "output format cannot be empty")
	}
	if err := errs.ValidateFilename(d.filename); err != nil {
		return nil, err
	}
	return d, nil
}

// defaultFilename lower-cases the title and replaces blanks and path
// separators with underscores.
func defaultFilename(title string) string {
	if strings.TrimSpace(title) == "" {
		return DefaultFilename
	}
	r := strings.NewReplacer(" ", "_", "/", "_", "\\", "_", "\n", "_")
	return r.Replace(strings.ToLower(strings.TrimSpace(title)))
}

func (d *Diagram) Title() string        { return d.title }
func (d *Diagram) Filename() string     { return d.filename }
func (d *Diagram) Direction() Direction { return d.direction }
func (d *Diagram) Format() string       { return d.format }
func (d *Diagram) Show() bool           { return d.show }

// Meta returns the diagram-level metadata map. It is never nil.
func (d *Diagram) Meta() Metadata { return d.meta }

// Closed reports whether Close has been called.
func (d *Diagram) Closed() bool { return d.closed }

// Close seals the diagram: every cluster is closed and no further nodes,
// clusters or edges can be added. Close is idempotent.
func (d *Diagram) Close() {
	d.closed = true
	d.root.seal()
}

// Node creates a top-level node. The identifier defaults to label; see [WithID].
func (d *Diagram) Node(label, category string, opts ...NodeOption) (*Node, error) {
	return d.addNode(nil, &d.root, label, category, opts)
}

// OpenCluster begins a top-level cluster. The caller must Close it.
func (d *Diagram) OpenCluster(name string) (*Cluster, error) {
	return d.openCluster(nil, &d.root, name)
}

// Cluster opens a top-level cluster, runs fn with it, and closes it when fn
// returns. The error from fn is returned unchanged.
func (d *Diagram) Cluster(name string, fn func(*Cluster) error) error {
	c, err := d.OpenCluster(name)
	return scoped(c, err, fn)
}

// Nodes returns every node in declaration order, regardless of cluster.
func (d *Diagram) Nodes() []*Node { return append([]*Node(nil), d.nodes...) }

// RootNodes returns the nodes declared directly on the diagram.
func (d *Diagram) RootNodes() []*Node { return append([]*Node(nil), d.root.nodes...) }

// Clusters returns the top-level clusters in declaration order.
func (d *Diagram) Clusters() []*Cluster { return append([]*Cluster(nil), d.root.clusters...) }

// Edges returns the edges in declaration order.
func (d *Diagram) Edges() []Edge { return append([]Edge(nil), d.edges...) }

// NodeCount returns the total number of nodes.
func (d *Diagram) NodeCount() int { return len(d.nodes) }

// EdgeCount returns the total number of edges.
func (d *Diagram) EdgeCount() int { return len(d.edges) }

// ClusterCount returns the total number of clusters at every depth.
func (d *Diagram) ClusterCount() int { return d.root.clusterCount() }

// Lookup finds a node by cluster names followed by the node identifier.
// Lookup("VPC", "Public Subnet", "Load Balancer") walks two clusters and
// returns the node with identifier "Load Balancer". When sibling clusters
// share a name the first one declared is searched.
func (d *Diagram) Lookup(path ...string) (*Node, bool) {
	if len(path) == 0 {
		return nil, false
	}
	s := &d.root
	for _, name := range path[:len(path)-1] {
		next := s.child(name)
		if next == nil {
			return nil, false
		}
		s = &next.scope
	}
	n, ok := s.ids[path[len(path)-1]]
	return n, ok
}

func (d *Diagram) addNode(owner *Cluster, s *scope, label, category string, opts []NodeOption) (*Node, error) {
	var cfg nodeConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	where := d.describe(owner)

	if s.sealed {
		return nil, errs.Wrap(errs.ErrCodeClusterSealed, ErrSealed, "cannot add node %q to %s", label, where)
	}
	if err := errs.ValidateLabel(label); err != nil {
		return nil, err
	}
	if cfg.explicit {
		if err := errs.ValidateIdentifier(cfg.id); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidInput, ErrInvalidIdentifier, "node in %s: %s", where, errs.UserMessage(err))
		}
	} else {
		cfg.id = s.defaultID(label)
	}
	if _, exists := s.ids[cfg.id]; exists {
		return nil, errs.Wrap(errs.ErrCodeDuplicateIdentifier, ErrDuplicateIdentifier, "node %q already declared in %s", cfg.id, where)
	}

	meta := Metadata{}
	for k, v := range cfg.meta {
		meta[k] = v
	}
	n := &Node{
		id:       cfg.id,
		label:    label,
		category: category,
		name:     hexName(uuid.NewSHA1(s.key, []byte("node:"+cfg.id))),
		cluster:  owner,
		diagram:  d,
		meta:     meta,
	}
	s.nodes = append(s.nodes, n)
	s.ids[n.id] = n
	d.nodes = append(d.nodes, n)
	return n, nil
}

func (d *Diagram) openCluster(parent *Cluster, s *scope, name string) (*Cluster, error) {
	where := d.describe(parent)
	if s.sealed {
		return nil, errs.Wrap(errs.ErrCodeClusterSealed, ErrSealed, "cannot open cluster %q in %s", name, where)
	}
	if err := errs.ValidateIdentifier(name); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, ErrInvalidIdentifier, "cluster in %s: %s", where, errs.UserMessage(err))
	}

	depth := 1
	if parent != nil {
		depth = parent.depth + 1
	}
	key := uuid.NewSHA1(s.key, []byte(fmt.Sprintf("cluster:%d:%s", len(s.clusters), name)))
	c := &Cluster{
		name:    name,
		parent:  parent,
		diagram: d,
		depth:   depth,
		scope:   newScope(key),
	}
	s.clusters = append(s.clusters, c)
	return c, nil
}

// describe names a scope for error messages.
func (d *Diagram) describe(c *Cluster) string {
	if c == nil {
		return fmt.Sprintf("diagram %q", d.title)
	}
	return fmt.Sprintf("cluster %q", strings.Join(c.Path(), " > "))
}

// owns reports whether n was created by d.
func (d *Diagram) owns(n *Node) bool {
	return n != nil && n.diagram == d
}

// scoped runs fn against a freshly opened cluster and always closes it.
func scoped(c *Cluster, err error, fn func(*Cluster) error) error {
	if err != nil {
		return err
	}
	defer c.Close()
	return fn(c)
}

func hexName(u uuid.UUID) string {
	return strings.ReplaceAll(u.String(), "-", "")
}
