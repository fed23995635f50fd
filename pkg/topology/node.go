package topology

// Node is a labeled leaf entity such as a compute instance or a load
// balancer. Nodes are created by [Diagram.Node] or [Cluster.Node] and are
// immutable afterwards.
type Node struct {
	id       string
	label    string
	category string
	name     string
	cluster  *Cluster
	diagram  *Diagram
	meta     Metadata
}

// ID returns the identifier, unique within the node's scope.
func (n *Node) ID() string { return n.id }

// Label returns the display label.
func (n *Node) Label() string { return n.label }

// Category returns the icon/type tag, resolved by the renderer's catalog.
func (n *Node) Category() string { return n.category }

// Name returns the diagram-unique render name. It is derived from the
// enclosing scopes and the identifier, so it is stable between runs.
func (n *Node) Name() string { return n.name }

// Cluster returns the owning cluster, or nil for a top-level node.
func (n *Node) Cluster() *Cluster { return n.cluster }

// Meta returns the node's metadata. It is never nil.
func (n *Node) Meta() Metadata { return n.meta }

// Path returns the names of the enclosing clusters, outermost first.
// A top-level node has an empty path.
func (n *Node) Path() []string {
	if n.cluster == nil {
		return nil
	}
	return n.cluster.Path()
}

// String implements fmt.Stringer.
func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	return n.id
}

type nodeConfig struct {
	id       string
	explicit bool
	meta     Metadata
}

// NodeOption configures a node at creation.
type NodeOption func(*nodeConfig)

// WithID sets the node identifier. Without it the label, with runs of
// whitespace collapsed to single spaces, is used; a blank label gets a
// generated identifier of the form "#N".
func WithID(id string) NodeOption {
	return func(c *nodeConfig) {
		c.id = id
		c.explicit = true
	}
}

// WithNodeMeta attaches metadata to the node.
func WithNodeMeta(meta Metadata) NodeOption {
	return func(c *nodeConfig) { c.meta = meta }
}

// Group collects nodes into a slice for [Diagram.Connect] and [Diagram.Chain].
func Group(nodes ...*Node) []*Node { return nodes }
