package topology

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// scope holds the children of the diagram root or of a cluster.
type scope struct {
	key      uuid.UUID
	nodes    []*Node
	clusters []*Cluster
	ids      map[string]*Node
	sealed   bool
}

func newScope(key uuid.UUID) scope {
	return scope{key: key, ids: make(map[string]*Node)}
}

// seal closes the scope and every nested cluster.
func (s *scope) seal() {
	s.sealed = true
	for _, c := range s.clusters {
		c.scope.seal()
	}
}

func (s *scope) child(name string) *Cluster {
	for _, c := range s.clusters {
		if c.name == name {
			return c
		}
	}
	return nil
}

// defaultID derives a node identifier from its label. Whitespace runs,
// newlines included, collapse to one space; a blank label takes the first
// free "#N" with N counting from the scope's next node position.
func (s *scope) defaultID(label string) string {
	if id := strings.Join(strings.Fields(label), " "); id != "" {
		return id
	}
	for i := len(s.nodes) + 1; ; i++ {
		id := fmt.Sprintf("#%d", i)
		if _, taken := s.ids[id]; !taken {
			return id
		}
	}
}

func (s *scope) clusterCount() int {
	n := len(s.clusters)
	for _, c := range s.clusters {
		n += c.scope.clusterCount()
	}
	return n
}

// Cluster is a named grouping of nodes and nested clusters. It is created
// open by [Diagram.OpenCluster] or [Cluster.OpenCluster] and sealed by Close.
type Cluster struct {
	name    string
	parent  *Cluster
	diagram *Diagram
	depth   int

	scope
}

// Name returns the cluster's display name.
func (c *Cluster) Name() string { return c.name }

// Key returns a diagram-unique, run-stable identifier for the cluster.
func (c *Cluster) Key() string { return hexName(c.key) }

// Parent returns the enclosing cluster, or nil for a top-level cluster.
func (c *Cluster) Parent() *Cluster { return c.parent }

// Depth is 1 for top-level clusters and grows by one per nesting level.
func (c *Cluster) Depth() int { return c.depth }

// Sealed reports whether the cluster has been closed.
func (c *Cluster) Sealed() bool { return c.sealed }

// Path returns the cluster names from the outermost cluster down to c.
func (c *Cluster) Path() []string {
	path := make([]string, c.depth)
	for cur, i := c, c.depth-1; cur != nil; cur, i = cur.parent, i-1 {
		path[i] = cur.name
	}
	return path
}

// Nodes returns the nodes declared directly in this cluster.
func (c *Cluster) Nodes() []*Node { return append([]*Node(nil), c.nodes...) }

// Clusters returns the clusters nested directly in this cluster.
func (c *Cluster) Clusters() []*Cluster { return append([]*Cluster(nil), c.clusters...) }

// Node creates a node inside this cluster.
func (c *Cluster) Node(label, category string, opts ...NodeOption) (*Node, error) {
	return c.diagram.addNode(c, &c.scope, label, category, opts)
}

// OpenCluster begins a cluster nested in c. The caller must Close it.
func (c *Cluster) OpenCluster(name string) (*Cluster, error) {
	return c.diagram.openCluster(c, &c.scope, name)
}

// Cluster opens a nested cluster, runs fn with it, and closes it when fn
// returns.
func (c *Cluster) Cluster(name string, fn func(*Cluster) error) error {
	child, err := c.OpenCluster(name)
	return scoped(child, err, fn)
}

// Close seals the cluster and all of its descendants. It is idempotent.
func (c *Cluster) Close() {
	c.scope.seal()
}
