// Package topology provides the in-memory description of an architecture
// diagram: labeled nodes grouped into nested clusters, and directed edges
// between them.
//
// # Overview
//
// A [Diagram] is the root container. It owns a forest of top-level nodes and
// clusters plus the ordered list of edges. Nothing in this package knows how
// to draw; a finished diagram is handed as a whole to a renderer (see
// [github.com/matzehuels/topodraw/pkg/render]) which lays it out and exports
// an image.
//
// # Building
//
// Create a diagram with [New], add nodes with [Diagram.Node], group them with
// clusters, and connect them:
//
//	d, _ := topology.New("Web Service")
//	users, _ := d.Node("Users", "onprem.client.Users")
//	err := d.Cluster("VPC", func(vpc *topology.Cluster) error {
//	    lb, err := vpc.Node("Load Balancer", "aws.network.ELB")
//	    if err != nil {
//	        return err
//	    }
//	    return d.Connect(topology.Group(users), topology.Group(lb))
//	})
//	d.Close()
//
// Clusters are scopes. [Diagram.Cluster] and [Cluster.Cluster] open a child
// cluster, run a function with its handle, and close it when the function
// returns, even on error or panic. [Diagram.OpenCluster] and
// [Cluster.OpenCluster] return the handle directly; the caller pairs them
// with [Cluster.Close]. Closing a cluster seals it and all of its
// descendants: no further nodes or clusters can be added to them. Closing
// the diagram with [Diagram.Close] seals everything, including the edge list.
//
// # Identifiers
//
// Every node has an identifier which defaults to its label and can be set
// with [WithID]. Identifiers must be unique within the enclosing scope (the
// cluster, or the diagram root for top-level nodes); the same identifier may
// appear in different clusters. Each node also gets a render name from
// [Node.Name], a UUIDv5 derived from its scope and identifier, which is
// unique across the diagram and stable between runs.
//
// # Edges
//
// [Diagram.Connect] records one edge per (source, target) pair, source-major,
// so connecting one source to N targets is the same as declaring N edges in
// order. [Diagram.Chain] connects consecutive groups: Chain(a, b, [c, d])
// records a→b, b→c and b→d. Every endpoint must have been created in the
// same diagram; otherwise nothing is recorded and the call fails.
//
// # Errors
//
// Failures are [github.com/matzehuels/topodraw/pkg/errors.Error] values
// carrying one of the builder codes, and also wrap one of this package's
// sentinels so callers can use either style:
//
//	errors.Is(err, topology.ErrDuplicateIdentifier)
//	errs.Is(err, errs.ErrCodeDuplicateIdentifier)
//
// # Concurrency
//
// A Diagram is not safe for concurrent use. It is built by a single goroutine
// and read-only once closed.
package topology
