package topology

import (
	"errors"
	"slices"
	"testing"

	errs "github.com/matzehuels/topodraw/pkg/errors"
)

func mustNew(t *testing.T, title string, opts ...Option) *Diagram {
	t.Helper()
	d, err := New(title, opts...)
	if err != nil {
		t.Fatalf("New(%q) error: %v", title, err)
	}
	return d
}

// mustNode returns a function that unwraps a node creation result,
// failing the test on error: mustNode(t)(d.Node("a", "EC2")).
func mustNode(t *testing.T) func(*Node, error) *Node {
	return func(n *Node, err error) *Node {
		t.Helper()
		if err != nil {
			t.Fatalf("create node: %v", err)
		}
		return n
	}
}

func TestNewDefaults(t *testing.T) {
	d := mustNew(t, "Load Balanced EC2 Autoscaling Application")

	if got := d.Filename(); got != "load_balanced_ec2_autoscaling_application" {
		t.Errorf("Filename() = %q", got)
	}
	if d.Direction() != DirectionLR {
		t.Errorf("Direction() = %q, want LR", d.Direction())
	}
	if d.Format() != DefaultFormat {
		t.Errorf("Format() = %q, want %q", d.Format(), DefaultFormat)
	}
	if !d.Show() {
		t.Error("Show() = false, want true")
	}
	if d.Meta() == nil {
		t.Error("Meta() should never be nil")
	}
}

func TestNewOptions(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		opts     []Option
		wantCode errs.Code
		check    func(*testing.T, *Diagram)
	}{
		{
			name:  "empty title",
			title: "",
			check: func(t *testing.T, d *Diagram) {
				if d.Filename() != DefaultFilename {
					t.Errorf("Filename() = %q, want %q", d.Filename(), DefaultFilename)
				}
			},
		},
		{
			name:  "slash in title",
			title: "VPC 10.0.0.0/16",
			check: func(t *testing.T, d *Diagram) {
				if d.Filename() != "vpc_10.0.0.0_16" {
					t.Errorf("Filename() = %q", d.Filename())
				}
			},
		},
		{
			name:  "explicit settings",
			title: "Web",
			opts:  []Option{WithFilename("web"), WithDirection(DirectionTB), WithFormat(" SVG "), WithShow(false), WithMeta(Metadata{"team": "infra"})},
			check: func(t *testing.T, d *Diagram) {
				if d.Filename() != "web" || d.Direction() != DirectionTB || d.Format() != "svg" || d.Show() {
					t.Errorf("options not applied: %q %q %q %v", d.Filename(), d.Direction(), d.Format(), d.Show())
				}
				if d.Meta()["team"] != "infra" {
					t.Errorf("Meta()[team] = %v", d.Meta()["team"])
				}
			},
		},
		{
			name:     "bad direction",
			title:    "Web",
			opts:     []Option{WithDirection("diagonal")},
			wantCode: errs.ErrCodeInvalidDirection,
		},
		{
			name:     "bad filename",
			title:    "Web",
			opts:     []Option{WithFilename("../web")},
			wantCode: errs.ErrCodeInvalidFilename,
		},
		{
			name:     "empty format",
			title:    "Web",
			opts:     []Option{WithFormat("")},
			wantCode: errs.ErrCodeInvalidFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := New(tt.title, tt.opts...)
			if tt.wantCode != "" {
				if !errs.Is(err, tt.wantCode) {
					t.Fatalf("New() error = %v, want code %s", err, tt.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatalf("New() error: %v", err)
			}
			tt.check(t, d)
		})
	}
}

func TestNodeIdentifiers(t *testing.T) {
	d := mustNew(t, "ids")

	elb := mustNode(t)(d.Node("Load Balancer", "ELB"))
	if elb.ID() != "Load Balancer" || elb.Label() != "Load Balancer" || elb.Category() != "ELB" {
		t.Errorf("node = %q/%q/%q", elb.ID(), elb.Label(), elb.Category())
	}

	custom := mustNode(t)(d.Node("Load Balancer", "ELB", WithID("lb2")))
	if custom.ID() != "lb2" {
		t.Errorf("WithID: ID() = %q", custom.ID())
	}

	_, err := d.Node("Load Balancer", "ELB")
	if !errs.Is(err, errs.ErrCodeDuplicateIdentifier) {
		t.Fatalf("duplicate node error = %v, want DUPLICATE_IDENTIFIER", err)
	}
	if !errors.Is(err, ErrDuplicateIdentifier) {
		t.Error("duplicate error should wrap ErrDuplicateIdentifier")
	}

	for _, id := range []string{"", " ", "a\nb", "a\tb"} {
		if _, err := d.Node("Load Balancer", "ELB", WithID(id)); !errors.Is(err, ErrInvalidIdentifier) {
			t.Errorf("WithID(%q) error = %v, want ErrInvalidIdentifier", id, err)
		}
	}

	if d.NodeCount() != 2 {
		t.Errorf("NodeCount() = %d, want 2", d.NodeCount())
	}
}

func TestDefaultIdentifiers(t *testing.T) {
	d := mustNew(t, "defaults")

	multi := mustNode(t)(d.Node("EC2\nInstance 1", "EC2"))
	if multi.ID() != "EC2 Instance 1" {
		t.Errorf("multi-line ID() = %q, want %q", multi.ID(), "EC2 Instance 1")
	}
	if multi.Label() != "EC2\nInstance 1" {
		t.Errorf("multi-line Label() = %q", multi.Label())
	}
	if got, ok := d.Lookup("EC2 Instance 1"); !ok || got != multi {
		t.Error("Lookup by collapsed label failed")
	}
	if _, err := d.Node("EC2  Instance\n1", "EC2"); !errors.Is(err, ErrDuplicateIdentifier) {
		t.Errorf("same collapsed label error = %v, want ErrDuplicateIdentifier", err)
	}

	first := mustNode(t)(d.Node("", "Users"))
	second := mustNode(t)(d.Node("", "Users"))
	if first.ID() == "" || first.ID() == second.ID() {
		t.Errorf("blank label IDs = %q, %q, want distinct and non-empty", first.ID(), second.ID())
	}
	if first.ID() != "#2" || second.ID() != "#3" {
		t.Errorf("blank label IDs = %q, %q, want #2, #3", first.ID(), second.ID())
	}
	if first.Name() == second.Name() {
		t.Error("blank label nodes share a render name")
	}

	taken := mustNode(t)(d.Node("x", "EC2", WithID("#5")))
	if got := mustNode(t)(d.Node("\n", "EC2")); got.ID() != "#6" {
		t.Errorf("ID() after %q = %q, want #6", taken.ID(), got.ID())
	}
}

func TestSameIdentifierInDifferentScopes(t *testing.T) {
	d := mustNew(t, "scopes")
	top := mustNode(t)(d.Node("Instance", "EC2"))

	var inner *Node
	err := d.Cluster("Subnet", func(c *Cluster) error {
		var err error
		inner, err = c.Node("Instance", "EC2")
		return err
	})
	if err != nil {
		t.Fatalf("same identifier in nested scope should be allowed: %v", err)
	}
	if top.Name() == inner.Name() {
		t.Errorf("render names must differ across scopes: %s", top.Name())
	}
}

func TestRenderNamesStable(t *testing.T) {
	build := func() []string {
		d := mustNew(t, "stable")
		_ = d.Cluster("VPC", func(c *Cluster) error {
			_, err := c.Node("Gateway", "InternetGateway")
			return err
		})
		_, _ = d.Node("Users", "Users")
		var names []string
		for _, n := range d.Nodes() {
			names = append(names, n.Name())
		}
		return names
	}
	a, b := build(), build()
	if !slices.Equal(a, b) {
		t.Errorf("render names differ between runs: %v vs %v", a, b)
	}
	if len(a[0]) != 32 {
		t.Errorf("render name %q should be 32 hex chars", a[0])
	}
}

func TestClusterSealing(t *testing.T) {
	d := mustNew(t, "sealing")

	var kept *Cluster
	err := d.Cluster("VPC", func(vpc *Cluster) error {
		kept = vpc
		return vpc.Cluster("Subnet", func(s *Cluster) error {
			_, err := s.Node("Instance", "EC2")
			return err
		})
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	if !kept.Sealed() {
		t.Fatal("cluster should be sealed after scope exit")
	}
	_, err = kept.Node("Late", "EC2")
	if !errs.Is(err, errs.ErrCodeClusterSealed) || !errors.Is(err, ErrSealed) {
		t.Errorf("node in sealed cluster error = %v, want CLUSTER_SEALED", err)
	}
	_, err = kept.OpenCluster("Late")
	if !errs.Is(err, errs.ErrCodeClusterSealed) {
		t.Errorf("cluster in sealed cluster error = %v, want CLUSTER_SEALED", err)
	}
}

func TestCloseCascades(t *testing.T) {
	d := mustNew(t, "cascade")
	outer, err := d.OpenCluster("Outer")
	if err != nil {
		t.Fatal(err)
	}
	inner, err := outer.OpenCluster("Inner")
	if err != nil {
		t.Fatal(err)
	}

	outer.Close()
	outer.Close() // idempotent

	if !inner.Sealed() {
		t.Error("closing a cluster should seal open descendants")
	}
	if _, err := inner.Node("x", "EC2"); !errors.Is(err, ErrSealed) {
		t.Errorf("inner.Node after outer.Close error = %v", err)
	}
	if _, err := d.Node("top", "EC2"); err != nil {
		t.Errorf("diagram root should stay open: %v", err)
	}
}

func TestClusterClosedOnError(t *testing.T) {
	d := mustNew(t, "errors")
	boom := errors.New("boom")

	var kept *Cluster
	err := d.Cluster("VPC", func(c *Cluster) error {
		kept = c
		return boom
	})
	if err != boom {
		t.Errorf("Cluster() error = %v, want %v", err, boom)
	}
	if !kept.Sealed() {
		t.Error("cluster should be sealed even when fn fails")
	}
}

func TestClusterClosedOnPanic(t *testing.T) {
	d := mustNew(t, "panic")
	var kept *Cluster
	func() {
		defer func() { _ = recover() }()
		_ = d.Cluster("VPC", func(c *Cluster) error {
			kept = c
			panic("boom")
		})
	}()
	if kept == nil || !kept.Sealed() {
		t.Error("cluster should be sealed after a panic in fn")
	}
}

func TestNestedOwnershipPath(t *testing.T) {
	d := mustNew(t, "nesting")

	var node *Node
	err := d.Cluster("VPC", func(vpc *Cluster) error {
		return vpc.Cluster("AvailabilityZone", func(az *Cluster) error {
			return az.Cluster("Subnet", func(subnet *Cluster) error {
				var err error
				node, err = subnet.Node("Instance", "EC2")
				return err
			})
		})
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	want := []string{"VPC", "AvailabilityZone", "Subnet"}
	if got := node.Path(); !slices.Equal(got, want) {
		t.Errorf("Path() = %v, want %v", got, want)
	}
	if node.Cluster().Depth() != 3 {
		t.Errorf("Depth() = %d, want 3", node.Cluster().Depth())
	}
	if d.ClusterCount() != 3 {
		t.Errorf("ClusterCount() = %d, want 3", d.ClusterCount())
	}

	got, ok := d.Lookup("VPC", "AvailabilityZone", "Subnet", "Instance")
	if !ok || got != node {
		t.Errorf("Lookup() = %v, %v", got, ok)
	}
	if _, ok := d.Lookup("VPC", "Missing", "Instance"); ok {
		t.Error("Lookup() through a missing cluster should fail")
	}
	if _, ok := d.Lookup(); ok {
		t.Error("Lookup() with no path should fail")
	}
}

func TestTopLevelNodePath(t *testing.T) {
	d := mustNew(t, "top")
	n := mustNode(t)(d.Node("Users", "Users"))
	if n.Path() != nil || n.Cluster() != nil {
		t.Errorf("top-level node should have no path, got %v", n.Path())
	}
	if len(d.RootNodes()) != 1 {
		t.Errorf("RootNodes() = %d, want 1", len(d.RootNodes()))
	}
}

func TestDiagramClose(t *testing.T) {
	d := mustNew(t, "closed")
	a := mustNode(t)(d.Node("a", "EC2"))
	b := mustNode(t)(d.Node("b", "EC2"))
	c, _ := d.OpenCluster("VPC")

	d.Close()

	if !d.Closed() || !c.Sealed() {
		t.Fatal("Close should seal the diagram and every cluster")
	}
	if _, err := d.Node("c", "EC2"); !errs.Is(err, errs.ErrCodeClusterSealed) {
		t.Errorf("Node after Close error = %v", err)
	}
	if err := d.Connect(Group(a), Group(b)); !errors.Is(err, ErrSealed) {
		t.Errorf("Connect after Close error = %v", err)
	}
}
