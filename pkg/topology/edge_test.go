package topology

import (
	"errors"
	"testing"

	errs "github.com/matzehuels/topodraw/pkg/errors"
)

type pair struct{ from, to string }

func edgePairs(d *Diagram) []pair {
	var out []pair
	for _, e := range d.Edges() {
		out = append(out, pair{e.From.ID(), e.To.ID()})
	}
	return out
}

func equalPairs(a, b []pair) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestLoadBalancerFanOut(t *testing.T) {
	d := mustNew(t, "fan-out")
	elb := mustNode(t)(d.Node("ELB", "ELB"))
	asg := mustNode(t)(d.Node("ASG", "AutoScaling"))
	i1 := mustNode(t)(d.Node("Instance 1", "EC2"))
	i2 := mustNode(t)(d.Node("Instance 2", "EC2"))

	if err := d.Chain(Group(elb), Group(asg), Group(i1, i2)); err != nil {
		t.Fatalf("Chain() error: %v", err)
	}

	want := []pair{{"ELB", "ASG"}, {"ASG", "Instance 1"}, {"ASG", "Instance 2"}}
	if got := edgePairs(d); !equalPairs(got, want) {
		t.Errorf("edges = %v, want %v", got, want)
	}
	if d.EdgeCount() != 3 {
		t.Errorf("EdgeCount() = %d, want 3", d.EdgeCount())
	}
}

func TestFanOutEquivalence(t *testing.T) {
	build := func(fanOut bool) []pair {
		d := mustNew(t, "equivalence")
		src := mustNode(t)(d.Node("src", "EC2"))
		var targets []*Node
		for _, id := range []string{"t1", "t2", "t3", "t4"} {
			targets = append(targets, mustNode(t)(d.Node(id, "EC2")))
		}
		if fanOut {
			if err := d.Connect(Group(src), targets); err != nil {
				t.Fatal(err)
			}
		} else {
			for _, tgt := range targets {
				if err := d.Connect(Group(src), Group(tgt)); err != nil {
					t.Fatal(err)
				}
			}
		}
		return edgePairs(d)
	}

	if a, b := build(true), build(false); !equalPairs(a, b) {
		t.Errorf("fan-out %v differs from individual edges %v", a, b)
	}
}

func TestConnectSourceMajor(t *testing.T) {
	d := mustNew(t, "many-to-many")
	a := mustNode(t)(d.Node("a", "EC2"))
	b := mustNode(t)(d.Node("b", "EC2"))
	c := mustNode(t)(d.Node("c", "S3"))
	e := mustNode(t)(d.Node("e", "S3"))

	if err := d.Connect(Group(a, b), Group(c, e)); err != nil {
		t.Fatal(err)
	}
	want := []pair{{"a", "c"}, {"a", "e"}, {"b", "c"}, {"b", "e"}}
	if got := edgePairs(d); !equalPairs(got, want) {
		t.Errorf("edges = %v, want %v", got, want)
	}
}

func TestConnectUnknownNode(t *testing.T) {
	d := mustNew(t, "unknown")
	other := mustNew(t, "other")
	a := mustNode(t)(d.Node("a", "EC2"))
	b := mustNode(t)(d.Node("b", "EC2"))
	foreign := mustNode(t)(other.Node("foreign", "EC2"))

	tests := []struct {
		name     string
		from, to []*Node
	}{
		{"nil source", Group(nil), Group(a)},
		{"nil target", Group(a), Group(b, nil)},
		{"foreign target", Group(a), Group(b, foreign)},
		{"foreign source", Group(foreign), Group(a)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := d.Connect(tt.from, tt.to)
			if !errs.Is(err, errs.ErrCodeUnknownNode) || !errors.Is(err, ErrUnknownNode) {
				t.Errorf("Connect() error = %v, want UNKNOWN_NODE", err)
			}
			if d.EdgeCount() != 0 {
				t.Errorf("failed Connect recorded %d edges", d.EdgeCount())
			}
		})
	}
}

func TestChainAllOrNothing(t *testing.T) {
	d := mustNew(t, "chain")
	a := mustNode(t)(d.Node("a", "EC2"))
	b := mustNode(t)(d.Node("b", "EC2"))

	err := d.Chain(Group(a), Group(b), Group(nil))
	if !errors.Is(err, ErrUnknownNode) {
		t.Fatalf("Chain() error = %v, want ErrUnknownNode", err)
	}
	if d.EdgeCount() != 0 {
		t.Errorf("failed Chain recorded %d edges", d.EdgeCount())
	}
}

func TestConnectEmptyGroups(t *testing.T) {
	d := mustNew(t, "empty")
	a := mustNode(t)(d.Node("a", "EC2"))
	if err := d.Connect(Group(a), nil); err != nil {
		t.Errorf("Connect to no targets error = %v", err)
	}
	if d.EdgeCount() != 0 {
		t.Errorf("EdgeCount() = %d, want 0", d.EdgeCount())
	}
}

func TestEdgeOptions(t *testing.T) {
	d := mustNew(t, "options")
	a := mustNode(t)(d.Node("a", "EC2"))
	b := mustNode(t)(d.Node("b", "S3"))
	c := mustNode(t)(d.Node("c", "S3"))

	err := d.Connect(Group(a), Group(b, c),
		EdgeLabel("writes"), EdgeColor("firebrick"), EdgeStyle("dashed"),
		EdgeDirection(DirBack), EdgeMeta(Metadata{"protocol": "https"}))
	if err != nil {
		t.Fatal(err)
	}

	edges := d.Edges()
	for _, e := range edges {
		if e.Label != "writes" || e.Color != "firebrick" || e.Style != "dashed" || e.Dir != DirBack {
			t.Errorf("edge %s->%s options not applied: %+v", e.From, e.To, e)
		}
		if e.Meta["protocol"] != "https" {
			t.Errorf("edge meta = %v", e.Meta)
		}
	}
	edges[0].Meta["protocol"] = "grpc"
	if edges[1].Meta["protocol"] != "https" {
		t.Error("edges recorded by one Connect must not share metadata maps")
	}

	if err := d.Connect(Group(a), Group(b), EdgeDirection("sideways")); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("invalid direction error = %v", err)
	}
}

func TestDefaultEdgeDirection(t *testing.T) {
	d := mustNew(t, "default-dir")
	a := mustNode(t)(d.Node("a", "EC2"))
	b := mustNode(t)(d.Node("b", "EC2"))
	_ = d.Connect(Group(a), Group(b))
	if e := d.Edges()[0]; e.Dir != DirForward || e.Meta == nil {
		t.Errorf("default edge = %+v", e)
	}
}
