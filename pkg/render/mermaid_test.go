package render

import (
	"strings"
	"testing"

	errs "github.com/matzehuels/topodraw/pkg/errors"
	"github.com/matzehuels/topodraw/pkg/topology"
)

func TestToMermaid(t *testing.T) {
	d, lb, ec2 := buildNested(t)

	out, err := ToMermaid(d, nil)
	if err != nil {
		t.Fatalf("ToMermaid() error: %v", err)
	}

	vpc := d.Clusters()[0]
	checks := []string{
		"title: Nested",
		"flowchart LR",
		`n` + lb.Name() + `["Load Balancer"]`,
		`subgraph c` + vpc.Key() + `["VPC"]`,
		`n` + lb.Name() + ` -->|"http"| n` + ec2.Name(),
		"classDef aws_compute_EC2 fill:#ED7100",
		"class n" + ec2.Name() + " aws_compute_EC2",
	}
	for _, want := range checks {
		if !strings.Contains(out, want) {
			t.Errorf("ToMermaid() output missing %q\n%s", want, out)
		}
	}
	if got, want := strings.Count(out, "subgraph "), 3; got != want {
		t.Errorf("subgraphs = %d, want %d", got, want)
	}
	if got := strings.Count(out, "\n  end\n") + strings.Count(out, "\n    end\n") + strings.Count(out, "\n      end\n"); got != 3 {
		t.Errorf("subgraph ends = %d, want 3", got)
	}
}

func TestMermaidEdge(t *testing.T) {
	d, _ := topology.New("Edges")
	a, _ := d.Node("A", "")
	b, _ := d.Node("B", "")

	tests := []struct {
		name string
		edge topology.Edge
		want string
	}{
		{"forward", topology.Edge{From: a, To: b, Dir: topology.DirForward}, "nA --> nB"},
		{"back", topology.Edge{From: a, To: b, Dir: topology.DirBack}, "nB --> nA"},
		{"both", topology.Edge{From: a, To: b, Dir: topology.DirBoth}, "nA <--> nB"},
		{"none", topology.Edge{From: a, To: b, Dir: topology.DirNone}, "nA --- nB"},
		{"dashed", topology.Edge{From: a, To: b, Dir: topology.DirForward, Style: "dashed"}, "nA -.-> nB"},
		{"label", topology.Edge{From: a, To: b, Label: `say "hi"`}, `nA -->|"say #quot;hi#quot;"| nB`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want := strings.NewReplacer("nA", "n"+a.Name(), "nB", "n"+b.Name()).Replace(tt.want)
			if got := mermaidEdge(tt.edge); got != want {
				t.Errorf("mermaidEdge() = %q, want %q", got, want)
			}
		})
	}
}

func TestToMermaid_UnknownCategory(t *testing.T) {
	d, _ := topology.New("Broken")
	if _, err := d.Node("Mystery", "nope"); err != nil {
		t.Fatal(err)
	}
	if _, err := ToMermaid(d, nil); !errs.Is(err, errs.ErrCodeRenderFailure) {
		t.Errorf("ToMermaid() error = %v, want RENDER_FAILURE", err)
	}
}

func TestMermaidClass(t *testing.T) {
	if got := mermaidClass("aws.compute.EC2"); got != "aws_compute_EC2" {
		t.Errorf("mermaidClass() = %q", got)
	}
	if got := mermaidClass(""); got != "blank" {
		t.Errorf("mermaidClass(\"\") = %q", got)
	}
}
