package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/topodraw/pkg/catalog"
	"github.com/matzehuels/topodraw/pkg/topology"
)

// ToMermaid converts a diagram to a Mermaid flowchart, suitable for
// embedding in Markdown. Clusters become nested subgraphs; each category
// gets a classDef carrying its catalog colors. A nil catalog means
// [catalog.Default].
func ToMermaid(d *topology.Diagram, cat *catalog.Catalog) (string, error) {
	if cat == nil {
		cat = catalog.Default()
	}
	var b bytes.Buffer

	if d.Title() != "" {
		fmt.Fprintf(&b, "---\ntitle: %s\n---\n", mermaidText(d.Title()))
	}
	fmt.Fprintf(&b, "flowchart %s\n", d.Direction())

	classes := make(map[string][]string)
	var order []catalog.Category
	collect := func(nodes []*topology.Node, indent string) error {
		for _, n := range nodes {
			style, err := resolve(cat, n)
			if err != nil {
				return err
			}
			id := mermaidNodeID(n)
			fmt.Fprintf(&b, "%s%s[\"%s\"]\n", indent, id, mermaidText(n.Label()))
			if _, seen := classes[style.Name]; !seen {
				order = append(order, style)
			}
			classes[style.Name] = append(classes[style.Name], id)
		}
		return nil
	}

	var walk func(c *topology.Cluster, indent string) error
	walk = func(c *topology.Cluster, indent string) error {
		fmt.Fprintf(&b, "%ssubgraph c%s[\"%s\"]\n", indent, c.Key(), mermaidText(c.Name()))
		if err := collect(c.Nodes(), indent+"  "); err != nil {
			return err
		}
		for _, child := range c.Clusters() {
			if err := walk(child, indent+"  "); err != nil {
				return err
			}
		}
		fmt.Fprintf(&b, "%send\n", indent)
		fmt.Fprintf(&b, "%sstyle c%s fill:%s,stroke:%s\n", indent, c.Key(), clusterColor(c.Depth()), penColor)
		return nil
	}

	if err := collect(d.RootNodes(), "  "); err != nil {
		return "", err
	}
	for _, c := range d.Clusters() {
		if err := walk(c, "  "); err != nil {
			return "", err
		}
	}

	for _, e := range d.Edges() {
		b.WriteString("  " + mermaidEdge(e) + "\n")
	}

	for _, style := range order {
		class := mermaidClass(style.Name)
		fmt.Fprintf(&b, "  classDef %s fill:%s,color:%s,stroke:%s\n", class, style.FillColor, style.FontColor, style.PenColor)
		fmt.Fprintf(&b, "  class %s %s\n", strings.Join(classes[style.Name], ","), class)
	}
	return b.String(), nil
}

func mermaidEdge(e topology.Edge) string {
	from, to := mermaidNodeID(e.From), mermaidNodeID(e.To)
	arrow := "-->"
	switch e.Dir {
	case topology.DirBack:
		from, to = to, from
	case topology.DirBoth:
		arrow = "<-->"
	case topology.DirNone:
		arrow = "---"
	}
	if e.Style == "dashed" || e.Style == "dotted" {
		switch arrow {
		case "-->":
			arrow = "-.->"
		case "<-->":
			arrow = "<-.->"
		case "---":
			arrow = "-.-"
		}
	}
	if e.Label != "" {
		return fmt.Sprintf("%s %s|\"%s\"| %s", from, arrow, mermaidText(e.Label), to)
	}
	return fmt.Sprintf("%s %s %s", from, arrow, to)
}

func mermaidNodeID(n *topology.Node) string { return "n" + n.Name() }

// mermaidClass turns a dotted category name into a class identifier.
func mermaidClass(name string) string {
	if name == "" {
		return "blank"
	}
	return strings.NewReplacer(".", "_", "-", "_", " ", "_").Replace(name)
}

var mermaidEscaper = strings.NewReplacer(`"`, "#quot;", "\n", "<br/>")

func mermaidText(s string) string { return mermaidEscaper.Replace(s) }
