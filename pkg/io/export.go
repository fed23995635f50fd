package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/topodraw/pkg/topology"
)

type diagram struct {
	Title     string            `json:"title"`
	Filename  string            `json:"filename,omitempty"`
	Direction string            `json:"direction,omitempty"`
	Format    string            `json:"format,omitempty"`
	Show      *bool             `json:"show,omitempty"`
	Meta      topology.Metadata `json:"meta,omitempty"`
	Nodes     []node            `json:"nodes,omitempty"`
	Clusters  []cluster         `json:"clusters,omitempty"`
	Edges     []edge            `json:"edges,omitempty"`
}

type cluster struct {
	Name     string    `json:"name"`
	Nodes    []node    `json:"nodes,omitempty"`
	Clusters []cluster `json:"clusters,omitempty"`
}

type node struct {
	ID       string            `json:"id,omitempty"`
	Label    string            `json:"label"`
	Category string            `json:"category,omitempty"`
	Ref      string            `json:"ref,omitempty"`
	Meta     topology.Metadata `json:"meta,omitempty"`
}

type edge struct {
	From  refs              `json:"from"`
	To    refs              `json:"to"`
	Label string            `json:"label,omitempty"`
	Color string            `json:"color,omitempty"`
	Style string            `json:"style,omitempty"`
	Dir   string            `json:"dir,omitempty"`
	Meta  topology.Metadata `json:"meta,omitempty"`
}

// refs is an edge endpoint list; a single string decodes as one element.
type refs []string

// UnmarshalJSON accepts "a" as well as ["a", "b"].
func (r *refs) UnmarshalJSON(data []byte) error {
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		*r = refs{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("edge endpoint must be a string or an array of strings")
	}
	*r = many
	return nil
}

// MarshalJSON writes a single endpoint as a plain string.
func (r refs) MarshalJSON() ([]byte, error) {
	if len(r) == 1 {
		return json.Marshal(r[0])
	}
	return json.Marshal([]string(r))
}

// WriteJSON encodes a diagram as JSON and writes it to w.
// The output includes every node, cluster and edge with their metadata.
// This format can be re-imported with [ReadJSON] for round-trip processing.
func WriteJSON(d *topology.Diagram, w io.Writer) error {
	ambiguous := ambiguousIDs(d)
	handle := func(n *topology.Node) string {
		if ambiguous[n.ID()] {
			return n.Name()
		}
		return n.ID()
	}

	out := diagram{
		Title:     d.Title(),
		Filename:  d.Filename(),
		Direction: string(d.Direction()),
		Format:    d.Format(),
		Meta:      d.Meta(),
		Nodes:     toNodes(d.RootNodes(), ambiguous),
	}
	if !d.Show() {
		show := false
		out.Show = &show
	}
	for _, c := range d.Clusters() {
		out.Clusters = append(out.Clusters, toCluster(c, ambiguous))
	}
	for _, e := range d.Edges() {
		ed := edge{
			From:  refs{handle(e.From)},
			To:    refs{handle(e.To)},
			Label: e.Label,
			Color: e.Color,
			Style: e.Style,
			Meta:  e.Meta,
		}
		if e.Dir != topology.DirForward {
			ed.Dir = string(e.Dir)
		}
		out.Edges = append(out.Edges, ed)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes a diagram to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(d *topology.Diagram, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(d, f)
}

func toCluster(c *topology.Cluster, ambiguous map[string]bool) cluster {
	out := cluster{Name: c.Name(), Nodes: toNodes(c.Nodes(), ambiguous)}
	for _, child := range c.Clusters() {
		out.Clusters = append(out.Clusters, toCluster(child, ambiguous))
	}
	return out
}

func toNodes(nodes []*topology.Node, ambiguous map[string]bool) []node {
	var out []node
	for _, n := range nodes {
		nd := node{Label: n.Label(), Category: n.Category(), Meta: n.Meta()}
		if n.ID() != n.Label() {
			nd.ID = n.ID()
		}
		if ambiguous[n.ID()] {
			nd.Ref = n.Name()
		}
		out = append(out, nd)
	}
	return out
}

// ambiguousIDs returns the ids shared by more than one node.
func ambiguousIDs(d *topology.Diagram) map[string]bool {
	seen := make(map[string]int)
	for _, n := range d.Nodes() {
		seen[n.ID()]++
	}
	out := make(map[string]bool)
	for id, count := range seen {
		if count > 1 {
			out[id] = true
		}
	}
	return out
}
