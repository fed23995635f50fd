package io

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	errs "github.com/matzehuels/topodraw/pkg/errors"
	"github.com/matzehuels/topodraw/pkg/topology"
)

// ReadJSON decodes a JSON diagram from r and builds it with the topology
// builder. opts are applied after the file's own settings, so callers can
// override the format or show flag.
//
// ReadJSON returns an error if:
//   - The JSON is malformed (INVALID_INPUT)
//   - Two nodes share a ref, or an edge endpoint is ambiguous (INVALID_INPUT)
//   - An edge names a node that does not exist (UNKNOWN_NODE)
//   - The builder rejects a node or cluster (DUPLICATE_IDENTIFIER, ...)
//
// The returned diagram is closed. ReadJSON does not close r.
func ReadJSON(r io.Reader, opts ...topology.Option) (*topology.Diagram, error) {
	var data diagram
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&data); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "decode diagram")
	}

	var dopts []topology.Option
	if data.Filename != "" {
		dopts = append(dopts, topology.WithFilename(data.Filename))
	}
	if data.Direction != "" {
		dopts = append(dopts, topology.WithDirection(topology.Direction(data.Direction)))
	}
	if data.Format != "" {
		dopts = append(dopts, topology.WithFormat(data.Format))
	}
	if data.Show != nil {
		dopts = append(dopts, topology.WithShow(*data.Show))
	}
	if len(data.Meta) > 0 {
		dopts = append(dopts, topology.WithMeta(data.Meta))
	}
	d, err := topology.New(data.Title, append(dopts, opts...)...)
	if err != nil {
		return nil, err
	}

	b := &builder{d: d, refs: map[string]*topology.Node{}, ids: map[string][]*topology.Node{}}
	for _, n := range data.Nodes {
		if err := b.node(d.Node, n); err != nil {
			return nil, err
		}
	}
	for _, c := range data.Clusters {
		if err := d.Cluster(c.Name, func(h *topology.Cluster) error { return b.cluster(h, c) }); err != nil {
			return nil, err
		}
	}

	for i, e := range data.Edges {
		from, err := b.resolve(e.From)
		if err != nil {
			return nil, fmt.Errorf("edge %d: %w", i, err)
		}
		to, err := b.resolve(e.To)
		if err != nil {
			return nil, fmt.Errorf("edge %d: %w", i, err)
		}
		eopts := []topology.EdgeOption{
			topology.EdgeLabel(e.Label),
			topology.EdgeColor(e.Color),
			topology.EdgeStyle(e.Style),
			topology.EdgeMeta(e.Meta),
		}
		if e.Dir != "" {
			eopts = append(eopts, topology.EdgeDirection(topology.EdgeDir(e.Dir)))
		}
		if err := d.Connect(from, to, eopts...); err != nil {
			return nil, fmt.Errorf("edge %d: %w", i, err)
		}
	}

	d.Close()
	return d, nil
}

// ImportJSON reads a JSON file at path and returns the built diagram.
//
// ImportJSON returns FILE_NOT_FOUND if the file does not exist, and the
// same errors as [ReadJSON] otherwise.
func ImportJSON(path string, opts ...topology.Option) (*topology.Diagram, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "diagram file %s not found", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	d, err := ReadJSON(f, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

type builder struct {
	d    *topology.Diagram
	refs map[string]*topology.Node
	ids  map[string][]*topology.Node
}

type nodeFunc func(label, category string, opts ...topology.NodeOption) (*topology.Node, error)

func (b *builder) node(create nodeFunc, n node) error {
	if n.Ref != "" {
		if _, dup := b.refs[n.Ref]; dup {
			return errs.New(errs.ErrCodeInvalidInput, "ref %q is used by more than one node", n.Ref)
		}
	}
	var nopts []topology.NodeOption
	if n.ID != "" {
		nopts = append(nopts, topology.WithID(n.ID))
	}
	if len(n.Meta) > 0 {
		nopts = append(nopts, topology.WithNodeMeta(n.Meta))
	}
	created, err := create(n.Label, n.Category, nopts...)
	if err != nil {
		return err
	}
	if n.Ref != "" {
		b.refs[n.Ref] = created
	}
	b.ids[created.ID()] = append(b.ids[created.ID()], created)
	return nil
}

func (b *builder) cluster(h *topology.Cluster, c cluster) error {
	for _, n := range c.Nodes {
		if err := b.node(h.Node, n); err != nil {
			return err
		}
	}
	for _, child := range c.Clusters {
		if err := h.Cluster(child.Name, func(ch *topology.Cluster) error { return b.cluster(ch, child) }); err != nil {
			return err
		}
	}
	return nil
}

// resolve maps endpoint handles to nodes: refs first, then unique ids.
func (b *builder) resolve(handles refs) ([]*topology.Node, error) {
	out := make([]*topology.Node, 0, len(handles))
	for _, h := range handles {
		if n, ok := b.refs[h]; ok {
			out = append(out, n)
			continue
		}
		switch matches := b.ids[h]; len(matches) {
		case 0:
			return nil, errs.Wrap(errs.ErrCodeUnknownNode, topology.ErrUnknownNode, "no node with ref or id %q", h)
		case 1:
			out = append(out, matches[0])
		default:
			return nil, errs.New(errs.ErrCodeInvalidInput, "id %q matches %d nodes; give one of them a ref", h, len(matches))
		}
	}
	return out, nil
}
