// Package catalog resolves node categories to visual styles.
//
// A node's category is a free-form tag such as "ELB" or "aws.compute.EC2".
// The catalog maps each tag to a [Category] carrying the Graphviz attributes
// used to draw the node. Categories have a full name (provider.service.Kind)
// and any number of aliases; both resolve.
//
// The built-in catalog is embedded from catalog.toml and returned by
// [Default]. Users extend or override it with their own TOML file:
//
//	[defaults]
//	fillcolor = "#FAFAFA"
//
//	[[category]]
//	name = "acme.queue.Broker"
//	aliases = ["Broker"]
//	shape = "component"
//
// and combine the two with [Catalog.Merge].
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"

	errs "github.com/matzehuels/topodraw/pkg/errors"
)

//go:embed catalog.toml
var builtin []byte

// Category describes how nodes of one kind are drawn.
type Category struct {
	Name      string   `toml:"name"`
	Aliases   []string `toml:"aliases"`
	Glyph     string   `toml:"glyph"` // optional symbol drawn above the label
	Shape     string   `toml:"shape"`
	Style     string   `toml:"style"`
	FillColor string   `toml:"fillcolor"`
	FontColor string   `toml:"fontcolor"`
	PenColor  string   `toml:"pencolor"`
}

// Provider returns the first segment of the full name ("aws" for
// "aws.compute.EC2"), or "" for unqualified names.
func (c Category) Provider() string {
	if i := strings.IndexByte(c.Name, '.'); i > 0 {
		return c.Name[:i]
	}
	return ""
}

// Kind returns the last segment of the full name ("EC2" for "aws.compute.EC2").
func (c Category) Kind() string {
	return c.Name[strings.LastIndexByte(c.Name, '.')+1:]
}

// withDefaults fills empty style fields from d.
func (c Category) withDefaults(d Category) Category {
	fill := func(v *string, def string) {
		if *v == "" {
			*v = def
		}
	}
	fill(&c.Shape, d.Shape)
	fill(&c.Style, d.Style)
	fill(&c.FillColor, d.FillColor)
	fill(&c.FontColor, d.FontColor)
	fill(&c.PenColor, d.PenColor)
	return c
}

type file struct {
	Defaults   Category   `toml:"defaults"`
	Categories []Category `toml:"category"`
}

// Catalog is an immutable set of categories indexed by name and alias.
type Catalog struct {
	defaults Category
	byName   map[string]Category
	byAlias  map[string][]string
}

// Parse decodes a TOML catalog.
//
// Returns an INVALID_CATALOG error for malformed TOML, a category without a
// name, or a name declared twice.
func Parse(data []byte) (*Catalog, error) {
	var f file
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidCatalog, err, "decode catalog")
	}

	c := &Catalog{
		defaults: f.Defaults,
		byName:   make(map[string]Category, len(f.Categories)),
		byAlias:  make(map[string][]string),
	}
	for i, cat := range f.Categories {
		if cat.Name == "" {
			return nil, errs.New(errs.ErrCodeInvalidCatalog, "category %d has no name", i)
		}
		if _, exists := c.byName[cat.Name]; exists {
			return nil, errs.New(errs.ErrCodeInvalidCatalog, "category %q declared twice", cat.Name)
		}
		c.add(cat)
	}
	return c, nil
}

// Load reads and parses a TOML catalog file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "catalog %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

var defaultCatalog = sync.OnceValue(func() *Catalog {
	c, err := Parse(builtin)
	if err != nil {
		panic(fmt.Sprintf("catalog: embedded catalog is invalid: %v", err))
	}
	return c
})

// Default returns the built-in catalog. The result is shared and must not be
// modified; Merge returns a new catalog.
func Default() *Catalog { return defaultCatalog() }

func (c *Catalog) add(cat Category) {
	if old, ok := c.byName[cat.Name]; ok {
		for _, a := range old.Aliases {
			c.byAlias[a] = slices.DeleteFunc(c.byAlias[a], func(n string) bool { return n == cat.Name })
		}
	}
	c.byName[cat.Name] = cat
	for _, a := range cat.Aliases {
		if !slices.Contains(c.byAlias[a], cat.Name) {
			c.byAlias[a] = append(c.byAlias[a], cat.Name)
		}
	}
}

// Merge returns a new catalog containing c's categories overlaid with
// other's. Categories with the same name are replaced; non-empty defaults in
// other win.
func (c *Catalog) Merge(other *Catalog) *Catalog {
	out := &Catalog{
		defaults: c.defaults,
		byName:   make(map[string]Category, len(c.byName)+len(other.byName)),
		byAlias:  make(map[string][]string, len(c.byAlias)),
	}
	for _, name := range c.names() {
		out.add(c.byName[name])
	}
	for _, name := range other.names() {
		out.add(other.byName[name])
	}
	out.defaults = other.defaults.withDefaults(c.defaults)
	return out
}

// Resolve looks a tag up by full name first, then by alias. Style fields the
// category leaves empty are filled from the catalog defaults.
//
// Returns an UNKNOWN_CATEGORY error when nothing matches or when an alias is
// shared by several categories.
func (c *Catalog) Resolve(tag string) (Category, error) {
	if cat, ok := c.byName[tag]; ok {
		return cat.withDefaults(c.defaults), nil
	}
	switch names := c.byAlias[tag]; len(names) {
	case 0:
		return Category{}, errs.New(errs.ErrCodeUnknownCategory, "unknown category %q", tag)
	case 1:
		return c.byName[names[0]].withDefaults(c.defaults), nil
	default:
		sorted := slices.Sorted(slices.Values(names))
		return Category{}, errs.New(errs.ErrCodeUnknownCategory, "ambiguous category %q (matches %s)", tag, strings.Join(sorted, ", "))
	}
}

// Categories returns every category, with defaults applied, sorted by name.
func (c *Catalog) Categories() []Category {
	out := make([]Category, 0, len(c.byName))
	for _, name := range c.names() {
		out = append(out, c.byName[name].withDefaults(c.defaults))
	}
	return out
}

// Len returns the number of categories.
func (c *Catalog) Len() int { return len(c.byName) }

func (c *Catalog) names() []string {
	names := make([]string, 0, len(c.byName))
	for n := range c.byName {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}
