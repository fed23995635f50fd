package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/topodraw/pkg/errors"
	"github.com/matzehuels/topodraw/pkg/io"
	"github.com/matzehuels/topodraw/pkg/topology"
)

// builder assembles a closed diagram, applying opts over its own settings.
type builder func(opts ...topology.Option) (*topology.Diagram, error)

// renderCommand creates the render command for declarative diagram files.
func (c *CLI) renderCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render <diagram.json>",
		Short: "Render a diagram described in a JSON file",
		Long: `Render a diagram described in a JSON file ("-" reads standard input).

The file's own format and show flag apply unless --format or --no-show
override them.`,
		Example: `  topodraw render web.json
  topodraw render web.json -f svg -o build/diagrams --no-show
  topodraw export | topodraw render - -f dot --no-show`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			return c.draw(cmd, func(opts ...topology.Option) (*topology.Diagram, error) {
				if path == "-" {
					return io.ReadJSON(cmd.InOrStdin(), opts...)
				}
				return io.ImportJSON(path, opts...)
			})
		},
	}
	addDrawFlags(cmd)
	return cmd
}

// draw builds a diagram with the configured overrides, writes it to the
// output directory and reports what was written.
func (c *CLI) draw(cmd *cobra.Command, build builder) error {
	ctx := cmd.Context()

	cfg, err := c.loadConfig(cmd)
	if err != nil {
		return err
	}

	d, err := build(diagramOptions(cfg)...)
	if err != nil {
		if errs.IsBuildError(err) {
			return fmt.Errorf("invalid diagram: %w", err)
		}
		return err
	}
	c.Logger.Debug("built diagram", "title", d.Title(), "nodes", d.NodeCount(), "clusters", d.ClusterCount(), "edges", d.EdgeCount())

	r, err := c.newRenderer(ctx, cfg)
	if err != nil {
		return err
	}
	defer r.Cache.Close()

	prog := newProgress(c.Logger)
	path, err := r.Export(ctx, d, cfg.OutputDir)
	if err != nil {
		return fmt.Errorf("draw %q: %w", d.Title(), err)
	}
	prog.done("Rendered " + d.Format())

	printSuccess("Drew %s", d.Title())
	printFile(path)
	printStats(d)
	return nil
}
