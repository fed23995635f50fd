package cli

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/topodraw/internal/architecture"
	"github.com/matzehuels/topodraw/internal/config"
	errs "github.com/matzehuels/topodraw/pkg/errors"
	"github.com/matzehuels/topodraw/pkg/io"
	"github.com/matzehuels/topodraw/pkg/render"
	"github.com/matzehuels/topodraw/pkg/topology"
)

// exportOptions holds flags for the export command.
type exportOptions struct {
	format  string
	output  string
	catalog string
}

// sharedExportFlags are the export flags that mean the same as the
// configuration keys of the same name. Export's --format and --output
// do not, so they stay out of config resolution.
var sharedExportFlags = []string{"catalog", "config", "verbose"}

// exportCommand creates the export command, which writes a topology
// description instead of a rendered image.
func (c *CLI) exportCommand() *cobra.Command {
	var opts exportOptions

	cmd := &cobra.Command{
		Use:   "export [diagram.json]",
		Short: "Write a diagram as JSON, DOT or Mermaid",
		Long: `Write a diagram as a declarative JSON description, Graphviz DOT source
or a Mermaid flowchart. Without an argument the reference architecture is
exported.`,
		Example: `  topodraw export > reference.json
  topodraw export -f dot -o reference.dot
  topodraw export web.json -f mermaid`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				d   *topology.Diagram
				err error
			)
			if len(args) == 1 {
				d, err = io.ImportJSON(args[0])
			} else {
				d, err = architecture.Build()
			}
			if err != nil {
				return err
			}

			cfg, err := c.exportConfig(cmd)
			if err != nil {
				return err
			}
			opts.catalog = cfg.Catalog

			data, err := c.export(d, opts)
			if err != nil {
				return err
			}

			if opts.output == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(opts.output, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", opts.output, err)
			}
			printSuccess("Exported %s", d.Title())
			printFile(opts.output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "json", "export format: json, dot, mermaid")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().String("catalog", "", "TOML file with extra node categories")

	return cmd
}

// exportConfig resolves the configuration from the environment, config file
// and the shared export flags.
func (c *CLI) exportConfig(cmd *cobra.Command) (config.Config, error) {
	shared := pflag.NewFlagSet(cmd.Name(), pflag.ContinueOnError)
	for _, name := range sharedExportFlags {
		if f := cmd.Flags().Lookup(name); f != nil {
			shared.AddFlag(f)
		}
	}
	return c.loadConfigFlags(shared)
}

// export serializes d in the requested description format.
func (c *CLI) export(d *topology.Diagram, opts exportOptions) ([]byte, error) {
	if opts.format == "json" {
		var buf bytes.Buffer
		if err := io.WriteJSON(d, &buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}

	f, err := render.ParseFormat(opts.format)
	if err != nil {
		return nil, err
	}
	cat, err := loadCatalog(opts.catalog)
	if err != nil {
		return nil, err
	}

	var src string
	switch f {
	case render.FormatDOT:
		src, err = render.ToDOT(d, cat)
	case render.FormatMermaid:
		src, err = render.ToMermaid(d, cat)
	default:
		return nil, errs.New(errs.ErrCodeInvalidFormat, "export supports json, dot and mermaid, got %q", opts.format)
	}
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("exported description", "format", f, "bytes", len(src))
	return []byte(src), nil
}
