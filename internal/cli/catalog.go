package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/topodraw/pkg/catalog"
)

// catalogCommand creates the catalog command, which lists node categories.
func (c *CLI) catalogCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog [provider]",
		Short: "List the node categories diagrams may use",
		Long: `List the node categories diagrams may use, with their aliases.

A node's category may be given by full name (aws.compute.EC2) or by any
alias. --catalog adds the categories of a TOML file to the built-in ones.`,
		Example: `  topodraw catalog
  topodraw catalog aws
  topodraw catalog --catalog extra.toml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}
			cat, err := loadCatalog(cfg.Catalog)
			if err != nil {
				return err
			}

			var provider string
			if len(args) == 1 {
				provider = strings.ToLower(args[0])
			}
			shown := listCategories(cat, provider)
			if shown == 0 {
				printWarning("No categories for provider %q", provider)
				return nil
			}
			printDetail("%d of %d categories", shown, cat.Len())
			return nil
		},
	}
	cmd.Flags().String("catalog", "", "TOML file with extra node categories")
	return cmd
}

// listCategories prints the categories of provider (all when empty) and
// returns how many were printed.
func listCategories(cat *catalog.Catalog, provider string) int {
	var shown []catalog.Category
	width := 0
	for _, cc := range cat.Categories() {
		if provider != "" && cc.Provider() != provider {
			continue
		}
		shown = append(shown, cc)
		width = max(width, len(cc.Name))
	}

	for _, cc := range shown {
		aliases := make([]string, 0, len(cc.Aliases))
		for _, a := range cc.Aliases {
			if a != "" {
				aliases = append(aliases, a)
			}
		}
		value := strings.Join(aliases, ", ")
		if cc.Glyph != "" {
			value = cc.Glyph + "  " + value
		}
		printRow(width, cc.Name, value)
	}
	return len(shown)
}
