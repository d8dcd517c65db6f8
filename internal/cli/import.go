package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/graphweave/pkg/config"
	"github.com/matzehuels/graphweave/pkg/ingest"
	"github.com/matzehuels/graphweave/pkg/model"
)

// importCommand converts tabular data into a graph document.
func (c *CLI) importCommand() *cobra.Command {
	var (
		output      string
		idColumn    string
		labelColumn string
		linkColumns []string
		separator   string
	)

	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Convert a CSV file into a graph document",
		Long: `Import reads a CSV file and produces a graph document.

Each row becomes a node. The ID column (default: first column) identifies the
row, link columns reference other rows by ID and become edges, and every other
column becomes a node attribute. Cells may hold several values separated by
the multi-value separator (default ";").

Column settings can also live in graphweave.toml under [ingest]; flags
override the file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runImport(args[0], output, idColumn, labelColumn, linkColumns, separator)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: input with .json extension)")
	cmd.Flags().StringVar(&idColumn, "id-column", "", "column holding the node identifier")
	cmd.Flags().StringVar(&labelColumn, "label-column", "", "column holding the display label")
	cmd.Flags().StringSliceVar(&linkColumns, "link-column", nil, "column referencing other rows by ID (repeatable)")
	cmd.Flags().StringVar(&separator, "separator", "", "multi-value cell separator")

	return cmd
}

func (c *CLI) runImport(input, output, idColumn, labelColumn string, linkColumns []string, separator string) error {
	cfg, err := config.LoadDir(".")
	if err != nil {
		return err
	}

	opts := ingest.Options{
		IDColumn:            cfg.Ingest.IDColumn,
		LabelColumn:         cfg.Ingest.LabelColumn,
		LinkColumns:         cfg.Ingest.LinkColumns,
		MultiValueSeparator: cfg.Ingest.MultiValueSeparator,
	}
	if idColumn != "" {
		opts.IDColumn = idColumn
	}
	if labelColumn != "" {
		opts.LabelColumn = labelColumn
	}
	if len(linkColumns) > 0 {
		opts.LinkColumns = linkColumns
	}
	if separator != "" {
		opts.MultiValueSeparator = separator
	}

	f, err := os.Open(input)
	if err != nil {
		return fmt.Errorf("open %s: %w", input, err)
	}
	defer f.Close()

	p := newProgress(c.Logger)
	doc, err := ingest.ReadCSV(f, opts)
	if err != nil {
		printError("import failed: %v", err)
		return err
	}
	p.done(fmt.Sprintf("Parsed %d nodes and %d edges", len(doc.Nodes), len(doc.Edges)))

	out := outputPath(input, output, ".json")
	if err := model.WriteGraphFile(model.ToGraph(*doc), out); err != nil {
		return err
	}

	printSuccess("Imported %s", input)
	printFile(out)
	printStats(len(doc.Nodes), len(doc.Edges), 0, false)
	printNewline()
	printNextStep("Compute a layout", "graphweave layout "+out)
	return nil
}
