package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/graphweave/pkg/config"
	"github.com/matzehuels/graphweave/pkg/engine/group"
	"github.com/matzehuels/graphweave/pkg/model"
)

// groupCommand previews meta-node grouping without running the simulation.
func (c *CLI) groupCommand() *cobra.Command {
	var attributes []string

	cmd := &cobra.Command{
		Use:   "group <graph.json>",
		Short: "Preview meta-node grouping without simulating",
		Long: `Group runs the grouping layers over a graph document and lists the
meta-nodes that would be generated, without computing a layout.

Layers come from graphweave.toml under [grouping]; --attribute builds an
ad-hoc layer stack instead, innermost first.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGroup(args[0], attributes)
		},
	}

	cmd.Flags().StringSliceVarP(&attributes, "attribute", "a", nil, "grouping attribute, innermost first (repeatable)")

	return cmd
}

func (c *CLI) runGroup(input string, attributes []string) error {
	cfg, err := config.LoadDir(".")
	if err != nil {
		return err
	}

	grouping := cfg.Grouping
	if len(attributes) > 0 {
		grouping = group.Config{Enabled: true}
		for _, attr := range attributes {
			grouping.Layers = append(grouping.Layers, group.Layer{Attribute: attr})
		}
	}

	g, err := model.ReadGraphFile(input)
	if err != nil {
		return err
	}

	doc := model.FromGraph(g)
	metas := group.Generate(doc.Nodes, grouping)
	if len(metas) == 0 {
		printWarning("No groups generated")
		if !grouping.Enabled {
			printDetail("grouping is disabled; configure [grouping] in %s or pass --attribute", config.DefaultFileName)
		}
		return nil
	}

	printSuccess("Generated %d meta-nodes", len(metas))
	printNewline()
	for i := range metas {
		m := &metas[i]
		printInfo("%s", StyleHighlight.Render(m.Label()))
		detail := fmt.Sprintf("layer %d · %d nodes", m.Layer, len(m.ChildNodeIDs))
		if len(m.ChildMetaIDs) > 0 {
			detail += fmt.Sprintf(" · %d nested groups", len(m.ChildMetaIDs))
		}
		printDetail("%s", detail)
	}
	printNewline()
	printNextStep("Lay out with these groups", "graphweave layout "+input)
	return nil
}
