package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/graphweave/pkg/errors"
	"github.com/matzehuels/graphweave/pkg/model"
	"github.com/matzehuels/graphweave/pkg/pipeline"
	"github.com/matzehuels/graphweave/pkg/render/dot"
)

// exportCommand renders a computed layout as DOT or SVG.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		graphPath  string
		output     string
		format     string
		edgeLabels bool
		showHops   bool
	)

	cmd := &cobra.Command{
		Use:   "export <layout.json>",
		Short: "Render a computed layout as DOT or SVG",
		Long: `Export turns a layout result into a renderable artifact. Positions are
pinned, so the output draws exactly what the simulation settled on.

The graph document supplies labels and attributes; pass it with --graph.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExport(cmd.Context(), args[0], graphPath, output, format, edgeLabels, showHops)
		},
	}

	cmd.Flags().StringVarP(&graphPath, "graph", "g", "", "graph document the layout was computed from (required)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: input with format extension)")
	cmd.Flags().StringVarP(&format, "format", "f", "dot", "output format: dot or svg")
	cmd.Flags().BoolVar(&edgeLabels, "edge-labels", false, "render edge labels")
	cmd.Flags().BoolVar(&showHops, "show-hops", false, "emit crossing hop waypoints as edge comments")
	_ = cmd.MarkFlagRequired("graph")

	return cmd
}

func (c *CLI) runExport(ctx context.Context, input, graphPath, output, format string, edgeLabels, showHops bool) error {
	if format != "dot" && format != "svg" {
		return errors.New(errors.ErrCodeInvalidFormat, "unknown format %q, want dot or svg", format)
	}

	data, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("read %s: %w", input, err)
	}
	var result pipeline.Result
	if err := json.Unmarshal(data, &result); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "parse layout %s", input)
	}

	g, err := model.ReadGraphFile(graphPath)
	if err != nil {
		return err
	}

	dotSrc := dot.ToDOT(g, &result, dot.Options{EdgeLabels: edgeLabels, ShowHops: showHops})

	out := outputPath(input, output, "."+format)
	var artifact []byte
	switch format {
	case "dot":
		artifact = []byte(dotSrc)
	case "svg":
		spinner := newSpinnerWithContext(ctx, "Rendering SVG...")
		spinner.Start()
		artifact, err = dot.RenderSVG(ctx, dotSrc)
		spinner.Stop()
		if err != nil {
			printError("render failed: %v", err)
			return err
		}
	}

	if err := os.WriteFile(out, artifact, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}

	printSuccess("Exported %s", format)
	printFile(out)
	return nil
}
