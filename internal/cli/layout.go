package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/graphweave/pkg/config"
	"github.com/matzehuels/graphweave/pkg/engine/group"
	"github.com/matzehuels/graphweave/pkg/model"
	"github.com/matzehuels/graphweave/pkg/pipeline"
)

// layoutCommand computes a force-directed layout for a graph document.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output   string
		width    float64
		height   float64
		maxTicks int
		seed     int64
		noCache  bool
		noGroups bool
		watch    bool
	)

	cmd := &cobra.Command{
		Use:   "layout <graph.json>",
		Short: "Compute a force-directed layout for a graph document",
		Long: `Layout runs the physics simulation over a graph document and writes the
resulting node positions, meta-nodes, rendered edges and crossing hops.

Grouping layers are read from graphweave.toml under [grouping]; collapsed
groups simulate as single bodies. Identical inputs with identical settings
produce identical layouts, and repeated runs are served from the cache.

With --watch the simulation renders live in the terminal instead of writing
a file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if watch {
				return c.runWatch(cmd.Context(), args[0], width, height, maxTicks, seed)
			}
			return c.runLayout(cmd.Context(), args[0], output, width, height, maxTicks, seed, noCache, noGroups)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: input with .layout.json extension)")
	cmd.Flags().Float64Var(&width, "width", 0, "canvas width")
	cmd.Flags().Float64Var(&height, "height", 0, "canvas height")
	cmd.Flags().IntVar(&maxTicks, "max-ticks", 0, "simulation tick limit")
	cmd.Flags().Int64Var(&seed, "seed", 0, "seed for initial placement")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the layout cache")
	cmd.Flags().BoolVar(&noGroups, "no-groups", false, "ignore grouping configuration")
	cmd.Flags().BoolVar(&watch, "watch", false, "render the simulation live in the terminal")

	return cmd
}

func (c *CLI) runLayout(ctx context.Context, input, output string, width, height float64, maxTicks int, seed int64, noCache, noGroups bool) error {
	opts, err := c.layoutOptions(width, height, maxTicks, seed, noGroups)
	if err != nil {
		return err
	}

	g, err := model.ReadGraphFile(input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Simulating layout...")
	spinner.Start()

	result, err := runner.ComputeLayout(ctx, g, opts)
	if err != nil {
		if spinner.Cancelled() {
			spinner.StopWithError("Layout cancelled")
		} else {
			spinner.StopWithError(fmt.Sprintf("Layout failed: %v", err))
		}
		return err
	}
	spinner.Stop()

	out := outputPath(input, output, ".layout.json")
	if strings.HasSuffix(input, ".layout.json") && output == "" {
		out = input
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}

	printSuccess("Layout settled after %d ticks", result.Stats.Ticks)
	printFile(out)
	printStats(result.Stats.NodeCount, result.Stats.RenderedEdge, result.Stats.MetaCount, result.CacheInfo.LayoutHit)
	if n := len(result.Hops); n > 0 {
		printDetail("%d edges carry crossing hops", n)
	}
	printNewline()
	printNextStep("Export a rendering", fmt.Sprintf("graphweave export %s --graph %s --format svg", out, input))
	return nil
}

// layoutOptions merges flags over the project config file.
func (c *CLI) layoutOptions(width, height float64, maxTicks int, seed int64, noGroups bool) (pipeline.Options, error) {
	cfg, err := config.LoadDir(".")
	if err != nil {
		return pipeline.Options{}, err
	}

	opts := pipeline.Options{
		Grouping: cfg.Grouping,
		Width:    cfg.Canvas.Width,
		Height:   cfg.Canvas.Height,
		MaxTicks: maxTicks,
		Seed:     seed,
		Logger:   c.Logger,
	}
	if noGroups {
		opts.Grouping = group.Config{}
	}
	if width > 0 {
		opts.Width = width
	}
	if height > 0 {
		opts.Height = height
	}
	return opts, nil
}
