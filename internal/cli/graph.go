package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mbuehler/facezoom/pkg/cache"
	"github.com/mbuehler/facezoom/pkg/errors"
	"github.com/mbuehler/facezoom/pkg/face"
	"github.com/mbuehler/facezoom/pkg/render"
	"github.com/mbuehler/facezoom/pkg/scale"
)

// Output formats for the graph command.
const (
	formatSVG = "svg"
	formatDOT = "dot"
)

// graphCommand creates the graph command rendering the inheritance graph.
func (c *CLI) graphCommand() *cobra.Command {
	var (
		output  string
		format  string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Render the face inheritance graph",
		Long: `Render the face inheritance graph as SVG (via Graphviz) or DOT.

Nodes show each face with its effective height; inherited heights appear in
parentheses. Excluded faces are drawn dashed and grey. Rendered SVGs are
cached by content hash for faster subsequent runs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != formatSVG && format != formatDOT {
				return errors.New(errors.ErrCodeInvalidFormat, "unknown format %q (want svg or dot)", format)
			}
			return c.runGraph(cmd, output, format, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default faces.svg, or stdout for dot)")
	cmd.Flags().StringVarP(&format, "format", "f", formatSVG, "output format: svg (default), dot")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runGraph(cmd *cobra.Command, output, format string, noCache bool) error {
	ctx := cmd.Context()

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	reg, cleanup, err := c.newRegistry(ctx, cfg.Registry)
	if err != nil {
		return err
	}
	defer cleanup()

	scaler, err := scale.New(reg, cfg.Scale, c.Logger)
	if err != nil {
		return err
	}

	faces, err := face.Snapshot(ctx, reg)
	if err != nil {
		return err
	}

	opts := render.Options{
		Effective: make(map[string]int, len(faces)),
		Excluded:  make(map[string]bool),
	}
	edges := 0
	for _, f := range faces {
		h, err := scaler.EffectiveHeight(ctx, f.Name)
		if err != nil {
			return err
		}
		opts.Effective[f.Name] = h
		if scaler.Excluded(f.Name) {
			opts.Excluded[f.Name] = true
		}
		if f.Inherit != "" {
			edges++
		}
	}

	dot := render.ToDOT(faces, opts)

	if format == formatDOT {
		if output == "" {
			fmt.Print(dot)
			return nil
		}
		if err := os.WriteFile(output, []byte(dot), 0644); err != nil {
			return fmt.Errorf("write %s: %w", output, err)
		}
		printFile(output)
		return nil
	}

	if output == "" {
		output = "faces.svg"
	}

	artifacts := newCache(noCache)
	defer artifacts.Close()

	key := "graph:" + cache.Hash([]byte(dot))
	svg, hit, err := artifacts.Get(ctx, key)
	if err != nil {
		c.Logger.Debug("cache read failed", "error", err)
	}
	if !hit {
		prog := newProgress(c.Logger)
		spinner := newSpinner(ctx, "Rendering inheritance graph...")
		spinner.Start()
		svg, err = render.RenderSVG(ctx, dot)
		if err != nil {
			spinner.StopWithError("Rendering failed")
			return fmt.Errorf("render graph: %w", err)
		}
		spinner.Stop()
		prog.done("Rendered inheritance graph")
		if err := artifacts.Set(ctx, key, svg, 0); err != nil {
			c.Logger.Debug("cache write failed", "error", err)
		}
	}

	if err := os.WriteFile(output, svg, 0644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}

	printFile(output)
	printStats(len(faces), edges, hit)
	return nil
}
