package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/mbuehler/facezoom/pkg/scale"
)

// growCommand creates the grow command.
func (c *CLI) growCommand() *cobra.Command {
	return c.scaleCommand(scale.Grow, "grow", "Scale all faces up one step")
}

// shrinkCommand creates the shrink command.
func (c *CLI) shrinkCommand() *cobra.Command {
	return c.scaleCommand(scale.Shrink, "shrink", "Scale all faces down one step")
}

// scaleCommand builds a grow or shrink command; the two differ only in
// direction.
func (c *CLI) scaleCommand(dir scale.Direction, use, short string) *cobra.Command {
	var factor float64

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Long: short + `.

Excluded faces are first pinned to their current effective height, then every
face with an explicit height is rescaled by the configured factor. Faces whose
new height would leave the configured bounds are left unchanged.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runScale(cmd.Context(), dir, factor)
		},
	}

	cmd.Flags().Float64Var(&factor, "factor", 0, "override the configured scale factor for this call")

	return cmd
}

// runScale loads configuration, opens the registry, and applies one step.
func (c *CLI) runScale(ctx context.Context, dir scale.Direction, factor float64) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if factor != 0 {
		cfg.Scale.Factor = factor
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

	res, err := scaler.Scale(ctx, dir)
	if err != nil {
		return err
	}

	verb := "Grew"
	if dir == scale.Shrink {
		verb = "Shrank"
	}
	printSuccess("%s %d faces (%s)", verb, res.Scaled, res.Duration.Round(time.Millisecond))
	if res.Skipped > 0 {
		printDetail("%d faces left unchanged at the height limit", res.Skipped)
	}
	return nil
}
