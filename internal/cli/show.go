package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/mbuehler/facezoom/pkg/face"
	"github.com/mbuehler/facezoom/pkg/scale"
)

// showCommand creates the show command listing faces and their heights.
func (c *CLI) showCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "List all faces with their heights",
		Long: `List all faces with their explicit height, inheritance parent, and the
effective height the resolver would use. Excluded faces are dimmed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
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

			excluded := 0
			rows := make([][]string, 0, len(faces))
			for _, f := range faces {
				effective, err := scaler.EffectiveHeight(ctx, f.Name)
				if err != nil {
					return err
				}

				height := "—"
				if f.HasHeight() {
					height = strconv.Itoa(*f.Height)
				}
				inherit := f.Inherit
				if inherit == "" {
					inherit = "—"
				}
				marker := ""
				if scaler.Excluded(f.Name) {
					marker = "excluded"
					excluded++
				}
				rows = append(rows, []string{f.Name, height, inherit, strconv.Itoa(effective), marker})
			}

			headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
			t := table.New().
				Border(lipgloss.RoundedBorder()).
				BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
				Headers("Face", "Height", "Inherits", "Effective", "").
				Rows(rows...).
				StyleFunc(func(row, col int) lipgloss.Style {
					if row == -1 {
						return headerStyle
					}
					if row < len(rows) && rows[row][4] != "" {
						return StyleDim
					}
					return StyleValue
				})

			fmt.Println(t.Render())
			printDetail("%d faces · %d excluded", len(faces), excluded)
			return nil
		},
	}
}
