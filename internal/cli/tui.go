package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/mbuehler/facezoom/pkg/face"
	"github.com/mbuehler/facezoom/pkg/scale"
)

// List styles
var (
	listDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
	listStatusStyle = lipgloss.NewStyle().Foreground(colorGray)
)

// =============================================================================
// Messages
// =============================================================================

// faceRow is one rendered line of the face table.
type faceRow struct {
	Name      string
	Height    string
	Inherit   string
	Effective int
	Excluded  bool
}

type facesMsg struct {
	Rows []faceRow
}

type scaledMsg struct {
	Direction scale.Direction
	Result    *scale.Result
}

type errMsg struct {
	Err error
}

// =============================================================================
// FaceModel - Interactive face browser
// =============================================================================

// FaceModel is the bubbletea model for browsing and rescaling faces.
type FaceModel struct {
	ctx    context.Context
	reg    face.Registry
	scaler *scale.Scaler

	Rows   []faceRow
	Cursor int
	Status string
	Err    error
}

// NewFaceModel creates a new face browser model.
func NewFaceModel(ctx context.Context, reg face.Registry, scaler *scale.Scaler) FaceModel {
	return FaceModel{ctx: ctx, reg: reg, scaler: scaler}
}

func (m FaceModel) Init() tea.Cmd {
	return m.loadFaces
}

// loadFaces snapshots the registry and resolves effective heights.
func (m FaceModel) loadFaces() tea.Msg {
	faces, err := face.Snapshot(m.ctx, m.reg)
	if err != nil {
		return errMsg{Err: err}
	}

	rows := make([]faceRow, 0, len(faces))
	for _, f := range faces {
		effective, err := m.scaler.EffectiveHeight(m.ctx, f.Name)
		if err != nil {
			return errMsg{Err: err}
		}

		height := "—"
		if f.HasHeight() {
			height = strconv.Itoa(*f.Height)
		}
		inherit := f.Inherit
		if inherit == "" {
			inherit = "—"
		}
		rows = append(rows, faceRow{
			Name:      f.Name,
			Height:    height,
			Inherit:   inherit,
			Effective: effective,
			Excluded:  m.scaler.Excluded(f.Name),
		})
	}
	return facesMsg{Rows: rows}
}

func (m FaceModel) scaleFaces(dir scale.Direction) tea.Cmd {
	return func() tea.Msg {
		res, err := m.scaler.Scale(m.ctx, dir)
		if err != nil {
			return errMsg{Err: err}
		}
		return scaledMsg{Direction: dir, Result: res}
	}
}

func (m FaceModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Rows)-1 {
				m.Cursor++
			}
		case "+", "=":
			m.Status = "growing..."
			return m, m.scaleFaces(scale.Grow)
		case "-", "_":
			m.Status = "shrinking..."
			return m, m.scaleFaces(scale.Shrink)
		case "r":
			m.Status = "reloading..."
			return m, m.loadFaces
		}

	case facesMsg:
		m.Rows = msg.Rows
		m.Err = nil
		if m.Cursor >= len(m.Rows) && len(m.Rows) > 0 {
			m.Cursor = len(m.Rows) - 1
		}

	case scaledMsg:
		verb := "grew"
		if msg.Direction == scale.Shrink {
			verb = "shrank"
		}
		m.Status = fmt.Sprintf("%s %d faces, %d skipped (%s)",
			verb, msg.Result.Scaled, msg.Result.Skipped,
			msg.Result.Duration.Round(time.Millisecond))
		return m, m.loadFaces

	case errMsg:
		m.Err = msg.Err
		m.Status = ""
	}
	return m, nil
}

func (m FaceModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Faces"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  + grow  - shrink  r reload  q quit"))
	b.WriteString("\n\n")

	if m.Err != nil {
		b.WriteString(StyleWarning.Render("error: " + m.Err.Error()))
		b.WriteString("\n")
		return b.String()
	}

	rows := make([][]string, 0, len(m.Rows))
	for i, r := range m.Rows {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		marker := ""
		if r.Excluded {
			marker = "excluded"
		}
		rows = append(rows, []string{cursor, r.Name, r.Height, r.Inherit, strconv.Itoa(r.Effective), marker})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Face", "Height", "Inherits", "Effective", "").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if row >= len(m.Rows) {
				return lipgloss.NewStyle()
			}

			r := m.Rows[row]
			isCurrent := row == m.Cursor

			base := StyleValue
			if r.Excluded {
				base = StyleDim
			}
			if isCurrent {
				return base.Bold(true)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	if m.Status != "" {
		b.WriteString(listStatusStyle.Render("  " + m.Status))
		b.WriteString("\n")
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Rows))))

	return b.String()
}

// =============================================================================
// Command
// =============================================================================

// tuiCommand creates the tui command.
func (c *CLI) tuiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Browse and rescale faces interactively",
		Args:  cobra.NoArgs,
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

			model := NewFaceModel(ctx, reg, scaler)
			p := tea.NewProgram(model, tea.WithContext(ctx))
			_, err = p.Run()
			return err
		},
	}
}
