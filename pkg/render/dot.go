// Package render converts a face inheritance snapshot to Graphviz output.
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering, so no graphviz binary needs to be installed.
package render

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/mbuehler/facezoom/pkg/face"
)

// Options configures inheritance graph rendering.
type Options struct {
	// Effective maps face names to their resolved heights, shown in node
	// labels. Faces without an entry are labeled with their name only.
	Effective map[string]int

	// Excluded marks faces exempt from scaling. They are rendered with
	// dashed outlines and grey fill.
	Excluded map[string]bool
}

// ToDOT converts a face snapshot to Graphviz DOT format. Each face becomes a
// node; each inheritance link becomes an edge from child to parent. Parents
// named but not registered still appear, as bare nodes.
func ToDOT(faces []face.Face, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph faces {\n")
	buf.WriteString("  rankdir=BT;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.15,0.08\"];\n")
	buf.WriteString("\n")

	for _, f := range faces {
		attrs := fmtAttrs(f, opts)
		fmt.Fprintf(&buf, "  %q [%s];\n", f.Name, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, f := range faces {
		if f.Inherit != "" {
			fmt.Fprintf(&buf, "  %q -> %q;\n", f.Name, f.Inherit)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtAttrs(f face.Face, opts Options) []string {
	attrs := []string{fmt.Sprintf("label=%q", fmtLabel(f, opts.Effective))}
	if opts.Excluded[f.Name] {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey")
	}
	return attrs
}

func fmtLabel(f face.Face, effective map[string]int) string {
	h, known := effective[f.Name]
	if !known {
		return f.Name
	}
	if f.HasHeight() {
		return fmt.Sprintf("%s\n%d", f.Name, h)
	}
	// Inherited heights are parenthesized to distinguish them from explicit ones.
	return fmt.Sprintf("%s\n(%d)", f.Name, h)
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
