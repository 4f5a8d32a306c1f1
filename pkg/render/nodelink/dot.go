package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/benchgraph/pkg/bench"
	"github.com/matzehuels/benchgraph/pkg/circuit"
	"github.com/matzehuels/benchgraph/pkg/record"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds the gate type and inverted predecessor count to labels.
	Detailed bool
	// LeftToRight lays the circuit out horizontally, inputs on the left.
	LeftToRight bool
}

// ToDOT converts a record to Graphviz DOT source. Node identifiers are the
// node indices ("n0", "n1", ...), so arbitrary signal names are safe.
func ToDOT(rec *record.Record, opts Options) string {
	ids := rec.NodeIDs()
	types := rec.NodeTypes()
	gates := rec.GateTypes()
	inv := rec.InvertedPredecessors()
	edges := rec.EdgeIndex()
	edgeTypes := rec.EdgeTypes()

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	if opts.LeftToRight {
		buf.WriteString("  rankdir=LR;\n")
	} else {
		buf.WriteString("  rankdir=TB;\n")
	}
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [style=filled, fillcolor=white, fontsize=14];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.25;\n")
	buf.WriteString("\n")

	var inputs []string
	for i, name := range ids {
		role := circuit.Role(types[i])
		label := fmtLabel(name, bench.GateType(gates[i]), inv[i], opts.Detailed)
		fmt.Fprintf(&buf, "  n%d [%s];\n", i, strings.Join(fmtAttrs(role, label), ", "))
		if role == circuit.PrimaryInput {
			inputs = append(inputs, "n"+strconv.Itoa(i))
		}
	}
	if len(inputs) > 0 {
		fmt.Fprintf(&buf, "  { rank=source; %s; }\n", strings.Join(inputs, "; "))
	}

	buf.WriteString("\n")
	for i := range edges[0] {
		fmt.Fprintf(&buf, "  n%d -> n%d", edges[0][i], edges[1][i])
		if edgeTypes[i] == int(bench.Inverted) {
			buf.WriteString(" [style=dashed, arrowhead=odot]")
		}
		buf.WriteString(";\n")
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(name string, gate bench.GateType, inverted int, detailed bool) string {
	if !detailed || gate == bench.GateNone {
		return name
	}
	label := name + "\n" + gate.String()
	if inverted > 0 {
		label += fmt.Sprintf("\ninv: %d", inverted)
	}
	return label
}

func fmtAttrs(role circuit.Role, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	switch role {
	case circuit.PrimaryInput:
		attrs = append(attrs, "shape=box", "fillcolor=\"#dbeafe\"")
	case circuit.PrimaryOutput:
		attrs = append(attrs, "shape=doubleoctagon", "fillcolor=\"#dcfce7\"")
	default:
		attrs = append(attrs, "shape=ellipse")
	}
	return attrs
}

// RenderSVG renders DOT source to SVG using the embedded Graphviz.
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
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-sized svg header with one that
// scales to its container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(header))
}
