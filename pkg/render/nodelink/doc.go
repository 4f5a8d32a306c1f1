// Package nodelink renders compiled circuits as node-link diagrams.
//
// # Usage
//
// Convert a record to DOT, then render to SVG:
//
//	dot := nodelink.ToDOT(rec, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Appearance
//
// Primary inputs are boxes ranked at the top, primary outputs double
// octagons, internal nodes ellipses. Inverted edges are dashed and end in a
// hollow circle, the usual bubble notation for negation. With
// Options.Detailed, labels also carry the driving gate and the number of
// inverted predecessors.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering; no Graphviz installation is required.
package nodelink
