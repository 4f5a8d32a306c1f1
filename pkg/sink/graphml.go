package sink

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"

	"github.com/matzehuels/benchgraph/pkg/record"
)

const graphmlNS = "http://graphml.graphdrawing.org/xmlns"

type graphml struct {
	XMLName xml.Name     `xml:"graphml"`
	XMLNS   string       `xml:"xmlns,attr"`
	Keys    []graphmlKey `xml:"key"`
	Graph   graphmlGraph `xml:"graph"`
}

type graphmlKey struct {
	ID       string `xml:"id,attr"`
	For      string `xml:"for,attr"`
	AttrName string `xml:"attr.name,attr"`
	AttrType string `xml:"attr.type,attr"`
}

type graphmlGraph struct {
	EdgeDefault string        `xml:"edgedefault,attr"`
	Nodes       []graphmlNode `xml:"node"`
	Edges       []graphmlEdge `xml:"edge"`
}

type graphmlNode struct {
	ID   string        `xml:"id,attr"`
	Data []graphmlData `xml:"data"`
}

type graphmlEdge struct {
	Source string        `xml:"source,attr"`
	Target string        `xml:"target,attr"`
	Data   []graphmlData `xml:"data"`
}

type graphmlData struct {
	Key   string `xml:"key,attr"`
	Value string `xml:",chardata"`
}

var graphmlKeys = []graphmlKey{
	{ID: "d0", For: "node", AttrName: "node_id", AttrType: "string"},
	{ID: "d1", For: "node", AttrName: "node_type", AttrType: "int"},
	{ID: "d2", For: "node", AttrName: "gate_type", AttrType: "int"},
	{ID: "d3", For: "node", AttrName: "num_inverted_predecessors", AttrType: "int"},
	{ID: "d4", For: "edge", AttrName: "edge_type", AttrType: "int"},
}

// WriteGraphML encodes rec as GraphML. Node ids are the node indices and
// edges run from source to target in record order.
func WriteGraphML(w io.Writer, rec *record.Record) error {
	ids := rec.NodeIDs()
	types := rec.NodeTypes()
	gates := rec.GateTypes()
	inv := rec.InvertedPredecessors()
	ei := rec.EdgeIndex()
	et := rec.EdgeTypes()

	doc := graphml{
		XMLNS: graphmlNS,
		Keys:  graphmlKeys,
		Graph: graphmlGraph{
			EdgeDefault: "directed",
			Nodes:       make([]graphmlNode, len(ids)),
			Edges:       make([]graphmlEdge, len(et)),
		},
	}
	for i, id := range ids {
		doc.Graph.Nodes[i] = graphmlNode{
			ID: strconv.Itoa(i),
			Data: []graphmlData{
				{Key: "d0", Value: id},
				{Key: "d1", Value: strconv.Itoa(types[i])},
				{Key: "d2", Value: strconv.Itoa(gates[i])},
				{Key: "d3", Value: strconv.Itoa(inv[i])},
			},
		}
	}
	for i := range et {
		doc.Graph.Edges[i] = graphmlEdge{
			Source: strconv.Itoa(ei[0][i]),
			Target: strconv.Itoa(ei[1][i]),
			Data:   []graphmlData{{Key: "d4", Value: strconv.Itoa(et[i])}},
		}
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("encode graphml: %w", err)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode graphml: %w", err)
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("encode graphml: %w", err)
	}
	return nil
}
