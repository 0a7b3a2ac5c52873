package export

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/gemtract/core/internal/models"
)

const (
	graphmlNamespace = "http://graphml.graphdrawing.org/xmlns"
	graphmlSchema    = "http://graphml.graphdrawing.org/xmlns http://graphml.graphdrawing.org/xmlns/1.0/graphml.xsd"

	keyType     = "d0"
	keyName     = "d1"
	keyReaction = "d2"
)

type graphmlDocument struct {
	XMLName        xml.Name     `xml:"graphml"`
	Xmlns          string       `xml:"xmlns,attr"`
	XmlnsXSI       string       `xml:"xmlns:xsi,attr"`
	SchemaLocation string       `xml:"xsi:schemaLocation,attr"`
	Keys           []graphmlKey `xml:"key"`
	Graph          graphmlGraph `xml:"graph"`
}

type graphmlKey struct {
	ID       string `xml:"id,attr"`
	For      string `xml:"for,attr"`
	AttrName string `xml:"attr.name,attr"`
	AttrType string `xml:"attr.type,attr"`
}

type graphmlGraph struct {
	ID          string        `xml:"id,attr"`
	EdgeDefault string        `xml:"edgedefault,attr"`
	Nodes       []graphmlNode `xml:"node"`
	Edges       []graphmlEdge `xml:"edge"`
}

type graphmlNode struct {
	ID   string        `xml:"id,attr"`
	Data []graphmlData `xml:"data"`
}

type graphmlEdge struct {
	ID     string        `xml:"id,attr"`
	Source string        `xml:"source,attr"`
	Target string        `xml:"target,attr"`
	Data   []graphmlData `xml:"data,omitempty"`
}

type graphmlData struct {
	Key   string `xml:"key,attr"`
	Value string `xml:",chardata"`
}

// encodeGraphML writes one node element per node and one edge element per
// edge. Metabolic networks are directed, enzyme networks undirected.
func encodeGraphML(buf *bytes.Buffer, network *models.Network) error {
	edgeDefault := "directed"
	if network.Kind == models.EnzymeNetwork {
		edgeDefault = "undirected"
	}

	graph := graphmlGraph{
		ID:          modelID(network),
		EdgeDefault: edgeDefault,
		Nodes:       make([]graphmlNode, 0, len(network.Nodes)),
		Edges:       make([]graphmlEdge, 0, len(network.Edges)),
	}
	for _, node := range network.Nodes {
		graph.Nodes = append(graph.Nodes, graphmlNode{
			ID: node.ID,
			Data: []graphmlData{
				{Key: keyType, Value: string(node.Type)},
				{Key: keyName, Value: node.Label()},
			},
		})
	}
	for i, edge := range network.Edges {
		e := graphmlEdge{
			ID:     fmt.Sprintf("e%d", i),
			Source: edge.Source,
			Target: edge.Target,
		}
		if edge.Reaction != "" {
			e.Data = []graphmlData{{Key: keyReaction, Value: edge.Reaction}}
		}
		graph.Edges = append(graph.Edges, e)
	}

	doc := graphmlDocument{
		Xmlns:          graphmlNamespace,
		XmlnsXSI:       "http://www.w3.org/2001/XMLSchema-instance",
		SchemaLocation: graphmlSchema,
		Keys: []graphmlKey{
			{ID: keyType, For: "node", AttrName: "type", AttrType: "string"},
			{ID: keyName, For: "node", AttrName: "name", AttrType: "string"},
			{ID: keyReaction, For: "edge", AttrName: "reaction", AttrType: "string"},
		},
		Graph: graph,
	}

	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(buf)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return err
	}
	buf.WriteByte('\n')
	return nil
}
