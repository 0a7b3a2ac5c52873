// Package models defines the core data structures of a metabolic model and the
// networks extracted from it. It includes entity definitions, filters and lookups.
package models

import "fmt"

type NetworkKind string

const (
	MetabolicNetwork NetworkKind = "mn"
	EnzymeNetwork    NetworkKind = "en"
)

func ParseNetworkKind(s string) (NetworkKind, error) {
	switch k := NetworkKind(s); k {
	case MetabolicNetwork, EnzymeNetwork:
		return k, nil
	default:
		return "", fmt.Errorf("unsupported network type %q", s)
	}
}

func (k NetworkKind) String() string {
	switch k {
	case MetabolicNetwork:
		return "metabolic network"
	case EnzymeNetwork:
		return "enzyme network"
	default:
		return string(k)
	}
}

type NodeType string

const (
	NodeSpecies       NodeType = "species"
	NodeReaction      NodeType = "reaction"
	NodeEnzyme        NodeType = "enzyme"
	NodeEnzymeComplex NodeType = "enzyme_complex"
)

type Network struct {
	Kind        NetworkKind  `json:"kind"`
	Name        string       `json:"name,omitempty"`
	Nodes       []Node       `json:"nodes"`
	Edges       []Edge       `json:"edges"`
	Stats       *Stats       `json:"stats,omitempty"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
}

type Node struct {
	ID          string   `json:"id"`
	Name        string   `json:"name,omitempty"`
	Type        NodeType `json:"type"`
	Compartment string   `json:"compartment,omitempty"`
	Reversible  bool     `json:"reversible,omitempty"`
	Members     []string `json:"members,omitempty"`
}

// Label is the display text of a node: its name, or its id when unnamed.
func (n Node) Label() string {
	if n.Name != "" {
		return n.Name
	}
	return n.ID
}

// Edge connects two nodes of the same network. In an enzyme network Reaction
// names the jointly catalysed reaction the edge stands for.
type Edge struct {
	Source   string `json:"source"`
	Target   string `json:"target"`
	Reaction string `json:"reaction,omitempty"`
}

type Stats struct {
	TotalNodes  int              `json:"total_nodes"`
	TotalEdges  int              `json:"total_edges"`
	NodesByType map[NodeType]int `json:"nodes_by_type,omitempty"`
}

// ComputeStats counts the nodes and edges currently held by the network.
func (n *Network) ComputeStats() *Stats {
	stats := &Stats{
		TotalNodes:  len(n.Nodes),
		TotalEdges:  len(n.Edges),
		NodesByType: make(map[NodeType]int),
	}
	for _, node := range n.Nodes {
		stats.NodesByType[node.Type]++
	}
	return stats
}

type DiagnosticKind string

const (
	DiagnosticUnknownIdentifier DiagnosticKind = "unknown_identifier"
	DiagnosticMalformedReaction DiagnosticKind = "malformed_reaction"
	DiagnosticMalformedComplex  DiagnosticKind = "malformed_complex"
)

// Diagnostic records a recoverable problem absorbed while building a network.
type Diagnostic struct {
	Kind   DiagnosticKind `json:"kind"`
	Entity string         `json:"entity"`
	ID     string         `json:"id"`
	Detail string         `json:"detail,omitempty"`
}
