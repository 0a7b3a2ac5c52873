package export

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/gemtract/core/internal/models"
)

const (
	sbmlNamespace      = "http://www.sbml.org/sbml/level3/version2/core"
	defaultCompartment = "default"
)

type sbmlDocument struct {
	XMLName xml.Name  `xml:"sbml"`
	Xmlns   string    `xml:"xmlns,attr"`
	Level   int       `xml:"level,attr"`
	Version int       `xml:"version,attr"`
	Model   sbmlModel `xml:"model"`
}

type sbmlModel struct {
	ID           string               `xml:"id,attr"`
	Name         string               `xml:"name,attr,omitempty"`
	Compartments *sbmlCompartmentList `xml:"listOfCompartments,omitempty"`
	Species      *sbmlSpeciesList     `xml:"listOfSpecies,omitempty"`
	Reactions    *sbmlReactionList    `xml:"listOfReactions,omitempty"`
}

type sbmlCompartmentList struct {
	Compartments []sbmlCompartment `xml:"compartment"`
}

type sbmlCompartment struct {
	ID       string `xml:"id,attr"`
	Name     string `xml:"name,attr,omitempty"`
	Constant bool   `xml:"constant,attr"`
}

type sbmlSpeciesList struct {
	Species []sbmlSpecies `xml:"species"`
}

type sbmlSpecies struct {
	ID                    string `xml:"id,attr"`
	Name                  string `xml:"name,attr,omitempty"`
	Compartment           string `xml:"compartment,attr"`
	HasOnlySubstanceUnits bool   `xml:"hasOnlySubstanceUnits,attr"`
	BoundaryCondition     bool   `xml:"boundaryCondition,attr"`
	Constant              bool   `xml:"constant,attr"`
}

type sbmlReactionList struct {
	Reactions []sbmlReaction `xml:"reaction"`
}

type sbmlReaction struct {
	ID         string              `xml:"id,attr"`
	Name       string              `xml:"name,attr,omitempty"`
	Reversible bool                `xml:"reversible,attr"`
	Reactants  *sbmlSpeciesRefList `xml:"listOfReactants,omitempty"`
	Products   *sbmlSpeciesRefList `xml:"listOfProducts,omitempty"`
}

type sbmlSpeciesRefList struct {
	Refs []sbmlSpeciesRef `xml:"speciesReference"`
}

type sbmlSpeciesRef struct {
	Species       string `xml:"species,attr"`
	Stoichiometry int    `xml:"stoichiometry,attr"`
	Constant      bool   `xml:"constant,attr"`
}

// encodeSBML writes an SBML Level 3 Version 2 document. Metabolic networks map
// species to species and reaction nodes to reactions wired from their edges.
// Enzyme networks map enzymes and complexes to species and every edge to a
// reversible reaction between its two catalysts.
func encodeSBML(buf *bytes.Buffer, network *models.Network) error {
	ids := newSIDAllocator()
	model := sbmlModel{
		ID:   ids.fresh(modelID(network)),
		Name: network.Name,
	}

	species, compartments := sbmlSpeciesOf(network, ids)
	if len(compartments) > 0 {
		model.Compartments = &sbmlCompartmentList{Compartments: compartments}
	}
	if len(species) > 0 {
		model.Species = &sbmlSpeciesList{Species: species}
	}

	var reactions []sbmlReaction
	switch network.Kind {
	case models.EnzymeNetwork:
		reactions = sbmlCatalystReactions(network, ids)
	default:
		reactions = sbmlMetabolicReactions(network, ids)
	}
	if len(reactions) > 0 {
		model.Reactions = &sbmlReactionList{Reactions: reactions}
	}

	doc := sbmlDocument{
		Xmlns:   sbmlNamespace,
		Level:   3,
		Version: 2,
		Model:   model,
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

func modelID(network *models.Network) string {
	if network.Name != "" {
		return network.Name
	}
	return string(network.Kind)
}

// isSpeciesNode reports whether a node becomes an SBML species.
func isSpeciesNode(network *models.Network, node models.Node) bool {
	if network.Kind == models.EnzymeNetwork {
		return true
	}
	return node.Type != models.NodeReaction
}

func sbmlSpeciesOf(network *models.Network, ids *sidAllocator) ([]sbmlSpecies, []sbmlCompartment) {
	var species []sbmlSpecies
	var compartments []sbmlCompartment
	compartmentIDs := make(map[string]string)

	for _, node := range network.Nodes {
		if !isSpeciesNode(network, node) {
			continue
		}
		compartment := node.Compartment
		if compartment == "" {
			compartment = defaultCompartment
		}
		cid, ok := compartmentIDs[compartment]
		if !ok {
			cid = ids.fresh(compartment)
			compartmentIDs[compartment] = cid
			c := sbmlCompartment{ID: cid, Constant: true}
			if cid != compartment {
				c.Name = compartment
			}
			compartments = append(compartments, c)
		}
		species = append(species, sbmlSpecies{
			ID:          ids.assign(node.ID),
			Name:        node.Label(),
			Compartment: cid,
		})
	}
	return species, compartments
}

func sbmlMetabolicReactions(network *models.Network, ids *sidAllocator) []sbmlReaction {
	type sides struct {
		reactants, products []sbmlSpeciesRef
	}
	wiring := make(map[string]*sides)
	for _, node := range network.Nodes {
		if node.Type == models.NodeReaction {
			wiring[node.ID] = &sides{}
		}
	}
	for _, edge := range network.Edges {
		if s, ok := wiring[edge.Target]; ok {
			s.reactants = append(s.reactants, speciesRef(ids.assign(edge.Source)))
		}
		if s, ok := wiring[edge.Source]; ok {
			s.products = append(s.products, speciesRef(ids.assign(edge.Target)))
		}
	}

	var reactions []sbmlReaction
	for _, node := range network.Nodes {
		if node.Type != models.NodeReaction {
			continue
		}
		s := wiring[node.ID]
		reactions = append(reactions, sbmlReaction{
			ID:         ids.assign(node.ID),
			Name:       node.Label(),
			Reversible: node.Reversible,
			Reactants:  refList(s.reactants),
			Products:   refList(s.products),
		})
	}
	return reactions
}

func sbmlCatalystReactions(network *models.Network, ids *sidAllocator) []sbmlReaction {
	reactions := make([]sbmlReaction, 0, len(network.Edges))
	for i, edge := range network.Edges {
		base := fmt.Sprintf("edge_%d", i)
		if edge.Reaction != "" {
			base = edge.Reaction
		}
		reactions = append(reactions, sbmlReaction{
			ID:         ids.fresh(base),
			Name:       edge.Reaction,
			Reversible: true,
			Reactants:  refList([]sbmlSpeciesRef{speciesRef(ids.assign(edge.Source))}),
			Products:   refList([]sbmlSpeciesRef{speciesRef(ids.assign(edge.Target))}),
		})
	}
	return reactions
}

func speciesRef(sid string) sbmlSpeciesRef {
	return sbmlSpeciesRef{Species: sid, Stoichiometry: 1, Constant: true}
}

func refList(refs []sbmlSpeciesRef) *sbmlSpeciesRefList {
	if len(refs) == 0 {
		return nil
	}
	return &sbmlSpeciesRefList{Refs: refs}
}
