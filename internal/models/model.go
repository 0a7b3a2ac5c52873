// Package models defines the core data structures of a metabolic model and the
// networks extracted from it. It includes entity definitions, filters and lookups.
package models

type Model struct {
	ID        string     `json:"id,omitempty"`
	Name      string     `json:"name,omitempty"`
	Species   []Species  `json:"species"`
	Reactions []Reaction `json:"reactions"`
	Enzymes   []Enzyme   `json:"enzymes"`
	Complexes []Complex  `json:"complexes,omitempty"`
}

type Species struct {
	ID          string `json:"id"`
	Name        string `json:"name,omitempty"`
	Compartment string `json:"compartment,omitempty"`
}

type Reaction struct {
	ID         string   `json:"id"`
	Name       string   `json:"name,omitempty"`
	Reversible bool     `json:"reversible,omitempty"`
	Reactants  []string `json:"reactants"`
	Products   []string `json:"products"`
	Enzymes    []string `json:"enzymes,omitempty"`
	Complexes  []string `json:"complexes,omitempty"`
}

// Catalysts returns the enzyme and complex ids listed as modifiers, enzymes first.
func (r Reaction) Catalysts() []string {
	out := make([]string, 0, len(r.Enzymes)+len(r.Complexes))
	out = append(out, r.Enzymes...)
	return append(out, r.Complexes...)
}

// Enzyme is a gene product able to catalyse reactions on its own or as part
// of a complex.
type Enzyme struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// Complex is a group of co-required enzymes. Its identity is the ordered list
// of member enzyme ids.
type Complex struct {
	ID      string   `json:"id"`
	Name    string   `json:"name,omitempty"`
	Members []string `json:"members"`
}

type Counts struct {
	Species         int `json:"species"`
	Reactions       int `json:"reactions"`
	Enzymes         int `json:"enzymes"`
	EnzymeComplexes int `json:"enzyme_complexes"`
}

func (m *Model) Counts() Counts {
	return Counts{
		Species:         len(m.Species),
		Reactions:       len(m.Reactions),
		Enzymes:         len(m.Enzymes),
		EnzymeComplexes: len(m.Complexes),
	}
}

// Index holds id lookups for a model. It is built per request and never
// mutated afterwards.
type Index struct {
	Species   map[string]*Species
	Reactions map[string]*Reaction
	Enzymes   map[string]*Enzyme
	Complexes map[string]*Complex
}

func (m *Model) Index() *Index {
	idx := &Index{
		Species:   make(map[string]*Species, len(m.Species)),
		Reactions: make(map[string]*Reaction, len(m.Reactions)),
		Enzymes:   make(map[string]*Enzyme, len(m.Enzymes)),
		Complexes: make(map[string]*Complex, len(m.Complexes)),
	}
	for i := range m.Species {
		idx.Species[m.Species[i].ID] = &m.Species[i]
	}
	for i := range m.Reactions {
		idx.Reactions[m.Reactions[i].ID] = &m.Reactions[i]
	}
	for i := range m.Enzymes {
		idx.Enzymes[m.Enzymes[i].ID] = &m.Enzymes[i]
	}
	for i := range m.Complexes {
		idx.Complexes[m.Complexes[i].ID] = &m.Complexes[i]
	}
	return idx
}
