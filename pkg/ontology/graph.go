package ontology

import (
	"sort"
)

// Graph is the GO DAG viewed as an undirected adjacency structure. Every
// relation is stored in both directions so hop counts ignore edge direction.
// A Graph is built by a loader and treated as read-only afterwards; concurrent
// readers are safe once loading has finished.
type Graph struct {
	version string
	terms   map[TermID]*Term
	adj     map[TermID][]TermID
	edgeSet map[[2]TermID]struct{}
	alt     map[TermID]TermID
}

// NewGraph creates an empty graph tagged with an ontology version.
func NewGraph(version string) *Graph {
	return &Graph{
		version: version,
		terms:   make(map[TermID]*Term),
		adj:     make(map[TermID][]TermID),
		edgeSet: make(map[[2]TermID]struct{}),
		alt:     make(map[TermID]TermID),
	}
}

// Version is the data version of the source the graph was loaded from.
// Distances depend on it, so reports carry it alongside results.
func (g *Graph) Version() string {
	return g.version
}

// SetVersion records the data version.
func (g *Graph) SetVersion(v string) {
	g.version = v
}

// AddTerm inserts t, or merges metadata into an existing node with the same id.
func (g *Graph) AddTerm(t Term) {
	existing, ok := g.terms[t.ID]
	if !ok {
		cp := t
		cp.AltIDs = append([]TermID(nil), t.AltIDs...)
		g.terms[t.ID] = &cp
		if _, ok := g.adj[t.ID]; !ok {
			g.adj[t.ID] = nil
		}
	} else {
		if t.Name != "" {
			existing.Name = t.Name
		}
		if t.Namespace != "" {
			existing.Namespace = t.Namespace
		}
		existing.Obsolete = existing.Obsolete || t.Obsolete
		existing.AltIDs = append(existing.AltIDs, t.AltIDs...)
	}
	for _, a := range t.AltIDs {
		if a != t.ID {
			g.alt[a] = t.ID
		}
	}
}

// AddRelation links a and b in both directions, creating bare nodes as needed.
// Self loops and duplicate relations are ignored. It reports whether a new
// edge was added.
func (g *Graph) AddRelation(a, b TermID) bool {
	if a == b {
		return false
	}
	key := [2]TermID{a, b}
	if b < a {
		key = [2]TermID{b, a}
	}
	if _, dup := g.edgeSet[key]; dup {
		return false
	}
	g.edgeSet[key] = struct{}{}

	if _, ok := g.terms[a]; !ok {
		g.AddTerm(Term{ID: a})
	}
	if _, ok := g.terms[b]; !ok {
		g.AddTerm(Term{ID: b})
	}
	g.adj[a] = append(g.adj[a], b)
	g.adj[b] = append(g.adj[b], a)
	return true
}

// Has reports whether id is a node of the graph. Alternate ids are not nodes;
// use Resolve first when alt ids should be accepted.
func (g *Graph) Has(id TermID) bool {
	_, ok := g.terms[id]
	return ok
}

// Resolve maps id to the node that represents it, following alt_id links.
func (g *Graph) Resolve(id TermID) (TermID, bool) {
	if _, ok := g.terms[id]; ok {
		return id, true
	}
	if primary, ok := g.alt[id]; ok {
		return primary, true
	}
	return "", false
}

// Term returns a copy of the metadata stored for id.
func (g *Graph) Term(id TermID) (Term, bool) {
	t, ok := g.terms[id]
	if !ok {
		return Term{}, false
	}
	cp := *t
	cp.AltIDs = append([]TermID(nil), t.AltIDs...)
	return cp, true
}

// Neighbors returns the terms adjacent to id. The slice is owned by the graph
// and must not be modified.
func (g *Graph) Neighbors(id TermID) []TermID {
	return g.adj[id]
}

// Degree returns the number of adjacent terms.
func (g *Graph) Degree(id TermID) int {
	return len(g.adj[id])
}

// NodeCount returns the number of terms.
func (g *Graph) NodeCount() int {
	return len(g.terms)
}

// EdgeCount returns the number of undirected relations.
func (g *Graph) EdgeCount() int {
	return len(g.edgeSet)
}

// Terms returns all term ids in lexical order.
func (g *Graph) Terms() []TermID {
	ids := make([]TermID, 0, len(g.terms))
	for id := range g.terms {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Stats summarises the graph for logging.
type Stats struct {
	Version    string         `json:"version"`
	Terms      int            `json:"terms"`
	Relations  int            `json:"relations"`
	Obsolete   int            `json:"obsolete"`
	Namespaces map[string]int `json:"namespaces"`
}

// Stats counts terms per namespace.
func (g *Graph) Stats() Stats {
	s := Stats{
		Version:    g.version,
		Terms:      len(g.terms),
		Relations:  len(g.edgeSet),
		Namespaces: make(map[string]int),
	}
	for _, t := range g.terms {
		if t.Obsolete {
			s.Obsolete++
		}
		if t.Namespace != "" {
			s.Namespaces[t.Namespace]++
		}
	}
	return s
}
