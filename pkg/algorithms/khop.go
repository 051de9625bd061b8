package algorithms

import (
	"fmt"
	"sort"

	"github.com/LgxJGOOD/PDB-GO-DualPredictor/pkg/ontology"
)

// NeighborhoodResult holds the terms within MaxHops of a source term.
type NeighborhoodResult struct {
	Source         ontology.TermID              `json:"source"`
	ByHop          map[int][]ontology.TermID    `json:"by_hop"`
	Distances      map[ontology.TermID]Distance `json:"-"`
	TotalReachable int                          `json:"total_reachable"`
}

// Neighborhood performs a BFS from source up to maxHops levels and groups the
// discovered terms by distance. The source itself is never included. Terms in
// each hop bucket are sorted.
func Neighborhood(g *ontology.Graph, source ontology.TermID, maxHops int) (*NeighborhoodResult, error) {
	if maxHops < 1 {
		return nil, fmt.Errorf("maxHops must be >= 1, got %d", maxHops)
	}
	if !g.Has(source) {
		return nil, ontology.UnknownTerm("neighborhood", source)
	}

	visited := map[ontology.TermID]bool{source: true}
	distances := make(map[ontology.TermID]Distance)
	byHop := make(map[int][]ontology.TermID)

	frontier := []ontology.TermID{source}
	for hop := 1; hop <= maxHops && len(frontier) > 0; hop++ {
		var next []ontology.TermID
		for _, current := range frontier {
			for _, neighbor := range g.Neighbors(current) {
				if visited[neighbor] {
					continue
				}
				visited[neighbor] = true
				distances[neighbor] = Distance(hop)
				byHop[hop] = append(byHop[hop], neighbor)
				next = append(next, neighbor)
			}
		}
		frontier = next
	}

	for hop := range byHop {
		ids := byHop[hop]
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	}

	return &NeighborhoodResult{
		Source:         source,
		ByHop:          byHop,
		Distances:      distances,
		TotalReachable: len(distances),
	}, nil
}
