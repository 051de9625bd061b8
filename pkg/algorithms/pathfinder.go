package algorithms

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/LgxJGOOD/PDB-GO-DualPredictor/pkg/ontology"
)

// DefaultCacheSize bounds the number of per-source BFS results kept by a
// PathFinder.
const DefaultCacheSize = 512

// PathFinderOptions configures a PathFinder.
type PathFinderOptions struct {
	// CacheSize is the number of source terms whose full distance maps are
	// retained. Zero selects DefaultCacheSize.
	CacheSize int
	// OnTraversal, if set, is called after every full BFS with the number of
	// terms reached from source.
	OnTraversal func(source ontology.TermID, visited int)
}

// PathFinder answers repeated distance queries against one frozen graph by
// caching per-source BFS layers. A PathFinder is meant to live for a single
// comparison run; it is safe for concurrent use.
type PathFinder struct {
	graph       *ontology.Graph
	cache       *lru.Cache[ontology.TermID, map[ontology.TermID]Distance]
	onTraversal func(ontology.TermID, int)
}

// NewPathFinder creates a PathFinder over g.
func NewPathFinder(g *ontology.Graph, opts PathFinderOptions) (*PathFinder, error) {
	size := opts.CacheSize
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[ontology.TermID, map[ontology.TermID]Distance](size)
	if err != nil {
		return nil, fmt.Errorf("create distance cache: %w", err)
	}
	return &PathFinder{
		graph:       g,
		cache:       cache,
		onTraversal: opts.OnTraversal,
	}, nil
}

// Graph returns the graph the finder traverses.
func (pf *PathFinder) Graph() *ontology.Graph {
	return pf.graph
}

// Distance returns the hop count between a and b with the same contract as
// ShortestDistance.
func (pf *PathFinder) Distance(a, b ontology.TermID) (Distance, error) {
	if !pf.graph.Has(a) {
		return Unreachable, ontology.UnknownTerm("distance", a)
	}
	if !pf.graph.Has(b) {
		return Unreachable, ontology.UnknownTerm("distance", b)
	}
	if a == b {
		return 0, nil
	}

	// Distances are symmetric, so a cached map for either end answers.
	if layers, ok := pf.cache.Get(a); ok {
		return lookup(layers, b), nil
	}
	if layers, ok := pf.cache.Get(b); ok {
		return lookup(layers, a), nil
	}

	layers, err := pf.DistancesFrom(a)
	if err != nil {
		return Unreachable, err
	}
	return lookup(layers, b), nil
}

// DistancesFrom returns the cached full distance map of source, computing it
// on a miss. The returned map must not be modified.
func (pf *PathFinder) DistancesFrom(source ontology.TermID) (map[ontology.TermID]Distance, error) {
	if layers, ok := pf.cache.Get(source); ok {
		return layers, nil
	}
	layers, err := DistancesFrom(pf.graph, source)
	if err != nil {
		return nil, err
	}
	pf.cache.Add(source, layers)
	if pf.onTraversal != nil {
		pf.onTraversal(source, len(layers))
	}
	return layers, nil
}

// Cached returns the number of sources currently cached.
func (pf *PathFinder) Cached() int {
	return pf.cache.Len()
}

func lookup(layers map[ontology.TermID]Distance, target ontology.TermID) Distance {
	if d, ok := layers[target]; ok {
		return d
	}
	return Unreachable
}
