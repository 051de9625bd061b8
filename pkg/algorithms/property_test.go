package algorithms

import (
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/LgxJGOOD/PDB-GO-DualPredictor/pkg/ontology"
)

// randomGraph builds a graph on n terms from a list of index pairs.
func randomGraph(n int, pairs []int) *ontology.Graph {
	g := ontology.NewGraph("prop")
	for i := 0; i < n; i++ {
		g.AddTerm(ontology.Term{ID: termAt(i)})
	}
	for i := 0; i+1 < len(pairs); i += 2 {
		g.AddRelation(termAt(pairs[i]%n), termAt(pairs[i+1]%n))
	}
	return g
}

func termAt(i int) ontology.TermID {
	return ontology.TermID(fmt.Sprintf("GO:%07d", i+1))
}

func TestDistanceProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	edges := gen.SliceOfN(40, gen.IntRange(0, 19))

	properties.Property("distance to self is zero", prop.ForAll(
		func(pairs []int, i int) bool {
			g := randomGraph(20, pairs)
			d, err := ShortestDistance(g, termAt(i), termAt(i))
			return err == nil && d == 0
		},
		edges,
		gen.IntRange(0, 19),
	))

	properties.Property("distance is symmetric", prop.ForAll(
		func(pairs []int, i, j int) bool {
			g := randomGraph(20, pairs)
			d1, err1 := ShortestDistance(g, termAt(i), termAt(j))
			d2, err2 := ShortestDistance(g, termAt(j), termAt(i))
			return err1 == nil && err2 == nil && d1 == d2
		},
		edges,
		gen.IntRange(0, 19),
		gen.IntRange(0, 19),
	))

	properties.Property("isolated terms are unreachable", prop.ForAll(
		func(pairs []int, i int) bool {
			g := randomGraph(20, pairs)
			g.AddTerm(ontology.Term{ID: "GO:9000000"})
			d, err := ShortestDistance(g, termAt(i), "GO:9000000")
			return err == nil && d == Unreachable
		},
		edges,
		gen.IntRange(0, 19),
	))

	properties.Property("path length equals distance", prop.ForAll(
		func(pairs []int, i, j int) bool {
			g := randomGraph(20, pairs)
			d, _ := ShortestDistance(g, termAt(i), termAt(j))
			path, err := ShortestPath(g, termAt(i), termAt(j))
			if err != nil {
				return false
			}
			if d == Unreachable {
				return path == nil
			}
			return len(path)-1 == int(d)
		},
		edges,
		gen.IntRange(0, 19),
		gen.IntRange(0, 19),
	))

	properties.TestingRun(t)
}
