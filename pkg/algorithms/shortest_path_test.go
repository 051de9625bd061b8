package algorithms

import (
	"errors"
	"testing"

	"github.com/LgxJGOOD/PDB-GO-DualPredictor/pkg/ontology"
)

// buildGraph creates a graph from parent/child pairs.
func buildGraph(t *testing.T, edges ...[2]ontology.TermID) *ontology.Graph {
	t.Helper()
	g := ontology.NewGraph("test")
	for _, e := range edges {
		g.AddRelation(e[0], e[1])
	}
	return g
}

// diamondGraph is a DAG whose undirected form has a cycle:
//
//	  root
//	 /    \
//	a      b
//	 \    /
//	  leaf --- deep
//
// plus an unrelated component other1 - other2.
func diamondGraph(t *testing.T) *ontology.Graph {
	return buildGraph(t,
		[2]ontology.TermID{"GO:0000001", "GO:0000002"},
		[2]ontology.TermID{"GO:0000001", "GO:0000003"},
		[2]ontology.TermID{"GO:0000002", "GO:0000004"},
		[2]ontology.TermID{"GO:0000003", "GO:0000004"},
		[2]ontology.TermID{"GO:0000004", "GO:0000005"},
		[2]ontology.TermID{"GO:0000010", "GO:0000011"},
	)
}

const (
	root   ontology.TermID = "GO:0000001"
	a      ontology.TermID = "GO:0000002"
	b      ontology.TermID = "GO:0000003"
	leaf   ontology.TermID = "GO:0000004"
	deep   ontology.TermID = "GO:0000005"
	other1 ontology.TermID = "GO:0000010"
	other2 ontology.TermID = "GO:0000011"
)

func TestShortestDistance_SameTerm(t *testing.T) {
	g := diamondGraph(t)

	d, err := ShortestDistance(g, leaf, leaf)
	if err != nil {
		t.Fatalf("ShortestDistance failed: %v", err)
	}
	if d != 0 {
		t.Errorf("Expected distance 0, got %d", d)
	}
}

func TestShortestDistance_Levels(t *testing.T) {
	g := diamondGraph(t)

	tests := []struct {
		name           string
		source, target ontology.TermID
		want           Distance
	}{
		{"parent", a, root, 1},
		{"siblings via root", a, b, 2},
		{"through cycle", root, leaf, 2},
		{"deepest", root, deep, 3},
		{"upward", deep, root, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := ShortestDistance(g, tt.source, tt.target)
			if err != nil {
				t.Fatalf("ShortestDistance failed: %v", err)
			}
			if d != tt.want {
				t.Errorf("ShortestDistance(%s, %s) = %d, want %d", tt.source, tt.target, d, tt.want)
			}
		})
	}
}

func TestShortestDistance_Unreachable(t *testing.T) {
	g := diamondGraph(t)

	d, err := ShortestDistance(g, root, other1)
	if err != nil {
		t.Fatalf("ShortestDistance failed: %v", err)
	}
	if d != Unreachable {
		t.Errorf("Expected Unreachable, got %d", d)
	}
	if d.Reachable() {
		t.Error("Unreachable.Reachable() should be false")
	}
	if d.String() != "unreachable" {
		t.Errorf("String() = %q", d.String())
	}
}

func TestShortestDistance_UnknownTerm(t *testing.T) {
	g := diamondGraph(t)

	for _, pair := range [][2]ontology.TermID{{"GO:9999999", root}, {root, "GO:9999999"}} {
		_, err := ShortestDistance(g, pair[0], pair[1])
		if !errors.Is(err, ontology.ErrUnknownTerm) {
			t.Fatalf("Expected ErrUnknownTerm, got %v", err)
		}
		var ute *ontology.UnknownTermError
		if !errors.As(err, &ute) || ute.Term != "GO:9999999" {
			t.Errorf("Expected UnknownTermError for GO:9999999, got %v", err)
		}
	}

	// identical unknown terms still fail: the term is outside the ontology
	if _, err := ShortestDistance(g, "GO:9999999", "GO:9999999"); !ontology.IsUnknownTerm(err) {
		t.Errorf("Expected unknown term error, got %v", err)
	}
}

func TestDistancesFrom(t *testing.T) {
	g := diamondGraph(t)

	distances, err := DistancesFrom(g, a)
	if err != nil {
		t.Fatalf("DistancesFrom failed: %v", err)
	}

	want := map[ontology.TermID]Distance{a: 0, root: 1, leaf: 1, b: 2, deep: 2}
	if len(distances) != len(want) {
		t.Fatalf("Expected %d reachable terms, got %d: %v", len(want), len(distances), distances)
	}
	for id, d := range want {
		if distances[id] != d {
			t.Errorf("distance to %s = %d, want %d", id, distances[id], d)
		}
	}
	if _, ok := distances[other1]; ok {
		t.Error("Disconnected term should not be in distances map")
	}

	if _, err := DistancesFrom(g, "GO:9999999"); !ontology.IsUnknownTerm(err) {
		t.Errorf("Expected unknown term error, got %v", err)
	}
}

func TestShortestPath(t *testing.T) {
	g := diamondGraph(t)

	path, err := ShortestPath(g, root, deep)
	if err != nil {
		t.Fatalf("ShortestPath failed: %v", err)
	}
	if len(path) != 4 {
		t.Fatalf("Expected path length 4, got %d: %v", len(path), path)
	}
	if path[0] != root || path[3] != deep {
		t.Errorf("Expected path from %s to %s, got %v", root, deep, path)
	}
	if path[1] != a && path[1] != b {
		t.Errorf("Expected second node %s or %s, got %s", a, b, path[1])
	}
	for i := 1; i < len(path); i++ {
		if !adjacent(g, path[i-1], path[i]) {
			t.Errorf("%s and %s are not adjacent", path[i-1], path[i])
		}
	}
}

func TestShortestPath_MatchesDistance(t *testing.T) {
	g := diamondGraph(t)
	terms := []ontology.TermID{root, a, b, leaf, deep}

	for _, s := range terms {
		for _, e := range terms {
			path, err := ShortestPath(g, s, e)
			if err != nil {
				t.Fatalf("ShortestPath failed: %v", err)
			}
			d, _ := ShortestDistance(g, s, e)
			if len(path)-1 != int(d) {
				t.Errorf("path %v has %d hops, distance is %d", path, len(path)-1, d)
			}
		}
	}
}

func TestShortestPath_NoPath(t *testing.T) {
	g := diamondGraph(t)

	path, err := ShortestPath(g, leaf, other2)
	if err != nil {
		t.Fatalf("ShortestPath failed: %v", err)
	}
	if path != nil {
		t.Errorf("Expected no path (nil), got %v", path)
	}

	path, _ = ShortestPath(g, leaf, leaf)
	if len(path) != 1 || path[0] != leaf {
		t.Errorf("Expected [%s], got %v", leaf, path)
	}
}

func adjacent(g *ontology.Graph, x, y ontology.TermID) bool {
	for _, n := range g.Neighbors(x) {
		if n == y {
			return true
		}
	}
	return false
}
