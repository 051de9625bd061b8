package algorithms

import (
	"container/list"
	"strconv"

	"github.com/LgxJGOOD/PDB-GO-DualPredictor/pkg/ontology"
)

// Distance is an undirected hop count between two terms.
type Distance int

// Unreachable is returned when no path connects two terms, e.g. terms from
// different GO namespaces.
const Unreachable Distance = -1

// Reachable reports whether d is a real hop count.
func (d Distance) Reachable() bool {
	return d >= 0
}

func (d Distance) String() string {
	if d < 0 {
		return "unreachable"
	}
	return strconv.Itoa(int(d))
}

// ShortestDistance returns the minimum number of edges between source and
// target using breadth-first search over the undirected graph. Both terms
// must be nodes of g, otherwise an *ontology.UnknownTermError is returned.
func ShortestDistance(g *ontology.Graph, source, target ontology.TermID) (Distance, error) {
	if !g.Has(source) {
		return Unreachable, ontology.UnknownTerm("distance", source)
	}
	if !g.Has(target) {
		return Unreachable, ontology.UnknownTerm("distance", target)
	}
	if source == target {
		return 0, nil
	}

	// Shared ancestors make the undirected graph cyclic, so every node is
	// expanded at most once.
	visited := map[ontology.TermID]struct{}{source: {}}
	frontier := []ontology.TermID{source}

	for level := Distance(1); len(frontier) > 0; level++ {
		next := make([]ontology.TermID, 0, len(frontier))
		for _, current := range frontier {
			for _, neighbor := range g.Neighbors(current) {
				if neighbor == target {
					return level, nil
				}
				if _, seen := visited[neighbor]; seen {
					continue
				}
				visited[neighbor] = struct{}{}
				next = append(next, neighbor)
			}
		}
		frontier = next
	}

	return Unreachable, nil
}

// DistancesFrom runs a full BFS from source and returns the hop count of every
// reachable term, source included. Terms missing from the map are unreachable.
func DistancesFrom(g *ontology.Graph, source ontology.TermID) (map[ontology.TermID]Distance, error) {
	if !g.Has(source) {
		return nil, ontology.UnknownTerm("distances", source)
	}

	distances := map[ontology.TermID]Distance{source: 0}
	queue := list.New()
	queue.PushBack(source)

	for queue.Len() > 0 {
		currentID := queue.Remove(queue.Front()).(ontology.TermID)
		currentDist := distances[currentID]

		for _, neighbor := range g.Neighbors(currentID) {
			if _, visited := distances[neighbor]; !visited {
				distances[neighbor] = currentDist + 1
				queue.PushBack(neighbor)
			}
		}
	}

	return distances, nil
}

// ShortestPath returns one shortest path from source to target, both ends
// included, using bidirectional BFS. It returns nil when the terms are not
// connected.
func ShortestPath(g *ontology.Graph, source, target ontology.TermID) ([]ontology.TermID, error) {
	if !g.Has(source) {
		return nil, ontology.UnknownTerm("path", source)
	}
	if !g.Has(target) {
		return nil, ontology.UnknownTerm("path", target)
	}
	if source == target {
		return []ontology.TermID{source}, nil
	}

	forwardQueue := list.New()
	forwardVisited := map[ontology.TermID]ontology.TermID{source: source} // node -> parent
	forwardQueue.PushBack(source)

	backwardQueue := list.New()
	backwardVisited := map[ontology.TermID]ontology.TermID{target: target}
	backwardQueue.PushBack(target)

	for forwardQueue.Len() > 0 && backwardQueue.Len() > 0 {
		if meeting, ok := expandFrontier(g, forwardQueue, forwardVisited, backwardVisited); ok {
			return reconstructPath(meeting, forwardVisited, backwardVisited), nil
		}
		if meeting, ok := expandFrontier(g, backwardQueue, backwardVisited, forwardVisited); ok {
			return reconstructPath(meeting, forwardVisited, backwardVisited), nil
		}
	}

	return nil, nil
}

// expandFrontier expands one BFS level and reports the first node already
// reached by the opposite search.
func expandFrontier(
	g *ontology.Graph,
	queue *list.List,
	visited map[ontology.TermID]ontology.TermID,
	otherVisited map[ontology.TermID]ontology.TermID,
) (ontology.TermID, bool) {
	levelSize := queue.Len()
	for i := 0; i < levelSize; i++ {
		currentID := queue.Remove(queue.Front()).(ontology.TermID)

		for _, neighbor := range g.Neighbors(currentID) {
			if _, seen := visited[neighbor]; seen {
				continue
			}
			visited[neighbor] = currentID
			if _, found := otherVisited[neighbor]; found {
				return neighbor, true
			}
			queue.PushBack(neighbor)
		}
	}

	return "", false
}

// reconstructPath joins the forward chain (source -> meeting) with the
// backward chain (meeting -> target).
func reconstructPath(
	meeting ontology.TermID,
	forwardVisited map[ontology.TermID]ontology.TermID,
	backwardVisited map[ontology.TermID]ontology.TermID,
) []ontology.TermID {
	forwardPath := make([]ontology.TermID, 0)
	node := meeting
	for node != forwardVisited[node] {
		forwardPath = append(forwardPath, node)
		node = forwardVisited[node]
	}
	forwardPath = append(forwardPath, node)

	for i, j := 0, len(forwardPath)-1; i < j; i, j = i+1, j-1 {
		forwardPath[i], forwardPath[j] = forwardPath[j], forwardPath[i]
	}

	node = meeting
	for node != backwardVisited[node] {
		node = backwardVisited[node]
		forwardPath = append(forwardPath, node)
	}

	return forwardPath
}
