package vault

import "github.com/moxide-ls/moxide/model"

// reachable reports whether to is reachable from from by following only
// Transclusion edges in outEdges, via breadth-first search. Grounded on
// the teacher's graph.Traverse (graph/traversal.go): build an adjacency
// view on the fly and BFS outward from a seed set, generalized here from
// undirected entity-relationship traversal to a directed reachability
// check restricted to one edge kind.
func reachable(outEdges map[string][]model.Edge, from, to string) bool {
	if from == to {
		return true
	}
	visited := map[string]bool{from: true}
	queue := []string{from}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, e := range outEdges[cur] {
			if e.Kind != model.EdgeTransclusion {
				continue
			}
			if e.TargetDoc == to {
				return true
			}
			if !visited[e.TargetDoc] {
				visited[e.TargetDoc] = true
				queue = append(queue, e.TargetDoc)
			}
		}
	}
	return false
}

// wouldCycle reports whether committing a Transclusion edge from -> to
// would close a cycle in the transclusion subgraph (spec.md §4.4:
// "verify the transclusion subgraph remains acyclic (depth-first
// reachability from B to A)"). The answer is the same under BFS or DFS;
// reachable uses BFS.
func wouldCycle(outEdges map[string][]model.Edge, from, to string) bool {
	return reachable(outEdges, to, from)
}
