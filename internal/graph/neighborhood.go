package graph

// Neighborhood returns the subgraph within depth hops of the given
// node, as node and edge lists sorted for stable output. A missing
// start node yields empty slices.
func (g *Graph) Neighborhood(startID string, depth int) ([]*Node, []*Edge) {
	if !g.HasNode(startID) || depth < 0 {
		return nil, nil
	}

	visited := map[string]bool{startID: true}
	frontier := []string{startID}
	for d := 0; d < depth && len(frontier) > 0; d++ {
		var next []string
		for _, id := range frontier {
			for _, nid := range g.Neighbors(id) {
				if visited[nid] {
					continue
				}
				visited[nid] = true
				next = append(next, nid)
			}
		}
		frontier = next
	}

	sub := New()
	for id := range visited {
		sub.AddNode(*g.nodes[id])
	}
	for id := range visited {
		for _, nid := range g.Neighbors(id) {
			if !visited[nid] {
				continue
			}
			e := g.Edge(id, nid)
			sub.AddEdge(e.From, e.To, e.Weight, e.Reason)
		}
	}
	return sub.Nodes(), sub.Edges()
}
