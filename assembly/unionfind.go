package assembly

// unionFind is a disjoint-set forest over cluster ids. The root of every
// set is its smallest id.
type unionFind struct {
	parent map[int]int
}

func newUnionFind(ids []int) *unionFind {
	uf := &unionFind{parent: make(map[int]int, len(ids))}
	for _, id := range ids {
		uf.parent[id] = id
	}
	return uf
}

// find returns the root of id's set, compressing the path on the way
func (uf *unionFind) find(id int) int {
	root := id
	for uf.parent[root] != root {
		root = uf.parent[root]
	}
	for id != root {
		next := uf.parent[id]
		uf.parent[id] = root
		id = next
	}
	return root
}

// union joins the sets of a and b and reports whether they were distinct
func (uf *unionFind) union(a, b int) bool {
	ra, rb := uf.find(a), uf.find(b)
	if ra == rb {
		return false
	}
	if rb < ra {
		ra, rb = rb, ra
	}
	uf.parent[rb] = ra
	return true
}
