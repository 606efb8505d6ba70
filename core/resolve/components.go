package resolve

// unionFind is a standard disjoint-set forest with union by rank and path
// compression, over record positions.
type unionFind struct {
	parent []int
	rank   []int
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{
		parent: make([]int, n),
		rank:   make([]int, n),
	}
	for i := range uf.parent {
		uf.parent[i] = i
	}
	return uf
}

func (uf *unionFind) find(x int) int {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]]
		x = uf.parent[x]
	}
	return x
}

func (uf *unionFind) union(a, b int) {
	ra, rb := uf.find(a), uf.find(b)
	if ra == rb {
		return
	}
	if uf.rank[ra] < uf.rank[rb] {
		ra, rb = rb, ra
	}
	uf.parent[rb] = ra
	if uf.rank[ra] == uf.rank[rb] {
		uf.rank[ra]++
	}
}

// componentData is the position-level view of a component before records are
// attached.
type componentData struct {
	positions []int
	hasID     bool
	hasEmail  bool
}

func (c *componentData) kind() Kind {
	switch {
	case c.hasID && c.hasEmail:
		return KindCross
	case c.hasEmail:
		return KindEmail
	default:
		return KindID
	}
}

// buildComponents computes the connected components over the union of the
// "shares identifier" and "shares email" relations. Only positions that
// appear in at least one conflict bucket participate; singletons pass through
// resolution untouched. Components are ordered by their first member's input
// position, and members inside a component are ascending by position.
func buildComponents(n int, idBuckets, emailBuckets [][]int) []*componentData {
	uf := newUnionFind(n)

	link := func(bucket []int) {
		for _, pos := range bucket[1:] {
			uf.union(bucket[0], pos)
		}
	}
	for _, bucket := range idBuckets {
		link(bucket)
	}
	for _, bucket := range emailBuckets {
		link(bucket)
	}

	// A position is conflicting when any bucket contains it.
	conflicting := make(map[int]bool)
	byRoot := make(map[int]*componentData)
	markKind := func(buckets [][]int, isEmail bool) {
		for _, bucket := range buckets {
			for _, pos := range bucket {
				conflicting[pos] = true
			}
			root := uf.find(bucket[0])
			comp, ok := byRoot[root]
			if !ok {
				comp = &componentData{}
				byRoot[root] = comp
			}
			if isEmail {
				comp.hasEmail = true
			} else {
				comp.hasID = true
			}
		}
	}
	markKind(idBuckets, false)
	markKind(emailBuckets, true)

	var components []*componentData
	for pos := 0; pos < n; pos++ {
		if !conflicting[pos] {
			continue
		}
		comp := byRoot[uf.find(pos)]
		if len(comp.positions) == 0 {
			components = append(components, comp)
		}
		comp.positions = append(comp.positions, pos)
	}
	return components
}
