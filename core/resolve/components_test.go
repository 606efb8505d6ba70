package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestUnionFind_MergesSets tests the union-find plumbing directly.
func TestUnionFind_MergesSets(t *testing.T) {
	uf := newUnionFind(5)

	uf.union(0, 1)
	uf.union(3, 4)

	assert.Equal(t, uf.find(0), uf.find(1))
	assert.Equal(t, uf.find(3), uf.find(4))
	assert.NotEqual(t, uf.find(0), uf.find(3))
	assert.NotEqual(t, uf.find(2), uf.find(0))

	uf.union(1, 3)
	assert.Equal(t, uf.find(0), uf.find(4))
	assert.NotEqual(t, uf.find(2), uf.find(0))
}

// TestBuildComponents_MergesOverlappingBuckets tests that id and email
// buckets sharing a member collapse into one component flagged with both key
// spaces.
func TestBuildComponents_MergesOverlappingBuckets(t *testing.T) {
	idBuckets := [][]int{{0, 1}}
	emailBuckets := [][]int{{0, 2}}

	comps := buildComponents(4, idBuckets, emailBuckets)

	require.Len(t, comps, 1)
	assert.Equal(t, []int{0, 1, 2}, comps[0].positions)
	assert.True(t, comps[0].hasID)
	assert.True(t, comps[0].hasEmail)
	assert.Equal(t, KindCross, comps[0].kind())
}

// TestBuildComponents_KindPerKeySpace tests kind derivation for disjoint
// single-key components.
func TestBuildComponents_KindPerKeySpace(t *testing.T) {
	idBuckets := [][]int{{0, 1}}
	emailBuckets := [][]int{{2, 3}}

	comps := buildComponents(4, idBuckets, emailBuckets)

	require.Len(t, comps, 2)
	assert.Equal(t, KindID, comps[0].kind())
	assert.Equal(t, KindEmail, comps[1].kind())
}

// TestBuildComponents_Ordering tests that components come out ordered by
// their first member position with ascending positions inside each.
func TestBuildComponents_Ordering(t *testing.T) {
	idBuckets := [][]int{{3, 5}}
	emailBuckets := [][]int{{1, 4}, {2, 5}}

	comps := buildComponents(6, idBuckets, emailBuckets)

	require.Len(t, comps, 2)
	assert.Equal(t, []int{1, 4}, comps[0].positions)
	assert.Equal(t, []int{2, 3, 5}, comps[1].positions)
}

// TestBuildComponents_SingletonsExcluded tests that positions touching no
// bucket produce no component.
func TestBuildComponents_SingletonsExcluded(t *testing.T) {
	comps := buildComponents(3, nil, nil)
	assert.Empty(t, comps)
}
