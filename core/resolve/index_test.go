package resolve

import (
	"testing"

	"record-resolver/core/record"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBuildIndices_PositionLists tests that both indices map keys to input
// positions in order.
func TestBuildIndices_PositionLists(t *testing.T) {
	recs := []record.Record{
		makeRecord(t, "1", "a@x.com", ""),
		makeRecord(t, "2", "a@x.com", ""),
		makeRecord(t, "1", "b@x.com", ""),
	}

	idx := BuildIndices(recs)

	assert.Equal(t, []int{0, 2}, idx.ByID["1"])
	assert.Equal(t, []int{1}, idx.ByID["2"])
	assert.Equal(t, []int{0, 1}, idx.ByEmail["a@x.com"])
	assert.Equal(t, []int{2}, idx.ByEmail["b@x.com"])
}

// TestConflictBuckets_FirstAppearanceOrder tests that buckets surface in the
// order their keys first appear and singletons are skipped.
func TestConflictBuckets_FirstAppearanceOrder(t *testing.T) {
	recs := []record.Record{
		makeRecord(t, "solo", "1@x.com", ""),
		makeRecord(t, "late", "2@x.com", ""),
		makeRecord(t, "early", "3@x.com", ""),
		makeRecord(t, "late", "4@x.com", ""),
		makeRecord(t, "early", "5@x.com", ""),
	}
	idx := BuildIndices(recs)

	buckets := conflictBuckets(idx.ByID, recs, record.Record.ID)

	require.Len(t, buckets, 2)
	assert.Equal(t, []int{1, 3}, buckets[0])
	assert.Equal(t, []int{2, 4}, buckets[1])
}
