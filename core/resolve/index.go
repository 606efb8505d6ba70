package resolve

import "record-resolver/core/record"

// Indices holds the two hash indices over a record set. Bucket values are
// input-list positions in insertion order.
type Indices struct {
	// ByID maps each identifier to the positions of the records carrying it.
	ByID map[string][]int

	// ByEmail maps each email to the positions of the records carrying it.
	ByEmail map[string][]int
}

// BuildIndices constructs both indices in one O(n) pass. It is a pure
// function: detection calls rebuild the indices from the current record set
// instead of patching them incrementally, so they can never go stale.
func BuildIndices(records []record.Record) Indices {
	idx := Indices{
		ByID:    make(map[string][]int, len(records)),
		ByEmail: make(map[string][]int, len(records)),
	}
	for pos, rec := range records {
		idx.ByID[rec.ID()] = append(idx.ByID[rec.ID()], pos)
		idx.ByEmail[rec.Email()] = append(idx.ByEmail[rec.Email()], pos)
	}
	return idx
}

// conflictBuckets returns the buckets of one index that hold two or more
// positions, ordered by the first appearance of their key in the input.
func conflictBuckets(index map[string][]int, records []record.Record, key func(record.Record) string) [][]int {
	var buckets [][]int
	for pos, rec := range records {
		bucket := index[key(rec)]
		if len(bucket) > 1 && bucket[0] == pos {
			buckets = append(buckets, bucket)
		}
	}
	return buckets
}
