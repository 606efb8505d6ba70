package resolve

import "record-resolver/core/record"

// Engine holds the current record set and runs detection and resolution over
// it. All operations are synchronous and batch-oriented; a single instance
// must not be used from multiple goroutines without external serialization.
type Engine struct {
	records []record.Record
}

// NewEngine creates an empty engine.
func NewEngine() *Engine {
	return &Engine{}
}

// AddRecords appends records to the set. Input-list positions, which drive
// the tie-break, follow the order of these calls. Indices are not touched
// here: every detection call rebuilds them from scratch.
func (e *Engine) AddRecords(recs []record.Record) {
	e.records = append(e.records, recs...)
}

// Len returns the current record count.
func (e *Engine) Len() int {
	return len(e.records)
}

// Records returns the current record set in input order. The returned slice
// must not be modified.
func (e *Engine) Records() []record.Record {
	return e.records
}

// DetectGroups rebuilds both indices and returns every bucket holding two or
// more records, typed by the index that produced it. Identifier groups come
// first, then email groups, each in first-appearance order.
func (e *Engine) DetectGroups() []ConflictGroup {
	idx := BuildIndices(e.records)

	var groups []ConflictGroup
	for _, bucket := range conflictBuckets(idx.ByID, e.records, record.Record.ID) {
		groups = append(groups, ConflictGroup{
			Kind:    KindID,
			Key:     e.records[bucket[0]].ID(),
			Members: e.pick(bucket),
		})
	}
	for _, bucket := range conflictBuckets(idx.ByEmail, e.records, record.Record.Email) {
		groups = append(groups, ConflictGroup{
			Kind:    KindEmail,
			Key:     e.records[bucket[0]].Email(),
			Members: e.pick(bucket),
		})
	}
	return groups
}

// Resolve detects conflicts, closes them into connected components across
// both key spaces, and selects one canonical record per component. It returns
// the surviving records in their original relative order together with one
// merge decision per dropped record. Resolving an already conflict-free set
// is a no-op that returns the input unchanged.
func (e *Engine) Resolve() *Resolution {
	idx := BuildIndices(e.records)
	idBuckets := conflictBuckets(idx.ByID, e.records, record.Record.ID)
	emailBuckets := conflictBuckets(idx.ByEmail, e.records, record.Record.Email)

	res := &Resolution{
		Summary: Summary{
			TotalRecords: len(e.records),
			IDGroups:     len(idBuckets),
			EmailGroups:  len(emailBuckets),
		},
	}

	dropped := make(map[int]bool)
	for _, comp := range buildComponents(len(e.records), idBuckets, emailBuckets) {
		kind := comp.kind()
		if kind == KindCross {
			res.Summary.CrossComponents++
		}
		res.Components = append(res.Components, Component{
			Kind:      kind,
			Members:   e.pick(comp.positions),
			positions: comp.positions,
		})

		winner := e.selectCanonical(comp.positions)
		kept := e.records[winner]
		for _, pos := range comp.positions {
			if pos == winner {
				continue
			}
			dropped[pos] = true
			res.Decisions = append(res.Decisions, MergeDecision{
				Kept:    kept,
				Dropped: e.records[pos],
				Reason:  decisionReason(e.records[pos], kept),
				Kind:    kind,
			})
		}
	}

	res.Records = make([]record.Record, 0, len(e.records)-len(dropped))
	for pos, rec := range e.records {
		if !dropped[pos] {
			res.Records = append(res.Records, rec)
		}
	}

	res.Summary.UniqueRecords = len(res.Records)
	res.Summary.DroppedRecords = len(res.Decisions)
	res.Summary.Components = len(res.Components)
	return res
}

// selectCanonical picks the component's canonical record: a left-to-right
// fold in input order where a candidate replaces the current winner unless it
// is strictly older. Ties (equal recency, or an unparseable recency on
// either side) fall to the candidate, which always sits later in the list.
// A fold rather than a sort: the unordered-pairs rule is non-transitive, so
// only the fold has a defined, deterministic outcome.
func (e *Engine) selectCanonical(positions []int) int {
	winner := positions[0]
	for _, cand := range positions[1:] {
		if record.CompareRecency(e.records[cand], e.records[winner]) >= 0 {
			winner = cand
		}
	}
	return winner
}

// decisionReason labels a decision: newer_date only when the dropped record
// is strictly older than the kept one, last_in_list for every tie the list
// position had to break.
func decisionReason(dropped, kept record.Record) Reason {
	if record.CompareRecency(dropped, kept) < 0 {
		return ReasonNewerDate
	}
	return ReasonLastInList
}

// pick materializes records at the given positions.
func (e *Engine) pick(positions []int) []record.Record {
	recs := make([]record.Record, len(positions))
	for i, pos := range positions {
		recs[i] = e.records[pos]
	}
	return recs
}
