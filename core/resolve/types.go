package resolve

import "record-resolver/core/record"

// Kind classifies which key space produced a conflict.
type Kind string

const (
	// KindID marks a conflict on the identifier key.
	KindID Kind = "id"
	// KindEmail marks a conflict on the email key.
	KindEmail Kind = "email"
	// KindCross marks a component whose underlying groups span both key
	// spaces, directly or transitively.
	KindCross Kind = "cross"
)

// Reason explains why a record was dropped in favor of the kept one.
type Reason string

const (
	// ReasonNewerDate means the kept record's recency is strictly newer
	// than the dropped record's.
	ReasonNewerDate Reason = "newer_date"
	// ReasonLastInList means recency could not distinguish the pair, so the
	// record appearing later in the input won.
	ReasonLastInList Reason = "last_in_list"
)

// ConflictGroup is a maximal set of records sharing one key value.
type ConflictGroup struct {
	// Kind is the key space of the shared value: KindID or KindEmail.
	Kind Kind `json:"kind"`

	// Key is the shared key value.
	Key string `json:"key"`

	// Members are the colliding records in input order. Always two or more.
	Members []record.Record `json:"members"`
}

// Component is a maximal set of records transitively linked through
// identifier and email conflict groups.
type Component struct {
	// Kind is KindID or KindEmail when all underlying groups share one key
	// space, KindCross otherwise.
	Kind Kind `json:"kind"`

	// Members are the component's records in input order.
	Members []record.Record `json:"members"`

	// positions are the members' input-list positions, ascending. They drive
	// the tie-break and stay internal.
	positions []int
}

// MergeDecision records that one record was kept and another dropped while
// resolving a component. Exactly one decision exists per dropped record, and
// exactly one canonical record per component.
type MergeDecision struct {
	// Kept is the component's canonical record.
	Kept record.Record `json:"kept"`

	// Dropped is the record discarded by this decision.
	Dropped record.Record `json:"dropped"`

	// Reason is ReasonNewerDate when the dropped record is strictly older
	// than the kept one, ReasonLastInList otherwise.
	Reason Reason `json:"reason"`

	// Kind is the component's conflict kind.
	Kind Kind `json:"kind"`
}

// Resolution is the outcome of resolving the engine's record set.
type Resolution struct {
	// Records are the surviving records in their original relative order.
	Records []record.Record `json:"records"`

	// Decisions are the merge decisions in deterministic order: components
	// by first appearance in the input, members by input position.
	Decisions []MergeDecision `json:"decisions"`

	// Components are the resolved conflict components, ordered by first
	// appearance in the input.
	Components []Component `json:"components"`

	// Summary carries aggregate counts for reporting.
	Summary Summary `json:"summary"`
}

// Summary provides aggregate statistics for a resolution.
type Summary struct {
	// TotalRecords is the size of the input set.
	TotalRecords int `json:"total_records"`

	// UniqueRecords is the number of survivors.
	UniqueRecords int `json:"unique_records"`

	// DroppedRecords is the number of merge decisions.
	DroppedRecords int `json:"dropped_records"`

	// IDGroups counts identifier conflict groups.
	IDGroups int `json:"id_groups"`

	// EmailGroups counts email conflict groups.
	EmailGroups int `json:"email_groups"`

	// Components counts resolved components.
	Components int `json:"components"`

	// CrossComponents counts components spanning both key spaces.
	CrossComponents int `json:"cross_components"`
}
