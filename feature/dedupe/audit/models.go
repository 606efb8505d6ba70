package audit

import "time"

// Run is the archived summary of one resolution run.
type Run struct {
	ID             uint      `gorm:"primaryKey;column:id" json:"-"`
	RunID          string    `gorm:"column:run_id;type:varchar(36);uniqueIndex" json:"run_id"`
	Sources        string    `gorm:"column:sources;type:text" json:"sources"`
	TotalRecords   int       `gorm:"column:total_records" json:"total_records"`
	UniqueRecords  int       `gorm:"column:unique_records" json:"unique_records"`
	DroppedRecords int       `gorm:"column:dropped_records" json:"dropped_records"`
	IDConflicts    int       `gorm:"column:id_conflicts" json:"id_conflicts"`
	EmailConflicts int       `gorm:"column:email_conflicts" json:"email_conflicts"`
	CrossConflicts int       `gorm:"column:cross_conflicts" json:"cross_conflicts"`
	TotalChanges   int       `gorm:"column:total_changes" json:"total_changes"`
	DurationMS     int64     `gorm:"column:duration_ms" json:"duration_ms"`
	CreatedAt      time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Run) TableName() string {
	return "resolver_runs"
}

// Change is one archived merge decision, one row per dropped record.
type Change struct {
	ID              uint      `gorm:"primaryKey;column:id" json:"-"`
	RunID           string    `gorm:"column:run_id;type:varchar(36);index" json:"run_id"`
	KeptRecordID    string    `gorm:"column:kept_record_id;type:varchar(255)" json:"kept_record_id"`
	DroppedRecordID string    `gorm:"column:dropped_record_id;type:varchar(255)" json:"dropped_record_id"`
	ConflictType    string    `gorm:"column:conflict_type;type:varchar(32)" json:"conflict_type"`
	Reason          string    `gorm:"column:reason;type:varchar(32)" json:"reason"`
	Changes         string    `gorm:"column:changes;type:text" json:"changes"`
	CreatedAt       time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Change) TableName() string {
	return "resolver_changes"
}
