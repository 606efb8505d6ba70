package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"record-resolver/core/changelog"
	"record-resolver/core/resolve"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Archive persists resolution runs to the audit database.
type Archive struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewArchive wraps a database handle. Call Migrate once before the first write.
func NewArchive(db *gorm.DB, logger *zap.Logger) *Archive {
	return &Archive{db: db, logger: logger}
}

// Migrate creates or updates the archive tables.
func (a *Archive) Migrate() error {
	if err := a.db.AutoMigrate(&Run{}, &Change{}); err != nil {
		return fmt.Errorf("failed to migrate archive tables: %w", err)
	}
	return nil
}

// SaveRun archives one run summary plus a row per merge decision.
func (a *Archive) SaveRun(ctx context.Context, runID string, sources []string, sum resolve.Summary, log *changelog.Log, elapsed time.Duration) error {
	sourcesJSON, err := json.Marshal(sources)
	if err != nil {
		return fmt.Errorf("failed to serialize sources: %w", err)
	}

	run := Run{
		RunID:          runID,
		Sources:        string(sourcesJSON),
		TotalRecords:   sum.TotalRecords,
		UniqueRecords:  sum.UniqueRecords,
		DroppedRecords: sum.DroppedRecords,
		IDConflicts:    log.Summary.IDConflicts,
		EmailConflicts: log.Summary.EmailConflicts,
		CrossConflicts: log.Summary.CrossConflicts,
		TotalChanges:   log.Summary.TotalChanges,
		DurationMS:     elapsed.Milliseconds(),
	}
	if err := a.db.WithContext(ctx).Create(&run).Error; err != nil {
		return fmt.Errorf("failed to archive run %s: %w", runID, err)
	}

	rows := make([]Change, 0, len(log.Entries))
	for _, entry := range log.Entries {
		changes, err := json.Marshal(entry.Changes)
		if err != nil {
			return fmt.Errorf("failed to serialize changes for run %s: %w", runID, err)
		}
		rows = append(rows, Change{
			RunID:           runID,
			KeptRecordID:    entry.KeptRecordID,
			DroppedRecordID: entry.DroppedRecordID,
			ConflictType:    string(entry.ConflictType),
			Reason:          string(entry.Reason),
			Changes:         string(changes),
		})
	}
	if len(rows) > 0 {
		if err := a.db.WithContext(ctx).CreateInBatches(rows, 100).Error; err != nil {
			return fmt.Errorf("failed to archive changes for run %s: %w", runID, err)
		}
	}

	a.logger.Debug("Archived run", zap.String("run_id", runID), zap.Int("changes", len(rows)))
	return nil
}

// RecentRuns returns the newest archived runs, most recent first.
func (a *Archive) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	var runs []Run
	err := a.db.WithContext(ctx).Order("created_at DESC, id DESC").Limit(limit).Find(&runs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list archived runs: %w", err)
	}
	return runs, nil
}

// ChangesForRun returns the archived decisions of one run in insertion order.
func (a *Archive) ChangesForRun(ctx context.Context, runID string) ([]Change, error) {
	var changes []Change
	err := a.db.WithContext(ctx).Where("run_id = ?", runID).Order("id ASC").Find(&changes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list changes for run %s: %w", runID, err)
	}
	return changes, nil
}
