package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"record-resolver/core/changelog"
	"record-resolver/core/config"
	"record-resolver/core/database"
	"record-resolver/core/logger"
	"record-resolver/core/resolve"
	"record-resolver/feature/dedupe/audit"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for audit command
	auditType     string
	auditReason   string
	auditRecordID string
	auditJSON     bool
	auditLimit    int
)

// auditCmd inspects a change log produced by a dedupe run.
var auditCmd = &cobra.Command{
	Use:   "audit <changelog.json>",
	Short: "Inspect the change log of a dedupe run",
	Long: `Inspect the change log of a dedupe run.

Prints the summary and every merge decision, optionally narrowed to one
conflict type, one reason, or one record id.

Examples:
  # Full summary plus every decision
  audit resolved.changelog.json

  # Only cross-key conflicts
  audit resolved.changelog.json --type cross_conflict

  # Every decision touching one record, as raw JSON
  audit resolved.changelog.json --record-id jkj238238jdsnfsj23 --json`,
	Args: cobra.ExactArgs(1),
	RunE: runAudit,
}

// auditRunsCmd lists runs archived in the audit database.
var auditRunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List runs archived in the audit database",
	Long: `List runs archived in the audit database, newest first.

Runs land in the archive when dedupe executes with --audit-db or when the
server handles requests with a database configured.`,
	RunE: runAuditRuns,
}

func init() {
	auditCmd.Flags().StringVar(&auditType, "type", "", "Only decisions with this conflict type (id_conflict, email_conflict, cross_conflict)")
	auditCmd.Flags().StringVar(&auditReason, "reason", "", "Only decisions with this reason (newer_date, last_in_list)")
	auditCmd.Flags().StringVar(&auditRecordID, "record-id", "", "Only decisions in which this record id appears on either side")
	auditCmd.Flags().BoolVar(&auditJSON, "json", false, "Print the matching decisions as raw JSON")
	auditCmd.MarkFlagsMutuallyExclusive("type", "reason", "record-id")

	auditRunsCmd.Flags().IntVar(&auditLimit, "limit", 20, "Maximum runs to list")
	auditCmd.AddCommand(auditRunsCmd)

	RootCmd.AddCommand(auditCmd)
}

func runAudit(cmd *cobra.Command, args []string) error {
	// Load configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read change log: %w", err)
	}
	var log changelog.Log
	if err := json.Unmarshal(data, &log); err != nil {
		return fmt.Errorf("failed to parse change log %s: %w", args[0], err)
	}

	lgr := changelog.FromLog(&log)
	var entries []changelog.Entry
	switch {
	case auditRecordID != "":
		entries = lgr.ByRecordID(auditRecordID)
	case auditType != "":
		entries = lgr.ByConflictType(changelog.ConflictType(auditType))
	case auditReason != "":
		entries = lgr.ByReason(resolve.Reason(auditReason))
	default:
		entries = lgr.Entries()
	}

	if auditJSON {
		if entries == nil {
			entries = []changelog.Entry{}
		}
		out, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to render decisions: %w", err)
		}
		fmt.Println(string(out))
		return nil
	}

	l.Info("Change log summary",
		zap.String("generated", log.Summary.Timestamp),
		zap.Int("total_conflicts", log.Summary.TotalConflicts),
		zap.Int("id_conflicts", log.Summary.IDConflicts),
		zap.Int("email_conflicts", log.Summary.EmailConflicts),
		zap.Int("cross_conflicts", log.Summary.CrossConflicts),
		zap.Int("field_changes", log.Summary.TotalChanges),
		zap.Int("matching", len(entries)),
	)

	for _, entry := range entries {
		l.Info("Decision",
			zap.String("kept", entry.KeptRecordID),
			zap.String("dropped", entry.DroppedRecordID),
			zap.String("type", string(entry.ConflictType)),
			zap.String("reason", string(entry.Reason)),
			zap.String("kept_email", entry.Metadata.KeptRecordEmail),
			zap.String("dropped_email", entry.Metadata.DroppedRecordEmail),
		)
	}

	return nil
}

func runAuditRuns(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	// Connect to the audit database
	db, err := database.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to audit database: %w", err)
	}

	archive := audit.NewArchive(db, l)
	runs, err := archive.RecentRuns(ctx, auditLimit)
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		l.Info("No archived runs found")
		return nil
	}

	for _, run := range runs {
		l.Info("Archived run",
			zap.String("run_id", run.RunID),
			zap.String("sources", run.Sources),
			zap.Int("total_records", run.TotalRecords),
			zap.Int("unique_records", run.UniqueRecords),
			zap.Int("dropped_records", run.DroppedRecords),
			zap.Int("field_changes", run.TotalChanges),
			zap.Int64("duration_ms", run.DurationMS),
			zap.Time("created_at", run.CreatedAt),
		)
	}

	return nil
}
