package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"record-resolver/core/config"
	"record-resolver/core/logger"
	"record-resolver/core/resolve"
	"record-resolver/core/source"
	"record-resolver/core/storage"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var checkJSON bool

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check [sources...]",
	Short: "Inspect datasets and preview conflicts without resolving",
	Long: `Inspect one or more datasets and preview the conflicts a dedupe run
would resolve. Nothing is written; use it to gauge a dataset before a run.

Reports per-source record counts, entryDate parse coverage, and the conflict
groups found on each key. With --json the full group detail lands in a
timestamped report file.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "Save detailed conflict groups as JSON")
	RootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	startTime := time.Now()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	var client storage.Client
	if needsStorage(args) {
		client, err = storage.NewClient(cfg.Storage)
		if err != nil {
			return fmt.Errorf("failed to connect to storage: %w", err)
		}
	}

	sources, err := source.Resolve(ctx, args, client)
	if err != nil {
		return err
	}
	docs, err := source.LoadAll(ctx, sources)
	if err != nil {
		return err
	}

	engine := resolve.NewEngine()
	undated := 0
	for i, doc := range docs {
		logg.Info("Loaded source",
			zap.String("source", sources[i].Name()),
			zap.String("container", doc.Container),
			zap.Int("records", len(doc.Records)),
		)
		for _, rec := range doc.Records {
			if _, ok := rec.EntryUnixNano(); !ok {
				undated++
			}
		}
		engine.AddRecords(doc.Records)
	}

	logg.Info("Detecting conflict groups...")
	groups := engine.DetectGroups()

	var idGroups, emailGroups, memberships int
	for _, g := range groups {
		switch g.Kind {
		case resolve.KindID:
			idGroups++
		case resolve.KindEmail:
			emailGroups++
		}
		memberships += len(g.Members)
	}

	// Show sample of groups (max 5 for logger)
	maxShow := 5
	if len(groups) < maxShow {
		maxShow = len(groups)
	}
	for i := 0; i < maxShow; i++ {
		g := groups[i]
		logg.Info("Sample conflict group",
			zap.String("kind", string(g.Kind)),
			zap.String("key", g.Key),
			zap.Int("members", len(g.Members)),
		)
	}
	if len(groups) > maxShow {
		logg.Info("Additional groups not shown", zap.Int("count", len(groups)-maxShow))
	}

	if checkJSON {
		// Save detailed group JSON with full member records
		filename := fmt.Sprintf("conflict_report_%d.json", time.Now().Unix())
		data, err := json.MarshalIndent(groups, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		if err := os.WriteFile(filename, data, 0644); err != nil {
			return fmt.Errorf("failed to save JSON file: %w", err)
		}
		logg.Info("Detailed JSON report saved", zap.String("file", filename), zap.Int("groups", len(groups)))
	}

	executionTime := time.Since(startTime)

	// Always display metrics
	fmt.Println("\n=== Conflict Preview Metrics ===")
	fmt.Printf("Total Records: %d\n", engine.Len())
	fmt.Printf("Undated Records: %d\n", undated)
	fmt.Printf("ID Groups: %d\n", idGroups)
	fmt.Printf("Email Groups: %d\n", emailGroups)
	fmt.Printf("Group Memberships: %d\n", memberships)
	fmt.Printf("Execution Time: %s\n", executionTime.String())

	logg.Info("Conflict preview completed",
		zap.Int("total", engine.Len()),
		zap.Int("undated", undated),
		zap.Int("id_groups", idGroups),
		zap.Int("email_groups", emailGroups),
		zap.Duration("execution_time", executionTime),
	)

	return nil
}
