package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"record-resolver/core/config"
	"record-resolver/core/database"
	"record-resolver/core/logger"
	"record-resolver/core/output"
	"record-resolver/core/source"
	"record-resolver/core/storage"
	"record-resolver/feature/dedupe"
	"record-resolver/feature/dedupe/audit"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for dedupe command
	dedupeOut     string
	dedupeLog     string
	dedupePretty  bool
	dedupeDryRun  bool
	dedupeInPlace bool
	dedupeAuditDB bool
	dedupeYes     bool
)

// dedupeCmd resolves record conflicts across one or more datasets.
var dedupeCmd = &cobra.Command{
	Use:   "dedupe [sources...]",
	Short: "Resolve record conflicts across one or more datasets",
	Long: `Resolve _id and email conflicts across one or more datasets.

Sources are file paths, s3://bucket/key locations (a trailing slash expands
to every .json object under the prefix), or - for stdin. All sources merge
into one dataset before resolution. Conflicts resolve newest-first, with the
later record winning ties, and every dropped record lands in the change log.

Examples:
  # Resolve a file into resolved.json plus resolved.changelog.json
  dedupe leads.json --out resolved.json

  # Merge two datasets and print the result
  dedupe leads.json extra.json --out -

  # Rewrite a dataset in place (prompts unless --yes)
  dedupe leads.json --in-place --yes

  # Pull every dataset under a prefix, archive the run in the audit database
  dedupe s3://datasets/leads/ --out resolved.json --audit-db`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDedupe,
}

func init() {
	dedupeCmd.Flags().StringVar(&dedupeOut, "out", "-", "Destination for the resolved dataset (file path, s3://bucket/key, or - for stdout)")
	dedupeCmd.Flags().StringVar(&dedupeLog, "log", "", "Destination for the change log (defaults to <out>.changelog.json, empty skips it)")
	dedupeCmd.Flags().BoolVar(&dedupePretty, "pretty", false, "Indent the resolved dataset")
	dedupeCmd.Flags().BoolVar(&dedupeDryRun, "dry-run", false, "Resolve and report without writing anything")
	dedupeCmd.Flags().BoolVar(&dedupeInPlace, "in-place", false, "Rewrite the single source with the resolved dataset")
	dedupeCmd.Flags().BoolVar(&dedupeAuditDB, "audit-db", false, "Archive the run in the audit database")
	dedupeCmd.Flags().BoolVar(&dedupeYes, "yes", false, "Auto-confirm destructive actions (non-interactive)")

	RootCmd.AddCommand(dedupeCmd)
}

func runDedupe(cmd *cobra.Command, args []string) error {
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

	// Work out where the resolved dataset goes
	outLoc := dedupeOut
	if dedupeInPlace {
		if cmd.Flags().Changed("out") {
			return fmt.Errorf("cannot combine --out with --in-place")
		}
		if len(args) != 1 || args[0] == "-" {
			return fmt.Errorf("--in-place needs exactly one file or object source")
		}
		outLoc = args[0]
	}

	// The change log defaults to a sibling of the output, except for stdout
	logLoc := dedupeLog
	if !cmd.Flags().Changed("log") {
		if outLoc == "-" {
			logLoc = ""
		} else {
			logLoc = output.DefaultLogPath(outLoc)
		}
	}

	// Connect to storage only when an s3:// location is involved
	var client storage.Client
	if needsStorage(args, outLoc, logLoc) {
		client, err = storage.NewClient(cfg.Storage)
		if err != nil {
			return fmt.Errorf("failed to connect to storage: %w", err)
		}
	}

	// Connect to the audit database when requested
	var archive *audit.Archive
	if dedupeAuditDB {
		db, err := database.Connect(cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to connect to audit database: %w", err)
		}
		archive = audit.NewArchive(db, l)
		if err := archive.Migrate(); err != nil {
			return err
		}
	}

	// Resolve sources and destinations
	sources, err := source.Resolve(ctx, args, client)
	if err != nil {
		return err
	}
	dest, err := output.Resolve(outLoc, client)
	if err != nil {
		return err
	}
	var logDest output.Destination
	if logLoc != "" {
		logDest, err = output.Resolve(logLoc, client)
		if err != nil {
			return err
		}
	}

	// Overwriting the input needs a confirmation
	if dedupeInPlace && !dedupeDryRun {
		if !confirmOverwrite(outLoc) {
			l.Warn("Operation cancelled by user. No changes were made.")
			return nil
		}
	}

	svc := dedupe.NewService(l, cfg.Resolver, archive)
	result, err := svc.Run(ctx, sources, dest, logDest, dedupe.Options{
		Pretty: dedupePretty,
		DryRun: dedupeDryRun,
	})
	if err != nil {
		return err
	}

	printResolutionReport(l, result)
	return nil
}

// needsStorage reports whether any involved location lives in object storage.
func needsStorage(sources []string, locations ...string) bool {
	for _, loc := range append(append([]string{}, sources...), locations...) {
		if strings.HasPrefix(loc, "s3://") {
			return true
		}
	}
	return false
}

// printResolutionReport prints a formatted resolution report using logger.
func printResolutionReport(l *zap.Logger, result *dedupe.Result) {
	s := result.Resolution.Summary
	cl := result.Log.Summary

	l.Info("Resolution report",
		zap.String("run_id", result.RunID),
		zap.Int("total_records", s.TotalRecords),
		zap.Int("unique_records", s.UniqueRecords),
		zap.Int("dropped_records", s.DroppedRecords),
		zap.Int("id_conflicts", cl.IDConflicts),
		zap.Int("email_conflicts", cl.EmailConflicts),
		zap.Int("cross_conflicts", cl.CrossConflicts),
		zap.Int("field_changes", cl.TotalChanges),
	)

	if len(result.Log.Entries) == 0 {
		return
	}

	// Show sample of decisions (max 5 for logger)
	maxShow := 5
	if len(result.Log.Entries) < maxShow {
		maxShow = len(result.Log.Entries)
	}
	for i := 0; i < maxShow; i++ {
		entry := result.Log.Entries[i]
		l.Info("Sample decision",
			zap.String("kept", entry.KeptRecordID),
			zap.String("dropped", entry.DroppedRecordID),
			zap.String("type", string(entry.ConflictType)),
			zap.String("reason", string(entry.Reason)),
		)
	}
	if len(result.Log.Entries) > maxShow {
		l.Info("Additional decisions not shown", zap.Int("count", len(result.Log.Entries)-maxShow))
	}
}

// confirmOverwrite prompts the user before an in-place rewrite or uses --yes flag.
func confirmOverwrite(loc string) bool {
	if dedupeYes {
		fmt.Println("\n✓ Auto-confirmed via --yes flag")
		return true
	}

	fmt.Printf("\n⚠️  Type 'yes' to overwrite %s: ", loc)
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	return strings.TrimSpace(response) == "yes"
}
