package dedupe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"record-resolver/core/changelog"
	"record-resolver/core/output"
	"record-resolver/core/record"
	"record-resolver/core/resolve"
	"record-resolver/core/source"
	"record-resolver/feature/dedupe/audit"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrTooManyRecords marks runs rejected by the configured record limit.
var ErrTooManyRecords = errors.New("record limit exceeded")

// ErrArchiveDisabled marks archive queries made without an audit database.
var ErrArchiveDisabled = errors.New("audit archive not configured")

// Options control a single resolution run.
type Options struct {
	// Pretty indents the rendered records.
	Pretty bool
	// DryRun resolves without writing anything.
	DryRun bool
}

// Result bundles everything one run produced.
type Result struct {
	RunID      string
	Document   *source.Document
	Resolution *resolve.Resolution
	Log        *changelog.Log
	Elapsed    time.Duration
}

// Service orchestrates dedupe runs: load, resolve, log, write, archive.
type Service struct {
	logger  *zap.Logger
	cfg     resolve.Config
	archive *audit.Archive
}

// NewService creates a new dedupe service. A nil archive disables run
// persistence.
func NewService(logger *zap.Logger, cfg resolve.Config, archive *audit.Archive) *Service {
	return &Service{
		logger:  logger,
		cfg:     cfg,
		archive: archive,
	}
}

// ResolveDocument resolves conflicts in one in-memory document. The sources
// slice only labels the run in the archive.
func (s *Service) ResolveDocument(ctx context.Context, doc *source.Document, sources []string) (*Result, error) {
	start := time.Now()

	if s.cfg.MaxRecords > 0 && len(doc.Records) > s.cfg.MaxRecords {
		return nil, fmt.Errorf("%w: input has %d records, limit is %d", ErrTooManyRecords, len(doc.Records), s.cfg.MaxRecords)
	}

	engine := resolve.NewEngine()
	s.ingest(engine, doc.Records)

	s.logger.Info("Resolving conflicts", zap.Int("records", engine.Len()))
	res := engine.Resolve()

	cl := changelog.NewLogger()
	cl.LogDecisions(res.Decisions)

	result := &Result{
		RunID:      uuid.NewString(),
		Document:   &source.Document{Records: res.Records, Container: doc.Container},
		Resolution: res,
		Log:        cl.Log(),
		Elapsed:    time.Since(start),
	}

	s.logger.Info("Resolution complete",
		zap.String("run_id", result.RunID),
		zap.Int("total", res.Summary.TotalRecords),
		zap.Int("unique", res.Summary.UniqueRecords),
		zap.Int("dropped", res.Summary.DroppedRecords),
		zap.Int("components", res.Summary.Components),
		zap.Duration("elapsed", result.Elapsed),
	)

	s.archiveRun(ctx, result, sources)

	return result, nil
}

// Run loads every source, resolves the merged dataset, and writes the
// surviving records plus the change log. A nil logDest skips the change log
// write.
func (s *Service) Run(ctx context.Context, sources []source.Source, dest, logDest output.Destination, opts Options) (*Result, error) {
	docs, err := source.LoadAll(ctx, sources)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(sources))
	for i, doc := range docs {
		names = append(names, sources[i].Name())
		s.logger.Info("Loaded source",
			zap.String("source", sources[i].Name()),
			zap.Int("records", len(doc.Records)),
		)
	}
	merged := source.Merge(docs)

	result, err := s.ResolveDocument(ctx, merged, names)
	if err != nil {
		return nil, err
	}

	if opts.DryRun {
		s.logger.Info("Dry run, skipping writes", zap.String("run_id", result.RunID))
		return result, nil
	}

	payload, err := output.Render(result.Document, opts.Pretty)
	if err != nil {
		return nil, fmt.Errorf("failed to render records: %w", err)
	}
	if err := dest.Write(ctx, payload); err != nil {
		return nil, err
	}
	s.logger.Info("Wrote records",
		zap.String("destination", dest.Name()),
		zap.Int("records", len(result.Document.Records)),
	)

	if logDest != nil {
		logData, err := json.MarshalIndent(result.Log, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to render change log: %w", err)
		}
		if err := logDest.Write(ctx, logData); err != nil {
			return nil, err
		}
		s.logger.Info("Wrote change log",
			zap.String("destination", logDest.Name()),
			zap.Int("entries", len(result.Log.Entries)),
		)
	}

	return result, nil
}

// RecentRuns lists archived runs, newest first.
func (s *Service) RecentRuns(ctx context.Context, limit int) ([]audit.Run, error) {
	if s.archive == nil {
		return nil, ErrArchiveDisabled
	}
	return s.archive.RecentRuns(ctx, limit)
}

// RunChanges lists the archived decisions of one run.
func (s *Service) RunChanges(ctx context.Context, runID string) ([]audit.Change, error) {
	if s.archive == nil {
		return nil, ErrArchiveDisabled
	}
	return s.archive.ChangesForRun(ctx, runID)
}

// ingest feeds records into the engine in chunks so long loads stay visible
// in the logs.
func (s *Service) ingest(engine *resolve.Engine, recs []record.Record) {
	every := s.cfg.ProgressEvery
	if every <= 0 || len(recs) <= every {
		engine.AddRecords(recs)
		return
	}
	for pos := 0; pos < len(recs); pos += every {
		end := pos + every
		if end > len(recs) {
			end = len(recs)
		}
		engine.AddRecords(recs[pos:end])
		s.logger.Info("Ingesting records", zap.Int("processed", end), zap.Int("total", len(recs)))
	}
}

// archiveRun persists the run when an archive is configured. Failures are
// logged, never fatal to the run itself.
func (s *Service) archiveRun(ctx context.Context, result *Result, sources []string) {
	if s.archive == nil {
		return
	}
	err := s.archive.SaveRun(ctx, result.RunID, sources, result.Resolution.Summary, result.Log, result.Elapsed)
	if err != nil {
		s.logger.Warn("Failed to archive run", zap.String("run_id", result.RunID), zap.Error(err))
	}
}
