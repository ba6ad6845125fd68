// Package pipeline orchestrates a merge run end to end: catalog, plan, the
// parallel merge stages, and final assembly. The catalog and plan steps are
// fatal gates; the merge stages degrade per line and report warnings instead.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/sourcegraph/conc/pool"

	"polyvox/internal/assembler"
	"polyvox/internal/assignment"
	"polyvox/internal/catalog"
	"polyvox/internal/config"
	"polyvox/internal/identity"
	"polyvox/internal/lipsync"
	"polyvox/internal/logging"
	"polyvox/internal/output"
	"polyvox/internal/report"
	"polyvox/internal/runstore"
	"polyvox/internal/services"
	"polyvox/internal/subtitle"
	"polyvox/internal/timing"
	"polyvox/internal/voiceover"
)

// lockFileName guards the output pack against concurrent runs.
const lockFileName = ".polyvox.lock"

// Options adjust a run beyond what configuration carries.
type Options struct {
	// StripEffect rebuilds the subtitle track without translation markup.
	StripEffect bool
}

// Run executes the full merge pipeline and returns the consolidated report.
// The report is non-nil even when the run aborts.
func Run(ctx context.Context, cfg *config.Config, opts Options, logger *slog.Logger) (*report.Report, error) {
	runID := uuid.NewString()[:8]
	ctx = services.WithRunID(ctx, runID)
	log := logging.WithContext(ctx, logging.NewComponentLogger(logger, "pipeline"))

	rep := &report.Report{RunID: runID, StartedAt: time.Now().UTC()}
	finish := func(err error) (*report.Report, error) {
		rep.FinishedAt = time.Now().UTC()
		if err != nil {
			rep.Error = err.Error()
		}
		rep.Resolve()
		recordHistory(ctx, cfg, rep, log)
		return rep, err
	}

	if err := cfg.EnsureDirectories(); err != nil {
		return finish(services.Wrap(services.ErrConfiguration, "pipeline", "prepare directories", "", err))
	}

	lock := flock.New(filepath.Join(cfg.Paths.OutputDir, lockFileName))
	locked, err := lock.TryLock()
	if err != nil {
		return finish(services.Wrap(services.ErrPrecondition, "pipeline", "acquire lock", "", err))
	}
	if !locked {
		return finish(services.Wrap(services.ErrPrecondition, "pipeline", "acquire lock",
			"another merge is already running against this output", nil))
	}
	defer func() { _ = lock.Unlock() }()

	log.Info("run started", logging.String("packs_dir", cfg.Paths.PacksDir))

	cat, plan, planWarnings, err := resolve(ctx, cfg, logger, log)
	if err != nil {
		return finish(err)
	}

	warnings := &report.Collector{}
	warnings.Add(planWarnings...)

	build := output.New(filepath.Join(cfg.Paths.StagingDir, runID))
	if err := os.MkdirAll(build.StagingDir, 0o755); err != nil {
		return finish(services.Wrap(services.ErrAssembly, "pipeline", "create staging", "", err))
	}

	if err := runStages(ctx, cat, plan, cfg, opts, build, warnings, logger); err != nil {
		_ = os.RemoveAll(build.StagingDir)
		return finish(err)
	}

	if err := assembler.Assemble(ctx, build, cfg.Paths.OutputDir, logger); err != nil {
		_ = os.RemoveAll(build.StagingDir)
		return finish(err)
	}

	rep.Lines = len(build.Audio)
	rep.Warnings = warnings.Warnings()
	rep.FinishedAt = time.Now().UTC()
	rep.Resolve()

	if err := rep.WriteFile(filepath.Join(cfg.Paths.OutputDir, "report.json")); err != nil {
		return finish(services.Wrap(services.ErrAssembly, "pipeline", "write report", "", err))
	}

	recordHistory(ctx, cfg, rep, log)
	log.Info("run finished",
		logging.String("status", string(rep.Status)),
		logging.Int("lines", rep.Lines),
		logging.Int("warnings", len(rep.Warnings)),
	)
	return rep, nil
}

// Plan resolves the catalog and merge plan without mutating anything. The CLI
// uses it for dry inspection.
func Plan(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*catalog.Catalog, *assignment.Plan, []report.Warning, error) {
	log := logging.NewComponentLogger(logger, "pipeline")
	return resolve(ctx, cfg, logger, log)
}

func resolve(ctx context.Context, cfg *config.Config, logger, log *slog.Logger) (*catalog.Catalog, *assignment.Plan, []report.Warning, error) {
	cat, err := catalog.Load(cfg.Paths.PacksDir, logger)
	if err != nil {
		return nil, nil, nil, services.Wrap(services.ErrPrecondition, "catalog", "load", "", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, nil, err
	}

	for _, warning := range cat.CrossCheck() {
		log.Warn("catalog gap",
			logging.String(logging.FieldLineKey, warning.Key),
			logging.String("reason", warning.Reason),
			logging.String("detail", warning.Detail),
		)
	}

	plan, warnings, err := assignment.Resolve(cat, cfg, logger)
	if err != nil {
		return nil, nil, nil, err
	}
	return cat, plan, warnings, nil
}

// runStages fans the merge stages out; every stage owns a disjoint section of
// the build. The first fatal stage error cancels the rest.
func runStages(ctx context.Context, cat *catalog.Catalog, plan *assignment.Plan, cfg *config.Config, opts Options, build *output.Build, warnings *report.Collector, logger *slog.Logger) error {
	p := pool.New().WithContext(ctx).WithCancelOnError().WithFirstError()

	p.Go(func(ctx context.Context) error {
		return voiceover.Merge(services.WithStage(ctx, "voiceover"), cat, plan, build, warnings, logger)
	})
	p.Go(func(ctx context.Context) error {
		return lipsync.Generate(services.WithStage(ctx, "lipsync"), cat, plan, build, warnings, logger)
	})
	p.Go(func(ctx context.Context) error {
		return identity.Correct(services.WithStage(ctx, "identity"), cat, plan, cfg, build, warnings, logger)
	})
	p.Go(func(ctx context.Context) error {
		return timing.Adjust(services.WithStage(ctx, "timing"), cat, plan, cfg, build, warnings, logger)
	})
	p.Go(func(ctx context.Context) error {
		return subtitle.Edit(services.WithStage(ctx, "subtitle"), cat, plan, cfg,
			subtitle.Options{StripEffect: opts.StripEffect}, build, warnings, logger)
	})

	return p.Wait()
}

func recordHistory(ctx context.Context, cfg *config.Config, rep *report.Report, log *slog.Logger) {
	if !cfg.History.Enabled {
		return
	}
	store, err := runstore.Open(cfg.HistoryPath())
	if err != nil {
		log.Warn("history store unavailable", logging.Error(err))
		return
	}
	defer store.Close()
	if err := store.Record(ctx, rep); err != nil {
		log.Warn("history record failed", logging.Error(err))
	}
}

// Describe renders one line per planned assignment for dry inspection.
func Describe(plan *assignment.Plan) []string {
	keys := plan.Keys()
	lines := make([]string, 0, len(keys))
	for _, key := range keys {
		assigned := plan.Audio[key]
		suffix := ""
		if assigned.Fallback {
			suffix = " (fallback)"
		}
		lines = append(lines, fmt.Sprintf("%s  audio=%s/%s  subtitle=%s%s",
			key, assigned.Language, assigned.Variant, plan.Subtitle[key], suffix))
	}
	return lines
}
