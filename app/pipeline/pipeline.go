package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"circlesgraph/app/animation"
	"circlesgraph/app/columns"
	"circlesgraph/app/diagnostics"
	"circlesgraph/app/fileloader"
	"circlesgraph/app/series"
	"circlesgraph/app/settings"
	"circlesgraph/app/store"
)

// Stage names, in execution order.
const (
	StageLoad     = "load"
	StageValidate = "validate"
	StageArchive  = "archive"
	StageMerge    = "merge"
	StageBucket   = "bucket"
	StageAxis     = "axis"
	StagePlan     = "plan"
)

// Result is everything a renderer or exporter needs from a run.
type Result struct {
	Sources     []*fileloader.Source
	Validated   []*series.Series
	Merge       *series.MergeResult
	ColumnCount int
	Buckets     []*columns.Bucketed
	Axis        animation.Axis
	Plan        animation.Plan
	Stats       series.Stats
	Colors      []string
	// Durations holds the wall time of every completed stage
	Durations   map[string]time.Duration
}

// Pipeline runs the stages from raw inputs to a frame plan.
type Pipeline struct {
	cfg         settings.Config
	loader      *fileloader.Loader
	reporter    *diagnostics.Reporter
	logger      *slog.Logger
	progress    ProgressCallback
	archivePath string
}

// New creates a Pipeline for cfg.
func New(cfg settings.Config, loader *fileloader.Loader, reporter *diagnostics.Reporter, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		cfg:      cfg,
		loader:   loader,
		reporter: reporter,
		logger:   logger,
		progress: NoOpProgressCallback,
	}
}

// WithProgress sets the progress callback.
func (p *Pipeline) WithProgress(cb ProgressCallback) *Pipeline {
	if cb != nil {
		p.progress = cb
	}
	return p
}

// WithArchive stores every validated series in the sqlite archive at path.
func (p *Pipeline) WithArchive(path string) *Pipeline {
	p.archivePath = path
	return p
}

func checkCancel(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}

// Run expands args into sources and executes every stage in order. Warnings go
// through the reporter; in strict mode the first one ends the run.
func (p *Pipeline) Run(ctx context.Context, args []string) (*Result, error) {
	stages := 6
	if p.archivePath != "" {
		stages++
	}
	tracker := NewProgressTracker(p.progress, stages)
	res := &Result{}

	// Load
	refs, warnings := fileloader.ExpandInputs(args)
	if err := p.reporter.WarnAll(warnings); err != nil {
		return nil, err
	}
	if len(refs) == 0 {
		return nil, fmt.Errorf("%w: no input sources given", diagnostics.ErrNoUsableInput)
	}
	tracker.StartStage(StageLoad, int64(len(refs)))
	sources, err := p.loader.LoadAll(ctx, refs, p.reporter)
	if err != nil {
		return nil, fmt.Errorf("stage %s failed: %w", StageLoad, err)
	}
	res.Sources = sources
	tracker.CompleteStage(StageLoad, int64(len(sources)))

	// Validate
	if err := checkCancel(ctx); err != nil {
		return nil, err
	}
	inputs := make([]series.Input, 0, len(sources))
	var lines int64
	for _, src := range sources {
		inputs = append(inputs, series.Input{Name: src.ID, Lines: src.Lines})
		lines += int64(len(src.Lines))
	}
	tracker.StartStage(StageValidate, lines)
	validator := series.NewValidator(p.cfg.Layout, p.cfg.Window, p.reporter, p.logger)
	validated, err := validator.ValidateAll(ctx, inputs)
	res.Stats = validator.Stats()
	if err != nil {
		return nil, err
	}
	res.Validated = validated
	tracker.CompleteStage(StageValidate, int64(res.Stats.Accepted))

	// Archive
	if p.archivePath != "" {
		tracker.StartStage(StageArchive, int64(len(validated)))
		if err := p.archive(ctx, validated); err != nil {
			return nil, fmt.Errorf("stage %s failed: %w", StageArchive, err)
		}
		tracker.CompleteStage(StageArchive, int64(len(validated)))
	}

	// Merge
	tracker.StartStage(StageMerge, int64(len(validated)))
	res.Merge = series.Merge(validated)
	if res.Merge.Mode == series.Parallel {
		p.logger.Info("sources overlap, drawing one curve per source", "sources", len(res.Merge.Series))
	} else {
		p.logger.Info("drawing one curve for all sources", "sources", len(validated))
	}
	tracker.CompleteStage(StageMerge, int64(len(res.Merge.Series)))

	// Bucket
	res.ColumnCount = columns.ChooseColumnCount(res.Merge.TotalRecords(), p.cfg.Columns, p.cfg.MaxColumns)
	tracker.StartStage(StageBucket, int64(res.Merge.TotalRecords()))
	var emitted int64
	for _, s := range res.Merge.Series {
		b, err := columns.Build(ctx, s, res.ColumnCount, p.cfg.Method)
		if err != nil {
			return nil, fmt.Errorf("stage %s failed: %w", StageBucket, err)
		}
		if err := b.ApplyBounds(p.cfg.MinVal, p.cfg.MaxVal, p.reporter); err != nil {
			return nil, err
		}
		p.logger.Debug("bucketed series", "series", b.Series, "columns", len(b.Columns), "distance", b.Distance)
		res.Buckets = append(res.Buckets, b)
		emitted += int64(len(b.Columns))
	}
	tracker.CompleteStage(StageBucket, emitted)

	// Axis
	tracker.StartStage(StageAxis, int64(len(res.Buckets)))
	res.Axis = animation.ComputeAxis(res.Buckets, p.cfg.MinVal, p.cfg.MaxVal, p.cfg.Steps)
	p.logger.Info("value axis", "min", res.Axis.Min, "max", res.Axis.Max, "jump", res.Axis.Jump)
	tracker.CompleteStage(StageAxis, int64(len(res.Buckets)))

	// Plan
	tracker.StartStage(StagePlan, emitted)
	frames := animation.FrameCount(res.Buckets, res.Axis, p.cfg.Delay)
	res.Plan, err = animation.Reconcile(frames, p.cfg.Timing, p.cfg.Delay, p.reporter)
	if err != nil {
		return nil, err
	}
	res.Colors = settings.PickColors(p.cfg.Colors, len(res.Buckets))
	p.logger.Info("frame plan", "frames", res.Plan.FrameCount, "rendered", res.Plan.RealFrameCount,
		"speed", res.Plan.Speed, "fps", res.Plan.FPS, "time", res.Plan.Duration)
	tracker.CompleteStage(StagePlan, int64(res.Plan.RealFrameCount))

	res.Durations = make(map[string]time.Duration)
	for _, name := range []string{StageLoad, StageValidate, StageArchive, StageMerge, StageBucket, StageAxis, StagePlan} {
		if sp := tracker.Stage(name); sp != nil && sp.Done {
			res.Durations[name] = sp.Elapsed
		}
	}
	return res, nil
}

func (p *Pipeline) archive(ctx context.Context, validated []*series.Series) error {
	a, err := store.Open(p.archivePath)
	if err != nil {
		return err
	}
	defer a.Close()

	for _, s := range validated {
		if err := a.Save(ctx, s); err != nil {
			return fmt.Errorf("failed to archive %s: %w", s.Name, err)
		}
		p.logger.Info("archived series", "series", s.Name, "records", s.Len(), "archive", p.archivePath)
	}
	return nil
}
