// Package main provides the CLI entry point for circlesgraph.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"circlesgraph/app/diagnostics"
	"circlesgraph/app/export"
	"circlesgraph/app/fileloader"
	"circlesgraph/app/metrics"
	"circlesgraph/app/pipeline"
	"circlesgraph/app/render"
	"circlesgraph/app/settings"
)

const version = "1.0.0"

var (
	configPath    string
	timeFormat    string
	timezone      string
	minTime       string
	maxTime       string
	minVal        string
	maxVal        string
	speed         float64
	duration      float64
	fps           float64
	columnCount   int
	legend        string
	gnuplotParams []string
	effectParams  []string
	colors        []string
	name          string
	renderer      string
	width         int
	height        int
	skipHeader    bool
	jsonPath      string
	sheet         string
	ignoreErrors  bool
	strict        bool
	verbose       int
	logFormat     string
	framesOnly    string
	keepFrames    bool
	archivePath   string
	planJSON      string
	exportXLSX    string
	metricsFile   string
	copyLastFrame bool
	printConfig   bool
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "circlesgraph [flags] input...",
		Short: "Animate time series as rising circles",
		Long: `circlesgraph reads "<timestamp> <value>" records from text, compressed, JSON,
XLSX, sqlite, http(s) and s3 sources, groups them into columns and renders
an animation in which every column's circle travels from the edge of the
graph to its value, one column after another.`,
		Version:       version,
		Args:          cobra.ArbitraryArgs,
		RunE:          run,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	flags := rootCmd.Flags()
	flags.StringVarP(&configPath, "config", "f", "", "YAML config file; command line flags take precedence")
	flags.StringVarP(&timeFormat, "time-format", "t", "", "Timestamp format using %Y %y %m %d %H %M %S")
	flags.StringVar(&timezone, "timezone", "", "Timezone of the timestamps: UTC, Local or an IANA name")
	flags.StringVarP(&minTime, "x-min", "x", "", `First timestamp to draw, in the time format, or "min"`)
	flags.StringVarP(&maxTime, "x-max", "X", "", `Last timestamp to draw, in the time format, or "max"`)
	flags.StringVarP(&minVal, "y-min", "y", "", `Bottom of the value axis: a number or "min"`)
	flags.StringVarP(&maxVal, "y-max", "Y", "", `Top of the value axis: a number or "max"`)
	flags.Float64VarP(&speed, "speed", "S", 0, "Animation ticks per rendered frame")
	flags.Float64VarP(&duration, "time", "T", 0, "Video duration in seconds")
	flags.Float64VarP(&fps, "fps", "F", 0, "Frames per second of the video")
	flags.IntVarP(&columnCount, "columns", "c", 0, "Columns per series (default: number of records, at most max_columns)")
	flags.StringVarP(&legend, "legend", "l", "", "Graph title")
	flags.StringArrayVarP(&gnuplotParams, "gnuplot", "g", nil, `Extra gnuplot command, "set ..." or "unset ..." (repeatable)`)
	flags.StringArrayVarP(&effectParams, "effect", "e", nil, "Effect params delay=N:columns=N:color=a,b:method=average|top:steps=N (repeatable)")
	flags.StringSliceVar(&colors, "colors", nil, "Series colors (gnuplot color names)")
	flags.StringVarP(&name, "name", "n", "", "Output directory and video name")
	flags.StringVar(&renderer, "renderer", "", "Frame renderer: gnuplot or chart")
	flags.IntVar(&width, "width", 0, "Frame width in pixels")
	flags.IntVar(&height, "height", 0, "Frame height in pixels")
	flags.BoolVar(&skipHeader, "skip-header", false, "Drop the first non-empty line of text and xlsx sources")
	flags.StringVar(&jsonPath, "json-path", "", `JSONPath selecting the records of JSON sources (default "$[*]")`)
	flags.StringVar(&sheet, "sheet", "", "Sheet of xlsx sources (default: first sheet)")
	flags.BoolVarP(&ignoreErrors, "ignore-errors", "E", false, "Report warnings and continue (default)")
	flags.BoolVar(&strict, "strict", false, "Treat every warning as a fatal error")
	flags.CountVarP(&verbose, "verbose", "v", "Increase verbosity (-v info, -vv debug)")
	flags.StringVar(&logFormat, "log-format", "text", "Log format: text or json")
	flags.StringVar(&framesOnly, "frames-only", "", "Write the frames into this directory and skip encoding")
	flags.BoolVar(&keepFrames, "keep-frames", false, "Keep the temporary frame directory")
	flags.StringVar(&archivePath, "archive", "", "Store validated series in this sqlite database")
	flags.StringVar(&planJSON, "plan-json", "", "Write the axis, frame plan and columns to this JSON file")
	flags.StringVar(&exportXLSX, "export-xlsx", "", "Write the columns of every series to this xlsx file")
	flags.StringVar(&metricsFile, "metrics-file", "", "Write run metrics in Prometheus text format to this file")
	flags.BoolVar(&copyLastFrame, "copy-last-frame", false, "Copy the last frame to the clipboard")
	flags.BoolVar(&printConfig, "print-config", false, "Print the effective settings as YAML and exit")
	rootCmd.MarkFlagsMutuallyExclusive("strict", "ignore-errors")
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
}

// applyFlags overlays the flags given on the command line onto s.
func applyFlags(cmd *cobra.Command, s settings.Settings) settings.Settings {
	changed := cmd.Flags().Changed
	if changed("time-format") {
		s.TimeFormat = timeFormat
	}
	if changed("timezone") {
		s.Timezone = timezone
	}
	if changed("x-min") {
		s.MinTime = minTime
	}
	if changed("x-max") {
		s.MaxTime = maxTime
	}
	if changed("y-min") {
		s.MinVal = minVal
	}
	if changed("y-max") {
		s.MaxVal = maxVal
	}
	if changed("speed") {
		s.Speed = speed
	}
	if changed("time") {
		s.Duration = duration
	}
	if changed("fps") {
		s.FPS = fps
	}
	if changed("columns") {
		s.Columns = columnCount
	}
	if changed("legend") {
		s.Legend = legend
	}
	if changed("gnuplot") {
		s.GnuplotParams = gnuplotParams
	}
	if changed("effect") {
		s.EffectParams = effectParams
	}
	if changed("colors") {
		s.Colors = colors
	}
	if changed("name") {
		s.Name = name
	}
	if changed("renderer") {
		s.Renderer = renderer
	}
	if changed("width") {
		s.Width = width
	}
	if changed("height") {
		s.Height = height
	}
	if changed("skip-header") {
		s.SkipHeader = skipHeader
	}
	if changed("json-path") {
		s.JSONPath = jsonPath
	}
	if changed("sheet") {
		s.Sheet = sheet
	}
	if changed("ignore-errors") {
		s.IgnoreErrors = ignoreErrors
	}
	if changed("strict") {
		s.IgnoreErrors = !strict
	}
	if verbose > s.Verbose {
		s.Verbose = verbose
	}
	return s
}

func newLogger(level int, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelWarn}
	switch {
	case level >= 2:
		opts.Level = slog.LevelDebug
	case level == 1:
		opts.Level = slog.LevelInfo
	}
	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func run(cmd *cobra.Command, args []string) error {
	s := settings.Defaults()
	var fileWarnings []error
	if configPath != "" {
		var err error
		s, fileWarnings, err = settings.LoadFile(configPath, s)
		if err != nil {
			return err
		}
	}
	s = applyFlags(cmd, s)

	if printConfig {
		data, err := settings.Marshal(s)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), string(data))
		return nil
	}
	if len(args) == 0 {
		return fmt.Errorf("no input given, see --help")
	}

	logger := newLogger(s.Verbose, logFormat)
	slog.SetDefault(logger)

	recorder := metrics.NewRecorder()
	reporter := diagnostics.NewReporter(logger, s.IgnoreErrors)
	reporter.OnWarn(recorder.ObserveWarning)
	if metricsFile != "" {
		defer func() {
			if err := recorder.WriteToTextfile(metricsFile); err != nil {
				logger.Error("failed to write metrics", "file", metricsFile, "error", err)
			}
		}()
	}

	if err := reporter.WarnAll(fileWarnings); err != nil {
		return err
	}
	cfg, err := settings.Resolve(s, reporter)
	if err != nil {
		return err
	}
	logger.Info("configuration", "config", cfg.String())

	// Missing programs fail the run before any input is read
	var required []string
	if cfg.Renderer == settings.RendererGnuplot {
		required = append(required, "gnuplot")
	}
	if framesOnly == "" {
		required = append(required, "ffmpeg")
	}
	if err := render.CheckExecutables(required...); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	loader := fileloader.NewLoader(fileloader.Options{
		SkipHeader: cfg.SkipHeader,
		JSONPath:   cfg.JSONPath,
		Sheet:      cfg.Sheet,
		Layout:     cfg.Layout,
	}, logger)
	p := pipeline.New(cfg, loader, reporter, logger).WithProgress(pipeline.LogProgressCallback(logger))
	if archivePath != "" {
		p = p.WithArchive(archivePath)
	}

	res, err := p.Run(ctx, args)
	if err != nil {
		return err
	}
	recorder.ObserveResult(res)

	if planJSON != "" {
		if err := export.WritePlanJSON(planJSON, res); err != nil {
			return err
		}
		logger.Info("plan written", "file", planJSON)
	}
	if exportXLSX != "" {
		if err := export.WriteColumnsXLSX(exportXLSX, res, cfg.Layout); err != nil {
			return err
		}
		logger.Info("columns exported", "file", exportXLSX)
	}

	out, err := renderVideo(ctx, cfg, res, logger, recorder)
	if err != nil {
		return err
	}
	stdout := cmd.OutOrStdout()
	if out.Video != "" {
		fmt.Fprintf(stdout, "Video generated: '%s'\n", out.Video)
		if keepFrames {
			fmt.Fprintf(stdout, "Frames kept in '%s'\n", out.FramesDir)
		}
	} else {
		fmt.Fprintf(stdout, "Frames generated: '%s' (%d)\n", out.FramesDir, out.Frames)
	}
	if n := reporter.Total(); n > 0 {
		logger.Warn("finished with warnings", "warnings", n)
	}
	return nil
}

func renderVideo(ctx context.Context, cfg settings.Config, res *pipeline.Result, logger *slog.Logger, recorder *metrics.Recorder) (render.Output, error) {
	scene := render.NewScene(res, cfg)

	var raster render.Rasterizer
	if cfg.Renderer == settings.RendererChart {
		raster = render.NewChartRasterizer(scene)
	} else {
		gnuplot, err := render.NewExecutor("gnuplot", logger)
		if err != nil {
			return render.Output{}, err
		}
		raster = render.NewGnuplotRasterizer(gnuplot, scene)
	}

	var encoder *render.Encoder
	if framesOnly == "" {
		ffmpeg, err := render.NewExecutor("ffmpeg", logger)
		if err != nil {
			return render.Output{}, err
		}
		encoder = render.NewEncoder(ffmpeg, logger)
	}

	const stage = "render"
	tracker := pipeline.NewProgressTracker(pipeline.LogProgressCallback(logger), 1)
	tracker.StartStage(stage, int64(res.Plan.RealFrameCount))
	r := render.NewRenderer(raster, encoder, logger).OnFrame(func(done, total int) {
		tracker.UpdateStage(stage, int64(done))
	})

	out, err := r.Run(ctx, render.Job{
		Result:        res,
		Name:          cfg.Name,
		FramesDir:     framesOnly,
		KeepFrames:    keepFrames,
		CopyLastFrame: copyLastFrame,
	})
	recorder.ObserveRendered(out.Frames)
	if err != nil {
		return out, err
	}
	tracker.CompleteStage(stage, int64(out.Frames))
	recorder.ObserveStage(stage, tracker.Stage(stage).Elapsed)
	return out, nil
}
