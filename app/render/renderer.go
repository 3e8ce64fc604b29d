package render

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"circlesgraph/app/animation"
	"circlesgraph/app/pipeline"
)

// Rasterizer draws one frame into a PNG file.
type Rasterizer interface {
	Rasterize(ctx context.Context, f animation.Frame, out string) error
}

// Job describes one rendering run.
type Job struct {
	Result *pipeline.Result
	// Name is the output directory and video name
	Name string
	// FramesDir, when set, receives the frames and no video is encoded
	FramesDir string
	// KeepFrames leaves the temporary frame directory in place
	KeepFrames bool
	// CopyLastFrame puts the final frame on the clipboard
	CopyLastFrame bool
}

// Output lists what a rendering run produced.
type Output struct {
	FramesDir string
	LastFrame string
	Frames    int
	Video     string
}

// Renderer turns a pipeline result into frames and a video.
type Renderer struct {
	raster  Rasterizer
	encoder *Encoder
	logger  *slog.Logger
	onFrame func(done, total int)
}

// NewRenderer creates a Renderer. encoder may be nil when only frames are wanted.
func NewRenderer(raster Rasterizer, encoder *Encoder, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{raster: raster, encoder: encoder, logger: logger}
}

// OnFrame registers a callback run after every drawn frame.
func (r *Renderer) OnFrame(fn func(done, total int)) *Renderer {
	r.onFrame = fn
	return r
}

// RenderFrames draws every frame of res into dir, in order, named with FrameName.
func (r *Renderer) RenderFrames(ctx context.Context, res *pipeline.Result, dir string) (Output, error) {
	out := Output{FramesDir: dir}
	plan := res.Plan
	err := animation.Frames(ctx, res.Buckets, res.Axis, plan, func(f animation.Frame) error {
		path := filepath.Join(dir, FrameName(f.Number, plan.Digits))
		if err := r.raster.Rasterize(ctx, f, path); err != nil {
			return err
		}
		r.logger.Debug("frame drawn", "frame", f.Number, "tick", f.Tick, "file", path)
		out.Frames++
		out.LastFrame = path
		if r.onFrame != nil {
			r.onFrame(f.Number, plan.RealFrameCount)
		}
		return nil
	})
	return out, err
}

// Run draws the frames and, unless job.FramesDir is set, encodes them into
// <name>/<name>.mp4 in a fresh output directory.
func (r *Renderer) Run(ctx context.Context, job Job) (Output, error) {
	if job.FramesDir != "" {
		if err := os.MkdirAll(job.FramesDir, 0755); err != nil {
			return Output{}, fmt.Errorf("failed to create frame directory: %w", err)
		}
		out, err := r.RenderFrames(ctx, job.Result, job.FramesDir)
		if err == nil && job.CopyLastFrame {
			r.copyLastFrame(out)
		}
		return out, err
	}
	if r.encoder == nil {
		return Output{}, fmt.Errorf("no encoder configured")
	}

	dir, err := NewFrameDir("")
	if err != nil {
		return Output{}, err
	}
	if !job.KeepFrames {
		defer os.RemoveAll(dir)
	}

	out, err := r.RenderFrames(ctx, job.Result, dir)
	if err != nil {
		return out, err
	}
	if job.CopyLastFrame {
		r.copyLastFrame(out)
	}

	outDir, video, err := CreateOutputDir(job.Name)
	if err != nil {
		return out, err
	}
	if err := r.encoder.Encode(ctx, dir, job.Result.Plan.Digits, job.Result.Plan.FPS, video); err != nil {
		return out, err
	}
	out.Video = video
	if !job.KeepFrames {
		// The frames are gone once Run returns
		out.FramesDir = ""
		out.LastFrame = ""
	}
	r.logger.Info("video generated", "video", video, "directory", outDir, "frames", out.Frames)
	return out, nil
}

func (r *Renderer) copyLastFrame(out Output) {
	if out.LastFrame == "" {
		return
	}
	if err := CopyToClipboard(out.LastFrame); err != nil {
		r.logger.Warn("failed to copy the last frame to the clipboard", "error", err)
		return
	}
	r.logger.Info("last frame copied to clipboard", "file", out.LastFrame)
}
