package render

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
)

// Encoder assembles numbered PNG frames into a video with ffmpeg.
type Encoder struct {
	exec   *Executor
	logger *slog.Logger
}

// NewEncoder creates an Encoder running exec.
func NewEncoder(exec *Executor, logger *slog.Logger) *Encoder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Encoder{exec: exec, logger: logger}
}

// FramePattern is the ffmpeg input pattern of frames named with FrameName.
func FramePattern(dir string, digits int) string {
	return filepath.Join(dir, fmt.Sprintf("%%0%dd.png", digits))
}

// encodeArgs builds the ffmpeg command line. Input and output use the same
// rate so every frame is shown exactly once.
func encodeArgs(framesDir string, digits int, fps float64, out string) []string {
	rate := strconv.FormatFloat(fps, 'f', -1, 64)
	return []string{
		"-y",
		"-loglevel", "error",
		"-framerate", rate,
		"-i", FramePattern(framesDir, digits),
		"-r", rate,
		"-pix_fmt", "yuv420p",
		out,
	}
}

// Encode writes the frames in framesDir to the video file out.
func (e *Encoder) Encode(ctx context.Context, framesDir string, digits int, fps float64, out string) error {
	args := encodeArgs(framesDir, digits, fps, out)
	e.logger.Debug("encoding video", "program", e.exec.Path, "args", args)
	output, err := e.exec.Run(ctx, nil, args...)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", out, err)
	}
	if len(output) > 0 {
		e.logger.Debug("encoder output", "output", string(output))
	}
	return nil
}
