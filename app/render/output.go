package render

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// FrameName is the file name of frame n, zero-padded to digits.
func FrameName(n, digits int) string {
	return fmt.Sprintf("%0*d.png", digits, n)
}

func exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// NextOutputDir returns name when no such file exists, otherwise the first
// free name_N with N counting from 1.
func NextOutputDir(name string) (string, error) {
	taken, err := exists(name)
	if err != nil {
		return "", err
	}
	if !taken {
		return name, nil
	}
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s_%d", name, i)
		taken, err := exists(candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
}

// CreateOutputDir creates the next free output directory for name and returns
// it with the path of the video inside it, <dir>/<base of dir>.mp4.
func CreateOutputDir(name string) (string, string, error) {
	dir, err := NextOutputDir(name)
	if err != nil {
		return "", "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", "", fmt.Errorf("failed to create output directory: %w", err)
	}
	return dir, filepath.Join(dir, filepath.Base(dir)+".mp4"), nil
}

// NewFrameDir creates a uniquely named working directory for frames under base,
// or under the system temporary directory when base is empty.
func NewFrameDir(base string) (string, error) {
	if base == "" {
		base = os.TempDir()
	}
	dir := filepath.Join(base, "circlesgraph-"+uuid.NewString())
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create frame directory: %w", err)
	}
	return dir, nil
}
