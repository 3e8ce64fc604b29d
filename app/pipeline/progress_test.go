package pipeline

import (
	"strings"
	"testing"
	"time"
)

type progressCall struct {
	stage          string
	current, total int64
	message        string
}

func TestProgressTracker(t *testing.T) {
	var calls []progressCall
	tracker := NewProgressTracker(func(stage string, current, total int64, message string) {
		calls = append(calls, progressCall{stage, current, total, message})
	}, 2)

	tracker.StartStage("render", 25)
	for i := int64(1); i <= 25; i++ {
		tracker.UpdateStage("render", i)
	}
	tracker.CompleteStage("render", 25)
	tracker.UpdateStage("unknown", 1)

	// start, 10, 20, 25, completion
	if len(calls) != 5 {
		t.Fatalf("Expected 5 reports, got %d: %+v", len(calls), calls)
	}
	if calls[0].message != "Stage 1/2: render" {
		t.Errorf("Unexpected start message %q", calls[0].message)
	}
	if calls[1].message != "Stage 1/2: render 40% (10/25)" {
		t.Errorf("Unexpected update message %q", calls[1].message)
	}
	if !strings.HasPrefix(calls[4].message, "Stage 1/2: render completed (25 rows") {
		t.Errorf("Unexpected completion message %q", calls[4].message)
	}

	sp := tracker.Stage("render")
	if sp == nil || !sp.Done || sp.Current != 25 {
		t.Errorf("Unexpected stage progress %+v", sp)
	}
	if tracker.Stage("unknown") != nil {
		t.Error("Expected no progress for a stage that never started")
	}
}

func TestThrottledProgressCallback(t *testing.T) {
	var n int
	cb := ThrottledProgressCallback(func(stage string, current, total int64, message string) {
		n++
	}, time.Hour)

	cb("load", 1, 10, "")
	cb("load", 2, 10, "")
	cb("load", 10, 10, "")
	if n != 2 {
		t.Errorf("Expected the first and the final report, got %d", n)
	}
}
