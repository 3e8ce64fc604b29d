package pipeline

import (
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// ProgressCallback receives stage progress.
type ProgressCallback func(stage string, current, total int64, message string)

// ProgressUpdateInterval is the number of items between two UpdateStage reports.
const ProgressUpdateInterval = 10

// ProgressTracker manages progress reporting across the stages of a run
type ProgressTracker struct {
	callback     ProgressCallback
	stages       map[string]*StageProgress
	totalStages  int
	currentStage int
	startTime    time.Time
	mutex        sync.RWMutex
}

// StageProgress tracks progress for a single stage
type StageProgress struct {
	Name      string
	Current   int64
	Total     int64
	StartTime time.Time
	Elapsed   time.Duration
	Done      bool
}

// NewProgressTracker creates a new progress tracker
func NewProgressTracker(callback ProgressCallback, totalStages int) *ProgressTracker {
	if callback == nil {
		callback = NoOpProgressCallback
	}
	return &ProgressTracker{
		callback:    callback,
		stages:      make(map[string]*StageProgress),
		totalStages: totalStages,
		startTime:   time.Now(),
	}
}

// StartStage begins tracking a stage expected to handle total items.
func (p *ProgressTracker) StartStage(name string, total int64) {
	p.mutex.Lock()
	p.currentStage++
	p.stages[name] = &StageProgress{
		Name:      name,
		Total:     total,
		StartTime: time.Now(),
	}
	msg := fmt.Sprintf("Stage %d/%d: %s", p.currentStage, p.totalStages, name)
	p.mutex.Unlock()

	p.callback(name, 0, total, msg)
}

// UpdateStage records progress. Reports are sent every ProgressUpdateInterval
// items and on the last one.
func (p *ProgressTracker) UpdateStage(name string, current int64) {
	p.mutex.Lock()
	stage, exists := p.stages[name]
	if !exists {
		p.mutex.Unlock()
		return
	}
	stage.Current = current
	report := current%ProgressUpdateInterval == 0 || current == stage.Total
	var msg string
	if report {
		percent := 0.0
		if stage.Total > 0 {
			percent = float64(current) * 100 / float64(stage.Total)
		}
		msg = fmt.Sprintf("Stage %d/%d: %s %.0f%% (%d/%d)", p.currentStage, p.totalStages, name, percent, current, stage.Total)
	}
	total := stage.Total
	p.mutex.Unlock()

	if report {
		p.callback(name, current, total, msg)
	}
}

// CompleteStage marks a stage as completed
func (p *ProgressTracker) CompleteStage(name string, finalCount int64) {
	p.mutex.Lock()
	stage, exists := p.stages[name]
	if !exists {
		p.mutex.Unlock()
		return
	}
	stage.Current = finalCount
	stage.Total = finalCount
	stage.Elapsed = time.Since(stage.StartTime)
	stage.Done = true

	rate := 0.0
	if secs := stage.Elapsed.Seconds(); secs > 0 {
		rate = float64(finalCount) / secs
	}
	msg := fmt.Sprintf("Stage %d/%d: %s completed (%d rows, %.0f rows/sec, %v)",
		p.currentStage, p.totalStages, name, finalCount, rate, stage.Elapsed.Truncate(time.Millisecond))
	p.mutex.Unlock()

	p.callback(name, finalCount, finalCount, msg)
}

// Stage returns a copy of the progress of a stage, or nil if it never started.
func (p *ProgressTracker) Stage(name string) *StageProgress {
	p.mutex.RLock()
	defer p.mutex.RUnlock()

	stage, exists := p.stages[name]
	if !exists {
		return nil
	}
	cp := *stage
	return &cp
}

// Elapsed returns the time since the tracker was created.
func (p *ProgressTracker) Elapsed() time.Duration {
	return time.Since(p.startTime)
}

// NoOpProgressCallback is a progress callback that does nothing
func NoOpProgressCallback(stage string, current, total int64, message string) {}

// LogProgressCallback reports progress at Info level.
func LogProgressCallback(logger *slog.Logger) ProgressCallback {
	return func(stage string, current, total int64, message string) {
		logger.Info(message, "stage", stage, "current", current, "total", total)
	}
}

// ThrottledProgressCallback wraps another callback with throttling. Completion
// reports (current == total) always pass.
func ThrottledProgressCallback(callback ProgressCallback, minInterval time.Duration) ProgressCallback {
	var lastCall time.Time
	var mutex sync.Mutex

	return func(stage string, current, total int64, message string) {
		mutex.Lock()
		now := time.Now()
		pass := current == total || now.Sub(lastCall) >= minInterval
		if pass {
			lastCall = now
		}
		mutex.Unlock()

		if pass && callback != nil {
			callback(stage, current, total, message)
		}
	}
}
