package diagnostics

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// Reporter is the warning channel shared by every stage. Each warning is
// logged; in strict mode the first one is also returned as a fatal error.
type Reporter struct {
	logger *slog.Logger
	strict bool
	onWarn func(kind string)

	mu     sync.Mutex
	counts map[string]int
}

// NewReporter creates a Reporter. With ignoreErrors false every warning aborts the run.
func NewReporter(logger *slog.Logger, ignoreErrors bool) *Reporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reporter{
		logger: logger,
		strict: !ignoreErrors,
		counts: make(map[string]int),
	}
}

// OnWarn registers a hook called with the kind of every reported warning.
func (r *Reporter) OnWarn(fn func(kind string)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onWarn = fn
}

// Strict reports whether warnings are fatal.
func (r *Reporter) Strict() bool {
	return r.strict
}

// Warn logs err and returns nil, or a fatal error wrapping err in strict mode.
func (r *Reporter) Warn(err error) error {
	if err == nil {
		return nil
	}
	kind := Kind(err)

	attrs := []any{"kind", kind}
	var recErr *RecordError
	var srcErr *SourceError
	switch {
	case errors.As(err, &recErr):
		attrs = append(attrs, "source", recErr.Source, "line", recErr.Line, "value", recErr.Value)
	case errors.As(err, &srcErr):
		attrs = append(attrs, "source", srcErr.Source)
	}
	r.logger.Warn(err.Error(), attrs...)

	r.mu.Lock()
	r.counts[kind]++
	hook := r.onWarn
	r.mu.Unlock()
	if hook != nil {
		hook(kind)
	}

	if r.strict {
		return fmt.Errorf("warning treated as error (run with --ignore-errors to continue): %w", err)
	}
	return nil
}

// WarnAll reports errs in order and stops at the first fatal one.
func (r *Reporter) WarnAll(errs []error) error {
	for _, err := range errs {
		if werr := r.Warn(err); werr != nil {
			return werr
		}
	}
	return nil
}

// Count returns how many warnings of the given kind were reported.
func (r *Reporter) Count(kind string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counts[kind]
}

// Total returns the number of reported warnings.
func (r *Reporter) Total() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.counts {
		n += c
	}
	return n
}
