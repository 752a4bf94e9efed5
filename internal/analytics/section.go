// internal/analytics/section.go
package analytics

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Warnings collects the names of secondary sections that failed. It is
// safe for concurrent use; independent sections may run in parallel.
type Warnings struct {
	mu   sync.Mutex
	list []string
}

func (w *Warnings) Add(name string, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.list = append(w.list, fmt.Sprintf("%s: %v", name, err))
}

func (w *Warnings) List() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.list...)
}

// RunSection runs one named secondary computation with its own timeout.
// A failure never propagates: it is logged, recorded as a warning, and the
// zero value is returned so the corresponding report section degrades to
// empty instead of aborting the whole report. Only the primary event scan
// bypasses this wrapper.
func RunSection[T any](ctx context.Context, w *Warnings, name string, timeout time.Duration, fn func(context.Context) (T, error)) T {
	var zero T

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	out, err := fn(ctx)
	if err != nil {
		zap.L().Warn("analytics section degraded",
			zap.String("section", name),
			zap.Error(err))
		w.Add(name, err)
		return zero
	}
	return out
}
