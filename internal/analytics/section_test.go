package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunSectionSuccess(t *testing.T) {
	w := &Warnings{}

	out := RunSection(context.Background(), w, "counts", time.Second,
		func(ctx context.Context) (int, error) {
			return 42, nil
		})

	assert.Equal(t, 42, out)
	assert.Empty(t, w.List())
}

func TestRunSectionFailureDegradesToZero(t *testing.T) {
	w := &Warnings{}

	out := RunSection(context.Background(), w, "cohort_lookup", time.Second,
		func(ctx context.Context) ([]string, error) {
			return []string{"partial"}, errors.New("store unavailable")
		})

	assert.Nil(t, out, "a failed section must return the zero value, not partial data")

	warnings := w.List()
	require.Len(t, warnings, 1)
	assert.Equal(t, "cohort_lookup: store unavailable", warnings[0])
}

func TestRunSectionTimeout(t *testing.T) {
	w := &Warnings{}

	out := RunSection(context.Background(), w, "slow_scan", 10*time.Millisecond,
		func(ctx context.Context) (int, error) {
			select {
			case <-ctx.Done():
				return 0, ctx.Err()
			case <-time.After(time.Second):
				return 1, nil
			}
		})

	assert.Equal(t, 0, out)
	assert.Len(t, w.List(), 1, "a slow section must degrade instead of stalling the report")
}

func TestWarningsConcurrentAdd(t *testing.T) {
	w := &Warnings{}
	done := make(chan struct{})

	for i := 0; i < 10; i++ {
		go func() {
			w.Add("section", errors.New("boom"))
			done <- struct{}{}
		}()
	}
	for i := 0; i < 10; i++ {
		<-done
	}

	assert.Len(t, w.List(), 10)
}
