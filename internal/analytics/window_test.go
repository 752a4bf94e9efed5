package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResolveWindow(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		raw      string
		def      int
		expected int
	}{
		{"valid 7", "7", 7, 7},
		{"valid 1", "1", 7, 1},
		{"valid 30 coerced from string", "30", 7, 30},
		{"valid 90", "90", 7, 90},
		{"float form of allowed value", "30.0", 7, 30},
		{"missing falls back to default", "", 7, 7},
		{"not on allow-list", "14", 7, 7},
		{"negative", "-7", 7, 7},
		{"NaN", "NaN", 7, 7},
		{"infinity", "Inf", 7, 7},
		{"garbage", "abc", 7, 7},
		{"non-integer float", "7.5", 7, 7},
		{"default other than 7", "", 30, 30},
		{"invalid default normalized", "", 14, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			win := ResolveWindow(tt.raw, tt.def, now)
			assert.Equal(t, tt.expected, win.Days)
			assert.Equal(t, now.AddDate(0, 0, -tt.expected), win.Cutoff)
			assert.Equal(t, win.Cutoff.Format(time.RFC3339), win.CutoffISO)
		})
	}
}
