package repository

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkIDs(t *testing.T) {
	tests := []struct {
		name     string
		count    int
		size     int
		expected []int // chunk lengths
	}{
		{"empty", 0, 500, nil},
		{"under one chunk", 3, 500, []int{3}},
		{"exactly one chunk", 500, 500, []int{500}},
		{"one over", 501, 500, []int{500, 1}},
		{"several chunks", 1250, 500, []int{500, 500, 250}},
		{"zero size", 10, 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ids := make([]string, tt.count)
			for i := range ids {
				ids[i] = fmt.Sprintf("id%d", i)
			}

			chunks := chunkIDs(ids, tt.size)
			require.Len(t, chunks, len(tt.expected))
			for i, want := range tt.expected {
				assert.Len(t, chunks[i], want)
			}
		})
	}
}

func TestChunkIDsPreservesOrder(t *testing.T) {
	ids := []string{"a", "b", "c", "d", "e"}
	chunks := chunkIDs(ids, 2)

	require.Len(t, chunks, 3)
	assert.Equal(t, []string{"a", "b"}, chunks[0])
	assert.Equal(t, []string{"c", "d"}, chunks[1])
	assert.Equal(t, []string{"e"}, chunks[2])
}
