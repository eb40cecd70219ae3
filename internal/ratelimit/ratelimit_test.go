package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyedRateLimiterAllow(t *testing.T) {
	tests := []struct {
		name     string
		rps      float64
		burst    int
		calls    int
		wantPass int
	}{
		{"burst allows initial requests", 1, 3, 3, 3},
		{"exceeding burst blocks", 1, 2, 5, 2},
		{"single call within burst", 1, 1, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rl := New(tt.rps, tt.burst)

			passed := 0
			for i := 0; i < tt.calls; i++ {
				if rl.Allow("203.0.113.9") {
					passed++
				}
			}
			assert.Equal(t, tt.wantPass, passed)
		})
	}
}

func TestKeyedRateLimiterIndependentKeys(t *testing.T) {
	rl := New(1, 1)

	require.True(t, rl.Allow("203.0.113.1"))
	assert.False(t, rl.Allow("203.0.113.1"), "first key should be exhausted")
	assert.True(t, rl.Allow("203.0.113.2"), "second key should be unaffected")
}

func TestKeyedRateLimiterWaitContextCanceled(t *testing.T) {
	rl := New(0.1, 1) // one request per 10 seconds

	rl.Allow("203.0.113.9") // exhaust the burst

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := rl.Wait(ctx, "203.0.113.9")
	assert.Error(t, err)
}
