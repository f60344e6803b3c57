package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiterAllowsUpToLimitPerWindow(t *testing.T) {
	rl := NewRateLimiter()
	now := time.Now()

	for i := 0; i < rateLimitMaxRequests; i++ {
		assert.True(t, rl.allow("10.0.0.1:1234", now), "request %d should be allowed", i+1)
	}
	assert.False(t, rl.allow("10.0.0.1:1234", now))

	// A different address has its own window.
	assert.True(t, rl.allow("10.0.0.2:1234", now))
}

func TestRateLimiterResetsAfterWindow(t *testing.T) {
	rl := NewRateLimiter()
	now := time.Now()

	for i := 0; i < rateLimitMaxRequests; i++ {
		rl.allow("10.0.0.1:1234", now)
	}
	assert.False(t, rl.allow("10.0.0.1:1234", now))

	assert.True(t, rl.allow("10.0.0.1:1234", now.Add(rateLimitWindow)))
}
