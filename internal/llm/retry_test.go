package llm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBackoff(t *testing.T) {
	base := 2 * time.Second

	assert.Equal(t, 2*time.Second, backoff(base, 1))
	assert.Equal(t, 4*time.Second, backoff(base, 2))
	assert.Equal(t, 8*time.Second, backoff(base, 3))
}

func TestBackoffCapped(t *testing.T) {
	base := 2 * time.Second

	assert.Equal(t, maxBackoff, backoff(base, 10))
	assert.Equal(t, maxBackoff, backoff(time.Minute, 1))
}
