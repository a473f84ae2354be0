package airdrive

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatSize(t *testing.T) {
	assert.Equal(t, "0.000 MB", formatSize(0))
	assert.Equal(t, "0.001 MB", formatSize(1000))
	assert.Equal(t, "1.500 MB", formatSize(1_500_000))
}

func TestFormatElapsed(t *testing.T) {
	assert.Equal(t, "0s", formatElapsed(0))
	assert.Equal(t, "0s", formatElapsed(400*time.Millisecond))
	assert.Equal(t, "2s", formatElapsed(1600*time.Millisecond))
	assert.Equal(t, "60s", formatElapsed(time.Minute))
}
