package airdrive

import (
	"fmt"
	"math"
	"time"
)

// formatSize renders n bytes as decimal megabytes with 3 decimals
func formatSize(n int) string {
	return fmt.Sprintf("%.3f MB", float64(n)/1e6)
}

// formatElapsed renders d rounded to whole seconds
func formatElapsed(d time.Duration) string {
	return fmt.Sprintf("%ds", int64(math.Round(d.Seconds())))
}
