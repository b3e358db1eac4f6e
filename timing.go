package querybench

import "time"

// Measure runs fn exactly once and returns its wall time in milliseconds,
// taken from the monotonic clock. Errors from fn pass through unmodified;
// the elapsed time is returned either way.
func Measure(fn func() error) (float64, error) {
	start := time.Now()
	err := fn()
	return float64(time.Since(start)) / float64(time.Millisecond), err
}
