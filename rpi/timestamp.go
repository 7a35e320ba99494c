package rpi

import "time"

// epoch carries a monotonic clock reading; durations measured from it are
// immune to wall-clock steps.
var epoch = time.Now()

func elapsed() time.Duration {
	return time.Since(epoch)
}

// TimestampNs returns monotonic nanoseconds since process start.
func TimestampNs() int64 {
	return elapsed().Nanoseconds()
}

// TimestampUs returns monotonic microseconds since process start.
func TimestampUs() uint64 {
	return uint64(elapsed().Microseconds())
}

// TimestampMs returns monotonic milliseconds since process start.
func TimestampMs() uint64 {
	return uint64(elapsed().Milliseconds())
}
