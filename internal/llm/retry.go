package llm

import "time"

const maxBackoff = 30 * time.Second

// backoff returns the delay before the given retry attempt, doubling the base
// delay per attempt and capping at maxBackoff.
func backoff(base time.Duration, attempt int) time.Duration {
	d := base
	for i := 1; i < attempt; i++ {
		d *= 2
		if d >= maxBackoff {
			return maxBackoff
		}
	}
	if d > maxBackoff {
		return maxBackoff
	}
	return d
}
