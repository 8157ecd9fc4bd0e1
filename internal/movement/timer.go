package movement

import "time"

// RecheckTimer is a countdown that gates how often target displacement is
// evaluated.
type RecheckTimer struct {
	remaining time.Duration
}

// NewRecheckTimer returns a timer that expires after interval.
func NewRecheckTimer(interval time.Duration) RecheckTimer {
	return RecheckTimer{remaining: interval}
}

// Update consumes elapsed time.
func (t *RecheckTimer) Update(elapsed time.Duration) {
	if elapsed <= 0 {
		return
	}
	t.remaining -= elapsed
}

// Passed reports whether the countdown lapsed.
func (t *RecheckTimer) Passed() bool {
	return t.remaining <= 0
}

// Reset restarts the countdown.
func (t *RecheckTimer) Reset(interval time.Duration) {
	t.remaining = interval
}

// Remaining returns the time left before the next check.
func (t *RecheckTimer) Remaining() time.Duration {
	return t.remaining
}
