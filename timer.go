package plume

import "time"

// Timer paces the simulation loop and accumulates timing statistics.
type Timer struct {
	// Rate is the target number of updates per second. Zero or less means
	// continuous mode: every loop iteration is a tick.
	Rate float64
	// TotalTime is the wall time in seconds between Start and the last tick.
	TotalTime float64
	// PreviousTick is the duration in seconds of the last tick.
	PreviousTick float64
	// Ticks counts the ticks since Start.
	Ticks uint64

	start time.Time
	last  time.Time
	now   func() time.Time
}

// NewTimer returns a stopped timer targeting rate updates per second.
func NewTimer(rate float64) *Timer {
	return &Timer{Rate: max(rate, 0), now: time.Now}
}

// Continuous reports whether the timer runs unthrottled.
func (t *Timer) Continuous() bool {
	return t.Rate <= 0
}

// Interval is the target duration of a tick, zero in continuous mode.
func (t *Timer) Interval() time.Duration {
	if t.Continuous() {
		return 0
	}
	return time.Duration(float64(time.Second) / t.Rate)
}

// Start resets the statistics and begins timing.
func (t *Timer) Start() {
	if t.now == nil {
		t.now = time.Now
	}
	t.start = t.now()
	t.last = t.start
	t.TotalTime, t.PreviousTick, t.Ticks = 0, 0, 0
}

// Tick records one update and returns its duration in seconds.
func (t *Timer) Tick() float64 {
	current := t.now()
	t.PreviousTick = current.Sub(t.last).Seconds()
	t.TotalTime = current.Sub(t.start).Seconds()
	t.last = current
	t.Ticks++
	return t.PreviousTick
}

// AverageRate returns the mean number of ticks per second so far.
func (t *Timer) AverageRate() float64 {
	if t.TotalTime == 0 {
		return 0
	}
	return float64(t.Ticks) / t.TotalTime
}

// AverageDelta returns the mean tick duration in seconds.
func (t *Timer) AverageDelta() float64 {
	if t.Ticks == 0 {
		return 0
	}
	return t.TotalTime / float64(t.Ticks)
}
