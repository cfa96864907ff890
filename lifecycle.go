package plume

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

// ErrAlreadyStarted is returned by Start on a world that has not stopped.
var ErrAlreadyStarted = errors.New("plume: world already started")

// Status is the lifecycle stage of a world.
type Status int32

const (
	StatusUninitialized Status = iota
	StatusRunning
	StatusTerminating
)

func (s Status) String() string {
	switch s {
	case StatusUninitialized:
		return "uninitialized"
	case StatusRunning:
		return "running"
	case StatusTerminating:
		return "terminating"
	}
	return "unknown"
}

type lifecycle struct {
	// mu serializes Start and Stop.
	mu     sync.Mutex
	status atomic.Int32
	stop   atomic.Bool
	done   chan struct{}
	timer  *Timer
}

// Status returns the current lifecycle stage.
func (w *World) Status() Status {
	return Status(w.status.Load())
}

// Start launches the simulation goroutine and returns once the world is
// initialized and its first state is published. The loop ends on Stop or
// when ctx is canceled.
func (w *World) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.done != nil && !closed(w.done) {
		return ErrAlreadyStarted
	}

	ready := make(chan struct{})
	w.done = make(chan struct{})
	w.stop.Store(false)
	w.timer = NewTimer(w.rate)

	go w.run(ctx, ready)
	<-ready
	return nil
}

// Stop raises the stop signal under the world lock and waits for the
// simulation goroutine to exit. Stopping a world that is not running returns
// at once.
func (w *World) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.done == nil {
		return
	}

	owner := w.lock.Acquire()
	w.stop.Store(true)
	w.status.CompareAndSwap(int32(StatusRunning), int32(StatusTerminating))
	w.release(owner)

	<-w.done
}

// Done is closed when the simulation goroutine exits. It is nil before the
// first Start.
func (w *World) Done() <-chan struct{} {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.done
}

func closed(ch <-chan struct{}) bool {
	select {
	case <-ch:
		return true
	default:
		return false
	}
}

func (w *World) run(ctx context.Context, ready chan<- struct{}) {
	defer close(w.done)

	w.initialize()
	w.status.Store(int32(StatusRunning))
	w.logger.Info("physics thread initialized", "bodies", w.count, "rate", w.rate, "workers", w.workers)
	close(ready)

	w.loop(ctx)

	w.terminate()
}

// initialize reseeds the generator, empties the pool and runs the setup.
func (w *World) initialize() {
	w.rand.Seed(w.seed)
	w.reset()

	if w.setup == nil {
		return
	}
	if err := w.setup(w); err != nil {
		w.logger.Error("world setup failed", "error", err, "bodies", w.count)
	}
}

func (w *World) terminate() {
	w.status.Store(int32(StatusTerminating))
	w.logger.Info("physics thread terminated", "ticks", w.ticks, "time", w.elapsed)
	w.status.Store(int32(StatusUninitialized))
}

// loop ticks at the timer rate until the stop signal or ctx ends it. In
// continuous mode every iteration is a tick.
func (w *World) loop(ctx context.Context) {
	var tick <-chan time.Time
	if interval := w.timer.Interval(); interval > 0 {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	w.timer.Start()
	second := 0
	for !w.stop.Load() {
		if tick != nil {
			select {
			case <-ctx.Done():
				return
			case <-tick:
			}
		} else if ctx.Err() != nil {
			return
		}
		if w.stop.Load() {
			return
		}

		w.Update(w.timer.Tick())

		if current := int(w.timer.TotalTime); current > second {
			second = current
			w.logger.Debug("physics time",
				"time", w.timer.TotalTime,
				"ticks", w.timer.Ticks,
				"upsAvg", w.timer.AverageRate(),
				"dtAvg", w.timer.AverageDelta())
		}
	}
}
