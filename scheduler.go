package main

// Scheduler provides one-shot timers, recurring tickers, and a deferred
// mutation queue, all advanced by the fixed-step simulation clock. There is
// no cancellation primitive for one-shot timers: InvalidateAll bumps an
// epoch counter, and pending callbacks from older epochs become no-ops
// when they come due.
type Scheduler struct {
	epoch    uint64
	tasks    []*task
	tickers  []*Ticker
	deferred []func()
}

type task struct {
	remaining float64
	epoch     uint64
	fn        func()
}

// Ticker is a recurring timer. It does not fire until Start is called.
type Ticker struct {
	interval  float64
	remaining float64
	active    bool
	fn        func()
}

// Start arms the ticker; the first fire happens one full interval from now
func (t *Ticker) Start() {
	t.remaining = t.interval
	t.active = true
}

// Stop disarms the ticker
func (t *Ticker) Stop() {
	t.active = false
}

// Active reports whether the ticker is armed
func (t *Ticker) Active() bool {
	return t.active
}

// NewScheduler creates an empty Scheduler
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// After schedules fn to run once, seconds of simulation time from now.
// The callback is bound to the current epoch.
func (s *Scheduler) After(seconds float64, fn func()) {
	s.tasks = append(s.tasks, &task{remaining: seconds, epoch: s.epoch, fn: fn})
}

// Every creates a recurring ticker firing fn every interval seconds.
// The ticker is returned stopped; call Start to arm it.
func (s *Scheduler) Every(interval float64, fn func()) *Ticker {
	t := &Ticker{interval: interval, fn: fn}
	s.tickers = append(s.tickers, t)
	return t
}

// Defer queues fn to run at the deferred-flush point of the current step.
// Mutations that affect live overlap queries (enabling or disabling
// collision shapes and monitors) must go through here.
func (s *Scheduler) Defer(fn func()) {
	s.deferred = append(s.deferred, fn)
}

// InvalidateAll bumps the epoch so every pending one-shot becomes a no-op
func (s *Scheduler) InvalidateAll() {
	s.epoch++
}

// Advance moves simulation time forward by dt and fires due timers.
// Callbacks scheduled from within a firing callback are not advanced
// until the next call.
func (s *Scheduler) Advance(dt float64) {
	var due []func()

	kept := s.tasks[:0]
	for _, t := range s.tasks {
		if t.epoch != s.epoch {
			continue // stale, dropped silently
		}
		t.remaining -= dt
		if t.remaining <= 0 {
			due = append(due, t.fn)
			continue
		}
		kept = append(kept, t)
	}
	s.tasks = kept

	for _, tk := range s.tickers {
		if !tk.active {
			continue
		}
		tk.remaining -= dt
		for tk.remaining <= 0 && tk.active {
			due = append(due, tk.fn)
			tk.remaining += tk.interval
		}
	}

	for _, fn := range due {
		fn()
	}
}

// Flush runs all deferred actions queued so far, including any queued by
// the actions themselves, then leaves the queue empty
func (s *Scheduler) Flush() {
	for len(s.deferred) > 0 {
		batch := s.deferred
		s.deferred = nil
		for _, fn := range batch {
			fn()
		}
	}
}

// PendingTimers returns the number of live (current-epoch) one-shots
func (s *Scheduler) PendingTimers() int {
	n := 0
	for _, t := range s.tasks {
		if t.epoch == s.epoch {
			n++
		}
	}
	return n
}
