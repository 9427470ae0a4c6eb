package timer

import "go.uber.org/atomic"

// TickLoop hands out generations for a cooperative once-per-second tick.
// A tick carries the generation it was scheduled under and is dropped once
// the loop has been restarted or stopped.
type TickLoop struct {
	gen     atomic.Uint64
	running atomic.Bool
}

func NewTickLoop() *TickLoop {
	return &TickLoop{}
}

// Restart cancels any pending tick and returns the generation for the next one.
func (l *TickLoop) Restart() uint64 {
	l.running.Store(true)
	return l.gen.Inc()
}

func (l *TickLoop) Stop() {
	l.running.Store(false)
	l.gen.Inc()
}

func (l *TickLoop) Running() bool {
	return l.running.Load()
}

func (l *TickLoop) Generation() uint64 {
	return l.gen.Load()
}

// Valid reports whether a tick scheduled under gen should still fire.
func (l *TickLoop) Valid(gen uint64) bool {
	return l.running.Load() && l.gen.Load() == gen
}
