package utils

import (
	"sync"
	"time"
)

// Watch measures total elapsed time, plus laps between named phases.
type Watch struct {
	mu        sync.RWMutex
	startTime time.Time
	lapTime   time.Time
}

func (w *Watch) Start() {
	w.mu.Lock()
	w.startTime = time.Now()
	w.lapTime = w.startTime
	w.mu.Unlock()
}

func (w *Watch) Elapsed() time.Duration {
	w.mu.RLock()
	mStart := w.startTime
	w.mu.RUnlock()
	return time.Since(mStart)
}

// Returns the time since the previous lap (or Start), and begins a new lap.
func (w *Watch) Lap() time.Duration {
	w.mu.Lock()
	mNow := time.Now()
	diff := mNow.Sub(w.lapTime)
	w.lapTime = mNow
	w.mu.Unlock()
	return diff
}
