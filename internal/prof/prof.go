// Package prof collects wall-clock timings of CLI operations.
package prof

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Entry is a single timing measurement.
type Entry struct {
	Label string
	Dur   time.Duration
}

// Recorder accumulates entries; the zero value is ready to use.
type Recorder struct {
	mu     sync.Mutex
	record []Entry
}

// Track records the duration since start under name. Use as
// defer rec.Track(time.Now(), "split").
func (r *Recorder) Track(start time.Time, name string) {
	elapsed := time.Since(start)
	r.mu.Lock()
	r.record = append(r.record, Entry{Label: name, Dur: elapsed})
	r.mu.Unlock()
}

// SnapshotAndReset returns the collected entries and clears them.
func (r *Recorder) SnapshotAndReset() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(r.record))
	copy(out, r.record)
	r.record = nil
	return out
}

// Flush logs every collected entry at debug level and clears the recorder.
func (r *Recorder) Flush(log *zap.Logger) {
	for _, e := range r.SnapshotAndReset() {
		log.Debug("timing", zap.String("op", e.Label), zap.Duration("elapsed", e.Dur))
	}
}
