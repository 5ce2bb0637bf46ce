// Package samplelog holds the battery samples collected since startup.
package samplelog

import (
	"sync"

	"github.com/TheCacophonyProject/battery-reporter/battery"
)

// Log is an append-only list of samples. One goroutine appends while others
// take snapshots to report on.
type Log struct {
	mu      sync.RWMutex
	samples []battery.Sample
}

func New() *Log {
	return &Log{samples: make([]battery.Sample, 0, 64)}
}

func (l *Log) Append(s battery.Sample) {
	l.mu.Lock()
	l.samples = append(l.samples, s)
	l.mu.Unlock()
}

// Snapshot returns a copy of the samples in the order they were appended.
func (l *Log) Snapshot() []battery.Sample {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]battery.Sample, len(l.samples))
	copy(out, l.samples)
	return out
}

func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.samples)
}

// Last returns the most recently appended sample.
func (l *Log) Last() (battery.Sample, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if len(l.samples) == 0 {
		return battery.Sample{}, false
	}
	return l.samples[len(l.samples)-1], true
}

// Clear drops all samples. Snapshots already taken are not affected.
func (l *Log) Clear() {
	l.mu.Lock()
	l.samples = make([]battery.Sample, 0, 64)
	l.mu.Unlock()
}
