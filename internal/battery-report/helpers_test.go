package batteryreport

import (
	"context"
	"sync"
	"time"

	"github.com/TheCacophonyProject/battery-reporter/battery"
	"github.com/TheCacophonyProject/event-reporter/v3/eventclient"
)

// eventRecorder replaces addEvent for the duration of a test.
type eventRecorder struct {
	mu     sync.Mutex
	events []eventclient.Event
}

func recordEvents() (*eventRecorder, func()) {
	rec := &eventRecorder{}
	original := addEvent
	addEvent = func(e eventclient.Event) error {
		rec.mu.Lock()
		defer rec.mu.Unlock()
		rec.events = append(rec.events, e)
		return nil
	}
	return rec, func() { addEvent = original }
}

func (r *eventRecorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	types := []string{}
	for _, e := range r.events {
		types = append(types, e.Type)
	}
	return types
}

// stepClock returns a clock that moves forward a second every time it is read.
func stepClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	t := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Second)
		return t
	}
}

// fakeSource returns the samples in order then repeats the last one.
// onRead is called with the number of reads made so far.
type fakeSource struct {
	mu      sync.Mutex
	samples []battery.Sample
	reads   int
	err     error
	onRead  func(reads int)
}

func (f *fakeSource) Read(ctx context.Context) (battery.Sample, error) {
	f.mu.Lock()
	f.reads++
	reads := f.reads
	var s battery.Sample
	if len(f.samples) > 0 {
		s = f.samples[min(reads, len(f.samples))-1]
	}
	err := f.err
	onRead := f.onRead
	f.mu.Unlock()

	if onRead != nil {
		onRead(reads)
	}
	return s, err
}

func discharging(level int, timestamp int64) battery.Sample {
	return battery.Sample{
		Level:       level,
		Health:      battery.HealthGood,
		Temperature: 25,
		Voltage:     3900,
		Timestamp:   timestamp,
	}
}
