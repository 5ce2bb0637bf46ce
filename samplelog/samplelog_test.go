package samplelog

import (
	"sync"
	"testing"

	"github.com/TheCacophonyProject/battery-reporter/battery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendAndSnapshot(t *testing.T) {
	l := New()
	_, ok := l.Last()
	assert.False(t, ok)
	assert.Empty(t, l.Snapshot())

	l.Append(battery.Sample{Level: 10, Timestamp: 2})
	l.Append(battery.Sample{Level: 20, Timestamp: 1})
	assert.Equal(t, 2, l.Len())

	snap := l.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, 10, snap[0].Level)
	assert.Equal(t, 20, snap[1].Level)

	last, ok := l.Last()
	assert.True(t, ok)
	assert.Equal(t, 20, last.Level)
}

func TestSnapshotIsACopy(t *testing.T) {
	l := New()
	l.Append(battery.Sample{Level: 10})
	snap := l.Snapshot()
	snap[0].Level = 99
	l.Append(battery.Sample{Level: 30})

	assert.Len(t, snap, 1)
	assert.Equal(t, 10, l.Snapshot()[0].Level)
}

func TestClear(t *testing.T) {
	l := New()
	l.Append(battery.Sample{Level: 10})
	snap := l.Snapshot()
	l.Clear()
	assert.Equal(t, 0, l.Len())
	assert.Len(t, snap, 1)
}

func TestConcurrentAppendAndSnapshot(t *testing.T) {
	l := New()
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := range 1000 {
			l.Append(battery.Sample{Level: i % 100, Timestamp: int64(i)})
		}
	}()
	go func() {
		defer wg.Done()
		for range 100 {
			snap := l.Snapshot()
			for i, s := range snap {
				assert.Equal(t, int64(i), s.Timestamp)
			}
		}
	}()
	wg.Wait()
	assert.Equal(t, 1000, l.Len())
}
