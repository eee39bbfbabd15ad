package services

import (
	"sync"
	"time"
)

// nanosPerMilli converts host nanosecond readings to stored milliseconds.
const nanosPerMilli = 1_000_000

// Clock supplies the timestamps stamped on task records.
type Clock interface {
	Now() time.Time
}

// HostClock turns a host nanosecond counter into millisecond timestamps.
// Readings never go backwards: a reading earlier than the previous one
// returns the previous value.
type HostClock struct {
	nanos func() int64

	mu   sync.Mutex
	last time.Time
}

// NewHostClock returns a clock over nanos. A nil nanos reads the wall clock.
func NewHostClock(nanos func() int64) *HostClock {
	if nanos == nil {
		nanos = func() int64 { return time.Now().UnixNano() }
	}
	return &HostClock{nanos: nanos}
}

func (c *HostClock) Now() time.Time {
	t := time.UnixMilli(c.nanos() / nanosPerMilli).UTC()

	c.mu.Lock()
	defer c.mu.Unlock()
	if t.Before(c.last) {
		return c.last
	}
	c.last = t
	return t
}
