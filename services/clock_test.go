package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHostClockConvertsNanoseconds(t *testing.T) {
	nanos := int64(1_700_000_000_123_456_789)
	clock := NewHostClock(func() int64 { return nanos })

	assert.Equal(t, time.UnixMilli(1_700_000_000_123).UTC(), clock.Now())
}

func TestHostClockNeverGoesBackwards(t *testing.T) {
	readings := []int64{5_000_000_000, 3_000_000_000, 7_000_000_000}
	i := 0
	clock := NewHostClock(func() int64 {
		r := readings[i]
		i++
		return r
	})

	first := clock.Now()
	second := clock.Now()
	third := clock.Now()

	assert.Equal(t, time.UnixMilli(5_000).UTC(), first)
	assert.Equal(t, first, second)
	assert.Equal(t, time.UnixMilli(7_000).UTC(), third)
}

func TestHostClockDefaultsToWallClock(t *testing.T) {
	clock := NewHostClock(nil)
	assert.WithinDuration(t, time.Now(), clock.Now(), time.Second)
}
