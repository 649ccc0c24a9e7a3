package advertiser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRecomputeTimeoutShutdown(t *testing.T) {
	m := &Manager{}
	start := time.Now()
	inst := &AdvertisingInstance{Duration: 12, MaxExtAdvEvents: 0, EnableTime: start}

	_, _, exhausted := m.recomputeTimeout(inst, start.Add(111*time.Millisecond))

	assert.True(t, exhausted)
}

func TestRecomputeTimeoutAdjust(t *testing.T) {
	m := &Manager{}
	start := time.Now()
	inst := &AdvertisingInstance{Duration: 50, MaxExtAdvEvents: 50, Interval: 16, EnableTime: start}

	remDuration, remEvents, exhausted := m.recomputeTimeout(inst, start.Add(250*time.Millisecond))

	assert.False(t, exhausted)
	assert.EqualValues(t, 25, remDuration)
	assert.EqualValues(t, 25, remEvents)
}

func TestRecomputeTimeoutEventExhaust(t *testing.T) {
	m := &Manager{}
	start := time.Now()
	inst := &AdvertisingInstance{Duration: 0, MaxExtAdvEvents: 50, Interval: 16, EnableTime: start}

	_, _, exhausted := m.recomputeTimeout(inst, start.Add(495*time.Millisecond))

	assert.True(t, exhausted)
}
