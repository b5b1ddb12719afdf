// Package jitter schedules incoming messages against a sender's jitter
// reduction clock, smoothing out transport delay variation.
package jitter

import (
	"time"

	"github.com/lysShub/netkit/debug"
	"github.com/lysShub/rawsock/test"
	"github.com/stretchr/testify/require"

	"github.com/lysShub/umpkit/ump"
)

// Timestamp is a 16-bit jitter reduction clock value, it wraps around.
type Timestamp uint16

// Sub returns the ticks elapsed from prev to t, modulo 2^16.
func (t Timestamp) Sub(prev Timestamp) uint16 {
	return uint16(t - prev)
}

// Diff returns the signed distance from prev to t, in -32768..32767.
func (t Timestamp) Diff(prev Timestamp) int {
	return int(int16(t - prev))
}

// DefaultTick is the jitter reduction clock period, 1/31250 s.
const DefaultTick = 32 * time.Microsecond

// ClockFollower tracks the sender clock from JR clock messages and maps
// JR timestamps to local delivery times. Delivery times never go
// backwards. The zero value is ready to use.
//
// A ClockFollower is not safe for concurrent use.
type ClockFollower struct {
	// Tick is the duration of one timestamp unit, DefaultTick when zero.
	Tick time.Duration
	// MinOffset is the floor of the security offset.
	MinOffset time.Duration

	synced     bool
	refArrival time.Time
	refTs      Timestamp

	watermark time.Time // latest delivery time handed out, before offset
	jitter    time.Duration
	offset    time.Duration
}

func New(minOffset time.Duration) *ClockFollower {
	return &ClockFollower{MinOffset: minOffset}
}

// ProcessSync consumes one JR clock message. The first one sets the
// reference, later ones update the jitter estimate.
func (f *ClockFollower) ProcessSync(arrival time.Time, ts Timestamp) {
	if debug.Debug() {
		require.GreaterOrEqual(test.T(), f.MinOffset, time.Duration(0))
	}
	if !f.synced {
		f.synced = true
		f.refArrival, f.refTs = arrival, ts
		return
	}

	expected := f.refArrival.Add(time.Duration(ts.Sub(f.refTs)) * f.tick())
	sample := arrival.Sub(expected)
	if sample < 0 {
		// sender sped up, or still settling
		f.refArrival = arrival
	} else {
		f.refArrival = expected
	}
	f.refTs = ts
	if arrival.After(f.watermark) {
		f.watermark = arrival
	}

	prev := f.jitter
	if sample < 0 && -sample > f.jitter {
		f.jitter += -sample
	} else if sample > f.jitter {
		f.jitter = sample
	}
	if f.jitter > prev {
		f.offset = max(f.offset, f.jitter*6/5)
	}
}

// ScheduleMessage returns the delivery time of a message stamped ts that
// arrived at arrival. Before the first ProcessSync the arrival time is used.
func (f *ClockFollower) ScheduleMessage(arrival time.Time, ts Timestamp) time.Time {
	candidate := arrival
	if f.synced {
		candidate = f.refArrival.Add(time.Duration(ts.Diff(f.refTs)) * f.tick())
	}
	if candidate.After(f.watermark) {
		f.watermark = candidate
	}
	return f.watermark.Add(f.SecurityOffset())
}

// Feed drives f with a utility packet. JR clock packets are taken as sync,
// for JR timestamp packets the delivery time is returned with ok set.
func (f *ClockFollower) Feed(arrival time.Time, p ump.Packet) (at time.Time, ok bool) {
	u, ok := ump.AsUtility(p)
	if !ok {
		return time.Time{}, false
	}

	switch u.Status() {
	case ump.JRClock:
		f.ProcessSync(arrival, Timestamp(u.Timestamp()))
	case ump.JRTimestamp:
		return f.ScheduleMessage(arrival, Timestamp(u.Timestamp())), true
	}
	return time.Time{}, false
}

// Jitter returns the tracked jitter.
func (f *ClockFollower) Jitter() time.Duration { return f.jitter }

// SecurityOffset returns the delay added to every scheduled message, never
// below MinOffset.
func (f *ClockFollower) SecurityOffset() time.Duration {
	return max(f.offset, f.MinOffset)
}

// Synced reports whether a JR clock message was processed.
func (f *ClockFollower) Synced() bool { return f.synced }

// Reset forgets the clock, keeping Tick and MinOffset.
func (f *ClockFollower) Reset() {
	*f = ClockFollower{Tick: f.Tick, MinOffset: f.MinOffset}
}

func (f *ClockFollower) tick() time.Duration {
	if f.Tick <= 0 {
		return DefaultTick
	}
	return f.Tick
}
