package advertiser

import (
	"time"

	"github.com/muxable/bleadv/pkg/hci"
)

// Suspend is §4.9: recompute remaining duration/events for every enabled
// instance and submit one bulk Enable(false, ...) covering all of them.
func (m *Manager) Suspend(cb func(Status)) {
	m.post(func() {
		now := time.Now()
		var sets []hci.ExtendedAdvertisingEnableSet
		for _, inst := range m.instances {
			if !inst.InUse || !inst.EnableStatus {
				continue
			}
			remDuration, remEvents, exhausted := m.recomputeTimeout(inst, now)
			stopTimer(inst.timeoutTimer)
			inst.timeoutTimer = nil
			if exhausted {
				inst.EnableStatus = false
				inst.Duration = 0
				inst.MaxExtAdvEvents = 0
				inst.State = StateDataPending
				if inst.TimeoutCb != nil {
					inst.TimeoutCb(StatusAdvertisingTimeout)
				}
				continue
			}
			inst.Duration = remDuration
			inst.MaxExtAdvEvents = remEvents
			sets = append(sets, hci.ExtendedAdvertisingEnableSet{
				AdvertisingHandle:            uint8(inst.InstID),
				Duration:                     remDuration,
				MaxExtendedAdvertisingEvents: remEvents,
			})
		}
		if len(sets) == 0 {
			cb(StatusSuccess)
			return
		}
		err := m.hci.LESetExtendedAdvertisingEnable(false, sets...)
		status := statusFromErr(err)
		if status == StatusSuccess {
			for _, s := range sets {
				m.instances[s.AdvertisingHandle].EnableStatus = false
			}
		}
		cb(status)
	})
}

// Resume is §4.9: re-enable every instance Suspend paused, in one bulk
// Enable(true, ...) carrying the remaining duration/events Suspend stored.
func (m *Manager) Resume(cb func(Status)) {
	m.post(func() {
		var sets []hci.ExtendedAdvertisingEnableSet
		for _, inst := range m.instances {
			if !inst.InUse || inst.EnableStatus || inst.State != StateEnabled {
				continue
			}
			sets = append(sets, hci.ExtendedAdvertisingEnableSet{
				AdvertisingHandle:            uint8(inst.InstID),
				Duration:                     inst.Duration,
				MaxExtendedAdvertisingEvents: inst.MaxExtAdvEvents,
			})
		}
		if len(sets) == 0 {
			cb(StatusSuccess)
			return
		}
		err := m.hci.LESetExtendedAdvertisingEnable(true, sets...)
		status := statusFromErr(err)
		now := time.Now()
		if status == StatusSuccess {
			for _, s := range sets {
				inst := m.instances[s.AdvertisingHandle]
				inst.EnableStatus = true
				inst.EnableTime = now
				if inst.Duration > 0 {
					d := time.Duration(inst.Duration) * 10 * time.Millisecond
					gen := m.generation
					inst.timeoutTimer = time.AfterFunc(d, func() {
						m.post(m.continuation(gen, func() {
							m.fireHostTimeout(inst)
						}))
					})
				}
			}
		}
		cb(status)
	})
}
