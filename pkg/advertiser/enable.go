package advertiser

import (
	"time"

	"github.com/muxable/bleadv/pkg/hci"
	"go.uber.org/zap"
)

// Enable is the public Enable(inst_id, on, duration, maxExtAdvEvents, cb,
// timeout_cb) API (§4.6 / §6).
func (m *Manager) Enable(instID int, on bool, duration uint16, maxExtAdvEvents uint8, cb func(Status), timeoutCb func(Status)) {
	m.post(func() {
		inst, status := m.instance(instID)
		if status != StatusSuccess {
			cb(status)
			return
		}
		m.enableLocked(inst, on, duration, maxExtAdvEvents, cb, timeoutCb)
	})
}

// enableLocked runs on the loop goroutine with inst already validated
// in_use. If address_update_required is set and we're enabling, RPA
// rotation (§4.7) runs first.
func (m *Manager) enableLocked(inst *AdvertisingInstance, on bool, duration uint16, maxExtAdvEvents uint8, cb func(Status), timeoutCb func(Status)) {
	if on && inst.AddressUpdateRequired {
		inst.AddressUpdateRequired = false
		m.configureRPA(inst, func(status Status) {
			if status != StatusSuccess {
				cb(status)
				return
			}
			m.doEnable(inst, on, duration, maxExtAdvEvents, cb, timeoutCb)
		})
		return
	}
	m.doEnable(inst, on, duration, maxExtAdvEvents, cb, timeoutCb)
}

func (m *Manager) doEnable(inst *AdvertisingInstance, on bool, duration uint16, maxExtAdvEvents uint8, cb func(Status), timeoutCb func(Status)) {
	stopTimer(inst.timeoutTimer)
	inst.timeoutTimer = nil

	err := m.hci.LESetExtendedAdvertisingEnable(on, hci.ExtendedAdvertisingEnableSet{
		AdvertisingHandle:            uint8(inst.InstID),
		Duration:                     duration,
		MaxExtendedAdvertisingEvents: maxExtAdvEvents,
	})
	status := statusFromErr(err)
	if status != StatusSuccess {
		cb(status)
		return
	}

	inst.EnableStatus = on
	inst.Duration = duration
	inst.MaxExtAdvEvents = maxExtAdvEvents
	inst.TimeoutCb = timeoutCb

	zap.L().Info("advertising enable", zap.Uint8("inst_id", uint8(inst.InstID)), zap.Bool("on", on))

	if on {
		inst.EnableTime = time.Now()
		if duration > 0 {
			d := time.Duration(duration) * 10 * time.Millisecond
			gen := m.generation
			inst.timeoutTimer = time.AfterFunc(d, func() {
				m.post(m.continuation(gen, func() {
					m.fireHostTimeout(inst)
				}))
			})
		}
	}
	cb(StatusSuccess)
}

// fireHostTimeout runs when timeout_timer expires: the controller did not
// enforce Duration itself, so the host disables the set and invokes its
// timeout callback.
func (m *Manager) fireHostTimeout(inst *AdvertisingInstance) {
	if !inst.InUse || !inst.EnableStatus {
		return
	}
	timeoutCb := inst.TimeoutCb
	m.doEnable(inst, false, 0, 0, func(status Status) {
		if timeoutCb != nil {
			timeoutCb(StatusAdvertisingTimeout)
		}
	}, nil)
}

// recomputeTimeout is §4.6 RecomputeTimeout: estimate remaining duration
// and event budget from elapsed time since enable, with one-tick slack on
// each budget (a budget with one unit or less remaining counts as
// exhausted, matching the concrete scenarios in the acceptance tests).
func (m *Manager) recomputeTimeout(inst *AdvertisingInstance, now time.Time) (remainingDuration uint16, remainingEvents uint8, exhausted bool) {
	elapsedMs := now.Sub(inst.EnableTime).Milliseconds()
	remainingDuration = inst.Duration
	remainingEvents = inst.MaxExtAdvEvents

	if inst.Duration > 0 {
		doneUnits := elapsedMs / 10
		remaining := int64(inst.Duration) - doneUnits
		if remaining <= 1 {
			exhausted = true
			remainingDuration = 0
		} else {
			remainingDuration = uint16(remaining)
		}
	}

	if inst.MaxExtAdvEvents > 0 && inst.Interval > 0 {
		eventMs := int64(inst.Interval) * 5 / 8
		if eventMs <= 0 {
			eventMs = 1
		}
		doneEvents := elapsedMs / eventMs
		remaining := int64(inst.MaxExtAdvEvents) - doneEvents
		if remaining <= 1 {
			exhausted = true
			remainingEvents = 0
		} else {
			remainingEvents = uint8(remaining)
		}
	}

	return
}
