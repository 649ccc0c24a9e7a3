package advertiser

import "github.com/muxable/bleadv/pkg/hci"

// SetPeriodicAdvertisingParameters configures a periodic train on an
// already-registered instance, outside the StartAdvertisingSet pipeline.
func (m *Manager) SetPeriodicAdvertisingParameters(instID int, periodic PeriodicParams, cb func(Status)) {
	m.post(func() {
		inst, status := m.instance(instID)
		if status != StatusSuccess {
			cb(status)
			return
		}
		inst.PeriodicParams = periodic
		inst.State = StatePeriodicPending
		m.callSetPeriodicParameters(inst, periodic, cb)
	})
}

// SetPeriodicAdvertisingData writes (and, if necessary, encrypts and
// fragments) the periodic advertising payload.
func (m *Manager) SetPeriodicAdvertisingData(instID int, payload Payload, cb func(Status)) {
	m.post(func() {
		inst, status := m.instance(instID)
		if status != StatusSuccess {
			cb(status)
			return
		}
		if len(payload.Enc) != 0 && !m.config.EncAdvDataEnabled {
			cb(StatusFeatureUnsupported)
			return
		}
		m.setPeriodicData(inst, payload, cb)
	})
}

// SetPeriodicAdvertisingEnable turns the periodic train on or off.
func (m *Manager) SetPeriodicAdvertisingEnable(instID int, enable bool, cb func(Status)) {
	m.post(func() {
		inst, status := m.instance(instID)
		if status != StatusSuccess {
			cb(status)
			return
		}
		var bits hci.PeriodicAdvertisingEnable
		if enable {
			bits = hci.PeriodicAdvertisingEnableEnabled
		}
		err := m.hci.LESetPeriodicAdvertisingEnable(bits, uint8(inst.InstID))
		status = statusFromErr(err)
		if status == StatusSuccess {
			inst.PeriodicEnabled = enable
		}
		cb(status)
	})
}
