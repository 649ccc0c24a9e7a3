package advertiser

// RegisterAdvertiser claims a free instance slot (§4.1). Returns
// StatusTooManyAdvertisers if every slot is in_use.
func (m *Manager) RegisterAdvertiser(cb func(instID int, status Status)) {
	m.post(func() {
		inst := m.registerLocked()
		if inst == nil {
			cb(-1, StatusTooManyAdvertisers)
			return
		}
		cb(inst.InstID, StatusSuccess)
	})
}

func (m *Manager) registerLocked() *AdvertisingInstance {
	for _, inst := range m.instances {
		if !inst.InUse {
			inst.InUse = true
			inst.State = StateRegistered
			return inst
		}
	}
	return nil
}

// Unregister tears an instance down: disables it if enabled, turns off
// periodic advertising, releases any bound BIG, removes the controller-side
// advertising set if parameters were ever sent, and returns the slot to the
// free pool.
func (m *Manager) Unregister(instID int, cb func(Status)) {
	m.post(func() {
		inst, status := m.instance(instID)
		if status != StatusSuccess {
			cb(status)
			return
		}
		m.unregisterLocked(inst, cb)
	})
}

func (m *Manager) unregisterLocked(inst *AdvertisingInstance, cb func(Status)) {
	finish := func() {
		if inst.State >= StateParamsSet {
			m.hci.LERemoveAdvertisingSet(uint8(inst.InstID))
		}
		stopTimer(inst.timeoutTimer)
		stopTimer(inst.raddrTimer)
		inst.reset()
		cb(StatusSuccess)
	}

	if inst.hasBIG() {
		big := m.bigs[inst.BIGHandle]
		m.terminateBIGLocked(big, inst, reasonConnectionTerminatedLocalHost, func(Status) {
			m.unregisterAfterBIG(inst, finish)
		})
		return
	}
	m.unregisterAfterBIG(inst, finish)
}

func (m *Manager) unregisterAfterBIG(inst *AdvertisingInstance, finish func()) {
	if inst.PeriodicEnabled {
		m.hci.LESetPeriodicAdvertisingEnable(0, uint8(inst.InstID))
		inst.PeriodicEnabled = false
	}
	if inst.EnableStatus {
		m.enableLocked(inst, false, 0, 0, func(Status) {
			finish()
		}, nil)
		return
	}
	finish()
}
