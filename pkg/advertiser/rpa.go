package advertiser

import "github.com/muxable/bleadv/pkg/hci"

// generateRPA produces a fresh resolvable private address: the top two bits
// of the most significant octet are fixed to 01 per the RPA format, the
// rest comes from the controller's RNG (the RPA Generator is an external
// collaborator; this stack carries no IRK resolution of its own).
func (m *Manager) generateRPA(cb func(hci.BDAddr, Status)) {
	gen := m.generation
	go func() {
		rnd, err := m.hci.LERand()
		m.post(m.continuation(gen, func() {
			if err != nil {
				cb(hci.BDAddr{}, StatusMultiAdvFailure)
				return
			}
			var addr hci.BDAddr
			copy(addr[:], rnd[:6])
			addr[5] = (addr[5] & 0x3F) | 0x40
			cb(addr, StatusSuccess)
		}))
	}()
}

// isBroadcastUUIDPresent detects the Public Broadcast Announcement service
// data AD structure ([03][16][51][18]) that marks a set as skip_rpa
// (§9 Design Notes: "treat as a configuration-level policy, not a hardcoded
// constant" - the byte pattern itself is fixed by the assigned UUID, but
// whether it gates RPA throttling is a policy decision made here, not
// baked into the fragmenter or encryption engine).
func isBroadcastUUIDPresent(data []byte) bool {
	return scanAD(data, func(adType byte, value []byte) bool {
		return adType == 0x16 && len(value) >= 2 && value[0] == 0x51 && value[1] == 0x18
	})
}

// scanAD walks a length-prefixed AD structure list, calling match with each
// structure's type and value; returns true on the first match. Walking is
// length-prefix-aware per §9's TX-power-patch note, which applies equally
// here: i += data[i] + 1.
func scanAD(data []byte, match func(adType byte, value []byte) bool) bool {
	for i := 0; i < len(data); {
		length := int(data[i])
		if length == 0 || i+1+length > len(data) {
			break
		}
		adType := data[i+1]
		value := data[i+2 : i+1+length]
		if match(adType, value) {
			return true
		}
		i += length + 1
	}
	return false
}

// configureRPA is §4.7: swap own_address to a freshly generated RPA
// without breaking connectability semantics.
func (m *Manager) configureRPA(inst *AdvertisingInstance, cb func(Status)) {
	if inst.SkipRPA {
		inst.SkipRPACount++
		if inst.SkipRPACount <= m.config.skipRPARotations() {
			cb(StatusSuccess)
			return
		}
		inst.SkipRPACount = 0
	}

	if inst.EnableStatus && inst.Connectable() && (inst.Duration > 0 || inst.MaxExtAdvEvents > 0) {
		inst.AddressUpdateRequired = true
		cb(StatusSuccess)
		return
	}

	mustDisable := inst.EnableStatus && (inst.Connectable() || inst.hasEncryptedPayload())
	savedDuration := inst.Duration
	savedMaxExtAdvEvents := inst.MaxExtAdvEvents
	savedTimeoutCb := inst.TimeoutCb
	gen := m.generation

	proceed := func() {
		m.generateRPA(func(addr hci.BDAddr, status Status) {
			if status != StatusSuccess {
				cb(status)
				return
			}
			inst.OwnAddress = addr
			m.callSetRandomAddress(inst, func(status Status) {
				if status != StatusSuccess {
					cb(status)
					return
				}
				m.refreshEncryptedPayloadsAfterRotation(inst, func(status Status) {
					if !mustDisable {
						cb(status)
						return
					}
					m.enableLocked(inst, true, savedDuration, savedMaxExtAdvEvents, func(status Status) {
						cb(status)
					}, savedTimeoutCb)
				})
			})
		})
	}

	if mustDisable {
		m.enableLocked(inst, false, 0, 0, func(status Status) {
			if status != StatusSuccess {
				cb(status)
				return
			}
			m.post(m.continuation(gen, proceed))
		}, nil)
		return
	}
	proceed()
}

// refreshEncryptedPayloadsAfterRotation is §4.7 step 5: any encrypted
// payload implicitly gets a fresh randomizer when its SetData is re-run.
func (m *Manager) refreshEncryptedPayloadsAfterRotation(inst *AdvertisingInstance, cb func(Status)) {
	if len(inst.AdvertiseData.Enc) == 0 && len(inst.ScanResponseData.Enc) == 0 && len(inst.PeriodicData.Enc) == 0 {
		cb(StatusSuccess)
		return
	}
	m.setData(inst, false, inst.AdvertiseData, func(status Status) {
		if status != StatusSuccess || len(inst.ScanResponseData.Enc) == 0 {
			m.refreshPeriodicAfterRotation(inst, status, cb)
			return
		}
		m.setData(inst, true, inst.ScanResponseData, func(status Status) {
			m.refreshPeriodicAfterRotation(inst, status, cb)
		})
	})
}

func (m *Manager) refreshPeriodicAfterRotation(inst *AdvertisingInstance, prior Status, cb func(Status)) {
	if prior != StatusSuccess || !inst.PeriodicEnabled || len(inst.PeriodicData.Enc) == 0 {
		cb(prior)
		return
	}
	m.setPeriodicData(inst, inst.PeriodicData, cb)
}
