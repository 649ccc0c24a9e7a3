package advertiser

import "github.com/muxable/bleadv/pkg/hci"

// reasonConnectionTerminatedLocalHost is the HCI "Connection Terminated By
// Local Host" reason code (0x16), used when Unregister tears down a BIG
// bound to the advertiser being released.
const reasonConnectionTerminatedLocalHost = 0x16

// CreateBIG binds a Broadcast Isochronous Group to inst's advertising set
// (§4.8). The command returns a Command Status immediately; the outcome
// (BIS connection handles or failure) arrives later via the
// CreateBIGComplete event and is delivered through cb.
func (m *Manager) CreateBIG(instID int, params BIGParams, cb func(status Status, bisHandles []uint16)) {
	m.post(func() {
		inst, status := m.instance(instID)
		if status != StatusSuccess {
			cb(status, nil)
			return
		}
		if inst.hasBIG() {
			cb(StatusMultiAdvFailure, nil)
			return
		}

		var big *IsoBIGInstance
		for _, b := range m.bigs {
			if !b.InUse {
				big = b
				break
			}
		}
		if big == nil {
			cb(StatusTooManyAdvertisers, nil)
			return
		}

		big.InUse = true
		big.AdvInstID = inst.InstID
		big.createCb = cb
		inst.BIGHandle = big.BIGHandle

		hciStatus, err := m.hci.LECreateBIG(&hci.LECreateBIGCommandPacket{
			BIGHandle:           big.BIGHandle,
			AdvertisingHandle:   uint8(inst.InstID),
			NumBIS:              params.NumBIS,
			SDUInterval:         params.SDUInterval,
			MaxSDU:              params.MaxSDU,
			MaxTransportLatency: params.MaxTransportLatency,
			RTN:                 params.RTN,
			PHY:                 params.PHY,
			Packing:             params.Packing,
			Framing:             params.Framing,
			Encryption:          params.Encryption,
			BroadcastCode:       params.BroadcastCode,
		})
		if err != nil || hciStatus != 0 {
			inst.BIGHandle = noBIGHandle
			big.InUse = false
			big.createCb = nil
			cb(statusFromErr(err), nil)
			return
		}
		// createCb fires from dispatchEvents on CreateBIGComplete.
	})
}

// TerminateBIG unwinds a bound BIG (§4.8). The status delivered to cb in
// position 1 is the HCI command result; reason is the host-supplied value
// echoed back unchanged, and the two are allowed to differ (§9 open
// question: position 1 is the outcome of issuing the command, reason is
// simply passed through as the cause the caller asked for).
func (m *Manager) TerminateBIG(instID int, bigHandle uint8, reason uint8, cb func(status Status, reason uint8)) {
	m.post(func() {
		inst, status := m.instance(instID)
		if status != StatusSuccess {
			cb(status, reason)
			return
		}
		if !inst.hasBIG() || inst.BIGHandle != bigHandle {
			cb(StatusMultiAdvFailure, reason)
			return
		}
		big := m.bigs[bigHandle]
		m.terminateBIGLocked(big, inst, reason, func(status Status) {
			cb(status, reason)
		})
	})
}

func (m *Manager) terminateBIGLocked(big *IsoBIGInstance, inst *AdvertisingInstance, reason uint8, cb func(Status)) {
	if !big.InUse {
		cb(StatusSuccess)
		return
	}
	big.terminateCb = func(status Status) {
		big.InUse = false
		big.BISHandles = nil
		inst.BIGHandle = noBIGHandle
		cb(status)
	}
	hciStatus, err := m.hci.LETerminateBIG(big.BIGHandle, reason)
	if err != nil || hciStatus != 0 {
		terminateCb := big.terminateCb
		big.terminateCb = nil
		terminateCb(statusFromErr(err))
		return
	}
	// terminateCb fires from dispatchEvents on TerminateBIGComplete.
}
