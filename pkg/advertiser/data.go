package advertiser

import "github.com/muxable/bleadv/pkg/hci"

// SetData is §6: SetData(inst_id, is_scan_rsp, plain, enc), callable directly
// against a registered instance regardless of its current enable state - this
// is the only path that can exercise §4.3 step 1's disable/restart-after-write
// branch, since StartAdvertisingSet never calls setData on an enabled set.
func (m *Manager) SetData(instID int, isScanRsp bool, payload Payload, cb func(Status)) {
	m.post(func() {
		inst, status := m.instance(instID)
		if status != StatusSuccess {
			cb(status)
			return
		}
		m.setData(inst, isScanRsp, payload, cb)
	})
}

// setData is §4.3: SetData(inst_id, is_scan_rsp, plain, enc).
func (m *Manager) setData(inst *AdvertisingInstance, isScanRsp bool, payload Payload, cb func(Status)) {
	if len(payload.Enc) != 0 && !m.config.EncAdvDataEnabled {
		cb(StatusFeatureUnsupported)
		return
	}

	total := len(payload.Plain) + len(payload.Enc)
	needsRestart := total > hci.MaxExtendedAdvertisingDataFragmentLength && inst.EnableStatus
	savedDuration := inst.Duration
	savedMaxExtAdvEvents := inst.MaxExtAdvEvents
	savedTimeoutCb := inst.TimeoutCb

	store := func() {
		if isScanRsp {
			inst.ScanResponseData = payload
		} else {
			inst.AdvertiseData = payload
			if isBroadcastUUIDPresent(payload.Plain) {
				inst.SkipRPA = true
			}
		}
		m.assembleAndSend(inst, isScanRsp, payload, func(status Status) {
			if !needsRestart || status != StatusSuccess {
				cb(status)
				return
			}
			m.enableLocked(inst, true, savedDuration, savedMaxExtAdvEvents, cb, savedTimeoutCb)
		})
	}

	if needsRestart {
		m.enableLocked(inst, false, 0, 0, func(status Status) {
			if status != StatusSuccess {
				cb(status)
				return
			}
			store()
		}, nil)
		return
	}
	store()
}

// assembleAndSend builds the final on-air payload (flags insertion,
// encryption, TX-power patching) and hands it to the fragmenter.
func (m *Manager) assembleAndSend(inst *AdvertisingInstance, isScanRsp bool, payload Payload, cb func(Status)) {
	plain := append([]byte(nil), payload.Plain...)

	if !isScanRsp && (inst.Connectable() || m.config.PTSNonDiscoverableMode) {
		plain = append(buildFlagsAD(inst.Duration, m.config.PTSNonDiscoverableMode), plain...)
	}

	finish := func(final []byte, status Status) {
		if status != StatusSuccess {
			cb(status)
			return
		}
		maxChunk := hci.MaxExtendedAdvertisingDataFragmentLength
		var send sendChunkFunc
		if isScanRsp {
			send = func(op hci.DataOperation, chunk []byte, cb func(Status)) {
				err := m.hci.LESetExtendedScanResponseData(uint8(inst.InstID), op, hci.FragmentPreferenceMayFragment, chunk)
				cb(statusFromErr(err))
			}
		} else {
			send = func(op hci.DataOperation, chunk []byte, cb func(Status)) {
				err := m.hci.LESetExtendedAdvertisingData(uint8(inst.InstID), op, hci.FragmentPreferenceMayFragment, chunk)
				cb(statusFromErr(err))
			}
		}
		fragment(final, maxChunk, send, cb)
	}

	if len(payload.Enc) == 0 {
		finish(patchTxPower(plain, inst.TxPower), StatusSuccess)
		return
	}

	gen := m.generation
	go func() {
		rnd, err := m.hci.LERand()
		m.post(m.continuation(gen, func() {
			if err != nil {
				cb(StatusMultiAdvFailure)
				return
			}
			copy(inst.Randomizer[:], rnd[:5])

			patchedPlain := patchTxPower(plain, inst.TxPower)
			patchedEnc := patchTxPower(payload.Enc, inst.TxPower)

			key, iv := keyAndIV(inst.EncKeyValue)
			ltv, err := wrapEAD(key, iv, inst.Randomizer, patchedEnc, m.config.EncAdvDataLogEnabled)
			if err != nil {
				cb(StatusMultiAdvFailure)
				return
			}
			finish(append(patchedPlain, ltv...), StatusSuccess)
		}))
	}()
}

func statusFromErr(err error) Status {
	if err != nil {
		return StatusMultiAdvFailure
	}
	return StatusSuccess
}

// setPeriodicData sends periodic advertising data through the 252-byte
// fragmenter. Encrypted periodic payloads go through the same EAD wrap as
// advertising/scan-response data.
func (m *Manager) setPeriodicData(inst *AdvertisingInstance, payload Payload, cb func(Status)) {
	inst.PeriodicData = payload
	finish := func(final []byte) {
		send := func(op hci.DataOperation, chunk []byte, cb func(Status)) {
			err := m.hci.LESetPeriodicAdvertisingData(uint8(inst.InstID), op, chunk)
			cb(statusFromErr(err))
		}
		fragment(final, hci.MaxPeriodicAdvertisingDataFragmentLength, send, cb)
	}

	if len(payload.Enc) == 0 {
		finish(append([]byte(nil), payload.Plain...))
		return
	}

	gen := m.generation
	go func() {
		rnd, err := m.hci.LERand()
		m.post(m.continuation(gen, func() {
			if err != nil {
				cb(StatusMultiAdvFailure)
				return
			}
			copy(inst.Randomizer[:], rnd[:5])
			key, iv := keyAndIV(inst.EncKeyValue)
			ltv, err := wrapEAD(key, iv, inst.Randomizer, payload.Enc, m.config.EncAdvDataLogEnabled)
			if err != nil {
				cb(StatusMultiAdvFailure)
				return
			}
			finish(append(append([]byte(nil), payload.Plain...), ltv...))
		}))
	}()
}
