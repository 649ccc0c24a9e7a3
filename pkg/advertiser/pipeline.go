package advertiser

import "github.com/muxable/bleadv/pkg/hci"

// StartAdvertisingSet is the central orchestration of §4.2: register, set
// parameters, optionally rotate to a fresh random address, write
// advertising/scan-response data, optionally bring up periodic advertising,
// then enable - rolling back via Unregister on any non-zero status.
func (m *Manager) StartAdvertisingSet(
	params Params,
	advData, scanRspData Payload,
	periodic PeriodicParams, periodicData Payload,
	duration uint16, maxExtAdvEvents uint8,
	encKeyValue []byte,
	cb func(instID int, txPower int8, status Status),
	timeoutCb func(Status),
) {
	m.post(func() {
		if (len(advData.Enc) != 0 || len(scanRspData.Enc) != 0 || len(periodicData.Enc) != 0) && !m.config.EncAdvDataEnabled {
			cb(-1, 0, StatusFeatureUnsupported)
			return
		}

		inst := m.registerLocked()
		if inst == nil {
			cb(-1, 0, StatusTooManyAdvertisers)
			return
		}

		inst.EncKeyValue = encKeyValue
		inst.EventProperties = params.EventProperties
		inst.Interval = params.PrimaryIntervalMax
		inst.OwnAddressType = resolveOwnAddressType(params.OwnAddressType, true)

		rollback := func(status Status) {
			m.unregisterLocked(inst, func(Status) {
				cb(-1, 0, status)
			})
		}

		m.callSetParameters(inst, params, func(txPower int8, status Status) {
			if status != StatusSuccess {
				rollback(status)
				return
			}
			inst.TxPower = txPower
			inst.State = StateParamsSet

			proceedAddr := func() {
				inst.State = StateAddrSet
				m.runDataAndEnable(inst, advData, scanRspData, periodic, periodicData, duration, maxExtAdvEvents, cb, timeoutCb, rollback)
			}

			if isNonPublic(inst.OwnAddressType) && !m.config.RPAGenOffloadEnabled {
				m.generateRPA(func(addr hci.BDAddr, status Status) {
					if status != StatusSuccess {
						rollback(status)
						return
					}
					inst.OwnAddress = addr
					m.callSetRandomAddress(inst, func(status Status) {
						if status != StatusSuccess {
							rollback(status)
							return
						}
						proceedAddr()
					})
				})
				return
			}
			proceedAddr()
		})
	})
}

func (m *Manager) runDataAndEnable(
	inst *AdvertisingInstance,
	advData, scanRspData Payload,
	periodic PeriodicParams, periodicData Payload,
	duration uint16, maxExtAdvEvents uint8,
	cb func(instID int, txPower int8, status Status),
	timeoutCb func(Status),
	rollback func(Status),
) {
	m.setData(inst, false, advData, func(status Status) {
		if status != StatusSuccess {
			rollback(status)
			return
		}
		inst.State = StateDataPending
		m.setData(inst, true, scanRspData, func(status Status) {
			if status != StatusSuccess {
				rollback(status)
				return
			}
			m.bringUpPeriodic(inst, periodic, periodicData, func(status Status) {
				if status != StatusSuccess {
					rollback(status)
					return
				}
				inst.State = StateEnabled
				m.enableLocked(inst, true, duration, maxExtAdvEvents, func(status Status) {
					if status != StatusSuccess {
						rollback(status)
						return
					}
					cb(inst.InstID, inst.TxPower, StatusSuccess)
				}, timeoutCb)
			})
		})
	})
}

func (m *Manager) bringUpPeriodic(inst *AdvertisingInstance, periodic PeriodicParams, periodicData Payload, cb func(Status)) {
	if !periodic.Enable {
		cb(StatusSuccess)
		return
	}
	inst.State = StatePeriodicPending
	inst.PeriodicParams = periodic
	m.callSetPeriodicParameters(inst, periodic, func(status Status) {
		if status != StatusSuccess {
			cb(status)
			return
		}
		m.setPeriodicData(inst, periodicData, func(status Status) {
			if status != StatusSuccess {
				cb(status)
				return
			}
			err := m.hci.LESetPeriodicAdvertisingEnable(hci.PeriodicAdvertisingEnableEnabled, uint8(inst.InstID))
			status = statusFromErr(err)
			if status == StatusSuccess {
				inst.PeriodicEnabled = true
			}
			cb(status)
		})
	})
}

// SetParameters is §6: configure advertising parameters on an
// already-registered instance, outside the StartAdvertisingSet pipeline.
func (m *Manager) SetParameters(instID int, params Params, cb func(status Status, txPower int8)) {
	m.post(func() {
		inst, status := m.instance(instID)
		if status != StatusSuccess {
			cb(status, 0)
			return
		}
		inst.EventProperties = params.EventProperties
		inst.Interval = params.PrimaryIntervalMax
		inst.OwnAddressType = resolveOwnAddressType(params.OwnAddressType, true)
		m.callSetParameters(inst, params, func(txPower int8, status Status) {
			if status != StatusSuccess {
				cb(status, 0)
				return
			}
			inst.TxPower = txPower
			inst.State = StateParamsSet
			cb(StatusSuccess, txPower)
		})
	})
}

// callSetParameters wraps LE Set Extended Advertising Parameters, assigning
// SID = inst_id mod 16 per §4.2 step 3.
func (m *Manager) callSetParameters(inst *AdvertisingInstance, params Params, cb func(txPower int8, status Status)) {
	txPower, err := m.hci.LESetExtendedAdvertisingParameters(&hci.LESetExtendedAdvertisingParametersCommandPacket{
		AdvertisingHandle:             uint8(inst.InstID),
		AdvertisingEventProperties:    params.EventProperties,
		PrimaryAdvertisingIntervalMin: params.PrimaryIntervalMin,
		PrimaryAdvertisingIntervalMax: params.PrimaryIntervalMax,
		PrimaryAdvertisingChannelMap:  params.PrimaryChannelMap,
		OwnAddressType:                inst.OwnAddressType,
		PeerAddressType:               params.PeerAddressType,
		PeerAddress:                   params.PeerAddress,
		AdvertisingFilterPolicy:       params.FilterPolicy,
		AdvertisingTxPower:            params.TxPower,
		PrimaryAdvertisingPHY:         params.PrimaryPHY,
		SecondaryAdvertisingMaxSkip:   params.SecondaryMaxSkip,
		SecondaryAdvertisingPHY:       params.SecondaryPHY,
		AdvertisingSID:                uint8(inst.InstID % 16),
		ScanRequestNotificationEnable: params.ScanRequestNotifyEnable,
	})
	if err != nil {
		cb(0, statusFromErr(err))
		return
	}
	cb(txPower, StatusSuccess)
}

func (m *Manager) callSetRandomAddress(inst *AdvertisingInstance, cb func(Status)) {
	err := m.hci.LESetAdvertisingSetRandomAddress(uint8(inst.InstID), inst.OwnAddress)
	cb(statusFromErr(err))
}

func (m *Manager) callSetPeriodicParameters(inst *AdvertisingInstance, periodic PeriodicParams, cb func(Status)) {
	err := m.hci.LESetPeriodicAdvertisingParameters(&hci.LESetPeriodicAdvertisingParametersCommandPacket{
		AdvertisingHandle:              uint8(inst.InstID),
		PeriodicAdvertisingIntervalMin: periodic.IntervalMin,
		PeriodicAdvertisingIntervalMax: periodic.IntervalMax,
		PeriodicAdvertisingProperties:  periodic.Properties,
	})
	cb(statusFromErr(err))
}
