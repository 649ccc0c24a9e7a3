// Package advertiser implements the host-side controller that coordinates
// multiple concurrent BLE advertising sets: parameters, advertising/scan-
// response/periodic data, optional encryption, and optional broadcast
// isochronous groups, on top of the pkg/hci command sink.
package advertiser

import (
	"errors"
	"sync"
	"time"

	"github.com/muxable/bleadv/pkg/hci"
	"go.uber.org/zap"
)

// HCI is the opaque command sink the manager drives. *hci.Adapter
// satisfies it; tests substitute a fake.
type HCI interface {
	LESetExtendedAdvertisingParameters(*hci.LESetExtendedAdvertisingParametersCommandPacket) (int8, error)
	LESetAdvertisingSetRandomAddress(handle uint8, addr hci.BDAddr) error
	LESetExtendedAdvertisingData(handle uint8, op hci.DataOperation, pref hci.FragmentPreference, data []byte) error
	LESetExtendedScanResponseData(handle uint8, op hci.DataOperation, pref hci.FragmentPreference, data []byte) error
	LESetExtendedAdvertisingEnable(enable bool, sets ...hci.ExtendedAdvertisingEnableSet) error
	LESetPeriodicAdvertisingParameters(*hci.LESetPeriodicAdvertisingParametersCommandPacket) error
	LESetPeriodicAdvertisingData(handle uint8, op hci.DataOperation, data []byte) error
	LESetPeriodicAdvertisingEnable(enable hci.PeriodicAdvertisingEnable, handle uint8) error
	LECreateBIG(*hci.LECreateBIGCommandPacket) (uint8, error)
	LETerminateBIG(handle uint8, reason uint8) (uint8, error)
	LERemoveAdvertisingSet(handle uint8) error
	LEReadNumberOfSupportedAdvertisingSets() (uint8, error)
	LERand() ([8]byte, error)
	Events() (<-chan hci.Event, func())
}

// Manager is the singleton multi-advertising manager. All instance/BIG
// table mutation happens on the loop goroutine; every other goroutine only
// ever posts closures to it. See SPEC_FULL.md §5's "Go realization of the
// main loop".
type Manager struct {
	lifecycleMu sync.Mutex
	initialized bool

	hci    HCI
	config Config

	loop chan func()
	quit chan struct{}

	// generation is the weak-self-reference substitute: every
	// continuation captures it at pipeline-start and compares against the
	// current value before touching state. CleanUp increments it so
	// late-arriving continuations observe "manager gone" and no-op.
	generation uint64

	instances []*AdvertisingInstance
	bigs      []*IsoBIGInstance

	unsubEvents func()
}

// NewManager constructs an uninitialized manager. Call Initialize before
// using it.
func NewManager() *Manager {
	return &Manager{}
}

// Initialize wires the manager to an HCI sink, reads the controller's
// advertising-set capacity, and pre-creates the instance table (all slots
// in_use=false), matching btm_ble_adv_init.
func (m *Manager) Initialize(h HCI, config Config) error {
	m.lifecycleMu.Lock()
	defer m.lifecycleMu.Unlock()
	if m.initialized {
		return errors.New("advertiser: already initialized")
	}

	n, err := h.LEReadNumberOfSupportedAdvertisingSets()
	if err != nil {
		return err
	}
	count := n
	if config.MaxAdvertisingInstances != 0 && config.MaxAdvertisingInstances < n {
		count = config.MaxAdvertisingInstances
	}

	m.hci = h
	m.config = config
	m.loop = make(chan func(), 64)
	m.quit = make(chan struct{})
	m.instances = make([]*AdvertisingInstance, count)
	for i := range m.instances {
		m.instances[i] = newAdvertisingInstance(i)
	}
	m.bigs = make([]*IsoBIGInstance, count)
	for i := range m.bigs {
		m.bigs[i] = &IsoBIGInstance{BIGHandle: uint8(i)}
	}

	events, unsub := h.Events()
	m.unsubEvents = unsub
	go m.runLoop()
	go m.dispatchEvents(events)

	m.initialized = true
	zap.L().Info("advertiser initialized", zap.Int("inst_count", len(m.instances)))
	return nil
}

// IsInitialized reports whether Initialize has run without a matching
// CleanUp.
func (m *Manager) IsInitialized() bool {
	m.lifecycleMu.Lock()
	defer m.lifecycleMu.Unlock()
	return m.initialized
}

// CleanUp tears the manager down: increments the generation so in-flight
// continuations abort, stops the loop, and releases timers.
func (m *Manager) CleanUp() {
	m.lifecycleMu.Lock()
	defer m.lifecycleMu.Unlock()
	if !m.initialized {
		return
	}
	if m.unsubEvents != nil {
		m.unsubEvents()
	}
	done := make(chan struct{})
	m.loop <- func() {
		m.generation++
		for _, inst := range m.instances {
			stopTimer(inst.timeoutTimer)
			stopTimer(inst.raddrTimer)
		}
		close(done)
	}
	<-done
	close(m.quit)
	m.initialized = false
	zap.L().Info("advertiser cleaned up")
}

func (m *Manager) runLoop() {
	for {
		select {
		case fn := <-m.loop:
			fn()
		case <-m.quit:
			return
		}
	}
}

// post schedules fn to run on the loop goroutine. Safe to call from any
// goroutine, including the loop itself (which would then just run fn
// immediately via the channel on its next iteration).
func (m *Manager) post(fn func()) {
	select {
	case m.loop <- fn:
	case <-m.quit:
	}
}

// continuation wraps fn so it only runs if the manager's generation has
// not advanced since gen was captured - the Go analogue of upgrading a weak
// pointer. Must be called with gen captured on the loop goroutine.
func (m *Manager) continuation(gen uint64, fn func()) func() {
	return func() {
		if gen != m.generation {
			return
		}
		fn()
	}
}

func stopTimer(t *time.Timer) {
	if t != nil {
		t.Stop()
	}
}

func (m *Manager) instance(instID int) (*AdvertisingInstance, Status) {
	if instID < 0 || instID >= len(m.instances) {
		return nil, StatusMultiAdvFailure
	}
	inst := m.instances[instID]
	if !inst.InUse {
		return nil, StatusMultiAdvFailure
	}
	return inst, StatusSuccess
}

// GetMaxAdvInstances returns the instance table size: the controller-reported
// count, capped by Config.MaxAdvertisingInstances when that is nonzero.
func (m *Manager) GetMaxAdvInstances() uint8 {
	return uint8(len(m.instances))
}

// GetOwnAddress reports the current local address for an instance.
func (m *Manager) GetOwnAddress(instID int, cb func(t hci.OwnAddressType, addr hci.BDAddr, status Status)) {
	m.post(func() {
		inst, status := m.instance(instID)
		if status != StatusSuccess {
			cb(0, hci.BDAddr{}, status)
			return
		}
		cb(inst.OwnAddressType, inst.OwnAddress, StatusSuccess)
	})
}
