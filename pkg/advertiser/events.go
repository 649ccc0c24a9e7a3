package advertiser

import (
	"time"

	"github.com/muxable/bleadv/pkg/hci"
)

// dispatchEvents runs on its own goroutine for the lifetime of the manager,
// turning controller events into closures posted to the loop. It exits when
// Initialize's Events subscription is torn down by CleanUp (the channel is
// closed).
func (m *Manager) dispatchEvents(events <-chan hci.Event) {
	for ev := range events {
		ev := ev
		m.post(func() {
			m.handleEvent(ev)
		})
	}
}

func (m *Manager) handleEvent(ev hci.Event) {
	switch {
	case ev.AdvertisingSetTerminated != nil:
		m.onAdvertisingSetTerminated(ev.AdvertisingSetTerminated)
	case ev.CreateBIGComplete != nil:
		m.onCreateBIGComplete(ev.CreateBIGComplete)
	case ev.TerminateBIGComplete != nil:
		m.onTerminateBIGComplete(ev.TerminateBIGComplete)
	}
}

// onAdvertisingSetTerminated is §4.10. LIMIT_REACHED/ADVERTISING_TIMEOUT are
// a normal end of duration and invoke timeout_cb. Any other status means a
// connection was established from connectable advertising: this stack has
// no ACL layer of its own (connection management is out of scope), so the
// own_address/conn_handle association step that layer would perform is
// skipped. Directed sets are one-shot and go straight to in_use=false with
// no callback (§9 open question, resolved as intentional); non-directed
// sets recompute their remaining budget and re-enable if any remains.
func (m *Manager) onAdvertisingSetTerminated(e *hci.AdvertisingSetTerminatedEventPacket) {
	if int(e.AdvertisingHandle) >= len(m.instances) {
		return
	}
	inst := m.instances[e.AdvertisingHandle]
	if !inst.InUse {
		return
	}

	status := Status(e.Status)
	stopTimer(inst.timeoutTimer)
	inst.timeoutTimer = nil
	inst.EnableStatus = false

	if status.IsTerminal() {
		if inst.TimeoutCb != nil {
			inst.TimeoutCb(status)
		}
		return
	}

	if inst.Directed() {
		inst.InUse = false
		return
	}

	remDuration, remEvents, exhausted := m.recomputeTimeout(inst, time.Now())
	if exhausted {
		if inst.TimeoutCb != nil {
			inst.TimeoutCb(StatusAdvertisingTimeout)
		}
		return
	}
	timeoutCb := inst.TimeoutCb
	m.enableLocked(inst, true, remDuration, remEvents, func(Status) {}, timeoutCb)
}

func (m *Manager) onCreateBIGComplete(e *hci.CreateBIGCompleteEventPacket) {
	if int(e.BIGHandle) >= len(m.bigs) {
		return
	}
	big := m.bigs[e.BIGHandle]
	cb := big.createCb
	big.createCb = nil
	if cb == nil {
		return
	}
	status := Status(e.Status)
	if status != StatusSuccess {
		big.InUse = false
		if int(big.AdvInstID) < len(m.instances) {
			m.instances[big.AdvInstID].BIGHandle = noBIGHandle
		}
		cb(status, nil)
		return
	}
	big.CreatedStatus = true
	big.BISHandles = append([]uint16(nil), e.ConnectionHandleList...)
	cb(StatusSuccess, big.BISHandles)
}

func (m *Manager) onTerminateBIGComplete(e *hci.TerminateBIGCompleteEventPacket) {
	if int(e.BIGHandle) >= len(m.bigs) {
		return
	}
	big := m.bigs[e.BIGHandle]
	cb := big.terminateCb
	big.terminateCb = nil
	if cb == nil {
		return
	}
	cb(Status(e.Reason))
}
