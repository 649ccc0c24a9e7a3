package advertiser

import (
	"testing"
	"time"

	"github.com/muxable/bleadv/pkg/hci"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registerOne(t *testing.T, m *Manager) int {
	t.Helper()
	done := make(chan int)
	m.RegisterAdvertiser(func(instID int, status Status) {
		require.Equal(t, StatusSuccess, status)
		done <- instID
	})
	return <-done
}

func TestCreateBIGThenTerminateBIGRoundTrip(t *testing.T) {
	fake := newFakeHCI(4)
	m := newTestManager(t, fake, Config{})
	instID := registerOne(t, m)

	createDone := make(chan []uint16)
	m.CreateBIG(instID, BIGParams{NumBIS: 2}, func(status Status, bisHandles []uint16) {
		require.Equal(t, StatusSuccess, status)
		createDone <- bisHandles
	})

	// CreateBIG only issues a Command Status; the outcome arrives as an
	// event, so simulate the controller reporting success.
	fake.events <- hci.Event{CreateBIGComplete: &hci.CreateBIGCompleteEventPacket{
		Status:               0,
		BIGHandle:            0,
		ConnectionHandleList: []uint16{0x100, 0x101},
	}}

	select {
	case bis := <-createDone:
		assert.Equal(t, []uint16{0x100, 0x101}, bis)
	case <-time.After(time.Second):
		t.Fatal("CreateBIG callback never fired")
	}

	terminateDone := make(chan uint8)
	m.TerminateBIG(instID, 0, 0x16, func(status Status, reason uint8) {
		require.Equal(t, StatusSuccess, status)
		terminateDone <- reason
	})

	fake.events <- hci.Event{TerminateBIGComplete: &hci.TerminateBIGCompleteEventPacket{
		BIGHandle: 0,
		Reason:    0x16,
	}}

	select {
	case reason := <-terminateDone:
		assert.EqualValues(t, 0x16, reason)
	case <-time.After(time.Second):
		t.Fatal("TerminateBIG callback never fired")
	}
}

func TestUnregisterReleasesBoundBIGExactlyOnce(t *testing.T) {
	fake := newFakeHCI(4)
	m := newTestManager(t, fake, Config{})
	instID := registerOne(t, m)

	createDone := make(chan struct{})
	m.CreateBIG(instID, BIGParams{NumBIS: 1}, func(status Status, bisHandles []uint16) {
		close(createDone)
	})
	fake.events <- hci.Event{CreateBIGComplete: &hci.CreateBIGCompleteEventPacket{BIGHandle: 0}}
	<-createDone

	unregDone := make(chan struct{})
	m.Unregister(instID, func(status Status) {
		close(unregDone)
	})

	// Posting a second closure right behind Unregister's guarantees (FIFO
	// delivery on m.loop) that Unregister's own closure - which issues
	// LETerminateBIG and arms the pending terminateCb - has already run
	// before the simulated event below is dispatched, with no sleep needed.
	barrier := make(chan struct{})
	m.post(func() { close(barrier) })
	<-barrier

	fake.events <- hci.Event{TerminateBIGComplete: &hci.TerminateBIGCompleteEventPacket{BIGHandle: 0}}

	select {
	case <-unregDone:
	case <-time.After(time.Second):
		t.Fatal("Unregister never completed")
	}

	assert.False(t, m.bigs[0].InUse)
}
