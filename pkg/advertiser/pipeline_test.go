package advertiser

import (
	"errors"
	"testing"
	"time"

	"github.com/muxable/bleadv/pkg/hci"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T, fake *fakeHCI, config Config) *Manager {
	t.Helper()
	m := NewManager()
	require.NoError(t, m.Initialize(fake, config))
	t.Cleanup(m.CleanUp)
	return m
}

func TestStartAdvertisingSetRollsBackOnParamFailure(t *testing.T) {
	fake := newFakeHCI(4)
	fake.setParamsErr = errors.New("boom")
	m := newTestManager(t, fake, Config{})

	done := make(chan struct{})
	var gotInstID int
	var gotTxPower int8
	var gotStatus Status

	m.StartAdvertisingSet(Params{}, Payload{}, Payload{}, PeriodicParams{}, Payload{}, 0, 0, nil,
		func(instID int, txPower int8, status Status) {
			gotInstID, gotTxPower, gotStatus = instID, txPower, status
			close(done)
		}, nil)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("callback never fired")
	}

	assert.Equal(t, -1, gotInstID)
	assert.EqualValues(t, 0, gotTxPower)
	assert.Equal(t, StatusMultiAdvFailure, gotStatus)
	assert.Empty(t, fake.adDataCalls)
	assert.Empty(t, fake.setEnableCalls)
}

func TestStartAdvertisingSetSucceeds(t *testing.T) {
	fake := newFakeHCI(4)
	fake.setParamsTx = -8
	fake.rand = [8]byte{1, 2, 3, 4, 5, 6, 7, 8}
	m := newTestManager(t, fake, Config{})

	params := Params{
		EventProperties:    hci.AdvertisingEventPropertiesConnectable,
		PrimaryIntervalMin: 160,
		PrimaryIntervalMax: 160,
		OwnAddressType:     AddressTypePublic,
	}
	advData := Payload{Plain: []byte{0x07, 0x09, 'm', 'u', 'x', 'a', 'b', 'l'}}

	done := make(chan struct{})
	var gotInstID int
	var gotTxPower int8
	var gotStatus Status

	m.StartAdvertisingSet(params, advData, Payload{}, PeriodicParams{}, Payload{}, 0, 0, nil,
		func(instID int, txPower int8, status Status) {
			gotInstID, gotTxPower, gotStatus = instID, txPower, status
			close(done)
		}, nil)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("callback never fired")
	}

	require.Equal(t, StatusSuccess, gotStatus)
	assert.Equal(t, 0, gotInstID)
	assert.EqualValues(t, -8, gotTxPower)
	require.Len(t, fake.adDataCalls, 1)
	require.Len(t, fake.setEnableCalls, 1)
	require.Len(t, fake.setEnableCalls[0], 1)
	assert.EqualValues(t, 0, fake.setEnableCalls[0][0].AdvertisingHandle)
}

func TestRegisterAdvertiserTooManyAdvertisers(t *testing.T) {
	fake := newFakeHCI(1)
	m := newTestManager(t, fake, Config{})

	first := make(chan int)
	m.RegisterAdvertiser(func(instID int, status Status) {
		require.Equal(t, StatusSuccess, status)
		first <- instID
	})
	<-first

	second := make(chan Status)
	m.RegisterAdvertiser(func(instID int, status Status) {
		second <- status
	})
	assert.Equal(t, StatusTooManyAdvertisers, <-second)
}
