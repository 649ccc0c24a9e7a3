package advertiser

import "github.com/muxable/bleadv/pkg/hci"

// fakeHCI is a minimal in-memory stand-in for *hci.Adapter, satisfying the
// HCI interface so the manager can be exercised without a real controller.
type fakeHCI struct {
	numSets uint8

	events chan hci.Event
	unsub  func()

	setParamsErr         error
	setParamsTx          int8
	setRandomErr         error
	setDataErr           error
	setScanRspErr        error
	setEnableErr         error
	setPeriodicParamsErr error
	setPeriodicDataErr   error
	setPeriodicEnableErr error
	createBIGStatus      uint8
	createBIGErr         error
	terminateBIGStatus   uint8
	terminateBIGErr      error
	rand                 [8]byte
	randErr              error
	removeErr            error

	setParamsCalls   []*hci.LESetExtendedAdvertisingParametersCommandPacket
	setEnableCalls   [][]hci.ExtendedAdvertisingEnableSet
	adDataCalls      [][]byte
	scanRspDataCalls [][]byte
}

func newFakeHCI(numSets uint8) *fakeHCI {
	return &fakeHCI{
		numSets: numSets,
		events:  make(chan hci.Event, 16),
	}
}

func (f *fakeHCI) LESetExtendedAdvertisingParameters(p *hci.LESetExtendedAdvertisingParametersCommandPacket) (int8, error) {
	f.setParamsCalls = append(f.setParamsCalls, p)
	return f.setParamsTx, f.setParamsErr
}

func (f *fakeHCI) LESetAdvertisingSetRandomAddress(handle uint8, addr hci.BDAddr) error {
	return f.setRandomErr
}

func (f *fakeHCI) LESetExtendedAdvertisingData(handle uint8, op hci.DataOperation, pref hci.FragmentPreference, data []byte) error {
	f.adDataCalls = append(f.adDataCalls, append([]byte(nil), data...))
	return f.setDataErr
}

func (f *fakeHCI) LESetExtendedScanResponseData(handle uint8, op hci.DataOperation, pref hci.FragmentPreference, data []byte) error {
	f.scanRspDataCalls = append(f.scanRspDataCalls, append([]byte(nil), data...))
	return f.setScanRspErr
}

func (f *fakeHCI) LESetExtendedAdvertisingEnable(enable bool, sets ...hci.ExtendedAdvertisingEnableSet) error {
	f.setEnableCalls = append(f.setEnableCalls, sets)
	return f.setEnableErr
}

func (f *fakeHCI) LESetPeriodicAdvertisingParameters(*hci.LESetPeriodicAdvertisingParametersCommandPacket) error {
	return f.setPeriodicParamsErr
}

func (f *fakeHCI) LESetPeriodicAdvertisingData(handle uint8, op hci.DataOperation, data []byte) error {
	return f.setPeriodicDataErr
}

func (f *fakeHCI) LESetPeriodicAdvertisingEnable(enable hci.PeriodicAdvertisingEnable, handle uint8) error {
	return f.setPeriodicEnableErr
}

func (f *fakeHCI) LECreateBIG(*hci.LECreateBIGCommandPacket) (uint8, error) {
	return f.createBIGStatus, f.createBIGErr
}

func (f *fakeHCI) LETerminateBIG(handle uint8, reason uint8) (uint8, error) {
	return f.terminateBIGStatus, f.terminateBIGErr
}

func (f *fakeHCI) LERemoveAdvertisingSet(handle uint8) error {
	return f.removeErr
}

func (f *fakeHCI) LEReadNumberOfSupportedAdvertisingSets() (uint8, error) {
	return f.numSets, nil
}

func (f *fakeHCI) LERand() ([8]byte, error) {
	return f.rand, f.randErr
}

func (f *fakeHCI) Events() (<-chan hci.Event, func()) {
	unsub := func() {}
	f.unsub = unsub
	return f.events, unsub
}
