package advertiser

import (
	"time"

	"github.com/muxable/bleadv/pkg/hci"
)

// State is the explicit per-instance state machine (§9 Design Notes): the
// original source interleaves these implicitly through nested callbacks; a
// named variable makes the state testable directly instead of only through
// callback sequencing.
type State uint8

const (
	StateIdle State = iota
	StateRegistered
	StateParamsSet
	StateAddrSet
	StateDataPending
	StatePeriodicPending
	StateEnabled
	StateDisabling
)

// noBIGHandle is the sentinel "none" value for AdvertisingInstance.BIGHandle.
const noBIGHandle = 0xFF

// AdvertisingInstance is one controller advertising slot.
type AdvertisingInstance struct {
	InstID int
	InUse  bool
	State  State

	EventProperties hci.AdvertisingEventProperties
	OwnAddressType  hci.OwnAddressType
	OwnAddress      hci.BDAddr
	Interval        uint32 // 0.625ms units, primary advertising interval max
	TxPower         int8

	AdvertiseData    Payload
	ScanResponseData Payload
	PeriodicData     Payload

	// EncKeyValue is the optional caller-provided 24 bytes (16-byte key ‖
	// 8-byte IV); nil (or any other length) means the all-zero key and IV
	// are used, see keyAndIV.
	EncKeyValue []byte
	Randomizer  [5]byte

	Duration        uint16 // 10ms units, 0 = indefinite
	MaxExtAdvEvents uint8  // 0 = unlimited
	TimeoutCb       func(status Status)

	EnableStatus bool
	EnableTime   time.Time

	AddressUpdateRequired bool

	PeriodicEnabled bool
	PeriodicParams  PeriodicParams

	SkipRPA      bool
	SkipRPACount uint8

	BIGHandle uint8 // noBIGHandle if unbound

	timeoutTimer *time.Timer
	raddrTimer   *time.Timer
}

func newAdvertisingInstance(id int) *AdvertisingInstance {
	return &AdvertisingInstance{InstID: id, BIGHandle: noBIGHandle}
}

// Connectable reports whether bit 0 of the instance's cached event
// properties is set.
func (i *AdvertisingInstance) Connectable() bool {
	return i.EventProperties&hci.AdvertisingEventPropertiesConnectable != 0
}

// Directed reports whether either directed-advertising bit (2 or 3, per
// §4.10) is set.
func (i *AdvertisingInstance) Directed() bool {
	return i.EventProperties&(hci.AdvertisingEventPropertiesDirected|hci.AdvertisingEventPropertiesHighDutyCycle) != 0
}

func (i *AdvertisingInstance) hasBIG() bool {
	return i.BIGHandle != noBIGHandle
}

func (i *AdvertisingInstance) hasEncryptedPayload() bool {
	return len(i.AdvertiseData.Enc) > 0 || len(i.ScanResponseData.Enc) > 0 || len(i.PeriodicData.Enc) > 0
}

// reset clears every field back to its zero value except InstID, which is
// kept, and BIGHandle, which is set back to noBIGHandle, leaving the
// instance ready for the next RegisterAdvertiser.
func (i *AdvertisingInstance) reset() {
	id := i.InstID
	*i = AdvertisingInstance{InstID: id, BIGHandle: noBIGHandle}
}

// IsoBIGInstance is one Broadcast Isochronous Group slot.
type IsoBIGInstance struct {
	BIGHandle     uint8
	InUse         bool
	CreatedStatus bool
	AdvInstID     int
	BISHandles    []uint16

	createCb    func(status Status, bisHandles []uint16)
	terminateCb func(status Status)
}
