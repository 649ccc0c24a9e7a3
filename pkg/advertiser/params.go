package advertiser

import "github.com/muxable/bleadv/pkg/hci"

// AddressType is the caller-facing address-type request, richer than the
// HCI wire OwnAddressType: ANONYMOUS and DEFAULT both defer to the local
// privacy configuration rather than naming a concrete HCI value, so the
// resolution from caller intent to wire type happens once, in
// resolveOwnAddressType, rather than being smeared across callers.
type AddressType uint8

const (
	AddressTypeDefault AddressType = iota
	AddressTypePublic
	AddressTypeRandom
	AddressTypeRandomID
	AddressTypeAnonymous
)

// resolveOwnAddressType implements §4.2 step 2: caller override wins over
// the local privacy setting, except ANONYMOUS and DEFAULT which defer to
// it.
func resolveOwnAddressType(requested AddressType, privacyEnabled bool) hci.OwnAddressType {
	switch requested {
	case AddressTypePublic:
		return hci.OwnAddressTypePublicDeviceAddress
	case AddressTypeRandom, AddressTypeRandomID:
		return hci.OwnAddressTypeRandomDeviceAddress
	default: // Default, Anonymous
		if privacyEnabled {
			return hci.OwnAddressTypeRandomDeviceAddress
		}
		return hci.OwnAddressTypePublicDeviceAddress
	}
}

func isNonPublic(t hci.OwnAddressType) bool {
	return t != hci.OwnAddressTypePublicDeviceAddress
}

// Params is the caller-supplied advertising-set configuration forwarded to
// LE Set Extended Advertising Parameters.
type Params struct {
	EventProperties         hci.AdvertisingEventProperties
	PrimaryIntervalMin      uint32
	PrimaryIntervalMax      uint32
	PrimaryChannelMap       hci.AdvertisingChannelMap
	OwnAddressType          AddressType
	PeerAddressType         hci.PeerAddressType
	PeerAddress             hci.BDAddr
	FilterPolicy            hci.AdvertisingFilterPolicy
	TxPower                 int8
	PrimaryPHY              hci.PrimaryAdvertisingPHY
	SecondaryMaxSkip        uint8
	SecondaryPHY            hci.SecondaryAdvertisingPHY
	ScanRequestNotifyEnable bool
}

// Connectable reports whether bit 0 of the event properties is set.
func (p Params) Connectable() bool {
	return p.EventProperties&hci.AdvertisingEventPropertiesConnectable != 0
}

// Directed reports whether either directed-advertising bit (2 or 3, per
// §4.10) is set.
func (p Params) Directed() bool {
	return p.EventProperties&(hci.AdvertisingEventPropertiesDirected|hci.AdvertisingEventPropertiesHighDutyCycle) != 0
}

// PeriodicParams configures an optional periodic advertising train.
type PeriodicParams struct {
	Enable      bool
	IntervalMin uint16
	IntervalMax uint16
	Properties  hci.PeriodicAdvertisingProperties
}

// Payload pairs a plaintext payload with an optional payload to be
// encrypted before emission, per the *_enc fields of AdvertisingInstance.
type Payload struct {
	Plain []byte
	Enc   []byte
}

func (p Payload) empty() bool {
	return len(p.Plain) == 0 && len(p.Enc) == 0
}

// BIGParams configures LE Create BIG.
type BIGParams struct {
	NumBIS              uint8
	SDUInterval         uint32
	MaxSDU              uint16
	MaxTransportLatency uint16
	RTN                 uint8
	PHY                 uint8
	Packing             hci.BIGPacking
	Framing             hci.BIGFraming
	Encryption          hci.BIGEncryption
	BroadcastCode       [16]byte
}
