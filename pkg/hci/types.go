package hci

type OwnAddressType uint8

const (
	OwnAddressTypePublicDeviceAddress         OwnAddressType = 0x00
	OwnAddressTypeRandomDeviceAddress         OwnAddressType = 0x01
	OwnAddressTypeControllerGeneratedOrPublic OwnAddressType = 0x02
	OwnAddressTypeControllerGeneratedOrRandom OwnAddressType = 0x03
)

type PeerAddressType uint8

const (
	PeerAddressTypePublicDeviceAddress PeerAddressType = 0x00
	PeerAddressTypeRandomDeviceAddress PeerAddressType = 0x01
)

type BDAddr [6]byte

// AdvertisingChannelMap is the bitmap of primary advertising channels
// (37/38/39) a set uses.
type AdvertisingChannelMap uint8

const (
	AdvertisingChannelMap37 AdvertisingChannelMap = 1 << 0
	AdvertisingChannelMap38 AdvertisingChannelMap = 1 << 1
	AdvertisingChannelMap39 AdvertisingChannelMap = 1 << 2

	AdvertisingChannelMapDefault = AdvertisingChannelMap37 | AdvertisingChannelMap38 | AdvertisingChannelMap39
)

// AdvertisingFilterPolicy controls which scan/connection requests the
// controller accepts for an advertising set.
type AdvertisingFilterPolicy uint8

const (
	AdvertisingFilterPolicyAny                            AdvertisingFilterPolicy = 0x00
	AdvertisingFilterPolicyFilterAcceptListScan           AdvertisingFilterPolicy = 0x01
	AdvertisingFilterPolicyFilterAcceptListConnect        AdvertisingFilterPolicy = 0x02
	AdvertisingFilterPolicyFilterAcceptListScanAndConnect AdvertisingFilterPolicy = 0x03
)
