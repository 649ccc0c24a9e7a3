package hci

import (
	"encoding/binary"
	"errors"
	"io"
)

// Section 7.8.53

type AdvertisingEventProperties uint16

const (
	AdvertisingEventPropertiesConnectable    AdvertisingEventProperties = (1 << 0)
	AdvertisingEventPropertiesScannable      AdvertisingEventProperties = (1 << 1)
	AdvertisingEventPropertiesDirected       AdvertisingEventProperties = (1 << 2)
	AdvertisingEventPropertiesHighDutyCycle  AdvertisingEventProperties = (1 << 3)
	AdvertisingEventPropertiesLegacy         AdvertisingEventProperties = (1 << 4)
	AdvertisingEventPropertiesAnonymous      AdvertisingEventProperties = (1 << 5)
	AdvertisingEventPropertiesIncludeTxPower AdvertisingEventProperties = (1 << 6)
)

type PrimaryAdvertisingPHY uint8

const (
	PrimaryAdvertisingPHY1M    PrimaryAdvertisingPHY = 0x01
	PrimaryAdvertisingPHYCoded PrimaryAdvertisingPHY = 0x03
)

type SecondaryAdvertisingPHY uint8

const (
	SecondaryAdvertisingPHY1M    SecondaryAdvertisingPHY = 0x01
	SecondaryAdvertisingPHY2M    SecondaryAdvertisingPHY = 0x02
	SecondaryAdvertisingPHYCoded SecondaryAdvertisingPHY = 0x03
)

type LESetExtendedAdvertisingParametersCommandPacket struct {
	AdvertisingHandle             uint8
	AdvertisingEventProperties    AdvertisingEventProperties
	PrimaryAdvertisingIntervalMin uint32 // 3 octets on the wire
	PrimaryAdvertisingIntervalMax uint32 // 3 octets on the wire
	PrimaryAdvertisingChannelMap  AdvertisingChannelMap
	OwnAddressType                OwnAddressType
	PeerAddressType               PeerAddressType
	PeerAddress                   BDAddr
	AdvertisingFilterPolicy       AdvertisingFilterPolicy
	AdvertisingTxPower            int8
	PrimaryAdvertisingPHY         PrimaryAdvertisingPHY
	SecondaryAdvertisingMaxSkip   uint8
	SecondaryAdvertisingPHY       SecondaryAdvertisingPHY
	AdvertisingSID                uint8
	ScanRequestNotificationEnable bool
}

func (p *LESetExtendedAdvertisingParametersCommandPacket) Marshal() ([]byte, error) {
	buf := make([]byte, 29)
	buf[0] = byte(PacketTypeCommand)
	binary.LittleEndian.PutUint16(buf[1:], uint16(OpcodeLESetExtendedAdvertisingParameters))
	buf[3] = 25
	buf[4] = p.AdvertisingHandle
	binary.LittleEndian.PutUint16(buf[5:], uint16(p.AdvertisingEventProperties))
	put24(buf[7:10], p.PrimaryAdvertisingIntervalMin)
	put24(buf[10:13], p.PrimaryAdvertisingIntervalMax)
	buf[13] = byte(p.PrimaryAdvertisingChannelMap)
	buf[14] = byte(p.OwnAddressType)
	buf[15] = byte(p.PeerAddressType)
	copy(buf[16:22], p.PeerAddress[:])
	buf[22] = byte(p.AdvertisingFilterPolicy)
	buf[23] = byte(p.AdvertisingTxPower)
	buf[24] = byte(p.PrimaryAdvertisingPHY)
	buf[25] = p.SecondaryAdvertisingMaxSkip
	buf[26] = byte(p.SecondaryAdvertisingPHY)
	buf[27] = p.AdvertisingSID
	if p.ScanRequestNotificationEnable {
		buf[28] = 1
	}
	return buf, nil
}

func (p *LESetExtendedAdvertisingParametersCommandPacket) Unmarshal(buf []byte) error {
	if len(buf) < 29 {
		return io.ErrUnexpectedEOF
	}
	p.AdvertisingHandle = buf[4]
	p.AdvertisingEventProperties = AdvertisingEventProperties(binary.LittleEndian.Uint16(buf[5:7]))
	p.PrimaryAdvertisingIntervalMin = get24(buf[7:10])
	p.PrimaryAdvertisingIntervalMax = get24(buf[10:13])
	p.PrimaryAdvertisingChannelMap = AdvertisingChannelMap(buf[13])
	p.OwnAddressType = OwnAddressType(buf[14])
	p.PeerAddressType = PeerAddressType(buf[15])
	copy(p.PeerAddress[:], buf[16:22])
	p.AdvertisingFilterPolicy = AdvertisingFilterPolicy(buf[22])
	p.AdvertisingTxPower = int8(buf[23])
	p.PrimaryAdvertisingPHY = PrimaryAdvertisingPHY(buf[24])
	p.SecondaryAdvertisingMaxSkip = buf[25]
	p.SecondaryAdvertisingPHY = SecondaryAdvertisingPHY(buf[26])
	p.AdvertisingSID = buf[27]
	p.ScanRequestNotificationEnable = buf[28] == 1
	return nil
}

func (p *LESetExtendedAdvertisingParametersCommandPacket) Opcode() Opcode {
	return OpcodeLESetExtendedAdvertisingParameters
}

type SetExtendedAdvertisingParametersRequest = LESetExtendedAdvertisingParametersCommandPacket

// LESetExtendedAdvertisingParameters returns the selected TX power chosen by
// the controller alongside any command error.
func (a *Adapter) LESetExtendedAdvertisingParameters(request *SetExtendedAdvertisingParametersRequest) (int8, error) {
	if request.PrimaryAdvertisingChannelMap == 0 {
		request.PrimaryAdvertisingChannelMap = AdvertisingChannelMapDefault
	}
	if request.PrimaryAdvertisingPHY == 0 {
		request.PrimaryAdvertisingPHY = PrimaryAdvertisingPHY1M
	}
	if request.SecondaryAdvertisingPHY == 0 {
		request.SecondaryAdvertisingPHY = SecondaryAdvertisingPHY1M
	}
	buf, err := a.op(request)
	if err != nil {
		return 0, err
	}
	if buf[0] != 0 {
		return 0, errors.New("command failed")
	}
	return int8(buf[1]), nil
}

func put24(buf []byte, v uint32) {
	buf[0] = byte(v)
	buf[1] = byte(v >> 8)
	buf[2] = byte(v >> 16)
}

func get24(buf []byte) uint32 {
	return uint32(buf[0]) | uint32(buf[1])<<8 | uint32(buf[2])<<16
}
