package hci

import (
	"encoding/binary"
	"io"
)

// Section 7.8.103

type BIGPacking uint8

const (
	BIGPackingSequential  BIGPacking = 0x00
	BIGPackingInterleaved BIGPacking = 0x01
)

type BIGFraming uint8

const (
	BIGFramingUnframed BIGFraming = 0x00
	BIGFramingFramed   BIGFraming = 0x01
)

type BIGEncryption uint8

const (
	BIGEncryptionUnencrypted BIGEncryption = 0x00
	BIGEncryptionEncrypted   BIGEncryption = 0x01
)

type LECreateBIGCommandPacket struct {
	BIGHandle           uint8
	AdvertisingHandle   uint8
	NumBIS              uint8
	SDUInterval         uint32 // 3 octets on the wire
	MaxSDU              uint16
	MaxTransportLatency uint16
	RTN                 uint8
	PHY                 uint8
	Packing             BIGPacking
	Framing             BIGFraming
	Encryption          BIGEncryption
	BroadcastCode       [16]byte
}

func (p *LECreateBIGCommandPacket) Marshal() ([]byte, error) {
	buf := make([]byte, 35)
	buf[0] = byte(PacketTypeCommand)
	binary.LittleEndian.PutUint16(buf[1:], uint16(OpcodeLECreateBIG))
	buf[3] = 31
	buf[4] = p.BIGHandle
	buf[5] = p.AdvertisingHandle
	buf[6] = p.NumBIS
	put24(buf[7:10], p.SDUInterval)
	binary.LittleEndian.PutUint16(buf[10:], p.MaxSDU)
	binary.LittleEndian.PutUint16(buf[12:], p.MaxTransportLatency)
	buf[14] = p.RTN
	buf[15] = p.PHY
	buf[16] = byte(p.Packing)
	buf[17] = byte(p.Framing)
	buf[18] = byte(p.Encryption)
	copy(buf[19:35], p.BroadcastCode[:])
	return buf, nil
}

func (p *LECreateBIGCommandPacket) Unmarshal(buf []byte) error {
	if len(buf) < 35 {
		return io.ErrUnexpectedEOF
	}
	p.BIGHandle = buf[4]
	p.AdvertisingHandle = buf[5]
	p.NumBIS = buf[6]
	p.SDUInterval = get24(buf[7:10])
	p.MaxSDU = binary.LittleEndian.Uint16(buf[10:12])
	p.MaxTransportLatency = binary.LittleEndian.Uint16(buf[12:14])
	p.RTN = buf[14]
	p.PHY = buf[15]
	p.Packing = BIGPacking(buf[16])
	p.Framing = BIGFraming(buf[17])
	p.Encryption = BIGEncryption(buf[18])
	copy(p.BroadcastCode[:], buf[19:35])
	return nil
}

func (p *LECreateBIGCommandPacket) Opcode() Opcode {
	return OpcodeLECreateBIG
}

// LECreateBIG returns the Command Status byte immediately; the eventual
// outcome (success or failure to schedule the BIG) arrives later as a
// CreateBIGComplete event, obtained via Adapter.Events.
func (a *Adapter) LECreateBIG(p *LECreateBIGCommandPacket) (uint8, error) {
	return a.opStatus(p)
}
