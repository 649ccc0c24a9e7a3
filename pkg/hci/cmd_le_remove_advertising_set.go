package hci

import (
	"encoding/binary"
	"io"
)

// Section 7.8.59

type LERemoveAdvertisingSetCommandPacket struct {
	AdvertisingHandle uint8
}

func (p *LERemoveAdvertisingSetCommandPacket) Marshal() ([]byte, error) {
	buf := make([]byte, 5)
	buf[0] = byte(PacketTypeCommand)
	binary.LittleEndian.PutUint16(buf[1:], uint16(OpcodeLERemoveAdvertisingSet))
	buf[3] = 1
	buf[4] = p.AdvertisingHandle
	return buf, nil
}

func (p *LERemoveAdvertisingSetCommandPacket) Unmarshal(buf []byte) error {
	if len(buf) < 5 {
		return io.ErrUnexpectedEOF
	}
	p.AdvertisingHandle = buf[4]
	return nil
}

func (p *LERemoveAdvertisingSetCommandPacket) Opcode() Opcode {
	return OpcodeLERemoveAdvertisingSet
}
