package hci

import (
	"encoding/binary"
	"errors"
	"io"
)

// Section 7.8.54

type LESetAdvertisingSetRandomAddressCommandPacket struct {
	AdvertisingHandle uint8
	RandomAddress     BDAddr
}

func (p *LESetAdvertisingSetRandomAddressCommandPacket) Marshal() ([]byte, error) {
	buf := make([]byte, 11)
	buf[0] = byte(PacketTypeCommand)
	binary.LittleEndian.PutUint16(buf[1:], uint16(OpcodeLESetAdvertisingSetRandomAddress))
	buf[3] = 7
	buf[4] = p.AdvertisingHandle
	copy(buf[5:11], p.RandomAddress[:])
	return buf, nil
}

func (p *LESetAdvertisingSetRandomAddressCommandPacket) Unmarshal(buf []byte) error {
	if len(buf) < 11 {
		return io.ErrUnexpectedEOF
	}
	p.AdvertisingHandle = buf[4]
	copy(p.RandomAddress[:], buf[5:11])
	return nil
}

func (p *LESetAdvertisingSetRandomAddressCommandPacket) Opcode() Opcode {
	return OpcodeLESetAdvertisingSetRandomAddress
}

func (a *Adapter) LESetAdvertisingSetRandomAddress(handle uint8, addr BDAddr) error {
	buf, err := a.op(&LESetAdvertisingSetRandomAddressCommandPacket{AdvertisingHandle: handle, RandomAddress: addr})
	if err != nil {
		return err
	}
	if buf[0] != 0 {
		return errors.New("command failed")
	}
	return nil
}
