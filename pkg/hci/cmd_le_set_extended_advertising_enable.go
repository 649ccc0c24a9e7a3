package hci

import (
	"encoding/binary"
	"errors"
	"io"
)

// Section 7.8.56

type ExtendedAdvertisingEnableSet struct {
	AdvertisingHandle            uint8
	Duration                     uint16 // 10ms units, 0 = no duration limit
	MaxExtendedAdvertisingEvents uint8  // 0 = no event limit
}

type LESetExtendedAdvertisingEnableCommandPacket struct {
	Enable         bool
	AdvertisingSet []ExtendedAdvertisingEnableSet
}

func (p *LESetExtendedAdvertisingEnableCommandPacket) Marshal() ([]byte, error) {
	n := len(p.AdvertisingSet)
	buf := make([]byte, 6+4*n)
	buf[0] = byte(PacketTypeCommand)
	binary.LittleEndian.PutUint16(buf[1:], uint16(OpcodeLESetExtendedAdvertisingEnable))
	buf[3] = byte(2 + 4*n)
	if p.Enable {
		buf[4] = 1
	}
	buf[5] = byte(n)
	for i, s := range p.AdvertisingSet {
		o := 6 + 4*i
		buf[o] = s.AdvertisingHandle
		binary.LittleEndian.PutUint16(buf[o+1:], s.Duration)
		buf[o+3] = s.MaxExtendedAdvertisingEvents
	}
	return buf, nil
}

func (p *LESetExtendedAdvertisingEnableCommandPacket) Unmarshal(buf []byte) error {
	if len(buf) < 6 {
		return io.ErrUnexpectedEOF
	}
	p.Enable = buf[4] == 1
	n := int(buf[5])
	if len(buf) != 6+4*n {
		return io.ErrShortBuffer
	}
	p.AdvertisingSet = make([]ExtendedAdvertisingEnableSet, n)
	for i := range p.AdvertisingSet {
		o := 6 + 4*i
		p.AdvertisingSet[i] = ExtendedAdvertisingEnableSet{
			AdvertisingHandle:            buf[o],
			Duration:                     binary.LittleEndian.Uint16(buf[o+1:]),
			MaxExtendedAdvertisingEvents: buf[o+3],
		}
	}
	return nil
}

func (p *LESetExtendedAdvertisingEnableCommandPacket) Opcode() Opcode {
	return OpcodeLESetExtendedAdvertisingEnable
}

func (a *Adapter) LESetExtendedAdvertisingEnable(enable bool, sets ...ExtendedAdvertisingEnableSet) error {
	buf, err := a.op(&LESetExtendedAdvertisingEnableCommandPacket{Enable: enable, AdvertisingSet: sets})
	if err != nil {
		return err
	}
	if buf[0] != 0 {
		return errors.New("command failed")
	}
	return nil
}
