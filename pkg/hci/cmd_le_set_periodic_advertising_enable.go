package hci

import (
	"encoding/binary"
	"errors"
	"io"
)

type PeriodicAdvertisingEnable uint8

const (
	PeriodicAdvertisingEnableEnabled    PeriodicAdvertisingEnable = (1 << 0)
	PeriodicAdvertisingEnableIncludeADI PeriodicAdvertisingEnable = (1 << 1)
)

type LESetPeriodicAdvertisingEnableCommandPacket struct {
	Enable            PeriodicAdvertisingEnable
	AdvertisingHandle uint8
}

func (p *LESetPeriodicAdvertisingEnableCommandPacket) Marshal() ([]byte, error) {
	buf := make([]byte, 6)
	buf[0] = byte(PacketTypeCommand)
	binary.LittleEndian.PutUint16(buf[1:], uint16(OpcodeLESetPeriodicAdvertisingEnable))
	buf[3] = 2
	buf[4] = byte(p.Enable)
	buf[5] = p.AdvertisingHandle
	return buf, nil
}

func (p *LESetPeriodicAdvertisingEnableCommandPacket) Unmarshal(buf []byte) error {
	if len(buf) < 6 {
		return io.ErrUnexpectedEOF
	}
	p.Enable = PeriodicAdvertisingEnable(buf[4])
	p.AdvertisingHandle = buf[5]
	return nil
}

func (p *LESetPeriodicAdvertisingEnableCommandPacket) Opcode() Opcode {
	return OpcodeLESetPeriodicAdvertisingEnable
}

func (a *Adapter) LESetPeriodicAdvertisingEnable(enable PeriodicAdvertisingEnable, handle uint8) error {
	buf, err := a.op(&LESetPeriodicAdvertisingEnableCommandPacket{Enable: enable, AdvertisingHandle: handle})
	if err != nil {
		return err
	}
	if buf[0] != 0 {
		return errors.New("command failed")
	}
	return nil
}
