package hci

import (
	"encoding/binary"
	"errors"
	"io"
)

// Section 7.8.61

type PeriodicAdvertisingProperties uint16

const (
	PeriodicAdvertisingPropertiesIncludeTxPower PeriodicAdvertisingProperties = (1 << 6)
)

type LESetPeriodicAdvertisingParametersCommandPacket struct {
	AdvertisingHandle              uint8
	PeriodicAdvertisingIntervalMin uint16
	PeriodicAdvertisingIntervalMax uint16
	PeriodicAdvertisingProperties  PeriodicAdvertisingProperties
}

func (p *LESetPeriodicAdvertisingParametersCommandPacket) Marshal() ([]byte, error) {
	buf := make([]byte, 11)
	buf[0] = byte(PacketTypeCommand)
	binary.LittleEndian.PutUint16(buf[1:], uint16(OpcodeLESetPeriodicAdvertisingParameters))
	buf[3] = 7
	buf[4] = p.AdvertisingHandle
	binary.LittleEndian.PutUint16(buf[5:], p.PeriodicAdvertisingIntervalMin)
	binary.LittleEndian.PutUint16(buf[7:], p.PeriodicAdvertisingIntervalMax)
	binary.LittleEndian.PutUint16(buf[9:], uint16(p.PeriodicAdvertisingProperties))
	return buf, nil
}

func (p *LESetPeriodicAdvertisingParametersCommandPacket) Unmarshal(buf []byte) error {
	if len(buf) < 11 {
		return io.ErrUnexpectedEOF
	}
	p.AdvertisingHandle = buf[4]
	p.PeriodicAdvertisingIntervalMin = binary.LittleEndian.Uint16(buf[5:7])
	p.PeriodicAdvertisingIntervalMax = binary.LittleEndian.Uint16(buf[7:9])
	p.PeriodicAdvertisingProperties = PeriodicAdvertisingProperties(binary.LittleEndian.Uint16(buf[9:11]))
	return nil
}

func (p *LESetPeriodicAdvertisingParametersCommandPacket) Opcode() Opcode {
	return OpcodeLESetPeriodicAdvertisingParameters
}

func (a *Adapter) LESetPeriodicAdvertisingParameters(p *LESetPeriodicAdvertisingParametersCommandPacket) error {
	buf, err := a.op(p)
	if err != nil {
		return err
	}
	if buf[0] != 0 {
		return errors.New("command failed")
	}
	return nil
}
