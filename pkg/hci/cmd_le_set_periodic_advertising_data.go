package hci

import (
	"encoding/binary"
	"errors"
	"io"
)

// MaxPeriodicAdvertisingDataFragmentLength is the largest Advertising_Data
// payload accepted in a single LE Set Periodic Advertising Data command
// (Core 5.4, Vol 4, Part E, Section 7.8.62).
const MaxPeriodicAdvertisingDataFragmentLength = 252

type LESetPeriodicAdvertisingDataCommandPacket struct {
	AdvertisingHandle uint8
	Operation         DataOperation
	AdvertisingData   []byte
}

func (p *LESetPeriodicAdvertisingDataCommandPacket) Marshal() ([]byte, error) {
	if len(p.AdvertisingData) > MaxPeriodicAdvertisingDataFragmentLength {
		return nil, io.ErrShortWrite
	}
	buf := make([]byte, 7+len(p.AdvertisingData))
	buf[0] = byte(PacketTypeCommand)
	binary.LittleEndian.PutUint16(buf[1:], uint16(OpcodeLESetPeriodicAdvertisingData))
	buf[3] = byte(3 + len(p.AdvertisingData))
	buf[4] = p.AdvertisingHandle
	buf[5] = byte(p.Operation)
	buf[6] = byte(len(p.AdvertisingData))
	copy(buf[7:], p.AdvertisingData)
	return buf, nil
}

func (p *LESetPeriodicAdvertisingDataCommandPacket) Unmarshal(buf []byte) error {
	if len(buf) < 7 {
		return io.ErrUnexpectedEOF
	}
	p.AdvertisingHandle = buf[4]
	p.Operation = DataOperation(buf[5])
	n := int(buf[6])
	if len(buf) != 7+n {
		return io.ErrShortBuffer
	}
	p.AdvertisingData = buf[7:]
	return nil
}

func (p *LESetPeriodicAdvertisingDataCommandPacket) Opcode() Opcode {
	return OpcodeLESetPeriodicAdvertisingData
}

func (a *Adapter) LESetPeriodicAdvertisingData(handle uint8, op DataOperation, data []byte) error {
	buf, err := a.op(&LESetPeriodicAdvertisingDataCommandPacket{
		AdvertisingHandle: handle,
		Operation:         op,
		AdvertisingData:   data,
	})
	if err != nil {
		return err
	}
	if buf[0] != 0 {
		return errors.New("command failed")
	}
	return nil
}
