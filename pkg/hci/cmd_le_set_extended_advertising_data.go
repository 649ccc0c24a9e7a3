package hci

import (
	"encoding/binary"
	"errors"
	"io"
)

// Section 7.8.55-7.8.56

// DataOperation selects how a fragment relates to others in the same
// advertising data transfer.
type DataOperation uint8

const (
	DataOperationIntermediate DataOperation = 0x00
	DataOperationFirst        DataOperation = 0x01
	DataOperationLast         DataOperation = 0x02
	DataOperationComplete     DataOperation = 0x03
	// DataOperationUnchanged only applies to LE Set Extended Advertising
	// Data: leave the data already in the controller untouched and just
	// restart advertising with it.
	DataOperationUnchanged DataOperation = 0x04
)

type FragmentPreference uint8

const (
	FragmentPreferenceMayFragment       FragmentPreference = 0x00
	FragmentPreferenceShouldNotFragment FragmentPreference = 0x01
)

// MaxExtendedAdvertisingDataFragmentLength is the largest Advertising_Data
// payload the controller accepts in a single HCI command (Core 5.4, Vol 4,
// Part E, Section 7.8.55).
const MaxExtendedAdvertisingDataFragmentLength = 251

type LESetExtendedAdvertisingDataCommandPacket struct {
	AdvertisingHandle  uint8
	Operation          DataOperation
	FragmentPreference FragmentPreference
	AdvertisingData    []byte
}

func (p *LESetExtendedAdvertisingDataCommandPacket) Marshal() ([]byte, error) {
	if len(p.AdvertisingData) > MaxExtendedAdvertisingDataFragmentLength {
		return nil, io.ErrShortWrite
	}
	buf := make([]byte, 8+len(p.AdvertisingData))
	buf[0] = byte(PacketTypeCommand)
	binary.LittleEndian.PutUint16(buf[1:], uint16(OpcodeLESetExtendedAdvertisingData))
	buf[3] = byte(4 + len(p.AdvertisingData))
	buf[4] = p.AdvertisingHandle
	buf[5] = byte(p.Operation)
	buf[6] = byte(p.FragmentPreference)
	buf[7] = byte(len(p.AdvertisingData))
	copy(buf[8:], p.AdvertisingData)
	return buf, nil
}

func (p *LESetExtendedAdvertisingDataCommandPacket) Unmarshal(buf []byte) error {
	if len(buf) < 8 {
		return io.ErrUnexpectedEOF
	}
	p.AdvertisingHandle = buf[4]
	p.Operation = DataOperation(buf[5])
	p.FragmentPreference = FragmentPreference(buf[6])
	n := int(buf[7])
	if len(buf) != 8+n {
		return io.ErrShortBuffer
	}
	p.AdvertisingData = buf[8:]
	return nil
}

func (p *LESetExtendedAdvertisingDataCommandPacket) Opcode() Opcode {
	return OpcodeLESetExtendedAdvertisingData
}

func (a *Adapter) LESetExtendedAdvertisingData(handle uint8, op DataOperation, pref FragmentPreference, data []byte) error {
	buf, err := a.op(&LESetExtendedAdvertisingDataCommandPacket{
		AdvertisingHandle:  handle,
		Operation:          op,
		FragmentPreference: pref,
		AdvertisingData:    data,
	})
	if err != nil {
		return err
	}
	if buf[0] != 0 {
		return errors.New("command failed")
	}
	return nil
}
