package hci

import (
	"encoding/binary"
	"errors"
	"io"
)

type LESetExtendedScanResponseDataCommandPacket struct {
	AdvertisingHandle  uint8
	Operation          DataOperation
	FragmentPreference FragmentPreference
	ScanResponseData   []byte
}

func (p *LESetExtendedScanResponseDataCommandPacket) Marshal() ([]byte, error) {
	if len(p.ScanResponseData) > MaxExtendedAdvertisingDataFragmentLength {
		return nil, io.ErrShortWrite
	}
	buf := make([]byte, 8+len(p.ScanResponseData))
	buf[0] = byte(PacketTypeCommand)
	binary.LittleEndian.PutUint16(buf[1:], uint16(OpcodeLESetExtendedScanResponseData))
	buf[3] = byte(4 + len(p.ScanResponseData))
	buf[4] = p.AdvertisingHandle
	buf[5] = byte(p.Operation)
	buf[6] = byte(p.FragmentPreference)
	buf[7] = byte(len(p.ScanResponseData))
	copy(buf[8:], p.ScanResponseData)
	return buf, nil
}

func (p *LESetExtendedScanResponseDataCommandPacket) Unmarshal(buf []byte) error {
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
	p.ScanResponseData = buf[8:]
	return nil
}

func (p *LESetExtendedScanResponseDataCommandPacket) Opcode() Opcode {
	return OpcodeLESetExtendedScanResponseData
}

func (a *Adapter) LESetExtendedScanResponseData(handle uint8, op DataOperation, pref FragmentPreference, data []byte) error {
	buf, err := a.op(&LESetExtendedScanResponseDataCommandPacket{
		AdvertisingHandle:  handle,
		Operation:          op,
		FragmentPreference: pref,
		ScanResponseData:   data,
	})
	if err != nil {
		return err
	}
	if buf[0] != 0 {
		return errors.New("command failed")
	}
	return nil
}
