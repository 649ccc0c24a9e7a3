package hci

import (
	"encoding/binary"
	"io"
)

// Section 7.8.105

type LETerminateBIGCommandPacket struct {
	BIGHandle uint8
	Reason    uint8
}

func (p *LETerminateBIGCommandPacket) Marshal() ([]byte, error) {
	buf := make([]byte, 6)
	buf[0] = byte(PacketTypeCommand)
	binary.LittleEndian.PutUint16(buf[1:], uint16(OpcodeLETerminateBIG))
	buf[3] = 2
	buf[4] = p.BIGHandle
	buf[5] = p.Reason
	return buf, nil
}

func (p *LETerminateBIGCommandPacket) Unmarshal(buf []byte) error {
	if len(buf) < 6 {
		return io.ErrUnexpectedEOF
	}
	p.BIGHandle = buf[4]
	p.Reason = buf[5]
	return nil
}

func (p *LETerminateBIGCommandPacket) Opcode() Opcode {
	return OpcodeLETerminateBIG
}

// LETerminateBIG returns the Command Status byte; the eventual outcome
// arrives later as a TerminateBIGComplete event.
func (a *Adapter) LETerminateBIG(handle uint8, reason uint8) (uint8, error) {
	return a.opStatus(&LETerminateBIGCommandPacket{BIGHandle: handle, Reason: reason})
}
