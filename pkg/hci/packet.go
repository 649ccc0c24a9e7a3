package hci

import (
	"encoding/binary"
	"errors"
	"io"
	"math"
)

type Packet interface {
	Marshal() ([]byte, error)
	Unmarshal([]byte) error
}

type CommandPacket interface {
	Packet
	Opcode() Opcode
}

func Unmarshal(buf []byte) (Packet, error) {
	if len(buf) == 0 {
		return nil, io.ErrShortBuffer
	}
	switch PacketType(buf[0]) {
	case PacketTypeCommand:
		p := &GenericCommandPacket{}
		if err := p.Unmarshal(buf[1:]); err != nil {
			return nil, err
		}
		return p, nil
	case PacketTypeEvent:
		if len(buf) < 3 {
			return nil, io.ErrShortBuffer
		}
		s := uint8(buf[2])
		if len(buf) != int(s+3) {
			return nil, io.ErrShortBuffer
		}
		switch EventCode(buf[1]) {
		case EventCodeCommandComplete:
			p := &CommandCompleteEventPacket{}
			return p, p.Unmarshal(buf)
		case EventCodeCommandStatus:
			p := &CommandStatusEventPacket{}
			return p, p.Unmarshal(buf)
		case EventCodeNumberOfCompletedPackets:
			p := &NumberOfCompletedPacketsEventPacket{}
			return p, p.Unmarshal(buf)
		case EventCodeLEMeta:
			if len(buf) < 4 {
				return nil, io.ErrShortBuffer
			}
			switch LEMetaSubeventCode(buf[3]) {
			case LEMetaSubeventCodeAdvertisingSetTerminated:
				p := &AdvertisingSetTerminatedEventPacket{}
				return p, p.Unmarshal(buf)
			case LEMetaSubeventCodeCreateBIGComplete:
				p := &CreateBIGCompleteEventPacket{}
				return p, p.Unmarshal(buf)
			case LEMetaSubeventCodeTerminateBIGComplete:
				p := &TerminateBIGCompleteEventPacket{}
				return p, p.Unmarshal(buf)
			}
			return &UnhandledLEMetaEventPacket{Subevent: LEMetaSubeventCode(buf[3])}, nil
		}
		return &UnhandledEventPacket{Code: EventCode(buf[1])}, nil
	}
	return nil, errors.New("unsupported packet type")
}

// UnhandledEventPacket and UnhandledLEMetaEventPacket let the reader loop
// skip event types this package doesn't model without tearing down the
// connection.
type UnhandledEventPacket struct{ Code EventCode }

func (p *UnhandledEventPacket) Marshal() ([]byte, error)   { return nil, errors.New("unimplemented") }
func (p *UnhandledEventPacket) Unmarshal(buf []byte) error { return nil }

type UnhandledLEMetaEventPacket struct{ Subevent LEMetaSubeventCode }

func (p *UnhandledLEMetaEventPacket) Marshal() ([]byte, error) {
	return nil, errors.New("unimplemented")
}
func (p *UnhandledLEMetaEventPacket) Unmarshal(buf []byte) error { return nil }

// GenericCommandPacket encompasses many argument-less packets.
type GenericCommandPacket struct {
	opcode Opcode
}

func NewGenericCommandPacket(opcode Opcode) *GenericCommandPacket {
	return &GenericCommandPacket{opcode}
}

func (p *GenericCommandPacket) Marshal() ([]byte, error) {
	buf := make([]byte, 4)
	buf[0] = uint8(PacketTypeCommand)
	binary.LittleEndian.PutUint16(buf[1:], uint16(p.opcode))
	return buf, nil
}

func (p *GenericCommandPacket) Unmarshal(buf []byte) error {
	if buf[0] != byte(PacketTypeCommand) {
		return errors.New("incorrect packet")
	}
	if int(buf[3]) != 0 || len(buf) != 4 {
		return io.ErrShortBuffer
	}
	p.opcode = Opcode(binary.LittleEndian.Uint16(buf[1:2]))
	return nil
}

func (p *GenericCommandPacket) Opcode() Opcode {
	return p.opcode
}

type CommandCompleteEventPacket struct {
	NumCommandPackets uint8
	CommandOpcode     Opcode
	ReturnParameters  []byte
}

func (p *CommandCompleteEventPacket) Unmarshal(buf []byte) error {
	if buf[0] != byte(PacketTypeEvent) || buf[1] != byte(EventCodeCommandComplete) {
		return errors.New("incorrect packet")
	}
	s := int(buf[2])
	if len(buf) != s+3 {
		return io.ErrShortBuffer
	}
	p.NumCommandPackets = buf[3]
	p.CommandOpcode = Opcode(binary.LittleEndian.Uint16(buf[4:]))
	p.ReturnParameters = buf[6:]
	return nil
}

func (p *CommandCompleteEventPacket) Marshal() ([]byte, error) {
	if len(p.ReturnParameters)+2 > math.MaxUint8 {
		return nil, io.ErrShortWrite
	}
	buf := make([]byte, 6+len(p.ReturnParameters))
	buf[0] = byte(PacketTypeEvent)
	buf[1] = byte(EventCodeCommandComplete)
	buf[2] = byte(len(p.ReturnParameters) + 2)
	buf[3] = byte(p.NumCommandPackets)
	binary.LittleEndian.PutUint16(buf[4:], uint16(p.CommandOpcode))
	copy(buf[6:], p.ReturnParameters)
	return buf, nil
}

// CommandStatusEventPacket acknowledges a command before its eventual
// outcome arrives as a separate event. LE Create BIG and LE Terminate BIG
// use this instead of Command Complete since the real result depends on
// the controller scheduling radio time for the BIG.
type CommandStatusEventPacket struct {
	Status            uint8
	NumCommandPackets uint8
	CommandOpcode     Opcode
}

func (p *CommandStatusEventPacket) Unmarshal(buf []byte) error {
	if buf[0] != byte(PacketTypeEvent) || buf[1] != byte(EventCodeCommandStatus) {
		return errors.New("incorrect packet")
	}
	if len(buf) != 7 {
		return io.ErrShortBuffer
	}
	p.Status = buf[3]
	p.NumCommandPackets = buf[4]
	p.CommandOpcode = Opcode(binary.LittleEndian.Uint16(buf[5:]))
	return nil
}

func (p *CommandStatusEventPacket) Marshal() ([]byte, error) {
	buf := make([]byte, 7)
	buf[0] = byte(PacketTypeEvent)
	buf[1] = byte(EventCodeCommandStatus)
	buf[2] = 4
	buf[3] = p.Status
	buf[4] = p.NumCommandPackets
	binary.LittleEndian.PutUint16(buf[5:], uint16(p.CommandOpcode))
	return buf, nil
}

type NumberOfCompletedPacketsEventPacket struct {
	NumHandles          uint8
	ConnectionHandles   []uint16
	NumCompletedPackets []uint16
}

func (p *NumberOfCompletedPacketsEventPacket) Unmarshal(buf []byte) error {
	if buf[0] != byte(PacketTypeEvent) || buf[1] != byte(EventCodeNumberOfCompletedPackets) {
		return errors.New("incorrect packet")
	}
	s := int(buf[2])
	if len(buf) != s+3 {
		return io.ErrShortBuffer
	}
	p.NumHandles = buf[3]
	p.ConnectionHandles = make([]uint16, p.NumHandles)
	p.NumCompletedPackets = make([]uint16, p.NumHandles)
	for i := 0; i < int(p.NumHandles); i++ {
		p.ConnectionHandles[i] = binary.LittleEndian.Uint16(buf[4+i*2 : 4+i*2+2])
		p.NumCompletedPackets[i] = binary.LittleEndian.Uint16(buf[4+int(p.NumHandles)+i*2 : 4+int(p.NumHandles)+i*2+2])
	}
	return nil
}

func (p *NumberOfCompletedPacketsEventPacket) Marshal() ([]byte, error) {
	if len(p.ConnectionHandles) != int(p.NumHandles) || len(p.NumCompletedPackets) != int(p.NumHandles) {
		return nil, io.ErrShortWrite
	}
	buf := make([]byte, 4+len(p.ConnectionHandles)+len(p.NumCompletedPackets)*2)
	buf[0] = byte(PacketTypeEvent)
	buf[1] = byte(EventCodeNumberOfCompletedPackets)
	buf[2] = byte(len(p.ConnectionHandles) + len(p.NumCompletedPackets))
	buf[3] = byte(p.NumHandles)
	for i := 0; i < int(p.NumHandles); i++ {
		binary.LittleEndian.PutUint16(buf[4+i*2:], p.ConnectionHandles[i])
		binary.LittleEndian.PutUint16(buf[4+int(p.NumHandles)+i*2:], p.NumCompletedPackets[i])
	}
	return buf, nil
}

// AdvertisingSetTerminatedEventPacket is Vol 4, Part E, Section 7.7.65.18.
type AdvertisingSetTerminatedEventPacket struct {
	Status                   uint8
	AdvertisingHandle        uint8
	ConnectionHandle         uint16
	NumCompletedExtAdvEvents uint8
}

func (p *AdvertisingSetTerminatedEventPacket) Unmarshal(buf []byte) error {
	if buf[0] != byte(PacketTypeEvent) || buf[1] != byte(EventCodeLEMeta) {
		return errors.New("incorrect packet")
	}
	if buf[3] != byte(LEMetaSubeventCodeAdvertisingSetTerminated) || len(buf) != 9 {
		return io.ErrShortBuffer
	}
	p.Status = buf[4]
	p.AdvertisingHandle = buf[5]
	p.ConnectionHandle = binary.LittleEndian.Uint16(buf[6:8])
	p.NumCompletedExtAdvEvents = buf[8]
	return nil
}

func (p *AdvertisingSetTerminatedEventPacket) Marshal() ([]byte, error) {
	buf := make([]byte, 9)
	buf[0] = byte(PacketTypeEvent)
	buf[1] = byte(EventCodeLEMeta)
	buf[2] = 6
	buf[3] = byte(LEMetaSubeventCodeAdvertisingSetTerminated)
	buf[4] = p.Status
	buf[5] = p.AdvertisingHandle
	binary.LittleEndian.PutUint16(buf[6:], p.ConnectionHandle)
	buf[8] = p.NumCompletedExtAdvEvents
	return buf, nil
}

// CreateBIGCompleteEventPacket is Vol 4, Part E, Section 7.7.65.27. The
// per-BIS PHY/NSE/BN/PTO/IRC/MaxPDU/ISOInterval fields are carried through
// but not interpreted; only Status, BIGHandle and the connection handle
// list matter to the advertising manager.
type CreateBIGCompleteEventPacket struct {
	Status               uint8
	BIGHandle            uint8
	BIGSyncDelay         uint32 // 3 octets on the wire
	TransportLatencyBIG  uint32 // 3 octets on the wire
	PHY                  uint8
	NSE                  uint8
	BN                   uint8
	PTO                  uint8
	IRC                  uint8
	MaxPDU               uint16
	ISOInterval          uint16
	NumBIS               uint8
	ConnectionHandleList []uint16
}

func (p *CreateBIGCompleteEventPacket) Unmarshal(buf []byte) error {
	if buf[0] != byte(PacketTypeEvent) || buf[1] != byte(EventCodeLEMeta) {
		return errors.New("incorrect packet")
	}
	if buf[3] != byte(LEMetaSubeventCodeCreateBIGComplete) {
		return errors.New("incorrect subevent")
	}
	if len(buf) < 22 {
		return io.ErrShortBuffer
	}
	p.Status = buf[4]
	p.BIGHandle = buf[5]
	p.BIGSyncDelay = uint32(buf[6]) | uint32(buf[7])<<8 | uint32(buf[8])<<16
	p.TransportLatencyBIG = uint32(buf[9]) | uint32(buf[10])<<8 | uint32(buf[11])<<16
	p.PHY = buf[12]
	p.NSE = buf[13]
	p.BN = buf[14]
	p.PTO = buf[15]
	p.IRC = buf[16]
	p.MaxPDU = binary.LittleEndian.Uint16(buf[17:19])
	p.ISOInterval = binary.LittleEndian.Uint16(buf[19:21])
	p.NumBIS = buf[21]
	if len(buf) != 22+2*int(p.NumBIS) {
		return io.ErrShortBuffer
	}
	p.ConnectionHandleList = make([]uint16, p.NumBIS)
	for i := 0; i < int(p.NumBIS); i++ {
		p.ConnectionHandleList[i] = binary.LittleEndian.Uint16(buf[22+2*i:])
	}
	return nil
}

func (p *CreateBIGCompleteEventPacket) Marshal() ([]byte, error) {
	return nil, errors.New("unimplemented")
}

// TerminateBIGCompleteEventPacket is Vol 4, Part E, Section 7.7.65.28.
type TerminateBIGCompleteEventPacket struct {
	BIGHandle uint8
	Reason    uint8
}

func (p *TerminateBIGCompleteEventPacket) Unmarshal(buf []byte) error {
	if buf[0] != byte(PacketTypeEvent) || buf[1] != byte(EventCodeLEMeta) {
		return errors.New("incorrect packet")
	}
	if buf[3] != byte(LEMetaSubeventCodeTerminateBIGComplete) || len(buf) != 6 {
		return io.ErrShortBuffer
	}
	p.BIGHandle = buf[4]
	p.Reason = buf[5]
	return nil
}

func (p *TerminateBIGCompleteEventPacket) Marshal() ([]byte, error) {
	buf := make([]byte, 6)
	buf[0] = byte(PacketTypeEvent)
	buf[1] = byte(EventCodeLEMeta)
	buf[2] = 3
	buf[3] = byte(LEMetaSubeventCodeTerminateBIGComplete)
	buf[4] = p.BIGHandle
	buf[5] = p.Reason
	return buf, nil
}
