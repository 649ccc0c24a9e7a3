package hci

import (
	"encoding/binary"
	"errors"
	"io"
	"sync"

	"github.com/google/uuid"
)

// Event is the tagged union of unsolicited controller events the
// advertising manager reacts to: advertising sets timing out or running out
// of events, and BIG creation/termination completing asynchronously after a
// Command Status acknowledgement.
type Event struct {
	AdvertisingSetTerminated *AdvertisingSetTerminatedEventPacket
	CreateBIGComplete        *CreateBIGCompleteEventPacket
	TerminateBIGComplete     *TerminateBIGCompleteEventPacket
}

// Adapter correlates HCI commands with their Command Complete / Command
// Status responses over a Socket, and fans out unsolicited events to any
// number of subscribers.
type Adapter struct {
	*Socket

	onPacketLock sync.Mutex
	onPacket     map[string]func(Packet, error)

	eventsLock sync.Mutex
	events     map[string]chan Event
}

func NewConn(s *Socket) *Adapter {
	a := &Adapter{
		Socket:   s,
		onPacket: make(map[string]func(Packet, error)),
		events:   make(map[string]chan Event),
	}
	go func() {
		for {
			p, err := a.ReadPacket()
			if err != nil {
				a.onPacketLock.Lock()
				for _, cb := range a.onPacket {
					go cb(nil, err)
				}
				a.onPacketLock.Unlock()
				return
			}
			var evt *Event
			switch p := p.(type) {
			case *AdvertisingSetTerminatedEventPacket:
				evt = &Event{AdvertisingSetTerminated: p}
			case *CreateBIGCompleteEventPacket:
				evt = &Event{CreateBIGComplete: p}
			case *TerminateBIGCompleteEventPacket:
				evt = &Event{TerminateBIGComplete: p}
			}
			if evt != nil {
				a.eventsLock.Lock()
				for _, ch := range a.events {
					select {
					case ch <- *evt:
					default:
					}
				}
				a.eventsLock.Unlock()
			}
			a.onPacketLock.Lock()
			for _, cb := range a.onPacket {
				go cb(p, nil)
			}
			a.onPacketLock.Unlock()
		}
	}()
	return a
}

// Events subscribes to unsolicited controller events. The returned function
// unsubscribes and closes the channel; it must be called to avoid leaking
// the channel.
func (a *Adapter) Events() (<-chan Event, func()) {
	ch := make(chan Event, 16)
	id := uuid.NewString()
	a.eventsLock.Lock()
	a.events[id] = ch
	a.eventsLock.Unlock()
	return ch, func() {
		a.eventsLock.Lock()
		if _, ok := a.events[id]; ok {
			delete(a.events, id)
			close(ch)
		}
		a.eventsLock.Unlock()
	}
}

// op sends a command and waits for the Command Complete event carrying its
// opcode, returning the return parameters.
func (a *Adapter) op(p CommandPacket) ([]byte, error) {
	done := make(chan []byte)
	defer close(done)
	id := uuid.NewString()
	a.onPacketLock.Lock()
	a.onPacket[id] = func(q Packet, err error) {
		if err != nil {
			done <- nil
			return
		}
		switch q := q.(type) {
		case *CommandCompleteEventPacket:
			if q.CommandOpcode != p.Opcode() {
				return
			}
			a.onPacketLock.Lock()
			delete(a.onPacket, id)
			a.onPacketLock.Unlock()
			done <- q.ReturnParameters
		}
	}
	a.onPacketLock.Unlock()
	if err := a.WritePacket(p); err != nil {
		return nil, err
	}
	return <-done, nil
}

// opStatus sends a command that is acknowledged with Command Status rather
// than Command Complete (LE Create BIG, LE Terminate BIG), returning the
// status byte. The command's eventual outcome arrives later as an Event.
func (a *Adapter) opStatus(p CommandPacket) (uint8, error) {
	done := make(chan uint8)
	defer close(done)
	id := uuid.NewString()
	a.onPacketLock.Lock()
	a.onPacket[id] = func(q Packet, err error) {
		if err != nil {
			done <- 0xFF
			return
		}
		switch q := q.(type) {
		case *CommandStatusEventPacket:
			if q.CommandOpcode != p.Opcode() {
				return
			}
			a.onPacketLock.Lock()
			delete(a.onPacket, id)
			a.onPacketLock.Unlock()
			done <- q.Status
		}
	}
	a.onPacketLock.Unlock()
	if err := a.WritePacket(p); err != nil {
		return 0, err
	}
	return <-done, nil
}

func (a *Adapter) Reset() error {
	buf, err := a.op(NewGenericCommandPacket(OpcodeReset))
	if err != nil {
		return err
	}
	if buf[0] != 0 {
		return errors.New("command failed")
	}
	return err
}

func (a *Adapter) ReadBDAddr() (BDAddr, error) {
	var addr BDAddr
	buf, err := a.op(NewGenericCommandPacket(OpcodeReadBDAddr))
	if err != nil {
		return addr, err
	}
	if buf[0] != 0 {
		return addr, errors.New("command failed")
	}
	if copy(addr[:], buf[1:]) != 6 {
		return addr, io.ErrShortWrite
	}
	return addr, nil
}

func (a *Adapter) ClearFilterAcceptList() error {
	buf, err := a.op(NewGenericCommandPacket(OpcodeClearFilterAcceptList))
	if err != nil {
		return err
	}
	if buf[0] != 0 {
		return errors.New("command failed")
	}
	return err
}

func (a *Adapter) ReadFilterAcceptListSize() (uint8, error) {
	buf, err := a.op(NewGenericCommandPacket(OpcodeReadFilterAcceptListSize))
	if err != nil {
		return 0, err
	}
	if buf[0] != 0 {
		return 0, errors.New("command failed")
	}
	return buf[1], nil
}

type LESupportedStates uint64

func (a *Adapter) LEReadSupportedStates() (LESupportedStates, error) {
	buf, err := a.op(NewGenericCommandPacket(OpcodeLEReadSupportedStates))
	if err != nil {
		return 0, err
	}
	if buf[0] != 0 {
		return 0, errors.New("command failed")
	}
	return LESupportedStates(binary.LittleEndian.Uint64(buf[1:9])), nil
}

// LERand returns 8 octets of random data from the controller, used to
// generate resolvable private address hashes and randomizers for encrypted
// advertising data.
func (a *Adapter) LERand() ([8]byte, error) {
	var out [8]byte
	buf, err := a.op(NewGenericCommandPacket(OpcodeLERand))
	if err != nil {
		return out, err
	}
	if buf[0] != 0 {
		return out, errors.New("command failed")
	}
	copy(out[:], buf[1:9])
	return out, nil
}

func (a *Adapter) LEReadMaximumAdvertisingDataLength() (uint16, error) {
	buf, err := a.op(NewGenericCommandPacket(OpcodeLEReadMaximumAdvertisingDataLength))
	if err != nil {
		return 0, err
	}
	if buf[0] != 0 {
		return 0, errors.New("command failed")
	}
	return binary.LittleEndian.Uint16(buf[1:3]), nil
}

func (a *Adapter) LEReadNumberOfSupportedAdvertisingSets() (uint8, error) {
	buf, err := a.op(NewGenericCommandPacket(OpcodeLEReadNumberOfSupportedAdvertisingSets))
	if err != nil {
		return 0, err
	}
	if buf[0] != 0 {
		return 0, errors.New("command failed")
	}
	return buf[1], nil
}

func (a *Adapter) LEClearAdvertisingSets() error {
	buf, err := a.op(NewGenericCommandPacket(OpcodeLEClearAdvertisingSets))
	if err != nil {
		return err
	}
	if buf[0] != 0 {
		return errors.New("command failed")
	}
	return nil
}

func (a *Adapter) LERemoveAdvertisingSet(handle uint8) error {
	buf, err := a.op(&LERemoveAdvertisingSetCommandPacket{AdvertisingHandle: handle})
	if err != nil {
		return err
	}
	if buf[0] != 0 {
		return errors.New("command failed")
	}
	return nil
}
