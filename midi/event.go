package midi

import (
	"fmt"

	gomidi "gitlab.com/gomidi/midi/v2"
)

// MIDI message types
const (
	NoteOn  uint8 = 0x90
	NoteOff uint8 = 0x80
	CC      uint8 = 0xB0
)

// Event is a channel voice message as it crosses the core boundary.
// Inbound it carries the raw (status, data1, data2) triple from the surface,
// outbound it is a note for the external sink.
type Event struct {
	Type     uint8 // NoteOn, NoteOff, CC
	Channel  uint8
	Note     uint8 // data1: pad code, CC number or pitch
	Velocity uint8 // data2: velocity or CC value
}

// NewEvent builds an event from a raw status byte and two data bytes.
func NewEvent(status, data1, data2 uint8) Event {
	return Event{
		Type:     status & 0xF0,
		Channel:  status & 0x0F,
		Note:     data1 & 0x7F,
		Velocity: data2 & 0x7F,
	}
}

// Status returns the full status byte (type and channel).
func (e Event) Status() uint8 {
	return e.Type | (e.Channel & 0x0F)
}

// Raw packs the event the way short messages travel on the wire, status in the
// low byte. Two events are the same message iff their Raw values are equal.
func (e Event) Raw() uint32 {
	return uint32(e.Status()) | uint32(e.Note)<<8 | uint32(e.Velocity)<<16
}

// IsPress reports a pad or button going down.
func (e Event) IsPress() bool {
	switch e.Type {
	case NoteOn, CC:
		return e.Velocity > 0
	}
	return false
}

// IsRelease reports a pad going up (note-off, or note-on with velocity 0).
func (e Event) IsRelease() bool {
	switch e.Type {
	case NoteOff:
		return true
	case NoteOn:
		return e.Velocity == 0
	}
	return false
}

// Message converts the event to a gomidi message for sending.
func (e Event) Message() gomidi.Message {
	switch e.Type {
	case NoteOn:
		return gomidi.NoteOn(e.Channel, e.Note, e.Velocity)
	case NoteOff:
		return gomidi.NoteOffVelocity(e.Channel, e.Note, e.Velocity)
	case CC:
		return gomidi.ControlChange(e.Channel, e.Note, e.Velocity)
	}
	return nil
}

func (e Event) String() string {
	return fmt.Sprintf("%d %d %d", e.Status(), e.Note, e.Velocity)
}

// FromMessage decodes a received short message. Anything that is not a
// note-on, note-off or control change is reported as not ok.
func FromMessage(msg gomidi.Message) (Event, bool) {
	b := msg.Bytes()
	if len(b) != 3 {
		return Event{}, false
	}
	ev := NewEvent(b[0], b[1], b[2])
	switch ev.Type {
	case NoteOn, NoteOff, CC:
		return ev, true
	}
	return Event{}, false
}

// NoteOnEvent is an outbound note start at full velocity.
func NoteOnEvent(channel, note uint8) Event {
	return Event{Type: NoteOn, Channel: channel, Note: note, Velocity: 127}
}

// NoteOffEvent is an outbound note end.
func NoteOffEvent(channel, note uint8) Event {
	return Event{Type: NoteOff, Channel: channel, Note: note}
}
