package device

import (
	"github.com/pkg/errors"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"

	"go-chordpad/debug"
	"go-chordpad/midi"
)

// NoteOut is the external synth or DAW the performer plays into.
type NoteOut struct {
	name     string
	channel  uint8
	send     func(msg gomidi.Message) error
	sounding map[uint8]bool
}

// OpenNoteOut opens an output port for notes on the given channel.
func OpenNoteOut(outPort drivers.Out, channel uint8) (*NoteOut, error) {
	send, err := gomidi.SendTo(outPort)
	if err != nil {
		return nil, errors.Wrapf(err, "open note output %q", outPort.String())
	}
	debug.Log("device", "notes out=%q channel=%d", outPort.String(), channel)
	return NewNoteOut(outPort.String(), channel, send), nil
}

// NewNoteOut wraps an already open sender.
func NewNoteOut(name string, channel uint8, send func(msg gomidi.Message) error) *NoteOut {
	return &NoteOut{
		name:     name,
		channel:  channel & 0x0F,
		send:     send,
		sounding: make(map[uint8]bool),
	}
}

func (n *NoteOut) Name() string {
	return n.name
}

// Play sends a note-on or note-off. The event's channel is replaced by the
// sink's own.
func (n *NoteOut) Play(ev midi.Event) error {
	switch ev.Type {
	case midi.NoteOn, midi.NoteOff:
	default:
		return errors.Errorf("not a note: %v", ev)
	}
	ev.Channel = n.channel
	if err := n.send(ev.Message()); err != nil {
		return errors.Wrapf(err, "play %v", ev)
	}
	if ev.IsRelease() {
		delete(n.sounding, ev.Note)
	} else {
		n.sounding[ev.Note] = true
	}
	return nil
}

// Close turns off anything the sink still has sounding.
func (n *NoteOut) Close() error {
	var first error
	for note := range n.sounding {
		if err := n.send(gomidi.NoteOff(n.channel, note)); err != nil && first == nil {
			first = errors.Wrapf(err, "note off %d", note)
		}
		delete(n.sounding, note)
	}
	return first
}
