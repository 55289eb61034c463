package surface

import (
	"github.com/pkg/errors"

	"go-chordpad/midi"
	"go-chordpad/theory"
)

// Interpreter turns surface events into state changes and notes for the sink.
// It is not safe for concurrent use; the session loop owns it.
type Interpreter struct {
	state   *State
	page    *theory.Page
	channel uint8
}

// NewInterpreter plays from page on the given MIDI channel.
func NewInterpreter(state *State, page *theory.Page, channel uint8) *Interpreter {
	return &Interpreter{state: state, page: page, channel: channel & 0x0F}
}

func (in *Interpreter) State() *State      { return in.state }
func (in *Interpreter) Page() *theory.Page { return in.page }

// Handle interprets one deduplicated event and returns the notes to send.
// An error wraps ErrRejected and means the state was not changed.
func (in *Interpreter) Handle(ev midi.Event) ([]midi.Event, error) {
	if ev.Type == midi.CC && ev.Note >= 100 {
		return in.handleButton(ev)
	}
	if in.state.mode == ModeMelodies {
		return in.handleMelodies(ev)
	}
	return in.handleChords(ev)
}

// ReleaseAll turns off everything still sounding and clears pressed pads.
func (in *Interpreter) ReleaseAll() []midi.Event {
	var out []midi.Event
	for i := range in.state.sounding {
		out = in.appendOffs(out, i)
		in.state.pressed[i] = false
	}
	return out
}

func (in *Interpreter) handleButton(ev midi.Event) ([]midi.Event, error) {
	if !ev.IsPress() {
		return nil, nil
	}
	s := in.state

	switch ev.Note {
	case midi.ButtonChords:
		return in.setMode(ModeChords), nil
	case midi.ButtonMelodies:
		return in.setMode(ModeMelodies), nil
	}

	switch {
	case ev.Note == midi.ButtonUp || ev.Note == midi.ButtonDown:
		c, err := in.target()
		if err != nil {
			return nil, err
		}
		dir := 1
		if ev.Note == midi.ButtonDown {
			dir = -1
		}
		if s.mode == ModeChords {
			s.bumpChordModifier(c, dir)
		} else {
			s.bumpOctaveModifier(c, dir*theory.ScaleSize)
		}

	case ev.Note == midi.ButtonNoteUp || ev.Note == midi.ButtonNoteDown:
		if s.mode != ModeMelodies {
			return nil, nil
		}
		c, err := in.target()
		if err != nil {
			return nil, err
		}
		if ev.Note == midi.ButtonNoteUp {
			s.bumpNoteModifier(c, 1)
		} else {
			s.bumpNoteModifier(c, -1)
		}

	case ev.Note == midi.ButtonClipboard:
		if s.mode != ModeChords {
			return nil, nil
		}
		c, err := in.target()
		if err != nil {
			return nil, err
		}
		if !c.HasChord() {
			return nil, errors.Wrapf(ErrRejected, "copy: no chord at %v", c)
		}
		s.clipboard = c
		s.hasClipboard = true
	}
	return nil, nil
}

// target is the cell modifier buttons act on.
func (in *Interpreter) target() (Cell, error) {
	c, ok := in.state.LastCell()
	if !ok {
		return Cell{}, errors.Wrap(ErrRejected, "no pad pressed yet")
	}
	return c, nil
}

func (in *Interpreter) setMode(m Mode) []midi.Event {
	if in.state.mode == m {
		return nil
	}
	out := in.ReleaseAll()
	in.state.mode = m
	return out
}

func isScaleSelector(code uint8) bool {
	return code < 100 && code%10 == 9
}

func isRowSelector(code uint8) bool {
	return code < 100 && code%10 == 1
}

func (in *Interpreter) handleChords(ev midi.Event) ([]midi.Event, error) {
	s := in.state

	if isScaleSelector(ev.Note) {
		if !ev.IsPress() {
			return nil, nil
		}
		scale := int(ev.Note/10) - 1
		if scale < 0 || scale >= theory.NumScales {
			return nil, errors.Wrapf(ErrRejected, "no scale behind selector %d", ev.Note)
		}
		s.scale = scale
		return nil, nil
	}
	if ev.Type == midi.CC {
		return nil, nil
	}

	c, err := CellFromPad(ev.Note)
	if err != nil {
		return nil, err
	}

	if ev.IsRelease() {
		return in.release(c), nil
	}
	if !c.HasChord() {
		return nil, errors.Wrapf(ErrRejected, "no chord at %v", c)
	}

	// a second press without a release replaces what the pad was sounding
	out := in.release(c)
	i := c.Index()
	s.pressed[i] = true

	chord := in.page.Chord(s.scale, c.X, c.Y)
	shift := s.chordModifier[i] * theory.ScaleSize
	for _, n := range chord[:theory.ChordVoices] {
		out = in.noteOn(out, i, n+shift)
	}
	in.pressedPad(ev)
	return out, nil
}

func (in *Interpreter) handleMelodies(ev midi.Event) ([]midi.Event, error) {
	s := in.state

	if s.hasClipboard && ev.IsPress() && isRowSelector(ev.Note) {
		row := int(ev.Note/10) - 1
		if row < 0 || row >= Height {
			return nil, errors.Wrapf(ErrRejected, "row selector %d outside grid", ev.Note)
		}
		src := s.clipboard
		s.bind(row, Slot{
			Chord:    src,
			Scale:    s.scale,
			Modifier: s.chordModifier[src.Index()],
		})
		s.hasClipboard = false
		return nil, nil
	}
	if ev.Type == midi.CC || isScaleSelector(ev.Note) {
		return nil, nil
	}

	c, err := CellFromPad(ev.Note)
	if err != nil {
		return nil, err
	}

	if ev.IsRelease() {
		return in.release(c), nil
	}
	if s.hasClipboard || !ev.IsPress() {
		return nil, nil
	}
	if !s.hasSlot[c.Y] {
		return nil, nil
	}

	out := in.release(c)
	i := c.Index()
	out = in.noteOn(out, i, in.melodyNote(c)+s.octaveModifier[i])
	in.pressedPad(ev)
	return out, nil
}

// melodyNote is the pitch a melody cell plays before the octave nudge.
// The renderer colors cells by it.
func (in *Interpreter) melodyNote(c Cell) int {
	return melodyNote(in.state, in.page, c)
}

func melodyNote(s *State, page *theory.Page, c Cell) int {
	slot := s.slots[c.Y]
	n := page.Note(slot.Scale, slot.Chord.X, slot.Chord.Y, c.X%theory.NumVoices)
	return n + slot.Modifier*theory.ScaleSize + s.noteModifier[c.Index()]
}

func (in *Interpreter) pressedPad(ev midi.Event) {
	in.state.lastPress = LastPress{Status: ev.Status(), Pad: ev.Note}
	in.state.hasLastPress = true
}

// noteOn records and emits a note for cell i, skipping pitches MIDI cannot carry.
func (in *Interpreter) noteOn(out []midi.Event, i, note int) []midi.Event {
	if note < 0 || note > 127 {
		return out
	}
	in.state.sounding[i].add(uint8(note))
	return append(out, midi.NoteOnEvent(in.channel, uint8(note)))
}

func (in *Interpreter) release(c Cell) []midi.Event {
	i := c.Index()
	in.state.pressed[i] = false
	return in.appendOffs(nil, i)
}

func (in *Interpreter) appendOffs(out []midi.Event, i int) []midi.Event {
	h := &in.state.sounding[i]
	for _, n := range h.notes[:h.n] {
		out = append(out, midi.NoteOffEvent(in.channel, n))
	}
	*h = held{}
	return out
}
