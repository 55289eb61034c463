// Package surface is the grid controller: session state, the event
// interpreter that plays chords and melodies from it, and the renderer that
// turns it back into pad colors.
package surface

import "go-chordpad/theory"

const numDegrees = theory.NumDegrees

// Modifier ranges
const (
	MaxChordModifier  = 2  // octaves
	MaxNoteModifier   = 1  // semitones
	MaxOctaveModifier = 12 // semitones, moved a whole octave at a time
)

// Mode selects how pad presses are interpreted.
type Mode int

const (
	ModeChords Mode = iota // default
	ModeMelodies
)

func (m Mode) String() string {
	switch m {
	case ModeChords:
		return "chords"
	case ModeMelodies:
		return "melodies"
	}
	return "unknown"
}

// Slot binds a chord to a melody row. Each column of the row plays one
// voice of the chord.
type Slot struct {
	Chord    Cell // the chord pad that was copied
	Scale    int
	Modifier int // chord modifier at bind time, in octaves
}

// LastPress is the most recent pad press, the target of modifier buttons.
type LastPress struct {
	Status uint8
	Pad    uint8
}

// held is what a pad is sounding right now, so the release turns off exactly
// what the press turned on.
type held struct {
	notes [theory.NumVoices]uint8
	n     int
}

func (h *held) add(note uint8) {
	if h.n < len(h.notes) {
		h.notes[h.n] = note
		h.n++
	}
}

// State is one performance session. It is a plain value: copying it yields
// an independent snapshot.
type State struct {
	mode  Mode
	scale int

	pressed        [NumCells]bool
	chordModifier  [NumCells]int
	noteModifier   [NumCells]int
	octaveModifier [NumCells]int

	clipboard    Cell
	hasClipboard bool

	lastPress    LastPress
	hasLastPress bool

	slots    [Height]Slot
	hasSlot  [Height]bool
	sounding [NumCells]held

	stopped bool
}

// NewState returns an idle session in chords mode.
func NewState() *State {
	return &State{mode: ModeChords}
}

func (s *State) Mode() Mode { return s.mode }
func (s *State) Scale() int { return s.scale }

// Pressed reports whether a chord pad is being held.
func (s *State) Pressed(c Cell) bool { return s.pressed[c.Index()] }

func (s *State) ChordModifier(c Cell) int  { return s.chordModifier[c.Index()] }
func (s *State) NoteModifier(c Cell) int   { return s.noteModifier[c.Index()] }
func (s *State) OctaveModifier(c Cell) int { return s.octaveModifier[c.Index()] }

// Clipboard returns the copied chord cell, if any.
func (s *State) Clipboard() (Cell, bool) {
	return s.clipboard, s.hasClipboard
}

// LastPressed returns the most recent pad press, if any.
func (s *State) LastPressed() (LastPress, bool) {
	return s.lastPress, s.hasLastPress
}

// LastCell is the cell of the most recent press.
func (s *State) LastCell() (Cell, bool) {
	if !s.hasLastPress {
		return Cell{}, false
	}
	c, err := CellFromPad(s.lastPress.Pad)
	return c, err == nil
}

// Slot returns the melody binding of a row, if any.
func (s *State) Slot(row int) (Slot, bool) {
	if row < 0 || row >= Height {
		return Slot{}, false
	}
	return s.slots[row], s.hasSlot[row]
}

// Sounding lists the notes a cell is currently holding on the note sink.
func (s *State) Sounding(c Cell) []uint8 {
	h := s.sounding[c.Index()]
	out := make([]uint8, h.n)
	copy(out, h.notes[:h.n])
	return out
}

// Stop marks the session finished. The outer loop checks Stopped between events.
func (s *State) Stop()         { s.stopped = true }
func (s *State) Stopped() bool { return s.stopped }

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (s *State) bumpChordModifier(c Cell, delta int) {
	i := c.Index()
	s.chordModifier[i] = clamp(s.chordModifier[i]+delta, -MaxChordModifier, MaxChordModifier)
}

func (s *State) bumpNoteModifier(c Cell, delta int) {
	i := c.Index()
	s.noteModifier[i] = clamp(s.noteModifier[i]+delta, -MaxNoteModifier, MaxNoteModifier)
}

func (s *State) bumpOctaveModifier(c Cell, delta int) {
	i := c.Index()
	s.octaveModifier[i] = clamp(s.octaveModifier[i]+delta, -MaxOctaveModifier, MaxOctaveModifier)
}

func (s *State) bind(row int, slot Slot) {
	s.slots[row] = slot
	s.hasSlot[row] = true
}
