package surface

import (
	"go-chordpad/midi"
	"go-chordpad/theory"
)

// Frame is one full repaint of the surface.
type Frame struct {
	// Pads holds the 64 grid cells in index order, then the side and top pads.
	Pads []midi.PadColor

	// Flash is the clipboard flash color, 0 when the clipboard is empty.
	Flash uint8
}

// Messages frames f as the two SysEx blocks the surface expects.
func (f Frame) Messages() [][]byte {
	return [][]byte{
		midi.LitPads(f.Pads),
		midi.FlashPad(midi.ButtonClipboard, f.Flash),
	}
}

// Grid returns the color of a grid cell.
func (f Frame) Grid(c Cell) uint8 {
	return f.Pads[c.Index()].Color
}

// Color looks up any pad in the frame.
func (f Frame) Color(pad uint8) (uint8, bool) {
	for _, p := range f.Pads {
		if p.Pad == pad {
			return p.Color, true
		}
	}
	return 0, false
}

// Render paints the state. It reads s and page only.
func Render(s *State, page *theory.Page) Frame {
	pads := make([]midi.PadColor, 0, NumCells+Height+6)

	for i := 0; i < NumCells; i++ {
		c := Cell{X: i % Width, Y: i / Width}
		pads = append(pads, midi.PadColor{Pad: c.Pad(), Color: cellColor(s, page, c)})
	}

	for i := 0; i < Height; i++ {
		color := midi.ColorOff
		if s.mode == ModeChords && s.scale == i {
			color = midi.ColorWhite
		}
		pads = append(pads, midi.PadColor{Pad: uint8(i*10 + 19), Color: color})
	}

	var upDown, noteUpDown [2]uint8
	if c, ok := s.LastCell(); ok {
		i := c.Index()
		if s.mode == ModeChords {
			upDown = bipolar(s.chordModifier[i])
		} else {
			upDown = bipolar(s.octaveModifier[i] / theory.ScaleSize)
			noteUpDown = bipolar(s.noteModifier[i])
		}
	}

	chords, melodies := midi.ColorWhite, midi.ColorOff
	if s.mode == ModeMelodies {
		chords, melodies = melodies, chords
	}

	pads = append(pads,
		midi.PadColor{Pad: midi.ButtonUp, Color: upDown[0]},
		midi.PadColor{Pad: midi.ButtonDown, Color: upDown[1]},
		midi.PadColor{Pad: midi.ButtonChords, Color: chords},
		midi.PadColor{Pad: midi.ButtonMelodies, Color: melodies},
		midi.PadColor{Pad: midi.ButtonNoteUp, Color: noteUpDown[0]},
		midi.PadColor{Pad: midi.ButtonNoteDown, Color: noteUpDown[1]},
	)

	var flash uint8
	if c, ok := s.Clipboard(); ok {
		flash = gradient(c)
	}
	return Frame{Pads: pads, Flash: flash}
}

func cellColor(s *State, page *theory.Page, c Cell) uint8 {
	if s.mode == ModeChords {
		if s.pressed[c.Index()] {
			return midi.ColorPurple
		}
		return gradient(c)
	}
	if !s.hasSlot[c.Y] {
		return midi.ColorDim
	}
	pc := melodyNote(s, page, c) % theory.ScaleSize
	if pc < 0 {
		pc += theory.ScaleSize
	}
	return uint8(pc*4) + midi.ColorOffset
}

func gradient(c Cell) uint8 {
	return uint8(c.X*c.Y) + midi.ColorOffset
}

// bipolar lights the up pad for positive steps and the down pad for negative
// ones: white for one step, blue for two.
func bipolar(steps int) [2]uint8 {
	color := func(n int) uint8 {
		switch {
		case n >= 2:
			return midi.ColorBlue
		case n == 1:
			return midi.ColorWhite
		}
		return midi.ColorOff
	}
	if steps >= 0 {
		return [2]uint8{color(steps), midi.ColorOff}
	}
	return [2]uint8{midi.ColorOff, color(-steps)}
}
