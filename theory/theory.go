// Package theory holds the scale and chord tables the grid plays from.
package theory

import (
	"fmt"

	"github.com/pkg/errors"
)

const (
	NumScales  = 6
	ScaleSize  = 12 // semitones per octave
	NumDegrees = 7
	NumVoices  = 7

	// ChordVoices is how many voices a chord pad sounds. The remaining
	// voices are extensions only melody rows reach.
	ChordVoices = 5

	// DefaultRoot is middle C.
	DefaultRoot = 60
)

// Scales are semitone masks over one octave from the root.
var Scales = [NumScales][ScaleSize]bool{
	mask(1, 0, 1, 0, 1, 1, 0, 1, 0, 1, 0, 1), // major
	mask(1, 0, 1, 1, 0, 1, 0, 1, 1, 0, 1, 0), // natural minor
	mask(1, 0, 1, 0, 1, 1, 0, 1, 1, 0, 0, 1), // harmonic major
	mask(1, 0, 1, 1, 0, 1, 0, 1, 1, 0, 0, 1), // harmonic minor
	mask(1, 0, 1, 0, 1, 1, 0, 1, 1, 0, 1, 0), // mixolydian b6
	mask(1, 0, 1, 1, 0, 1, 0, 1, 0, 1, 0, 1), // melodic minor
}

// ScaleNames is for display only.
var ScaleNames = [NumScales]string{
	"major",
	"minor",
	"harmonic major",
	"harmonic minor",
	"mixolydian b6",
	"melodic minor",
}

// Degrees lists, per scale degree, the 1-based scale steps stacked into its
// chord: five thirds, then the eleventh and the added sixth.
var Degrees = [NumDegrees][NumVoices]int{
	{1, 3, 5, 7, 9, 11, 6},
	{2, 4, 6, 8, 10, 12, 7},
	{3, 5, 7, 9, 11, 13, 8},
	{4, 6, 8, 10, 12, 14, 9},
	{5, 7, 9, 11, 13, 15, 10},
	{6, 8, 10, 12, 14, 16, 11},
	{7, 9, 11, 13, 15, 17, 12},
}

// ErrOutOfRange is returned for a scale or degree outside the tables.
var ErrOutOfRange = errors.New("theory: index out of range")

func mask(bits ...int) (m [ScaleSize]bool) {
	for i, b := range bits {
		m[i] = b == 1
	}
	return m
}

// Tones returns the semitone offsets that belong to a scale, ascending.
func Tones(scale int) []int {
	tones := make([]int, 0, NumDegrees)
	for i, on := range Scales[scale] {
		if on {
			tones = append(tones, i)
		}
	}
	return tones
}

// NotesFor returns the chord built on degree (0-based) of scale, as semitone
// offsets from the root. Inputs must be in range.
func NotesFor(scale, degree int) [NumVoices]int {
	tones := Tones(scale)
	var notes [NumVoices]int
	for v, step := range Degrees[degree] {
		i := step - 1
		notes[v] = tones[i%len(tones)] + ScaleSize*(i/len(tones))
	}
	return notes
}

// Chord is NotesFor with range checking.
func Chord(scale, degree int) ([NumVoices]int, error) {
	if scale < 0 || scale >= NumScales {
		return [NumVoices]int{}, errors.Wrapf(ErrOutOfRange, "scale %d", scale)
	}
	if degree < 0 || degree >= NumDegrees {
		return [NumVoices]int{}, errors.Wrapf(ErrOutOfRange, "degree %d", degree)
	}
	return NotesFor(scale, degree), nil
}

var noteNames = [ScaleSize]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// NoteName renders a MIDI pitch as e.g. "C4".
func NoteName(pitch int) string {
	if pitch < 0 || pitch > 127 {
		return "?"
	}
	return fmt.Sprintf("%s%d", noteNames[pitch%ScaleSize], pitch/ScaleSize-1)
}
