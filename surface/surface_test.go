package surface

import (
	"testing"

	"github.com/pkg/errors"

	"go-chordpad/midi"
	"go-chordpad/theory"
)

func press(pad uint8) midi.Event   { return midi.NewEvent(midi.NoteOn, pad, 127) }
func release(pad uint8) midi.Event { return midi.NewEvent(midi.NoteOn, pad, 0) }
func button(cc uint8) midi.Event   { return midi.NewEvent(midi.CC, cc, 127) }

func newTestInterpreter() *Interpreter {
	return NewInterpreter(NewState(), theory.BuildPage(theory.DefaultRoot), 0)
}

func mustHandle(t *testing.T, in *Interpreter, ev midi.Event) []midi.Event {
	t.Helper()
	out, err := in.Handle(ev)
	if err != nil {
		t.Fatalf("Handle(%v): %v", ev, err)
	}
	return out
}

func notesOf(t *testing.T, evs []midi.Event, typ uint8) []uint8 {
	t.Helper()
	notes := make([]uint8, 0, len(evs))
	for _, ev := range evs {
		if ev.Type != typ {
			t.Fatalf("got %v, want only type %#x", ev, typ)
		}
		notes = append(notes, ev.Note)
	}
	return notes
}

func equalNotes(a, b []uint8) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestCellRoundTrip(t *testing.T) {
	for i := 0; i < NumCells; i++ {
		c, err := CellFromIndex(i)
		if err != nil {
			t.Fatal(err)
		}
		if c.Index() != i {
			t.Errorf("index %d round-tripped to %d", i, c.Index())
		}
		back, err := CellFromPad(c.Pad())
		if err != nil {
			t.Fatalf("pad %d: %v", c.Pad(), err)
		}
		if back != c {
			t.Errorf("pad %d decoded to %v, want %v", c.Pad(), back, c)
		}
	}
}

func TestCellRejectsOffGrid(t *testing.T) {
	for _, code := range []uint8{0, 9, 10, 19, 20, 89, 90, 91, 104, 127} {
		if _, err := CellFromPad(code); !errors.Is(err, ErrRejected) {
			t.Errorf("CellFromPad(%d): got %v, want ErrRejected", code, err)
		}
	}
	for _, i := range []int{-1, NumCells} {
		if _, err := CellFromIndex(i); !errors.Is(err, ErrRejected) {
			t.Errorf("CellFromIndex(%d): got %v, want ErrRejected", i, err)
		}
	}
	if _, err := NewCell(8, 0); !errors.Is(err, ErrRejected) {
		t.Errorf("NewCell(8, 0): got %v", err)
	}
}

func TestChordPress(t *testing.T) {
	in := newTestInterpreter()
	out := mustHandle(t, in, press(11))

	chord := in.Page().Chord(0, 0, 0)
	want := make([]uint8, 0, theory.ChordVoices)
	for _, n := range chord[:theory.ChordVoices] {
		want = append(want, uint8(n))
	}
	got := notesOf(t, out, midi.NoteOn)
	if !equalNotes(got, want) {
		t.Fatalf("notes = %v, want %v", got, want)
	}
	for _, ev := range out {
		if ev.Velocity != 127 || ev.Channel != 0 {
			t.Errorf("unexpected note-on %v", ev)
		}
	}

	c := Cell{0, 0}
	if !in.State().Pressed(c) {
		t.Error("cell not marked pressed")
	}
	if lp, ok := in.State().LastPressed(); !ok || lp.Pad != 11 || lp.Status != midi.NoteOn {
		t.Errorf("last pressed = %+v, %v", lp, ok)
	}

	off := notesOf(t, mustHandle(t, in, release(11)), midi.NoteOff)
	if !equalNotes(off, want) {
		t.Errorf("released %v, want %v", off, want)
	}
	if in.State().Pressed(c) {
		t.Error("cell still pressed after release")
	}
	if len(in.State().Sounding(c)) != 0 {
		t.Error("held notes left after release")
	}
}

func TestNoteOffReleases(t *testing.T) {
	in := newTestInterpreter()
	mustHandle(t, in, press(22))
	out := mustHandle(t, in, midi.NewEvent(midi.NoteOff, 22, 64))
	if len(out) != theory.ChordVoices {
		t.Fatalf("got %d note-offs, want %d", len(out), theory.ChordVoices)
	}
}

func TestReleaseWithoutPressIsSilent(t *testing.T) {
	in := newTestInterpreter()
	if out := mustHandle(t, in, release(33)); len(out) != 0 {
		t.Errorf("got %v, want nothing", out)
	}
}

func TestTopRowHasNoChord(t *testing.T) {
	in := newTestInterpreter()
	before := *in.State()
	_, err := in.Handle(press(81))
	if !errors.Is(err, ErrRejected) {
		t.Fatalf("got %v, want ErrRejected", err)
	}
	if *in.State() != before {
		t.Error("state changed on rejected input")
	}
}

func TestScaleSelect(t *testing.T) {
	in := newTestInterpreter()
	mustHandle(t, in, press(39))
	if got := in.State().Scale(); got != 2 {
		t.Fatalf("scale = %d, want 2", got)
	}

	// selectors also arrive as control changes
	mustHandle(t, in, midi.NewEvent(midi.CC, 59, 127))
	if got := in.State().Scale(); got != 4 {
		t.Fatalf("scale = %d, want 4", got)
	}

	// releasing a selector changes nothing
	mustHandle(t, in, release(19))
	if got := in.State().Scale(); got != 4 {
		t.Fatalf("scale = %d after release, want 4", got)
	}

	before := *in.State()
	for _, ev := range []midi.Event{
		press(79),
		press(89),
		press(9),
		midi.NewEvent(midi.CC, 9, 127),
	} {
		if _, err := in.Handle(ev); !errors.Is(err, ErrRejected) {
			t.Errorf("selector %v: got %v, want ErrRejected", ev, err)
		}
	}
	if *in.State() != before {
		t.Errorf("state changed by rejected selectors")
	}

	// chords now come from the selected scale
	out := mustHandle(t, in, press(11))
	chord := in.Page().Chord(4, 0, 0)
	if out[1].Note != uint8(chord[1]) {
		t.Errorf("third = %d, want %d", out[1].Note, chord[1])
	}
}

func TestScaleSelectIgnoredInMelodies(t *testing.T) {
	in := newTestInterpreter()
	mustHandle(t, in, button(midi.ButtonMelodies))
	mustHandle(t, in, press(29))
	if got := in.State().Scale(); got != 0 {
		t.Errorf("scale = %d, want 0", got)
	}
}

func TestChordModifierClamp(t *testing.T) {
	in := newTestInterpreter()
	c := Cell{1, 1}
	mustHandle(t, in, press(c.Pad()))
	mustHandle(t, in, release(c.Pad()))

	for i := 0; i < 3; i++ {
		mustHandle(t, in, button(midi.ButtonUp))
	}
	if got := in.State().ChordModifier(c); got != MaxChordModifier {
		t.Fatalf("chord modifier = %d, want %d", got, MaxChordModifier)
	}
	for i := 0; i < 7; i++ {
		mustHandle(t, in, button(midi.ButtonDown))
	}
	if got := in.State().ChordModifier(c); got != -MaxChordModifier {
		t.Fatalf("chord modifier = %d, want %d", got, -MaxChordModifier)
	}

	// the modifier shifts the chord down two octaves
	out := mustHandle(t, in, press(c.Pad()))
	chord := in.Page().Chord(0, c.X, c.Y)
	if want := uint8(chord[0] - 24); out[0].Note != want {
		t.Errorf("root = %d, want %d", out[0].Note, want)
	}
}

func TestModifierClampsHold(t *testing.T) {
	in := newTestInterpreter()
	c := Cell{3, 2}
	mustHandle(t, in, press(c.Pad()))
	mustHandle(t, in, button(midi.ButtonMelodies))

	seq := []uint8{
		midi.ButtonUp, midi.ButtonUp, midi.ButtonNoteDown, midi.ButtonNoteDown,
		midi.ButtonDown, midi.ButtonNoteUp, midi.ButtonNoteUp, midi.ButtonNoteUp,
		midi.ButtonDown, midi.ButtonDown, midi.ButtonDown, midi.ButtonUp,
	}
	for _, cc := range seq {
		mustHandle(t, in, button(cc))
		s := in.State()
		if v := s.OctaveModifier(c); v < -MaxOctaveModifier || v > MaxOctaveModifier || v%12 != 0 {
			t.Fatalf("octave modifier %d out of range", v)
		}
		if v := s.NoteModifier(c); v < -MaxNoteModifier || v > MaxNoteModifier {
			t.Fatalf("note modifier %d out of range", v)
		}
	}
	if got := in.State().OctaveModifier(c); got != 0 {
		t.Errorf("octave modifier = %d, want 0", got)
	}
	if got := in.State().NoteModifier(c); got != 1 {
		t.Errorf("note modifier = %d, want 1", got)
	}
	if got := in.State().ChordModifier(c); got != 0 {
		t.Errorf("chord modifier changed in melodies mode: %d", got)
	}
}

func TestModifierNeedsLastPress(t *testing.T) {
	in := newTestInterpreter()
	for _, cc := range []uint8{midi.ButtonUp, midi.ButtonDown, midi.ButtonClipboard} {
		if _, err := in.Handle(button(cc)); !errors.Is(err, ErrRejected) {
			t.Errorf("button %d: got %v, want ErrRejected", cc, err)
		}
	}
}

func TestButtonReleaseIgnored(t *testing.T) {
	in := newTestInterpreter()
	mustHandle(t, in, press(11))
	mustHandle(t, in, midi.NewEvent(midi.CC, midi.ButtonUp, 0))
	if got := in.State().ChordModifier(Cell{0, 0}); got != 0 {
		t.Errorf("chord modifier = %d, want 0", got)
	}
}

func TestNoteButtonsIgnoredInChords(t *testing.T) {
	in := newTestInterpreter()
	mustHandle(t, in, press(11))
	mustHandle(t, in, button(midi.ButtonNoteUp))
	if got := in.State().NoteModifier(Cell{0, 0}); got != 0 {
		t.Errorf("note modifier = %d, want 0", got)
	}
}

func TestCopyAndBind(t *testing.T) {
	in := newTestInterpreter()
	src := Cell{2, 3}
	mustHandle(t, in, press(src.Pad()))
	mustHandle(t, in, release(src.Pad()))
	mustHandle(t, in, button(midi.ButtonUp))
	mustHandle(t, in, button(midi.ButtonClipboard))

	clip, ok := in.State().Clipboard()
	if !ok || clip.Index() != 26 {
		t.Fatalf("clipboard = %v (%v), want index 26", clip, ok)
	}

	mustHandle(t, in, button(midi.ButtonMelodies))
	mustHandle(t, in, press(61))

	slot, ok := in.State().Slot(5)
	if !ok {
		t.Fatal("row 5 not bound")
	}
	want := Slot{Chord: src, Scale: 0, Modifier: 1}
	if slot != want {
		t.Errorf("slot = %+v, want %+v", slot, want)
	}
	if _, ok := in.State().Clipboard(); ok {
		t.Error("clipboard not cleared after bind")
	}
	for row := 0; row < Height; row++ {
		if _, ok := in.State().Slot(row); ok && row != 5 {
			t.Errorf("row %d bound", row)
		}
	}
}

func TestCopyIgnoredInMelodies(t *testing.T) {
	in := newTestInterpreter()
	mustHandle(t, in, press(11))
	mustHandle(t, in, button(midi.ButtonMelodies))
	mustHandle(t, in, button(midi.ButtonClipboard))
	if _, ok := in.State().Clipboard(); ok {
		t.Error("copy took effect in melodies mode")
	}
}

// bindRow copies the chord at src into row, leaving the surface in melodies mode.
func bindRow(t *testing.T, in *Interpreter, src Cell, row int) {
	t.Helper()
	mustHandle(t, in, button(midi.ButtonChords))
	mustHandle(t, in, press(src.Pad()))
	mustHandle(t, in, release(src.Pad()))
	mustHandle(t, in, button(midi.ButtonClipboard))
	mustHandle(t, in, button(midi.ButtonMelodies))
	mustHandle(t, in, press(uint8(row*10+11)))
}

func TestMelodyPlay(t *testing.T) {
	in := newTestInterpreter()
	src := Cell{1, 4}
	bindRow(t, in, src, 2)

	chord := in.Page().Chord(0, src.X, src.Y)
	for x := 0; x < Width; x++ {
		pad := Cell{x, 2}.Pad()
		out := notesOf(t, mustHandle(t, in, press(pad)), midi.NoteOn)
		want := []uint8{uint8(chord[x%theory.NumVoices])}
		if !equalNotes(out, want) {
			t.Errorf("column %d: got %v, want %v", x, out, want)
		}
		off := notesOf(t, mustHandle(t, in, release(pad)), midi.NoteOff)
		if !equalNotes(off, want) {
			t.Errorf("column %d: released %v, want %v", x, off, want)
		}
	}

	// unbound rows play nothing
	if out := mustHandle(t, in, press(Cell{0, 6}.Pad())); len(out) != 0 {
		t.Errorf("unbound row played %v", out)
	}
}

func TestMelodyModifiers(t *testing.T) {
	in := newTestInterpreter()
	src := Cell{0, 0}
	bindRow(t, in, src, 0)

	c := Cell{2, 0}
	mustHandle(t, in, press(c.Pad()))
	mustHandle(t, in, release(c.Pad()))
	mustHandle(t, in, button(midi.ButtonUp))
	mustHandle(t, in, button(midi.ButtonNoteDown))

	out := mustHandle(t, in, press(c.Pad()))
	want := in.Page().Note(0, 0, 0, 2) + 12 - 1
	if len(out) != 1 || int(out[0].Note) != want {
		t.Fatalf("got %v, want note %d", out, want)
	}
}

func TestCellsIgnoredWhileClipboardFull(t *testing.T) {
	in := newTestInterpreter()
	bindRow(t, in, Cell{0, 0}, 0)
	mustHandle(t, in, button(midi.ButtonChords))
	mustHandle(t, in, press(11))
	mustHandle(t, in, release(11))
	mustHandle(t, in, button(midi.ButtonClipboard))
	mustHandle(t, in, button(midi.ButtonMelodies))

	if out := mustHandle(t, in, press(Cell{3, 0}.Pad())); len(out) != 0 {
		t.Errorf("played %v with a full clipboard", out)
	}
}

func TestModeSwitchReleasesHeldNotes(t *testing.T) {
	in := newTestInterpreter()
	on := notesOf(t, mustHandle(t, in, press(11)), midi.NoteOn)

	off := notesOf(t, mustHandle(t, in, button(midi.ButtonMelodies)), midi.NoteOff)
	if !equalNotes(off, on) {
		t.Fatalf("mode switch released %v, want %v", off, on)
	}
	if in.State().Pressed(Cell{0, 0}) {
		t.Error("pressed not cleared on mode switch")
	}
	if in.State().Mode() != ModeMelodies {
		t.Fatalf("mode = %v", in.State().Mode())
	}

	// the pad's own release afterwards is silent
	if out := mustHandle(t, in, release(11)); len(out) != 0 {
		t.Errorf("late release sent %v", out)
	}

	// entering the current mode again is a no-op
	if out := mustHandle(t, in, button(midi.ButtonMelodies)); len(out) != 0 {
		t.Errorf("re-entering mode sent %v", out)
	}
}

func TestReleaseAfterModifierChange(t *testing.T) {
	in := newTestInterpreter()
	on := notesOf(t, mustHandle(t, in, press(11)), midi.NoteOn)
	mustHandle(t, in, button(midi.ButtonUp))
	off := notesOf(t, mustHandle(t, in, release(11)), midi.NoteOff)
	if !equalNotes(off, on) {
		t.Errorf("released %v, want the notes that sounded %v", off, on)
	}
}

func TestNotesOutOfRangeSkipped(t *testing.T) {
	in := NewInterpreter(NewState(), theory.BuildPage(100), 0)
	mustHandle(t, in, press(11))
	mustHandle(t, in, release(11))
	mustHandle(t, in, button(midi.ButtonUp))
	mustHandle(t, in, button(midi.ButtonUp))

	// 124 fits, the rest of the chord climbs past 127
	out := notesOf(t, mustHandle(t, in, press(11)), midi.NoteOn)
	if !equalNotes(out, []uint8{124}) {
		t.Fatalf("got %v, want [124]", out)
	}
	off := notesOf(t, mustHandle(t, in, release(11)), midi.NoteOff)
	if !equalNotes(off, out) {
		t.Errorf("released %v, want %v", off, out)
	}
}

func TestReleaseAll(t *testing.T) {
	in := newTestInterpreter()
	mustHandle(t, in, press(11))
	mustHandle(t, in, press(12))
	out := in.ReleaseAll()
	if len(out) != 2*theory.ChordVoices {
		t.Fatalf("released %d notes, want %d", len(out), 2*theory.ChordVoices)
	}
	if again := in.ReleaseAll(); len(again) != 0 {
		t.Errorf("second ReleaseAll sent %v", again)
	}
}

func TestPageUnchangedByInterpreting(t *testing.T) {
	in := newTestInterpreter()
	bindRow(t, in, Cell{4, 4}, 3)
	for _, pad := range []uint8{11, 45, 77, 34} {
		in.Handle(press(pad))
		in.Handle(release(pad))
	}
	if !in.Page().Equal(theory.BuildPage(theory.DefaultRoot)) {
		t.Error("chord page changed")
	}
}

func TestRenderChords(t *testing.T) {
	in := newTestInterpreter()
	f := Render(in.State(), in.Page())

	for i := 0; i < NumCells; i++ {
		c, _ := CellFromIndex(i)
		if f.Pads[i].Pad != c.Pad() {
			t.Fatalf("pad %d at position %d, want %d", f.Pads[i].Pad, i, c.Pad())
		}
		if got := f.Grid(c); got == midi.ColorPurple {
			t.Errorf("%v purple with nothing pressed", c)
		} else if want := uint8(c.X*c.Y) + midi.ColorOffset; got != want {
			t.Errorf("%v color = %d, want %d", c, got, want)
		}
	}

	mustHandle(t, in, press(Cell{3, 3}.Pad()))
	f = Render(in.State(), in.Page())
	if got := f.Grid(Cell{3, 3}); got != midi.ColorPurple {
		t.Errorf("pressed cell color = %d, want purple", got)
	}

	if got, _ := f.Color(19); got != midi.ColorWhite {
		t.Errorf("scale 0 pad = %d, want white", got)
	}
	for _, pad := range []uint8{29, 39, 49, 59, 69, 79, 89} {
		if got, _ := f.Color(pad); got != midi.ColorOff {
			t.Errorf("scale pad %d = %d, want off", pad, got)
		}
	}
	if got, _ := f.Color(midi.ButtonChords); got != midi.ColorWhite {
		t.Error("chords mode pad not lit")
	}
	if got, _ := f.Color(midi.ButtonMelodies); got != midi.ColorOff {
		t.Error("melodies mode pad lit")
	}
	if f.Flash != 0 {
		t.Errorf("flash = %d with empty clipboard", f.Flash)
	}
}

func TestRenderIndicators(t *testing.T) {
	tests := []struct {
		presses  []uint8
		up, down uint8
	}{
		{nil, midi.ColorOff, midi.ColorOff},
		{[]uint8{midi.ButtonUp}, midi.ColorWhite, midi.ColorOff},
		{[]uint8{midi.ButtonUp, midi.ButtonUp}, midi.ColorBlue, midi.ColorOff},
		{[]uint8{midi.ButtonDown}, midi.ColorOff, midi.ColorWhite},
		{[]uint8{midi.ButtonDown, midi.ButtonDown, midi.ButtonDown}, midi.ColorOff, midi.ColorBlue},
	}
	for _, tt := range tests {
		in := newTestInterpreter()
		mustHandle(t, in, press(11))
		for _, cc := range tt.presses {
			mustHandle(t, in, button(cc))
		}
		f := Render(in.State(), in.Page())
		up, _ := f.Color(midi.ButtonUp)
		down, _ := f.Color(midi.ButtonDown)
		if up != tt.up || down != tt.down {
			t.Errorf("after %v: up/down = %d/%d, want %d/%d", tt.presses, up, down, tt.up, tt.down)
		}
	}
}

func TestRenderMelodies(t *testing.T) {
	in := newTestInterpreter()
	src := Cell{2, 3}
	bindRow(t, in, src, 1)

	c := Cell{4, 1}
	mustHandle(t, in, press(c.Pad()))
	mustHandle(t, in, release(c.Pad()))
	mustHandle(t, in, button(midi.ButtonNoteUp))
	mustHandle(t, in, button(midi.ButtonDown))

	f := Render(in.State(), in.Page())
	for x := 0; x < Width; x++ {
		cell := Cell{x, 1}
		n := in.Page().Note(0, src.X, src.Y, x%theory.NumVoices) + in.State().NoteModifier(cell)
		want := uint8((n%12)*4) + midi.ColorOffset
		if got := f.Grid(cell); got != want {
			t.Errorf("%v color = %d, want %d", cell, got, want)
		}
	}
	if got := f.Grid(Cell{0, 0}); got != midi.ColorDim {
		t.Errorf("unbound row color = %d, want dim", got)
	}

	up, _ := f.Color(midi.ButtonNoteUp)
	down, _ := f.Color(midi.ButtonNoteDown)
	if up != midi.ColorWhite || down != midi.ColorOff {
		t.Errorf("note indicator = %d/%d", up, down)
	}
	up, _ = f.Color(midi.ButtonUp)
	down, _ = f.Color(midi.ButtonDown)
	if up != midi.ColorOff || down != midi.ColorWhite {
		t.Errorf("octave indicator = %d/%d", up, down)
	}
	for _, pad := range []uint8{19, 29, 39} {
		if got, _ := f.Color(pad); got != midi.ColorOff {
			t.Errorf("scale pad %d lit in melodies mode", pad)
		}
	}
	if got, _ := f.Color(midi.ButtonMelodies); got != midi.ColorWhite {
		t.Error("melodies mode pad not lit")
	}
}

func TestRenderFlash(t *testing.T) {
	in := newTestInterpreter()
	c := Cell{3, 2}
	mustHandle(t, in, press(c.Pad()))
	mustHandle(t, in, button(midi.ButtonClipboard))

	f := Render(in.State(), in.Page())
	if want := uint8(3*2) + midi.ColorOffset; f.Flash != want {
		t.Errorf("flash = %d, want %d", f.Flash, want)
	}

	msgs := f.Messages()
	if len(msgs) != 2 {
		t.Fatalf("got %d messages", len(msgs))
	}
	pads, ok := midi.DecodeLitPads(msgs[0])
	if !ok || len(pads) != len(f.Pads) {
		t.Fatalf("lit-pad message did not decode")
	}
	want := []byte{240, 0, 32, 41, 2, 24, 40, 0, 111, f.Flash, 247}
	if string(msgs[1]) != string(want) {
		t.Errorf("flash message = %v, want %v", msgs[1], want)
	}
}

func TestStateSnapshotIsIndependent(t *testing.T) {
	in := newTestInterpreter()
	mustHandle(t, in, press(11))
	snap := *in.State()
	mustHandle(t, in, release(11))
	if !snap.Pressed(Cell{0, 0}) {
		t.Error("snapshot changed with the live state")
	}
	if len(snap.Sounding(Cell{0, 0})) != theory.ChordVoices {
		t.Error("snapshot lost held notes")
	}
}

func TestStop(t *testing.T) {
	s := NewState()
	if s.Stopped() {
		t.Fatal("new state stopped")
	}
	s.Stop()
	if !s.Stopped() {
		t.Fatal("Stop did not stick")
	}
}
