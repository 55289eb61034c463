// Package session runs the read, interpret, play, repaint loop between one
// grid surface and one note sink.
package session

import (
	"bytes"
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"go-chordpad/debug"
	"go-chordpad/midi"
	"go-chordpad/surface"
	"go-chordpad/theory"
)

// Snapshot is what the terminal mirror draws. State is a copy.
type Snapshot struct {
	State surface.State
	Frame surface.Frame
	Last  midi.Event
}

// Session owns the surface state. Everything but UpdateChan is touched only
// from the goroutine running Run.
type Session struct {
	ID string

	controller midi.Controller
	sink       midi.NoteSink
	interp     *surface.Interpreter
	dedup      midi.Dedup

	painted [][]byte
	last    midi.Event

	// Notify TUI of updates
	UpdateChan chan Snapshot
}

// New builds a session playing from page into sink on the given channel.
func New(controller midi.Controller, sink midi.NoteSink, page *theory.Page, channel uint8) *Session {
	return &Session{
		ID:         uuid.New().String(),
		controller: controller,
		sink:       sink,
		interp:     surface.NewInterpreter(surface.NewState(), page, channel),
		UpdateChan: make(chan Snapshot, 1),
	}
}

// State is the live state. Only safe to read once Run has returned.
func (s *Session) State() *surface.State {
	return s.interp.State()
}

// Run processes surface events until ctx is done or the controller closes
// its event channel. On the way out every held note is released and the
// grid is cleared. Only transport failures are returned.
func (s *Session) Run(ctx context.Context) error {
	debug.SetField("session", s.ID)
	debug.Log("session", "start controller=%s", s.controller.ID())

	err := s.loop(ctx)
	if serr := s.shutdown(); err == nil {
		err = serr
	}
	debug.Log("session", "stopped err=%v", err)
	return err
}

func (s *Session) loop(ctx context.Context) error {
	if err := s.repaint(); err != nil {
		return err
	}

	state := s.interp.State()
	events := s.controller.Events()
	for !state.Stopped() {
		select {
		case <-ctx.Done():
			state.Stop()
		case ev, ok := <-events:
			if !ok {
				state.Stop()
				continue
			}
			if err := s.handle(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Session) handle(ev midi.Event) error {
	if !s.dedup.Accept(ev) {
		debug.Log("input", "repeat %v", ev)
		return nil
	}
	debug.Log("input", "%v", ev)
	s.last = ev

	notes, err := s.interp.Handle(ev)
	if err != nil {
		if errors.Is(err, surface.ErrRejected) {
			debug.Warn("input", err)
			return nil
		}
		return err
	}
	if err := s.play(notes); err != nil {
		return err
	}
	return s.repaint()
}

func (s *Session) play(notes []midi.Event) error {
	for _, n := range notes {
		if err := s.sink.Play(n); err != nil {
			return errors.Wrap(err, "note sink")
		}
	}
	return nil
}

// repaint sends only the blocks that changed since the last paint.
func (s *Session) repaint() error {
	state := s.interp.State()
	frame := surface.Render(state, s.interp.Page())
	msgs := frame.Messages()

	for i, msg := range msgs {
		if i < len(s.painted) && bytes.Equal(s.painted[i], msg) {
			continue
		}
		if err := s.controller.SendSysEx(msg); err != nil {
			return errors.Wrap(err, "paint surface")
		}
	}
	s.painted = msgs

	snap := Snapshot{State: *state, Frame: frame, Last: s.last}
	select {
	case <-s.UpdateChan:
	default:
	}
	select {
	case s.UpdateChan <- snap:
	default:
	}
	return nil
}

func (s *Session) shutdown() error {
	s.interp.State().Stop()
	notes := s.interp.ReleaseAll()
	err := s.play(notes)

	for _, msg := range [][]byte{midi.SetAll(midi.ColorOff), midi.FlashPad(midi.ButtonClipboard, midi.ColorOff)} {
		if serr := s.controller.SendSysEx(msg); serr != nil && err == nil {
			err = errors.Wrap(serr, "clear surface")
		}
	}
	return err
}
