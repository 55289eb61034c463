package device

import (
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"

	"go-chordpad/debug"
	"go-chordpad/midi"
)

// eventBuffer is how many surface events can queue while the session is busy.
const eventBuffer = 64

var sysexSendCount uint64

// Launchpad handles a Novation Launchpad MK2 grid: every short message it
// sends is forwarded as an event, lights are written as SysEx blocks.
type Launchpad struct {
	id       string
	send     func(msg gomidi.Message) error
	stopFunc func()

	mu        sync.Mutex
	closed    bool
	events    chan midi.Event
	closeOnce sync.Once
}

// OpenLaunchpad opens the surface on an input and an output port.
func OpenLaunchpad(inPort drivers.In, outPort drivers.Out) (*Launchpad, error) {
	send, err := gomidi.SendTo(outPort)
	if err != nil {
		return nil, errors.Wrapf(err, "open launchpad output %q", outPort.String())
	}
	lp := NewLaunchpad(inPort.String(), send)

	stop, err := gomidi.ListenTo(inPort, func(msg gomidi.Message, timestampms int32) {
		lp.deliver(msg)
	})
	if err != nil {
		return nil, errors.Wrapf(err, "open launchpad input %q", inPort.String())
	}
	lp.stopFunc = stop

	debug.Log("device", "launchpad in=%q out=%q", inPort.String(), outPort.String())
	return lp, nil
}

// NewLaunchpad builds a surface around an already open sender. Events are
// fed through deliver; OpenLaunchpad wires that to the input port.
func NewLaunchpad(id string, send func(msg gomidi.Message) error) *Launchpad {
	return &Launchpad{
		id:     id,
		send:   send,
		events: make(chan midi.Event, eventBuffer),
	}
}

// deliver runs on the driver's callback goroutine. It never blocks: when the
// session falls behind, events are dropped.
func (lp *Launchpad) deliver(msg gomidi.Message) {
	ev, ok := midi.FromMessage(msg)
	if !ok {
		return
	}
	lp.mu.Lock()
	defer lp.mu.Unlock()
	if lp.closed {
		return
	}
	select {
	case lp.events <- ev:
	default:
		debug.LogEvery(100, "lp-drop", "dropped %v", ev)
	}
}

func (lp *Launchpad) ID() string {
	return lp.id
}

func (lp *Launchpad) Type() midi.ControllerType {
	return midi.ControllerLaunchpad
}

func (lp *Launchpad) Events() <-chan midi.Event {
	return lp.events
}

// SendSysEx writes one framed block (F0 ... F7).
func (lp *Launchpad) SendSysEx(frame []byte) error {
	if len(frame) < 2 || frame[0] != 0xF0 || frame[len(frame)-1] != 0xF7 {
		return errors.Errorf("malformed sysex frame % X", frame)
	}
	if err := lp.send(gomidi.SysEx(frame[1 : len(frame)-1])); err != nil {
		return errors.Wrap(err, "send sysex")
	}
	n := atomic.AddUint64(&sysexSendCount, 1)
	debug.LogEvery(500, "lp-send", "sysex count=%d len=%d", n, len(frame))
	return nil
}

// Close clears the surface and stops listening. Safe to call more than once.
func (lp *Launchpad) Close() error {
	var err error
	lp.closeOnce.Do(func() {
		err = lp.SendSysEx(midi.SetAll(midi.ColorOff))
		if lp.stopFunc != nil {
			lp.stopFunc()
		}
		lp.mu.Lock()
		lp.closed = true
		close(lp.events)
		lp.mu.Unlock()
	})
	return err
}
