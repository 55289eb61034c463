// Package device opens the MIDI ports the grid and the note sink live on.
package device

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// ScanTimeout bounds port enumeration. CoreMIDI can hang.
const ScanTimeout = 3 * time.Second

var ErrScanTimeout = errors.New("midi port scan timed out")

// Ports is a snapshot of the driver's ports, numbered the way the CLI takes them.
type Ports struct {
	Ins  []drivers.In
	Outs []drivers.Out
}

// ListPorts enumerates input and output ports, giving up after timeout.
func ListPorts(timeout time.Duration) (Ports, error) {
	return listWith(timeout, gomidi.GetInPorts, gomidi.GetOutPorts)
}

func listWith(timeout time.Duration, ins func() gomidi.InPorts, outs func() gomidi.OutPorts) (Ports, error) {
	ch := make(chan Ports, 1)
	go func() {
		ch <- Ports{Ins: ins(), Outs: outs()}
	}()

	select {
	case p := <-ch:
		return p, nil
	case <-time.After(timeout):
		return Ports{}, ErrScanTimeout
	}
}

// In returns input port n.
func (p Ports) In(n int) (drivers.In, error) {
	if n < 0 || n >= len(p.Ins) {
		return nil, errors.Errorf("no input port %d (have %d)", n, len(p.Ins))
	}
	return p.Ins[n], nil
}

// Out returns output port n.
func (p Ports) Out(n int) (drivers.Out, error) {
	if n < 0 || n >= len(p.Outs) {
		return nil, errors.Errorf("no output port %d (have %d)", n, len(p.Outs))
	}
	return p.Outs[n], nil
}

// FindLaunchpad returns the first input and output whose names look like a
// Launchpad, or -1.
func (p Ports) FindLaunchpad() (in, out int) {
	in, out = -1, -1
	for i, port := range p.Ins {
		if isLaunchpad(port.String()) {
			in = i
			break
		}
	}
	for i, port := range p.Outs {
		if isLaunchpad(port.String()) {
			out = i
			break
		}
	}
	return in, out
}

func isLaunchpad(name string) bool {
	return strings.Contains(strings.ToLower(name), "launchpad")
}
