package midi

// ControllerType identifies the kind of controller
type ControllerType int

const (
	ControllerUnknown ControllerType = iota
	ControllerLaunchpad
	ControllerNoteSink
)

// Controller is a grid surface: raw events in, SysEx frames out.
type Controller interface {
	ID() string
	Type() ControllerType

	// Events delivers every decoded short message from the surface, in order.
	Events() <-chan Event

	// SendSysEx writes one complete F0..F7 block.
	SendSysEx(frame []byte) error

	Close() error
}

// NoteSink receives the notes the performer plays.
type NoteSink interface {
	Play(ev Event) error
	Close() error
}

// Launchpad Pro palette indices (velocity values 0-127)
const (
	ColorOff    uint8 = 0
	ColorDim    uint8 = 1
	ColorWhite  uint8 = 2
	ColorBlue   uint8 = 39
	ColorPurple uint8 = 48

	// ColorOffset shifts computed gradients away from the dark end of the palette.
	ColorOffset uint8 = 10
)

// Top-row control buttons (CC numbers on the surface)
const (
	ButtonUp        uint8 = 104
	ButtonDown      uint8 = 105
	ButtonChords    uint8 = 106
	ButtonMelodies  uint8 = 107
	ButtonNoteUp    uint8 = 108
	ButtonNoteDown  uint8 = 109
	ButtonClipboard uint8 = 111
)
