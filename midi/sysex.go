package midi

// Novation SysEx framing for the Launchpad Pro.
// F0 00 20 29 02 18 <command> ... F7

const (
	sysexStart uint8 = 0xF0
	sysexEnd   uint8 = 0xF7

	cmdLitPads uint8 = 0x0A // pairs of (pad, color)
	cmdSetAll  uint8 = 0x0E // one color for every pad
	cmdFlash   uint8 = 0x28 // flash one pad
)

var novationHeader = []byte{sysexStart, 0x00, 0x20, 0x29, 0x02, 0x18}

// HeaderLength is the fixed prefix of a lit-pad message, command byte included.
const HeaderLength = 7

// PadColor lights one pad.
type PadColor struct {
	Pad   uint8
	Color uint8
}

// LitPads frames a batch of pad colors into one SysEx block.
func LitPads(pads []PadColor) []byte {
	frame := make([]byte, 0, HeaderLength+2*len(pads)+1)
	frame = append(frame, novationHeader...)
	frame = append(frame, cmdLitPads)
	for _, p := range pads {
		frame = append(frame, p.Pad&0x7F, p.Color&0x7F)
	}
	return append(frame, sysexEnd)
}

// FlashPad makes a single pad flash with color (0 stops it).
func FlashPad(pad, color uint8) []byte {
	frame := make([]byte, 0, 11)
	frame = append(frame, novationHeader...)
	return append(frame, cmdFlash, 0x00, pad&0x7F, color&0x7F, sysexEnd)
}

// SetAll paints every pad with one color.
func SetAll(color uint8) []byte {
	frame := make([]byte, 0, 9)
	frame = append(frame, novationHeader...)
	return append(frame, cmdSetAll, color&0x7F, sysexEnd)
}

// DecodeLitPads is the inverse of LitPads. It reports false for anything that
// is not a well-formed lit-pad block.
func DecodeLitPads(frame []byte) ([]PadColor, bool) {
	if len(frame) < HeaderLength+1 || (len(frame)-HeaderLength-1)%2 != 0 {
		return nil, false
	}
	for i, b := range novationHeader {
		if frame[i] != b {
			return nil, false
		}
	}
	if frame[HeaderLength-1] != cmdLitPads || frame[len(frame)-1] != sysexEnd {
		return nil, false
	}
	payload := frame[HeaderLength : len(frame)-1]
	pads := make([]PadColor, 0, len(payload)/2)
	for i := 0; i < len(payload); i += 2 {
		pads = append(pads, PadColor{Pad: payload[i], Color: payload[i+1]})
	}
	return pads, true
}
