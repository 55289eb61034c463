package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"go-chordpad/midi"
)

// PadColors looks up pad colors by surface code.
type PadColors map[uint8]lipgloss.Color

// NewPadColors maps every pad of a frame through color.
func NewPadColors(pads []midi.PadColor, color func(index uint8) lipgloss.Color) PadColors {
	pc := make(PadColors, len(pads))
	for _, p := range pads {
		pc[p.Pad] = color(p.Color)
	}
	return pc
}

// RenderPad renders a single colored pad
func RenderPad(color lipgloss.Color, symbol rune) string {
	return lipgloss.NewStyle().Foreground(color).Render(string(symbol))
}

// RenderSurface draws the surface as it sits on the desk: the control row
// (104-111) on top, then grid rows 7 down to 0 with the side pads on the
// right. Pads missing from colors are drawn as off.
func RenderSurface(colors PadColors, lit, off rune, flash uint8, flashSymbol rune) string {
	pad := func(code uint8) string {
		c, ok := colors[code]
		if !ok {
			return string(off)
		}
		if code == midi.ButtonClipboard && flash != 0 {
			return RenderPad(c, flashSymbol)
		}
		return RenderPad(c, lit)
	}

	var lines []string
	var top strings.Builder
	for code := uint8(104); code <= 111; code++ {
		top.WriteString(pad(code))
		top.WriteString(" ")
	}
	lines = append(lines, top.String())

	for row := 7; row >= 0; row-- {
		var line strings.Builder
		for col := 0; col < 8; col++ {
			line.WriteString(pad(uint8(row*10 + col + 11)))
			line.WriteString(" ")
		}
		line.WriteString(pad(uint8(row*10 + 19)))
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}

// RenderKeyHelp formats key bindings in a friendly way
func RenderKeyHelp(sections []KeySection) string {
	var lines []string
	for _, sec := range sections {
		if sec.Title != "" {
			lines = append(lines, sec.Title)
		}
		for _, k := range sec.Keys {
			lines = append(lines, fmt.Sprintf("  %-12s %s", k.Key, k.Desc))
		}
	}
	return strings.Join(lines, "\n")
}

// KeySection groups related key bindings
type KeySection struct {
	Title string
	Keys  []KeyBinding
}

// KeyBinding is a single key and its description
type KeyBinding struct {
	Key  string
	Desc string
}
