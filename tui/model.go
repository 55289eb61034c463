package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"go-chordpad/session"
	"go-chordpad/surface"
	"go-chordpad/theme"
	"go-chordpad/theory"
	"go-chordpad/widgets"
)

// Model mirrors the surface in the terminal. It only reads snapshots; all
// state changes happen on the session goroutine.
type Model struct {
	Updates  <-chan session.Snapshot
	Theme    *theme.Theme
	ID       string
	snap     *session.Snapshot
	quitting bool
	cancel   func()
}

type UpdateMsg session.Snapshot

// DoneMsg tells the model the session has ended.
type DoneMsg struct{ Err error }

func NewModel(s *session.Session, th *theme.Theme, cancel func()) Model {
	return Model{
		Updates: s.UpdateChan,
		Theme:   th,
		ID:      s.ID,
		cancel:  cancel,
	}
}

func ListenForUpdates(updates <-chan session.Snapshot) tea.Cmd {
	return func() tea.Msg {
		return UpdateMsg(<-updates)
	}
}

func (m Model) Init() tea.Cmd {
	return ListenForUpdates(m.Updates)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		}

	case UpdateMsg:
		snap := session.Snapshot(msg)
		m.snap = &snap
		return m, ListenForUpdates(m.Updates)

	case DoneMsg:
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	headerStyle := lipgloss.NewStyle().Foreground(m.Theme.Accent()).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())
	fgStyle := lipgloss.NewStyle().Foreground(m.Theme.FG())

	var out strings.Builder
	out.WriteString("\n")

	if m.snap == nil {
		out.WriteString(headerStyle.Render("go-chordpad"))
		out.WriteString("\n\n")
		out.WriteString(dimStyle.Render("waiting for the surface..."))
		return out.String()
	}

	st := &m.snap.State
	header := fmt.Sprintf("go-chordpad  %s  %s  session %s", st.Mode(), theory.ScaleNames[st.Scale()], shortID(m.ID))
	out.WriteString(headerStyle.Render(header))
	out.WriteString("\n\n")

	colors := widgets.NewPadColors(m.snap.Frame.Pads, m.Theme.Pad)
	sym := m.Theme.Symbols
	out.WriteString(widgets.RenderSurface(colors, sym.Pad, sym.Off, m.snap.Frame.Flash, sym.Flash))
	out.WriteString("\n\n")

	for _, line := range details(st) {
		out.WriteString(fgStyle.Render(line))
		out.WriteString("\n")
	}
	out.WriteString("\n")
	out.WriteString(dimStyle.Render(fmt.Sprintf("last event: %v", m.snap.Last)))
	out.WriteString("\n\n")

	out.WriteString(dimStyle.Render(widgets.RenderKeyHelp([]widgets.KeySection{{
		Keys: []widgets.KeyBinding{{Key: "q", Desc: "quit"}},
	}})))
	return out.String()
}

// details lists the clipboard, melody rows and the last pad's modifiers.
func details(st *surface.State) []string {
	var lines []string

	if c, ok := st.Clipboard(); ok {
		lines = append(lines, fmt.Sprintf("clipboard: %v", c))
	} else {
		lines = append(lines, "clipboard: empty")
	}

	for row := surface.Height - 1; row >= 0; row-- {
		slot, ok := st.Slot(row)
		if !ok {
			continue
		}
		lines = append(lines, fmt.Sprintf("row %d: chord %v  %s  %+d oct",
			row, slot.Chord, theory.ScaleNames[slot.Scale], slot.Modifier))
	}

	if c, ok := st.LastCell(); ok {
		lines = append(lines, fmt.Sprintf("pad %v: chord %+d oct  octave %+d  note %+d",
			c, st.ChordModifier(c), st.OctaveModifier(c), st.NoteModifier(c)))
		if notes := st.Sounding(c); len(notes) > 0 {
			names := make([]string, len(notes))
			for i, n := range notes {
				names[i] = theory.NoteName(int(n))
			}
			lines = append(lines, "sounding: "+strings.Join(names, " "))
		}
	}
	return lines
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
