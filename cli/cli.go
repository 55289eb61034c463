package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	gomidi "gitlab.com/gomidi/midi/v2"

	"go-chordpad/config"
	"go-chordpad/debug"
	"go-chordpad/device"
	"go-chordpad/session"
	"go-chordpad/theme"
	"go-chordpad/theory"
	"go-chordpad/tui"
)

// options are the command-line overrides for the saved config.
type options struct {
	tui     bool
	debug   bool
	root    int
	channel int
}

// NewRootCmd builds the chordpad command tree. A MIDI driver must be
// registered by the caller.
func NewRootCmd() *cobra.Command {
	var opts options

	rootCmd := &cobra.Command{
		Use:   "chordpad <grid-in> <grid-out> <notes-out>",
		Short: "Play chords and melodies from a Launchpad grid",
		Long: `chordpad turns a Launchpad MK2 into a chord and melody controller.

Each column transposes by a semitone, each row is a scale degree. The right
column picks the scale, the top row switches between chords and melodies and
nudges the last pad by octaves or semitones. Notes go to any MIDI output.

Port numbers come from "chordpad list".`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChordpad(cmd, &opts, args)
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List MIDI ports",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return cmd.Usage()
			}
			defer gomidi.CloseDriver()
			return listPorts()
		},
	}

	rootCmd.Flags().BoolVar(&opts.tui, "tui", false, "Mirror the surface in the terminal")
	rootCmd.Flags().BoolVar(&opts.debug, "debug", false, "Write a debug log to ~/.config/go-chordpad/debug.log")
	rootCmd.Flags().IntVar(&opts.root, "root", theory.DefaultRoot, "MIDI pitch of the bottom-left pad")
	rootCmd.Flags().IntVar(&opts.channel, "channel", 0, "MIDI channel for notes (0-15)")
	rootCmd.AddCommand(listCmd)
	return rootCmd
}

func listPorts() error {
	fmt.Println("(waiting up to 3 seconds...)")
	ports, err := device.ListPorts(device.ScanTimeout)
	if err != nil {
		fmt.Println("Fix on macOS: sudo killall coreaudiod midiserver")
		return err
	}

	fmt.Println("=== MIDI Input Ports ===")
	for i, p := range ports.Ins {
		fmt.Printf("  %d: %s\n", i, p.String())
	}
	fmt.Println("\n=== MIDI Output Ports ===")
	for i, p := range ports.Outs {
		fmt.Printf("  %d: %s\n", i, p.String())
	}

	if in, out := ports.FindLaunchpad(); in >= 0 && out >= 0 {
		fmt.Printf("\nLaunchpad looks like: chordpad %d %d <notes-out>\n", in, out)
	}
	return nil
}

// parsePorts reads the three port numbers; ok is false for anything else.
func parsePorts(args []string) (ids [3]int, ok bool) {
	if len(args) != len(ids) {
		return ids, false
	}
	for i, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil || n < 0 {
			return ids, false
		}
		ids[i] = n
	}
	return ids, true
}

func loadConfig(cmd *cobra.Command, opts *options) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("tui") {
		cfg.UI.Mirror = opts.tui
	}
	if cmd.Flags().Changed("debug") {
		cfg.UI.Debug = opts.debug
	}
	if cmd.Flags().Changed("root") {
		cfg.Root = opts.root
	}
	if cmd.Flags().Changed("channel") {
		cfg.NoteChannel = opts.channel
	}
	return cfg, cfg.Validate()
}

func runChordpad(cmd *cobra.Command, opts *options, args []string) error {
	ids, ok := parsePorts(args)
	if !ok {
		cmd.Usage()
		if cfg, err := config.Load(); err == nil && cfg.Ports != nil {
			fmt.Printf("\nLast used: chordpad %d %d %d\n", cfg.Ports.GridIn, cfg.Ports.GridOut, cfg.Ports.NotesOut)
		}
		return nil
	}

	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}
	if cfg.UI.Debug {
		if err := debug.Enable(); err != nil {
			fmt.Fprintf(os.Stderr, "debug log: %v\n", err)
		}
		defer debug.Disable()
	}

	defer gomidi.CloseDriver()

	ports, err := device.ListPorts(device.ScanTimeout)
	if err != nil {
		return err
	}
	gridIn, err := ports.In(ids[0])
	if err != nil {
		return err
	}
	gridOut, err := ports.Out(ids[1])
	if err != nil {
		return err
	}
	notesOut, err := ports.Out(ids[2])
	if err != nil {
		return err
	}

	lp, err := device.OpenLaunchpad(gridIn, gridOut)
	if err != nil {
		return err
	}
	defer lp.Close()

	notes, err := device.OpenNoteOut(notesOut, uint8(cfg.NoteChannel))
	if err != nil {
		return err
	}
	defer notes.Close()

	cfg.RememberPorts(ids[0], ids[1], ids[2])
	if err := cfg.Save(); err != nil {
		debug.Log("config", "save: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s := session.New(lp, notes, theory.BuildPage(cfg.Root), uint8(cfg.NoteChannel))

	if !cfg.UI.Mirror {
		fmt.Println("go-chordpad")
		fmt.Printf("grid: %s  notes: %s  root: %s\n", gridIn.String(), notesOut.String(), theory.NoteName(cfg.Root))
		fmt.Println("Ctrl+C to quit")
		return s.Run(ctx)
	}

	palette, err := theme.Load(cfg.UI.Palette)
	if err != nil {
		return errors.Wrap(err, "terminal mirror")
	}

	p := tea.NewProgram(tui.NewModel(s, theme.New(palette), cancel), tea.WithAltScreen())

	done := make(chan error, 1)
	go func() {
		err := s.Run(ctx)
		p.Send(tui.DoneMsg{Err: err})
		done <- err
	}()

	if _, err := p.Run(); err != nil {
		cancel()
		<-done
		return errors.Wrap(err, "terminal mirror")
	}
	cancel()
	return <-done
}
