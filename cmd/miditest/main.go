package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"go-chordpad/device"
	"go-chordpad/midi"
	"go-chordpad/surface"
	"go-chordpad/theory"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}
	defer gomidi.CloseDriver()

	switch os.Args[1] {
	case "detect":
		detectLaunchpad()
	case "leds":
		testLEDs()
	case "monitor":
		monitor()
	case "poll":
		pollDevices()
	default:
		usage()
	}
}

func usage() {
	fmt.Println("Launchpad test scripts")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  detect   - Find a Launchpad")
	fmt.Println("  leds     - Paint the idle chord grid and flash the clipboard pad")
	fmt.Println("  monitor  - Print every event the Launchpad sends")
	fmt.Println("  poll     - Poll for device changes")
}

func openLaunchpad() (*device.Launchpad, bool) {
	ports, err := device.ListPorts(device.ScanTimeout)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		fmt.Println("Fix: sudo killall coreaudiod midiserver")
		return nil, false
	}
	in, out := ports.FindLaunchpad()
	if in < 0 || out < 0 {
		fmt.Println("No Launchpad found")
		return nil, false
	}

	lp, err := device.OpenLaunchpad(ports.Ins[in], ports.Outs[out])
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return nil, false
	}
	fmt.Printf("Using: %d %s / %d %s\n", in, ports.Ins[in].String(), out, ports.Outs[out].String())
	return lp, true
}

func detectLaunchpad() {
	fmt.Println("Looking for a Launchpad...")

	ports, err := device.ListPorts(device.ScanTimeout)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	in, out := ports.FindLaunchpad()
	if in >= 0 {
		fmt.Printf("Found input: %d: %s\n", in, ports.Ins[in].String())
	}
	if out >= 0 {
		fmt.Printf("Found output: %d: %s\n", out, ports.Outs[out].String())
	}

	if in >= 0 && out >= 0 {
		fmt.Println("\nLaunchpad detected!")
	} else {
		fmt.Println("\nLaunchpad not found")
	}
}

func testLEDs() {
	lp, ok := openLaunchpad()
	if !ok {
		return
	}
	defer lp.Close()

	fmt.Println("Painting the idle grid...")
	frame := surface.Render(surface.NewState(), theory.BuildPage(theory.DefaultRoot))
	for _, msg := range frame.Messages() {
		if err := lp.SendSysEx(msg); err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
	}
	time.Sleep(100 * time.Millisecond)

	fmt.Println("Flashing the clipboard pad...")
	if err := lp.SendSysEx(midi.FlashPad(midi.ButtonClipboard, midi.ColorPurple)); err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	fmt.Println("Press Enter to clear...")
	fmt.Scanln()
	fmt.Println("Done!")
}

func monitor() {
	lp, ok := openLaunchpad()
	if !ok {
		return
	}
	defer lp.Close()

	fmt.Println("Press pads. Ctrl+C to exit.")
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)

	var dedup midi.Dedup
	for {
		select {
		case <-sig:
			return
		case ev := <-lp.Events():
			mark := ""
			if !dedup.Accept(ev) {
				mark = "  (repeat)"
			}
			where := ""
			if c, err := surface.CellFromPad(ev.Note); err == nil && ev.Type != midi.CC {
				where = " cell " + c.String()
			}
			fmt.Printf("[%s] %v%s%s\n", time.Now().Format("15:04:05.000"), ev, where, mark)
		}
	}
}

func pollDevices() {
	fmt.Println("Polling for device changes every 2 seconds...")
	fmt.Println("Connect/disconnect Launchpad to test. Ctrl+C to exit.")

	lastIn := ""
	lastOut := ""

	for {
		ports, err := device.ListPorts(device.ScanTimeout)
		if err != nil {
			fmt.Printf("[%s] %v\n", time.Now().Format("15:04:05"), err)
			time.Sleep(2 * time.Second)
			continue
		}

		var inNames, outNames []string
		for _, p := range ports.Ins {
			inNames = append(inNames, p.String())
		}
		for _, p := range ports.Outs {
			outNames = append(outNames, p.String())
		}

		currentIn := strings.Join(inNames, ",")
		currentOut := strings.Join(outNames, ",")

		if currentIn != lastIn || currentOut != lastOut {
			fmt.Printf("\n[%s] Device change detected!\n", time.Now().Format("15:04:05"))
			fmt.Printf("  Inputs: %v\n", inNames)
			fmt.Printf("  Outputs: %v\n", outNames)

			if in, _ := ports.FindLaunchpad(); in >= 0 {
				fmt.Println("  -> Launchpad detected!")
			}

			lastIn = currentIn
			lastOut = currentOut
		}

		time.Sleep(2 * time.Second)
	}
}
