// main.go - QuartzWave Engine entry point

/*
  ___                           _          __        __
 / _ \   _   _    __ _   _ __  | |_   ____ \ \      / /   __ _  __   __   ___
| | | | | | | |  / _` | | '__| | __| |_  /  \ \ /\ / /   / _` | \ \ / /  / _ \
| |_| | | |_| | | (_| | | |    | |_   / /    \ V  V /   | (_| |  \ V /  |  __/
 \__\_\  \__,_|  \__,_| |_|     \__| /___|    \_/\_/     \__,_|   \_/    \___|

(c) 2025 - 2026 The QuartzWave Authors
https://github.com/quartzwave/QuartzWaveEngine
License: GPLv3 or later
*/

package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
	"github.com/sqweek/dialog"
)

const Version = "1.2.0"

func boilerPlate() {
	fmt.Println(`
  ___                           _          __        __
 / _ \   _   _    __ _   _ __  | |_   ____ \ \      / /   __ _  __   __   ___
| | | | | | | |  / _` + "`" + ` | | '__| | __| |_  /  \ \ /\ / /   / _` + "`" + ` | \ \ / /  / _ \
| |_| | | |_| | | (_| | | |    | |_   / /    \ V  V /   | (_| |  \ V /  |  __/
 \__\_\  \__,_|  \__,_| |_|     \__| /___|    \_/\_/     \__,_|   \_/    \___|`)
	fmt.Println("\nThe current time, drawn as a waveform and played as a chord.")
	fmt.Println("(c) 2025 - 2026 The QuartzWave Authors")
	fmt.Println("https://github.com/quartzwave/QuartzWaveEngine")
	fmt.Println("License: GPLv3 or later")
}

func main() {
	boilerPlate()

	var (
		audioBackend string
		startSound   bool
		volume       float64
		unitsPath    string
		pickUnits    bool
		dumpState    bool
		width        int
		height       int
	)

	flagSet := pflag.NewFlagSet(os.Args[0], pflag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagSet.StringVar(&audioBackend, "audio", "oto", "Audio backend: oto or portaudio")
	flagSet.BoolVar(&startSound, "sound", false, "Start with sound enabled")
	flagSet.Float64Var(&volume, "volume", DEFAULT_VOLUME, "Master volume in dB")
	flagSet.StringVar(&unitsPath, "units", "", "Lua script defining custom frequency units")
	flagSet.BoolVar(&pickUnits, "pick-units", false, "Choose the unit script via a file dialog")
	flagSet.BoolVar(&dumpState, "dump-state", false, "Print an engine state snapshot at startup")
	flagSet.IntVar(&width, "width", DEFAULT_WIDTH, "Window width")
	flagSet.IntVar(&height, "height", DEFAULT_HEIGHT, "Window height")

	flagSet.Usage = func() {
		flagSet.SetOutput(os.Stdout)
		fmt.Println("Usage: ./quartzwave_engine [--audio oto|portaudio] [--sound] [--volume -12] [--units script.lua|--pick-units]")
		flagSet.PrintDefaults()
	}

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	display, err := NewWaveDisplay(DISPLAY_BACKEND_EBITEN)
	if err != nil {
		fmt.Printf("Failed to initialize display: %v\n", err)
		os.Exit(1)
	}
	width, height = resolveWindowSize(width, height)
	if err := display.SetDisplayConfig(DisplayConfig{
		Width:       width,
		Height:      height,
		RefreshRate: DEFAULT_REFRESH_RATE,
		VSync:       true,
	}); err != nil {
		fmt.Printf("Failed to configure display: %v\n", err)
		os.Exit(1)
	}

	backend := SYNTH_BACKEND_OTO
	switch audioBackend {
	case "oto":
	case "portaudio":
		backend = SYNTH_BACKEND_PORTAUDIO
	default:
		fmt.Printf("Error: unknown audio backend %q (want oto or portaudio)\n", audioBackend)
		os.Exit(1)
	}

	// Audio failure is not fatal: run visual-only.
	synth, err := NewSynth(backend)
	if err != nil {
		fmt.Printf("Audio unavailable, continuing visual-only: %v\n", err)
		synth = nil
	}

	engine := NewEngine(synth, display)
	engine.SetVolume(volume)

	if pickUnits && unitsPath == "" {
		path, err := dialog.
			File().
			Title("Open unit script").
			Filter("Lua unit scripts (*.lua)", "lua").
			Load()
		switch {
		case errors.Is(err, dialog.ErrCancelled):
			fmt.Println("Unit script selection cancelled")
		case err != nil:
			fmt.Printf("Unit script dialog failed: %v\n", err)
			os.Exit(1)
		default:
			unitsPath = path
		}
	}
	if unitsPath != "" {
		units, err := loadUnitScript(unitsPath, engine.Catalog().NextCustomID())
		if err != nil {
			fmt.Printf("Error loading unit script: %v\n", err)
			os.Exit(1)
		}
		for _, u := range units {
			if err := engine.Catalog().AddCustom(u); err != nil {
				scriptLog.Printf("Skipping %q: %v", u.Label, err)
			}
		}
		scriptLog.Printf("Loaded %d custom unit(s) from %s", len(units), unitsPath)
	}

	if startSound {
		engine.SetSoundEnabled(true)
	}
	if dumpState {
		fmt.Print(engine.DumpState())
	}

	display.SetTickHandler(engine.Tick)
	display.SetKeyHandler(func(r rune) { handleKey(engine, r) })

	if err := display.Start(); err != nil {
		fmt.Printf("Failed to start display: %v\n", err)
		os.Exit(1)
	}
	<-display.Done()

	if synth != nil {
		synth.Close()
	}
}

// resolveWindowSize sanity-checks the requested window dimensions. A
// non-positive width or height falls back to the default size as a pair, so a
// half-specified override never produces a degenerate window.
func resolveWindowSize(width, height int) (int, int) {
	if width <= 0 || height <= 0 {
		return DEFAULT_WIDTH, DEFAULT_HEIGHT
	}
	return width, height
}

// handleKey maps keyboard input onto the engine's action surface. It runs on
// the display's update pass, the same timeline as the tick handler.
func handleKey(e *Engine, r rune) {
	switch r {
	case 'm', 'M':
		e.SetSoundEnabled(!e.SoundEnabled())
	case 's', 'S':
		e.ToggleSpectrum()
	case 'd', 'D':
		fmt.Print(e.DumpState())
	case '+', '=':
		e.SetVolume(e.VolumeDB() + 3)
	case '-', '_':
		e.SetVolume(e.VolumeDB() - 3)
	default:
		if r >= '1' && r <= '9' {
			units := e.Catalog().All()
			if idx := int(r - '1'); idx < len(units) {
				e.ToggleFrequencyUnit(units[idx].ID)
			}
		}
	}
}
