// unit_script.go - Lua loader for custom frequency units

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
	"image/color"
	"log"
	"os"

	lua "github.com/yuin/gopher-lua"
)

var scriptLog = log.New(os.Stdout, "UNITS: ", log.Ldate|log.Ltime)

const CUSTOM_UNIT_AMPLITUDE = 50.0

// loadUnitScript runs a Lua file that declares a global `units` table:
//
//	units = {
//	  { label = "Lunar", frequency = 1 / 2551443, amplitude = 40, color = "#cccc88" },
//	}
//
// Each well-formed entry becomes a custom catalog unit, inactive until added.
// Malformed entries are skipped with a warning; a missing table or a script
// error aborts startup.
func loadUnitScript(path string, nextID UnitID) ([]*FrequencyUnit, error) {
	L := lua.NewState()
	defer L.Close()

	if err := L.DoFile(path); err != nil {
		return nil, fmt.Errorf("unit script %s: %w", path, err)
	}
	tbl, ok := L.GetGlobal("units").(*lua.LTable)
	if !ok {
		return nil, errors.New("unit script: global 'units' table not found")
	}

	var units []*FrequencyUnit
	tbl.ForEach(func(_, v lua.LValue) {
		entry, ok := v.(*lua.LTable)
		if !ok {
			scriptLog.Printf("Skipping non-table units entry: %s", v.Type())
			return
		}
		label := lua.LVAsString(entry.RawGetString("label"))
		frequency := float64(lua.LVAsNumber(entry.RawGetString("frequency")))
		if label == "" || frequency <= 0 {
			scriptLog.Printf("Skipping unit entry %q: label and a positive frequency are required", label)
			return
		}
		amplitude := float64(lua.LVAsNumber(entry.RawGetString("amplitude")))
		if amplitude <= 0 {
			amplitude = CUSTOM_UNIT_AMPLITUDE
		}
		unitColor, err := parseHexColor(lua.LVAsString(entry.RawGetString("color")))
		if err != nil {
			scriptLog.Printf("Unit %q: %v, using default color", label, err)
			unitColor = color.RGBA{200, 200, 200, 255}
		}

		units = append(units, &FrequencyUnit{
			ID:        nextID,
			Label:     label,
			Frequency: frequency,
			Amplitude: amplitude,
			Color:     unitColor,
		})
		nextID++
	})
	return units, nil
}

// parseHexColor accepts "#RRGGBB".
func parseHexColor(s string) (color.RGBA, error) {
	if len(s) != 7 || s[0] != '#' {
		return color.RGBA{}, fmt.Errorf("bad color %q", s)
	}
	var r, g, b uint8
	if _, err := fmt.Sscanf(s[1:], "%02x%02x%02x", &r, &g, &b); err != nil {
		return color.RGBA{}, fmt.Errorf("bad color %q: %w", s, err)
	}
	return color.RGBA{r, g, b, 255}, nil
}
