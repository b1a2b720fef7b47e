// debug_dump.go - On-demand engine state snapshots

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
	"time"

	"github.com/davecgh/go-spew/spew"
)

type unitSnapshot struct {
	ID        UnitID
	Label     string
	Active    bool
	Amplitude float64
	Phase     float64
}

type timerSnapshot struct {
	Kind   timerKind
	Unit   UnitID
	FireAt time.Time
}

type engineSnapshot struct {
	Frame     uint64
	Elapsed   float64
	SoundOn   bool
	VolumeDB  float64
	Units     []unitSnapshot
	FadingIn  []UnitID
	FadingOut []UnitID
	Sounding  []string
	Timers    []timerSnapshot
}

// Snapshot captures everything the tick timeline owns, for dumps and tests.
func (e *Engine) Snapshot() engineSnapshot {
	snap := engineSnapshot{
		Frame:     e.frameCount,
		Elapsed:   e.Elapsed(),
		SoundOn:   e.soundOn,
		VolumeDB:  e.volumeDB,
		FadingIn:  e.transitions.FadingIn(),
		FadingOut: e.transitions.FadingOut(),
		Sounding:  e.voices.Sounding(),
	}
	for _, u := range e.catalog.All() {
		snap.Units = append(snap.Units, unitSnapshot{
			ID:        u.ID,
			Label:     u.Label,
			Active:    e.catalog.IsActive(u.ID),
			Amplitude: u.Amplitude,
			Phase:     u.Phase,
		})
	}
	for _, t := range e.timers {
		snap.Timers = append(snap.Timers, timerSnapshot{Kind: t.kind, Unit: t.unit, FireAt: t.fireAt})
	}
	return snap
}

// DumpState renders the snapshot for the D key and --dump-state.
func (e *Engine) DumpState() string {
	return spew.Sdump(e.Snapshot())
}
