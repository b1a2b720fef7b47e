// harmonic_mapper.go - Deterministic composite-signal to chord mapping

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
	"math"
	"strconv"
)

// ChordSlot records which construction step produced a note. The voice manager
// uses it to tell root notes from harmony notes when classifying transitions.
type ChordSlot int

const (
	SlotRoot ChordSlot = iota
	SlotThird
	SlotFifth
)

func (s ChordSlot) String() string {
	switch s {
	case SlotRoot:
		return "root"
	case SlotThird:
		return "third"
	case SlotFifth:
		return "fifth"
	}
	return "unknown"
}

// ChordNote is one pitch of the target chord: pitch class + octave, plus the
// slot it came from.
type ChordNote struct {
	Name   string // e.g. "A4"
	Pitch  string // pitch class, e.g. "A"
	Octave int
	Slot   ChordSlot
}

// The three candidate pentatonic scales. Which one sounds is driven by a slow
// oscillator over the render clock, so the tonal center drifts over minutes.
var pentatonicScales = [3][5]string{
	{"C", "D", "E", "G", "A"},
	{"A", "C", "D", "E", "G"},
	{"D", "F", "G", "A", "C"},
}

const SCALE_DRIFT_RATE = 0.05 // radians per second of render time

// selectScale picks the tick's scale from the slow oscillator.
func selectScale(elapsed float64) [5]string {
	return scaleForSelector(math.Sin(elapsed * SCALE_DRIFT_RATE))
}

// scaleForSelector maps the oscillator value onto a candidate scale.
// Boundaries are strict: exactly 0.3 or -0.3 resolves to the lower scale.
func scaleForSelector(s float64) [5]string {
	switch {
	case s > 0.3:
		return pentatonicScales[0]
	case s > -0.3:
		return pentatonicScales[1]
	default:
		return pentatonicScales[2]
	}
}

var octaveCandidates = [3]int{3, 4, 5}

// selectOctave derives the chord octave from the day and hour phases. Each
// present unit contributes up to ±0.5; a missing unit contributes 0 and the
// selector is deliberately not renormalized, which biases the choice toward
// the middle octave when day or hour units are absent.
func selectOctave(units []*FrequencyUnit) int {
	var selector float64
	for _, u := range units {
		if u.ID == UnitDay || u.ID == UnitHour {
			selector += 0.5 * math.Sin(u.Phase)
		}
	}
	idx := int(math.Floor((selector + 1) / 2 * 3))
	if idx < 0 {
		idx = 0
	}
	if idx > 2 {
		idx = 2
	}
	return octaveCandidates[idx]
}

func unitByID(units []*FrequencyUnit, id UnitID) (*FrequencyUnit, bool) {
	for _, u := range units {
		if u.ID == id {
			return u, true
		}
	}
	return nil, false
}

// mapChord converts the normalized composite value and the active units'
// phases into a chord of one to three notes. It is a pure function of its
// inputs: identical (units' phases, normalized, elapsed) yield an identical
// chord. An empty active set yields no chord.
func mapChord(units []*FrequencyUnit, normalized, elapsed float64) []ChordNote {
	if len(units) == 0 {
		return nil
	}

	scale := selectScale(elapsed)

	// Clamp before indexing: future amplitude-catalog changes must not be able
	// to index past the scale.
	rootIdx := int(math.Floor(clamp01(normalized) * 5))
	if rootIdx > 4 {
		rootIdx = 4
	}
	octave := selectOctave(units)

	chord := []ChordNote{makeChordNote(scale[rootIdx], octave, SlotRoot)}
	if u, ok := unitByID(units, UnitSecond); ok && math.Sin(u.Phase) > 0.3 {
		chord = append(chord, makeChordNote(scale[(rootIdx+2)%5], octave, SlotFifth))
	}
	if u, ok := unitByID(units, UnitMinute); ok && math.Sin(u.Phase) > 0.5 {
		chord = append(chord, makeChordNote(scale[(rootIdx+1)%5], octave, SlotThird))
	}

	// De-duplicate by note name, keeping the earliest slot. The voice manager
	// reconciles against a set, so duplicates would collapse there anyway.
	seen := make(map[string]bool, len(chord))
	out := chord[:0]
	for _, n := range chord {
		if seen[n.Name] {
			continue
		}
		seen[n.Name] = true
		out = append(out, n)
	}
	return out
}

func makeChordNote(pitch string, octave int, slot ChordSlot) ChordNote {
	return ChordNote{
		Name:   pitch + strconv.Itoa(octave),
		Pitch:  pitch,
		Octave: octave,
		Slot:   slot,
	}
}
