// voice_manager.go - Chord reconciliation and transition-aware voice lifecycle

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
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	SMOOTH_MIN_VELOCITY = 0.4 // velocity floor at the start of a transition
	SMOOTH_ATTACK_ADD   = 0.1 // seconds added to attack at transition start
	SMOOTH_RELEASE_ADD  = 0.3 // seconds added to release at transition start
)

// VoiceManager owns the active-voice table: the set of sounding pitches and
// their trigger times. Each tick it reconciles the table against the target
// chord, issuing the minimal set of attacks and releases, with envelope
// smoothing while frequency units are being added or removed.
type VoiceManager struct {
	synth       Synth
	transitions *TransitionTracker
	sounding    map[string]time.Time

	// scheduleRestore queues the envelope restore after a smoothing bump.
	// Installed by the engine; nil in isolation (smoothing then never restores,
	// which only matters to tests that opt out).
	scheduleRestore func(at time.Time, attack, release float64)
}

func NewVoiceManager(synth Synth, transitions *TransitionTracker) *VoiceManager {
	return &VoiceManager{
		synth:       synth,
		transitions: transitions,
		sounding:    make(map[string]time.Time),
	}
}

// Sounding returns the sounding pitch names in ascending order.
func (vm *VoiceManager) Sounding() []string {
	out := make([]string, 0, len(vm.sounding))
	for name := range vm.sounding {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// TriggeredAt reports when a pitch was attacked, if it is sounding.
func (vm *VoiceManager) TriggeredAt(name string) (time.Time, bool) {
	t, ok := vm.sounding[name]
	return t, ok
}

// Reconcile brings the sounding set in line with the target chord. Pitches
// absent from the chord are released unconditionally; chord pitches not yet
// sounding are attacked exactly once. Calling it again with the same chord
// issues nothing.
func (vm *VoiceManager) Reconcile(chord []ChordNote, now time.Time) {
	want := make(map[string]bool, len(chord))
	for _, n := range chord {
		want[n.Name] = true
	}

	var released []string
	for name := range vm.sounding {
		if !want[name] {
			released = append(released, name)
			delete(vm.sounding, name)
		}
	}
	if len(released) > 0 {
		sort.Strings(released)
		vm.synth.TriggerRelease(released)
	}

	envelopeBumped := false
	for _, n := range chord {
		if _, already := vm.sounding[n.Name]; already {
			continue
		}
		velocity := 1.0
		if vm.transitions.Active(now) && (vm.transitions.AnyFading() || vm.isTransitioning(n)) {
			progress := vm.transitions.Progress(now)
			velocity = SMOOTH_MIN_VELOCITY + (1-SMOOTH_MIN_VELOCITY)*progress
			if !envelopeBumped {
				vm.bumpEnvelope(progress, now)
				envelopeBumped = true
			}
		}
		vm.synth.TriggerAttack(n.Name, velocity)
		vm.sounding[n.Name] = now
	}
}

// bumpEnvelope lengthens the synth envelope for the transition, decaying to no
// added time as the window completes, and schedules the restore. The restore
// is best-effort: a trigger landing inside the restore delay may observe the
// lengthened envelope. That race is inherited behavior, not a bug.
func (vm *VoiceManager) bumpEnvelope(progress float64, now time.Time) {
	attack, release := vm.synth.Envelope()
	vm.synth.SetEnvelope(
		attack+SMOOTH_ATTACK_ADD*(1-progress),
		release+SMOOTH_RELEASE_ADD*(1-progress),
	)
	if vm.scheduleRestore != nil {
		vm.scheduleRestore(now.Add(ENVELOPE_RESTORE_DELAY), attack, release)
	}
}

// isTransitioning classifies a note as affected by the in-flight unit change:
// octave-influenced notes move with the day/hour units, harmony notes with the
// seconds/minutes units. While any fade entry is live the reconcile smooths
// every new note regardless; this classification covers the window tail after
// the fade entries expire.
func (vm *VoiceManager) isTransitioning(n ChordNote) bool {
	octaveInfluenced := strings.Contains(n.Name, strconv.Itoa(n.Octave))
	if octaveInfluenced && (vm.transitions.IsFading(UnitDay) || vm.transitions.IsFading(UnitHour)) {
		return true
	}
	if n.Slot != SlotRoot && (vm.transitions.IsFading(UnitSecond) || vm.transitions.IsFading(UnitMinute)) {
		return true
	}
	return false
}

// ReleaseAll releases every sounding pitch and clears the table. Used when
// sound is toggled off.
func (vm *VoiceManager) ReleaseAll() {
	if len(vm.sounding) == 0 {
		return
	}
	names := vm.Sounding()
	vm.synth.TriggerRelease(names)
	vm.sounding = make(map[string]time.Time)
}
