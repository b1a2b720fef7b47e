// transition_tracker.go - In-flight unit add/remove fade state

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
	"time"
)

const (
	// TRANSITION_DURATION is the global smoothing window restarted by every
	// add or remove.
	TRANSITION_DURATION = 1200 * time.Millisecond

	// FADE_OUT_CLEANUP is when a fading-out identifier expires, measured from
	// the moment the remove was requested (0.8 x TRANSITION_DURATION).
	FADE_OUT_CLEANUP = 960 * time.Millisecond

	// REMOVE_STAGE_DELAY is how long the actual active-set mutation lags the
	// remove request, letting the fade-out begin first.
	REMOVE_STAGE_DELAY = 50 * time.Millisecond

	// ENVELOPE_RESTORE_DELAY is how long smoothed synth envelope times stay in
	// place before being restored.
	ENVELOPE_RESTORE_DELAY = 50 * time.Millisecond
)

// TransitionTracker records which units are currently fading in or out and
// when the active set last changed. One instance lives on the engine; it is
// only touched from the tick timeline.
type TransitionTracker struct {
	lastChange time.Time
	haveChange bool
	fadingIn   map[UnitID]struct{}
	fadingOut  map[UnitID]struct{}
}

func NewTransitionTracker() *TransitionTracker {
	return &TransitionTracker{
		fadingIn:  make(map[UnitID]struct{}),
		fadingOut: make(map[UnitID]struct{}),
	}
}

// BeginFadeIn marks a unit as fading in and restarts the global window. An
// identifier is in at most one of the two sets, so any fade-out entry for it
// is dropped.
func (t *TransitionTracker) BeginFadeIn(id UnitID, now time.Time) {
	delete(t.fadingOut, id)
	t.fadingIn[id] = struct{}{}
	t.lastChange = now
	t.haveChange = true
}

// BeginFadeOut marks a unit as fading out and restarts the global window.
func (t *TransitionTracker) BeginFadeOut(id UnitID, now time.Time) {
	delete(t.fadingIn, id)
	t.fadingOut[id] = struct{}{}
	t.lastChange = now
	t.haveChange = true
}

// EndFadeIn expires a fade-in entry. Absent identifiers are a no-op: stale
// cleanup timers may fire after the unit was re-removed.
func (t *TransitionTracker) EndFadeIn(id UnitID) {
	delete(t.fadingIn, id)
}

// EndFadeOut expires a fade-out entry. Absent identifiers are a no-op.
func (t *TransitionTracker) EndFadeOut(id UnitID) {
	delete(t.fadingOut, id)
}

func (t *TransitionTracker) IsFadingIn(id UnitID) bool {
	_, ok := t.fadingIn[id]
	return ok
}

func (t *TransitionTracker) IsFadingOut(id UnitID) bool {
	_, ok := t.fadingOut[id]
	return ok
}

// IsFading reports whether the unit is in either set.
func (t *TransitionTracker) IsFading(id UnitID) bool {
	return t.IsFadingIn(id) || t.IsFadingOut(id)
}

// AnyFading reports whether any unit is currently in transition.
func (t *TransitionTracker) AnyFading() bool {
	return len(t.fadingIn) > 0 || len(t.fadingOut) > 0
}

// Active reports whether the global transition window is open: the active set
// changed less than TRANSITION_DURATION ago.
func (t *TransitionTracker) Active(now time.Time) bool {
	return t.haveChange && now.Sub(t.lastChange) < TRANSITION_DURATION
}

// Progress returns how far through the global window we are, in [0,1].
func (t *TransitionTracker) Progress(now time.Time) float64 {
	if !t.haveChange {
		return 1
	}
	p := float64(now.Sub(t.lastChange)) / float64(TRANSITION_DURATION)
	return clamp01(p)
}

// FadeLevel is the draw weight for a unit during its transition: ramping up
// while fading in, down while fading out, 1 otherwise. Visual-only.
func (t *TransitionTracker) FadeLevel(id UnitID, now time.Time) float64 {
	p := t.Progress(now)
	if t.IsFadingIn(id) {
		return p
	}
	if t.IsFadingOut(id) {
		return 1 - p
	}
	return 1
}

// FadingIn returns the fading-in identifiers in ascending order, for
// snapshots and tests.
func (t *TransitionTracker) FadingIn() []UnitID {
	return sortedIDs(t.fadingIn)
}

// FadingOut returns the fading-out identifiers in ascending order.
func (t *TransitionTracker) FadingOut() []UnitID {
	return sortedIDs(t.fadingOut)
}

func sortedIDs(set map[UnitID]struct{}) []UnitID {
	out := make([]UnitID, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
