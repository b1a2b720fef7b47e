// engine.go - Tick pipeline, user actions, and the explicit timer queue

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
	"fmt"
	"image/color"
	"time"
)

const (
	DEFAULT_REFRESH_RATE = 60
	DEFAULT_WIDTH        = 960
	DEFAULT_HEIGHT       = 480
	SPECTRUM_SIZE        = 256
)

type timerKind int

const (
	timerFadeInDone timerKind = iota
	timerFadeOutDone
	timerRemoveStage
	timerEnvelopeRestore
)

// timerEntry is a deferred action expired inside the tick loop. Replacing
// fire-and-forget callbacks with explicit entries keeps all state mutation on
// the single tick timeline; handlers still tolerate targets that disappeared.
type timerEntry struct {
	fireAt time.Time
	kind   timerKind
	unit   UnitID

	// Envelope snapshot, timerEnvelopeRestore only.
	attack  float64
	release float64
}

// Engine holds all cross-tick state: the unit catalog, transition tracker,
// voice table, and timer queue. Everything is mutated from the tick timeline
// only; the display and synth backends guard their own boundaries.
type Engine struct {
	catalog     *UnitCatalog
	transitions *TransitionTracker
	voices      *VoiceManager
	synth       Synth       // nil degrades to visual-only operation
	display     WaveDisplay // nil under test

	soundOn      bool
	volumeDB     float64
	showSpectrum bool

	frameCount  uint64
	refreshRate int
	timers      []timerEntry

	geo      WaveGeometry
	analyzer *SpectrumAnalyzer

	clock func() time.Time
}

func NewEngine(synth Synth, display WaveDisplay) *Engine {
	e := &Engine{
		catalog:     NewUnitCatalog(),
		transitions: NewTransitionTracker(),
		synth:       synth,
		display:     display,
		volumeDB:    DEFAULT_VOLUME,
		refreshRate: DEFAULT_REFRESH_RATE,
		geo:         NewWaveGeometry(DEFAULT_WIDTH, DEFAULT_HEIGHT),
		clock:       time.Now,
	}
	if display != nil {
		if cfg := display.GetDisplayConfig(); cfg.RefreshRate > 0 {
			e.refreshRate = cfg.RefreshRate
		}
	}
	e.voices = NewVoiceManager(synth, e.transitions)
	e.voices.scheduleRestore = func(at time.Time, attack, release float64) {
		e.schedule(timerEntry{fireAt: at, kind: timerEnvelopeRestore, attack: attack, release: release})
	}
	if an, err := NewSpectrumAnalyzer(SPECTRUM_SIZE); err == nil {
		e.analyzer = an
	}
	return e
}

// Elapsed is the render loop's own clock: frames rendered so far at the
// nominal rate. Frame-driven, unlike the wall-clock phases of the fixed units.
func (e *Engine) Elapsed() float64 {
	return float64(e.frameCount) / float64(e.refreshRate)
}

// Tick runs one frame of the pipeline: expire timers, recompute phases,
// reconcile voices (when sound is on), publish the scene. The display invokes
// it once per frame; ticks never overlap.
func (e *Engine) Tick() {
	now := e.clock()
	e.frameCount++
	elapsed := e.Elapsed()

	e.expireTimers(now)
	e.syncGeometry()
	e.catalog.UpdatePhases(now, elapsed)

	if e.soundOn && e.synth != nil {
		active := e.catalog.Active()
		chord := mapChord(active, normalizedValue(active), elapsed)
		e.voices.Reconcile(chord, now)
	}

	if e.display != nil {
		e.display.UpdateScene(e.buildScene(now))
	}
}

// syncGeometry picks up surface resizes: geometry is recomputed from the new
// dimensions on the next tick, past frames are never resampled.
func (e *Engine) syncGeometry() {
	if e.display == nil {
		return
	}
	w, h := e.display.Size()
	if w > 0 && h > 0 && (w != e.geo.Width || h != e.geo.Height) {
		e.geo = NewWaveGeometry(w, h)
	}
}

func (e *Engine) buildScene(now time.Time) Scene {
	active := e.catalog.Active()
	scene := Scene{Background: color.RGBA{12, 12, 18, 255}}

	for _, u := range active {
		pl := unitPolyline(u, e.geo)
		pl.Color.A = uint8(255 * e.transitions.FadeLevel(u.ID, now))
		scene.Polylines = append(scene.Polylines, pl)
	}
	scene.Polylines = append(scene.Polylines, compositePolyline(active, e.geo))

	if e.showSpectrum && e.analyzer != nil {
		samples := make([]float64, SPECTRUM_SIZE)
		for i := range samples {
			arg := TWO_PI * float64(i) / SPECTRUM_SIZE
			samples[i] = compositeValue(active, arg) / CATALOG_AMPLITUDE
		}
		scene.Spectrum = e.analyzer.Analyze(samples)
	}

	for _, u := range e.catalog.All() {
		scene.Status.Units = append(scene.Status.Units, StatusToken{
			Name:   u.Label,
			Active: e.catalog.IsActive(u.ID),
			Fading: e.transitions.IsFading(u.ID),
			Color:  u.Color,
		})
	}
	scene.Status.SoundOn = e.soundOn
	scene.Status.VolumeDB = e.volumeDB
	return scene
}

func (e *Engine) schedule(t timerEntry) {
	e.timers = append(e.timers, t)
}

func (e *Engine) hasTimer(kind timerKind, unit UnitID) bool {
	for _, t := range e.timers {
		if t.kind == kind && t.unit == unit {
			return true
		}
	}
	return false
}

// cancelTimers drops pending entries of the given kind for the unit and
// reports whether any were dropped.
func (e *Engine) cancelTimers(kind timerKind, unit UnitID) bool {
	kept := e.timers[:0]
	dropped := false
	for _, t := range e.timers {
		if t.kind == kind && t.unit == unit {
			dropped = true
			continue
		}
		kept = append(kept, t)
	}
	e.timers = kept
	return dropped
}

func (e *Engine) expireTimers(now time.Time) {
	kept := e.timers[:0]
	for _, t := range e.timers {
		if t.fireAt.After(now) {
			kept = append(kept, t)
			continue
		}
		switch t.kind {
		case timerFadeInDone:
			e.transitions.EndFadeIn(t.unit)
		case timerFadeOutDone:
			e.transitions.EndFadeOut(t.unit)
		case timerRemoveStage:
			e.catalog.Deactivate(t.unit)
		case timerEnvelopeRestore:
			if e.synth != nil {
				e.synth.SetEnvelope(t.attack, t.release)
			}
		}
	}
	e.timers = kept
}

// AddFrequencyUnit moves a unit into the active set and starts its fade-in.
// Re-adding a unit whose removal is still staged cancels the pending
// deactivation; the stale fade-out cleanup stays queued and is harmless.
func (e *Engine) AddFrequencyUnit(id UnitID) bool {
	now := e.clock()
	if e.catalog.IsActive(id) {
		if !e.cancelTimers(timerRemoveStage, id) {
			return false
		}
	} else if !e.catalog.Activate(id) {
		return false
	}
	e.transitions.BeginFadeIn(id, now)
	e.schedule(timerEntry{fireAt: now.Add(TRANSITION_DURATION), kind: timerFadeInDone, unit: id})
	return true
}

// RemoveFrequencyUnit starts a unit's fade-out. The active-set mutation is
// staged REMOVE_STAGE_DELAY later so the fade is visible (and audible) before
// the wave disappears.
func (e *Engine) RemoveFrequencyUnit(id UnitID) bool {
	now := e.clock()
	if !e.catalog.IsActive(id) || e.hasTimer(timerRemoveStage, id) {
		return false
	}
	e.transitions.BeginFadeOut(id, now)
	e.schedule(timerEntry{fireAt: now.Add(REMOVE_STAGE_DELAY), kind: timerRemoveStage, unit: id})
	e.schedule(timerEntry{fireAt: now.Add(FADE_OUT_CLEANUP), kind: timerFadeOutDone, unit: id})
	return true
}

// ToggleFrequencyUnit adds a removed unit or removes an active one.
func (e *Engine) ToggleFrequencyUnit(id UnitID) {
	if e.catalog.IsActive(id) && !e.hasTimer(timerRemoveStage, id) {
		e.RemoveFrequencyUnit(id)
	} else {
		e.AddFrequencyUnit(id)
	}
}

// SetSoundEnabled switches sonification on or off. Turning sound off releases
// every sounding pitch unconditionally. A synth that fails to start leaves the
// engine in visual-only operation rather than crashing the loop.
func (e *Engine) SetSoundEnabled(on bool) {
	if on == e.soundOn {
		return
	}
	if !on {
		e.soundOn = false
		if e.synth != nil {
			e.voices.ReleaseAll()
		}
		return
	}
	if e.synth == nil {
		return
	}
	if !e.synth.IsStarted() {
		if err := e.synth.Start(); err != nil {
			fmt.Printf("Audio unavailable, continuing visual-only: %v\n", err)
			return
		}
		e.synth.SetVolume(e.volumeDB)
	}
	e.soundOn = true
}

func (e *Engine) SoundEnabled() bool {
	return e.soundOn
}

func (e *Engine) SetVolume(db float64) {
	e.volumeDB = db
	if e.synth != nil {
		e.synth.SetVolume(db)
	}
}

func (e *Engine) VolumeDB() float64 {
	return e.volumeDB
}

func (e *Engine) ToggleSpectrum() {
	if e.analyzer != nil {
		e.showSpectrum = !e.showSpectrum
	}
}

// Catalog exposes the unit catalog for startup wiring (script units, dumps).
func (e *Engine) Catalog() *UnitCatalog {
	return e.catalog
}
