// engine_test.go - Tick pipeline, timer queue, and user action tests

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
	"reflect"
	"testing"
	"time"
)

func TestEngine_TickPublishesScene(t *testing.T) {
	t.Log("=== TICK PIPELINE ===")
	e, _, display, _ := newTestEngine()

	e.Tick()
	if len(display.scenes) != 1 {
		t.Fatalf("%d scenes published after one tick, want 1", len(display.scenes))
	}

	scene := display.lastScene()
	// Four unit waves plus the composite on top.
	if got := len(scene.Polylines); got != 5 {
		t.Errorf("scene has %d polylines, want 5", got)
	}
	if got := len(scene.Status.Units); got != 4 {
		t.Errorf("status bar has %d unit tokens, want 4", got)
	}
	if scene.Spectrum != nil {
		t.Error("spectrum present without the overlay toggled on")
	}
	if scene.Status.SoundOn {
		t.Error("status reports sound on at startup")
	}

	e.Tick()
	e.Tick()
	if got := e.Elapsed(); !near(got, 3.0/DEFAULT_REFRESH_RATE, 1e-9) {
		t.Errorf("elapsed after three ticks = %.6f, want %.6f", got, 3.0/DEFAULT_REFRESH_RATE)
	}
}

func TestEngine_SpectrumToggle(t *testing.T) {
	e, _, display, _ := newTestEngine()

	e.ToggleSpectrum()
	e.Tick()
	if got := len(display.lastScene().Spectrum); got != SPECTRUM_SIZE/2 {
		t.Errorf("spectrum overlay has %d bands, want %d", got, SPECTRUM_SIZE/2)
	}

	e.ToggleSpectrum()
	e.Tick()
	if display.lastScene().Spectrum != nil {
		t.Error("spectrum still present after toggling the overlay off")
	}
}

func TestEngine_ResizeRecomputesGeometry(t *testing.T) {
	e, _, display, _ := newTestEngine()
	e.Tick()

	display.resize(640, 320)
	e.Tick()

	if e.geo.Width != 640 || e.geo.Height != 320 {
		t.Fatalf("geometry = %dx%d after resize, want 640x320", e.geo.Width, e.geo.Height)
	}
	want := NewWaveGeometry(640, 320).PointCount()
	scene := display.lastScene()
	if got := len(scene.Polylines[len(scene.Polylines)-1].Points); got != want {
		t.Errorf("composite polyline resampled to %d points, want %d", got, want)
	}
}

func TestEngine_RemoveStagesDeactivation(t *testing.T) {
	t.Log("=== STAGED REMOVE ===")
	t.Log("The fade-out starts immediately; the active set mutates one stage delay later")

	e, _, _, clock := newTestEngine()

	if !e.RemoveFrequencyUnit(UnitDay) {
		t.Fatal("remove of an active unit refused")
	}
	if e.RemoveFrequencyUnit(UnitDay) {
		t.Error("second remove accepted while the first is still staged")
	}
	if !e.catalog.IsActive(UnitDay) {
		t.Fatal("unit deactivated before the stage delay")
	}
	if !e.transitions.IsFadingOut(UnitDay) {
		t.Fatal("fade-out not started at remove time")
	}

	clock.advance(REMOVE_STAGE_DELAY + 10*time.Millisecond)
	e.Tick()
	if e.catalog.IsActive(UnitDay) {
		t.Error("unit still active after the stage delay elapsed")
	}
	if !e.transitions.IsFadingOut(UnitDay) {
		t.Error("fade-out ended with the stage; it should run to the cleanup point")
	}

	clock.advance(FADE_OUT_CLEANUP)
	e.Tick()
	if e.transitions.IsFadingOut(UnitDay) {
		t.Error("fade-out entry survived past its cleanup point")
	}
}

func TestEngine_ReaddCancelsStagedRemove(t *testing.T) {
	t.Log("=== REMOVE THEN RE-ADD ===")
	e, _, _, clock := newTestEngine()

	if !e.RemoveFrequencyUnit(UnitDay) {
		t.Fatal("remove refused")
	}
	clock.advance(20 * time.Millisecond)
	if !e.AddFrequencyUnit(UnitDay) {
		t.Fatal("re-add during the stage delay refused")
	}
	if !e.transitions.IsFadingIn(UnitDay) || e.transitions.IsFadingOut(UnitDay) {
		t.Error("re-added unit not switched to fading in")
	}

	// The staged deactivation must not fire.
	clock.advance(100 * time.Millisecond)
	e.Tick()
	if !e.catalog.IsActive(UnitDay) {
		t.Fatal("staged deactivation fired despite the re-add")
	}

	// The stale fade-out cleanup and the fade-in completion both expire
	// without disturbing the now-active unit.
	clock.advance(2 * TRANSITION_DURATION)
	e.Tick()
	if !e.catalog.IsActive(UnitDay) {
		t.Error("unit lost after stale timers expired")
	}
	if e.transitions.AnyFading() {
		t.Errorf("fade entries left behind: in=%v out=%v",
			e.transitions.FadingIn(), e.transitions.FadingOut())
	}
}

func TestEngine_OverlappingRemoves(t *testing.T) {
	e, _, _, clock := newTestEngine()

	e.RemoveFrequencyUnit(UnitDay)
	clock.advance(10 * time.Millisecond)
	e.RemoveFrequencyUnit(UnitHour)

	if got := e.transitions.FadingOut(); !reflect.DeepEqual(got, []UnitID{UnitHour, UnitDay}) {
		t.Fatalf("fading-out set = %v, want [hours days]", got)
	}

	clock.advance(REMOVE_STAGE_DELAY + 10*time.Millisecond)
	e.Tick()
	if e.catalog.IsActive(UnitDay) || e.catalog.IsActive(UnitHour) {
		t.Error("both staged deactivations should have fired")
	}
	if got := len(e.catalog.Active()); got != 2 {
		t.Errorf("%d active units remain, want 2", got)
	}
}

func TestEngine_ToggleFrequencyUnit(t *testing.T) {
	e, _, _, clock := newTestEngine()

	e.ToggleFrequencyUnit(UnitDay) // active -> remove
	if !e.transitions.IsFadingOut(UnitDay) {
		t.Error("toggle of an active unit did not start a remove")
	}

	clock.advance(REMOVE_STAGE_DELAY + 10*time.Millisecond)
	e.Tick()

	e.ToggleFrequencyUnit(UnitDay) // removed -> add
	if !e.catalog.IsActive(UnitDay) {
		t.Error("toggle of a removed unit did not re-add it")
	}

	// Toggling while the remove is still staged re-adds rather than removing twice.
	e.ToggleFrequencyUnit(UnitHour)
	e.ToggleFrequencyUnit(UnitHour)
	if !e.catalog.IsActive(UnitHour) {
		t.Error("toggle during a staged remove did not cancel it")
	}
}

func TestEngine_SoundReconcilesChordAtNoon(t *testing.T) {
	t.Log("=== SONIFICATION AT A KNOWN INSTANT ===")
	t.Log("At exactly noon the composite sits high in the window: root plus fifth plus third")

	e, synth, _, _ := newTestEngine()

	e.SetSoundEnabled(true)
	if !e.SoundEnabled() {
		t.Fatal("sound did not enable with a healthy synth")
	}
	if !synth.started {
		t.Fatal("synth not started on sound enable")
	}
	if synth.volumeDB != DEFAULT_VOLUME {
		t.Errorf("startup volume = %.1f dB, want %.1f", synth.volumeDB, DEFAULT_VOLUME)
	}

	e.Tick()

	var notes []string
	for _, a := range synth.attacks {
		notes = append(notes, a.note)
		if a.velocity != 1.0 {
			t.Errorf("attack %s at velocity %.2f, want 1.0 with no transition in flight", a.note, a.velocity)
		}
	}
	if want := []string{"G4", "C4", "A4"}; !reflect.DeepEqual(notes, want) {
		t.Errorf("noon chord = %v, want %v", notes, want)
	}

	// Turning sound off releases the whole table in one batch.
	e.SetSoundEnabled(false)
	if want := [][]string{{"A4", "C4", "G4"}}; !reflect.DeepEqual(synth.releases, want) {
		t.Errorf("releases on sound off = %v, want %v", synth.releases, want)
	}
	if e.SoundEnabled() {
		t.Error("sound still reported on")
	}
}

func TestEngine_EnvelopeRestoreTimer(t *testing.T) {
	e, synth, _, clock := newTestEngine()

	e.SetSoundEnabled(true)
	e.RemoveFrequencyUnit(UnitDay)
	e.Tick() // attacks with smoothing, schedules the restore

	if len(synth.envSets) == 0 {
		t.Fatal("no envelope bump during the transition tick")
	}
	if !near(synth.attack, DEFAULT_ATTACK+SMOOTH_ATTACK_ADD, 1e-9) {
		t.Fatalf("attack = %.4f during the bump, want %.4f", synth.attack, DEFAULT_ATTACK+SMOOTH_ATTACK_ADD)
	}

	// Quiesce the voice table so the next tick only expires timers.
	e.SetSoundEnabled(false)

	clock.advance(ENVELOPE_RESTORE_DELAY + 10*time.Millisecond)
	e.Tick()
	if !near(synth.attack, DEFAULT_ATTACK, 1e-9) || !near(synth.release, DEFAULT_RELEASE, 1e-9) {
		t.Errorf("envelope after the restore timer = (%.4f, %.4f), want (%.4f, %.4f)",
			synth.attack, synth.release, DEFAULT_ATTACK, DEFAULT_RELEASE)
	}
}

func TestEngine_StaleTimersAreHarmless(t *testing.T) {
	e, _, _, clock := newTestEngine()

	// Cleanup entries for identifiers that already left their sets.
	e.schedule(timerEntry{fireAt: clock.now, kind: timerFadeOutDone, unit: UnitHour})
	e.schedule(timerEntry{fireAt: clock.now, kind: timerFadeInDone, unit: UnitMinute})
	e.schedule(timerEntry{fireAt: clock.now, kind: timerRemoveStage, unit: UnitID(999)})

	clock.advance(time.Millisecond)
	e.Tick()

	if len(e.timers) != 0 {
		t.Errorf("%d timers left after expiry, want 0", len(e.timers))
	}
	if got := len(e.catalog.Active()); got != 4 {
		t.Errorf("%d active units after stale timers, want 4", got)
	}
}

func TestEngine_DegradesToVisualOnly(t *testing.T) {
	synth := newFakeSynth()
	synth.startErr = errors.New("no audio device")
	display := newFakeDisplay()
	e := NewEngine(synth, display)

	e.SetSoundEnabled(true)
	if e.SoundEnabled() {
		t.Error("sound enabled despite the synth failing to start")
	}
	e.Tick() // still renders

	if len(display.scenes) != 1 {
		t.Error("visual pipeline stalled after the audio failure")
	}
}

func TestEngine_NilSynth(t *testing.T) {
	e := NewEngine(nil, newFakeDisplay())

	e.SetSoundEnabled(true)
	if e.SoundEnabled() {
		t.Error("sound enabled with no synth wired")
	}
	e.SetVolume(-6)
	e.Tick()
	e.SetSoundEnabled(false)
}

func TestEngine_VolumePassThrough(t *testing.T) {
	e, synth, _, _ := newTestEngine()

	e.SetVolume(-6)
	if e.VolumeDB() != -6 {
		t.Errorf("engine volume = %.1f, want -6", e.VolumeDB())
	}
	if synth.volumeDB != -6 {
		t.Errorf("synth volume = %.1f, want -6", synth.volumeDB)
	}
}

func TestBackendFactories_RejectUnknown(t *testing.T) {
	if _, err := NewSynth(99); err == nil {
		t.Error("NewSynth accepted an unknown backend")
	} else {
		var synthErr *SynthError
		if !errors.As(err, &synthErr) {
			t.Errorf("NewSynth error type %T, want *SynthError", err)
		}
	}
	if _, err := NewWaveDisplay(99); err == nil {
		t.Error("NewWaveDisplay accepted an unknown backend")
	} else {
		var dispErr *DisplayError
		if !errors.As(err, &dispErr) {
			t.Errorf("NewWaveDisplay error type %T, want *DisplayError", err)
		}
	}
}
