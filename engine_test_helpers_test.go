// engine_test_helpers_test.go - Shared fakes and clocks for the engine tests

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
	"time"
)

// testClock is a manually advanced wall clock. Engine tests install it so
// timer expiry is driven by the test, not by real time.
type testClock struct {
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) advance(d time.Duration) {
	c.now = c.now.Add(d)
}

type attackCall struct {
	note     string
	velocity float64
}

type envelopeTimes struct {
	attack  float64
	release float64
}

// fakeSynth records every call the voice manager and engine make. It reports
// the envelope like a real backend so smoothing bumps are observable.
type fakeSynth struct {
	started  bool
	startErr error
	attack   float64
	release  float64
	volumeDB float64

	attacks  []attackCall
	releases [][]string
	envSets  []envelopeTimes
}

func newFakeSynth() *fakeSynth {
	return &fakeSynth{attack: DEFAULT_ATTACK, release: DEFAULT_RELEASE}
}

func (s *fakeSynth) Start() error {
	if s.startErr != nil {
		return s.startErr
	}
	s.started = true
	return nil
}

func (s *fakeSynth) Stop() error {
	s.started = false
	return nil
}

func (s *fakeSynth) Close() error {
	s.started = false
	return nil
}

func (s *fakeSynth) IsStarted() bool {
	return s.started
}

func (s *fakeSynth) TriggerAttack(note string, velocity float64) {
	s.attacks = append(s.attacks, attackCall{note: note, velocity: velocity})
}

func (s *fakeSynth) TriggerRelease(notes []string) {
	released := make([]string, len(notes))
	copy(released, notes)
	s.releases = append(s.releases, released)
}

func (s *fakeSynth) SetVolume(db float64) {
	s.volumeDB = db
}

func (s *fakeSynth) Envelope() (attack, release float64) {
	return s.attack, s.release
}

func (s *fakeSynth) SetEnvelope(attack, release float64) {
	s.attack = attack
	s.release = release
	s.envSets = append(s.envSets, envelopeTimes{attack: attack, release: release})
}

func (s *fakeSynth) Now() float64 {
	return 0
}

// fakeDisplay captures published scenes and lets tests resize the surface.
type fakeDisplay struct {
	cfg     DisplayConfig
	width   int
	height  int
	started bool
	done    chan struct{}
	scenes  []Scene
	tick    func()
	key     func(rune)
}

func newFakeDisplay() *fakeDisplay {
	return &fakeDisplay{
		cfg:    DisplayConfig{Width: DEFAULT_WIDTH, Height: DEFAULT_HEIGHT, RefreshRate: DEFAULT_REFRESH_RATE},
		width:  DEFAULT_WIDTH,
		height: DEFAULT_HEIGHT,
		done:   make(chan struct{}),
	}
}

func (d *fakeDisplay) Start() error {
	d.started = true
	return nil
}

func (d *fakeDisplay) Stop() error {
	d.started = false
	return nil
}

func (d *fakeDisplay) Close() error {
	d.started = false
	return nil
}

func (d *fakeDisplay) IsStarted() bool {
	return d.started
}

func (d *fakeDisplay) Done() <-chan struct{} {
	return d.done
}

func (d *fakeDisplay) SetDisplayConfig(config DisplayConfig) error {
	d.cfg = config
	d.width = config.Width
	d.height = config.Height
	return nil
}

func (d *fakeDisplay) GetDisplayConfig() DisplayConfig {
	return d.cfg
}

func (d *fakeDisplay) Size() (int, int) {
	return d.width, d.height
}

func (d *fakeDisplay) resize(w, h int) {
	d.width = w
	d.height = h
}

func (d *fakeDisplay) UpdateScene(scene Scene) {
	d.scenes = append(d.scenes, scene)
}

func (d *fakeDisplay) lastScene() Scene {
	return d.scenes[len(d.scenes)-1]
}

func (d *fakeDisplay) SetTickHandler(fn func()) {
	d.tick = fn
}

func (d *fakeDisplay) SetKeyHandler(fn func(rune)) {
	d.key = fn
}

func (d *fakeDisplay) GetFrameCount() uint64 {
	return uint64(len(d.scenes))
}

// newTestEngine wires an engine to the fakes with a manual clock.
func newTestEngine() (*Engine, *fakeSynth, *fakeDisplay, *testClock) {
	synth := newFakeSynth()
	display := newFakeDisplay()
	clock := newTestClock()
	e := NewEngine(synth, display)
	e.clock = func() time.Time { return clock.now }
	return e, synth, display, clock
}

func near(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}
