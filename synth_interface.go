// synth_interface.go - Synthesizer capability interface and backend factory

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

import "fmt"

// SynthError provides detailed error context for synthesizer operations
type SynthError struct {
	Operation string // What operation was being attempted
	Details   string // Additional error context
	Err       error  // Underlying error if any
}

func (e *SynthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("synth %s failed: %s: %v", e.Operation, e.Details, e.Err)
	}
	return fmt.Sprintf("synth %s failed: %s", e.Operation, e.Details)
}

func (e *SynthError) Unwrap() error {
	return e.Err
}

// Synth is the audio capability the engine drives. The voice manager issues
// attacks and releases; transition smoothing reads and temporarily rewrites
// the envelope times. Now() is the audio-context clock, which advances with
// rendered samples and is distinct from the render clock.
type Synth interface {
	// Lifecycle management
	Start() error
	Stop() error
	Close() error
	IsStarted() bool

	// Voice triggers
	TriggerAttack(note string, velocity float64)
	TriggerRelease(notes []string)

	// Global controls
	SetVolume(db float64)
	Envelope() (attack, release float64)
	SetEnvelope(attack, release float64)

	Now() float64
}

// Predefined synth backend types
const (
	SYNTH_BACKEND_OTO       = iota // Pure Go Oto backend
	SYNTH_BACKEND_PORTAUDIO        // PortAudio backend using cgo
)

// NewSynth creates a new synthesizer instance using the specified backend
func NewSynth(backend int) (Synth, error) {
	switch backend {
	case SYNTH_BACKEND_OTO:
		return NewOtoSynth()
	case SYNTH_BACKEND_PORTAUDIO:
		return NewPortAudioSynth()
	}
	return nil, &SynthError{
		Operation: "backend creation",
		Details:   fmt.Sprintf("unknown backend type: %d", backend),
	}
}
