// display_interface.go - Wave display interface for QuartzWave Engine

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
)

// DisplayError provides detailed error context for display operations
type DisplayError struct {
	Operation string // What operation was being attempted
	Details   string // Additional error context
	Err       error  // Underlying error if any
}

func (e *DisplayError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("display %s failed: %s: %v", e.Operation, e.Details, e.Err)
	}
	return fmt.Sprintf("display %s failed: %s", e.Operation, e.Details)
}

func (e *DisplayError) Unwrap() error {
	return e.Err
}

// StatusToken is one unit entry in the status bar.
type StatusToken struct {
	Name   string
	Active bool
	Fading bool
	Color  color.RGBA
}

// StatusModel is everything the status bar shows.
type StatusModel struct {
	Units    []StatusToken
	SoundOn  bool
	VolumeDB float64
}

// Scene is one frame's worth of draw commands, published by the engine each
// tick and consumed by the display on its next draw.
type Scene struct {
	Background color.RGBA
	Polylines  []Polyline
	Spectrum   []float64 // normalized band magnitudes; nil when the overlay is off
	Status     StatusModel
}

// DisplayConfig contains hardware-independent configuration
type DisplayConfig struct {
	Width       int
	Height      int
	RefreshRate int // Target refresh rate in Hz
	VSync       bool
	Fullscreen  bool
}

// WaveDisplay is the rendering surface capability. The display owns the
// fixed-rate scheduler: it invokes the registered tick handler once per frame,
// strictly sequentially, and draws whatever scene was last published.
type WaveDisplay interface {
	// Lifecycle management
	Start() error
	Stop() error
	Close() error
	IsStarted() bool
	Done() <-chan struct{}

	// Configuration and geometry
	SetDisplayConfig(config DisplayConfig) error
	GetDisplayConfig() DisplayConfig
	Size() (width, height int) // current surface size; changes on resize

	// Scene and callbacks
	UpdateScene(scene Scene)
	SetTickHandler(fn func())
	SetKeyHandler(fn func(rune))

	GetFrameCount() uint64
}

// Predefined display backend types
const (
	DISPLAY_BACKEND_EBITEN = iota // Pure Go Ebiten backend
)

// NewWaveDisplay creates a new display instance using the specified backend
func NewWaveDisplay(backend int) (WaveDisplay, error) {
	switch backend {
	case DISPLAY_BACKEND_EBITEN:
		return NewEbitenDisplay()
	}
	return nil, &DisplayError{
		Operation: "backend creation",
		Details:   fmt.Sprintf("unknown backend type: %d", backend),
	}
}
