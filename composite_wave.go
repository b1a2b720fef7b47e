// composite_wave.go - Composite signal evaluation and waveform geometry

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
	"image/color"
	"math"
)

// compositeValue evaluates the composite signal at the given argument:
// the sum over active units of amplitude * sin(arg + phase).
func compositeValue(units []*FrequencyUnit, arg float64) float64 {
	var v float64
	for _, u := range units {
		v += u.Amplitude * math.Sin(arg+u.Phase)
	}
	return v
}

// normalizedValue maps the composite signal at the origin into [0,1]. The
// window is always the full catalog amplitude: removing units only shrinks the
// achievable range inside the same window, it never rescales it.
func normalizedValue(units []*FrequencyUnit) float64 {
	v := (compositeValue(units, 0) + CATALOG_AMPLITUDE) / (2 * CATALOG_AMPLITUDE)
	return clamp01(v)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// WaveGeometry derives the sampling parameters for the on-screen waveform from
// the surface dimensions. It is recomputed whenever the surface resizes; past
// frames are never resampled.
type WaveGeometry struct {
	Width       int
	Height      int
	PointStep   int     // horizontal pixels between sample points
	SpatialFreq float64 // radians per pixel; one full cycle across the width
	YScale      float64 // pixels per unit of composite amplitude
}

const WAVE_POINT_STEP = 2

func NewWaveGeometry(width, height int) WaveGeometry {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	return WaveGeometry{
		Width:       width,
		Height:      height,
		PointStep:   WAVE_POINT_STEP,
		SpatialFreq: TWO_PI / float64(width),
		YScale:      float64(height) * 0.4 / CATALOG_AMPLITUDE,
	}
}

// PointCount is the number of sample points across the surface, endpoint included.
func (g WaveGeometry) PointCount() int {
	return g.Width/g.PointStep + 1
}

// Point is one sample of an on-screen polyline.
type Point struct {
	X float64
	Y float64
}

// Polyline is a colored sequence of points handed to the display as-is.
type Polyline struct {
	Color  color.RGBA
	Thick  float64
	Points []Point
}

// compositePolyline samples the summed waveform across the surface. Phases
// change continuously, so the polyline is rebuilt in full every tick.
func compositePolyline(units []*FrequencyUnit, geo WaveGeometry) Polyline {
	pl := Polyline{
		Color:  color.RGBA{235, 235, 235, 255},
		Thick:  2,
		Points: make([]Point, 0, geo.PointCount()),
	}
	centerY := float64(geo.Height) / 2
	for x := 0; x <= geo.Width; x += geo.PointStep {
		arg := geo.SpatialFreq * float64(x)
		var y float64
		for _, u := range units {
			y += u.Amplitude * math.Sin(arg+u.Phase)
		}
		pl.Points = append(pl.Points, Point{X: float64(x), Y: centerY - y*geo.YScale})
	}
	return pl
}

// unitPolyline samples a single unit's wave in its own color, drawn thin
// beneath the composite. Display-only.
func unitPolyline(u *FrequencyUnit, geo WaveGeometry) Polyline {
	pl := Polyline{
		Color:  u.Color,
		Thick:  1,
		Points: make([]Point, 0, geo.PointCount()),
	}
	centerY := float64(geo.Height) / 2
	for x := 0; x <= geo.Width; x += geo.PointStep {
		arg := geo.SpatialFreq * float64(x)
		y := u.Amplitude * math.Sin(arg+u.Phase)
		pl.Points = append(pl.Points, Point{X: float64(x), Y: centerY - y*geo.YScale})
	}
	return pl
}
