// spectrum.go - FFT spectrum overlay of the composite waveform

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
	"math"
	"math/cmplx"

	"github.com/ktye/fft"
)

// SpectrumAnalyzer turns a window of composite samples into normalized band
// magnitudes for the overlay. Size must be a power of two.
type SpectrumAnalyzer struct {
	size   int
	fft    fft.FFT
	window []float64 // Hann
	buf    []complex128
}

func NewSpectrumAnalyzer(size int) (*SpectrumAnalyzer, error) {
	if size < 2 || size&(size-1) != 0 {
		return nil, fmt.Errorf("spectrum analyzer size %d: not a power of two", size)
	}
	f, err := fft.New(size)
	if err != nil {
		return nil, fmt.Errorf("spectrum analyzer size %d: %w", size, err)
	}
	window := make([]float64, size)
	for i := range window {
		window[i] = (1 - math.Cos(2*math.Pi*float64(i)/float64(size))) / 2
	}
	return &SpectrumAnalyzer{
		size:   size,
		fft:    f,
		window: window,
		buf:    make([]complex128, size),
	}, nil
}

// Analyze returns size/2 magnitudes scaled so the strongest band is 1. Input
// shorter than the window is zero-padded, longer input is truncated.
func (s *SpectrumAnalyzer) Analyze(samples []float64) []float64 {
	for i := range s.buf {
		if i < len(samples) {
			s.buf[i] = complex(samples[i]*s.window[i], 0)
		} else {
			s.buf[i] = 0
		}
	}
	s.buf = s.fft.Transform(s.buf)

	bands := make([]float64, s.size/2)
	peak := 0.0
	for i := range bands {
		bands[i] = cmplx.Abs(s.buf[i])
		if bands[i] > peak {
			peak = bands[i]
		}
	}
	if peak > 0 {
		for i := range bands {
			bands[i] /= peak
		}
	}
	return bands
}
