//go:build !headless

// synth_backend_oto.go - OTO v3 synthesizer output implementation

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
	"sync"
	"unsafe"

	"github.com/ebitengine/oto/v3"
)

// OtoSynth plays the shared voice pool through an Oto context. Oto pulls
// samples via Read on its own thread; the pool's mutex is the boundary.
type OtoSynth struct {
	*voicePool

	ctx       *oto.Context
	player    *oto.Player
	sampleBuf []float32
	started   bool
	mutex     sync.Mutex // Only for setup/control operations
}

func NewOtoSynth() (Synth, error) {
	op := &oto.NewContextOptions{
		SampleRate:   SAMPLE_RATE,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
		BufferSize:   4,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, &SynthError{Operation: "context creation", Details: "oto", Err: err}
	}
	<-ready

	s := &OtoSynth{
		voicePool: newVoicePool(),
		ctx:       ctx,
		sampleBuf: make([]float32, 4096),
	}
	s.player = ctx.NewPlayer(s)
	return s, nil
}

func (s *OtoSynth) Read(p []byte) (n int, err error) {
	numSamples := len(p) / 4
	if len(s.sampleBuf) < numSamples {
		s.sampleBuf = make([]float32, numSamples)
	}
	samples := s.sampleBuf[:numSamples]
	s.Fill(samples)
	copy(p, (*[1 << 30]byte)(unsafe.Pointer(&samples[0]))[:len(p)])
	return len(p), nil
}

func (s *OtoSynth) Start() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if !s.started && s.player != nil {
		s.player.Play()
		s.started = true
	}
	return nil
}

func (s *OtoSynth) Stop() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.started && s.player != nil {
		s.player.Close()
		s.started = false
	}
	return nil
}

func (s *OtoSynth) Close() error {
	if err := s.Stop(); err != nil {
		return err
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.player = nil
	return nil
}

func (s *OtoSynth) IsStarted() bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.started
}
