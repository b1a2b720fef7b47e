//go:build !headless

// synth_backend_portaudio.go - PortAudio synthesizer output implementation

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

	"github.com/gordonklaus/portaudio"
)

// PortAudioSynth plays the shared voice pool through a PortAudio callback
// stream. Alternative to the Oto backend for hosts where PortAudio behaves
// better with small buffers.
type PortAudioSynth struct {
	*voicePool

	stream  *portaudio.Stream
	started bool
	mutex   sync.Mutex
}

const PORTAUDIO_FRAMES = 1024

func NewPortAudioSynth() (Synth, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, &SynthError{Operation: "initialization", Details: "portaudio", Err: err}
	}
	s := &PortAudioSynth{voicePool: newVoicePool()}
	stream, err := portaudio.OpenDefaultStream(0, 1, SAMPLE_RATE, PORTAUDIO_FRAMES, s.callback)
	if err != nil {
		portaudio.Terminate()
		return nil, &SynthError{Operation: "stream creation", Details: "portaudio default stream", Err: err}
	}
	s.stream = stream
	return s, nil
}

func (s *PortAudioSynth) callback(out []float32) {
	s.Fill(out)
}

func (s *PortAudioSynth) Start() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.started || s.stream == nil {
		return nil
	}
	if err := s.stream.Start(); err != nil {
		return &SynthError{Operation: "start", Details: "portaudio stream", Err: err}
	}
	s.started = true
	return nil
}

func (s *PortAudioSynth) Stop() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if !s.started || s.stream == nil {
		return nil
	}
	if err := s.stream.Stop(); err != nil {
		return &SynthError{Operation: "stop", Details: "portaudio stream", Err: err}
	}
	s.started = false
	return nil
}

func (s *PortAudioSynth) Close() error {
	if err := s.Stop(); err != nil {
		return err
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.stream != nil {
		if err := s.stream.Close(); err != nil {
			return &SynthError{Operation: "close", Details: "portaudio stream", Err: err}
		}
		s.stream = nil
		portaudio.Terminate()
	}
	return nil
}

func (s *PortAudioSynth) IsStarted() bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.started
}
