//go:build headless

package main

// HeadlessSynth keeps full voice bookkeeping but renders to nowhere.
type HeadlessSynth struct {
	*voicePool
	started bool
}

func NewOtoSynth() (Synth, error) {
	return &HeadlessSynth{voicePool: newVoicePool()}, nil
}

func NewPortAudioSynth() (Synth, error) {
	return &HeadlessSynth{voicePool: newVoicePool()}, nil
}

func (s *HeadlessSynth) Start() error {
	s.started = true
	return nil
}

func (s *HeadlessSynth) Stop() error {
	s.started = false
	return nil
}

func (s *HeadlessSynth) Close() error {
	s.started = false
	return nil
}

func (s *HeadlessSynth) IsStarted() bool {
	return s.started
}
