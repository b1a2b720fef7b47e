// synth_voice.go - Shared polyphonic voice pool with ADSR-style envelopes

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
	"sync"
)

const (
	SAMPLE_RATE = 44100
	NUM_VOICES  = 8

	DEFAULT_ATTACK  = 0.02 // seconds
	DEFAULT_RELEASE = 0.5  // seconds
	DEFAULT_VOLUME  = -12.0

	VOICE_MIX_LEVEL = 0.25 // headroom for three-note chords plus transitions

	MAX_SAMPLE = 1.0
	MIN_SAMPLE = -1.0
)

// Envelope stages
const (
	ENV_IDLE = iota
	ENV_ATTACK
	ENV_SUSTAIN
	ENV_RELEASE
)

// synthVoice is one sounding sine. A voice holds at most one note name; the
// pool guarantees at most one voice per note name.
type synthVoice struct {
	note      string
	frequency float64
	velocity  float64
	phase     float64

	envLevel       float64
	envPhase       int
	envSample      int
	attackSamples  int
	releaseSamples int

	startedAt uint64 // pool sample count at trigger, for oldest-voice stealing
}

func (v *synthVoice) trigger(note string, freq, velocity float64, attackSamples, releaseSamples int, at uint64) {
	v.note = note
	v.frequency = freq
	v.velocity = velocity
	v.phase = 0
	v.envLevel = 0
	v.envPhase = ENV_ATTACK
	v.envSample = 0
	v.attackSamples = attackSamples
	v.releaseSamples = releaseSamples
	v.startedAt = at
}

func (v *synthVoice) release() {
	if v.envPhase == ENV_ATTACK || v.envPhase == ENV_SUSTAIN {
		v.envPhase = ENV_RELEASE
		v.envSample = 0
	}
}

func (v *synthVoice) active() bool {
	return v.envPhase != ENV_IDLE
}

func (v *synthVoice) updateEnvelope() {
	switch v.envPhase {
	case ENV_ATTACK:
		if v.attackSamples <= 0 {
			v.envLevel = 1.0
			v.envPhase = ENV_SUSTAIN
		} else {
			v.envLevel += 1.0 / float64(v.attackSamples)
			if v.envLevel >= 1.0 {
				v.envLevel = 1.0
				v.envPhase = ENV_SUSTAIN
			}
		}
	case ENV_RELEASE:
		if v.releaseSamples <= 0 {
			v.envLevel = 0
			v.envPhase = ENV_IDLE
			v.note = ""
		} else {
			v.envLevel *= 1.0 - float64(v.envSample)/float64(v.releaseSamples)
			v.envSample++
			if v.envSample >= v.releaseSamples || v.envLevel <= 0 {
				v.envLevel = 0
				v.envPhase = ENV_IDLE
				v.note = ""
			}
		}
	}
}

func (v *synthVoice) sample() float64 {
	if !v.active() || v.frequency == 0 {
		return 0
	}
	v.updateEnvelope()
	s := math.Sin(v.phase)
	v.phase += v.frequency * TWO_PI / SAMPLE_RATE
	if v.phase >= TWO_PI {
		v.phase -= TWO_PI
	}
	return s * v.velocity * v.envLevel
}

// voicePool is the backend-independent synthesizer core. The render timeline
// calls the trigger and control methods; the audio backend drains samples from
// its own thread, so everything is behind one mutex.
type voicePool struct {
	mutex      sync.Mutex
	voices     [NUM_VOICES]synthVoice
	attack     float64 // seconds
	release    float64 // seconds
	gain       float64 // linear master gain
	samplesOut uint64
}

func newVoicePool() *voicePool {
	p := &voicePool{
		attack:  DEFAULT_ATTACK,
		release: DEFAULT_RELEASE,
	}
	p.gain = dbToGain(DEFAULT_VOLUME)
	return p
}

func dbToGain(db float64) float64 {
	return math.Pow(10, db/20)
}

// TriggerAttack starts a voice for the note. A note that is already sounding
// is skipped: the voice manager never double-attacks, and neither do we.
func (p *voicePool) TriggerAttack(note string, velocity float64) {
	freq, ok := noteFrequency(note)
	if !ok {
		return
	}
	p.mutex.Lock()
	defer p.mutex.Unlock()

	var free, oldest *synthVoice
	for i := range p.voices {
		v := &p.voices[i]
		if v.active() && v.note == note {
			return
		}
		if !v.active() && free == nil {
			free = v
		}
		if oldest == nil || v.startedAt < oldest.startedAt {
			oldest = v
		}
	}
	target := free
	if target == nil {
		target = oldest // steal the longest-sounding voice
	}
	target.trigger(note, freq, velocity,
		int(p.attack*SAMPLE_RATE), int(p.release*SAMPLE_RATE), p.samplesOut)
}

// TriggerRelease gates off every voice holding one of the given notes.
// Unknown note names are skipped.
func (p *voicePool) TriggerRelease(notes []string) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	for _, note := range notes {
		for i := range p.voices {
			v := &p.voices[i]
			if v.active() && v.note == note {
				v.release()
			}
		}
	}
}

func (p *voicePool) SetVolume(db float64) {
	p.mutex.Lock()
	p.gain = dbToGain(db)
	p.mutex.Unlock()
}

func (p *voicePool) Envelope() (attack, release float64) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.attack, p.release
}

func (p *voicePool) SetEnvelope(attack, release float64) {
	p.mutex.Lock()
	p.attack = attack
	p.release = release
	p.mutex.Unlock()
}

// Now is the audio-context clock in seconds: samples rendered so far.
func (p *voicePool) Now() float64 {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return float64(p.samplesOut) / SAMPLE_RATE
}

// ActiveNotes returns the names of currently sounding voices. Diagnostic use.
func (p *voicePool) ActiveNotes() []string {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	var out []string
	for i := range p.voices {
		if p.voices[i].active() {
			out = append(out, p.voices[i].note)
		}
	}
	return out
}

// Fill renders the next len(buf) mono samples.
func (p *voicePool) Fill(buf []float32) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	for i := range buf {
		var s float64
		for j := range p.voices {
			s += p.voices[j].sample()
		}
		s *= VOICE_MIX_LEVEL * p.gain
		buf[i] = float32(math.Max(math.Min(s, MAX_SAMPLE), MIN_SAMPLE))
		p.samplesOut++
	}
}

var pitchClassSemitones = map[string]int{
	"C": 0, "C#": 1, "Db": 1,
	"D": 2, "D#": 3, "Eb": 3,
	"E": 4,
	"F": 5, "F#": 6, "Gb": 6,
	"G": 7, "G#": 8, "Ab": 8,
	"A": 9, "A#": 10, "Bb": 10,
	"B": 11,
}

// noteFrequency converts a pitch-class+octave name such as "A4" to its equal
// temperament frequency. Malformed names report ok=false and callers skip.
func noteFrequency(name string) (float64, bool) {
	if len(name) < 2 {
		return 0, false
	}
	split := len(name)
	for split > 0 && name[split-1] >= '0' && name[split-1] <= '9' {
		split--
	}
	if split == 0 || split == len(name) {
		return 0, false
	}
	semitone, ok := pitchClassSemitones[name[:split]]
	if !ok {
		return 0, false
	}
	octave := 0
	for _, c := range name[split:] {
		octave = octave*10 + int(c-'0')
	}
	midi := (octave+1)*12 + semitone
	return 440 * math.Pow(2, float64(midi-69)/12), true
}
