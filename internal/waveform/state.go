// Package waveform animates a live audio-reactive waveform from streaming
// PCM amplitude. The animation state is split from presentation: Ingest
// and Tick are plain state transitions, the ebiten view drives them.
package waveform

import (
	"math"
	"time"
)

const (
	historyLen = 50
	idleWindow = 100 * time.Millisecond
	decayRate  = 0.96
	smoothGain = 0.18
	phaseSpeed = 0.35
)

// State holds the animation state. It is owned by the view's update loop;
// nothing else touches it.
type State struct {
	history [historyLen]float64
	head    int
	count   int

	current float64
	target  float64
	phase   float64

	lastSample time.Time
}

func NewState() *State {
	return &State{}
}

// Ingest records one amplitude sample. The target amplitude tracks the
// loudest recent sample so short gaps between chunks do not flicker.
func (s *State) Ingest(level float64, now time.Time) {
	s.history[s.head] = level
	s.head = (s.head + 1) % historyLen
	if s.count < historyLen {
		s.count++
	}

	max := 0.0
	for i := 0; i < s.count; i++ {
		if s.history[i] > max {
			max = s.history[i]
		}
	}
	s.target = max
	s.lastSample = now
}

// Tick advances one animation step: decay the target when audio has gone
// idle, smooth the current amplitude toward it, advance the phase.
func (s *State) Tick(now time.Time) {
	if now.Sub(s.lastSample) > idleWindow {
		s.target *= decayRate
	}
	s.current += (s.target - s.current) * smoothGain
	s.phase += phaseSpeed
}

// Amplitude returns the smoothed current amplitude.
func (s *State) Amplitude() float64 {
	return s.current
}

// Target returns the amplitude the animation is approaching.
func (s *State) Target() float64 {
	return s.target
}

// Curve samples the waveform at n evenly spaced points across the view.
// Three sinusoids at different phase multipliers and frequencies give the
// motion an organic look; the sum is scaled by the current amplitude.
func (s *State) Curve(n int) []float64 {
	out := make([]float64, n)
	if n < 2 {
		return out
	}
	for i := range out {
		t := float64(i) / float64(n-1)
		w1 := math.Sin(s.phase+t*4*math.Pi) * 0.35
		w2 := math.Sin(s.phase*1.7+t*7*math.Pi) * 0.22
		w3 := math.Sin(s.phase*0.8+t*2*math.Pi) * 0.5
		out[i] = (w1 + w2 + w3) * s.current
	}
	return out
}
