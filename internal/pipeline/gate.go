package pipeline

import "sync/atomic"

// Gate is the half-duplex gating flag: set while model speech is in
// flight, clear when the model is idle. While set, the microphone loop
// replaces captured audio with silence so the model never hears itself.
//
// Single writer (the receive loop), many polling readers. An atomic flag
// rather than a mutex keeps the fast-polling microphone loop from ever
// contending with the receiver.
type Gate struct {
	speaking atomic.Bool
}

func NewGate() *Gate {
	return &Gate{}
}

// SetSpeaking marks the start of model speech.
func (g *Gate) SetSpeaking() {
	g.speaking.Store(true)
}

// ClearSpeaking marks turn completion.
func (g *Gate) ClearSpeaking() {
	g.speaking.Store(false)
}

// Speaking reports whether model audio is in flight.
func (g *Gate) Speaking() bool {
	return g.speaking.Load()
}
