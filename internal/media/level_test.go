package media

import (
	"encoding/binary"
	"math"
	"testing"
)

func pcmOf(samples ...int16) []byte {
	buf := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(buf[2*i:], uint16(s))
	}
	return buf
}

func TestLevelEmpty(t *testing.T) {
	if got := Level(nil); got != 0 {
		t.Fatalf("expected 0 for empty buffer, got %f", got)
	}
	if got := Level([]byte{0x7f}); got != 0 {
		t.Fatalf("expected 0 for half a sample, got %f", got)
	}
}

func TestLevelZeroBuffer(t *testing.T) {
	if got := Level(pcmOf(0, 0, 0, 0)); got != 0 {
		t.Fatalf("expected exactly 0 for all-zero PCM, got %f", got)
	}
}

func TestLevelKnownValues(t *testing.T) {
	got := Level(pcmOf(16384, -16384))
	if math.Abs(got-0.5) > 1e-9 {
		t.Fatalf("expected 0.5, got %f", got)
	}

	got = Level(pcmOf(32767))
	if math.Abs(got-32767.0/32768.0) > 1e-9 {
		t.Fatalf("expected near 1, got %f", got)
	}
}

func TestLevelRange(t *testing.T) {
	// Including the minimum sample, which has no positive int16 negation.
	bufs := [][]byte{
		pcmOf(-32768, -32768),
		pcmOf(32767, -32768, 0, 12345, -1),
		pcmOf(1),
	}
	for _, buf := range bufs {
		got := Level(buf)
		if got < 0 || got > 1 {
			t.Fatalf("level %f out of [0,1] for %v", got, buf)
		}
	}
}

func TestSilence(t *testing.T) {
	buf := Silence(2048)
	if len(buf) != 2048 {
		t.Fatalf("expected 2048 bytes, got %d", len(buf))
	}
	for i, b := range buf {
		if b != 0 {
			t.Fatalf("expected zero at byte %d, got %d", i, b)
		}
	}
}
