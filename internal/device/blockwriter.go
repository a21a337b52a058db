package device

// blockWriter reassembles arbitrary-length PCM buffers into fixed-size
// sample blocks. The partial tail of one push is carried into the next
// rather than zero-padded, so consecutive buffers of a turn play back as
// one gapless stream. flush pads and emits whatever is left; only the
// very end of playback ever hears padding.
type blockWriter struct {
	frames int
	carry  []int16
	emit   func(block []int16) error
}

func newBlockWriter(frames int, emit func([]int16) error) *blockWriter {
	return &blockWriter{
		frames: frames,
		carry:  make([]int16, 0, frames),
		emit:   emit,
	}
}

func (w *blockWriter) push(pcm []byte) error {
	samples := len(pcm) / 2
	idx := 0
	for {
		for len(w.carry) < w.frames && idx < samples {
			w.carry = append(w.carry, bytesToSample(pcm, idx))
			idx++
		}
		if len(w.carry) < w.frames {
			return nil
		}

		err := w.emit(w.carry)
		w.carry = w.carry[:0]
		if err != nil {
			return err
		}
	}
}

func (w *blockWriter) flush() error {
	if len(w.carry) == 0 {
		return nil
	}
	for len(w.carry) < w.frames {
		w.carry = append(w.carry, 0)
	}
	err := w.emit(w.carry)
	w.carry = w.carry[:0]
	return err
}
