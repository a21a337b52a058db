package device

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"
)

const speakerFrames = 1024

// Speaker plays mono int16 PCM on the default output device. Buffers of
// any length are reassembled into fixed-size blocks; the partial tail of
// one Write is prepended to the next so back-to-back buffers play
// gaplessly. The mutex makes Write and Close safe to call from different
// goroutines.
type Speaker struct {
	mu     sync.Mutex
	stream *portaudio.Stream
	buffer []int16
	blocks *blockWriter
}

// OpenSpeaker opens the default output device at the given sample rate.
func OpenSpeaker(sampleRate int) (*Speaker, error) {
	dev, err := portaudio.DefaultOutputDevice()
	if err != nil {
		return nil, fmt.Errorf("select output device: %w", err)
	}

	s := &Speaker{buffer: make([]int16, speakerFrames)}
	s.blocks = newBlockWriter(speakerFrames, s.emitBlock)

	stream, err := portaudio.OpenStream(portaudio.StreamParameters{
		Output: portaudio.StreamDeviceParameters{
			Device:   dev,
			Channels: 1,
			Latency:  dev.DefaultLowOutputLatency,
		},
		SampleRate:      float64(sampleRate),
		FramesPerBuffer: speakerFrames,
	}, s.buffer)
	if err != nil {
		return nil, fmt.Errorf("open output stream: %w", err)
	}

	if err := stream.Start(); err != nil {
		stream.Close()
		return nil, fmt.Errorf("start output stream: %w", err)
	}

	s.stream = stream
	return s, nil
}

func (s *Speaker) emitBlock(block []int16) error {
	copy(s.buffer, block)
	if err := s.stream.Write(); err != nil {
		// A late write is an audible glitch, not a failure.
		if errors.Is(err, portaudio.OutputUnderflowed) {
			return nil
		}
		return fmt.Errorf("write speaker: %w", err)
	}
	return nil
}

// Write plays one PCM buffer, blocking until the device has consumed
// every full block in it. A trailing partial block is held back and
// played at the start of the next Write; Close flushes it.
func (s *Speaker) Write(pcm []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stream == nil {
		return errors.New("speaker closed")
	}
	return s.blocks.push(pcm)
}

// Close flushes the held-back tail, then stops and closes the output
// stream. Safe to call twice. A concurrent Write finishes its buffer
// first, so Close blocks for at most that long.
func (s *Speaker) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stream == nil {
		return nil
	}
	_ = s.blocks.flush()
	stream := s.stream
	s.stream = nil
	stream.Stop()
	return stream.Close()
}
