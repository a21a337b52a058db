package device

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"
)

// Microphone reads fixed-size mono int16 chunks from one input device.
// The stream is opened once; ReadChunk blocks for exactly one chunk.
// The mutex makes ReadChunk and Close safe to call from different
// goroutines.
type Microphone struct {
	mu     sync.Mutex
	stream *portaudio.Stream
	buffer []int16
	strict bool // surface driver overflow instead of suppressing it
}

// OpenMicrophone opens the named (or default) input device at the given
// sample rate, reading chunkSize samples per call.
func OpenMicrophone(deviceID string, sampleRate, chunkSize int, strict bool) (*Microphone, error) {
	dev, err := findInputDevice(deviceID)
	if err != nil {
		return nil, fmt.Errorf("select input device: %w", err)
	}

	m := &Microphone{
		buffer: make([]int16, chunkSize),
		strict: strict,
	}

	stream, err := portaudio.OpenStream(portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Device:   dev,
			Channels: 1,
			Latency:  dev.DefaultLowInputLatency,
		},
		SampleRate:      float64(sampleRate),
		FramesPerBuffer: chunkSize,
	}, m.buffer)
	if err != nil {
		return nil, fmt.Errorf("open input stream: %w", err)
	}

	if err := stream.Start(); err != nil {
		stream.Close()
		return nil, fmt.Errorf("start input stream: %w", err)
	}

	m.stream = stream
	return m, nil
}

// ReadChunk blocks until one full chunk has been captured and returns it
// as little-endian PCM bytes. Driver overflow (the host dropped samples
// between reads) is suppressed outside strict mode: the chunk that was
// read is still returned.
func (m *Microphone) ReadChunk() ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stream == nil {
		return nil, errors.New("microphone closed")
	}
	if err := m.stream.Read(); err != nil {
		if errors.Is(err, portaudio.InputOverflowed) && !m.strict {
			// Stale samples were dropped by the driver; the buffer is
			// still a valid chunk.
		} else {
			return nil, fmt.Errorf("read microphone: %w", err)
		}
	}

	return samplesToBytes(m.buffer), nil
}

// Close stops and closes the input stream. Safe to call twice; both the
// pipeline's shutdown path and the binary's defer release the device. A
// read in flight finishes its chunk first, so Close blocks for at most
// one chunk period.
func (m *Microphone) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stream == nil {
		return nil
	}
	stream := m.stream
	m.stream = nil
	stream.Stop()
	return stream.Close()
}
