// Package capture produces encoded still frames from a camera or screen at
// a fixed cadence.
package capture

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/jpeg"
	"time"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog"

	"github.com/Gurgeron/MagicMirror-Gemini/internal/media"
)

// ErrNoFrame signals that the device produced no frame (closed, unplugged,
// end of stream). The source treats it as the stream ending.
var ErrNoFrame = errors.New("no frame available")

// Grabber acquires one still image from a device. Grab may block on the
// device driver.
type Grabber interface {
	Grab() (image.Image, error)
	Close() error
}

const (
	maxEdge    = 1024
	frameDelay = time.Second
)

// Source polls a Grabber once per second and enqueues JPEG image frames.
type Source struct {
	grabber Grabber
	out     chan<- media.Frame
	log     zerolog.Logger
}

func NewSource(g Grabber, out chan<- media.Frame, log zerolog.Logger) *Source {
	return &Source{grabber: g, out: out, log: log}
}

// Run loops until the context ends or the device stops producing frames.
// A device failure ends this source only; it is not a pipeline error.
func (s *Source) Run(ctx context.Context) error {
	defer s.grabber.Close()

	for {
		img, err := s.grabber.Grab()
		if err != nil {
			s.log.Warn().Err(err).Msg("capture ended")
			return nil
		}

		data, err := EncodeJPEG(img)
		if err != nil {
			s.log.Warn().Err(err).Msg("frame encode failed")
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(frameDelay):
		}

		select {
		case s.out <- media.ImageFrame("image/jpeg", data):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// EncodeJPEG shrinks img so its longer edge is at most 1024 pixels and
// encodes it as JPEG.
func EncodeJPEG(img image.Image) ([]byte, error) {
	b := img.Bounds()
	if b.Dx() > maxEdge || b.Dy() > maxEdge {
		img = imaging.Fit(img, maxEdge, maxEdge, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
