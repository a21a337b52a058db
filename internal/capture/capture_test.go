package capture

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/Gurgeron/MagicMirror-Gemini/internal/media"
)

type fakeGrabber struct {
	frames []image.Image
	err    error
	grabs  int
	closed bool
}

func (f *fakeGrabber) Grab() (image.Image, error) {
	f.grabs++
	if len(f.frames) == 0 {
		if f.err != nil {
			return nil, f.err
		}
		return nil, ErrNoFrame
	}
	img := f.frames[0]
	f.frames = f.frames[1:]
	return img, nil
}

func (f *fakeGrabber) Close() error {
	f.closed = true
	return nil
}

func testImage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: uint8(x), A: 255})
	}
	return img
}

func TestSourceFailsOnFirstGrabWithoutFrames(t *testing.T) {
	out := make(chan media.Frame, 5)
	g := &fakeGrabber{err: errors.New("device unplugged")}
	src := NewSource(g, out, zerolog.Nop())

	done := make(chan error, 1)
	go func() { done <- src.Run(context.Background()) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("device failure should not be a pipeline error, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("source did not exit on grab failure")
	}

	if len(out) != 0 {
		t.Fatalf("expected no frames enqueued, got %d", len(out))
	}
	if g.grabs != 1 {
		t.Fatalf("expected exactly one grab attempt, got %d", g.grabs)
	}
	if !g.closed {
		t.Fatal("grabber not closed on exit")
	}
}

func TestSourceEnqueuesEncodedFrames(t *testing.T) {
	out := make(chan media.Frame, 5)
	g := &fakeGrabber{frames: []image.Image{testImage(64, 32)}}
	src := NewSource(g, out, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- src.Run(ctx) }()

	select {
	case frame := <-out:
		if frame.Kind != media.KindImage {
			t.Fatalf("expected image frame, got kind %d", frame.Kind)
		}
		if frame.MIME != "image/jpeg" {
			t.Fatalf("expected image/jpeg, got %q", frame.MIME)
		}
		if _, err := jpeg.Decode(bytes.NewReader(frame.Data)); err != nil {
			t.Fatalf("frame does not decode as JPEG: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("no frame produced")
	}

	// Grabber is now exhausted, so the loop should end cleanly.
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("source did not exit after device exhaustion")
	}
}

func TestEncodeJPEGBoundsLongerEdge(t *testing.T) {
	data, err := EncodeJPEG(testImage(4096, 512))
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	b := img.Bounds()
	if b.Dx() > 1024 || b.Dy() > 1024 {
		t.Fatalf("expected longer edge <= 1024, got %dx%d", b.Dx(), b.Dy())
	}
	// Aspect ratio preserved: 4096x512 fits to 1024x128.
	if b.Dx() != 1024 || b.Dy() != 128 {
		t.Fatalf("expected 1024x128, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestEncodeJPEGKeepsSmallImages(t *testing.T) {
	data, err := EncodeJPEG(testImage(320, 240))
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if img.Bounds().Dx() != 320 || img.Bounds().Dy() != 240 {
		t.Fatalf("small image should not be resized, got %v", img.Bounds())
	}
}
