//go:build linux

package capture

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"time"

	"github.com/vladimirvivien/go4vl/device"
	"github.com/vladimirvivien/go4vl/v4l2"
)

const cameraGrabTimeout = 5 * time.Second

// CameraGrabber captures stills from a V4L2 device in MJPEG mode.
type CameraGrabber struct {
	dev    *device.Device
	cancel context.CancelFunc
	frames <-chan []byte
}

// NewCameraGrabber opens /dev/video<index> and starts streaming.
func NewCameraGrabber(index int) (*CameraGrabber, error) {
	path := fmt.Sprintf("/dev/video%d", index)

	dev, err := device.Open(path, device.WithPixFormat(v4l2.PixFormat{
		PixelFormat: v4l2.PixelFmtMJPEG,
		Width:       1280,
		Height:      720,
	}))
	if err != nil {
		return nil, fmt.Errorf("open camera %s: %w", path, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	if err := dev.Start(ctx); err != nil {
		cancel()
		dev.Close()
		return nil, fmt.Errorf("start camera %s: %w", path, err)
	}

	return &CameraGrabber{dev: dev, cancel: cancel, frames: dev.GetOutput()}, nil
}

func (g *CameraGrabber) Grab() (image.Image, error) {
	select {
	case frame, ok := <-g.frames:
		if !ok || len(frame) == 0 {
			return nil, ErrNoFrame
		}
		img, err := jpeg.Decode(bytes.NewReader(frame))
		if err != nil {
			return nil, fmt.Errorf("%w: decode mjpeg: %v", ErrNoFrame, err)
		}
		return img, nil
	case <-time.After(cameraGrabTimeout):
		return nil, fmt.Errorf("%w: camera read timed out", ErrNoFrame)
	}
}

func (g *CameraGrabber) Close() error {
	g.cancel()
	return g.dev.Close()
}
