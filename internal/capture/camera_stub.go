//go:build !linux

package capture

import (
	"fmt"
	"image"
)

// CameraGrabber is unavailable off linux; screen or audio-only modes still
// work everywhere PortAudio does.
type CameraGrabber struct{}

func NewCameraGrabber(index int) (*CameraGrabber, error) {
	return nil, fmt.Errorf("camera capture not supported on this platform")
}

func (g *CameraGrabber) Grab() (image.Image, error) { return nil, ErrNoFrame }

func (g *CameraGrabber) Close() error { return nil }
