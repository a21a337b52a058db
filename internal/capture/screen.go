package capture

import (
	"fmt"
	"image"

	"github.com/kbinani/screenshot"
)

// ScreenGrabber captures the primary display.
type ScreenGrabber struct{}

func NewScreenGrabber() (*ScreenGrabber, error) {
	if screenshot.NumActiveDisplays() == 0 {
		return nil, fmt.Errorf("no active displays")
	}
	return &ScreenGrabber{}, nil
}

func (g *ScreenGrabber) Grab() (image.Image, error) {
	img, err := screenshot.CaptureDisplay(0)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoFrame, err)
	}
	return img, nil
}

func (g *ScreenGrabber) Close() error { return nil }
