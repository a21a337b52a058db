package waveform

import (
	"image"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
)

const (
	superSample   = 3
	glowThreshold = 0.25
	glowWidth     = 1.8
	glowSigma     = 10
	glowAlpha     = 0.25
)

// Render synthesizes one frame of the waveform at the given display size.
// Drawing happens at 3x resolution and is downsampled for anti-aliasing;
// past the glow threshold a blurred copy of the stroke is composited
// beneath the main line.
func Render(st *State, width, height int) image.Image {
	ow := width * superSample
	oh := height * superSample

	amp := st.Amplitude()
	thickness := (6 + amp*6) * superSample
	if thickness < 2 {
		thickness = 2
	}
	if limit := float64(24 * superSample); thickness > limit {
		thickness = limit
	}

	// Horizontal margin keeps the round end caps inside the frame.
	margin := thickness
	if floor := float64(12 * superSample); margin < floor {
		margin = floor
	}

	n := ow / 2
	if n < 400 {
		n = 400
	}
	curve := st.Curve(n)

	xs := make([]float64, n)
	ys := make([]float64, n)
	span := float64(ow-1) - 2*margin
	for i := range curve {
		xs[i] = margin + span*float64(i)/float64(n-1)
		ys[i] = float64(oh)/2 + curve[i]*float64(oh)*0.28
	}

	dc := gg.NewContext(ow, oh)
	dc.SetRGB(0, 0, 0)
	dc.Clear()

	if amp > glowThreshold {
		glow := gg.NewContext(ow, oh)
		glow.SetRGBA(1, 1, 1, glowAlpha)
		strokePath(glow, xs, ys, thickness*glowWidth)
		blurred := imaging.Blur(glow.Image(), glowSigma)
		dc.DrawImage(blurred, 0, 0)
	}

	dc.SetRGB(1, 1, 1)
	strokePath(dc, xs, ys, thickness)

	return imaging.Resize(dc.Image(), width, height, imaging.Lanczos)
}

func strokePath(dc *gg.Context, xs, ys []float64, lineWidth float64) {
	dc.SetLineWidth(lineWidth)
	dc.SetLineCap(gg.LineCapRound)
	dc.SetLineJoin(gg.LineJoinRound)
	dc.MoveTo(xs[0], ys[0])
	for i := 1; i < len(xs); i++ {
		dc.LineTo(xs[i], ys[i])
	}
	dc.Stroke()
}
