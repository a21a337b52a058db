package waveform

import (
	"context"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

const (
	windowTitle = "Magic Mirror - Waveform"
	sampleQueue = 100
	tickRate    = 60
)

// View is the waveform window. It implements ebiten.Game; ebiten's fixed
// 60 Hz update is the render tick. The playback loop feeds it PCM via
// Observe; information only flows in, never back toward the audio path.
type View struct {
	state   *State
	level   func([]byte) float64
	samples chan []byte

	width  int
	height int

	ctx    context.Context
	cancel context.CancelFunc
}

// NewView builds a view of the given display size. level converts a PCM
// buffer to an amplitude in [0,1]. Closing ctx ends the window; the window
// being closed cancels via cancel, stopping the rest of the pipeline.
func NewView(ctx context.Context, cancel context.CancelFunc, width, height int, level func([]byte) float64) *View {
	return &View{
		state:   NewState(),
		level:   level,
		samples: make(chan []byte, sampleQueue),
		width:   width,
		height:  height,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Observe feeds one playback buffer into the animation. Never blocks:
// when the queue is full the oldest sample is dropped so the display
// stays current rather than lagging the audio.
func (v *View) Observe(pcm []byte) {
	for {
		select {
		case v.samples <- pcm:
			return
		default:
		}
		select {
		case <-v.samples:
		default:
		}
	}
}

// Update runs once per tick: drain pending samples into the state, then
// advance the animation one step.
func (v *View) Update() error {
	select {
	case <-v.ctx.Done():
		return ebiten.Termination
	default:
	}

	now := time.Now()
	for {
		select {
		case pcm := <-v.samples:
			v.state.Ingest(v.level(pcm), now)
			continue
		default:
		}
		break
	}

	v.state.Tick(now)
	return nil
}

func (v *View) Draw(screen *ebiten.Image) {
	frame := Render(v.state, v.width, v.height)
	screen.DrawImage(ebiten.NewImageFromImage(frame), nil)
}

func (v *View) Layout(outsideWidth, outsideHeight int) (int, int) {
	return v.width, v.height
}

// Run opens the window and blocks until the pipeline ends or the user
// closes the window. Must run on the main goroutine.
func (v *View) Run() error {
	defer v.cancel()

	ebiten.SetWindowSize(v.width, v.height)
	ebiten.SetWindowTitle(windowTitle)
	ebiten.SetTPS(tickRate)

	return ebiten.RunGame(v)
}
