// Package pipeline wires capture, the remote session, playback and the
// waveform view into one supervised set of concurrent loops.
package pipeline

import (
	"context"
	"errors"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/Gurgeron/MagicMirror-Gemini/internal/capture"
	"github.com/Gurgeron/MagicMirror-Gemini/internal/media"
	"github.com/Gurgeron/MagicMirror-Gemini/internal/session"
)

// ErrUserQuit is the sentinel for a user-requested exit. Run treats it as
// a clean cancellation, not a failure.
var ErrUserQuit = errors.New("user requested exit")

const (
	// Small outbound bound: capture producers block rather than pile up
	// stale real-time frames.
	outboundCapacity = 5
	playbackCapacity = 512
)

// ChunkReader reads one fixed-size PCM chunk per call (the microphone).
type ChunkReader interface {
	ReadChunk() ([]byte, error)
}

// Player plays one PCM buffer, blocking until consumed (the speaker).
type Player interface {
	Write(pcm []byte) error
}

// Observer receives each playback buffer for visualization.
type Observer interface {
	Observe(pcm []byte)
}

type Config struct {
	Session session.Session
	Mic     ChunkReader
	Speaker Player

	// Observer is optional; nil disables visualization.
	Observer Observer
	// Grabber is optional; nil means audio-only (mode "none").
	Grabber capture.Grabber

	// TextIn/TextOut default to stdin/stdout.
	TextIn  io.Reader
	TextOut io.Writer

	Logger zerolog.Logger
}

// Pipeline owns the queues and the gating flag, and supervises all loops.
type Pipeline struct {
	sess     session.Session
	mic      ChunkReader
	speaker  Player
	observer Observer
	grabber  capture.Grabber
	textIn   io.Reader
	textOut  io.Writer
	log      zerolog.Logger

	gate     *Gate
	outbound chan media.Frame
	playback chan playbackItem

	// turn is bumped when a response turn completes. The playback loop
	// drops buffers tagged with an older turn, so a buffer it pulled out
	// just as the drain ran still gets discarded.
	turn atomic.Uint64

	errMu sync.Mutex
	errs  []error
}

// playbackItem is one queued audio buffer, tagged with the response turn
// that produced it.
type playbackItem struct {
	turn uint64
	pcm  []byte
}

func New(cfg Config) *Pipeline {
	p := &Pipeline{
		sess:     cfg.Session,
		mic:      cfg.Mic,
		speaker:  cfg.Speaker,
		observer: cfg.Observer,
		grabber:  cfg.Grabber,
		textIn:   cfg.TextIn,
		textOut:  cfg.TextOut,
		log:      cfg.Logger,
		gate:     NewGate(),
		outbound: make(chan media.Frame, outboundCapacity),
		playback: make(chan playbackItem, playbackCapacity),
	}
	if p.textIn == nil {
		p.textIn = os.Stdin
	}
	if p.textOut == nil {
		p.textOut = os.Stdout
	}
	return p
}

// Run starts every loop and blocks until the user quits, the context is
// canceled, or any loop fails. The first failure cancels all siblings;
// blocking device and session calls are unblocked by closing their
// endpoints. All real errors, including those raised while closing, are
// reported together.
func (p *Pipeline) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	p.start(g, gctx, "dispatch", p.dispatchLoop)
	p.start(g, gctx, "microphone", p.micLoop)
	p.start(g, gctx, "receive", p.receiveLoop)
	p.start(g, gctx, "playback", p.playbackLoop)
	p.start(g, gctx, "text", p.textLoop)
	if p.grabber != nil {
		src := capture.NewSource(p.grabber, p.outbound, p.log)
		p.start(g, gctx, "video", src.Run)
	}

	// ReadChunk, Write and Receive block without a context. Closing their
	// endpoints once the group starts winding down is what unblocks them.
	closed := make(chan error, 1)
	go func() {
		<-gctx.Done()
		closed <- p.closeEndpoints()
	}()

	_ = g.Wait() // first error is in the collected set already
	closeErr := <-closed

	return multierr.Append(p.collectedErr(), closeErr)
}

func (p *Pipeline) start(g *errgroup.Group, ctx context.Context, name string, fn func(context.Context) error) {
	g.Go(func() error {
		err := fn(ctx)
		switch {
		case err == nil:
			p.log.Debug().Str("task", name).Msg("task ended")
		case errors.Is(err, ErrUserQuit):
			p.log.Info().Msg("exiting on user request")
		case errors.Is(err, context.Canceled):
		default:
			p.log.Error().Err(err).Str("task", name).Msg("task failed")
		}
		// Errors raised after cancellation are wind-down noise from
		// endpoints closed under the loops; only the causes count.
		if ctx.Err() == nil {
			p.record(err)
		}
		return err
	})
}

func (p *Pipeline) record(err error) {
	if err == nil {
		return
	}
	p.errMu.Lock()
	p.errs = append(p.errs, err)
	p.errMu.Unlock()
}

// collectedErr combines every real task failure, dropping the benign
// shutdown causes (user quit, cancellation fan-out).
func (p *Pipeline) collectedErr() error {
	p.errMu.Lock()
	defer p.errMu.Unlock()

	var combined error
	for _, err := range p.errs {
		if errors.Is(err, ErrUserQuit) || errors.Is(err, context.Canceled) {
			continue
		}
		combined = multierr.Append(combined, err)
	}
	return combined
}

func (p *Pipeline) closeEndpoints() error {
	var err error
	if p.sess != nil {
		err = multierr.Append(err, p.sess.Close())
	}
	if c, ok := p.mic.(io.Closer); ok {
		err = multierr.Append(err, c.Close())
	}
	if c, ok := p.speaker.(io.Closer); ok {
		err = multierr.Append(err, c.Close())
	}
	return err
}
