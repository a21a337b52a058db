package pipeline

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/Gurgeron/MagicMirror-Gemini/internal/media"
)

// micLoop reads one chunk per iteration, applies the gating substitution
// and enqueues an audio frame. A read failure ends the pipeline: the
// microphone is the primary input and there is nothing to fall back to.
func (p *Pipeline) micLoop(ctx context.Context) error {
	for {
		chunk, err := p.mic.ReadChunk()
		if err != nil {
			return fmt.Errorf("microphone: %w", err)
		}

		// Half-duplex gating: while the model speaks, substitute silence
		// of identical length. The stream stays continuous, the model
		// just never hears itself.
		if p.gate.Speaking() {
			chunk = media.Silence(len(chunk))
		}

		select {
		case p.outbound <- media.AudioFrame(chunk):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// dispatchLoop forwards exactly one frame per iteration to the session,
// in arrival order. A rejected send is fatal: these are real-time frames
// and a retry would only deliver them stale.
func (p *Pipeline) dispatchLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case frame := <-p.outbound:
			if err := p.forward(frame); err != nil {
				return err
			}
		}
	}
}

func (p *Pipeline) forward(frame media.Frame) error {
	switch frame.Kind {
	case media.KindAudio:
		return p.sess.SendMedia("audio/pcm", frame.Data)
	case media.KindImage:
		return p.sess.SendMedia(frame.MIME, frame.Data)
	case media.KindText:
		return p.sess.SendText(frame.Text)
	default:
		return fmt.Errorf("unknown frame kind %d", frame.Kind)
	}
}

// receiveLoop consumes the model's response stream. The first audio
// payload of a turn raises the gate; text is printed and has no gating
// effect. Turn completion clears the gate and then discards any audio
// still queued, so a barge-in does not keep hearing stale model speech.
func (p *Pipeline) receiveLoop(ctx context.Context) error {
	firstAudio := true
	for {
		msg, err := p.sess.Receive()
		if err != nil {
			return fmt.Errorf("session: %w", err)
		}

		if len(msg.Audio) > 0 {
			if firstAudio {
				p.gate.SetSpeaking()
				firstAudio = false
			}
			select {
			case p.playback <- playbackItem{turn: p.turn.Load(), pcm: msg.Audio}:
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		if msg.Text != "" {
			fmt.Fprint(p.textOut, msg.Text)
		}

		if msg.TurnComplete {
			p.gate.ClearSpeaking()
			p.turn.Add(1)
			p.drainPlayback()
			firstAudio = true
		}
	}
}

// drainPlayback discards everything currently queued without blocking.
func (p *Pipeline) drainPlayback() {
	for {
		select {
		case <-p.playback:
		default:
			return
		}
	}
}

// playbackLoop plays buffers strictly one at a time, feeding each to the
// waveform observer before the blocking device write. A buffer pulled out
// of the queue concurrently with the turn-complete drain carries the old
// turn tag and is dropped instead of played.
func (p *Pipeline) playbackLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case item := <-p.playback:
			if item.turn != p.turn.Load() {
				continue
			}
			if p.observer != nil {
				p.observer.Observe(item.pcm)
			}
			if err := p.speaker.Write(item.pcm); err != nil {
				return fmt.Errorf("playback: %w", err)
			}
		}
	}
}

// textLoop reads user messages from the terminal. "q" quits cleanly; an
// empty line is sent as "." so the turn still advances. The scanner runs
// on its own goroutine because terminal reads cannot be interrupted; it
// is abandoned at shutdown.
func (p *Pipeline) textLoop(ctx context.Context) error {
	lines := make(chan string)
	scanDone := make(chan error, 1)

	go func() {
		sc := bufio.NewScanner(p.textIn)
		for {
			fmt.Fprint(p.textOut, "message > ")
			if !sc.Scan() {
				scanDone <- sc.Err()
				return
			}
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-scanDone:
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			// EOF on stdin is a quit, same as "q".
			return ErrUserQuit
		case line := <-lines:
			if strings.EqualFold(strings.TrimSpace(line), "q") {
				return ErrUserQuit
			}
			if line == "" {
				line = "."
			}
			select {
			case p.outbound <- media.TextFrame(line):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}
