// Package session abstracts the remote conversational model as an opaque
// bidirectional stream of framed messages.
package session

// Message is one response message from the model. A message may carry
// audio, text, both, or neither; TurnComplete marks the end of a response
// turn (including the turn the model abandons when interrupted).
type Message struct {
	Audio        []byte // raw PCM at the receive sample rate
	Text         string
	TurnComplete bool
}

// Session is a live bidirectional stream to the model.
//
// SendMedia streams one realtime media chunk (PCM audio or an encoded
// image). SendText submits a user text message and closes the user turn.
// Receive blocks for the next response message; it returns an error when
// the underlying stream ends. Close tears the stream down.
type Session interface {
	SendMedia(mime string, data []byte) error
	SendText(text string) error
	Receive() (Message, error)
	Close() error
}

// Config carries the session-open parameters.
type Config struct {
	Model         string
	SystemPrompt  string
	Voice         string
	TriggerTokens int32 // context-window compression trigger
	TargetTokens  int32 // sliding-window size after compression
}
