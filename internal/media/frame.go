package media

// Kind discriminates the payload carried by a Frame.
type Kind int

const (
	KindImage Kind = iota
	KindAudio
	KindText
)

// Frame is one unit of media or text moving through the pipeline.
// Exactly one payload field is meaningful, selected by Kind.
// Frames are not mutated after construction.
type Frame struct {
	Kind Kind

	// MIME and Data are set for image frames (encoded image bytes).
	// Data alone is set for audio frames (raw little-endian 16-bit PCM).
	MIME string
	Data []byte

	// Text is set for text frames.
	Text string
}

// ImageFrame wraps an encoded image and its MIME type.
func ImageFrame(mime string, data []byte) Frame {
	return Frame{Kind: KindImage, MIME: mime, Data: data}
}

// AudioFrame wraps one chunk of raw PCM.
func AudioFrame(pcm []byte) Frame {
	return Frame{Kind: KindAudio, Data: pcm}
}

// TextFrame wraps a user text message.
func TextFrame(s string) Frame {
	return Frame{Kind: KindText, Text: s}
}
