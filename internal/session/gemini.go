package session

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// geminiSession adapts the Gemini Live API to the Session interface.
// The SDK owns the websocket; base64 framing of media happens inside its
// wire marshalling, so callers hand over raw bytes.
type geminiSession struct {
	live *genai.Session
}

// Connect opens a Gemini Live session with the configured persona, voice
// and context-window compression.
func Connect(ctx context.Context, apiKey string, cfg Config) (Session, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1beta"},
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	connectCfg := &genai.LiveConnectConfig{
		ResponseModalities: []genai.Modality{genai.ModalityAudio},
		MediaResolution:    genai.MediaResolutionMedium,
	}
	if cfg.SystemPrompt != "" {
		connectCfg.SystemInstruction = genai.NewContentFromText(cfg.SystemPrompt, genai.RoleUser)
	}
	if cfg.Voice != "" {
		connectCfg.SpeechConfig = &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: cfg.Voice},
			},
		}
	}
	if cfg.TriggerTokens > 0 {
		connectCfg.ContextWindowCompression = &genai.ContextWindowCompressionConfig{
			TriggerTokens: genai.Ptr(int64(cfg.TriggerTokens)),
			SlidingWindow: &genai.SlidingWindow{TargetTokens: genai.Ptr(int64(cfg.TargetTokens))},
		}
	}

	live, err := client.Live.Connect(ctx, cfg.Model, connectCfg)
	if err != nil {
		return nil, fmt.Errorf("connect live session: %w", err)
	}

	return &geminiSession{live: live}, nil
}

func (s *geminiSession) SendMedia(mime string, data []byte) error {
	err := s.live.SendRealtimeInput(genai.LiveRealtimeInput{
		Media: &genai.Blob{MIMEType: mime, Data: data},
	})
	if err != nil {
		return fmt.Errorf("send %s: %w", mime, err)
	}
	return nil
}

func (s *geminiSession) SendText(text string) error {
	err := s.live.SendClientContent(genai.LiveClientContentInput{
		Turns:        []*genai.Content{genai.NewContentFromText(text, genai.RoleUser)},
		TurnComplete: genai.Ptr(true),
	})
	if err != nil {
		return fmt.Errorf("send text: %w", err)
	}
	return nil
}

func (s *geminiSession) Receive() (Message, error) {
	resp, err := s.live.Receive()
	if err != nil {
		return Message{}, fmt.Errorf("receive: %w", err)
	}

	var msg Message
	if sc := resp.ServerContent; sc != nil {
		msg.TurnComplete = sc.TurnComplete
		if sc.ModelTurn != nil {
			for _, part := range sc.ModelTurn.Parts {
				if part == nil {
					continue
				}
				if part.InlineData != nil && len(part.InlineData.Data) > 0 {
					msg.Audio = append(msg.Audio, part.InlineData.Data...)
				}
				if part.Text != "" {
					msg.Text += part.Text
				}
			}
		}
	}
	return msg, nil
}

func (s *geminiSession) Close() error {
	return s.live.Close()
}
