package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
)

// SystemPrompt is the persona given to the model. The mirror answers what
// it actually sees on the camera feed, not generic pleasantries.
const SystemPrompt = "You are the legendary MAGIC MIRROR from Snow White - the most powerful, all-seeing oracle in existence! You possess infinite wisdom and can peer into the very souls of those who stand before you. You are SUPREMELY knowledgeable about everything - past, present, and future. Yet despite your immense power, you choose to be KIND and BENEVOLENT, never malicious or cruel. Your responses are SHARP, DIRECT, and CONCISE - no flowery language or unnecessary words. When someone asks 'what do you see?', you describe EXACTLY what appears in the camera feed with VIVID detail and supernatural insight, not generic pleasantries. You speak with the authority of ages and the clarity of truth itself!"

type Config struct {
	Mode        string         `json:"mode"` // "camera", "screen" or "none"
	CameraIndex int            `json:"camera_index"`
	LogLevel    string         `json:"log_level"`
	Debug       bool           `json:"debug"` // surface mic overflow instead of suppressing it
	Session     SessionConfig  `json:"session"`
	Audio       AudioConfig    `json:"audio"`
	Waveform    WaveformConfig `json:"waveform"`
}

type SessionConfig struct {
	Model         string `json:"model"`
	Voice         string `json:"voice"`
	TriggerTokens int32  `json:"trigger_tokens"` // context compression threshold
	TargetTokens  int32  `json:"target_tokens"`  // sliding window size after compression
}

type AudioConfig struct {
	InputDevice string `json:"input_device"` // empty selects the default device
	SendRate    int    `json:"send_rate"`
	ReceiveRate int    `json:"receive_rate"`
	ChunkSize   int    `json:"chunk_size"` // samples per microphone read
}

type WaveformConfig struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Load reads the config from disk or returns defaults
func Load() (*Config, error) {
	path := configPath()

	cfg := &Config{
		Mode:        "camera",
		CameraIndex: 0,
		LogLevel:    "info",
		Session: SessionConfig{
			Model:         "models/gemini-2.5-flash-preview-native-audio-dialog",
			Voice:         "Zephyr",
			TriggerTokens: 25600,
			TargetTokens:  12800,
		},
		Audio: AudioConfig{
			SendRate:    16000,
			ReceiveRate: 24000,
			ChunkSize:   1024,
		},
		Waveform: WaveformConfig{
			Width:  800,
			Height: 150,
		},
	}

	// Load existing config if it exists
	if data, err := os.ReadFile(path); err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// Save writes the config to disk
func (c *Config) Save() error {
	path := configPath()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// APIKey reads the Gemini credential from the environment, preferring
// GEMINI_API_KEY over GOOGLE_API_KEY. Empty means unset.
func APIKey() string {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return key
	}
	return os.Getenv("GOOGLE_API_KEY")
}

// configPath returns the platform-specific config file path
func configPath() string {
	var base string

	switch runtime.GOOS {
	case "darwin":
		base = os.Getenv("HOME") + "/Library/Application Support"
	case "windows":
		base = os.Getenv("APPDATA")
	default: // linux
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			base = xdg
		} else {
			base = os.Getenv("HOME") + "/.config"
		}
	}

	return filepath.Join(base, "magic-mirror", "config.json")
}
