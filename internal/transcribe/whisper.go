package transcribe

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// Transcriber turns raw audio into best-effort plain text in the spoken
// language.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, format string) (string, error)
}

// WhisperTranscriber calls a Whisper model behind an OpenAI-compatible API.
// The model takes a filesystem path, so each call writes the payload to a
// scoped temporary file and removes it on every exit path.
type WhisperTranscriber struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

// Config for the Whisper adapter. BaseURL may point at a self-hosted
// Whisper server; Model defaults to whisper-1.
type Config struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// NewWhisperTranscriber constructs the adapter.
func NewWhisperTranscriber(cfg Config) *WhisperTranscriber {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if strings.TrimSpace(cfg.BaseURL) != "" {
		clientCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	model := cfg.Model
	if strings.TrimSpace(model) == "" {
		model = openai.Whisper1
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &WhisperTranscriber{
		client:  openai.NewClientWithConfig(clientCfg),
		model:   model,
		timeout: timeout,
	}
}

// Transcribe writes the audio to a temporary file, runs the model against
// that path with a bounded timeout, and guarantees the file is removed.
func (t *WhisperTranscriber) Transcribe(ctx context.Context, audio []byte, format string) (string, error) {
	path, err := writeTempAudio(audio, format)
	if err != nil {
		return "", err
	}
	defer os.Remove(path)

	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	resp, err := t.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    t.model,
		FilePath: path,
	})
	if err != nil {
		return "", fmt.Errorf("transcribe audio: %w", err)
	}
	return resp.Text, nil
}

func writeTempAudio(audio []byte, format string) (string, error) {
	format = strings.TrimPrefix(strings.TrimSpace(format), ".")
	if format == "" {
		format = "mp3"
	}
	tmp, err := os.CreateTemp("", "voice-*."+format)
	if err != nil {
		return "", fmt.Errorf("create temp audio: %w", err)
	}
	if _, err := tmp.Write(audio); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("write temp audio: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("close temp audio: %w", err)
	}
	return tmp.Name(), nil
}
