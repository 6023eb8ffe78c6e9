package audio

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-audio/wav"
	mp3 "github.com/hajimehoshi/go-mp3"
)

// Supported upload content types. Exactly two WAV and two MP3 variants.
var allowedFormats = map[string]bool{
	"audio/wav":   true,
	"audio/x-wav": true,
	"audio/mpeg":  true,
	"audio/mp3":   true,
}

const bytesPerMB = 1024 * 1024

// mp3 frames decode to 16-bit stereo samples, 4 bytes per sample pair.
const mp3BytesPerSample = 4

// Info is what validation learns about an accepted payload.
type Info struct {
	DurationSeconds float64
	SizeBytes       int64
}

// ValidationError marks a rejection caused by the client's input, as opposed
// to an infrastructure failure. The message is safe to return verbatim.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func invalid(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// Validator checks uploads against the configured audio policy.
type Validator struct {
	maxSizeMB          int
	maxDurationSeconds int
}

// NewValidator builds a validator from policy limits.
func NewValidator(maxSizeMB, maxDurationSeconds int) *Validator {
	return &Validator{
		maxSizeMB:          maxSizeMB,
		maxDurationSeconds: maxDurationSeconds,
	}
}

// Probe validates content type, size and decoded duration, in that order.
// The size check runs before any decode attempt. It reads the payload only;
// no shared state is touched.
func (v *Validator) Probe(contentType string, data []byte) (Info, error) {
	mediaType := normalizeContentType(contentType)
	if !allowedFormats[mediaType] {
		return Info{}, invalid("Invalid format. Supported: WAV, MP3. Got: %s", contentType)
	}

	size := int64(len(data))
	if size > int64(v.maxSizeMB)*bytesPerMB {
		return Info{}, invalid("File too large. Max: %dMB", v.maxSizeMB)
	}

	duration, err := decodeDuration(mediaType, data)
	if err != nil {
		return Info{}, invalid("Invalid audio file: %v", err)
	}
	if duration > float64(v.maxDurationSeconds) {
		return Info{}, invalid("Audio too long. Max: %ds", v.maxDurationSeconds)
	}

	return Info{DurationSeconds: duration, SizeBytes: size}, nil
}

func normalizeContentType(contentType string) string {
	mediaType, _, _ := strings.Cut(contentType, ";")
	return strings.ToLower(strings.TrimSpace(mediaType))
}

func decodeDuration(mediaType string, data []byte) (float64, error) {
	switch mediaType {
	case "audio/wav", "audio/x-wav":
		return wavDuration(data)
	default:
		return mp3Duration(data)
	}
}

func wavDuration(data []byte) (float64, error) {
	decoder := wav.NewDecoder(bytes.NewReader(data))
	d, err := decoder.Duration()
	if err != nil {
		return 0, fmt.Errorf("decode wav: %w", err)
	}
	return d.Seconds(), nil
}

func mp3Duration(data []byte) (float64, error) {
	decoder, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return 0, fmt.Errorf("decode mp3: %w", err)
	}
	length := decoder.Length()
	if length < 0 || decoder.SampleRate() <= 0 {
		return 0, fmt.Errorf("decode mp3: unknown stream length")
	}
	samples := length / mp3BytesPerSample
	return float64(samples) / float64(decoder.SampleRate()), nil
}
