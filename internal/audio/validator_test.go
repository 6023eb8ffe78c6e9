package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"strings"
	"testing"
)

// wavBytes produces a valid mono 16-bit PCM WAV clip of the given duration.
func wavBytes(t *testing.T, seconds float64, sampleRate int) []byte {
	t.Helper()
	numSamples := int(seconds * float64(sampleRate))
	dataLen := numSamples * 2

	var buf bytes.Buffer
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+dataLen))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // mono
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate*2)) // byte rate
	binary.Write(&buf, binary.LittleEndian, uint16(2))            // block align
	binary.Write(&buf, binary.LittleEndian, uint16(16))           // bits per sample
	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(dataLen))
	buf.Write(make([]byte, dataLen))
	return buf.Bytes()
}

func TestProbeAcceptsSupportedWAVTypes(t *testing.T) {
	v := NewValidator(10, 120)
	payload := wavBytes(t, 2, 8000)

	for _, contentType := range []string{"audio/wav", "audio/x-wav"} {
		info, err := v.Probe(contentType, payload)
		if err != nil {
			t.Fatalf("Probe(%q) failed: %v", contentType, err)
		}
		if info.SizeBytes != int64(len(payload)) {
			t.Fatalf("size = %d, want %d", info.SizeBytes, len(payload))
		}
		if math.Abs(info.DurationSeconds-2) > 0.1 {
			t.Fatalf("duration = %f, want ~2.0", info.DurationSeconds)
		}
	}
}

func TestProbeMP3TypesReachDecodeStage(t *testing.T) {
	// Garbage bytes under both MP3 labels must get past the format and size
	// checks and fail only at decode, as a client error.
	v := NewValidator(10, 120)
	for _, contentType := range []string{"audio/mpeg", "audio/mp3"} {
		_, err := v.Probe(contentType, []byte("definitely not an mp3"))
		if err == nil {
			t.Fatalf("Probe(%q) accepted garbage", contentType)
		}
		if !strings.Contains(err.Error(), "Invalid audio file") {
			t.Fatalf("Probe(%q) error = %q, want decode rejection", contentType, err)
		}
	}
}

func TestProbeRejectsUnsupportedType(t *testing.T) {
	v := NewValidator(10, 120)
	_, err := v.Probe("application/octet-stream", wavBytes(t, 2, 8000))
	if err == nil {
		t.Fatal("expected rejection for unsupported content type")
	}
	if !strings.Contains(err.Error(), "Invalid format") {
		t.Fatalf("error = %q, want format rejection", err)
	}
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("error type = %T, want *ValidationError", err)
	}
}

func TestProbeSizeCheckPrecedesDecode(t *testing.T) {
	// 11MB of noise: if size were checked after decode this would fail with
	// a decode error instead of the size message.
	v := NewValidator(10, 120)
	payload := make([]byte, 11<<20)
	_, err := v.Probe("audio/wav", payload)
	if err == nil {
		t.Fatal("expected oversize rejection")
	}
	if !strings.Contains(err.Error(), "too large") {
		t.Fatalf("error = %q, want size rejection before decode", err)
	}
}

func TestProbeRejectsOverDuration(t *testing.T) {
	v := NewValidator(10, 120)
	_, err := v.Probe("audio/wav", wavBytes(t, 130, 8000))
	if err == nil {
		t.Fatal("expected over-duration rejection")
	}
	if !strings.Contains(err.Error(), "too long") {
		t.Fatalf("error = %q, want duration rejection", err)
	}
}

func TestProbeRejectsCorruptWAV(t *testing.T) {
	v := NewValidator(10, 120)
	_, err := v.Probe("audio/wav", []byte("RIFFgarbage"))
	if err == nil {
		t.Fatal("expected decode rejection")
	}
	if !strings.Contains(err.Error(), "Invalid audio file") {
		t.Fatalf("error = %q, want decode rejection", err)
	}
}

func TestProbeDurationAccuracy(t *testing.T) {
	v := NewValidator(10, 120)
	payload := wavBytes(t, 5, 8000)
	info, err := v.Probe("audio/wav", payload)
	if err != nil {
		t.Fatalf("Probe failed: %v", err)
	}
	if math.Abs(info.DurationSeconds-5) > 0.1 {
		t.Fatalf("duration = %f, want ~5.0", info.DurationSeconds)
	}
	if info.SizeBytes != int64(len(payload)) {
		t.Fatalf("size = %d, want %d", info.SizeBytes, len(payload))
	}
}
