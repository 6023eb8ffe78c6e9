package app

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"voxmaati/internal/audio"
	"voxmaati/internal/storage"
	"voxmaati/internal/store"
	"voxmaati/internal/transcribe"
	"voxmaati/internal/translate"
	"voxmaati/internal/util"
	"voxmaati/pkg/domain"
)

const defaultFormat = "mp3"

// UploadRequest carries one voice report through the pipeline.
type UploadRequest struct {
	Filename    string
	ContentType string
	Data        []byte
	Category    string
	Location    string
}

// UploadResult is the successful response payload. Wire names follow the
// original client contract.
type UploadResult struct {
	AudioID         string  `json:"audio_id"`
	Filename        string  `json:"filename"`
	StorageURI      string  `json:"gcs_uri"`
	DurationSeconds float64 `json:"duration_seconds"`
	FileSizeBytes   int64   `json:"file_size_bytes"`
	Category        string  `json:"category"`
	Location        string  `json:"location"`
	UploadedAt      string  `json:"uploaded_at"`
	Transcription   string  `json:"transcription"`
	TranslationEN   string  `json:"translation_en"`
}

// Config holds runtime configuration and injected collaborators.
type Config struct {
	DatabaseURL             string
	Store                   store.Store
	Objects                 storage.ObjectStore
	Transcriber             transcribe.Transcriber
	Translator              translate.Translator
	MaxAudioSizeMB          int
	MaxAudioDurationSeconds int
}

// App runs the voice ingestion pipeline:
// validate -> upload -> transcribe -> translate -> persist.
type App struct {
	validator   *audio.Validator
	store       store.Store
	objects     storage.ObjectStore
	transcriber transcribe.Transcriber
	translator  translate.Translator
}

// New constructs the pipeline with persistence.
func New(cfg Config) (*App, error) {
	dataStore := cfg.Store
	if dataStore == nil {
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("database URL required")
		}
		var err error
		dataStore, err = store.NewGormStore(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("init postgres store: %w", err)
		}
	}
	if cfg.Objects == nil {
		return nil, fmt.Errorf("object store required")
	}
	if cfg.Transcriber == nil {
		return nil, fmt.Errorf("transcriber required")
	}
	if cfg.Translator == nil {
		return nil, fmt.Errorf("translator required")
	}
	if cfg.MaxAudioSizeMB <= 0 || cfg.MaxAudioDurationSeconds <= 0 {
		return nil, fmt.Errorf("audio policy limits must be positive")
	}
	return &App{
		validator:   audio.NewValidator(cfg.MaxAudioSizeMB, cfg.MaxAudioDurationSeconds),
		store:       dataStore,
		objects:     cfg.Objects,
		transcriber: cfg.Transcriber,
		translator:  cfg.Translator,
	}, nil
}

// ProcessVoiceUpload runs all five stages in order. Any stage failure aborts
// the request; failures after the upload stage trigger a best-effort delete
// of the stored object so no orphan outlives a failed request.
func (a *App) ProcessVoiceUpload(ctx context.Context, req UploadRequest) (UploadResult, error) {
	info, err := a.validator.Probe(req.ContentType, req.Data)
	if err != nil {
		return UploadResult{}, E(KindValidation, err)
	}

	now := time.Now().UTC()
	format := fileFormat(req.Filename)
	storedName, key := buildObjectKey(now, format)

	uri, err := a.objects.Upload(ctx, key, req.Data, req.ContentType)
	if err != nil {
		return UploadResult{}, E(KindStorage, err)
	}

	transcript, err := a.transcriber.Transcribe(ctx, req.Data, format)
	if err != nil {
		a.compensate(ctx, uri)
		return UploadResult{}, E(KindTranscription, err)
	}

	translation, err := a.translator.Translate(ctx, transcript)
	if err != nil {
		a.compensate(ctx, uri)
		return UploadResult{}, E(KindTranslation, err)
	}

	// TODO: derive the owner from authenticated identity once the auth
	// service lands; reports are currently anonymous.
	userID := uuid.NewString()
	audioFile := domain.AudioFile{
		ID:              uuid.NewString(),
		UserID:          userID,
		Filename:        storedName,
		StorageURI:      uri,
		Format:          format,
		DurationSeconds: info.DurationSeconds,
		SizeBytes:       info.SizeBytes,
		UploadedAt:      now,
	}
	transcription := domain.Transcription{
		ID:             uuid.NewString(),
		AudioFileID:    audioFile.ID,
		SourceLanguage: translation.DetectedLang,
		Text:           transcript,
		TranslationEN:  translation.Text,
		Confidence:     translation.LangConfidence,
		Status:         domain.TranscriptionCompleted,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	issue := domain.Issue{
		ID:              uuid.NewString(),
		UserID:          userID,
		Title:           issueTitle(translation.Text),
		Description:     translation.Text,
		Category:        req.Category,
		Location:        req.Location,
		Status:          domain.IssueOpen,
		AudioFileID:     &audioFile.ID,
		TranscriptionID: &transcription.ID,
		VoiceReport:     true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := a.store.CreateVoiceReport(audioFile, transcription, issue); err != nil {
		a.compensate(ctx, uri)
		return UploadResult{}, E(KindPersistence, err)
	}

	return UploadResult{
		AudioID:         audioFile.ID,
		Filename:        storedName,
		StorageURI:      uri,
		DurationSeconds: info.DurationSeconds,
		FileSizeBytes:   info.SizeBytes,
		Category:        req.Category,
		Location:        req.Location,
		UploadedAt:      now.Format(time.RFC3339),
		Transcription:   transcript,
		TranslationEN:   translation.Text,
	}, nil
}

// compensate removes an already-uploaded object after a later stage failed.
// Best-effort: a failed delete is logged, never surfaced.
func (a *App) compensate(ctx context.Context, uri string) {
	if err := a.objects.Delete(ctx, uri); err != nil {
		util.LoggerFromContext(ctx).Warn("orphaned object cleanup failed", "uri", uri, "err", err)
	}
}

// buildObjectKey returns the stored filename and the dated storage key.
// The prefix is deterministic for a given timestamp; the uuid suffix is
// regenerated per call so concurrent uploads never collide.
func buildObjectKey(now time.Time, format string) (storedName, key string) {
	suffix := uuid.NewString()[:8]
	storedName = fmt.Sprintf("%s_%s.%s", now.Format("20060102_150405"), suffix, format)
	key = fmt.Sprintf("audio/%s/%s", now.Format("20060102"), storedName)
	return storedName, key
}

func fileFormat(filename string) string {
	ext := strings.TrimPrefix(path.Ext(filename), ".")
	if ext == "" {
		return defaultFormat
	}
	return strings.ToLower(ext)
}

func issueTitle(translation string) string {
	title := strings.TrimSpace(translation)
	if title == "" {
		return "Voice report"
	}
	const maxTitle = 80
	runes := []rune(title)
	if len(runes) > maxTitle {
		return string(runes[:maxTitle])
	}
	return title
}
