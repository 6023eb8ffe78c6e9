package domain

import "time"

type TranscriptionStatus string

const (
	TranscriptionProcessing TranscriptionStatus = "processing"
	TranscriptionCompleted  TranscriptionStatus = "completed"
	TranscriptionFailed     TranscriptionStatus = "failed"
)

type IssueStatus string

const (
	IssueOpen IssueStatus = "open"
)

// AudioFile is a stored voice recording. Duration and size are fixed at
// creation time and never mutated afterwards.
type AudioFile struct {
	ID              string    `json:"id"`
	UserID          string    `json:"userId"`
	Filename        string    `json:"filename"`
	StorageURI      string    `json:"storageUri"`
	Format          string    `json:"format"`
	DurationSeconds float64   `json:"durationSeconds"`
	SizeBytes       int64     `json:"sizeBytes"`
	UploadedAt      time.Time `json:"uploadedAt"`
}

// Transcription is the speech-to-text and translation result for exactly
// one AudioFile.
type Transcription struct {
	ID             string              `json:"id"`
	AudioFileID    string              `json:"audioFileId"`
	SourceLanguage string              `json:"sourceLanguage"`
	Text           string              `json:"text"`
	TranslationEN  string              `json:"translationEn"`
	Confidence     float64             `json:"confidence"`
	Status         TranscriptionStatus `json:"status"`
	RetryCount     int                 `json:"retryCount"`
	UserEdited     bool                `json:"userEdited"`
	ErrorMessage   string              `json:"errorMessage,omitempty"`
	CreatedAt      time.Time           `json:"createdAt"`
	UpdatedAt      time.Time           `json:"updatedAt"`
}

// Issue is a public civic report. A voice report always references the
// AudioFile and Transcription it originated from.
type Issue struct {
	ID              string      `json:"id"`
	UserID          string      `json:"userId"`
	Title           string      `json:"title"`
	Description     string      `json:"description"`
	Category        string      `json:"category"`
	Location        string      `json:"location"`
	Status          IssueStatus `json:"status"`
	AudioFileID     *string     `json:"audioFileId,omitempty"`
	TranscriptionID *string     `json:"transcriptionId,omitempty"`
	VoiceReport     bool        `json:"isVoiceReport"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}
