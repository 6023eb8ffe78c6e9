package store

import "time"

// GORM models used for persistence. The association fields exist so
// AutoMigrate emits real foreign key constraints; they are never populated
// on writes.
type AudioFileModel struct {
	ID              string `gorm:"primaryKey"`
	UserID          string `gorm:"not null;index"`
	Filename        string `gorm:"size:255;not null"`
	StorageURI      string `gorm:"type:text;not null"`
	FileFormat      string `gorm:"size:10"`
	DurationSeconds float64
	FileSizeBytes   int64
	UploadedAt      time.Time `gorm:"not null"`
}

func (AudioFileModel) TableName() string { return "audio_files" }

type TranscriptionModel struct {
	ID                  string          `gorm:"primaryKey"`
	AudioFileID         string          `gorm:"not null;index"`
	AudioFile           *AudioFileModel `gorm:"foreignKey:AudioFileID"`
	OriginalLanguage    string          `gorm:"size:10"`
	OriginalText        string          `gorm:"type:text"`
	EnglishTranslation  string          `gorm:"type:text"`
	ConfidenceScore     float64
	TranscriptionStatus string `gorm:"size:20;index"`
	RetryCount          int
	IsUserEdited        bool
	ErrorMessage        string    `gorm:"type:text"`
	CreatedAt           time.Time `gorm:"not null"`
	UpdatedAt           time.Time `gorm:"not null"`
}

func (TranscriptionModel) TableName() string { return "transcriptions" }

type IssueModel struct {
	ID              string              `gorm:"primaryKey"`
	UserID          string              `gorm:"not null;index"`
	Title           string              `gorm:"size:255"`
	Description     string              `gorm:"type:text"`
	Category        string              `gorm:"size:50;index"`
	Location        string              `gorm:"size:255"`
	Status          string              `gorm:"size:20;index"`
	AudioFileID     *string             `gorm:"index"`
	AudioFile       *AudioFileModel     `gorm:"foreignKey:AudioFileID"`
	TranscriptionID *string             `gorm:"index"`
	Transcription   *TranscriptionModel `gorm:"foreignKey:TranscriptionID"`
	IsVoiceReport   bool                `gorm:"index"`
	CreatedAt       time.Time           `gorm:"not null;index"`
	UpdatedAt       time.Time           `gorm:"not null"`
}

func (IssueModel) TableName() string { return "issues" }
