package store

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"voxmaati/pkg/domain"
)

// GormStore implements Store using GORM.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore opens a Postgres connection and runs auto-migrations.
func NewGormStore(dsn string) (*GormStore, error) {
	return NewStore(postgres.Open(dsn))
}

// NewStore opens the given dialector and runs auto-migrations. Tests use it
// with an in-memory sqlite dialector.
func NewStore(dialector gorm.Dialector) (*GormStore, error) {
	gormLog := gormlogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormLog})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.AutoMigrate(&AudioFileModel{}, &TranscriptionModel{}, &IssueModel{}); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	return &GormStore{db: db}, nil
}

// CreateVoiceReport writes all three rows of a voice upload in one
// transaction. The transaction rolls back on any failure so no partial
// report ever persists.
func (s *GormStore) CreateVoiceReport(audio domain.AudioFile, transcription domain.Transcription, issue domain.Issue) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		audioModel := audioFileToModel(audio)
		if err := tx.Create(&audioModel).Error; err != nil {
			return fmt.Errorf("create audio file: %w", err)
		}
		transcriptionModel := transcriptionToModel(transcription)
		if err := tx.Create(&transcriptionModel).Error; err != nil {
			return fmt.Errorf("create transcription: %w", err)
		}
		issueModel := issueToModel(issue)
		if err := tx.Create(&issueModel).Error; err != nil {
			return fmt.Errorf("create issue: %w", err)
		}
		return nil
	})
}

// GetAudioFile retrieves one audio file record.
func (s *GormStore) GetAudioFile(id string) (domain.AudioFile, bool, error) {
	var model AudioFileModel
	if err := s.db.First(&model, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return domain.AudioFile{}, false, nil
		}
		return domain.AudioFile{}, false, err
	}
	return audioFileFromModel(model), true, nil
}

// GetTranscription retrieves one transcription record.
func (s *GormStore) GetTranscription(id string) (domain.Transcription, bool, error) {
	var model TranscriptionModel
	if err := s.db.First(&model, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return domain.Transcription{}, false, nil
		}
		return domain.Transcription{}, false, err
	}
	return transcriptionFromModel(model), true, nil
}

// GetIssue retrieves one issue record.
func (s *GormStore) GetIssue(id string) (domain.Issue, bool, error) {
	var model IssueModel
	if err := s.db.First(&model, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return domain.Issue{}, false, nil
		}
		return domain.Issue{}, false, err
	}
	return issueFromModel(model), true, nil
}

// CountAudioFiles returns the number of stored audio file records.
func (s *GormStore) CountAudioFiles() (int64, error) {
	var count int64
	if err := s.db.Model(&AudioFileModel{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func audioFileToModel(a domain.AudioFile) AudioFileModel {
	return AudioFileModel{
		ID:              a.ID,
		UserID:          a.UserID,
		Filename:        a.Filename,
		StorageURI:      a.StorageURI,
		FileFormat:      a.Format,
		DurationSeconds: a.DurationSeconds,
		FileSizeBytes:   a.SizeBytes,
		UploadedAt:      a.UploadedAt,
	}
}

func audioFileFromModel(m AudioFileModel) domain.AudioFile {
	return domain.AudioFile{
		ID:              m.ID,
		UserID:          m.UserID,
		Filename:        m.Filename,
		StorageURI:      m.StorageURI,
		Format:          m.FileFormat,
		DurationSeconds: m.DurationSeconds,
		SizeBytes:       m.FileSizeBytes,
		UploadedAt:      m.UploadedAt,
	}
}

func transcriptionToModel(t domain.Transcription) TranscriptionModel {
	return TranscriptionModel{
		ID:                  t.ID,
		AudioFileID:         t.AudioFileID,
		OriginalLanguage:    t.SourceLanguage,
		OriginalText:        t.Text,
		EnglishTranslation:  t.TranslationEN,
		ConfidenceScore:     t.Confidence,
		TranscriptionStatus: string(t.Status),
		RetryCount:          t.RetryCount,
		IsUserEdited:        t.UserEdited,
		ErrorMessage:        t.ErrorMessage,
		CreatedAt:           t.CreatedAt,
		UpdatedAt:           t.UpdatedAt,
	}
}

func transcriptionFromModel(m TranscriptionModel) domain.Transcription {
	return domain.Transcription{
		ID:             m.ID,
		AudioFileID:    m.AudioFileID,
		SourceLanguage: m.OriginalLanguage,
		Text:           m.OriginalText,
		TranslationEN:  m.EnglishTranslation,
		Confidence:     m.ConfidenceScore,
		Status:         domain.TranscriptionStatus(m.TranscriptionStatus),
		RetryCount:     m.RetryCount,
		UserEdited:     m.IsUserEdited,
		ErrorMessage:   m.ErrorMessage,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func issueToModel(i domain.Issue) IssueModel {
	return IssueModel{
		ID:              i.ID,
		UserID:          i.UserID,
		Title:           i.Title,
		Description:     i.Description,
		Category:        i.Category,
		Location:        i.Location,
		Status:          string(i.Status),
		AudioFileID:     i.AudioFileID,
		TranscriptionID: i.TranscriptionID,
		IsVoiceReport:   i.VoiceReport,
		CreatedAt:       i.CreatedAt,
		UpdatedAt:       i.UpdatedAt,
	}
}

func issueFromModel(m IssueModel) domain.Issue {
	return domain.Issue{
		ID:              m.ID,
		UserID:          m.UserID,
		Title:           m.Title,
		Description:     m.Description,
		Category:        m.Category,
		Location:        m.Location,
		Status:          domain.IssueStatus(m.Status),
		AudioFileID:     m.AudioFileID,
		TranscriptionID: m.TranscriptionID,
		VoiceReport:     m.IsVoiceReport,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}
