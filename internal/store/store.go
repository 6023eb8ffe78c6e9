package store

import "voxmaati/pkg/domain"

// Store owns the lifecycle of audio files, transcriptions and issues.
type Store interface {
	// CreateVoiceReport persists the three records of one successful voice
	// upload atomically. Either all rows exist afterwards or none do.
	CreateVoiceReport(audio domain.AudioFile, transcription domain.Transcription, issue domain.Issue) error
	GetAudioFile(id string) (domain.AudioFile, bool, error)
	GetTranscription(id string) (domain.Transcription, bool, error)
	GetIssue(id string) (domain.Issue, bool, error)
	CountAudioFiles() (int64, error)
}
