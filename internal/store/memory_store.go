package store

import (
	"fmt"
	"sync"

	"voxmaati/pkg/domain"
)

// MemoryStore keeps records in-process. It backs tests and local runs that
// have no database.
type MemoryStore struct {
	mu             sync.RWMutex
	audioFiles     map[string]domain.AudioFile
	transcriptions map[string]domain.Transcription
	issues         map[string]domain.Issue
}

// NewMemoryStore initializes an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		audioFiles:     make(map[string]domain.AudioFile),
		transcriptions: make(map[string]domain.Transcription),
		issues:         make(map[string]domain.Issue),
	}
}

// CreateVoiceReport stores all three records, or none on conflict.
func (m *MemoryStore) CreateVoiceReport(audio domain.AudioFile, transcription domain.Transcription, issue domain.Issue) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.audioFiles[audio.ID]; exists {
		return fmt.Errorf("audio file %s already exists", audio.ID)
	}
	if _, exists := m.transcriptions[transcription.ID]; exists {
		return fmt.Errorf("transcription %s already exists", transcription.ID)
	}
	if _, exists := m.issues[issue.ID]; exists {
		return fmt.Errorf("issue %s already exists", issue.ID)
	}
	m.audioFiles[audio.ID] = audio
	m.transcriptions[transcription.ID] = transcription
	m.issues[issue.ID] = issue
	return nil
}

func (m *MemoryStore) GetAudioFile(id string) (domain.AudioFile, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.audioFiles[id]
	return a, ok, nil
}

func (m *MemoryStore) GetTranscription(id string) (domain.Transcription, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.transcriptions[id]
	return t, ok, nil
}

func (m *MemoryStore) GetIssue(id string) (domain.Issue, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	i, ok := m.issues[id]
	return i, ok, nil
}

func (m *MemoryStore) CountAudioFiles() (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.audioFiles)), nil
}

// ListIssues snapshots all stored issues, in no particular order.
func (m *MemoryStore) ListIssues() []domain.Issue {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.Issue, 0, len(m.issues))
	for _, i := range m.issues {
		out = append(out, i)
	}
	return out
}

// ListTranscriptions snapshots all stored transcriptions.
func (m *MemoryStore) ListTranscriptions() []domain.Transcription {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.Transcription, 0, len(m.transcriptions))
	for _, tr := range m.transcriptions {
		out = append(out, tr)
	}
	return out
}
