package app

import "errors"

// Kind is the closed set of pipeline failure categories. The HTTP boundary
// maps kinds to status codes; nothing below it inspects error strings.
type Kind string

const (
	KindValidation    Kind = "validation_failed"
	KindStorage       Kind = "storage_unavailable"
	KindTranscription Kind = "transcription_failed"
	KindTranslation   Kind = "translation_failed"
	KindPersistence   Kind = "persistence_failed"
)

// Error wraps a stage failure with its kind.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// E tags err with a kind.
func E(kind Kind, err error) error {
	return &Error{Kind: kind, Err: err}
}

// KindOf extracts the failure kind, if err came from the pipeline.
func KindOf(err error) (Kind, bool) {
	var pipelineErr *Error
	if errors.As(err, &pipelineErr) {
		return pipelineErr.Kind, true
	}
	return "", false
}
