package models

import "errors"

// ErrorKind classifies a pipeline failure.
type ErrorKind string

const (
	KindValidation    ErrorKind = "validation"
	KindOCRProcessing ErrorKind = "ocr_processing"
	KindTransport     ErrorKind = "transport"
	KindProvider      ErrorKind = "provider"
	KindAnalysis      ErrorKind = "analysis"
)

// StageError is returned by the extraction and analysis stages. Error returns
// the message that is reported to clients as details.
type StageError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *StageError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return string(e.Kind)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// NewStageError builds a StageError whose message defaults to the cause.
func NewStageError(kind ErrorKind, message string, cause error) *StageError {
	if message == "" && cause != nil {
		message = cause.Error()
	}
	return &StageError{Kind: kind, Message: message, Err: cause}
}

// KindOf reports the kind of the first StageError in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var se *StageError
	if errors.As(err, &se) {
		return se.Kind, true
	}
	return "", false
}
