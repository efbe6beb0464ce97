package core

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrDuplicateUpload is returned when the same document is relayed to the same target twice within the de-dup window.
var ErrDuplicateUpload = errors.New("this file has already been sent to this topic")

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		if len(err.Fields) > 0 {
			return err.Fields[0].Field + ": " + err.Fields[0].Error
		}
		return ""
	}
	return err.Err.Error()
}

func (err ValidationError) Unwrap() error {
	return err.Err
}

// Resolution kinds.
const (
	UnknownStage    = "unknown stage"
	RoutingNotFound = "routing not found"
	NoSpreadsheet   = "no spreadsheet configured"
)

// ResolutionError reports an identifier (stage, stage/field pair, ...) that could not be resolved.
type ResolutionError struct {
	Kind       string
	Identifier string
}

func NewResolutionError(kind, identifier string) error {
	return &ResolutionError{Kind: kind, Identifier: identifier}
}

func (err ResolutionError) Error() string {
	return fmt.Sprintf("%s: %s", err.Kind, err.Identifier)
}

// CollaboratorError wraps a failure of an external collaborator (table store, messaging transport, ...).
// It has no Cause method: errors.Cause stops here.
type CollaboratorError struct {
	Name string
	Err  error
}

func NewCollaboratorError(name string, err error) error {
	return &CollaboratorError{Name: name, Err: err}
}

func (err CollaboratorError) Error() string {
	if err.Err == nil {
		return err.Name + " failed"
	}
	return err.Name + ": " + err.Err.Error()
}

func (err CollaboratorError) Unwrap() error {
	return err.Err
}

type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
