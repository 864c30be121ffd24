package domain

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the transport layer.
type Kind string

const (
	KindValidation   Kind = "validation"
	KindNotFound     Kind = "not_found"
	KindConflict     Kind = "conflict"
	KindUnauthorized Kind = "unauthorized"
	KindStorage      Kind = "storage"
)

// Error is the typed error returned by the app layer.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Message == "" {
		return e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(format string, args ...any) error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func NotFound(msg string) error { return &Error{Kind: KindNotFound, Message: msg} }

func Conflict(msg string) error { return &Error{Kind: KindConflict, Message: msg} }

func Unauthorized(msg string) error { return &Error{Kind: KindUnauthorized, Message: msg} }

// Storage wraps a backend failure; the backend message is kept as the public message.
func Storage(err error) error {
	if err == nil {
		return nil
	}
	var de *Error
	if errors.As(err, &de) {
		return err
	}
	return &Error{Kind: KindStorage, Message: err.Error(), Err: err}
}

// KindOf reports the kind of err, treating untyped errors as storage failures.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindStorage
}

var (
	// ErrDuplicateLogin is returned when a login name is already taken in the target table.
	ErrDuplicateLogin = &Error{Kind: KindConflict, Message: "el usuario ya existe"}
	// ErrDuplicateProject is returned when a project name exists ignoring case.
	ErrDuplicateProject = &Error{Kind: KindConflict, Message: "el proyecto ya existe"}
	// ErrAlreadyAnswered is returned when the client already has a response for the survey.
	ErrAlreadyAnswered = &Error{Kind: KindConflict, Message: "la encuesta ya fue respondida por este cliente"}
	// ErrSurveyNotFound indicates the survey id does not exist.
	ErrSurveyNotFound = &Error{Kind: KindNotFound, Message: "encuesta no encontrada"}
	// ErrResponseNotFound indicates no response exists for a client/survey pair.
	ErrResponseNotFound = &Error{Kind: KindNotFound, Message: "no hay respuestas para este cliente y encuesta"}
	// ErrInvalidCredentials is returned by login when neither table matches.
	ErrInvalidCredentials = &Error{Kind: KindUnauthorized, Message: "credenciales inválidas"}
)

// ErrUnknownReference is returned when a write points at a project, client,
// administrator, survey, question or option that does not exist.
var ErrUnknownReference = &Error{Kind: KindValidation, Message: "referencia inexistente"}
