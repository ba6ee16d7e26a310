package apperr

import (
	"errors"
	"net/http"

	"brewhouse/utils"
)

// Kind classifies a failure. Code is stable for programmatic handling;
// Message stays human text.
type Kind string

const (
	Validation  Kind = "validation"
	NotFound    Kind = "not_found"
	Gateway     Kind = "gateway"
	Persistence Kind = "persistence"
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Kind == kind
}

func status(kind Kind) int {
	switch kind {
	case Validation:
		return http.StatusBadRequest
	case NotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Write renders err as the {code, message} JSON error body. Unclassified
// errors become persistence failures rather than leaking internals.
func Write(w http.ResponseWriter, err error) {
	var ae *Error
	if !errors.As(err, &ae) {
		ae = &Error{Kind: Persistence, Message: "Server Error", Err: err}
	}
	utils.RespondWithJSON(w, status(ae.Kind), map[string]string{
		"code":    string(ae.Kind),
		"message": ae.Message,
	})
}
