package services

import "fmt"

// Error kinds surfaced to callers. The kind is stable; the message is not.
const (
	KindValidation   = "validation"
	KindUnauthorized = "unauthorized"
	KindNotFound     = "not_found"
	KindConflict     = "conflict"
	KindStorage      = "storage"
)

type AppError struct {
	Kind     string
	HTTPCode int
	Message  string
	Data     interface{}
	Err      error
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func newValidationError(message string) *AppError {
	return &AppError{Kind: KindValidation, HTTPCode: 400, Message: message}
}

func newUnauthorizedError(message string) *AppError {
	return &AppError{Kind: KindUnauthorized, HTTPCode: 401, Message: message}
}

func newNotFoundError(message string) *AppError {
	return &AppError{Kind: KindNotFound, HTTPCode: 404, Message: message}
}

func newConflictError(message string) *AppError {
	return &AppError{Kind: KindConflict, HTTPCode: 409, Message: message}
}

// newStorageError wraps a backing-store failure. The cause stays in Err for
// logs; the client only ever sees the message.
func newStorageError(message string, err error) *AppError {
	return &AppError{Kind: KindStorage, HTTPCode: 500, Message: message, Err: err}
}

// IsKind reports whether err is an AppError of the given kind.
func IsKind(err error, kind string) bool {
	appErr, ok := err.(*AppError)
	return ok && appErr.Kind == kind
}
