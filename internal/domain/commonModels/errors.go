package commonModels

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	KindConfig     ErrorKind = "config"
	KindNotFound   ErrorKind = "not_found"
	KindValidation ErrorKind = "validation"
	KindUpstream   ErrorKind = "upstream"
)

// Sentinels for errors.Is, one per kind.
var (
	ErrConfig     = errors.New("configuration error")
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation error")
	ErrUpstream   = errors.New("upstream error")
)

// Error carries a client-facing Message next to the wrapped cause.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	switch target {
	case ErrConfig:
		return e.Kind == KindConfig
	case ErrNotFound:
		return e.Kind == KindNotFound
	case ErrValidation:
		return e.Kind == KindValidation
	case ErrUpstream:
		return e.Kind == KindUpstream
	}
	return false
}

func ConfigError(message string) error {
	return &Error{Kind: KindConfig, Message: message}
}

func NotFoundError(message string) error {
	return &Error{Kind: KindNotFound, Message: message}
}

func ValidationError(message string) error {
	return &Error{Kind: KindValidation, Message: message}
}

func UpstreamError(message string, err error) error {
	return &Error{Kind: KindUpstream, Message: message, Err: err}
}

// Detail returns the client-facing message of err, or fallback when err is not an *Error.
func Detail(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return fallback
}
