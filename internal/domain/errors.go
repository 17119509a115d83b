package domain

import "fmt"

// ErrorKind classifies service failures so the HTTP layer can map them
// to a status code without inspecting message text.
type ErrorKind string

const (
	KindUnauthorized ErrorKind = "unauthorized" // bad/missing/expired credentials
	KindForbidden    ErrorKind = "forbidden"    // authenticated but not allowed
	KindNotFound     ErrorKind = "not_found"
	KindInvalid      ErrorKind = "invalid" // rejected input, e.g. duplicate username
	KindUpstream     ErrorKind = "upstream"
	KindConfig       ErrorKind = "config" // missing server-side configuration
)

// Error is a classified service error.
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

func (e *Error) Unwrap() error { return e.Err }

func Unauthorized(msg string) *Error { return &Error{Kind: KindUnauthorized, Message: msg} }
func Forbidden(msg string) *Error    { return &Error{Kind: KindForbidden, Message: msg} }
func NotFound(msg string) *Error     { return &Error{Kind: KindNotFound, Message: msg} }
func Invalid(msg string) *Error      { return &Error{Kind: KindInvalid, Message: msg} }

// Upstream wraps a weather API failure: transport error, non-200 status,
// or an unparseable body.
func Upstream(msg string, err error) *Error {
	return &Error{Kind: KindUpstream, Message: msg, Err: err}
}

// ConfigError reports missing server-side configuration, such as an
// unset upstream API key.
func ConfigError(msg string) *Error { return &Error{Kind: KindConfig, Message: msg} }
