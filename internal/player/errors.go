package player

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrorKind classifies player failures for the frontend.
type ErrorKind string

const (
	KindWindowNotFound      ErrorKind = "WindowNotFound"
	KindWindowHandle        ErrorKind = "WindowHandle"
	KindUnsupportedPlatform ErrorKind = "UnsupportedPlatform"
	KindInstanceNotFound    ErrorKind = "InstanceNotFound"
	KindEngineInit          ErrorKind = "EngineInit"
	KindEngineCommand       ErrorKind = "EngineCommand"
	KindEngineSetProperty   ErrorKind = "EngineSetProperty"
	KindEngineGetProperty   ErrorKind = "EngineGetProperty"
	KindBadValue            ErrorKind = "BadValue"
	KindRenderInit          ErrorKind = "RenderInit"
	KindRender              ErrorKind = "Render"
)

// Error is the failure type surfaced to the frontend. It serializes as a
// tagged string, e.g. "InstanceNotFound: main".
type Error struct {
	Kind   ErrorKind
	Detail string
	Cause  error
}

func newError(kind ErrorKind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Detail: fmt.Sprintf(format, args...), Cause: cause}
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return string(e.Kind)
	}
	return string(e.Kind) + ": " + e.Detail
}

func (e *Error) Unwrap() error { return e.Cause }

func (e *Error) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.Error())
}

// IsKind reports whether err is a player Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var pe *Error
	if !errors.As(err, &pe) {
		return false
	}
	return pe.Kind == kind
}
