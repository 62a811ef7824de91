package services

import (
	"errors"
	"strings"
)

var (
	ErrValidation    = errors.New("validation error")
	ErrTransport     = errors.New("transport error")
	ErrBackend       = errors.New("backend error")
	ErrBusy          = errors.New("request already in flight")
	ErrConfiguration = errors.New("configuration error")
)

// TransportNotice is shown to the operator when the asset service could not
// be reached at all.
const TransportNotice = "could not reach the asset service; check the connection and try again"

// Error tags a failure with one of the markers above together with the
// component and operation that produced it. Message is operator-facing text
// and is kept verbatim.
type Error struct {
	Marker    error
	Component string
	Operation string
	Message   string
	Err       error
}

func (e *Error) Error() string {
	parts := make([]string, 0, 5)
	if e.Marker != nil {
		parts = append(parts, e.Marker.Error())
	}
	for _, part := range []string{e.Component, e.Operation, e.Message} {
		if part = strings.TrimSpace(part); part != "" {
			parts = append(parts, part)
		}
	}
	if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}
	return strings.Join(parts, ": ")
}

func (e *Error) Unwrap() []error {
	out := make([]error, 0, 2)
	if e.Marker != nil {
		out = append(out, e.Marker)
	}
	if e.Err != nil {
		out = append(out, e.Err)
	}
	return out
}

// Wrap builds an error that includes component context while tagging it with
// the provided marker for later classification. A nil marker is treated as a
// transport failure.
func Wrap(marker error, component, operation, message string, err error) error {
	if marker == nil {
		marker = ErrTransport
	}
	return &Error{
		Marker:    marker,
		Component: strings.TrimSpace(component),
		Operation: strings.TrimSpace(operation),
		Message:   strings.TrimSpace(message),
		Err:       err,
	}
}

// UserMessage maps err to the text an operator should see. Transport failures
// collapse to a generic connectivity notice; validation and backend errors
// surface their message unchanged.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrTransport) {
		return TransportNotice
	}
	var tagged *Error
	if errors.As(err, &tagged) && tagged.Message != "" {
		return tagged.Message
	}
	if errors.Is(err, ErrBusy) {
		return "a request is already in progress"
	}
	return err.Error()
}
