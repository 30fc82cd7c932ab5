package events

import "errors"

var (
	ErrUnknownEventType  = errors.New("unknown event type")
	ErrAlreadyRegistered = errors.New("event type already registered for channel")
	ErrMissingType       = errors.New("event has no type")
	ErrMissingContent    = errors.New("event has no content")
)
