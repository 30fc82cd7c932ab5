package verification

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument is returned by constructors for values the caller
	// could have rejected before building the content.
	ErrInvalidArgument = errors.New("invalid argument")

	ErrEmptyMac       = errors.New("mac must contain at least one key")
	ErrBadKeyIDFormat = errors.New("key id must have the form <algorithm>:<id>")
	ErrBadBase64      = errors.New("keys is not unpadded base64")
	ErrBadRelation    = errors.New("relation needs a rel_type and an event_id")
)

// DecodeErrorKind tells apart the ways a wire document can fail to match the
// content schema.
type DecodeErrorKind int

const (
	MissingField DecodeErrorKind = iota + 1
	TypeMismatch
)

func (k DecodeErrorKind) String() string {
	switch k {
	case MissingField:
		return "missing field"
	case TypeMismatch:
		return "type mismatch"
	default:
		return fmt.Sprintf("decode error kind(%d)", int(k))
	}
}

// DecodeError reports a wire document that does not have the content's
// shape. Field is the JSON member name, empty for the document itself.
type DecodeError struct {
	Kind  DecodeErrorKind
	Field string
	Err   error
}

func (e *DecodeError) Error() string {
	field := e.Field
	if field == "" {
		field = "<document>"
	}
	if e.Err != nil {
		return fmt.Sprintf("cannot decode mac content: %s %q: %v", e.Kind, field, e.Err)
	}
	return fmt.Sprintf("cannot decode mac content: %s %q", e.Kind, field)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func missingField(name string) error {
	return &DecodeError{Kind: MissingField, Field: name}
}

func typeMismatch(name string, cause error) error {
	return &DecodeError{Kind: TypeMismatch, Field: name, Err: cause}
}

// ValidationErrorKind names the violated invariant.
type ValidationErrorKind int

const (
	EmptyMac ValidationErrorKind = iota + 1
	BadKeyIDFormat
	BadBase64
	BadRelation
)

func (k ValidationErrorKind) String() string {
	switch k {
	case EmptyMac:
		return "empty mac"
	case BadKeyIDFormat:
		return "bad key id format"
	case BadBase64:
		return "bad base64"
	case BadRelation:
		return "bad relation"
	default:
		return fmt.Sprintf("validation error kind(%d)", int(k))
	}
}

// ValidationError is returned by Validate. KeyID is set for BadKeyIDFormat.
type ValidationError struct {
	Kind  ValidationErrorKind
	KeyID string
}

func (e *ValidationError) Error() string {
	if e.KeyID != "" {
		return fmt.Sprintf("invalid mac content: %v: %q", e.Unwrap(), e.KeyID)
	}
	return fmt.Sprintf("invalid mac content: %v", e.Unwrap())
}

// Unwrap maps the kind onto its sentinel so callers can use errors.Is.
func (e *ValidationError) Unwrap() error {
	switch e.Kind {
	case EmptyMac:
		return ErrEmptyMac
	case BadKeyIDFormat:
		return ErrBadKeyIDFormat
	case BadBase64:
		return ErrBadBase64
	case BadRelation:
		return ErrBadRelation
	default:
		return nil
	}
}

// EncodeError wraps a failure to serialize a content value.
type EncodeError struct {
	Err error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("cannot encode mac content: %v", e.Err)
}

func (e *EncodeError) Unwrap() error {
	return e.Err
}

func invalidArgument(cause error) error {
	return fmt.Errorf("%w: %w", ErrInvalidArgument, cause)
}
