package sas

import "errors"

var (
	ErrFlowMismatch    = errors.New("mac content belongs to another verification flow")
	ErrKeysMismatch    = errors.New("mac of the key list does not match")
	ErrMacMismatch     = errors.New("mac of key does not match")
	ErrNoVerifiedKeys  = errors.New("mac content does not cover any known key")
	ErrInvalidSASBytes = errors.New("invalid number of sas bytes")
)
