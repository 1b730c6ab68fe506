package core

import "errors"

// Common errors.
var (
	ErrReadOnly       = errors.New("vault is in read-only mode")
	ErrNoHeader       = errors.New("document has no header")
	ErrFieldNotFound  = errors.New("header field not found")
	ErrFormatMismatch = errors.New("header value does not match format")
	ErrNotNumeric     = errors.New("header value is not a number")
	ErrExcluded       = errors.New("document is excluded")
)
