package feature

import "errors"

var (
	// ErrInputTooSmall is returned when an image is below a scheme's minimum size.
	ErrInputTooSmall = errors.New("input too small")

	// ErrEmptyInput is returned for zero-sized images.
	ErrEmptyInput = errors.New("empty input")

	// ErrLookupMiss is returned when an identifier has no embedding.
	ErrLookupMiss = errors.New("embedding lookup miss")

	// ErrInvalidScheme is returned for unknown kinds or out-of-range bin counts.
	ErrInvalidScheme = errors.New("invalid scheme")
)
