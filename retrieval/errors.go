package retrieval

import "errors"

var (
	// ErrQueryExtraction is returned when the query image cannot be described
	// under the requested scheme. The underlying feature error is wrapped.
	ErrQueryExtraction = errors.New("query extraction failed")

	// ErrInvalidK is returned for k <= 0.
	ErrInvalidK = errors.New("k must be positive")

	// ErrUnknownScheme is returned when no pipeline is registered for the
	// requested scheme or its parameters are invalid.
	ErrUnknownScheme = errors.New("unknown scheme")

	// ErrSchemeMismatch is returned when a prebuilt index was extracted under
	// a different scheme than the one requested.
	ErrSchemeMismatch = errors.New("index scheme mismatch")
)
