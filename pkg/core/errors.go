package core

import "errors"

// Common errors.
var (
	// ErrNotFound is returned by Load when a key matches neither a source key
	// nor a declared identifier.
	ErrNotFound = errors.New("schema not found")

	// ErrUnknownScheme is returned by URI-based operations when the scheme is
	// not file, http or https.
	ErrUnknownScheme = errors.New("unknown URI scheme")

	// ErrValidationRejected marks a document the admission validator refused.
	ErrValidationRejected = errors.New("validation rejected")

	// ErrWatcherActive is returned by Watch when the cache already has a
	// running watcher.
	ErrWatcherActive = errors.New("watcher already active")
)
