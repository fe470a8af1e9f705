package lnd

import "errors"

// Failure classification for daemon calls. Callers branch with errors.Is.
var (
	// ErrTransport marks failures where no usable response arrived
	// (connection refused, timeout, non-2xx status).
	ErrTransport = errors.New("daemon transport failure")

	// ErrDecode marks responses that arrived but were not valid JSON or
	// were missing required fields.
	ErrDecode = errors.New("daemon response decode failure")

	// ErrValidation marks requests rejected before any network call.
	ErrValidation = errors.New("validation failure")
)
