package session

import "errors"

var (
	// ErrTransport means no response was obtained.
	ErrTransport = errors.New("transport failure")
	// ErrProtocol means a response arrived with an unexpected status.
	ErrProtocol = errors.New("protocol failure")
	// ErrMalformed means the body lacks the fields the variant expects.
	ErrMalformed = errors.New("malformed response")
)
