package cli

import "errors"

// Sentinel kinds for CLI errors.
var (
	ErrFlag   = errors.New("invalid flag value")
	ErrRemote = errors.New("remote prediction failed")
)

// RemoteError carries the error body returned by a prediction server.
type RemoteError struct {
	Status  int
	Code    string
	Message string
}

func (e *RemoteError) Error() string {
	return ErrRemote.Error() + ": " + e.Code + ": " + e.Message
}

func (e *RemoteError) Unwrap() error { return ErrRemote }
