package artifact

import "errors"

// Sentinel kinds for artifact errors.
var (
	// ErrArtifactLoad marks any failure to read or decode an artifact at startup.
	ErrArtifactLoad = errors.New("artifact load failed")
	// ErrMalformed marks artifact contents that violate the format.
	ErrMalformed = errors.New("malformed artifact")
	// ErrDimension marks a row whose width does not match the artifact.
	ErrDimension = errors.New("dimension mismatch")
)
