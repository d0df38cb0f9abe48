package tripgraph

import "errors"

// Error categories of the query pipeline. Stage errors wrap one of these
// sentinels together with the underlying cause, so callers can distinguish
// a bad request from a failing collaborator with errors.Is.
var (
	// ErrValidation marks a rejected input, caught before any remote call.
	ErrValidation = errors.New("validation error")
	// ErrRetrieval marks a failing embedding, vector index or graph store call.
	ErrRetrieval = errors.New("retrieval failure")
	// ErrGeneration marks a failing generation backend call.
	ErrGeneration = errors.New("generation failure")
	// ErrConfiguration marks an invalid startup configuration.
	ErrConfiguration = errors.New("configuration error")
)
