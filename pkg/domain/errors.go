package domain

import "errors"

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrNodeNotFound is returned by strict lookups when a path segment does not resolve.
var ErrNodeNotFound = errors.New("node not found")

// ErrEmptyPath is returned by strict lookups given an empty path.
var ErrEmptyPath = errors.New("empty path")
