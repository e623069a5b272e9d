package flow

import (
	"errors"
	"fmt"

	"github.com/supportkit/pathfinder/pkg/domain"
)

// ErrNoCategories is returned when a graph is built without any root node.
var ErrNoCategories = errors.New("flow has no categories")

// ValidationError reports a single authoring mistake found while building a Graph.
type ValidationError struct {
	Path   domain.Path // Id path of the offending node or of its parent for entry errors
	Reason string
}

func (e *ValidationError) Error() string {
	if len(e.Path) == 0 {
		return e.Reason
	}
	return fmt.Sprintf("node %q: %s", e.Path.String(), e.Reason)
}

// ValidationErrors unwraps the individual problems of an error returned by New.
// It returns nil if err holds no *ValidationError.
func ValidationErrors(err error) []*ValidationError {
	switch e := err.(type) {
	case nil:
		return nil
	case *ValidationError:
		return []*ValidationError{e}
	case interface{ Unwrap() []error }:
		var out []*ValidationError
		for _, inner := range e.Unwrap() {
			out = append(out, ValidationErrors(inner)...)
		}
		return out
	case interface{ Unwrap() error }:
		return ValidationErrors(e.Unwrap())
	}
	return nil
}
