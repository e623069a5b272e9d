package ports

import "github.com/supportkit/pathfinder/pkg/flow"

// FlowLoader defines how a validated decision forest is obtained.
// This allows the flow source (YAML file, embedded catalog, Go DSL) to be decoupled.
type FlowLoader interface {
	// LoadFlow parses and validates the flow.
	// Authoring errors are returned joined, as produced by flow.New.
	LoadFlow() (*flow.Graph, error)
}
