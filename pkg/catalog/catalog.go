// Package catalog embeds the canonical delivery problem resolution flow.
package catalog

import (
	"embed"
	"sync"

	"github.com/supportkit/pathfinder/pkg/adapters/file"
	"github.com/supportkit/pathfinder/pkg/flow"
)

// DeliveryFile is the name of the embedded delivery flow document.
const DeliveryFile = "delivery.yaml"

//go:embed delivery.yaml
var files embed.FS

// Loader returns a ports.FlowLoader reading the embedded delivery flow.
func Loader() *file.Loader {
	return file.NewFSLoader(files, DeliveryFile)
}

var delivery = sync.OnceValues(func() (*flow.Graph, error) {
	return Loader().LoadFlow()
})

// Delivery returns the parsed delivery flow. The document is parsed once.
func Delivery() (*flow.Graph, error) {
	return delivery()
}

// Raw returns the embedded YAML document.
func Raw() []byte {
	data, _ := files.ReadFile(DeliveryFile)
	return data
}
