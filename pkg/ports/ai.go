package ports

import "context"

// TextService is a generative text completion backend.
type TextService interface {
	// GenerateText returns the completion for prompt.
	// Transport, quota and server failures are returned as errors.
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// Image is an inline image attached to a structured request.
type Image struct {
	MIMEType string
	Data     []byte
}

// SchemaType names the JSON type of a Schema node.
type SchemaType string

const (
	TypeObject  SchemaType = "object"
	TypeArray   SchemaType = "array"
	TypeString  SchemaType = "string"
	TypeNumber  SchemaType = "number"
	TypeInteger SchemaType = "integer"
	TypeBoolean SchemaType = "boolean"
)

// Schema describes the JSON document a StructuredService must return.
type Schema struct {
	Type        SchemaType
	Description string
	Properties  map[string]*Schema
	Items       *Schema
	Required    []string
	Enum        []string
}

// Request is a structured generation request.
type Request struct {
	Prompt string
	Images []Image

	// Schema is optional; without it the service is only asked for JSON output.
	Schema *Schema
}

// StructuredService is a generative backend returning JSON documents.
type StructuredService interface {
	// GenerateJSON sends req and decodes the returned JSON document into out.
	GenerateJSON(ctx context.Context, req Request, out any) error
}
