package tools

import (
	"context"
	"encoding/json"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/invopop/jsonschema"
)

// ToolDefinition is one capability: what the model sees plus the handler that runs it.
type ToolDefinition struct {
	Name        string
	Description string
	InputSchema anthropic.ToolInputSchemaParam
	Function    func(ctx context.Context, input json.RawMessage) (string, error)
}

// Descriptor is the catalog view of a capability, without its handler.
type Descriptor struct {
	Name        string
	Description string
	InputSchema anthropic.ToolInputSchemaParam
}

func (d ToolDefinition) Descriptor() Descriptor {
	return Descriptor{Name: d.Name, Description: d.Description, InputSchema: d.InputSchema}
}

// GenerateSchema reflects T into the object schema advertised to the model.
// Fields without omitempty are required.
func GenerateSchema[T any]() anthropic.ToolInputSchemaParam {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	schema := reflector.Reflect(v)
	return anthropic.ToolInputSchemaParam{
		Properties: schema.Properties,
		Required:   schema.Required,
	}
}

// schemaDocument renders an input schema as a standalone JSON Schema document
// for validation.
func schemaDocument(s anthropic.ToolInputSchemaParam) ([]byte, error) {
	doc := map[string]any{"type": "object"}
	if s.Properties != nil {
		doc["properties"] = s.Properties
	}
	if len(s.Required) > 0 {
		doc["required"] = s.Required
	}
	return json.Marshal(doc)
}
