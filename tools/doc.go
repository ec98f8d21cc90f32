// Package tools defines the capabilities the model may invoke and the
// registry that dispatches them.
//
// Includes:
//   - ToolDefinition: name, description, JSON input schema, handler.
//   - GenerateSchema[T](): derive a JSON Schema from a Go input struct.
//   - Registry: ordered catalog plus Execute, the single boundary that turns
//     handler failures into is_error tool results.
//   - File tools: read, ls (non-recursive), edit (gated by a Reviewer).
package tools
