// Package runner drives the reasoning loop between the user, the model
// gateway and the tool registry.
//
// Invariant:
//   - every tool call in an assistant turn is answered by exactly one result
//     in the user turn that immediately follows it, before the next request.
//
// Flow:
//
//	user(text) -> assistant(text+tool calls) -> user(tool results) -> ... -> assistant(text)
package runner
