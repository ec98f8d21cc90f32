// Package memory holds the in-process conversation log.
//
// Model:
//   - A Conversation is an append-only list of role-attributed Turns.
//   - A Turn carries ordered Segments: text, tool calls, or tool results.
//   - Nothing is persisted; the log lives for the lifetime of one session.
package memory
