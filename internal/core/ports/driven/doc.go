// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - DocumentEngine: Node insertion, lookup, replacement and selection
//   - Dispatcher: Schedules continuations onto the loop that owns core state
//   - MediaScraper: Resolves a URL into embed metadata
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - UploadHelper: File uploads. Without it, uploads are rejected.
//   - MediaUploader: Storage backend used by the upload helper.
//   - EmbedLogStore: History of embed transitions. Without it, nothing is recorded.
//   - DocumentStore: Document persistence for the CLI, TUI and MCP surfaces.
//   - ConfigStore: Application configuration.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
