// Package domain defines the core entities of the embed editor.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - LookupKey: Identity of one in-flight embed operation (URL or file)
//   - Node: An element of an editor document (text, placeholder, embed)
//   - Placeholder: The loading node that stands in for a pending request
//   - Embed: A resolved result (site, image, video, error)
//   - Document: A persisted editor document
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
