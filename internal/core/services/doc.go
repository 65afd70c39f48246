// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The embed services own no locks: the registry, the selection tracker and
// the document engine are touched only from the goroutine that runs the
// EventLoop (or whichever Dispatcher the host supplies). Network calls run
// on worker goroutines and post their continuations back to that loop.
//
// Services are pure Go with no CGO or external dependencies.
package services
