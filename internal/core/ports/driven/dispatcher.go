package driven

// Dispatcher schedules work onto the single goroutine that owns core state.
// Post may be called from any goroutine; posted functions run in order.
type Dispatcher interface {
	// Post enqueues fn. Returns domain.ErrLoopStopped if fn will never run.
	Post(fn func()) error
}
