package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/psdshow/vanilla/internal/core/domain"
	"github.com/psdshow/vanilla/internal/core/ports/driven"
	"github.com/psdshow/vanilla/internal/logger"
)

// Ensure EventLoop implements the Dispatcher interface.
var _ driven.Dispatcher = (*EventLoop)(nil)

// EventLoop runs posted functions one at a time on a single goroutine.
// It owns the document, the registry and the selection tracker: anything
// touching them is posted here.
type EventLoop struct {
	mu      sync.Mutex
	queue   []func()
	running bool
	stopped bool
	wake    chan struct{}
	stopCh  chan struct{}
}

// NewEventLoop creates an event loop. Functions may be posted before Run.
func NewEventLoop() *EventLoop {
	return &EventLoop{
		wake:   make(chan struct{}, 1),
		stopCh: make(chan struct{}),
	}
}

// Post enqueues fn. It never blocks.
func (l *EventLoop) Post(fn func()) error {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return domain.ErrLoopStopped
	}
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
	return nil
}

// Run processes posted functions until Stop is called or ctx is done.
// Functions queued at that point still run before Run returns.
func (l *EventLoop) Run(ctx context.Context) error {
	l.mu.Lock()
	if l.running {
		l.mu.Unlock()
		return fmt.Errorf("event loop is already running")
	}
	l.running = true
	l.mu.Unlock()

	for {
		l.drain()

		select {
		case <-ctx.Done():
			l.shutdown()
			return ctx.Err()
		case <-l.stopCh:
			l.shutdown()
			return nil
		case <-l.wake:
		}
	}
}

// Stop makes Run return once the queue is drained.
// Posting after Stop fails with domain.ErrLoopStopped.
func (l *EventLoop) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.stopped {
		return
	}
	l.stopped = true
	close(l.stopCh)
}

// Do runs fn on the loop and waits for its result.
// It must not be called from the loop goroutine.
func (l *EventLoop) Do(ctx context.Context, fn func() error) error {
	result := make(chan error, 1)
	if err := l.Post(func() { result <- fn() }); err != nil {
		return err
	}
	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *EventLoop) shutdown() {
	l.mu.Lock()
	l.stopped = true
	l.running = false
	l.mu.Unlock()
	l.drain()
}

func (l *EventLoop) drain() {
	for {
		l.mu.Lock()
		if len(l.queue) == 0 {
			l.mu.Unlock()
			return
		}
		fn := l.queue[0]
		l.queue[0] = nil
		l.queue = l.queue[1:]
		l.mu.Unlock()

		l.runTask(fn)
	}
}

// runTask runs fn, logging instead of crashing the loop on panic.
func (l *EventLoop) runTask(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("event loop: task panicked: %v", r)
		}
	}()
	fn()
}
