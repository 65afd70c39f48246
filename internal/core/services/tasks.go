package services

import (
	"context"
	"sync"

	"github.com/psdshow/vanilla/internal/core/ports/driven"
	"github.com/psdshow/vanilla/internal/logger"
)

// taskGroup runs blocking work off the loop and posts its continuation
// back. A task counts as active until its continuation has run.
type taskGroup struct {
	dispatcher driven.Dispatcher

	mu     sync.Mutex
	active int
	idle   chan struct{}
}

func newTaskGroup(dispatcher driven.Dispatcher) *taskGroup {
	idle := make(chan struct{})
	close(idle)
	return &taskGroup{
		dispatcher: dispatcher,
		idle:       idle,
	}
}

// Go runs work on a new goroutine. The function work returns, if any, is
// posted to the dispatcher.
func (g *taskGroup) Go(work func() func()) {
	g.add()
	go func() {
		next := g.run(work)
		err := g.dispatcher.Post(func() {
			defer g.done()
			if next != nil {
				next()
			}
		})
		if err != nil {
			logger.Warn("Dropping task continuation: %v", err)
			g.done()
		}
	}()
}

// Active returns the number of tasks whose continuation has not run.
func (g *taskGroup) Active() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.active
}

// Wait blocks until no tasks are active or ctx is done. Tasks started by
// continuations are waited for as well.
func (g *taskGroup) Wait(ctx context.Context) error {
	for {
		g.mu.Lock()
		if g.active == 0 {
			g.mu.Unlock()
			return nil
		}
		idle := g.idle
		g.mu.Unlock()

		select {
		case <-idle:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (g *taskGroup) run(work func() func()) (next func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("background task panicked: %v", r)
			next = nil
		}
	}()
	return work()
}

func (g *taskGroup) add() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.active == 0 {
		g.idle = make(chan struct{})
	}
	g.active++
}

func (g *taskGroup) done() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.active--
	if g.active == 0 {
		close(g.idle)
	}
}
