package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/psdshow/vanilla/internal/adapters/driving/tui/messages"
	"github.com/psdshow/vanilla/internal/core/domain"
	"github.com/psdshow/vanilla/internal/core/ports/driven"
)

// Ensure Dispatcher implements the port.
var _ driven.Dispatcher = (*Dispatcher)(nil)

// Dispatcher posts functions into a running Bubbletea program. The App runs
// them from Update, so they share the goroutine that owns the editor state.
//
// Post blocks until the program accepts the message, so it must not be
// called from Update itself.
type Dispatcher struct {
	mu      sync.Mutex
	send    func(tea.Msg)
	stopped bool
}

// NewDispatcher creates a dispatcher with no program attached.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// Attach routes posted functions to p.
func (d *Dispatcher) Attach(p *tea.Program) {
	d.attach(p.Send)
}

func (d *Dispatcher) attach(send func(tea.Msg)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.send = send
}

// Post sends fn to the program. Returns domain.ErrLoopStopped when no
// program is attached or the program has exited.
func (d *Dispatcher) Post(fn func()) error {
	d.mu.Lock()
	send, stopped := d.send, d.stopped
	d.mu.Unlock()

	if stopped || send == nil {
		return domain.ErrLoopStopped
	}
	send(messages.Dispatched{Fn: fn})
	return nil
}

// Stop rejects further posts.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
}
