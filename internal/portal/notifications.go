package portal

import (
	"sync"

	"github.com/ffi-hr/portal/internal/core/ports"
)

const maxPending = 32

// Notifications buffers transient messages until the next render drains
// them. The oldest message is dropped when the buffer is full.
type Notifications struct {
	mu      sync.Mutex
	pending []ports.Notification
}

func (n *Notifications) Notify(note ports.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.pending) == maxPending {
		n.pending = n.pending[1:]
	}
	n.pending = append(n.pending, note)
}

// Drain returns and forgets every pending message.
func (n *Notifications) Drain() []ports.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := n.pending
	n.pending = nil
	return out
}
