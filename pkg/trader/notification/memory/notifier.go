package memory

import (
	"context"
	"sync"

	"github.com/csgotrader/trader-server/pkg/trader/notification"
)

// Notifier is a recording fake for tests
type Notifier struct {
	mu sync.Mutex

	SendErr error

	// Sent preserves send order; ByID holds the latest notification
	// per wire id, mirroring platform replace semantics.
	Sent       []*notification.Notification
	ByID       map[string]*notification.Notification
	SoundCount int
}

// New returns a new recording Notifier
func New() *Notifier {
	return &Notifier{
		ByID: make(map[string]*notification.Notification),
	}
}

// Send implements notification.Notifier.Send
func (n *Notifier) Send(_ context.Context, notif *notification.Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.SendErr != nil {
		return n.SendErr
	}

	n.Sent = append(n.Sent, notif)
	n.ByID[notif.ID.String()] = notif
	return nil
}

// PlaySound implements notification.Notifier.PlaySound
func (n *Notifier) PlaySound(_ context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.SoundCount++
	return nil
}

// Last returns the most recently sent notification
func (n *Notifier) Last() *notification.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()

	if len(n.Sent) == 0 {
		return nil
	}
	return n.Sent[len(n.Sent)-1]
}
