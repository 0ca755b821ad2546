package notify

import (
	"context"
	"sync"

	"github.com/solarcrm/pipeline-crm/internal/usecase"
)

const inboxLimit = 50

// Inbox buffers notifications per session until the UI drains them.
// Notifications without a session are dropped.
type Inbox struct {
	mu    sync.Mutex
	boxes map[string][]usecase.Notification
}

func NewInbox() *Inbox {
	return &Inbox{boxes: make(map[string][]usecase.Notification)}
}

func (i *Inbox) Notify(_ context.Context, n usecase.Notification) error {
	if n.Session == "" {
		return nil
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	box := append(i.boxes[n.Session], n)
	if len(box) > inboxLimit {
		box = box[len(box)-inboxLimit:]
	}
	i.boxes[n.Session] = box
	return nil
}

// Drain returns and clears the pending notifications of a session, oldest first.
func (i *Inbox) Drain(session string) []usecase.Notification {
	i.mu.Lock()
	defer i.mu.Unlock()
	box := i.boxes[session]
	delete(i.boxes, session)
	if box == nil {
		return []usecase.Notification{}
	}
	return box
}

func (i *Inbox) Forget(session string) {
	i.mu.Lock()
	delete(i.boxes, session)
	i.mu.Unlock()
}
