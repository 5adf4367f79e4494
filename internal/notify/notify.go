// Package notify holds the notification sinks reminders are delivered to.
package notify

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/TWRT/savvystudy/internal/client"
	"github.com/TWRT/savvystudy/internal/models"
)

type LogNotifier struct {
	logger *log.Logger
}

func NewLogNotifier(logger *log.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With("component", "notify")}
}

func (n *LogNotifier) Notify(_ context.Context, msg models.Notification) {
	n.logger.Info(msg.Title, "user", msg.UserID, "message", msg.Message, "timeout", msg.Timeout)
}

// Inbox keeps the most recent notifications per user until they are drained.
type Inbox struct {
	mu    sync.Mutex
	size  int
	queue map[string][]models.Notification
}

func NewInbox(size int) *Inbox {
	if size <= 0 {
		size = 1
	}
	return &Inbox{size: size, queue: make(map[string][]models.Notification)}
}

func (i *Inbox) Notify(_ context.Context, msg models.Notification) {
	i.mu.Lock()
	defer i.mu.Unlock()

	q := append(i.queue[msg.UserID], msg)
	if len(q) > i.size {
		q = q[len(q)-i.size:]
	}
	i.queue[msg.UserID] = q
}

// Drain returns and forgets the pending notifications for userID.
func (i *Inbox) Drain(userID string) []models.Notification {
	i.mu.Lock()
	defer i.mu.Unlock()

	q := i.queue[userID]
	delete(i.queue, userID)
	if q == nil {
		return []models.Notification{}
	}
	return q
}

type Fanout []client.Notifier

func (f Fanout) Notify(ctx context.Context, msg models.Notification) {
	for _, n := range f {
		n.Notify(ctx, msg)
	}
}
