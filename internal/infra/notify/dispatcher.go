package notify

import (
	"context"
	"log/slog"
	"sync"

	"librarium/internal/usecase/commands"

	"github.com/google/uuid"
)

// Dispatcher decouples availability notifications from the request
// path: MarkReturned enqueues the copy id after its transaction
// commits, and a single worker drains the queue and fans mail out to
// subscribers. A full queue drops the event with a warning rather
// than blocking the caller.
type Dispatcher struct {
	notifier commands.NotificationCommands
	queue    chan uuid.UUID

	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

func NewDispatcher(notifier commands.NotificationCommands, queueSize int) *Dispatcher {
	return &Dispatcher{
		notifier: notifier,
		queue:    make(chan uuid.UUID, queueSize),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

func (d *Dispatcher) Enqueue(copyID uuid.UUID) {
	select {
	case d.queue <- copyID:
	default:
		slog.Warn("notification queue full, dropping event", "copy_id", copyID)
	}
}

func (d *Dispatcher) Start() {
	go d.run()
}

// Stop drains nothing: pending events are abandoned on shutdown, which
// is acceptable for best-effort notifications.
func (d *Dispatcher) Stop() {
	d.stopOnce.Do(func() {
		close(d.stop)
		<-d.done
	})
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for {
		select {
		case <-d.stop:
			return
		case copyID := <-d.queue:
			if err := d.notifier.NotifySubscribers(context.Background(), copyID); err != nil {
				slog.Warn("failed to notify subscribers", "copy_id", copyID, "error", err.Error())
			}
		}
	}
}
