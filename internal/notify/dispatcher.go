package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const sendTimeout = 30 * time.Second

// Dispatcher routes events to registered senders.
type Dispatcher struct {
	senders []Sender
	mu      sync.RWMutex
	async   bool
	wg      sync.WaitGroup
	logger  *slog.Logger
}

// NewDispatcher creates a new notification dispatcher.
// If async is true, notifications are sent in goroutines; call Wait before exit.
func NewDispatcher(async bool, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Dispatcher{
		senders: make([]Sender, 0),
		async:   async,
		logger:  logger,
	}
}

// Register adds a sender to the dispatcher.
func (d *Dispatcher) Register(sender Sender) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.senders = append(d.senders, sender)
}

// Dispatch sends an event to all registered senders.
func (d *Dispatcher) Dispatch(ctx context.Context, event *Event) {
	d.mu.RLock()
	senders := make([]Sender, len(d.senders))
	copy(senders, d.senders)
	d.mu.RUnlock()

	if len(senders) == 0 {
		return
	}

	for _, sender := range senders {
		if !d.async {
			d.sendWithRecover(ctx, sender, event)
			continue
		}

		d.wg.Add(1)

		go func(s Sender) {
			defer d.wg.Done()
			d.sendWithRecover(context.WithoutCancel(ctx), s, event)
		}(sender)
	}
}

// Wait blocks until asynchronous sends have finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// sendWithRecover sends an event and recovers from panics.
func (d *Dispatcher) sendWithRecover(ctx context.Context, sender Sender, event *Event) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("notify: panic in sender", slog.String("sender", sender.Name()), slog.Any("panic", r))
		}
	}()

	sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	if err := sender.Send(sendCtx, event); err != nil {
		d.logger.Warn("notify: error sending", slog.String("sender", sender.Name()), slog.Any("error", err))
	}
}
