package watch

import (
	"context"
	"log/slog"
	"sync"

	"github.com/subwatchhq/subwatch/internal/model"
	"github.com/subwatchhq/subwatch/internal/normalize"
	"github.com/subwatchhq/subwatch/internal/signal"
	"github.com/subwatchhq/subwatch/internal/store"
)

// Coordinator is the single-consumer actor behind the page observers.
// Messages are processed strictly in arrival order per channel; across
// distinct tabs there is no ordering guarantee. Delivery is fire-and-forget
// with no acknowledgment beyond best-effort.
type Coordinator struct {
	in         chan model.ObserverMessage
	done       chan struct{}
	closeOnce  sync.Once
	pending    *store.PendingStore
	normalizer *normalize.Normalizer
	logger     *slog.Logger

	// OnDraft, when set, observes every normalized draft the coordinator
	// produces. Called from the consumer goroutine.
	OnDraft func(model.ObserverMessage, model.NormalizedDraft)
}

// NewCoordinator creates a coordinator with the given inbox capacity
func NewCoordinator(capacity int, pending *store.PendingStore, normalizer *normalize.Normalizer, logger *slog.Logger) *Coordinator {
	if capacity <= 0 {
		capacity = 16
	}
	if logger == nil {
		logger = slog.Default()
	}
	if normalizer == nil {
		normalizer = normalize.New()
	}
	return &Coordinator{
		in:         make(chan model.ObserverMessage, capacity),
		done:       make(chan struct{}),
		pending:    pending,
		normalizer: normalizer,
		logger:     logger,
	}
}

// Send delivers a message fire-and-forget. A full inbox drops the message;
// there is no buffering beyond the channel and no retry. Producers must
// stop sending before Close.
func (c *Coordinator) Send(msg model.ObserverMessage) bool {
	select {
	case c.in <- msg:
		return true
	default:
		c.logger.Warn("coordinator inbox full, message dropped",
			"action", msg.Action, "correlation_id", msg.CorrelationID)
		return false
	}
}

// Run consumes messages in arrival order until the context is cancelled or
// the inbox is closed. Single consumer: this is the only goroutine that
// touches the pending slot through the coordinator.
func (c *Coordinator) Run(ctx context.Context) {
	defer close(c.done)
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-c.in:
			if !ok {
				return
			}
			c.handle(msg)
		}
	}
}

// Close stops accepting messages; Run drains what is queued and exits
func (c *Coordinator) Close() {
	c.closeOnce.Do(func() { close(c.in) })
}

// Done is closed once Run has exited
func (c *Coordinator) Done() <-chan struct{} {
	return c.done
}

// handle turns one detection into a normalized draft and hands it off to
// the pending slot. A detection that does not resolve to a successful draft
// is still stored, tagged for manual completion.
func (c *Coordinator) handle(msg model.ObserverMessage) {
	draft := signal.DraftFromPage(msg.Data.PageTitle, msg.Data.URL, msg.Data.Prices)

	// Action context can carry a price the page-level scan missed
	if draft.Cost == nil && msg.Data.NearbyPrice != "" {
		draft = signal.DraftFromPage(msg.Data.PageTitle, msg.Data.URL, []string{msg.Data.NearbyPrice})
	}

	normalized := c.normalizer.Normalize(draft)

	if c.pending != nil {
		c.pending.Put(normalized)
	}

	c.logger.Info("detection handled",
		"action", msg.Action,
		"trigger", msg.Data.TriggerType,
		"correlation_id", msg.CorrelationID,
		"url", msg.Data.URL,
		"confidence", msg.Data.Confidence,
		"success", normalized.Success,
	)

	if c.OnDraft != nil {
		c.OnDraft(msg, normalized)
	}
}
