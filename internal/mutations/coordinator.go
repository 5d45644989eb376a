// Package mutations turns user intents into row store calls. Each dispatch
// is tracked as pending under its (operation, target) key until the store
// answers; failures become notifications instead of propagating.
package mutations

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"route-vending/tablegrid/internal/auth"
	"route-vending/tablegrid/internal/common"
	"route-vending/tablegrid/internal/constants"
	"route-vending/tablegrid/internal/logging"
	"route-vending/tablegrid/internal/metrics"
	"route-vending/tablegrid/internal/models/dtos"

	"go.uber.org/zap"
)

const defaultTimeout = 15 * time.Second

// Key identifies pending work. Different keys never block each other.
type Key struct {
	Op       Operation
	TargetID string
}

// Ticket tracks one dispatched intent.
type Ticket struct {
	Key       Key
	StartedAt time.Time

	done   chan struct{}
	result any
	err    error
}

func newTicket(key Key) *Ticket {
	return &Ticket{Key: key, StartedAt: time.Now(), done: make(chan struct{})}
}

func (t *Ticket) finish(result any, err error) {
	t.result = result
	t.err = err
	close(t.done)
}

// Done is closed once the store has answered.
func (t *Ticket) Done() <-chan struct{} { return t.done }

// Wait blocks until the ticket resolves or ctx ends. Giving up on ctx only
// stops listening; the mutation itself keeps running.
func (t *Ticket) Wait(ctx context.Context) (any, error) {
	select {
	case <-t.done:
		return t.result, t.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Coordinator dispatches intents asynchronously.
type Coordinator struct {
	store      Store
	invalidate func()
	feed       *common.NotificationFeed
	metrics    *metrics.MetricsRegistry
	timeout    time.Duration

	mu      sync.Mutex
	pending map[Key]*Ticket
	wg      sync.WaitGroup
}

// NewCoordinator wires the coordinator. invalidate is called after every
// successful mutation and after not-found failures; it may be nil.
func NewCoordinator(store Store, invalidate func(), feed *common.NotificationFeed, m *metrics.MetricsRegistry, timeout time.Duration) *Coordinator {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if invalidate == nil {
		invalidate = func() {}
	}
	if feed == nil {
		feed = common.NewNotificationFeed(0)
	}
	return &Coordinator{
		store:      store,
		invalidate: invalidate,
		feed:       feed,
		metrics:    m,
		timeout:    timeout,
		pending:    make(map[Key]*Ticket),
	}
}

// Submit validates the intent and dispatches it in the background.
// Rejections that happen before dispatch resolve the ticket immediately.
func (c *Coordinator) Submit(session *auth.EditSession, in Intent) *Ticket {
	key := Key{Op: in.Op, TargetID: in.TargetID}
	ticket := newTicket(key)
	log := logging.WithMutation(string(in.Op), in.TargetID)

	if !session.CanEdit() {
		ticket.finish(nil, fmt.Errorf("%w: edit mode required", constants.ErrUnauthorized))
		return ticket
	}
	if in.Op.Destructive() && !in.Confirmed {
		ticket.finish(nil, fmt.Errorf("%w: %s", constants.ErrConfirmationRequired, constants.MsgConfirmRequired))
		return ticket
	}
	if in.Precheck != nil {
		ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
		err := in.Precheck(ctx)
		cancel()
		if err != nil {
			log.Infow("Mutation rejected before dispatch", "error", err)
			c.fail(in.Op, err)
			ticket.finish(nil, err)
			return ticket
		}
	}

	c.mu.Lock()
	c.pending[key] = ticket
	c.mu.Unlock()
	if c.metrics != nil {
		c.metrics.MutationsPending.Inc()
	}

	c.wg.Add(1)
	go c.run(ticket, in, log)
	return ticket
}

// Do submits and waits for the result.
func (c *Coordinator) Do(ctx context.Context, session *auth.EditSession, in Intent) (any, error) {
	return c.Submit(session, in).Wait(ctx)
}

func (c *Coordinator) run(ticket *Ticket, in Intent, log *zap.SugaredLogger) {
	defer c.wg.Done()

	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	result, err := c.safeRun(ctx, in)

	c.mu.Lock()
	// a newer dispatch on the same key owns the slot
	if c.pending[ticket.Key] == ticket {
		delete(c.pending, ticket.Key)
	}
	c.mu.Unlock()
	if c.metrics != nil {
		c.metrics.MutationsPending.Dec()
	}

	if err != nil {
		log.Warnw("Mutation failed", "error", err, "duration_ms", time.Since(ticket.StartedAt).Milliseconds())
		c.metrics.ObserveMutation(string(in.Op), "failed", ticket.StartedAt)
		if errors.Is(err, constants.ErrNotFound) {
			c.invalidate()
		}
		c.fail(in.Op, err)
	} else {
		log.Infow("Mutation applied", "duration_ms", time.Since(ticket.StartedAt).Milliseconds())
		c.metrics.ObserveMutation(string(in.Op), "ok", ticket.StartedAt)
		c.invalidate()
	}

	ticket.finish(result, err)
}

func (c *Coordinator) safeRun(ctx context.Context, in Intent) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("mutation panicked: %v", r)
		}
	}()
	return in.Run(ctx)
}

func (c *Coordinator) fail(op Operation, err error) {
	c.feed.Push(common.NotificationError, FailureMessage(op, err))
}

// FailureMessage renders the notification text for a failed operation.
func FailureMessage(op Operation, err error) string {
	prefix := "Failed to " + op.Action()

	var fe *constants.FieldError
	var pe *constants.ProtectedError
	switch {
	case errors.As(err, &pe):
		return prefix + ": " + pe.Message
	case errors.As(err, &fe):
		return prefix + ": " + fe.Error()
	case errors.Is(err, constants.ErrNotFound):
		return prefix + ": not found"
	case errors.Is(err, constants.ErrConflict):
		return prefix + ": " + err.Error()
	default:
		return prefix
	}
}

// IsPending reports whether work for (op, target) is in flight.
func (c *Coordinator) IsPending(op Operation, targetID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.pending[Key{Op: op, TargetID: targetID}]
	return ok
}

// Pending lists in-flight work, oldest first.
func (c *Coordinator) Pending() []dtos.PendingMutation {
	c.mu.Lock()
	out := make([]dtos.PendingMutation, 0, len(c.pending))
	for key, t := range c.pending {
		out = append(out, dtos.PendingMutation{
			Operation: string(key.Op),
			TargetID:  key.TargetID,
			StartedAt: t.StartedAt,
		})
	}
	c.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.Before(out[j].StartedAt) })
	return out
}

// Notifications exposes the feed failures are written to.
func (c *Coordinator) Notifications() *common.NotificationFeed {
	return c.feed
}

// Drain waits for in-flight mutations or until ctx ends.
func (c *Coordinator) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
