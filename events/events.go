package events

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeBetOpened           EventType = "bet_opened"
	EventTypeBetSettled          EventType = "bet_settled"
	EventTypeWithdrawalCompleted EventType = "withdrawal_completed"
	EventTypeOracleChanged       EventType = "oracle_changed"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// BetOpenedEvent is the audit record of a deposit being escrowed.
type BetOpenedEvent struct {
	AccountID string
	GameID    string
	Amount    int64
	OpenedSeq int64
}

func (e BetOpenedEvent) Type() EventType {
	return EventTypeBetOpened
}

// BetSettledEvent represents a pending bet resolved into a win or loss.
type BetSettledEvent struct {
	AccountID  string
	GameID     string
	Amount     int64
	Won        bool
	Multiplier int64
	Winnings   int64
}

func (e BetSettledEvent) Type() EventType {
	return EventTypeBetSettled
}

// WithdrawalCompletedEvent represents a withdrawable balance being paid out.
type WithdrawalCompletedEvent struct {
	AccountID string
	Amount    int64
}

func (e WithdrawalCompletedEvent) Type() EventType {
	return EventTypeWithdrawalCompleted
}

// OracleChangedEvent represents the authorized resolver identity changing.
type OracleChangedEvent struct {
	OldOracleAccountID string
	NewOracleAccountID string
}

func (e OracleChangedEvent) Type() EventType {
	return EventTypeOracleChanged
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.handlers[eventType] == nil {
		b.handlers[eventType] = make([]Handler, 0)
	}
	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type")
}

// Emit publishes an event to all registered handlers
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	// Call handlers asynchronously to avoid blocking the caller
	for i, handler := range handlers {
		go func(h Handler, handlerIndex int) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType":    event.Type(),
						"handlerIndex": handlerIndex,
						"panic":        r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler, i)
	}
}

// A transactional event bus for holding pending events coupled to the Unit of Work.
// Flushes to the underlying event bus.
type TransactionalBus struct {
	real    *Bus
	pending []Event // stashed until Flush
}

func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

func (b *TransactionalBus) Publish(e Event) {
	b.pending = append(b.pending, e)
}

// called after successful DB commit
func (b *TransactionalBus) Flush(ctx context.Context) error {
	// Events are processed independently of the transaction lifecycle, so the
	// transaction context must not leak into the handlers.
	eventCtx := context.Background()

	for _, ev := range b.pending {
		log.WithFields(log.Fields{
			"eventType": ev.Type(),
		}).Debug("Emitting event to main event bus")
		b.real.Emit(eventCtx, ev)
	}
	b.pending = nil
	return nil
}

// called after db rollback or to clear state.
func (b *TransactionalBus) Discard() {
	b.pending = nil
}
