package bus

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rxtech-lab/argo-equity/internal/logger"
	"github.com/rxtech-lab/argo-equity/internal/metrics"
	"github.com/rxtech-lab/argo-equity/internal/types"
	"github.com/rxtech-lab/argo-equity/pkg/errors"
	"go.uber.org/zap"
)

// Handler consumes a published event. A returned error is logged by the bus and never
// reaches the publisher.
type Handler func(event types.Event) error

// SubscriptionID identifies one Subscribe call. It is the handle used to unsubscribe.
type SubscriptionID string

type subscription struct {
	id      SubscriptionID
	handler Handler
}

// EventBus is an in-process publish/subscribe router with synchronous delivery.
type EventBus struct {
	mu          sync.Mutex
	subscribers map[types.EventType][]subscription
	log         *logger.Logger
	metrics     *metrics.Metrics
}

// NewEventBus creates an empty bus. m may be nil.
func NewEventBus(log *logger.Logger, m *metrics.Metrics) *EventBus {
	return &EventBus{
		subscribers: make(map[types.EventType][]subscription),
		log:         log.Named("bus"),
		metrics:     m,
	}
}

// Subscribe registers handler under every given type. types.EventTypeWildcard receives all
// events. Subscribing the same handler twice yields two deliveries per event.
func (b *EventBus) Subscribe(eventTypes []types.EventType, handler Handler) SubscriptionID {
	id := SubscriptionID(uuid.New().String())

	b.mu.Lock()
	defer b.mu.Unlock()

	for _, eventType := range eventTypes {
		b.subscribers[eventType] = append(b.subscribers[eventType], subscription{id: id, handler: handler})
	}

	return id
}

// Unsubscribe removes the subscription from every type it was registered under.
// Unknown ids are ignored.
func (b *EventBus) Unsubscribe(id SubscriptionID) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for eventType, subs := range b.subscribers {
		kept := make([]subscription, 0, len(subs))

		for _, sub := range subs {
			if sub.id != id {
				kept = append(kept, sub)
			}
		}

		if len(kept) == 0 {
			delete(b.subscribers, eventType)
		} else {
			b.subscribers[eventType] = kept
		}
	}
}

// Publish delivers event to the handlers of its type, in registration order, and then to
// wildcard handlers. Handlers run on the caller's goroutine without the registry lock held.
func (b *EventBus) Publish(event types.Event) {
	b.mu.Lock()
	handlers := make([]subscription, 0, len(b.subscribers[event.Type])+len(b.subscribers[types.EventTypeWildcard]))

	if event.Type != types.EventTypeWildcard {
		handlers = append(handlers, b.subscribers[event.Type]...)
	}

	handlers = append(handlers, b.subscribers[types.EventTypeWildcard]...)
	b.mu.Unlock()

	b.metrics.EventPublished(event.Type)

	for _, sub := range handlers {
		if err := b.deliver(sub, event); err != nil {
			b.metrics.HandlerFailed(event.Type)
			b.log.Error("Event handler failed",
				zap.String("event_type", string(event.Type)),
				zap.String("symbol", event.SymbolOrEmpty()),
				zap.String("subscription", string(sub.id)),
				zap.Error(err),
			)
		}
	}
}

// SubscriberCount returns how many handlers are registered directly under eventType.
func (b *EventBus) SubscriberCount(eventType types.EventType) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.subscribers[eventType])
}

func (b *EventBus) deliver(sub subscription, event types.Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Newf(errors.ErrCodeHandlerFailed, "handler panicked: %v", r)
		}
	}()

	if handlerErr := sub.handler(event); handlerErr != nil {
		return errors.Wrap(errors.ErrCodeHandlerFailed, "handler returned an error", handlerErr)
	}

	return nil
}
