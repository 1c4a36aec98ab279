package eventbus

import (
	"runtime/debug"
	"sync"

	"bannerloop/internal/domain"
	"bannerloop/internal/log"
)

// Re-export domain types for convenience
type DomainEvent = domain.DomainEvent
type EventType = domain.EventType

// Event type constants
const (
	EventIndexChanged      = domain.EventIndexChanged
	EventAutoplayChanged   = domain.EventAutoplayChanged
	EventGeometryInvalid   = domain.EventGeometryInvalid
	EventNavigationDropped = domain.EventNavigationDropped
	EventConfigLoaded      = domain.EventConfigLoaded
	EventConfigSaved       = domain.EventConfigSaved
	EventRemoteCommand     = domain.EventRemoteCommand
)

// Re-export domain event types
type IndexChangedEvent = domain.IndexChangedEvent
type AutoplayChangedEvent = domain.AutoplayChangedEvent
type GeometryInvalidEvent = domain.GeometryInvalidEvent
type NavigationDroppedEvent = domain.NavigationDroppedEvent
type ConfigLoadedEvent = domain.ConfigLoadedEvent
type ConfigSavedEvent = domain.ConfigSavedEvent
type RemoteCommandEvent = domain.RemoteCommandEvent

// EventHandler is a function that handles domain events
type EventHandler func(DomainEvent)

// Publisher is the publishing half of the bus
type Publisher interface {
	Publish(event DomainEvent)
}

// EventBus is the interface for the event bus
type EventBus interface {
	Publisher
	Subscribe(eventType EventType, handler EventHandler) func()
	Close()
}

type subscription struct {
	id      uint64
	handler EventHandler
}

// bus is the concrete implementation of EventBus
type bus struct {
	mu        sync.RWMutex
	handlers  map[EventType][]subscription
	nextID    uint64
	eventChan chan DomainEvent
	wg        sync.WaitGroup
	quit      chan struct{}
	closeOnce sync.Once
}

// New creates a new event bus
func New() EventBus {
	b := &bus{
		handlers:  make(map[EventType][]subscription),
		eventChan: make(chan DomainEvent, 1000),
		quit:      make(chan struct{}),
	}

	// Start the event dispatcher
	b.wg.Add(1)
	go b.dispatch()

	return b
}

// Publish publishes an event to all subscribers
func (b *bus) Publish(event DomainEvent) {
	// Navigation drops happen at key-repeat rate
	if event.Type() != EventNavigationDropped {
		log.Debug("eventbus publish", "event", event.Type())
	}

	select {
	case <-b.quit:
		return
	default:
	}

	select {
	case b.eventChan <- event:
	default:
		log.Warn("event bus channel full, dropping event", "event", event.Type())
	}
}

// Subscribe subscribes to events of a specific type
// Returns an unsubscribe function
func (b *bus) Subscribe(eventType EventType, handler EventHandler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.handlers[eventType] = append(b.handlers[eventType], subscription{id: id, handler: handler})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		subs := b.handlers[eventType]
		for i, s := range subs {
			if s.id == id {
				b.handlers[eventType] = append(subs[:i:i], subs[i+1:]...)
				break
			}
		}
	}
}

// Close stops the dispatcher. Events still queued are discarded.
func (b *bus) Close() {
	b.closeOnce.Do(func() {
		close(b.quit)
	})
	b.wg.Wait()
}

// dispatch delivers events in publish order, one handler at a time
func (b *bus) dispatch() {
	defer b.wg.Done()

	for {
		select {
		case event := <-b.eventChan:
			b.mu.RLock()
			subs := make([]subscription, len(b.handlers[event.Type()]))
			copy(subs, b.handlers[event.Type()])
			b.mu.RUnlock()

			for _, s := range subs {
				b.deliver(s.handler, event)
			}

		case <-b.quit:
			// Drain remaining events
			for {
				select {
				case <-b.eventChan:
				default:
					return
				}
			}
		}
	}
}

func (b *bus) deliver(h EventHandler, event DomainEvent) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("event handler panic", "event", event.Type(), "panic", r, "stack", string(debug.Stack()))
		}
	}()
	h(event)
}

// Discard is a Publisher that drops every event
type Discard struct{}

func (Discard) Publish(DomainEvent) {}
