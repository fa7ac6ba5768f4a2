package shared

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DomainEvent represents an event that has occurred in the domain
type DomainEvent interface {
	EventID() uuid.UUID
	EventName() string
	OccurredAt() time.Time
}

// EventDispatcher dispatches domain events to handlers
type EventDispatcher interface {
	Dispatch(event DomainEvent) error
	Register(eventName string, handler EventHandler)
}

// EventHandler handles domain events
type EventHandler func(event DomainEvent) error

// Wildcard registers a handler for every event name
const Wildcard = "*"

// Dispatcher is a synchronous in-process EventDispatcher
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[string][]EventHandler
}

// NewDispatcher creates an empty dispatcher
func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: make(map[string][]EventHandler)}
}

// Register adds a handler for eventName, or for all events with Wildcard
func (d *Dispatcher) Register(eventName string, handler EventHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[eventName] = append(d.handlers[eventName], handler)
}

// Dispatch runs every matching handler in registration order and joins their errors
func (d *Dispatcher) Dispatch(event DomainEvent) error {
	d.mu.RLock()
	handlers := append([]EventHandler{}, d.handlers[event.EventName()]...)
	handlers = append(handlers, d.handlers[Wildcard]...)
	d.mu.RUnlock()

	var errs []error
	for _, h := range handlers {
		if err := h(event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// AggregateRoot is the base type for aggregate roots
type AggregateRoot struct {
	events []DomainEvent
}

// AddEvent adds a domain event to be dispatched
func (a *AggregateRoot) AddEvent(event DomainEvent) {
	a.events = append(a.events, event)
}

// Events returns and clears pending domain events
func (a *AggregateRoot) Events() []DomainEvent {
	events := a.events
	a.events = []DomainEvent{}
	return events
}

// PendingEvents returns pending events without clearing them
func (a *AggregateRoot) PendingEvents() []DomainEvent {
	return append([]DomainEvent{}, a.events...)
}

// ClearEvents clears all pending events
func (a *AggregateRoot) ClearEvents() {
	a.events = []DomainEvent{}
}
