package plume

import (
	"maps"
	"sync"

	"github.com/akmonengine/plume/hull"
)

const (
	COLLISION_ENTER EventType = iota
	COLLISION_STAY
	COLLISION_EXIT
)

type pairKey struct {
	bodyA int
	bodyB int
}

// makePairKey creates a normalized pair key with consistent ordering
func makePairKey(bodyA, bodyB int) pairKey {
	if bodyB < bodyA {
		bodyA, bodyB = bodyB, bodyA
	}
	return pairKey{bodyA: bodyA, bodyB: bodyB}
}

type EventType uint8

func (t EventType) String() string {
	switch t {
	case COLLISION_ENTER:
		return "enter"
	case COLLISION_STAY:
		return "stay"
	case COLLISION_EXIT:
		return "exit"
	}
	return "unknown"
}

// Event interface - all events implement this
type Event interface {
	Type() EventType
}

// CollisionEnterEvent is sent on the first tick two bodies touch.
type CollisionEnterEvent struct {
	BodyA     int
	BodyB     int
	Collision hull.Collision
}

func (e CollisionEnterEvent) Type() EventType { return COLLISION_ENTER }

// CollisionStayEvent is sent on every following tick they still touch.
type CollisionStayEvent struct {
	BodyA     int
	BodyB     int
	Collision hull.Collision
}

func (e CollisionStayEvent) Type() EventType { return COLLISION_STAY }

// CollisionExitEvent is sent on the first tick they no longer touch.
type CollisionExitEvent struct {
	BodyA int
	BodyB int
}

func (e CollisionExitEvent) Type() EventType { return COLLISION_EXIT }

// EventListener - callback for events
type EventListener func(event Event)

// Events tracks touching pairs across ticks and dispatches collision events.
// Listeners run on the simulation goroutine after the tick is published.
type Events struct {
	mu sync.Mutex
	// Listeners by event type
	listeners map[EventType][]EventListener

	// Event buffer to send at flush
	buffer []Event

	// Collision tracking for Enter/Stay/Exit detection
	previousActivePairs map[pairKey]bool
	currentActivePairs  map[pairKey]hull.Collision
}

func NewEvents() Events {
	return Events{
		listeners:           make(map[EventType][]EventListener),
		buffer:              make([]Event, 0, 64),
		previousActivePairs: make(map[pairKey]bool),
		currentActivePairs:  make(map[pairKey]hull.Collision),
	}
}

// Subscribe adds a listener for an event type. It is safe to call while the
// world is running.
func (e *Events) Subscribe(eventType EventType, listener EventListener) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners[eventType] = append(e.listeners[eventType], listener)
}

// reset forgets every tracked pair, keeping the listeners.
func (e *Events) reset() {
	clear(e.previousActivePairs)
	clear(e.currentActivePairs)
	e.buffer = e.buffer[:0]
}

// recordCollisions marks the touching pairs of the current tick.
func (e *Events) recordCollisions(contacts []Contact) {
	for _, c := range contacts {
		e.currentActivePairs[makePairKey(c.BodyA, c.BodyB)] = c.Collision
	}
}

// processCollisionEvents compares current and previous pairs to detect Enter/Stay/Exit
func (e *Events) processCollisionEvents() {
	for pair, collision := range e.currentActivePairs {
		if e.previousActivePairs[pair] {
			e.buffer = append(e.buffer, CollisionStayEvent{
				BodyA:     pair.bodyA,
				BodyB:     pair.bodyB,
				Collision: collision,
			})
		} else {
			e.buffer = append(e.buffer, CollisionEnterEvent{
				BodyA:     pair.bodyA,
				BodyB:     pair.bodyB,
				Collision: collision,
			})
		}
	}

	for pair := range e.previousActivePairs {
		if _, ok := e.currentActivePairs[pair]; !ok {
			e.buffer = append(e.buffer, CollisionExitEvent{
				BodyA: pair.bodyA,
				BodyB: pair.bodyB,
			})
		}
	}

	// Swap for next tick and clear current
	clear(e.previousActivePairs)
	for pair := range e.currentActivePairs {
		e.previousActivePairs[pair] = true
	}
	clear(e.currentActivePairs)
}

// flush sends all buffered events and clears the buffer
func (e *Events) flush() {
	e.processCollisionEvents()

	e.mu.Lock()
	listeners := maps.Clone(e.listeners)
	e.mu.Unlock()

	for _, event := range e.buffer {
		for _, listener := range listeners[event.Type()] {
			listener(event)
		}
	}
	e.buffer = e.buffer[:0]
}
