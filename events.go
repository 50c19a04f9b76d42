package main

// EventType names a domain event carried by the Bus
type EventType int

const (
	// EventPlayerHit fires once per hit window, when the player first
	// overlaps a mob while vulnerable
	EventPlayerHit EventType = iota
	// EventEnemyKilled fires when a fireball resolves its first (and only)
	// mob overlap
	EventEnemyKilled
	// EventHealthCollected fires when the player touches a pickup;
	// Amount carries the heal value
	EventHealthCollected
	// EventRoundReady fires after a round has been reset and the player
	// repositioned, before mobs start spawning
	EventRoundReady
	// EventGameOver fires exactly once per round, when health reaches zero
	EventGameOver
)

// Event is a domain event with its (optional) payload fields
type Event struct {
	Type   EventType
	Amount int // heal amount for EventHealthCollected
	Score  int // final score for EventGameOver
}

// Handler receives a published event
type Handler func(Event)

// Bus is a synchronous publish/subscribe dispatcher. Handlers for a type
// run immediately in registration order, on the caller's goroutine. The
// simulation is single-threaded, so no locking is needed.
type Bus struct {
	handlers map[EventType][]Handler
}

// NewBus creates an empty Bus
func NewBus() *Bus {
	return &Bus{handlers: make(map[EventType][]Handler)}
}

// Subscribe registers a handler for the given event type
func (b *Bus) Subscribe(t EventType, h Handler) {
	b.handlers[t] = append(b.handlers[t], h)
}

// Publish delivers the event to all handlers registered for its type,
// in registration order, before returning
func (b *Bus) Publish(e Event) {
	for _, h := range b.handlers[e.Type] {
		h(e)
	}
}

// HandlerCount returns the number of handlers registered for the given type
func (b *Bus) HandlerCount(t EventType) int {
	return len(b.handlers[t])
}
