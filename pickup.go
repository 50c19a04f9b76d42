package main

const (
	PickupRadius    = 16.0
	PickupHealBig   = 3
	PickupHealSmall = 1
	PickupBigChance = 0.1
)

// Pickup is a passive health orb. It reacts only to the player category:
// on first contact it emits collected(healAmount) and self-destructs.
// Contact with mobs or fireballs leaves it inert.
type Pickup struct {
	Area
	ID         string
	HealAmount int
	Collected  bool
	Alive      bool

	bus *Bus
}

// NewPickup places a pickup at (x, y) with the given heal amount
func NewPickup(x, y float64, amount int, bus *Bus) *Pickup {
	return &Pickup{
		Area: Area{
			X:          x,
			Y:          y,
			Radius:     PickupRadius,
			Category:   CategoryPickups,
			Monitoring: true,
		},
		ID:         GenerateID(4),
		HealAmount: amount,
		Alive:      true,
		bus:        bus,
	}
}

// OnPlayerEntered resolves contact with the player. The Collected latch
// makes the heal fire at most once.
func (p *Pickup) OnPlayerEntered() {
	if p.Collected || !p.Alive {
		return
	}
	p.Collected = true
	p.bus.Publish(Event{Type: EventHealthCollected, Amount: p.HealAmount})
	p.Alive = false
}

// Scale returns the visual scale broadcast with the pickup: big heals
// render at full size, small ones at half
func (p *Pickup) Scale() float64 {
	if p.HealAmount > 1 {
		return 1.0
	}
	return 0.5
}

// ToState converts to protocol state
func (p *Pickup) ToState() PickupState {
	return PickupState{
		ID:    p.ID,
		X:     round1(p.X),
		Y:     round1(p.Y),
		Scale: p.Scale(),
	}
}
