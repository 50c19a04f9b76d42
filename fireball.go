package main

const (
	FireballRadius   = 12.0
	FireballSpeed    = 600.0 // pixels/s
	FireballSpin     = 10.0  // base angular speed magnitude, radians/s
	FireballLifetime = 3.0   // seconds
)

// Fireball is the player's curved projectile. Each tick its velocity (and
// facing) rotate by AngularSpeed*dt, producing an arcing path. HasHit
// guarantees at most one kill per fireball even if two mobs overlap it in
// the same step.
type Fireball struct {
	Area
	ID           string
	VX, VY       float64
	AngularSpeed float64
	Rotation     float64
	Life         float64
	HasHit       bool
	Alive        bool

	bus   *Bus
	sched *Scheduler
}

// NewFireball launches a fireball from (x, y) along the unit direction
// (dirX, dirY), curving at angularSpeed radians/s
func NewFireball(x, y, dirX, dirY, speed, angularSpeed float64, bus *Bus, sched *Scheduler) *Fireball {
	f := &Fireball{
		Area: Area{
			X:          x,
			Y:          y,
			Radius:     FireballRadius,
			Category:   CategoryFireballs,
			Monitoring: true,
		},
		ID:           GenerateID(3),
		VX:           dirX * speed,
		VY:           dirY * speed,
		AngularSpeed: angularSpeed,
		Life:         FireballLifetime,
		Alive:        true,
		bus:          bus,
		sched:        sched,
	}
	return f
}

// Update advances the fireball one tick: the velocity rotates by
// AngularSpeed*dt, the position advances by the rotated velocity, and the
// facing tracks the curve. Expires after FireballLifetime regardless of
// hit state.
func (f *Fireball) Update(dt float64) {
	if !f.Alive {
		return
	}
	rot := f.AngularSpeed * dt
	f.VX, f.VY = Rotate(f.VX, f.VY, rot)
	f.Rotation += rot
	f.X += f.VX * dt
	f.Y += f.VY * dt

	f.Life -= dt
	if f.Life <= 0 {
		f.Alive = false
	}
}

// OnBodyEntered resolves an overlap with a mob-category body. The first
// qualifying overlap kills the mob, emits enemy_killed, and destroys the
// fireball; the HasHit latch suppresses any near-simultaneous duplicate.
func (f *Fireball) OnBodyEntered(m *Mob) {
	if f.HasHit || !f.Alive {
		return
	}
	f.HasHit = true
	m.Alive = false
	f.bus.Publish(Event{Type: EventEnemyKilled})

	// Stop monitoring after the current step finishes; the collision pass
	// may still be iterating this area.
	f.sched.Defer(func() {
		f.Monitoring = false
	})
	f.Alive = false
}

// ToState converts to protocol state
func (f *Fireball) ToState() FireballState {
	return FireballState{
		ID: f.ID,
		X:  round1(f.X),
		Y:  round1(f.Y),
		R:  round1(f.Rotation),
	}
}
