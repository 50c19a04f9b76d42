package main

const (
	MobRadius        = 32.0
	MobMinSpeed      = 150.0
	MobMaxSpeed      = 250.0
	MobDespawnMargin = 100.0 // how far past the screen edge a mob may drift before despawn

	mobAnimCount = 3 // walk/swim/fly variants, chosen at spawn for the client
)

// Mob is a creep that drifts across the screen in a straight line. Speed is
// drawn per instance from [MinSpeed, MaxSpeed] at spawn time; after that the
// mob never steers. It dies to a fireball or despawns once fully off-screen.
type Mob struct {
	ID       string
	X, Y     float64
	VX, VY   float64
	Rotation float64
	Radius   float64
	Category Category
	Anim     int
	Alive    bool
}

// NewMob spawns a mob at the given position, moving at speed along heading
func NewMob(x, y, heading, speed float64, anim int) *Mob {
	vx, vy := Rotate(speed, 0, heading)
	return &Mob{
		ID:       GenerateID(4),
		X:        x,
		Y:        y,
		VX:       vx,
		VY:       vy,
		Rotation: NormalizeAngle(heading),
		Radius:   MobRadius,
		Category: CategoryMobs,
		Anim:     anim,
		Alive:    true,
	}
}

// Update moves the mob one tick
func (m *Mob) Update(dt float64) {
	if !m.Alive {
		return
	}
	m.X += m.VX * dt
	m.Y += m.VY * dt
}

// OffScreen reports whether the mob has fully left the playfield plus the
// despawn margin. Mobs spawn just outside the screen, so the margin must
// exceed the spawn-path offset or they would despawn instantly.
func (m *Mob) OffScreen(screenW, screenH float64) bool {
	return m.X < -MobDespawnMargin ||
		m.X > screenW+MobDespawnMargin ||
		m.Y < -MobDespawnMargin ||
		m.Y > screenH+MobDespawnMargin
}

// ToState converts to protocol state
func (m *Mob) ToState() MobState {
	return MobState{
		ID:   m.ID,
		X:    round1(m.X),
		Y:    round1(m.Y),
		R:    round1(m.Rotation),
		Anim: m.Anim,
	}
}
