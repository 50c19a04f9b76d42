package main

import (
	"math"
	"testing"
)

func TestFireballStraightFlight(t *testing.T) {
	bus := NewBus()
	sched := NewScheduler()
	f := NewFireball(100, 100, 0, -1, FireballSpeed, 0, bus, sched)

	f.Update(0.1)
	if f.X != 100 {
		t.Errorf("zero-spin fireball drifted sideways to x=%g", f.X)
	}
	if math.Abs(f.Y-(100-FireballSpeed*0.1)) > 1e-9 {
		t.Errorf("expected y=%g, got %g", 100-FireballSpeed*0.1, f.Y)
	}
}

func TestFireballCurves(t *testing.T) {
	bus := NewBus()
	sched := NewScheduler()
	f := NewFireball(0, 0, 0, -1, FireballSpeed, FireballSpin, bus, sched)

	for i := 0; i < 6; i++ {
		f.Update(1.0 / 60)
	}
	if f.X == 0 {
		t.Error("spinning fireball should curve off its launch axis")
	}
	if f.Rotation == 0 {
		t.Error("rotation should track the curve")
	}

	// Speed magnitude is preserved by rotation
	speed := math.Sqrt(f.VX*f.VX + f.VY*f.VY)
	if math.Abs(speed-FireballSpeed) > 1e-6 {
		t.Errorf("speed changed under rotation: %g", speed)
	}
}

func TestFireballExpires(t *testing.T) {
	bus := NewBus()
	sched := NewScheduler()
	f := NewFireball(0, 0, 0, -1, FireballSpeed, 0, bus, sched)

	steps := int(FireballLifetime*60) + 1
	for i := 0; i < steps; i++ {
		f.Update(1.0 / 60)
	}
	if f.Alive {
		t.Error("fireball should expire after its lifetime")
	}
}

func TestFireballKillsOnce(t *testing.T) {
	bus := NewBus()
	sched := NewScheduler()
	kills := 0
	bus.Subscribe(EventEnemyKilled, func(Event) { kills++ })

	f := NewFireball(0, 0, 0, -1, FireballSpeed, 0, bus, sched)
	m1 := NewMob(0, 0, 0, 200, 0)
	m2 := NewMob(1, 1, 0, 200, 0)

	f.OnBodyEntered(m1)
	f.OnBodyEntered(m2)

	if kills != 1 {
		t.Errorf("expected 1 kill event, got %d", kills)
	}
	if m1.Alive {
		t.Error("first mob should be dead")
	}
	if !m2.Alive {
		t.Error("second mob should survive the spent fireball")
	}
	if f.Alive {
		t.Error("fireball should be destroyed by its hit")
	}
}
