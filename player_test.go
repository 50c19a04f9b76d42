package main

import (
	"math"
	"testing"
)

func newTestPlayer() (*Player, *Bus, *Scheduler) {
	bus := NewBus()
	sched := NewScheduler()
	p := NewPlayer(480, 720, bus, sched)
	return p, bus, sched
}

func TestPlayerStartsHidden(t *testing.T) {
	p, _, sched := newTestPlayer()
	if p.Visible || p.CanDetect() {
		t.Error("player should start hidden with collision off")
	}

	p.Start(240, 450)
	sched.Flush()
	if !p.Visible || !p.CanDetect() {
		t.Error("player should be visible and detectable after Start")
	}
	if p.X != 240 || p.Y != 450 {
		t.Errorf("start position wrong: (%g, %g)", p.X, p.Y)
	}
}

func TestPlayerMovement(t *testing.T) {
	p, _, sched := newTestPlayer()
	p.Start(240, 360)
	sched.Flush()

	p.Update(0.1, InputState{Right: true})
	if math.Abs(p.X-(240+PlayerSpeed*0.1)) > 1e-9 {
		t.Errorf("expected x=%g, got %g", 240+PlayerSpeed*0.1, p.X)
	}
	if p.Anim != "right" || p.FlipH {
		t.Errorf("expected right animation unflipped, got %q flipH=%v", p.Anim, p.FlipH)
	}

	p.Update(0.1, InputState{Left: true})
	if p.Anim != "right" || !p.FlipH {
		t.Errorf("left movement should flip the right animation, got %q flipH=%v", p.Anim, p.FlipH)
	}

	p.Update(0.1, InputState{Down: true})
	if p.Anim != "up" || !p.FlipV {
		t.Errorf("down movement should flip the up animation, got %q flipV=%v", p.Anim, p.FlipV)
	}

	p.Update(0.1, InputState{})
	if p.Anim != "" {
		t.Errorf("standing still should clear animation, got %q", p.Anim)
	}
}

func TestPlayerDiagonalNotFaster(t *testing.T) {
	p, _, sched := newTestPlayer()
	p.Start(240, 360)
	sched.Flush()

	x0, y0 := p.X, p.Y
	p.Update(0.1, InputState{Right: true, Down: true})
	dist := Distance(x0, y0, p.X, p.Y)
	if math.Abs(dist-PlayerSpeed*0.1) > 1e-6 {
		t.Errorf("diagonal speed should equal %g, moved %g", PlayerSpeed*0.1, dist)
	}
}

func TestPlayerClampedToScreen(t *testing.T) {
	p, _, sched := newTestPlayer()
	p.Start(479, 1)
	sched.Flush()

	for i := 0; i < 60; i++ {
		p.Update(1.0/60, InputState{Right: true, Up: true})
	}
	if p.X != 480 || p.Y != 0 {
		t.Errorf("expected clamp to (480, 0), got (%g, %g)", p.X, p.Y)
	}
}

func TestPlayerHiddenIgnoresInput(t *testing.T) {
	p, _, _ := newTestPlayer()
	p.Update(0.1, InputState{Right: true})
	if p.X != 0 {
		t.Errorf("hidden player moved to x=%g", p.X)
	}
}

func TestPlayerHitLatch(t *testing.T) {
	p, bus, sched := newTestPlayer()
	hits := 0
	bus.Subscribe(EventPlayerHit, func(Event) { hits++ })

	p.Start(240, 360)
	sched.Flush()

	p.OnBodyEntered()
	p.OnBodyEntered()
	p.OnBodyEntered()

	if hits != 1 {
		t.Errorf("expected exactly 1 hit event, got %d", hits)
	}
	if p.Visible {
		t.Error("player should hide on hit")
	}

	// Collision turns off only at the flush point
	if !p.CanDetect() {
		t.Error("collision must stay on until the deferred flush")
	}
	sched.Flush()
	if p.CanDetect() {
		t.Error("collision should be off after flush")
	}
}

func TestPlayerRespawnInvincibility(t *testing.T) {
	p, bus, sched := newTestPlayer()
	hits := 0
	bus.Subscribe(EventPlayerHit, func(Event) { hits++ })

	p.Start(240, 360)
	sched.Flush()
	p.OnBodyEntered()
	sched.Flush()

	p.Respawn(p.X, p.Y)
	sched.Flush()
	if !p.Visible {
		t.Error("player should be visible after respawn")
	}
	if p.CanDetect() {
		t.Error("player should be invincible right after respawn")
	}

	// Overlaps during the window are ignored (latch still set, shape off)
	p.OnBodyEntered()
	if hits != 1 {
		t.Errorf("hit registered during invincibility, hits=%d", hits)
	}

	sched.Advance(InvincibilityTime)
	sched.Flush()
	if !p.CanDetect() {
		t.Error("collision should re-enable after the invincibility window")
	}
	if p.Hit {
		t.Error("hit latch should clear with the window")
	}

	p.OnBodyEntered()
	if hits != 2 {
		t.Errorf("expected a second hit after the window, got %d", hits)
	}
}

func TestPlayerFlashRed(t *testing.T) {
	p, _, sched := newTestPlayer()
	p.FlashRed()
	if !p.Flash {
		t.Error("flash should be on")
	}
	sched.Advance(HitFlashTime)
	if p.Flash {
		t.Error("flash should clear after its window")
	}
}

func TestPlayerStartClearsFlash(t *testing.T) {
	p, _, sched := newTestPlayer()
	p.FlashRed()
	// Restarting invalidates the clear timer, so Start must reset the flag itself.
	sched.InvalidateAll()
	p.Start(240, 360)
	sched.Flush()
	if p.Flash {
		t.Error("flash should be off after a fresh start")
	}
}

func TestPlayerFireAim(t *testing.T) {
	p, _, sched := newTestPlayer()

	// Defaults: facing right, aiming up
	dx, dy, spin := p.FireAim()
	if dx != 0 || dy != -1 {
		t.Errorf("default aim should be up, got (%g, %g)", dx, dy)
	}
	if spin != FireballSpin {
		t.Errorf("expected spin %g, got %g", FireballSpin, spin)
	}

	p.Start(240, 360)
	sched.Flush()

	p.Update(0.01, InputState{Down: true, Left: true})
	_, dy, spin = p.FireAim()
	if dy != 1 {
		t.Errorf("aim should follow last vertical input down, got dy=%g", dy)
	}
	if spin != FireballSpin {
		t.Errorf("left+down should spin positive, got %g", spin)
	}

	p.Update(0.01, InputState{Down: true, Right: true})
	_, _, spin = p.FireAim()
	if spin != -FireballSpin {
		t.Errorf("right+down should spin negative, got %g", spin)
	}
}
