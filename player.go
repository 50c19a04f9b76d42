package main

import "math"

const (
	PlayerRadius      = 28.0
	PlayerSpeed       = 400.0 // pixels/s
	InvincibilityTime = 0.5   // seconds of post-respawn invincibility
	HitFlashTime      = 0.2   // seconds the hit flash stays on
)

// Player is the avatar. Its lifecycle is a small state machine:
//
//	Hidden (pre-round) -> Alive-Vulnerable -> Hit-Transition ->
//	Alive-Invincible -> Alive-Vulnerable -> ... -> terminal on game over
//
// The Hit latch gates duplicate overlap handling: however many mobs touch
// the player inside one hit window, exactly one hit event is emitted, and
// the latch clears only on the invincibility-timer transition.
type Player struct {
	Area
	Speed          float64
	LastHorizontal float64 // sign of the last non-zero horizontal input
	LastVertical   float64 // sign of the last non-zero vertical input
	Hit            bool
	Visible        bool
	Anim           string // "right", "up", or "" when standing
	FlipH, FlipV   bool
	Flash          bool // hit feedback, broadcast to clients

	screenW float64
	screenH float64
	bus     *Bus
	sched   *Scheduler
}

// NewPlayer creates the player in the Hidden pre-round state
func NewPlayer(screenW, screenH float64, bus *Bus, sched *Scheduler) *Player {
	return &Player{
		Area: Area{
			Radius:        PlayerRadius,
			Category:      CategoryPlayer,
			ShapeDisabled: true,
		},
		Speed:          PlayerSpeed,
		LastHorizontal: 1,
		LastVertical:   -1,
		screenW:        screenW,
		screenH:        screenH,
		bus:            bus,
		sched:          sched,
	}
}

// Start transitions Hidden -> Alive-Vulnerable at the given position
func (p *Player) Start(x, y float64) {
	p.X = x
	p.Y = y
	p.Visible = true
	p.Hit = false
	// A restart can invalidate a pending flash-clear timer, so the flag
	// is reset here rather than trusted to the old round's timer.
	p.Flash = false
	p.sched.Defer(func() {
		p.ShapeDisabled = false
		p.Monitoring = true
	})
}

// OnBodyEntered handles the first qualifying mob overlap while vulnerable.
// The latch makes repeat overlaps within the same hit window no-ops.
func (p *Player) OnBodyEntered() {
	if p.Hit {
		return
	}
	p.Hit = true
	p.Visible = false
	p.bus.Publish(Event{Type: EventPlayerHit})

	// Disabling collision immediately would corrupt the in-flight overlap
	// pass; it takes effect after the step completes.
	p.sched.Defer(func() {
		p.ShapeDisabled = true
		p.Monitoring = false
	})
}

// Respawn puts the player back at pos with an invincibility window. The
// collision shape stays off until the timer fires; the timer cannot be
// cancelled, so a stale fire after a round reset is neutralized by the
// scheduler's epoch, not by this code.
func (p *Player) Respawn(x, y float64) {
	p.X = x
	p.Y = y
	p.Visible = true
	p.sched.Defer(func() {
		p.ShapeDisabled = true
	})
	p.sched.After(InvincibilityTime, p.enableCollision)
}

// enableCollision ends the invincibility window: Alive-Invincible ->
// Alive-Vulnerable
func (p *Player) enableCollision() {
	p.sched.Defer(func() {
		p.ShapeDisabled = false
		p.Monitoring = true
		p.Hit = false
	})
}

// FlashRed turns on the hit flash for HitFlashTime seconds
func (p *Player) FlashRed() {
	p.Flash = true
	p.sched.After(HitFlashTime, func() {
		p.Flash = false
	})
}

// Update integrates one frame of movement from level-sensed input: the four
// directional impulses sum into one vector, which is normalized, scaled by
// speed and applied; the result is clamped to the screen. Animation is
// chosen by the dominant axis and flipped by sign.
func (p *Player) Update(dt float64, in InputState) {
	if !p.Visible {
		return
	}

	var vx, vy float64
	if in.Right {
		vx += 1
		p.LastHorizontal = 1
	}
	if in.Left {
		vx -= 1
		p.LastHorizontal = -1
	}
	if in.Down {
		vy += 1
		p.LastVertical = 1
	}
	if in.Up {
		vy -= 1
		p.LastVertical = -1
	}

	if vx != 0 || vy != 0 {
		length := math.Sqrt(vx*vx + vy*vy)
		vx = vx / length * p.Speed
		vy = vy / length * p.Speed

		if vx != 0 {
			p.Anim = "right"
			p.FlipV = false
			p.FlipH = vx < 0
		} else {
			p.Anim = "up"
			p.FlipV = vy > 0
		}
	} else {
		p.Anim = ""
	}

	p.X = Clamp(p.X+vx*dt, 0, p.screenW)
	p.Y = Clamp(p.Y+vy*dt, 0, p.screenH)
}

// FireAim returns the launch direction and curvature for a new fireball.
// Aim is vertical only, by the last non-zero vertical input sign; the
// curvature sign combines both remembered axes so the shot arcs sideways.
func (p *Player) FireAim() (dirX, dirY, angularSpeed float64) {
	dirY = -1
	if p.LastVertical > 0 {
		dirY = 1
	}
	return 0, dirY, FireballSpin * p.LastHorizontal * -p.LastVertical
}

// ToState converts to protocol state
func (p *Player) ToState() PlayerState {
	return PlayerState{
		X:       round1(p.X),
		Y:       round1(p.Y),
		Anim:    p.Anim,
		FlipH:   p.FlipH,
		FlipV:   p.FlipV,
		Visible: p.Visible,
		Flash:   p.Flash,
	}
}
