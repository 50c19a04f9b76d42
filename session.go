package main

import (
	"fmt"
	"math"
	"math/rand"
)

const (
	StartingHealth   = 4
	StartDelay       = 2.0 // seconds between "Get Ready" and the first mob
	MobSpawnInterval = 0.5 // seconds between mob spawns
	HealthKillsMin   = 6   // inclusive bounds for the pickup-spawn threshold
	HealthKillsMax   = 14
	SpawnAngleJitter = math.Pi / 4 // heading perturbation, +/- 45 degrees
)

// SessionController owns the score/health/kill-count state of one run and
// reacts to domain events published by the entities. It never references
// mobs, fireballs or pickups directly; it only observes their events and
// asks the owning Game to spawn new entities.
type SessionController struct {
	score               int
	health              int
	startingHealth      int
	killCount           int
	nextHealthThreshold int
	over                bool

	game  *Game
	hud   HUDSink
	audio AudioSink
	rng   *rand.Rand
}

// NewSessionController wires a controller to its collaborators and
// subscribes it to the domain events. A missing collaborator is a fatal
// configuration error: the round must not start without its HUD, audio
// sink, or owner.
func NewSessionController(game *Game, hud HUDSink, audio AudioSink, rng *rand.Rand) (*SessionController, error) {
	if game == nil {
		return nil, fmt.Errorf("session: game is required")
	}
	if hud == nil {
		return nil, fmt.Errorf("session: HUD sink is required")
	}
	if audio == nil {
		return nil, fmt.Errorf("session: audio sink is required")
	}
	if rng == nil {
		return nil, fmt.Errorf("session: random source is required")
	}

	s := &SessionController{
		startingHealth: StartingHealth,
		game:           game,
		hud:            hud,
		audio:          audio,
		rng:            rng,
	}
	game.bus.Subscribe(EventPlayerHit, func(Event) { s.onPlayerHit() })
	game.bus.Subscribe(EventEnemyKilled, func(Event) { s.onEnemyKilled() })
	game.bus.Subscribe(EventHealthCollected, func(e Event) { s.onHealthCollected(e.Amount) })
	return s, nil
}

// Score returns the current score
func (s *SessionController) Score() int { return s.score }

// Health returns the current health
func (s *SessionController) Health() int { return s.health }

// KillCount returns kills since the last pickup spawn
func (s *SessionController) KillCount() int { return s.killCount }

// NextHealthThreshold returns the kill count that triggers the next pickup
func (s *SessionController) NextHealthThreshold() int { return s.nextHealthThreshold }

// Over reports whether the round has ended
func (s *SessionController) Over() bool { return s.over }

// NewRound resets the session and starts a round: the player reappears at
// the start marker, the HUD shows "Get Ready", music plays, and after a
// short delay the mob timer begins ticking.
func (s *SessionController) NewRound() {
	s.score = 0
	s.health = s.startingHealth
	s.killCount = 0
	s.nextHealthThreshold = s.drawThreshold()
	s.over = false

	// Stale timers from the previous round (invincibility, flash) must not
	// fire into the new one.
	s.game.sched.InvalidateAll()
	s.game.mobTimer.Stop()

	x, y := s.game.StartPosition()
	s.game.player.Start(x, y)

	s.game.sched.After(StartDelay, func() {
		s.game.mobTimer.Start()
	})

	s.hud.UpdateScore(s.score)
	s.hud.UpdateHealth(s.health)
	s.hud.ShowMessage("Get Ready")
	s.audio.Play(StreamMusic)

	s.game.bus.Publish(Event{Type: EventRoundReady})
}

// onPlayerHit decrements health, clamped at zero. At zero the round ends;
// otherwise the player respawns in place with an invincibility window and
// the hit flash.
func (s *SessionController) onPlayerHit() {
	if s.health > 0 {
		s.health--
	}
	s.hud.UpdateHealth(s.health)

	if s.health <= 0 {
		s.gameOver()
		return
	}
	p := s.game.player
	p.Respawn(p.X, p.Y)
	p.FlashRed()
}

// onEnemyKilled bumps score and the kill counter. When the counter reaches
// the drawn threshold a pickup spawns, the counter resets, and a fresh
// threshold is drawn.
func (s *SessionController) onEnemyKilled() {
	s.score++
	s.hud.UpdateScore(s.score)

	s.killCount++
	if s.killCount >= s.nextHealthThreshold {
		s.spawnPickup()
		s.killCount = 0
		s.nextHealthThreshold = s.drawThreshold()
	}
}

// onHealthCollected heals, clamped to the starting health
func (s *SessionController) onHealthCollected(amount int) {
	s.health = s.health + amount
	if s.health > s.startingHealth {
		s.health = s.startingHealth
	}
	s.hud.UpdateHealth(s.health)
}

// OnMobSpawnTick samples the spawn path at a uniform progress fraction,
// perturbs the inward heading by up to +/- 45 degrees, and spawns a mob
// with a speed drawn uniformly from its configured range.
func (s *SessionController) OnMobSpawnTick() {
	x, y, tangent := s.game.path.Sample(s.rng.Float64())
	heading := Inward(tangent) + (s.rng.Float64()*2-1)*SpawnAngleJitter

	min, max := s.game.cfg.MobMinSpeed, s.game.cfg.MobMaxSpeed
	speed := min + s.rng.Float64()*(max-min)

	s.game.AddMob(NewMob(x, y, heading, speed, s.rng.Intn(mobAnimCount)))
}

// spawnPickup drops a health orb at a random on-screen position; one in
// ten heals for three, the rest for one
func (s *SessionController) spawnPickup() {
	x := s.rng.Float64() * s.game.cfg.ScreenWidth
	y := s.rng.Float64() * s.game.cfg.ScreenHeight

	amount := PickupHealSmall
	if s.rng.Float64() < PickupBigChance {
		amount = PickupHealBig
	}
	s.game.AddPickup(NewPickup(x, y, amount, s.game.bus))
}

// gameOver ends the round exactly once: the mob timer stops, the HUD shows
// the game-over screen, the music stops and the death cue plays
func (s *SessionController) gameOver() {
	if s.over {
		return
	}
	s.over = true

	s.game.mobTimer.Stop()
	s.hud.ShowGameOver()
	s.audio.Stop(StreamMusic)
	s.audio.Play(StreamDeath)

	s.game.bus.Publish(Event{Type: EventGameOver, Score: s.score})
}

// drawThreshold draws the next pickup threshold uniformly from
// [HealthKillsMin, HealthKillsMax]
func (s *SessionController) drawThreshold() int {
	return HealthKillsMin + s.rng.Intn(HealthKillsMax-HealthKillsMin+1)
}
