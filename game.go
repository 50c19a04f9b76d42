package main

import (
	"encoding/json"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

const (
	TickRate       = 60 // physics ticks per second
	BroadcastRate  = 30 // state broadcasts per second
	TickDuration   = time.Second / TickRate
	BroadcastEvery = TickRate / BroadcastRate
)

const (
	maxMobsPerGame      = 200
	maxFireballsPerGame = 100
)

// RunResult summarizes a finished round for persistence
type RunResult struct {
	Score       int
	Duration    float64 // seconds
	MobsSpawned int
}

// Game owns one run of the simulation: the player, the transient entities,
// the scheduler and the event bus. It advances on a fixed step; all entity
// callbacks run on the tick goroutine, so entity state needs no locking of
// its own. The step order is fixed: timers, player, fireballs, mobs,
// overlap pass, deferred flush, sweep — every overlap notification for a
// step is delivered before the step ends, and collision-state mutations
// queued during the pass take effect only at the flush point.
type Game struct {
	mu  sync.Mutex
	cfg GameConfig

	bus     *Bus
	sched   *Scheduler
	path    *SpawnPath
	player  *Player
	session *SessionController

	mobTimer *Ticker

	mobs      map[string]*Mob
	fireballs map[string]*Fireball
	pickups   map[string]*Pickup

	input   InputTracker
	clients map[string]Broadcaster

	tick        uint64
	running     bool
	stop        chan struct{}
	roundStart  time.Time
	mobsSpawned int
	onResult    func(RunResult)
}

// NewGame assembles a game from its configuration and sinks. The HUD and
// audio sinks are required collaborators; a nil sink or an invalid config
// aborts construction.
func NewGame(cfg GameConfig, hud HUDSink, audio AudioSink, rng *rand.Rand) (*Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	g := &Game{
		cfg:       cfg,
		bus:       NewBus(),
		sched:     NewScheduler(),
		path:      NewSpawnPath(cfg.ScreenWidth, cfg.ScreenHeight, cfg.SpawnMargin),
		mobs:      make(map[string]*Mob),
		fireballs: make(map[string]*Fireball),
		pickups:   make(map[string]*Pickup),
		clients:   make(map[string]Broadcaster),
		stop:      make(chan struct{}),
	}
	g.player = NewPlayer(cfg.ScreenWidth, cfg.ScreenHeight, g.bus, g.sched)

	session, err := NewSessionController(g, hud, audio, rng)
	if err != nil {
		return nil, err
	}
	g.session = session
	g.mobTimer = g.sched.Every(MobSpawnInterval, session.OnMobSpawnTick)

	g.bus.Subscribe(EventRoundReady, func(Event) {
		g.roundStart = time.Now()
		g.mobsSpawned = 0
	})
	g.bus.Subscribe(EventGameOver, func(e Event) {
		if g.onResult == nil {
			return
		}
		g.onResult(RunResult{
			Score:       e.Score,
			Duration:    time.Since(g.roundStart).Seconds(),
			MobsSpawned: g.mobsSpawned,
		})
	})
	return g, nil
}

// SetResultHandler installs the callback invoked once per game over.
// The handler runs on the tick goroutine and must not block.
func (g *Game) SetResultHandler(fn func(RunResult)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.onResult = fn
}

// Run starts the fixed-step loop
func (g *Game) Run() {
	g.mu.Lock()
	g.running = true
	g.mu.Unlock()

	ticker := time.NewTicker(TickDuration)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			g.update()
		case <-g.stop:
			return
		}
	}
}

// Stop terminates the loop
func (g *Game) Stop() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.running {
		g.running = false
		close(g.stop)
	}
}

// NewRound resets and starts a round
func (g *Game) NewRound() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.mobs = make(map[string]*Mob)
	g.fireballs = make(map[string]*Fireball)
	g.pickups = make(map[string]*Pickup)
	g.input.Reset()
	g.session.NewRound()
}

// Bus exposes the event bus. Subscribe only before Run starts.
func (g *Game) Bus() *Bus {
	return g.bus
}

// Session exposes the controller for status queries
func (g *Game) Session() *SessionController {
	return g.session
}

// StartPosition is the marker the player starts and is repositioned at
func (g *Game) StartPosition() (float64, float64) {
	return g.cfg.ScreenWidth / 2, g.cfg.ScreenHeight * 0.625
}

// ScreenSize returns the playfield dimensions
func (g *Game) ScreenSize() (float64, float64) {
	return g.cfg.ScreenWidth, g.cfg.ScreenHeight
}

// SetInput replaces the level-sensed input snapshot for the next ticks
func (g *Game) SetInput(in InputState) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.input.Set(in)
}

// AddMob registers a spawned mob with the world
func (g *Game) AddMob(m *Mob) {
	if len(g.mobs) >= maxMobsPerGame {
		return
	}
	g.mobs[m.ID] = m
	g.mobsSpawned++
}

// AddPickup registers a spawned pickup with the world
func (g *Game) AddPickup(p *Pickup) {
	g.pickups[p.ID] = p
}

// AddClient attaches a broadcaster receiving state and HUD traffic
func (g *Game) AddClient(id string, b Broadcaster) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.clients[id] = b
}

// RemoveClient detaches a broadcaster
func (g *Game) RemoveClient(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.clients, id)
}

// ClientCount returns the number of attached clients
func (g *Game) ClientCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.clients)
}

// update runs one locked game tick
func (g *Game) update() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.step(1.0 / float64(TickRate))

	if g.tick%BroadcastEvery == 0 {
		g.broadcastState()
	}
}

// step advances the simulation by dt seconds. Exposed to tests through
// direct calls; the network loop drives it via update().
func (g *Game) step(dt float64) {
	// 1. Timers fire first so a round that just became ready spawns mobs
	// on the same tick cadence the original scene did.
	g.sched.Advance(dt)

	// 2. Player movement and fire control.
	in, fireJustPressed := g.input.Poll()
	g.player.Update(dt, in)
	if fireJustPressed && g.player.Visible && !g.player.Hit {
		g.spawnFireball()
	}

	// 3. Entity integration.
	for _, f := range g.fireballs {
		f.Update(dt)
	}
	for _, m := range g.mobs {
		m.Update(dt)
		if m.Alive && m.OffScreen(g.cfg.ScreenWidth, g.cfg.ScreenHeight) {
			m.Alive = false
		}
	}

	// 4. Overlap pass. All notifications for this step are delivered here,
	// before the deferred flush; latches keep duplicate handling out.
	g.checkOverlaps()

	// 5. Deferred mutations queued during the pass take effect now.
	g.sched.Flush()

	// 6. Sweep destroyed entities.
	for id, m := range g.mobs {
		if !m.Alive {
			delete(g.mobs, id)
		}
	}
	for id, f := range g.fireballs {
		if !f.Alive {
			delete(g.fireballs, id)
		}
	}
	for id, p := range g.pickups {
		if !p.Alive {
			delete(g.pickups, id)
		}
	}

	g.tick++
}

// spawnFireball launches a fireball from the player's position, aimed by
// the remembered input signs
func (g *Game) spawnFireball() {
	if len(g.fireballs) >= maxFireballsPerGame {
		return
	}
	dirX, dirY, spin := g.player.FireAim()
	f := NewFireball(g.player.X, g.player.Y, dirX, dirY, FireballSpeed, spin, g.bus, g.sched)
	g.fireballs[f.ID] = f
}

// checkOverlaps runs the category-partitioned overlap queries: fireballs
// against mobs, mobs against the player, the player against pickups
func (g *Game) checkOverlaps() {
	for _, f := range g.fireballs {
		if !f.Alive || !f.CanDetect() {
			continue
		}
		for _, m := range g.mobs {
			if !m.Alive {
				continue
			}
			if f.OverlapsCircle(m.X, m.Y, m.Radius) {
				f.OnBodyEntered(m)
				break
			}
		}
	}

	if g.player.Visible && g.player.CanDetect() {
		for _, m := range g.mobs {
			if !m.Alive {
				continue
			}
			if g.player.OverlapsCircle(m.X, m.Y, m.Radius) {
				// No break: the latch inside absorbs further overlaps in
				// the same step, which is the behavior under test.
				g.player.OnBodyEntered()
			}
		}
	}

	if g.player.Visible && !g.player.ShapeDisabled {
		for _, p := range g.pickups {
			if !p.Alive || !p.CanDetect() {
				continue
			}
			if p.OverlapsCircle(g.player.X, g.player.Y, g.player.Radius) {
				p.OnPlayerEntered()
			}
		}
	}
}

// broadcastState sends the world snapshot to every attached client as a
// msgpack binary frame
func (g *Game) broadcastState() {
	if len(g.clients) == 0 {
		return
	}
	state := g.snapshotLocked()

	data, err := msgpack.Marshal(state)
	if err != nil {
		log.Printf("game: state marshal: %v", err)
		return
	}
	for _, c := range g.clients {
		c.SendBinary(data)
	}
}

// sendEnvelope fans a JSON envelope out to every attached client; HUD and
// audio sinks forward through here
func (g *Game) sendEnvelope(env Envelope) {
	data, err := json.Marshal(env)
	if err != nil {
		log.Printf("game: envelope marshal: %v", err)
		return
	}
	for _, c := range g.clients {
		if raw, ok := c.(rawSender); ok {
			raw.SendRaw(data)
		} else {
			c.SendJSON(env)
		}
	}
}

// rawSender avoids re-marshaling per client when the payload is shared
type rawSender interface {
	SendRaw(data []byte)
}

// Snapshot returns a copy of the broadcastable world state
func (g *Game) Snapshot() GameState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshotLocked()
}

func (g *Game) snapshotLocked() GameState {
	state := GameState{
		Player:    g.player.ToState(),
		Mobs:      make([]MobState, 0, len(g.mobs)),
		Fireballs: make([]FireballState, 0, len(g.fireballs)),
		Pickups:   make([]PickupState, 0, len(g.pickups)),
		Score:     g.session.Score(),
		Health:    g.session.Health(),
		Tick:      g.tick,
	}
	for _, m := range g.mobs {
		state.Mobs = append(state.Mobs, m.ToState())
	}
	for _, f := range g.fireballs {
		state.Fireballs = append(state.Fireballs, f.ToState())
	}
	for _, p := range g.pickups {
		state.Pickups = append(state.Pickups, p.ToState())
	}
	return state
}
