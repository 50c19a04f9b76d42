package main

import (
	"fmt"
	"log"
	"sync"
)

// Room hosts one game that any number of clients can watch and one of them
// drive. The game keeps running while clients come and go; the room dies
// when the last client leaves.
type Room struct {
	ID   string
	Name string
	Game *Game

	mu            sync.Mutex
	ownerPlayerID int64 // account of whoever started the current round, 0 = guest
}

// SetOwner records the account driving the current round
func (r *Room) SetOwner(playerID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ownerPlayerID = playerID
}

// Owner returns the driving account id, 0 for guests
func (r *Room) Owner() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ownerPlayerID
}

// RoomManager handles creation and lookup of rooms
type RoomManager struct {
	mu        sync.RWMutex
	rooms     map[string]*Room
	maxRooms  int
	cfg       GameConfig
	db        *DB
	analytics *Analytics
}

// NewRoomManager creates a manager producing rooms with the given game
// config. db and analytics may be nil; results are then not persisted.
func NewRoomManager(cfg GameConfig, maxRooms int, db *DB, analytics *Analytics) *RoomManager {
	return &RoomManager{
		rooms:     make(map[string]*Room),
		maxRooms:  maxRooms,
		cfg:       cfg,
		db:        db,
		analytics: analytics,
	}
}

// CreateRoom creates a new room and starts its game loop
func (rm *RoomManager) CreateRoom(name string) (*Room, error) {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	if len(rm.rooms) >= rm.maxRooms {
		return nil, fmt.Errorf("room limit reached")
	}

	// The HUD and audio sinks broadcast through the game they belong to;
	// the closure breaks the construction cycle.
	var game *Game
	relay := func(env Envelope) { game.sendEnvelope(env) }

	game, err := NewGame(rm.cfg, NewBroadcastHUD(relay), NewBroadcastAudio(relay), nil)
	if err != nil {
		return nil, err
	}

	room := &Room{
		ID:   GenerateUUID(),
		Name: name,
		Game: game,
	}
	game.SetResultHandler(func(res RunResult) {
		rm.recordResult(room, res)
	})

	// Subscriptions happen before the loop starts; the bus is not locked.
	if rm.analytics != nil {
		game.Bus().Subscribe(EventRoundReady, func(Event) {
			rm.analytics.Track(EvtRoundStart, room.Owner(), room.ID, "")
		})
		game.Bus().Subscribe(EventEnemyKilled, func(Event) {
			rm.analytics.Track(EvtEnemyKilled, room.Owner(), room.ID, "")
		})
		game.Bus().Subscribe(EventHealthCollected, func(e Event) {
			rm.analytics.Track(EvtHealthCollected, room.Owner(), room.ID,
				fmt.Sprintf(`{"amount":%d}`, e.Amount))
		})
	}

	rm.rooms[room.ID] = room
	go game.Run()

	if rm.analytics != nil {
		rm.analytics.Track(EvtRoomCreated, 0, room.ID, "")
	}
	return room, nil
}

// recordResult persists a finished round. Called from the tick goroutine,
// so the database write is pushed to its own goroutine.
func (rm *RoomManager) recordResult(room *Room, res RunResult) {
	owner := room.Owner()
	if rm.analytics != nil {
		rm.analytics.Track(EvtGameOver, owner, room.ID,
			fmt.Sprintf(`{"score":%d,"duration":%.1f,"mobs":%d}`, res.Score, res.Duration, res.MobsSpawned))
	}
	if rm.db == nil {
		return
	}
	go func() {
		if err := rm.db.RecordRun(owner, res.Score, res.Duration, res.MobsSpawned); err != nil {
			log.Printf("room %s: record run: %v", room.ID, err)
		}
	}()
}

// GetRoom returns a room by ID, or nil
func (rm *RoomManager) GetRoom(id string) *Room {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	return rm.rooms[id]
}

// RemoveClient detaches a client from a room and tears the room down when
// it empties
func (rm *RoomManager) RemoveClient(roomID, clientID string) {
	rm.mu.RLock()
	room, ok := rm.rooms[roomID]
	rm.mu.RUnlock()
	if !ok {
		return
	}
	room.Game.RemoveClient(clientID)

	if room.Game.ClientCount() == 0 {
		room.Game.Stop()
		rm.mu.Lock()
		delete(rm.rooms, roomID)
		rm.mu.Unlock()
	}
}

// ListRooms returns info about all active rooms
func (rm *RoomManager) ListRooms() []RoomInfo {
	rm.mu.RLock()
	defer rm.mu.RUnlock()

	list := make([]RoomInfo, 0, len(rm.rooms))
	for _, room := range rm.rooms {
		list = append(list, RoomInfo{
			ID:      room.ID,
			Name:    room.Name,
			Clients: room.Game.ClientCount(),
		})
	}
	return list
}

// RoomCount returns the number of active rooms
func (rm *RoomManager) RoomCount() int {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	return len(rm.rooms)
}
