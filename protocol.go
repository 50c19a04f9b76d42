package main

import "encoding/json"

// Client -> Server message types
const (
	MsgJoin     = "join"
	MsgLeave    = "leave"
	MsgInput    = "input"
	MsgCreate   = "create" // create room
	MsgList     = "list"   // list rooms
	MsgStart    = "start"  // start (or restart) a round
	MsgRegister = "register"
	MsgLogin    = "login"
	MsgAuth     = "auth" // re-auth with an existing token
)

// Server -> Client message types
const (
	MsgState    = "state"
	MsgWelcome  = "welcome"
	MsgRooms    = "rooms"
	MsgJoined   = "joined"
	MsgCreated  = "created"
	MsgError    = "error"
	MsgScore    = "score"
	MsgHealth   = "health"
	MsgMessage  = "message" // HUD text such as "Get Ready"
	MsgGameOver = "gameover"
	MsgAudio    = "audio"
	MsgAuthOK   = "auth_ok"
)

// Envelope wraps all outgoing messages with a type field
type Envelope struct {
	T    string      `json:"t"`
	Data interface{} `json:"d,omitempty"`
}

// InEnvelope is used for incoming messages — json.RawMessage avoids
// double-unmarshal
type InEnvelope struct {
	T string          `json:"t"`
	D json.RawMessage `json:"d,omitempty"`
}

// ClientInput is the level-sensed input snapshot sent by the client
type ClientInput struct {
	Up    bool `json:"u"`
	Down  bool `json:"d"`
	Left  bool `json:"l"`
	Right bool `json:"r"`
	Fire  bool `json:"f"`
}

// Binary input frames are 2 bytes: [0x01, flags]. Bits mirror ClientInput.
const (
	binInputMarker = 0x01
	inputBitRight  = 0x01
	inputBitLeft   = 0x02
	inputBitDown   = 0x04
	inputBitUp     = 0x08
	inputBitFire   = 0x10
)

// JoinMsg attaches the client to a room
type JoinMsg struct {
	RoomID string `json:"rid"`
}

// CreateMsg asks for a new room
type CreateMsg struct {
	Name string `json:"name"`
}

// PlayerState is broadcast with every snapshot
type PlayerState struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Anim    string  `json:"an,omitempty"`
	FlipH   bool    `json:"fh,omitempty"`
	FlipV   bool    `json:"fv,omitempty"`
	Visible bool    `json:"v"`
	Flash   bool    `json:"fl,omitempty"`
}

// MobState is broadcast per mob
type MobState struct {
	ID   string  `json:"id"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	R    float64 `json:"r"`
	Anim int     `json:"an"`
}

// FireballState is broadcast per fireball
type FireballState struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	R  float64 `json:"r"`
}

// PickupState is broadcast per pickup
type PickupState struct {
	ID    string  `json:"id"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Scale float64 `json:"s"`
}

// GameState is the full world snapshot
type GameState struct {
	Player    PlayerState     `json:"p"`
	Mobs      []MobState      `json:"m"`
	Fireballs []FireballState `json:"fb"`
	Pickups   []PickupState   `json:"pk"`
	Score     int             `json:"sc"`
	Health    int             `json:"hp"`
	Tick      uint64          `json:"tick"`
}

// WelcomeMsg is sent to a client when it joins a room
type WelcomeMsg struct {
	RoomID  string  `json:"rid"`
	ScreenW float64 `json:"w"`
	ScreenH float64 `json:"h"`
}

// RoomInfo is used in the room list
type RoomInfo struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Clients int    `json:"clients"`
}

// ScoreMsg carries a HUD score update
type ScoreMsg struct {
	Score int `json:"score"`
}

// HealthMsg carries a HUD health update
type HealthMsg struct {
	Health int `json:"health"`
}

// MessageMsg carries HUD text
type MessageMsg struct {
	Text string `json:"text"`
}

// AudioMsg tells clients to play or stop a named stream
type AudioMsg struct {
	Stream string `json:"stream"`
	Action string `json:"action"` // "play" or "stop"
}

// ErrorMsg sends an error to the client
type ErrorMsg struct {
	Msg string `json:"msg"`
}

// RegisterMsg creates an account
type RegisterMsg struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginMsg signs in
type LoginMsg struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthMsg re-authenticates with a token
type AuthMsg struct {
	Token string `json:"token"`
}

// AuthOKMsg confirms authentication
type AuthOKMsg struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	PlayerID int64  `json:"pid"`
}
