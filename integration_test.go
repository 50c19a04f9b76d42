package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"
)

// ---------- helpers ----------

var uuidRegex = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)

// startTestServer spins up an httptest.Server with a Hub (no database)
// and returns the server, its WebSocket URL, and a cleanup func.
func startTestServer(t *testing.T) (*httptest.Server, string, func()) {
	t.Helper()

	cfg := ServerConfig{MaxRooms: 10, ScreenW: 480, ScreenH: 720}
	hub := NewHub(cfg, nil)
	go hub.Run()

	mux := SetupRoutes(hub, cfg)
	srv := httptest.NewServer(mux)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	return srv, wsURL, srv.Close
}

// dialWS opens a WebSocket connection to the test server.
func dialWS(t *testing.T, wsURL string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial WS: %v", err)
	}
	return conn
}

// readEnvelope reads one message. Binary frames come back as MsgState
// envelopes carrying the decoded GameState.
func readEnvelope(t *testing.T, conn *websocket.Conn) Envelope {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	msgType, raw, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read WS: %v", err)
	}
	if msgType == websocket.BinaryMessage {
		var gs GameState
		if err := msgpack.Unmarshal(raw, &gs); err != nil {
			t.Fatalf("msgpack unmarshal: %v", err)
		}
		return Envelope{T: MsgState, Data: gs}
	}
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return env
}

// waitFor reads messages until one of the wanted type arrives, skipping
// interleaved state broadcasts.
func waitFor(t *testing.T, conn *websocket.Conn, msgType string) Envelope {
	t.Helper()
	for i := 0; i < 200; i++ {
		env := readEnvelope(t, conn)
		if env.T == msgType {
			return env
		}
	}
	t.Fatalf("no %q message arrived", msgType)
	return Envelope{}
}

// sendMsg sends a typed message over the WebSocket.
func sendMsg(t *testing.T, conn *websocket.Conn, msgType string, data interface{}) {
	t.Helper()
	env := Envelope{T: msgType, Data: data}
	raw, _ := json.Marshal(env)
	if err := conn.WriteMessage(websocket.TextMessage, raw); err != nil {
		t.Fatalf("write WS: %v", err)
	}
}

// dataMap extracts the Data field as map[string]interface{}.
func dataMap(t *testing.T, env Envelope) map[string]interface{} {
	t.Helper()
	raw, _ := json.Marshal(env.Data)
	var m map[string]interface{}
	json.Unmarshal(raw, &m)
	return m
}

// ---------- tests ----------

func TestIntegrationCreateJoinStart(t *testing.T) {
	_, wsURL, cleanup := startTestServer(t)
	defer cleanup()

	conn := dialWS(t, wsURL)
	defer conn.Close()

	sendMsg(t, conn, MsgCreate, CreateMsg{Name: "My Room"})
	created := waitFor(t, conn, MsgCreated)
	rid, _ := dataMap(t, created)["rid"].(string)
	if !uuidRegex.MatchString(rid) {
		t.Fatalf("room ID is not a UUID: %q", rid)
	}

	sendMsg(t, conn, MsgJoin, JoinMsg{RoomID: rid})
	waitFor(t, conn, MsgJoined)
	welcome := waitFor(t, conn, MsgWelcome)
	wm := dataMap(t, welcome)
	if wm["w"].(float64) != 480 || wm["h"].(float64) != 720 {
		t.Errorf("unexpected screen size in welcome: %v", wm)
	}

	sendMsg(t, conn, MsgStart, nil)
	msg := waitFor(t, conn, MsgMessage)
	if dataMap(t, msg)["text"] != "Get Ready" {
		t.Errorf("expected Get Ready, got %v", msg.Data)
	}

	// State broadcasts follow; the player must be visible in them
	for i := 0; i < 200; i++ {
		env := readEnvelope(t, conn)
		if env.T != MsgState {
			continue
		}
		gs := env.Data.(GameState)
		if gs.Player.Visible {
			return
		}
	}
	t.Error("player never became visible in state broadcasts")
}

func TestIntegrationListRooms(t *testing.T) {
	_, wsURL, cleanup := startTestServer(t)
	defer cleanup()

	conn := dialWS(t, wsURL)
	defer conn.Close()

	sendMsg(t, conn, MsgList, nil)
	rooms := waitFor(t, conn, MsgRooms)
	if rooms.Data != nil {
		if list, ok := rooms.Data.([]interface{}); ok && len(list) != 0 {
			t.Errorf("expected no rooms, got %v", list)
		}
	}

	sendMsg(t, conn, MsgCreate, CreateMsg{Name: "Visible"})
	waitFor(t, conn, MsgCreated)

	sendMsg(t, conn, MsgList, nil)
	rooms = waitFor(t, conn, MsgRooms)
	raw, _ := json.Marshal(rooms.Data)
	var infos []RoomInfo
	json.Unmarshal(raw, &infos)
	if len(infos) != 1 || infos[0].Name != "Visible" {
		t.Errorf("unexpected room list: %v", infos)
	}
}

func TestIntegrationJoinUnknownRoom(t *testing.T) {
	_, wsURL, cleanup := startTestServer(t)
	defer cleanup()

	conn := dialWS(t, wsURL)
	defer conn.Close()

	sendMsg(t, conn, MsgJoin, JoinMsg{RoomID: "nope"})
	errEnv := waitFor(t, conn, MsgError)
	if dataMap(t, errEnv)["msg"] != "room not found" {
		t.Errorf("unexpected error payload: %v", errEnv.Data)
	}
}

func TestIntegrationBinaryInputMovesPlayer(t *testing.T) {
	_, wsURL, cleanup := startTestServer(t)
	defer cleanup()

	conn := dialWS(t, wsURL)
	defer conn.Close()

	sendMsg(t, conn, MsgCreate, CreateMsg{})
	created := waitFor(t, conn, MsgCreated)
	rid := dataMap(t, created)["rid"].(string)
	sendMsg(t, conn, MsgJoin, JoinMsg{RoomID: rid})
	waitFor(t, conn, MsgWelcome)
	sendMsg(t, conn, MsgStart, nil)

	// Hold right via the compact frame
	frame := []byte{binInputMarker, inputBitRight}
	if err := conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
		t.Fatalf("write frame: %v", err)
	}

	var first, last float64
	seen := 0
	for i := 0; i < 400 && seen < 10; i++ {
		env := readEnvelope(t, conn)
		if env.T != MsgState {
			continue
		}
		gs := env.Data.(GameState)
		if !gs.Player.Visible {
			continue
		}
		if seen == 0 {
			first = gs.Player.X
		}
		last = gs.Player.X
		seen++
	}
	if seen < 10 {
		t.Fatal("not enough state frames")
	}
	if last <= first {
		t.Errorf("player did not move right: %g -> %g", first, last)
	}
}

func TestIntegrationQREndpoint(t *testing.T) {
	srv, wsURL, cleanup := startTestServer(t)
	defer cleanup()

	conn := dialWS(t, wsURL)
	defer conn.Close()

	sendMsg(t, conn, MsgCreate, CreateMsg{})
	created := waitFor(t, conn, MsgCreated)
	rid := dataMap(t, created)["rid"].(string)

	resp, err := http.Get(srv.URL + "/qr?room=" + rid)
	if err != nil {
		t.Fatalf("GET /qr: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Errorf("expected image/png, got %q", ct)
	}

	resp2, err := http.Get(srv.URL + "/qr?room=unknown")
	if err != nil {
		t.Fatalf("GET /qr: %v", err)
	}
	resp2.Body.Close()
	if resp2.StatusCode != http.StatusNotFound {
		t.Errorf("unknown room should 404, got %d", resp2.StatusCode)
	}
}

func TestIntegrationScoreboardWithoutDB(t *testing.T) {
	srv, _, cleanup := startTestServer(t)
	defer cleanup()

	resp, err := http.Get(srv.URL + "/scoreboard")
	if err != nil {
		t.Fatalf("GET /scoreboard: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("expected 503 without a database, got %d", resp.StatusCode)
	}
}

func TestIntegrationAuthRoundTrip(t *testing.T) {
	db := openTestDB(t)
	cfg := ServerConfig{MaxRooms: 10, ScreenW: 480, ScreenH: 720}
	hub := NewHub(cfg, db)
	go hub.Run()
	defer hub.analytics.Stop()

	srv := httptest.NewServer(SetupRoutes(hub, cfg))
	defer srv.Close()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"

	conn := dialWS(t, wsURL)
	defer conn.Close()

	sendMsg(t, conn, MsgRegister, RegisterMsg{Username: "alice", Password: "secret"})
	ok := waitFor(t, conn, MsgAuthOK)
	m := dataMap(t, ok)
	token, _ := m["token"].(string)
	if token == "" || m["username"] != "alice" {
		t.Fatalf("unexpected auth payload: %v", m)
	}

	// Re-auth on a fresh connection with the token
	conn2 := dialWS(t, wsURL)
	defer conn2.Close()
	sendMsg(t, conn2, MsgAuth, AuthMsg{Token: token})
	ok2 := waitFor(t, conn2, MsgAuthOK)
	if dataMap(t, ok2)["username"] != "alice" {
		t.Errorf("token re-auth failed: %v", ok2.Data)
	}
}
