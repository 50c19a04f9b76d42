package main

// HUDSink receives session-state changes for display. The simulation never
// renders anything itself; clients attached to the room draw whatever the
// sink forwards.
type HUDSink interface {
	UpdateScore(score int)
	UpdateHealth(health int)
	ShowMessage(text string)
	ShowGameOver()
}

// Broadcaster sends messages to connected clients (implemented by Client;
// mocked in tests)
type Broadcaster interface {
	SendJSON(msg interface{})
	SendBinary(data []byte)
}

// BroadcastHUD fans HUD updates out to every client of a room as JSON
// envelopes
type BroadcastHUD struct {
	send func(Envelope)
}

// NewBroadcastHUD creates a HUD sink that forwards through send
func NewBroadcastHUD(send func(Envelope)) *BroadcastHUD {
	return &BroadcastHUD{send: send}
}

func (h *BroadcastHUD) UpdateScore(score int) {
	h.send(Envelope{T: MsgScore, Data: ScoreMsg{Score: score}})
}

func (h *BroadcastHUD) UpdateHealth(health int) {
	h.send(Envelope{T: MsgHealth, Data: HealthMsg{Health: health}})
}

func (h *BroadcastHUD) ShowMessage(text string) {
	h.send(Envelope{T: MsgMessage, Data: MessageMsg{Text: text}})
}

func (h *BroadcastHUD) ShowGameOver() {
	h.send(Envelope{T: MsgGameOver})
}
