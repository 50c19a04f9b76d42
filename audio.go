package main

// Named audio streams the session controls. Actual playback happens on the
// client; the server only says which stream changes state.
const (
	StreamMusic = "music"
	StreamDeath = "death"
)

// AudioSink plays and stops named streams
type AudioSink interface {
	Play(stream string)
	Stop(stream string)
}

// BroadcastAudio forwards audio cues to a room's clients
type BroadcastAudio struct {
	send func(Envelope)
}

// NewBroadcastAudio creates an audio sink that forwards through send
func NewBroadcastAudio(send func(Envelope)) *BroadcastAudio {
	return &BroadcastAudio{send: send}
}

func (a *BroadcastAudio) Play(stream string) {
	a.send(Envelope{T: MsgAudio, Data: AudioMsg{Stream: stream, Action: "play"}})
}

func (a *BroadcastAudio) Stop(stream string) {
	a.send(Envelope{T: MsgAudio, Data: AudioMsg{Stream: stream, Action: "stop"}})
}
