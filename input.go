package main

// InputState is the level-sensed input snapshot for one frame: four
// movement actions plus the raw fire button. Edge detection for fire is
// done by InputTracker so that holding the button spawns one fireball.
type InputState struct {
	Up    bool
	Down  bool
	Left  bool
	Right bool
	Fire  bool
}

// InputTracker holds the latest input snapshot and derives the
// edge-sensed fire action across frames
type InputTracker struct {
	current  InputState
	prevFire bool
}

// Set replaces the level-sensed snapshot (called from the transport layer)
func (t *InputTracker) Set(s InputState) {
	t.current = s
}

// Poll returns the snapshot for this frame along with whether fire was
// just pressed, and latches the fire level for the next frame
func (t *InputTracker) Poll() (InputState, bool) {
	s := t.current
	justPressed := s.Fire && !t.prevFire
	t.prevFire = s.Fire
	return s, justPressed
}

// Reset clears held state, e.g. between rounds
func (t *InputTracker) Reset() {
	t.current = InputState{}
	t.prevFire = false
}
