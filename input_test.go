package main

import "testing"

func TestInputTrackerFireEdge(t *testing.T) {
	var tr InputTracker

	tr.Set(InputState{Fire: true})
	_, pressed := tr.Poll()
	if !pressed {
		t.Error("first poll with fire held should report just-pressed")
	}

	// Held across frames: no repeat
	_, pressed = tr.Poll()
	if pressed {
		t.Error("held fire must not re-trigger")
	}

	tr.Set(InputState{})
	tr.Poll()
	tr.Set(InputState{Fire: true})
	_, pressed = tr.Poll()
	if !pressed {
		t.Error("release and re-press should trigger again")
	}
}

func TestInputTrackerReset(t *testing.T) {
	var tr InputTracker
	tr.Set(InputState{Up: true, Fire: true})
	tr.Poll()

	tr.Reset()
	in, pressed := tr.Poll()
	if in.Up || in.Fire || pressed {
		t.Errorf("reset should clear all state, got %+v pressed=%v", in, pressed)
	}
}
