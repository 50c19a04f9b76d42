package main

import "testing"

func TestPickupCollectOnce(t *testing.T) {
	bus := NewBus()
	var amounts []int
	bus.Subscribe(EventHealthCollected, func(e Event) { amounts = append(amounts, e.Amount) })

	p := NewPickup(100, 100, PickupHealBig, bus)
	p.OnPlayerEntered()
	p.OnPlayerEntered()

	if len(amounts) != 1 {
		t.Fatalf("expected 1 collect event, got %d", len(amounts))
	}
	if amounts[0] != PickupHealBig {
		t.Errorf("expected amount %d, got %d", PickupHealBig, amounts[0])
	}
	if p.Alive {
		t.Error("collected pickup should be destroyed")
	}
}

func TestPickupScale(t *testing.T) {
	bus := NewBus()
	big := NewPickup(0, 0, PickupHealBig, bus)
	small := NewPickup(0, 0, PickupHealSmall, bus)

	if big.Scale() != 1.0 {
		t.Errorf("big pickup scale should be 1.0, got %g", big.Scale())
	}
	if small.Scale() != 0.5 {
		t.Errorf("small pickup scale should be 0.5, got %g", small.Scale())
	}
}
