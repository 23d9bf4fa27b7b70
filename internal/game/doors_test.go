package game

import (
	"testing"

	"depths-server/internal/domain"
	"depths-server/pkg/config"
)

func testDoor(cfg *config.Config, x, y float64) *domain.Entity {
	return &domain.Entity{
		ID:   "door",
		Kind: domain.KindDoor,
		Pos:  domain.Vec2{X: x, Y: y},
		Door: &domain.DoorComponent{
			Width:          40,
			Height:         40,
			MaxOffset:      40,
			Speed:          cfg.Doors.SlideSpeed,
			TriggerRadius:  cfg.Doors.TriggerRadius,
			SolidThreshold: cfg.Doors.SolidThreshold,
		},
	}
}

func TestDoorOpensOnProximity(t *testing.T) {
	w := NewWorld(config.Default(), 42)
	door := testDoor(w.cfg, 400, 400)
	w.Player.Pos = domain.Vec2{X: 430, Y: 420} // inside trigger radius

	w.updateDoor(door, testDt)

	if door.Door.State != domain.DoorOpening {
		t.Errorf("State = %v, want OPENING near the player", door.Door.State)
	}
	if door.Door.SlideOffset <= 0 {
		t.Error("Opening door must slide")
	}
}

func TestDoorOpensFullyAndClamps(t *testing.T) {
	w := NewWorld(config.Default(), 42)
	door := testDoor(w.cfg, 400, 400)
	w.Player.Pos = domain.Vec2{X: 420, Y: 420}

	for i := 0; i < 200; i++ {
		w.updateDoor(door, testDt)
	}

	if door.Door.State != domain.DoorOpen {
		t.Errorf("State = %v, want OPEN", door.Door.State)
	}
	if door.Door.SlideOffset != door.Door.MaxOffset {
		t.Errorf("SlideOffset = %v, want clamp at %v", door.Door.SlideOffset, door.Door.MaxOffset)
	}
	if door.Door.Solid() {
		t.Error("Fully open door must be passable")
	}
}

func TestDoorClosesWhenPlayerLeaves(t *testing.T) {
	w := NewWorld(config.Default(), 42)
	door := testDoor(w.cfg, 400, 400)
	door.Door.SlideOffset = door.Door.MaxOffset
	door.Door.State = domain.DoorOpen
	w.Player.Pos = domain.Vec2{X: 2000, Y: 2000}

	for i := 0; i < 200; i++ {
		w.updateDoor(door, testDt)
	}

	if door.Door.State != domain.DoorClosed {
		t.Errorf("State = %v, want CLOSED far from the player", door.Door.State)
	}
	if door.Door.SlideOffset != 0 {
		t.Errorf("SlideOffset = %v, want 0", door.Door.SlideOffset)
	}
}

func TestLockedDoorClosesDespiteProximity(t *testing.T) {
	w := NewWorld(config.Default(), 42)
	door := testDoor(w.cfg, 400, 400)
	door.Door.Locked = true
	door.Door.SlideOffset = door.Door.MaxOffset
	w.Player.Pos = domain.Vec2{X: 420, Y: 420}

	w.updateDoor(door, testDt)

	if door.Door.State != domain.DoorClosing {
		t.Errorf("State = %v, locked door must close even near the player", door.Door.State)
	}
	if !door.Door.Solid() {
		t.Error("Locked door must be solid regardless of the leaf position")
	}
}

func TestClosingLockedDoorPushesPlayerOut(t *testing.T) {
	w := NewWorld(config.Default(), 42)
	door := testDoor(w.cfg, 400, 400)
	door.Door.Locked = true
	door.Door.SlideOffset = 20 // leaf still moving

	// Player standing in the doorway, slightly right of center.
	w.Player.Pos = domain.Vec2{X: 430, Y: 420}
	before := w.Player.Pos

	w.updateDoor(door, testDt)

	if w.Player.Pos.X <= before.X {
		t.Errorf("Player at %v must be pushed away from the door center, was %v", w.Player.Pos, before)
	}
}
