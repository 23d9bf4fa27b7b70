package game

import (
	"testing"

	"depths-server/internal/domain"
	"depths-server/pkg/api"
	"depths-server/pkg/config"
)

func TestSnapshotOmitsRemovedEntities(t *testing.T) {
	w := NewWorld(config.Default(), 42)
	victim := w.Entities[len(w.Entities)-1]
	victim.MarkedForRemoval = true

	snap := w.Snapshot(DepthByY)

	for _, e := range snap.Entities {
		if e == victim {
			t.Fatal("Removed entity leaked into the snapshot")
		}
	}
	if len(snap.Entities) != len(w.Entities)-1 {
		t.Errorf("Snapshot has %d entities, want %d", len(snap.Entities), len(w.Entities)-1)
	}
}

func TestSnapshotSortsByDepthKey(t *testing.T) {
	w := NewWorld(config.Default(), 42)

	snap := w.Snapshot(DepthByY)
	for i := 1; i < len(snap.Entities); i++ {
		if snap.Entities[i-1].Pos.Y > snap.Entities[i].Pos.Y {
			t.Fatalf("Entities out of depth order at %d: %v > %v",
				i, snap.Entities[i-1].Pos.Y, snap.Entities[i].Pos.Y)
		}
	}
}

func TestSnapshotCarriesPlayerStats(t *testing.T) {
	w := NewWorld(config.Default(), 42)
	w.Player.Combat.HP = 6
	w.Player.Player.Gold = 45
	w.Upgrades[UpgradeRicochet] = true

	snap := w.Snapshot(DepthByY)

	if snap.HP != 6 || snap.Gold != 45 {
		t.Errorf("Snapshot stats hp=%d gold=%d, want 6 and 45", snap.HP, snap.Gold)
	}
	if snap.Level != 1 || snap.Tick != w.TickNum {
		t.Error("Snapshot must carry level and tick")
	}
	if len(snap.Upgrades) != 1 || snap.Upgrades[0] != UpgradeRicochet {
		t.Errorf("Snapshot upgrades = %v", snap.Upgrades)
	}
}

func TestSnapshotEffectsLastOneTick(t *testing.T) {
	w := NewWorld(config.Default(), 42)
	w.SpawnSparks(domain.Vec2{X: 1, Y: 2}, "#fff", 3)

	if len(w.Snapshot(DepthByY).Effects) != 1 {
		t.Fatal("Spawned effect missing from the snapshot")
	}

	w.Tick(testDt, api.InputFrame{})
	if len(w.Snapshot(DepthByY).Effects) != 0 {
		t.Error("Effects must not survive into the next tick")
	}
}

func TestLevelFrameDescribesGrid(t *testing.T) {
	cfg := config.Default()
	w := NewWorld(cfg, 42)

	frame := w.LevelFrame()

	if frame.Number != 1 {
		t.Errorf("Number = %d, want 1", frame.Number)
	}
	if frame.Width != cfg.Level.Width || frame.Height != cfg.Level.Height {
		t.Errorf("Frame size %dx%d, want %dx%d", frame.Width, frame.Height, cfg.Level.Width, cfg.Level.Height)
	}
	if frame.TileSize != cfg.Level.TileSize {
		t.Errorf("TileSize = %d, want %d", frame.TileSize, cfg.Level.TileSize)
	}
	if len(frame.Walls) != frame.Height {
		t.Errorf("Walls rows = %d, want %d", len(frame.Walls), frame.Height)
	}
	if len(frame.Rooms) != len(w.Level.Rooms) {
		t.Errorf("Frame rooms = %d, want %d", len(frame.Rooms), len(w.Level.Rooms))
	}
	if frame.Rooms[0].Type != "SPAWN" {
		t.Errorf("Room 0 type = %q, want SPAWN", frame.Rooms[0].Type)
	}
}

func TestAltarGrantsUnownedUpgrade(t *testing.T) {
	w := NewWorld(config.Default(), 42)
	altar := newAltar(w.rng, domain.Vec2{X: 100, Y: 100})

	w.grantAltarUpgrade(altar)

	if len(w.Upgrades) != 1 {
		t.Fatalf("Granted %d upgrades, want 1", len(w.Upgrades))
	}
	if !altar.MarkedForRemoval {
		t.Error("Spent altar must be removed")
	}
}

func TestAltarToughSkinRaisesMaxHP(t *testing.T) {
	w := NewWorld(config.Default(), 42)
	// Own everything except tough skin so the roll is forced.
	for _, id := range upgradePool {
		if id != UpgradeToughSkin {
			w.Upgrades[id] = true
		}
	}
	maxHP := w.Player.Combat.MaxHP

	w.grantAltarUpgrade(newAltar(w.rng, domain.Vec2{X: 100, Y: 100}))

	if !w.Upgrades[UpgradeToughSkin] {
		t.Fatal("The only unowned upgrade must be granted")
	}
	if w.Player.Combat.MaxHP != maxHP+2 {
		t.Errorf("MaxHP = %d, want %d", w.Player.Combat.MaxHP, maxHP+2)
	}
}

func TestAltarUselessWhenAllOwned(t *testing.T) {
	w := NewWorld(config.Default(), 42)
	for _, id := range upgradePool {
		w.Upgrades[id] = true
	}
	altar := newAltar(w.rng, domain.Vec2{X: 100, Y: 100})

	w.grantAltarUpgrade(altar)

	if altar.MarkedForRemoval {
		t.Error("Altar with nothing to give must stay")
	}
}
