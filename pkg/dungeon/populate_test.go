package dungeon

import (
	"math/rand"
	"testing"

	"depths-server/internal/domain"
	"depths-server/pkg/config"
)

func populatedLevel(t *testing.T, number int) (*Level, *config.Config) {
	t.Helper()
	cfg := config.Default()
	level := levelWithRooms(t, number, 4)
	rng := rand.New(rand.NewSource(int64(number)*100 + 7))
	Classify(rng, level, cfg.Spawn)
	Populate(rng, level, cfg)
	return level, cfg
}

func TestPopulateSpawnAndAltarAreEmpty(t *testing.T) {
	level, _ := populatedLevel(t, 3)

	for _, r := range level.Rooms {
		if r.Type == domain.RoomSpawn || r.Type == domain.RoomAltar {
			if len(r.Roster) != 0 {
				t.Errorf("%v room %d has %d enemies, want 0", r.Type, r.Index, len(r.Roster))
			}
		}
	}
}

func TestPopulateCombatRoomCounts(t *testing.T) {
	level, cfg := populatedLevel(t, 2)

	for _, r := range level.Rooms {
		switch r.Type {
		case domain.RoomCombat, domain.RoomBoss, domain.RoomElite:
			if len(r.Roster) < 1 {
				t.Errorf("%v room %d is empty", r.Type, r.Index)
			}
			if len(r.Roster) > cfg.Spawn.MaxPerRoom {
				t.Errorf("Room %d has %d enemies, cap is %d", r.Index, len(r.Roster), cfg.Spawn.MaxPerRoom)
			}
		case domain.RoomLoot:
			if len(r.Roster) != cfg.Spawn.LootGuards {
				t.Errorf("LOOT room %d has %d guards, want %d", r.Index, len(r.Roster), cfg.Spawn.LootGuards)
			}
		}
	}
}

func TestPopulatePositionsInsideRooms(t *testing.T) {
	level, _ := populatedLevel(t, 4)

	ts := float64(level.Grid.TileSize)
	for _, r := range level.Rooms {
		for _, spec := range r.Roster {
			tx := int(spec.X / ts)
			ty := int(spec.Y / ts)
			if !level.Grid.IsFloor(tx, ty) {
				t.Errorf("Enemy in room %d sits on a wall tile (%d,%d)", r.Index, tx, ty)
			}
			if !r.ContainsTile(tx, ty) {
				t.Errorf("Enemy of room %d placed outside it at (%d,%d)", r.Index, tx, ty)
			}
		}
	}
}

func TestPickEnemyTypeRespectsLevelGate(t *testing.T) {
	table := config.Default().Enemies
	rng := rand.New(rand.NewSource(11))

	allowed := make(map[string]bool)
	for _, e := range table {
		if e.MinLevel <= 1 {
			allowed[e.Name] = true
		}
	}

	for i := 0; i < 500; i++ {
		name := pickEnemyType(rng, table, 1)
		if !allowed[name] {
			t.Fatalf("Level 1 produced gated enemy type %q", name)
		}
	}
}

func TestPickEnemyTypeWeightGrowth(t *testing.T) {
	// A type with MinLevel 1 and zero base weight must never appear,
	// a type whose weight grows with level must appear on high levels.
	table := []config.EnemyConfig{
		{Name: "common", MinLevel: 1, BaseWeight: 100},
		{Name: "never", MinLevel: 1, BaseWeight: 0},
		{Name: "late", MinLevel: 5, BaseWeight: 0, WeightPerLevel: 50},
	}
	rng := rand.New(rand.NewSource(5))

	sawLate := false
	for i := 0; i < 500; i++ {
		name := pickEnemyType(rng, table, 8)
		if name == "never" {
			t.Fatal("Zero-weight type was selected")
		}
		if name == "late" {
			sawLate = true
		}
	}
	if !sawLate {
		t.Error("High-level weighted type never selected in 500 draws")
	}
}
