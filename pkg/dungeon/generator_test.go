package dungeon

import (
	"math/rand"
	"testing"

	"depths-server/pkg/config"
)

func TestGenerateDeterministic(t *testing.T) {
	cfg := config.Default().Level

	a := GenerateWithRetry(cfg, 1, 12345)
	b := GenerateWithRetry(cfg, 1, 12345)

	if len(a.Rooms) != len(b.Rooms) {
		t.Fatalf("Same seed produced %d vs %d rooms", len(a.Rooms), len(b.Rooms))
	}
	for i := range a.Rooms {
		ra, rb := a.Rooms[i], b.Rooms[i]
		if ra.X != rb.X || ra.Y != rb.Y || ra.W != rb.W || ra.H != rb.H {
			t.Errorf("Room %d differs: %+v vs %+v", i, ra, rb)
		}
	}
	if a.SpawnPoint != b.SpawnPoint {
		t.Errorf("Spawn points differ: %v vs %v", a.SpawnPoint, b.SpawnPoint)
	}

	// Different seed should practically always give another layout.
	c := GenerateWithRetry(cfg, 1, 54321)
	same := len(a.Rooms) == len(c.Rooms)
	if same {
		for i := range a.Rooms {
			if a.Rooms[i].X != c.Rooms[i].X || a.Rooms[i].Y != c.Rooms[i].Y {
				same = false
				break
			}
		}
	}
	if same {
		t.Error("Different seeds produced identical layouts")
	}
}

func TestRoomsRespectPadding(t *testing.T) {
	cfg := config.Default().Level

	for seed := int64(1); seed <= 20; seed++ {
		level := GenerateWithRetry(cfg, 1, seed)

		for i, a := range level.Rooms {
			for j, b := range level.Rooms {
				if i >= j {
					continue
				}
				ra := Rect{X: a.X, Y: a.Y, W: a.W, H: a.H}.Expand(cfg.Padding)
				rb := Rect{X: b.X, Y: b.Y, W: b.W, H: b.H}.Expand(cfg.Padding)
				if ra.Intersects(rb) {
					t.Fatalf("seed %d: rooms %d and %d overlap with padding", seed, i, j)
				}
			}
		}
	}
}

func TestRoomSizesWithinBounds(t *testing.T) {
	cfg := config.Default().Level
	level := GenerateWithRetry(cfg, 1, 7)

	for i, r := range level.Rooms {
		if r.W < cfg.MinRoomSize || r.W > cfg.MaxRoomSize ||
			r.H < cfg.MinRoomSize || r.H > cfg.MaxRoomSize {
			t.Errorf("Room %d has size %dx%d outside [%d, %d]",
				i, r.W, r.H, cfg.MinRoomSize, cfg.MaxRoomSize)
		}
		if r.X < 1 || r.Y < 1 || r.X+r.W > cfg.Width-1 || r.Y+r.H > cfg.Height-1 {
			t.Errorf("Room %d at (%d,%d) %dx%d crosses the map border", i, r.X, r.Y, r.W, r.H)
		}
	}
}

// Every carved floor tile must be reachable from the spawn point:
// corridors connect each accepted room to the previous one.
func TestAllFloorReachableFromSpawn(t *testing.T) {
	cfg := config.Default().Level

	for seed := int64(1); seed <= 10; seed++ {
		level := GenerateWithRetry(cfg, 1, seed)

		ts := float64(level.Grid.TileSize)
		tx := int(level.SpawnPoint.X / ts)
		ty := int(level.SpawnPoint.Y / ts)

		reached := level.Grid.FloodFillFrom(tx, ty)
		total := level.Grid.FloorCount()
		if reached != total {
			t.Fatalf("seed %d: flood fill reached %d of %d floor tiles", seed, reached, total)
		}
	}
}

func TestDoorSocketsAreFloor(t *testing.T) {
	cfg := config.Default().Level
	level := GenerateWithRetry(cfg, 1, 99)

	seen := make(map[[2]int]bool)
	for _, s := range level.DoorSockets {
		if !level.Grid.IsFloor(s.TX, s.TY) {
			t.Errorf("Door socket at (%d,%d) is not on a floor tile", s.TX, s.TY)
		}
		key := [2]int{s.TX, s.TY}
		if seen[key] {
			t.Errorf("Duplicate door socket at (%d,%d)", s.TX, s.TY)
		}
		seen[key] = true
	}
}

func TestFallbackLevelSingleRoom(t *testing.T) {
	cfg := config.Default().Level
	level := fallbackLevel(cfg, 3, 42)

	if len(level.Rooms) != 1 {
		t.Fatalf("Fallback level has %d rooms, want 1", len(level.Rooms))
	}
	ts := float64(level.Grid.TileSize)
	tx := int(level.SpawnPoint.X / ts)
	ty := int(level.SpawnPoint.Y / ts)
	if !level.Grid.IsFloor(tx, ty) {
		t.Error("Fallback spawn point is not on a floor tile")
	}
	if level.Number != 3 {
		t.Errorf("Fallback level number = %d, want 3", level.Number)
	}
}

func TestGenerateRejectsEmptyLayout(t *testing.T) {
	// Zero accepted rooms must error, not return a level with an
	// undefined spawn point.
	cfg := config.Default().Level
	cfg.RoomCount = 0

	rng := rand.New(rand.NewSource(1))
	if _, err := Generate(rng, cfg, 1, 1); err == nil {
		t.Error("Expected generation error for empty layout")
	}
}
