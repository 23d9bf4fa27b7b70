package game

import (
	"os"
	"path/filepath"
	"testing"

	"depths-server/pkg/config"
)

func TestProgressRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "save.json")

	p := Progress{
		Seed:     42,
		Level:    3,
		HP:       7,
		MaxHP:    12,
		Gold:     150,
		Weapon:   "shotgun",
		Upgrades: []string{UpgradePowerShots, UpgradeToughSkin},
	}
	if err := SaveProgress(path, p); err != nil {
		t.Fatalf("SaveProgress: %v", err)
	}

	got, err := LoadProgress(path)
	if err != nil {
		t.Fatalf("LoadProgress: %v", err)
	}
	if got.Seed != p.Seed || got.Level != p.Level || got.HP != p.HP ||
		got.MaxHP != p.MaxHP || got.Gold != p.Gold || got.Weapon != p.Weapon {
		t.Errorf("Roundtrip mismatch: %+v != %+v", got, p)
	}
	if len(got.Upgrades) != 2 {
		t.Errorf("Upgrades = %v, want 2 entries", got.Upgrades)
	}
}

func TestLoadProgressMissingFile(t *testing.T) {
	_, err := LoadProgress(filepath.Join(t.TempDir(), "nope.json"))
	if err == nil {
		t.Error("Missing file must return an error")
	}
}

func TestLoadProgressCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadProgress(path); err == nil {
		t.Error("Corrupt file must return an error")
	}
}

func TestLoadProgressClampsLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "save.json")
	if err := os.WriteFile(path, []byte(`{"seed": 1, "level": 0}`), 0o644); err != nil {
		t.Fatal(err)
	}
	p, err := LoadProgress(path)
	if err != nil {
		t.Fatal(err)
	}
	if p.Level != 1 {
		t.Errorf("Level = %d, want clamp to 1", p.Level)
	}
}

func TestRestoreProgressRebuildsSameLevel(t *testing.T) {
	cfg := config.Default()

	w := NewWorld(cfg, 42)
	w.AdvanceLevel()
	w.Player.Combat.HP = 6
	w.Player.Player.Gold = 80
	w.Player.Player.Weapon = "shotgun"
	w.Upgrades[UpgradeRicochet] = true

	restored := RestoreProgress(w.Progress(), cfg)

	if restored.LevelNum != 2 {
		t.Errorf("LevelNum = %d, want 2", restored.LevelNum)
	}
	if restored.Player.Combat.HP != 6 || restored.Player.Player.Gold != 80 {
		t.Error("Player stats must survive the restore")
	}
	if restored.Player.Player.Weapon != "shotgun" {
		t.Errorf("Weapon = %q, want shotgun", restored.Player.Player.Weapon)
	}
	if !restored.Upgrades[UpgradeRicochet] {
		t.Error("Upgrades must survive the restore")
	}

	// Layout regenerates from the seed, so both worlds see the same level.
	if restored.Level.SpawnPoint != w.Level.SpawnPoint {
		t.Error("Restored level differs from the original for the same seed")
	}
	if len(restored.Level.Rooms) != len(w.Level.Rooms) {
		t.Errorf("Restored level has %d rooms, original has %d", len(restored.Level.Rooms), len(w.Level.Rooms))
	}
}
