package game

import (
	"encoding/json"
	"fmt"
	"os"

	"depths-server/pkg/config"
)

// Progress - межуровневый прогресс забега. Сохраняется только это:
// состояние уровня всегда восстанавливается генерацией из сида.
type Progress struct {
	Seed     int64    `json:"seed"`
	Level    int      `json:"level"`
	HP       int      `json:"hp"`
	MaxHP    int      `json:"maxHp"`
	Gold     int      `json:"gold"`
	Weapon   string   `json:"weapon"`
	Upgrades []string `json:"upgrades"`
}

// Progress снимает текущий прогресс мира.
func (w *World) Progress() Progress {
	p := Progress{
		Seed:     w.masterSeed,
		Level:    w.LevelNum,
		Upgrades: w.upgradeList(),
	}
	if w.Player != nil {
		p.HP = w.Player.Combat.HP
		p.MaxHP = w.Player.Combat.MaxHP
		p.Gold = w.Player.Player.Gold
		p.Weapon = w.Player.Player.Weapon
	}
	return p
}

// RestoreProgress пересоздает мир по сохраненному прогрессу.
// Уровень регенерируется детерминированно из сида, поэтому планировка
// совпадет с той, что игрок видел перед сохранением.
func RestoreProgress(p Progress, cfg *config.Config) *World {
	w := NewWorld(cfg, p.Seed)
	w.LevelNum = p.Level
	for _, id := range p.Upgrades {
		w.Upgrades[id] = true
	}
	w.loadLevel()

	if p.HP > 0 {
		w.Player.Combat.HP = p.HP
		w.Player.Combat.MaxHP = p.MaxHP
	}
	w.Player.Player.Gold = p.Gold
	if p.Weapon != "" {
		w.Player.Player.Weapon = p.Weapon
	}
	return w
}

// SaveProgress пишет прогресс в JSON-файл.
func SaveProgress(path string, p Progress) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal progress: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write progress: %w", err)
	}
	return nil
}

// LoadProgress читает прогресс из JSON-файла.
func LoadProgress(path string) (Progress, error) {
	var p Progress
	data, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("read progress: %w", err)
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("parse progress: %w", err)
	}
	if p.Level < 1 {
		p.Level = 1
	}
	return p, nil
}
