package dungeon

import (
	"math/rand"

	"depths-server/internal/domain"
	"depths-server/pkg/config"
	"depths-server/pkg/logger"
)

// Classify назначает комнатам семантические типы и отмечает выход.
//
// Правила в порядке приоритета: комната 0 - всегда SPAWN; ровно одна
// комната становится BOSS и выходом (последняя принятая); на нечетных
// уровнях одна комната строго между спавном и боссом становится ALTAR;
// остальные - COMBAT с настраиваемой долей LOOT/ELITE.
func Classify(rng *rand.Rand, level *Level, cfg config.SpawnConfig) {
	rooms := level.Rooms
	if len(rooms) == 0 {
		return
	}

	for _, r := range rooms {
		r.Type = domain.RoomCombat
		r.IsExit = false
	}

	rooms[0].Type = domain.RoomSpawn

	// Выход. В вырожденной однокомнатной планировке спавн-комната
	// остается SPAWN (приоритет правила выше), но помечается выходом.
	exit := rooms[len(rooms)-1]
	exit.IsExit = true
	if exit.Index != 0 {
		exit.Type = domain.RoomBoss
	}

	// Алтарь на нечетных уровнях: комната строго между спавном и боссом,
	// выбранная равномерно. При менее чем трех комнатах кандидатов нет.
	if level.Number%2 == 1 && len(rooms) >= 3 {
		idx := 1 + rng.Intn(len(rooms)-2)
		rooms[idx].Type = domain.RoomAltar
	}

	// Переклассификация части боевых комнат. При менее чем трех комнатах
	// между спавном и выходом ничего нет.
	if len(rooms) >= 3 {
		for _, r := range rooms[1 : len(rooms)-1] {
			if r.Type != domain.RoomCombat {
				continue
			}
			roll := rng.Float64()
			switch {
			case roll < cfg.LootFraction:
				r.Type = domain.RoomLoot
			case roll < cfg.LootFraction+cfg.EliteFraction:
				r.Type = domain.RoomElite
			}
		}
	}

	// Синхронизируем точку выхода с фактической выходной комнатой.
	ecx, ecy := exit.Center()
	level.ExitPoint = vecAtTile(level.Grid, ecx, ecy)

	logger.Log.WithFields(map[string]interface{}{
		"component": "classifier",
		"level":     level.Number,
		"rooms":     len(rooms),
		"exit_room": exit.Index,
	}).Debug("Rooms classified")
}
