package dungeon

import (
	"math/rand"

	"depths-server/internal/domain"
	"depths-server/pkg/config"
	"depths-server/pkg/logger"
)

// Populate предрассчитывает состав врагов для каждой комнаты уровня.
// Результат - неизменяемые SpawnSpec; живые сущности не создаются,
// пока игрок не войдет в комнату (ленивый спавн держит подготовку
// уровня дешевой).
func Populate(rng *rand.Rand, level *Level, cfg *config.Config) {
	for _, room := range level.Rooms {
		room.Roster = nil

		switch room.Type {
		case domain.RoomSpawn, domain.RoomAltar:
			// Спавн и алтарь всегда без врагов.
			continue
		case domain.RoomLoot:
			populateRoom(rng, level, room, cfg, cfg.Spawn.LootGuards)
		case domain.RoomElite:
			populateRoom(rng, level, room, cfg, cfg.Spawn.EliteCount)
		case domain.RoomBoss:
			populateRoom(rng, level, room, cfg, cfg.Spawn.BossCount)
		default:
			populateRoom(rng, level, room, cfg, 0)
		}
	}
}

// populateRoom наполняет одну комнату. overrideCount 0 означает
// формулу боевой комнаты: floor(area/50) + floor(level/3) + uniform(-1,+1),
// кламп в [1, MaxPerRoom].
func populateRoom(rng *rand.Rand, level *Level, room *domain.Room, cfg *config.Config, overrideCount int) {
	count := overrideCount
	if count == 0 {
		count = room.Area() / 50
		count += level.Number / 3
		count += rng.Intn(3) - 1
	}
	if count < 1 {
		count = 1
	}
	if count > cfg.Spawn.MaxPerRoom {
		count = cfg.Spawn.MaxPerRoom
	}

	sockets := roomSockets(level, room)

	for i := 0; i < count; i++ {
		x, y := placeEnemy(rng, level, room, sockets, cfg.Spawn)
		spec := domain.SpawnSpec{
			EnemyType: pickEnemyType(rng, cfg.Enemies, level.Number),
			X:         x,
			Y:         y,
		}
		room.Roster = append(room.Roster, spec)
	}

	logger.Log.WithFields(map[string]interface{}{
		"component": "planner",
		"room":      room.Index,
		"type":      room.Type.String(),
		"enemies":   len(room.Roster),
	}).Debug("Room roster planned")
}

// placeEnemy ищет тайл пола строго внутри комнаты, центр которого
// дальше минимальной дистанции от каждой двери комнаты. Бюджет попыток
// ограничен; при исчерпании принимается последняя попытка, даже если
// она слишком близко к двери (мягкая деградация, не отказ).
func placeEnemy(rng *rand.Rand, level *Level, room *domain.Room, sockets []DoorSocket, cfg config.SpawnConfig) (float64, float64) {
	grid := level.Grid

	var lastX, lastY float64
	haveCandidate := false

	for attempt := 0; attempt < cfg.MaxAttempts; attempt++ {
		tx := room.X + rng.Intn(room.W)
		ty := room.Y + rng.Intn(room.H)
		if !grid.IsFloor(tx, ty) {
			continue
		}

		ex, ey := grid.TileCenter(tx, ty)
		lastX, lastY = ex, ey
		haveCandidate = true

		safe := true
		for _, s := range sockets {
			sx, sy := grid.TileCenter(s.TX, s.TY)
			dx, dy := ex-sx, ey-sy
			if dx*dx+dy*dy < cfg.DoorClearance*cfg.DoorClearance {
				safe = false
				break
			}
		}
		if safe {
			return ex, ey
		}
	}

	if !haveCandidate {
		// Комната без единого тайла пола в выборке - берем центр.
		cx, cy := room.Center()
		fx, fy := grid.FindNearestFloor(cx, cy)
		return grid.TileCenter(fx, fy)
	}
	return lastX, lastY
}

// roomSockets возвращает дверные сокеты, принадлежащие комнате
// (лежащие внутри или на границе ее прямоугольника).
func roomSockets(level *Level, room *domain.Room) []DoorSocket {
	var out []DoorSocket
	for _, s := range level.DoorSockets {
		if room.TouchesTile(s.TX, s.TY) {
			out = append(out, s)
		}
	}
	return out
}

// pickEnemyType - взвешенный выбор типа врага с гейтингом по уровню.
// Тянем r = uniform(0, totalWeight) и вычитаем веса по порядку таблицы.
// Запасной вариант - первый (самый слабый) тип таблицы.
func pickEnemyType(rng *rand.Rand, table []config.EnemyConfig, level int) string {
	type weighted struct {
		name   string
		weight float64
	}

	var candidates []weighted
	total := 0.0
	for _, e := range table {
		if level < e.MinLevel {
			continue
		}
		w := float64(e.BaseWeight + e.WeightPerLevel*level)
		if w <= 0 {
			continue
		}
		candidates = append(candidates, weighted{name: e.Name, weight: w})
		total += w
	}
	if len(candidates) == 0 {
		return table[0].Name
	}

	r := rng.Float64() * total
	for _, c := range candidates {
		r -= c.weight
		if r <= 0 {
			return c.name
		}
	}
	return table[0].Name
}
