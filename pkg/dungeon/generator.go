package dungeon

import (
	"errors"
	"math/rand"

	"depths-server/internal/domain"
	"depths-server/pkg/config"
	"depths-server/pkg/logger"
)

// ErrGenerationFailed - патологический случай: ни одной комнаты не принято.
// Вызывающий код обязан перегенерировать уровень с новым сидом,
// а не тащить неопределенную точку спавна в геймплей.
var ErrGenerationFailed = errors.New("dungeon: no rooms accepted")

// DoorSocket - клетка пола на один тайл снаружи границы комнаты:
// место пересечения комнаты с коридором, пригодное для двери.
type DoorSocket struct {
	TX, TY     int
	Horizontal bool // true для верхней/нижней кромки
}

// Corridor - связь двух последовательно принятых комнат.
type Corridor struct {
	From, To        int  // индексы комнат
	HorizontalFirst bool // ориентация угла L-образного коридора
}

// Level - результат генерации: сетка, комнаты, коридоры, дверные сокеты
// и контрольные точки. Все в тайловых координатах, точки - в мировых.
type Level struct {
	Grid        *Grid
	Rooms       []*domain.Room
	Corridors   []Corridor
	DoorSockets []DoorSocket

	SpawnPoint domain.Vec2
	ExitPoint  domain.Vec2

	Number int
	Seed   int64
}

// Rect - вспомогательная структура для размещения комнаты.
type Rect struct {
	X, Y, W, H int
}

func (r Rect) Center() (int, int) {
	return r.X + r.W/2, r.Y + r.H/2
}

// Expand возвращает прямоугольник, расширенный на pad с каждой стороны.
func (r Rect) Expand(pad int) Rect {
	return Rect{X: r.X - pad, Y: r.Y - pad, W: r.W + 2*pad, H: r.H + 2*pad}
}

// Intersects - пересечение прямоугольников; касание кромками не считается.
func (r Rect) Intersects(other Rect) bool {
	return r.X < other.X+other.W && r.X+r.W > other.X &&
		r.Y < other.Y+other.H && r.Y+r.H > other.Y
}

// Generate создает новый уровень.
//
// Алгоритм: карта заливается стенами, затем делается до RoomCount попыток
// разместить случайную комнату. Неудачная попытка (пересечение с уже
// принятой комнатой с учетом зазора) просто пропускается, поэтому итоговое
// число комнат может быть меньше целевого. Каждая принятая комната
// соединяется с предыдущей L-образным коридором шириной в два тайла.
func Generate(rng *rand.Rand, cfg config.LevelConfig, number int, seed int64) (*Level, error) {
	grid := NewGrid(cfg.Width, cfg.Height, cfg.TileSize)

	level := &Level{
		Grid:   grid,
		Number: number,
		Seed:   seed,
	}

	var rects []Rect
	for i := 0; i < cfg.RoomCount; i++ {
		w := randRange(rng, cfg.MinRoomSize, cfg.MaxRoomSize)
		h := randRange(rng, cfg.MinRoomSize, cfg.MaxRoomSize)
		x := randRange(rng, cfg.Padding, cfg.Width-w-cfg.Padding-1)
		y := randRange(rng, cfg.Padding, cfg.Height-h-cfg.Padding-1)

		candidate := Rect{X: x, Y: y, W: w, H: h}

		overlaps := false
		expanded := candidate.Expand(cfg.Padding)
		for _, other := range rects {
			if expanded.Intersects(other.Expand(cfg.Padding)) {
				overlaps = true
				break
			}
		}
		if overlaps {
			continue
		}

		carveRoom(grid, candidate)

		if len(rects) > 0 {
			prev := rects[len(rects)-1]
			horizFirst := rng.Intn(2) == 0
			connectRooms(grid, prev, candidate, horizFirst)
			level.Corridors = append(level.Corridors, Corridor{
				From:            len(rects) - 1,
				To:              len(rects),
				HorizontalFirst: horizFirst,
			})
		}

		level.Rooms = append(level.Rooms, &domain.Room{
			Index: len(rects),
			X:     x, Y: y, W: w, H: h,
		})
		rects = append(rects, candidate)
	}

	if len(level.Rooms) == 0 {
		return nil, ErrGenerationFailed
	}

	level.DoorSockets = findDoorSockets(grid, rects)

	// Спавн - центр первой комнаты. Точка выхода по умолчанию - центр
	// последней; классификатор может переназначить ее на боссовую комнату.
	scx, scy := rects[0].Center()
	level.SpawnPoint = vecAtTile(grid, scx, scy)

	ecx, ecy := rects[len(rects)-1].Center()
	level.ExitPoint = vecAtTile(grid, ecx, ecy)

	logger.Log.WithFields(map[string]interface{}{
		"component": "generator",
		"level":     number,
		"rooms":     len(level.Rooms),
		"sockets":   len(level.DoorSockets),
		"seed":      seed,
	}).Debug("Level generated")

	return level, nil
}

// GenerateWithRetry перегенерирует уровень с новыми сидами при
// патологическом исходе. После исчерпания попыток возвращает минимальную
// гарантированно проходимую однокомнатную планировку: сбой генерации
// не должен быть виден игроку.
func GenerateWithRetry(cfg config.LevelConfig, number int, seed int64) *Level {
	current := seed
	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		rng := rand.New(rand.NewSource(current))
		level, err := Generate(rng, cfg, number, current)
		if err == nil {
			return level
		}
		logger.Log.WithFields(map[string]interface{}{
			"component": "generator",
			"level":     number,
			"seed":      current,
			"attempt":   attempt,
		}).Warn("Generation attempt failed, retrying with fresh seed")
		current = current*31 + int64(attempt) + 1
	}

	logger.Log.WithField("level", number).Error("Generation retries exhausted, using fallback layout")
	return fallbackLevel(cfg, number, seed)
}

// fallbackLevel - одна комната в центре карты, спавн и выход в ней же.
func fallbackLevel(cfg config.LevelConfig, number int, seed int64) *Level {
	grid := NewGrid(cfg.Width, cfg.Height, cfg.TileSize)

	w, h := cfg.MinRoomSize, cfg.MinRoomSize
	room := Rect{X: (cfg.Width - w) / 2, Y: (cfg.Height - h) / 2, W: w, H: h}
	carveRoom(grid, room)

	cx, cy := room.Center()
	center := vecAtTile(grid, cx, cy)

	return &Level{
		Grid:       grid,
		Rooms:      []*domain.Room{{Index: 0, X: room.X, Y: room.Y, W: w, H: h}},
		SpawnPoint: center,
		ExitPoint:  center,
		Number:     number,
		Seed:       seed,
	}
}

// --- Вспомогательные функции ---

func carveRoom(grid *Grid, r Rect) {
	for y := r.Y; y < r.Y+r.H; y++ {
		for x := r.X; x < r.X+r.W; x++ {
			grid.Carve(x, y)
		}
	}
}

// connectRooms прокладывает L-образный коридор между центрами комнат.
// Оба плеча расширяются на соседний ряд/столбец, чтобы всегда существовал
// проход шириной в два тайла (без диагональных "бутылочных горлышек").
func connectRooms(grid *Grid, r1, r2 Rect, horizFirst bool) {
	cx1, cy1 := r1.Center()
	cx2, cy2 := r2.Center()

	if horizFirst {
		carveHCorridor(grid, cx1, cx2, cy1)
		carveVCorridor(grid, cy1, cy2, cx2)
	} else {
		carveVCorridor(grid, cy1, cy2, cx1)
		carveHCorridor(grid, cx1, cx2, cy2)
	}
}

func carveHCorridor(grid *Grid, x1, x2, y int) {
	for x := min(x1, x2); x <= max(x1, x2); x++ {
		grid.Carve(x, y)
		grid.Carve(x, y+1)
	}
}

func carveVCorridor(grid *Grid, y1, y2, x int) {
	for y := min(y1, y2); y <= max(y1, y2); y++ {
		grid.Carve(x, y)
		grid.Carve(x+1, y)
	}
}

// findDoorSockets сканирует четыре кромки каждой комнаты (на один тайл
// снаружи прямоугольника). Каждая клетка пола на кромке - дверной сокет.
// Дубликаты по координате отбрасываются.
func findDoorSockets(grid *Grid, rooms []Rect) []DoorSocket {
	var sockets []DoorSocket
	seen := make(map[[2]int]bool)

	add := func(tx, ty int, horiz bool) {
		if tx < 1 || tx >= grid.Width-1 || ty < 1 || ty >= grid.Height-1 {
			return
		}
		key := [2]int{tx, ty}
		if seen[key] {
			return
		}
		seen[key] = true
		sockets = append(sockets, DoorSocket{TX: tx, TY: ty, Horizontal: horiz})
	}

	for _, r := range rooms {
		// Верхняя и нижняя кромки - горизонтальные двери.
		for x := r.X; x < r.X+r.W; x++ {
			if grid.IsFloor(x, r.Y-1) {
				add(x, r.Y-1, true)
			}
			if grid.IsFloor(x, r.Y+r.H) {
				add(x, r.Y+r.H, true)
			}
		}
		// Левая и правая кромки - вертикальные двери.
		for y := r.Y; y < r.Y+r.H; y++ {
			if grid.IsFloor(r.X-1, y) {
				add(r.X-1, y, false)
			}
			if grid.IsFloor(r.X+r.W, y) {
				add(r.X+r.W, y, false)
			}
		}
	}
	return sockets
}

func vecAtTile(grid *Grid, tx, ty int) domain.Vec2 {
	x, y := grid.TileCenter(tx, ty)
	return domain.Vec2{X: x, Y: y}
}

func randRange(rng *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return rng.Intn(hi-lo+1) + lo
}
