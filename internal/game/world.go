package game

import (
	"math/rand"

	"depths-server/internal/domain"
	"depths-server/internal/spatial"
	"depths-server/internal/systems"
	"depths-server/pkg/config"
	"depths-server/pkg/dungeon"
	"depths-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// Effect - одноразовый визуальный эффект (искры), накапливается за тик
// и отдается клиенту в снапшоте. Мир не хранит эффекты дольше одного тика.
type Effect struct {
	Pos   domain.Vec2 `json:"pos"`
	Color string      `json:"color"`
	Count int         `json:"count"`
}

// World - состояние одного уровня подземелья: сетка, комнаты и плоский
// список сущностей. Вся симуляция детерминирована относительно masterSeed:
// уровень N генерируется из seed = masterSeed + N.
type World struct {
	cfg *config.Config
	rng *rand.Rand

	masterSeed int64
	LevelNum   int

	Level    *dungeon.Level
	Entities []*domain.Entity
	Player   *domain.Entity
	Portal   *domain.Entity

	resolver *systems.Resolver

	// Комната, бой в которой идет прямо сейчас (двери заперты).
	activeRoom *domain.Room

	Upgrades map[string]bool
	Effects  []Effect
	TickNum  int64

	advanceRequested bool
	blockers         []*domain.Entity
}

// NewWorld создает мир и генерирует первый уровень.
func NewWorld(cfg *config.Config, masterSeed int64) *World {
	w := &World{
		cfg:        cfg,
		masterSeed: masterSeed,
		LevelNum:   1,
		Upgrades:   make(map[string]bool),
	}
	w.loadLevel()
	return w
}

// loadLevel собирает уровень номер w.LevelNum: генерация, классификация,
// заселение, затем материализация дверей, портала, алтарей и игрока.
// Все сущности предыдущего уровня, кроме игрока, отбрасываются.
func (w *World) loadLevel() {
	levelSeed := w.masterSeed + int64(w.LevelNum)
	w.rng = rand.New(rand.NewSource(levelSeed))

	level := dungeon.GenerateWithRetry(w.cfg.Level, w.LevelNum, levelSeed)
	dungeon.Classify(w.rng, level, w.cfg.Spawn)
	dungeon.Populate(w.rng, level, w.cfg)
	w.Level = level

	w.Entities = w.Entities[:0]
	w.activeRoom = nil
	w.advanceRequested = false

	// Игрок переживает смену уровня: здоровье и апгрейды сохраняются.
	if w.Player == nil {
		w.Player = newPlayer(w.cfg.Player)
	}
	w.Player.Pos = level.SpawnPoint
	w.Player.Knock = domain.Vec2{}
	w.Player.MarkedForRemoval = false
	w.addEntity(w.Player)

	for _, socket := range level.DoorSockets {
		door := newDoor(w.rng, socket, level.Grid.TileSize, w.cfg.Doors)
		w.addEntity(door)
		w.linkDoor(door, socket)
	}

	// Стартовая комната считается пройденной: бой в ней не начинается.
	spawn := level.Rooms[0]
	spawn.Triggered = true
	spawn.Cleared = true

	w.Portal = newPortal(w.rng, level.ExitPoint, w.cfg.Player.InteractionRadius)
	// Вырожденная однокомнатная планировка: спавн и есть выход,
	// зачищать нечего, портал открыт сразу.
	if spawn.IsExit {
		w.Portal.Portal.Open = true
	}
	w.addEntity(w.Portal)

	for _, room := range level.Rooms {
		if room.Type == domain.RoomAltar {
			cx, cy := room.Center()
			ax, ay := level.Grid.TileCenter(cx, cy)
			w.addEntity(newAltar(w.rng, domain.Vec2{X: ax, Y: ay}))
		}
	}

	w.resolver = systems.NewResolver(level.Grid, spatial.New(w.cfg.Spatial.CellSize))

	// Стартовый расчет зон активности, иначе первый тик пройдет
	// с замороженным миром.
	w.updateActiveZones()

	logger.Log.WithFields(logrus.Fields{
		"component": "world",
		"level":     w.LevelNum,
		"seed":      levelSeed,
		"rooms":     len(level.Rooms),
		"doors":     len(level.DoorSockets),
	}).Info("Level loaded")
}

// linkDoor привязывает дверь ко всем комнатам, к границе которых
// примыкает ее тайл. Дверь коридора между комнатами принадлежит обеим.
func (w *World) linkDoor(door *domain.Entity, socket dungeon.DoorSocket) {
	for _, room := range w.Level.Rooms {
		if room.TouchesTile(socket.TX, socket.TY) {
			room.Doors = append(room.Doors, door)
		}
	}
}

// AdvanceLevel переходит на следующий уровень. Вызывается автоматом
// состояний при входе в LEVEL_TRANSITION.
func (w *World) AdvanceLevel() {
	w.LevelNum++
	w.loadLevel()
}

// Restart сбрасывает мир к первому уровню с тем же мастер-сидом.
func (w *World) Restart() {
	w.LevelNum = 1
	w.Player = nil
	w.Upgrades = make(map[string]bool)
	w.TickNum = 0
	w.loadLevel()
}

// MasterSeed возвращает сид забега.
func (w *World) MasterSeed() int64 {
	return w.masterSeed
}

// PlayerDead сообщает, погиб ли игрок.
func (w *World) PlayerDead() bool {
	return w.Player == nil || !w.Player.Alive()
}

func (w *World) addEntity(e *domain.Entity) {
	w.Entities = append(w.Entities, e)
}

// SpawnSparks реализует systems.Env: эффект попадает в буфер тика.
func (w *World) SpawnSparks(pos domain.Vec2, color string, count int) {
	w.Effects = append(w.Effects, Effect{Pos: pos, Color: color, Count: count})
}

// rebuildBlockers собирает твердые сущности текущего тика. Список
// используется и узким проходом коллизий, и предикатами движения.
func (w *World) rebuildBlockers() {
	w.blockers = w.blockers[:0]
	for _, e := range w.Entities {
		if e.MarkedForRemoval {
			continue
		}
		if e.Blocking() {
			w.blockers = append(w.blockers, e)
		}
	}
}

// blockedAt - предикат проходимости для систем движения: стены сетки
// плюс твердые двери и алтари.
func (w *World) blockedAt(x, y, width, height float64) bool {
	return w.resolver.BlockedAt(x, y, width, height, w.blockers)
}

// currentRoom возвращает комнату, в тайле которой стоит игрок, или nil.
func (w *World) currentRoom() *domain.Room {
	ts := float64(w.Level.Grid.TileSize)
	tx := int(w.Player.Pos.X / ts)
	ty := int(w.Player.Pos.Y / ts)
	for _, room := range w.Level.Rooms {
		if room.ContainsTile(tx, ty) {
			return room
		}
	}
	return nil
}
