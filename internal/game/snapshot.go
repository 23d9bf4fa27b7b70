package game

import (
	"sort"

	"depths-server/internal/domain"
	"depths-server/pkg/api"
)

// DepthKey задает порядок отрисовки сущностей в снапшоте.
// Ключ поставляет вызывающая сторона: сервер сортирует по Y для
// классической top-down перспективы, отладочные клиенты - как угодно.
type DepthKey func(*domain.Entity) float64

// DepthByY - стандартный ключ: ниже на экране значит ближе к камере.
func DepthByY(e *domain.Entity) float64 {
	return e.Pos.Y
}

// Snapshot - слепок динамического состояния мира на один тик.
// Статическая геометрия уровня уходит отдельным кадром (api.LevelFrame).
type Snapshot struct {
	Tick  int64 `json:"tick"`
	Level int   `json:"level"`

	HP    int `json:"hp"`
	MaxHP int `json:"maxHp"`
	Gold  int `json:"gold"`

	Upgrades []string `json:"upgrades"`

	Entities []*domain.Entity `json:"entities"`
	Effects  []Effect         `json:"effects"`

	PortalOpen bool `json:"portalOpen"`
}

// Snapshot собирает слепок текущего тика. Сущности отсортированы по
// ключу глубины; помеченные на удаление не попадают никогда.
func (w *World) Snapshot(key DepthKey) Snapshot {
	entities := make([]*domain.Entity, 0, len(w.Entities))
	for _, e := range w.Entities {
		if !e.MarkedForRemoval {
			entities = append(entities, e)
		}
	}
	sort.SliceStable(entities, func(i, j int) bool {
		return key(entities[i]) < key(entities[j])
	})

	snap := Snapshot{
		Tick:       w.TickNum,
		Level:      w.LevelNum,
		Entities:   entities,
		Effects:    w.Effects,
		PortalOpen: w.Portal != nil && w.Portal.Portal.Open,
		Upgrades:   w.upgradeList(),
	}
	if w.Player != nil {
		snap.HP = w.Player.Combat.HP
		snap.MaxHP = w.Player.Combat.MaxHP
		snap.Gold = w.Player.Player.Gold
	}
	return snap
}

// LevelFrame собирает статический кадр уровня для клиента.
func (w *World) LevelFrame() api.LevelFrame {
	rooms := make([]api.RoomView, 0, len(w.Level.Rooms))
	for _, r := range w.Level.Rooms {
		rooms = append(rooms, api.RoomView{
			Index:     r.Index,
			X:         r.X,
			Y:         r.Y,
			W:         r.W,
			H:         r.H,
			Type:      r.Type.String(),
			IsExit:    r.IsExit,
			Triggered: r.Triggered,
			Cleared:   r.Cleared,
		})
	}

	return api.LevelFrame{
		Number:   w.LevelNum,
		Width:    w.Level.Grid.Width,
		Height:   w.Level.Grid.Height,
		TileSize: w.Level.Grid.TileSize,
		Walls:    w.Level.Grid.Walls(),
		Rooms:    rooms,
	}
}

func (w *World) upgradeList() []string {
	var out []string
	for _, id := range upgradePool {
		if w.Upgrades[id] {
			out = append(out, id)
		}
	}
	return out
}
