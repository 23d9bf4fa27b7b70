package game

import (
	"depths-server/internal/domain"
	"depths-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// updateActiveZones вычисляет текущую комнату игрока, выставляет флаги
// активности и прогоняет жизненный цикл комнаты. Активны сущности
// текущей комнаты и все глобальные; остальные заморожены.
func (w *World) updateActiveZones() {
	room := w.currentRoom()

	current := domain.GlobalRoom
	if room != nil {
		current = room.Index
	}
	for _, e := range w.Entities {
		e.Active = e.AlwaysActive || e.RoomID == domain.GlobalRoom || e.RoomID == current
	}

	if room != nil {
		w.handleRoomLogic(room)
	}
}

// handleRoomLogic - триггер и зачистка комнаты.
//
// Триггер одноразовый: двери запираются, состав комнаты материализуется
// в живых врагов, в комнате выхода открывается портал. Зачистка тоже
// одноразовая: двери отпираются навсегда, открытие портала дублируется
// на случай, если триггер его пропустил. Оба флага никогда не
// сбрасываются.
func (w *World) handleRoomLogic(room *domain.Room) {
	if !room.Triggered {
		w.tryTriggerRoom(room)
		// Пустой состав зачищается тем же тиком, без промежуточного кадра
		// с запертыми дверями.
	}

	if room.Triggered && !room.Cleared {
		for _, e := range w.Entities {
			if e.Category == domain.CategoryEnemy && e.RoomID == room.Index && !e.MarkedForRemoval {
				return
			}
		}
		w.clearRoom(room)
	}
}

// tryTriggerRoom запирает комнату и спавнит ее состав. Срабатывание
// откладывается, пока игрок пересекает проем двери: запирание в этот
// момент зажало бы его створкой.
func (w *World) tryTriggerRoom(room *domain.Room) {
	if room.Cleared {
		return
	}

	p := w.Player
	margin := w.cfg.Doors.SafetyMargin
	for _, door := range room.Doors {
		dx, dy, dw, dh := door.BlockingRect()
		if p.Pos.X+p.Radius+margin > dx && p.Pos.X-p.Radius-margin < dx+dw &&
			p.Pos.Y+p.Radius+margin > dy && p.Pos.Y-p.Radius-margin < dy+dh {
			return
		}
	}

	room.Triggered = true
	w.activeRoom = room

	for _, door := range room.Doors {
		door.Door.Locked = true
		door.Door.State = domain.DoorClosing
	}

	for _, spec := range room.Roster {
		e := newEnemy(w.rng, w.cfg, spec.EnemyType, domain.Vec2{X: spec.X, Y: spec.Y}, room.Index)
		// Комната игрока по определению активна, ждать следующего
		// пересчета зон не нужно.
		e.Active = true
		w.addEntity(e)
	}

	// Портал виден открытым уже во время боя. Сам переход все равно
	// требует зачистки комнаты выхода, см. checkExit.
	if room.IsExit && w.Portal != nil && !w.Portal.Portal.Open {
		w.Portal.Portal.Open = true
		w.SpawnSparks(w.Portal.Pos, "#0ff", 10)
	}

	logger.Log.WithFields(logrus.Fields{
		"component": "world",
		"room":      room.Index,
		"type":      room.Type.String(),
		"enemies":   len(room.Roster),
	}).Debug("Room triggered")
}

func (w *World) clearRoom(room *domain.Room) {
	room.Cleared = true
	w.activeRoom = nil

	for _, door := range room.Doors {
		door.Door.Locked = false
	}

	if room.IsExit && w.Portal != nil && !w.Portal.Portal.Open {
		w.Portal.Portal.Open = true
		w.SpawnSparks(w.Portal.Pos, "#0ff", 10)
	}

	logger.Log.WithFields(logrus.Fields{
		"component": "world",
		"room":      room.Index,
	}).Debug("Room cleared")
}

// checkExit запрашивает переход на следующий уровень, когда игрок
// взаимодействует с открытым порталом. Комната выхода должна быть
// зачищена: открытый во время боя портал переход не дает.
func (w *World) checkExit(interact bool) {
	if w.Portal == nil || !w.Portal.Portal.Open || !interact {
		return
	}
	if exit := w.exitRoom(); exit != nil && !exit.Cleared {
		return
	}
	if w.Player.Pos.DistanceTo(w.Portal.Pos) < w.Portal.Portal.InteractRadius {
		w.advanceRequested = true
	}
}

func (w *World) exitRoom() *domain.Room {
	for _, room := range w.Level.Rooms {
		if room.IsExit {
			return room
		}
	}
	return nil
}
