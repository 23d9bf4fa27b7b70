package game

import (
	"math"

	"depths-server/internal/domain"
)

// updateDoor двигает створку двери и разруливает застрявшего игрока.
//
// Запертая дверь всегда стремится закрыться, незапертая открывается
// по близости игрока. Переходы CLOSED -> OPENING -> OPEN -> CLOSING
// управляются только этими двумя условиями, внешний код меняет лишь Locked.
func (w *World) updateDoor(e *domain.Entity, dt float64) {
	d := e.Door
	cx := e.Pos.X + d.Width/2
	cy := e.Pos.Y + d.Height/2

	if d.Locked {
		// Аварийное выталкивание: створка еще едет, а игрок стоит в проеме.
		// Полностью закрытую дверь обрабатывает обычная проверка стен.
		if d.SlideOffset > 0 {
			p := w.Player
			if p.Pos.X+p.Radius > e.Pos.X && p.Pos.X-p.Radius < e.Pos.X+d.Width &&
				p.Pos.Y+p.Radius > e.Pos.Y && p.Pos.Y-p.Radius < e.Pos.Y+d.Height {
				angle := math.Atan2(p.Pos.Y-cy, p.Pos.X-cx)
				force := 200 * dt
				p.Pos.X += math.Cos(angle) * force
				p.Pos.Y += math.Sin(angle) * force
			}
		}
		d.State = domain.DoorClosing
	} else {
		dx := w.Player.Pos.X - cx
		dy := w.Player.Pos.Y - cy
		if dx*dx+dy*dy < d.TriggerRadius*d.TriggerRadius {
			d.State = domain.DoorOpening
		} else {
			d.State = domain.DoorClosing
		}
	}

	switch d.State {
	case domain.DoorOpening:
		d.SlideOffset += d.Speed * dt
		if d.SlideOffset > d.MaxOffset {
			d.SlideOffset = d.MaxOffset
			d.State = domain.DoorOpen
		}
	case domain.DoorClosing:
		d.SlideOffset -= d.Speed * dt
		if d.SlideOffset < 0 {
			d.SlideOffset = 0
			d.State = domain.DoorClosed
		}
	}
}
