package systems

import (
	"math"

	"depths-server/internal/domain"
)

// BlockedFunc - предикат "прямоугольник упирается в стену или блокиратор".
// Саму проверку дает Resolver; движение и физика лишь откатывают оси.
type BlockedFunc func(x, y, w, h float64) bool

// IntegrateKnockback гасит и применяет импульсную скорость сущности.
// Оси шагаются раздельно: заблокированная ось откатывается и обнуляется,
// свободная продолжает скользить вдоль препятствия.
func IntegrateKnockback(e *domain.Entity, dt float64, blocked BlockedFunc) {
	if e.Combat != nil && e.Combat.FlashTimer > 0 {
		e.Combat.FlashTimer -= dt
	}

	if e.Knock.X == 0 && e.Knock.Y == 0 {
		return
	}

	// Затухание.
	e.Knock.X -= e.Knock.X * e.Friction * dt
	e.Knock.Y -= e.Knock.Y * e.Friction * dt

	r := e.Radius * 0.8

	moveX := e.Knock.X * dt
	e.Pos.X += moveX
	if blocked(e.Pos.X-r, e.Pos.Y-r, r*2, r*2) {
		e.Pos.X -= moveX
		e.Knock.X = 0
	}

	moveY := e.Knock.Y * dt
	e.Pos.Y += moveY
	if blocked(e.Pos.X-r, e.Pos.Y-r, r*2, r*2) {
		e.Pos.Y -= moveY
		e.Knock.Y = 0
	}

	// Микроскорости обнуляем, чтобы не дрожать вечно.
	if math.Abs(e.Knock.X) < 1 {
		e.Knock.X = 0
	}
	if math.Abs(e.Knock.Y) < 1 {
		e.Knock.Y = 0
	}
}

// MoveWithRollback двигает сущность на (dx, dy) с пошаговым откатом осей.
// Возвращает, удалось ли сдвинуться хотя бы по одной оси.
func MoveWithRollback(e *domain.Entity, dx, dy float64, blocked BlockedFunc) bool {
	r := e.Radius * 0.8
	moved := false

	e.Pos.X += dx
	if blocked(e.Pos.X-r, e.Pos.Y-r, r*2, r*2) {
		e.Pos.X -= dx
	} else if dx != 0 {
		moved = true
	}

	e.Pos.Y += dy
	if blocked(e.Pos.X-r, e.Pos.Y-r, r*2, r*2) {
		e.Pos.Y -= dy
	} else if dy != 0 {
		moved = true
	}

	return moved
}
