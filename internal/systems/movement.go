package systems

import (
	"depths-server/internal/domain"
	"depths-server/pkg/dungeon"
)

// AdvanceMovement двигает врага согласно его стратегии движения.
// Стратегия - тег в AIComponent, а не подкласс: вся разница вариантов
// сводится к способу выбора направления.
func AdvanceMovement(e *domain.Entity, target *domain.Entity, grid *dungeon.Grid, blockers []*domain.Entity, dt float64, blocked BlockedFunc) {
	if e.AI == nil || target == nil {
		return
	}

	switch e.AI.Movement {
	case domain.MoveStationary:
		return
	case domain.MoveChase:
		chaseDirect(e, target.Pos, dt, blocked)
	case domain.MovePathfindingChase:
		chaseWithPath(e, target, grid, blockers, dt, blocked)
	}
}

// chaseDirect - прямое преследование с раздельным откатом осей.
func chaseDirect(e *domain.Entity, target domain.Vec2, dt float64, blocked BlockedFunc) {
	dir := target.Sub(e.Pos).Normalized()
	if dir.X == 0 && dir.Y == 0 {
		return
	}
	MoveWithRollback(e, dir.X*e.AI.MoveSpeed*dt, dir.Y*e.AI.MoveSpeed*dt, blocked)
}

// chaseWithPath - умное преследование: при прямой видимости идем напрямую,
// иначе следуем кэшированному маршруту A*. Сбой поиска маршрута не фатален -
// откатываемся на прямое движение к цели.
func chaseWithPath(e *domain.Entity, target *domain.Entity, grid *dungeon.Grid, blockers []*domain.Entity, dt float64, blocked BlockedFunc) {
	ai := e.AI

	if HasLineOfSight(grid, e.Pos, target.Pos) {
		ai.Path = nil
		chaseDirect(e, target.Pos, dt, blocked)
		return
	}

	// Маршрут перестраивается периодически, не каждый тик.
	ai.RepathTimer -= dt
	if ai.RepathTimer <= 0 || len(ai.Path) == 0 {
		ai.RepathTimer = 0.5
		ai.Path = FindPath(grid, blockers, e.Pos, target.Pos)
	}

	if len(ai.Path) == 0 {
		// Маршрута нет - прямое движение к цели.
		chaseDirect(e, target.Pos, dt, blocked)
		return
	}

	waypoint := ai.Path[0]
	if e.Pos.DistanceSquaredTo(waypoint) < 64 {
		ai.Path = ai.Path[1:]
		if len(ai.Path) == 0 {
			chaseDirect(e, target.Pos, dt, blocked)
			return
		}
		waypoint = ai.Path[0]
	}
	chaseDirect(e, waypoint, dt, blocked)
}
