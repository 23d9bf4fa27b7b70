package systems

import (
	"sort"

	"depths-server/internal/domain"
	"depths-server/pkg/dungeon"
)

// FindPath ищет маршрут по тайлам 4-связным A* с манхэттенской эвристикой.
// Твердые двери считаются стенами. Вход и выход - мировые координаты,
// результат - центры тайлов маршрута (включая стартовый).
//
// Пустой срез означает "маршрута нет" - это НЕ фатальная ошибка:
// вызывающая сущность обязана откатиться на прямое движение к цели.
func FindPath(grid *dungeon.Grid, blockers []*domain.Entity, from, to domain.Vec2) []domain.Vec2 {
	startX := int(from.X) / grid.TileSize
	startY := int(from.Y) / grid.TileSize
	endX := int(to.X) / grid.TileSize
	endY := int(to.Y) / grid.TileSize

	// Тайлы, занятые твердыми блокираторами (двери).
	solid := make(map[[2]int]bool)
	for _, e := range blockers {
		if !e.Blocking() {
			continue
		}
		tx := int(e.Pos.X) / grid.TileSize
		ty := int(e.Pos.Y) / grid.TileSize
		solid[[2]int{tx, ty}] = true
	}

	type node struct {
		x, y   int
		g, f   int
		parent *node
	}

	open := []*node{{x: startX, y: startY}}
	inOpen := map[[2]int]*node{{startX, startY}: open[0]}
	closed := make(map[[2]int]bool)

	var goal *node
	for len(open) > 0 {
		sort.Slice(open, func(i, j int) bool { return open[i].f < open[j].f })
		current := open[0]
		open = open[1:]
		delete(inOpen, [2]int{current.x, current.y})

		if current.x == endX && current.y == endY {
			goal = current
			break
		}
		closed[[2]int{current.x, current.y}] = true

		for _, d := range [4][2]int{{0, -1}, {0, 1}, {-1, 0}, {1, 0}} {
			nx, ny := current.x+d[0], current.y+d[1]
			key := [2]int{nx, ny}

			if !grid.IsFloor(nx, ny) || solid[key] || closed[key] {
				continue
			}

			g := current.g + 1
			h := abs(nx-endX) + abs(ny-endY)

			if existing, ok := inOpen[key]; ok {
				if existing.g <= g {
					continue
				}
				existing.g = g
				existing.f = g + h
				existing.parent = current
				continue
			}

			n := &node{x: nx, y: ny, g: g, f: g + h, parent: current}
			open = append(open, n)
			inOpen[key] = n
		}
	}

	if goal == nil {
		return nil
	}

	var path []domain.Vec2
	for n := goal; n != nil; n = n.parent {
		cx, cy := grid.TileCenter(n.x, n.y)
		path = append(path, domain.Vec2{X: cx, Y: cy})
	}
	// Разворачиваем: путь собран от цели к старту.
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
