package systems

import (
	"depths-server/internal/domain"
	"depths-server/pkg/dungeon"
	"depths-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// HasLineOfSight проверяет прямую видимость между двумя мировыми точками.
// Использует целочисленный алгоритм Брезенхэма по тайлам; стартовый и
// конечный тайлы препятствиями не считаются.
func HasLineOfSight(grid *dungeon.Grid, from, to domain.Vec2) bool {
	x0 := int(from.X) / grid.TileSize
	y0 := int(from.Y) / grid.TileSize
	x1 := int(to.X) / grid.TileSize
	y1 := int(to.Y) / grid.TileSize

	if x0 == x1 && y0 == y1 {
		return true
	}

	dx := abs(x1 - x0)
	dy := abs(y1 - y0)
	sx := sign(x1 - x0)
	sy := sign(y1 - y0)

	startX, startY := x0, y0
	err := dx - dy

	for {
		isStart := x0 == startX && y0 == startY
		isEnd := x0 == x1 && y0 == y1

		if !isStart && !isEnd && grid.IsWallTile(x0, y0) {
			logger.Log.WithFields(logrus.Fields{
				"component": "sight",
				"block_x":   x0,
				"block_y":   y0,
			}).Debug("Line of sight blocked")
			return false
		}

		if x0 == x1 && y0 == y1 {
			break
		}

		e2 := err * 2
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
	return true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	if v > 0 {
		return 1
	}
	if v < 0 {
		return -1
	}
	return 0
}
