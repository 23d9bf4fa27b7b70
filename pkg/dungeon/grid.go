package dungeon

// Grid - тайловая сетка уровня. Каждая клетка либо стена, либо пол.
// Владеет сеткой текущий уровень; при переходе она заменяется целиком.
type Grid struct {
	Width    int
	Height   int
	TileSize int

	walls [][]bool // [y][x], true = стена
}

// NewGrid создает сетку, целиком заполненную стенами.
func NewGrid(width, height, tileSize int) *Grid {
	walls := make([][]bool, height)
	for y := range walls {
		walls[y] = make([]bool, width)
		for x := range walls[y] {
			walls[y][x] = true
		}
	}
	return &Grid{Width: width, Height: height, TileSize: tileSize, walls: walls}
}

// InBounds проверяет тайловые координаты на принадлежность карте.
func (g *Grid) InBounds(tx, ty int) bool {
	return tx >= 0 && tx < g.Width && ty >= 0 && ty < g.Height
}

// IsFloor сообщает, является ли тайл полом. Выход за границы - не пол.
func (g *Grid) IsFloor(tx, ty int) bool {
	return g.InBounds(tx, ty) && !g.walls[ty][tx]
}

// IsWallTile сообщает, является ли тайл стеной. Выход за границы - стена.
func (g *Grid) IsWallTile(tx, ty int) bool {
	return !g.InBounds(tx, ty) || g.walls[ty][tx]
}

// Carve превращает тайл в пол.
func (g *Grid) Carve(tx, ty int) {
	if g.InBounds(tx, ty) {
		g.walls[ty][tx] = false
	}
}

// IsWallAt проверяет стену по мировым координатам.
func (g *Grid) IsWallAt(x, y float64) bool {
	tx := int(x) / g.TileSize
	ty := int(y) / g.TileSize
	if x < 0 || y < 0 {
		return true
	}
	return g.IsWallTile(tx, ty)
}

// CheckRect проверяет прямоугольник (мировые координаты) на пересечение
// со стенами. Правая/нижняя кромки включаются, как и в исходной геометрии
// тайловой проверки: прямоугольник, целиком лежащий в одном тайле пола,
// стен не касается.
func (g *Grid) CheckRect(x, y, w, h float64) bool {
	ts := float64(g.TileSize)
	left := int(fastFloor(x / ts))
	right := int(fastFloor((x + w) / ts))
	top := int(fastFloor(y / ts))
	bottom := int(fastFloor((y + h) / ts))

	for ty := top; ty <= bottom; ty++ {
		for tx := left; tx <= right; tx++ {
			if g.IsWallTile(tx, ty) {
				return true
			}
		}
	}
	return false
}

// FindNearestFloor ищет ближайший тайл пола расширяющимся квадратом.
// Если пол не найден в радиусе 10, возвращает исходные координаты.
func (g *Grid) FindNearestFloor(tx, ty int) (int, int) {
	if g.IsFloor(tx, ty) {
		return tx, ty
	}
	for radius := 1; radius < 10; radius++ {
		for dy := -radius; dy <= radius; dy++ {
			for dx := -radius; dx <= radius; dx++ {
				if g.IsFloor(tx+dx, ty+dy) {
					return tx + dx, ty + dy
				}
			}
		}
	}
	return tx, ty
}

// TileCenter возвращает мировые координаты центра тайла.
func (g *Grid) TileCenter(tx, ty int) (float64, float64) {
	half := float64(g.TileSize) / 2
	return float64(tx*g.TileSize) + half, float64(ty*g.TileSize) + half
}

// FloodFillFrom возвращает число тайлов пола, достижимых из стартового
// тайла 4-связным обходом. Инвариант генератора: это число равно общему
// количеству тайлов пола.
func (g *Grid) FloodFillFrom(tx, ty int) int {
	if !g.IsFloor(tx, ty) {
		return 0
	}

	visited := make([][]bool, g.Height)
	for y := range visited {
		visited[y] = make([]bool, g.Width)
	}

	type cell struct{ x, y int }
	queue := []cell{{tx, ty}}
	visited[ty][tx] = true
	count := 0

	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		count++

		for _, d := range [4]cell{{0, -1}, {0, 1}, {-1, 0}, {1, 0}} {
			nx, ny := c.x+d.x, c.y+d.y
			if g.IsFloor(nx, ny) && !visited[ny][nx] {
				visited[ny][nx] = true
				queue = append(queue, cell{nx, ny})
			}
		}
	}
	return count
}

// FloorCount возвращает общее число тайлов пола.
func (g *Grid) FloorCount() int {
	count := 0
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			if !g.walls[y][x] {
				count++
			}
		}
	}
	return count
}

// Walls отдает сетку стен для снапшота рендереру (только чтение).
func (g *Grid) Walls() [][]bool {
	return g.walls
}

// fastFloor - floor для деления мировых координат, корректный для
// отрицательных значений (усечение к нулю дало бы неверный тайл).
func fastFloor(v float64) float64 {
	f := float64(int(v))
	if v < 0 && v != f {
		return f - 1
	}
	return f
}
