// Package spatial реализует broad-phase индекс на равномерной сетке.
// Индекс полностью перестраивается каждый тик из множества живых
// сущностей и никогда не читается между тиками: O(N) на перестройку
// в обмен на O(1) выборку ведра без инкрементального учета.
package spatial

import (
	"math"

	"depths-server/internal/domain"
)

// Hash - мультимэп "ключ ячейки -> сущности, чья ограничивающая
// окружность пересекает ячейку". Сущность попадает во ВСЕ ячейки,
// которые пересекает ее окружность.
type Hash struct {
	cellSize float64
	buckets  map[int64][]*domain.Entity
}

// New создает индекс. Размер ячейки обычно берется около двух тайлов.
func New(cellSize float64) *Hash {
	return &Hash{
		cellSize: cellSize,
		buckets:  make(map[int64][]*domain.Entity),
	}
}

// Clear сбрасывает все ведра перед перестройкой.
func (h *Hash) Clear() {
	// Пересоздание мапы дешевле поэлементной очистки при наших размерах.
	h.buckets = make(map[int64][]*domain.Entity)
}

// Insert добавляет сущность во все ячейки, перекрытые ее окружностью.
func (h *Hash) Insert(e *domain.Entity) {
	startX, endX, startY, endY := h.cellRange(e.Pos, e.Radius)
	for cy := startY; cy <= endY; cy++ {
		for cx := startX; cx <= endX; cx++ {
			key := cellKey(cx, cy)
			h.buckets[key] = append(h.buckets[key], e)
		}
	}
}

// Query возвращает дедуплицированное объединение ведер, перекрытых
// окружностью сущности. Сама сущность входит в результат - вызывающий
// код обязан исключить ее сам.
func (h *Hash) Query(e *domain.Entity) []*domain.Entity {
	return h.QueryCircle(e.Pos, e.Radius)
}

// QueryCircle - то же самое для произвольной окружности
// (запрос зоны взрыва без сущности-носителя).
func (h *Hash) QueryCircle(pos domain.Vec2, radius float64) []*domain.Entity {
	startX, endX, startY, endY := h.cellRange(pos, radius)

	seen := make(map[*domain.Entity]struct{})
	var out []*domain.Entity

	for cy := startY; cy <= endY; cy++ {
		for cx := startX; cx <= endX; cx++ {
			for _, other := range h.buckets[cellKey(cx, cy)] {
				if _, ok := seen[other]; ok {
					continue
				}
				seen[other] = struct{}{}
				out = append(out, other)
			}
		}
	}
	return out
}

// cellRange возвращает диапазон ячеек, перекрытых окружностью.
// Деление с floor к минус бесконечности: усечение к нулю дало бы
// несогласованные ключи около начала координат.
func (h *Hash) cellRange(pos domain.Vec2, radius float64) (int, int, int, int) {
	startX := int(math.Floor((pos.X - radius) / h.cellSize))
	endX := int(math.Floor((pos.X + radius) / h.cellSize))
	startY := int(math.Floor((pos.Y - radius) / h.cellSize))
	endY := int(math.Floor((pos.Y + radius) / h.cellSize))
	return startX, endX, startY, endY
}

// cellKey упаковывает координаты ячейки в один ключ мапы.
func cellKey(cx, cy int) int64 {
	return int64(cx)<<32 | int64(uint32(cy))
}
