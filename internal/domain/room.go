package domain

// SpawnSpec - ленивое размещение врага: вычислено при подготовке комнаты,
// но сущность не создается, пока комната не сработает. Неизменяемо.
type SpawnSpec struct {
	EnemyType string
	X, Y      float64 // мировые координаты центра
}

// Room - прямоугольная комната в тайловых координатах.
// Создается один раз на уровень, размеры после создания не меняются.
type Room struct {
	Index int
	X, Y  int
	W, H  int

	Type   RoomType
	IsExit bool

	// Triggered и Cleared монотонны: false -> true, назад не откатываются.
	// Исключение - спавн-комната, которая создается уже triggered+cleared.
	Triggered bool
	Cleared   bool

	// Двери, касающиеся границы комнаты. Одна дверь может принадлежать
	// нескольким комнатам (many-to-many).
	Doors []*Entity

	// Предрассчитанный состав врагов.
	Roster []SpawnSpec
}

// Center возвращает центр комнаты в тайловых координатах.
func (r *Room) Center() (int, int) {
	return r.X + r.W/2, r.Y + r.H/2
}

// ContainsTile сообщает, лежит ли тайл внутри комнаты.
func (r *Room) ContainsTile(tx, ty int) bool {
	return tx >= r.X && tx < r.X+r.W && ty >= r.Y && ty < r.Y+r.H
}

// TouchesTile сообщает, лежит ли тайл внутри комнаты или на ее границе
// (один тайл вокруг). Используется для привязки дверей.
func (r *Room) TouchesTile(tx, ty int) bool {
	return tx >= r.X-1 && tx <= r.X+r.W && ty >= r.Y-1 && ty <= r.Y+r.H
}

// Area возвращает площадь комнаты в тайлах.
func (r *Room) Area() int {
	return r.W * r.H
}
