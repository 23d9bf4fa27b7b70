package domain

// --- КОМПОНЕНТЫ ---

// CombatComponent - здоровье и урон. Если nil - сущность неуязвима.
type CombatComponent struct {
	HP         int     `json:"hp"`
	MaxHP      int     `json:"maxHp"`
	FlashTimer float64 `json:"-"` // окно неуязвимости после попадания
	DropValue  int     `json:"-"` // ценность лута при смерти
}

// BulletComponent - снаряд.
type BulletComponent struct {
	Dir       Vec2    `json:"dir"` // единичное направление
	Speed     float64 `json:"speed"`
	Damage    int     `json:"-"`
	Life      float64 `json:"-"` // секунд до самоуничтожения
	Bounces   int     `json:"-"` // оставшиеся рикошеты
	Explosive bool    `json:"-"`
	Knockback float64 `json:"-"`
	FromEnemy bool    `json:"fromEnemy"`
}

// DoorComponent - скользящая дверь в проеме комнаты.
type DoorComponent struct {
	Horizontal  bool      `json:"horizontal"`
	State       DoorState `json:"state"`
	Locked      bool      `json:"locked"`
	SlideOffset float64   `json:"slideOffset"`

	// Геометрия и поведение, фиксируются при создании.
	Width          float64 `json:"width"`
	Height         float64 `json:"height"`
	MaxOffset      float64 `json:"-"`
	Speed          float64 `json:"-"`
	TriggerRadius  float64 `json:"-"`
	SolidThreshold float64 `json:"-"`
}

// Solid сообщает, блокирует ли дверь движение прямо сейчас.
// Запертая дверь твердая всегда, даже пока створка еще едет.
func (d *DoorComponent) Solid() bool {
	return d.Locked || d.SlideOffset < d.SolidThreshold
}

// PortalComponent - выход с уровня.
type PortalComponent struct {
	Open           bool    `json:"open"`
	InteractRadius float64 `json:"-"`
}

// AIComponent - поведение врага: стратегии движения и атаки
// выбираются по конфигурации типа, не наследованием.
type AIComponent struct {
	Movement MovementKind `json:"-"`
	Attack   AttackKind   `json:"-"`

	MoveSpeed float64 `json:"-"`
	FireRate  float64 `json:"-"` // секунд между выстрелами
	Cooldown  float64 `json:"-"` // до следующего выстрела
	Pellets   int     `json:"-"` // для spread/burst

	// Кэш маршрута для pathfinding-стратегии.
	Path        []Vec2  `json:"-"`
	RepathTimer float64 `json:"-"`
}

// PlayerComponent - состояние, существующее только у игрока.
type PlayerComponent struct {
	Speed        float64 `json:"-"`
	Weapon       string  `json:"weapon"`
	FireCooldown float64 `json:"-"`

	Dashing      bool    `json:"dashing"`
	DashTimer    float64 `json:"-"`
	DashCooldown float64 `json:"-"`

	Gold int `json:"gold"`
}

// PickupComponent - подбираемый предмет.
type PickupComponent struct {
	Heal  int `json:"-"`
	Value int `json:"-"`
}

// --- СУЩНОСТЬ ---

// Entity - любой живой объект симуляции.
// Мир (internal/game) единолично владеет списком сущностей;
// сущности никогда не хранят сильных ссылок на мир.
type Entity struct {
	ID   string     `json:"id"`
	Kind EntityKind `json:"kind"`
	Name string     `json:"name,omitempty"`

	Category CollisionCategory `json:"-"`

	Pos    Vec2    `json:"pos"`
	Radius float64 `json:"radius"`

	// Привязка к комнате для культивации активности и условия зачистки.
	// GlobalRoom означает "обновлять всегда".
	RoomID       int  `json:"-"`
	AlwaysActive bool `json:"-"`
	Active       bool `json:"-"`

	MarkedForRemoval bool `json:"-"`

	// Физика импульсов (отдача, взрывы).
	Mass     float64 `json:"-"` // 0 = несдвигаемый
	Knock    Vec2    `json:"-"` // текущая скорость импульса
	Friction float64 `json:"-"`

	// Компоненты. nil - свойство отсутствует.
	Combat *CombatComponent `json:"combat,omitempty"`
	Bullet *BulletComponent `json:"bullet,omitempty"`
	Door   *DoorComponent   `json:"door,omitempty"`
	Portal *PortalComponent `json:"portal,omitempty"`
	AI     *AIComponent     `json:"-"`
	Player *PlayerComponent `json:"player,omitempty"`
	Pickup *PickupComponent `json:"-"`
}

// TakeDamage наносит урон. FlashTimer дает короткое окно,
// в котором повторные попадания игнорируются вызывающим кодом.
func (e *Entity) TakeDamage(amount int) {
	if e.Combat == nil {
		return
	}
	e.Combat.HP -= amount
	e.Combat.FlashTimer = 0.1
}

// Alive сообщает, жива ли сущность с точки зрения условия зачистки комнаты.
func (e *Entity) Alive() bool {
	if e.MarkedForRemoval {
		return false
	}
	if e.Combat != nil && e.Combat.HP <= 0 {
		return false
	}
	return true
}

// ApplyKnockback добавляет импульс с учетом массы. Масса 0 - несдвигаемый.
func (e *Entity) ApplyKnockback(dx, dy, force float64) {
	if e.Mass == 0 {
		return
	}
	e.Knock.X += dx * force / e.Mass
	e.Knock.Y += dy * force / e.Mass
}

// Blocking сообщает, участвует ли сущность в проверке стен
// (двери в закрытом/запертом состоянии, алтари и прочие тяжелые объекты).
func (e *Entity) Blocking() bool {
	switch e.Kind {
	case KindDoor:
		return e.Door != nil && e.Door.Solid()
	case KindAltar:
		return true
	}
	return false
}

// BlockingRect возвращает AABB блокирующей сущности (x, y, w, h).
// Для дверей левый верхний угол - сама позиция, для алтарей - квадрат по радиусу.
func (e *Entity) BlockingRect() (float64, float64, float64, float64) {
	if e.Kind == KindDoor && e.Door != nil {
		return e.Pos.X, e.Pos.Y, e.Door.Width, e.Door.Height
	}
	return e.Pos.X - e.Radius, e.Pos.Y - e.Radius, e.Radius * 2, e.Radius * 2
}
