package domain

// EntityKind - явный тег типа сущности.
// Заменяет диспетчеризацию по имени конструктора: все проверки
// "это дверь?" / "это снаряд?" делаются по этому тегу на этапе компиляции.
type EntityKind uint8

const (
	KindPlayer EntityKind = iota
	KindEnemy
	KindBullet
	KindDoor
	KindPortal
	KindCoin
	KindHealthPack
	KindAltar
)

func (k EntityKind) String() string {
	switch k {
	case KindPlayer:
		return "PLAYER"
	case KindEnemy:
		return "ENEMY"
	case KindBullet:
		return "BULLET"
	case KindDoor:
		return "DOOR"
	case KindPortal:
		return "PORTAL"
	case KindCoin:
		return "COIN"
	case KindHealthPack:
		return "HEALTH_PACK"
	case KindAltar:
		return "ALTAR"
	}
	return "UNKNOWN"
}

// CollisionCategory - категория для broad-phase индекса и диспетчеризации пар.
type CollisionCategory uint8

const (
	CategoryNone CollisionCategory = iota
	CategoryPlayer
	CategoryEnemy
	CategoryItem
	CategoryProjectile
	CategoryPortal
	CategoryWall
)

// RoomType - семантический тип комнаты.
type RoomType uint8

const (
	RoomCombat RoomType = iota
	RoomSpawn
	RoomElite
	RoomLoot
	RoomAltar
	RoomBoss
)

func (t RoomType) String() string {
	switch t {
	case RoomSpawn:
		return "SPAWN"
	case RoomCombat:
		return "COMBAT"
	case RoomElite:
		return "ELITE"
	case RoomLoot:
		return "LOOT"
	case RoomAltar:
		return "ALTAR"
	case RoomBoss:
		return "BOSS"
	}
	return "UNKNOWN"
}

// DoorState - состояние створки двери.
type DoorState uint8

const (
	DoorClosed DoorState = iota
	DoorOpening
	DoorOpen
	DoorClosing
)

func (s DoorState) String() string {
	switch s {
	case DoorClosed:
		return "CLOSED"
	case DoorOpening:
		return "OPENING"
	case DoorOpen:
		return "OPEN"
	case DoorClosing:
		return "CLOSING"
	}
	return "UNKNOWN"
}

// MovementKind - стратегия движения врага (композиция вместо наследования).
type MovementKind uint8

const (
	MoveStationary MovementKind = iota
	MoveChase
	MovePathfindingChase
)

// AttackKind - стратегия атаки врага.
type AttackKind uint8

const (
	AttackNone AttackKind = iota
	AttackSingleShot
	AttackSpread
	AttackMelee
	AttackBurstRadial
)

// GlobalRoom - сентинел "всегда активен" для культивации по комнатам:
// снаряды, игрок и прочие сущности вне комнатной привязки.
const GlobalRoom = -1
