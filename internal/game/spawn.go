package game

import (
	"math"
	"math/rand"

	"depths-server/internal/domain"
	"depths-server/pkg/config"
	"depths-server/pkg/dungeon"
	"depths-server/pkg/logger"
	"depths-server/pkg/utils"
)

// newPlayer создает сущность игрока. Позиция проставляется при загрузке уровня.
func newPlayer(cfg config.PlayerConfig) *domain.Entity {
	return &domain.Entity{
		ID:           utils.GenerateID(),
		Kind:         domain.KindPlayer,
		Category:     domain.CategoryPlayer,
		Radius:       cfg.Radius,
		RoomID:       domain.GlobalRoom,
		AlwaysActive: true,
		Mass:         1,
		Friction:     5,
		Combat:       &domain.CombatComponent{HP: cfg.HP, MaxHP: cfg.HP},
		Player: &domain.PlayerComponent{
			Speed:  cfg.Speed,
			Weapon: "pistol",
		},
	}
}

// newEnemy собирает врага из описания типа. Неизвестный тип - ошибка данных,
// а не повод падать: логируем и подставляем первый (самый слабый) тип таблицы.
func newEnemy(rng *rand.Rand, cfg *config.Config, typeName string, pos domain.Vec2, roomID int) *domain.Entity {
	ec, ok := cfg.Enemy(typeName)
	if !ok {
		logger.Log.WithField("type", typeName).Warn("Unknown enemy type, using fallback")
		ec = cfg.Enemies[0]
	}

	return &domain.Entity{
		ID:       utils.GenerateDeterministicID(rng, "e"),
		Kind:     domain.KindEnemy,
		Name:     ec.Name,
		Category: domain.CategoryEnemy,
		Pos:      pos,
		Radius:   ec.Radius,
		RoomID:   roomID,
		Mass:     ec.Mass,
		Friction: 5,
		Combat: &domain.CombatComponent{
			HP:        ec.HP,
			MaxHP:     ec.HP,
			DropValue: ec.DropValue,
		},
		AI: &domain.AIComponent{
			Movement:  movementKind(ec.Movement),
			Attack:    attackKind(ec.Attack),
			MoveSpeed: ec.Speed,
			FireRate:  ec.FireRate,
			Pellets:   ec.Pellets,
		},
	}
}

// newDoor создает дверь в сокете. Позиция сущности - левый верхний угол
// тайла; створка перекрывает тайл целиком, пока не отъедет.
func newDoor(rng *rand.Rand, socket dungeon.DoorSocket, tileSize int, cfg config.DoorConfig) *domain.Entity {
	ts := float64(tileSize)
	return &domain.Entity{
		ID:           utils.GenerateDeterministicID(rng, "d"),
		Kind:         domain.KindDoor,
		Category:     domain.CategoryNone,
		Pos:          domain.Vec2{X: float64(socket.TX) * ts, Y: float64(socket.TY) * ts},
		Radius:       ts / 2,
		RoomID:       domain.GlobalRoom,
		AlwaysActive: true,
		Door: &domain.DoorComponent{
			Horizontal:     socket.Horizontal,
			State:          domain.DoorClosed,
			Width:          ts,
			Height:         ts,
			MaxOffset:      ts,
			Speed:          cfg.SlideSpeed,
			TriggerRadius:  cfg.TriggerRadius,
			SolidThreshold: cfg.SolidThreshold,
		},
	}
}

// newPortal создает выходной портал. Закрыт, пока жива комната выхода.
func newPortal(rng *rand.Rand, pos domain.Vec2, interactRadius float64) *domain.Entity {
	return &domain.Entity{
		ID:           utils.GenerateDeterministicID(rng, "p"),
		Kind:         domain.KindPortal,
		Category:     domain.CategoryNone,
		Pos:          pos,
		Radius:       20,
		RoomID:       domain.GlobalRoom,
		AlwaysActive: true,
		Portal:       &domain.PortalComponent{InteractRadius: interactRadius},
	}
}

// newAltar создает алтарь апгрейдов в центре ALTAR-комнаты.
func newAltar(rng *rand.Rand, pos domain.Vec2) *domain.Entity {
	return &domain.Entity{
		ID:           utils.GenerateDeterministicID(rng, "a"),
		Kind:         domain.KindAltar,
		Category:     domain.CategoryNone,
		Pos:          pos,
		Radius:       18,
		RoomID:       domain.GlobalRoom,
		AlwaysActive: true,
	}
}

// newCoin и newHealthPack - лут, выпадающий из врагов.
func newCoin(rng *rand.Rand, pos domain.Vec2, value int) *domain.Entity {
	return &domain.Entity{
		ID:           utils.GenerateDeterministicID(rng, "c"),
		Kind:         domain.KindCoin,
		Category:     domain.CategoryItem,
		Pos:          pos,
		Radius:       7,
		RoomID:       domain.GlobalRoom,
		AlwaysActive: true,
		Pickup:       &domain.PickupComponent{Value: value},
	}
}

func newHealthPack(rng *rand.Rand, pos domain.Vec2, heal int) *domain.Entity {
	return &domain.Entity{
		ID:           utils.GenerateDeterministicID(rng, "h"),
		Kind:         domain.KindHealthPack,
		Category:     domain.CategoryItem,
		Pos:          pos,
		Radius:       9,
		RoomID:       domain.GlobalRoom,
		AlwaysActive: true,
		Pickup:       &domain.PickupComponent{Heal: heal},
	}
}

// newPlayerBullet создает снаряд игрока под углом angle. Характеристики
// берутся из текущего оружия, модификаторы - из набора апгрейдов.
func (w *World) newPlayerBullet(weapon config.WeaponConfig, angle float64) *domain.Entity {
	damage := weapon.Damage
	if w.Upgrades[UpgradePowerShots] {
		damage++
	}
	bounces := 0
	if w.Upgrades[UpgradeRicochet] {
		bounces = 2
	}

	muzzle := w.Player.Radius + 6
	return &domain.Entity{
		ID:       utils.GenerateDeterministicID(w.rng, "b"),
		Kind:     domain.KindBullet,
		Category: domain.CategoryProjectile,
		Pos: domain.Vec2{
			X: w.Player.Pos.X + math.Cos(angle)*muzzle,
			Y: w.Player.Pos.Y + math.Sin(angle)*muzzle,
		},
		Radius:       4,
		RoomID:       domain.GlobalRoom,
		AlwaysActive: true,
		Bullet: &domain.BulletComponent{
			Dir:       domain.Vec2{X: math.Cos(angle), Y: math.Sin(angle)},
			Speed:     weapon.Speed,
			Damage:    damage,
			Life:      2.0,
			Bounces:   bounces,
			Explosive: w.Upgrades[UpgradeExplosiveRounds],
			Knockback: 120,
		},
	}
}

// spawnDrops разыгрывает лут на месте убитого врага.
func (w *World) spawnDrops(e *domain.Entity) {
	value := w.cfg.Drops.CoinValue
	if e.Combat != nil && e.Combat.DropValue > 0 {
		value = e.Combat.DropValue
	}

	roll := w.rng.Float64()
	switch {
	case roll < w.cfg.Drops.ChanceHealth:
		w.addEntity(newHealthPack(w.rng, e.Pos, w.cfg.Drops.HealthPackValue))
	case roll < w.cfg.Drops.ChanceHealth+w.cfg.Drops.ChanceCoin:
		w.addEntity(newCoin(w.rng, e.Pos, value))
	}
}

func movementKind(s string) domain.MovementKind {
	switch s {
	case "chase":
		return domain.MoveChase
	case "pathfinding":
		return domain.MovePathfindingChase
	}
	return domain.MoveStationary
}

func attackKind(s string) domain.AttackKind {
	switch s {
	case "single":
		return domain.AttackSingleShot
	case "spread":
		return domain.AttackSpread
	case "melee":
		return domain.AttackMelee
	case "burst":
		return domain.AttackBurstRadial
	}
	return domain.AttackNone
}
