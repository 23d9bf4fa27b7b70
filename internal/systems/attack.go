package systems

import (
	"math"
	"math/rand"

	"depths-server/internal/domain"
	"depths-server/pkg/utils"
)

// Дальность, с которой стреляющие враги открывают огонь.
const enemyFireRange = 400

// AdvanceAttack тикает кулдаун атаки врага и возвращает порожденные
// снаряды (мир сам добавит их в арену). Контактные стратегии (melee)
// снарядов не создают - их урон разрешается коллизией.
func AdvanceAttack(e *domain.Entity, target *domain.Entity, dt float64, rng *rand.Rand) []*domain.Entity {
	ai := e.AI
	if ai == nil || ai.Attack == domain.AttackNone || ai.Attack == domain.AttackMelee || target == nil {
		return nil
	}

	ai.Cooldown -= dt
	if ai.Cooldown > 0 {
		return nil
	}

	dist := e.Pos.DistanceTo(target.Pos)
	if ai.Attack != domain.AttackBurstRadial && dist > enemyFireRange {
		return nil
	}
	ai.Cooldown = ai.FireRate

	angle := math.Atan2(target.Pos.Y-e.Pos.Y, target.Pos.X-e.Pos.X)

	switch ai.Attack {
	case domain.AttackSingleShot:
		return []*domain.Entity{newEnemyBullet(rng, e, angle)}

	case domain.AttackSpread:
		pellets := ai.Pellets
		if pellets < 2 {
			pellets = 5
		}
		const cone = 0.5
		out := make([]*domain.Entity, 0, pellets)
		for i := 0; i < pellets; i++ {
			spread := (rng.Float64() - 0.5) * cone
			out = append(out, newEnemyBullet(rng, e, angle+spread))
		}
		return out

	case domain.AttackBurstRadial:
		pellets := ai.Pellets
		if pellets < 2 {
			pellets = 6
		}
		out := make([]*domain.Entity, 0, pellets)
		for i := 0; i < pellets; i++ {
			out = append(out, newEnemyBullet(rng, e, float64(i)*2*math.Pi/float64(pellets)))
		}
		return out
	}
	return nil
}

// newEnemyBullet создает вражеский снаряд, вылетающий из-за радиуса
// стрелка (чтобы не столкнуться с ним самим в первый же тик).
func newEnemyBullet(rng *rand.Rand, shooter *domain.Entity, angle float64) *domain.Entity {
	dir := domain.Vec2{X: math.Cos(angle), Y: math.Sin(angle)}
	muzzle := shooter.Radius + 5

	return &domain.Entity{
		ID:           utils.GenerateDeterministicID(rng, "b_"),
		Kind:         domain.KindBullet,
		Category:     domain.CategoryProjectile,
		Pos:          shooter.Pos.Shift(dir.X*muzzle, dir.Y*muzzle),
		Radius:       4,
		RoomID:       domain.GlobalRoom,
		AlwaysActive: true,
		Mass:         0,
		Bullet: &domain.BulletComponent{
			Dir:       dir,
			Speed:     300,
			Damage:    1,
			Life:      2.0,
			FromEnemy: true,
		},
	}
}
