package game

import (
	"depths-server/internal/domain"
)

// OnPairCollision реализует systems.Env. Вызывается для каждой
// пересекающейся пары в обоих порядках: здесь описано только действие
// сущности a на сущность b, симметричный вызов придет отдельно.
func (w *World) OnPairCollision(a, b *domain.Entity) {
	switch {
	case a.Bullet != nil:
		w.bulletHit(a, b)
	case a.Kind == domain.KindPlayer && b.Pickup != nil:
		w.collectPickup(b)
	case a.Kind == domain.KindEnemy && b.Kind == domain.KindPlayer:
		if a.AI != nil && a.AI.Attack == domain.AttackMelee {
			w.hitPlayer(1, a.Pos)
		}
	}
}

func (w *World) bulletHit(bullet, target *domain.Entity) {
	// Снаряды друг друга не сбивают, свои не ранят своих.
	if target.Bullet != nil {
		return
	}

	if bullet.Bullet.FromEnemy {
		if target.Kind != domain.KindPlayer {
			return
		}
		bullet.MarkedForRemoval = true
		w.hitPlayer(bullet.Bullet.Damage, bullet.Pos)
		return
	}

	if target.Category != domain.CategoryEnemy {
		return
	}
	bullet.MarkedForRemoval = true
	target.TakeDamage(bullet.Bullet.Damage)
	target.ApplyKnockback(bullet.Bullet.Dir.X, bullet.Bullet.Dir.Y, bullet.Bullet.Knockback)
	w.SpawnSparks(bullet.Pos, "#f55", 4)
}

// hitPlayer наносит урон игроку с учетом окна неуязвимости и рывка.
func (w *World) hitPlayer(damage int, from domain.Vec2) {
	p := w.Player
	if p.Player.Dashing || p.Combat.FlashTimer > 0 {
		return
	}

	p.Combat.HP -= damage
	p.Combat.FlashTimer = w.cfg.Player.IFrameDuration

	dir := p.Pos.Sub(from).Normalized()
	p.ApplyKnockback(dir.X, dir.Y, 250)
	w.SpawnSparks(p.Pos, "#5f5", 5)
}

func (w *World) collectPickup(item *domain.Entity) {
	if item.MarkedForRemoval {
		return
	}
	item.MarkedForRemoval = true

	p := w.Player
	if item.Pickup.Heal > 0 && p.Combat != nil {
		p.Combat.HP += item.Pickup.Heal
		if p.Combat.HP > p.Combat.MaxHP {
			p.Combat.HP = p.Combat.MaxHP
		}
	}
	if item.Pickup.Value > 0 && p.Player != nil {
		p.Player.Gold += item.Pickup.Value
	}
	w.SpawnSparks(item.Pos, "#ff0", 3)
}
