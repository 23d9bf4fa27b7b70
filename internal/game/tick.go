package game

import (
	"math"

	"depths-server/internal/domain"
	"depths-server/internal/systems"
	"depths-server/pkg/api"
)

// Tick продвигает симуляцию на dt секунд в фиксированном порядке фаз:
// ввод игрока, активные сущности, физика импульсов, коллизии,
// жизненный цикл комнат и в самом конце - вычистка помеченных сущностей.
// Порядок менять нельзя: условие зачистки комнаты обязано видеть
// результаты коллизий этого же тика.
func (w *World) Tick(dt float64, in api.InputFrame) {
	w.Effects = w.Effects[:0]
	w.rebuildBlockers()

	w.applyInput(dt, in)

	var spawned []*domain.Entity
	for _, e := range w.Entities {
		if !e.Active || e.MarkedForRemoval {
			continue
		}
		switch {
		case e.Kind == domain.KindDoor:
			w.updateDoor(e, dt)
		case e.Bullet != nil:
			w.updateBullet(e, dt)
		case e.Kind == domain.KindEnemy:
			systems.AdvanceMovement(e, w.Player, w.Level.Grid, w.blockers, dt, w.blockedAt)
			spawned = append(spawned, systems.AdvanceAttack(e, w.Player, dt, w.rng)...)
		}
		systems.IntegrateKnockback(e, dt, w.blockedAt)
	}
	w.Entities = append(w.Entities, spawned...)

	// Двери могли сдвинуться, список твердых сущностей устарел.
	w.rebuildBlockers()
	w.resolver.Resolve(w.Entities, w.blockers, w)

	w.reapDead()
	w.updateActiveZones()
	w.checkExit(in.Interact)
	w.tryAltarInteract(in.Interact)
	w.sweep()

	w.TickNum++
}

// applyInput превращает кадр ввода в действия игрока: движение,
// рывок и стрельбу. Вектор движения нормализуется на сервере,
// клиентский кадр с длиной больше единицы преимущества не дает.
func (w *World) applyInput(dt float64, in api.InputFrame) {
	p := w.Player
	pc := p.Player

	pc.FireCooldown -= dt
	pc.DashCooldown -= dt

	if in.Dash && !pc.Dashing && pc.DashCooldown <= 0 {
		pc.Dashing = true
		pc.DashTimer = w.cfg.Player.DashDuration
		pc.DashCooldown = w.cfg.Player.DashCooldown
	}
	if pc.Dashing {
		pc.DashTimer -= dt
		if pc.DashTimer <= 0 {
			pc.Dashing = false
		}
	}

	move := domain.Vec2{X: in.MoveX, Y: in.MoveY}.Normalized()
	speed := pc.Speed
	if pc.Dashing {
		speed = w.cfg.Player.DashSpeed
	}
	if move.X != 0 || move.Y != 0 {
		systems.MoveWithRollback(p, move.X*speed*dt, move.Y*speed*dt, w.blockedAt)
	}

	if in.Fire && pc.FireCooldown <= 0 {
		w.firePlayerWeapon(in)
	}
}

// firePlayerWeapon выпускает залп текущего оружия в сторону прицела.
func (w *World) firePlayerWeapon(in api.InputFrame) {
	p := w.Player
	weapon, ok := w.cfg.Weapon(p.Player.Weapon)
	if !ok {
		weapon = w.cfg.Weapons[0]
	}

	rate := weapon.FireRate
	if w.Upgrades[UpgradeFastHands] {
		rate *= 0.7
	}
	p.Player.FireCooldown = rate

	base := math.Atan2(in.AimY-p.Pos.Y, in.AimX-p.Pos.X)
	for i := 0; i < weapon.Count; i++ {
		// Залп раскладывается веером вокруг направления прицела,
		// плюс небольшой случайный увод каждой пули.
		offset := (float64(i) - float64(weapon.Count-1)/2) * weapon.Spread
		jitter := (w.rng.Float64() - 0.5) * weapon.Spread * 0.5
		w.addEntity(w.newPlayerBullet(weapon, base+offset+jitter))
	}
}

func (w *World) updateBullet(e *domain.Entity, dt float64) {
	b := e.Bullet
	b.Life -= dt
	if b.Life <= 0 {
		e.MarkedForRemoval = true
		return
	}
	e.Pos.X += b.Dir.X * b.Speed * dt
	e.Pos.Y += b.Dir.Y * b.Speed * dt
}

// reapDead помечает убитых врагов и разыгрывает их лут. Должен идти
// строго между коллизиями и проверкой зачистки: комната считает живыми
// только непомеченных врагов.
func (w *World) reapDead() {
	for _, e := range w.Entities {
		if e.Kind != domain.KindEnemy || e.MarkedForRemoval {
			continue
		}
		if e.Combat != nil && e.Combat.HP <= 0 {
			e.MarkedForRemoval = true
			w.SpawnSparks(e.Pos, "#f80", 6)
			w.spawnDrops(e)
		}
	}
}

// tryAltarInteract проверяет взаимодействие с алтарем.
func (w *World) tryAltarInteract(interact bool) {
	if !interact {
		return
	}
	reach := w.cfg.Player.InteractionRadius
	for _, e := range w.Entities {
		if e.Kind != domain.KindAltar || e.MarkedForRemoval {
			continue
		}
		if w.Player.Pos.DistanceTo(e.Pos) < reach+e.Radius {
			w.grantAltarUpgrade(e)
			return
		}
	}
}

// sweep уплотняет список сущностей, выбрасывая помеченные.
func (w *World) sweep() {
	alive := w.Entities[:0]
	for _, e := range w.Entities {
		if !e.MarkedForRemoval {
			alive = append(alive, e)
		}
	}
	for i := len(alive); i < len(w.Entities); i++ {
		w.Entities[i] = nil
	}
	w.Entities = alive
}
