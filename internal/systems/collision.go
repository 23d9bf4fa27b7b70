package systems

import (
	"math"

	"depths-server/internal/domain"
	"depths-server/internal/spatial"
	"depths-server/pkg/dungeon"
	"depths-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// Env - обратные вызовы резолвера в мир: семантика столкновений
// (урон, подбор, эффекты) принадлежит миру, геометрия - резолверу.
type Env interface {
	// OnPairCollision вызывается для каждой фактически пересекающейся
	// пары. Пара диспетчеризуется ровно один раз за тик в обе стороны
	// (a->b и b->a), детерминированно и независимо от порядка списка.
	OnPairCollision(a, b *domain.Entity)

	// SpawnSparks - визуальный эффект в точке (искры от рикошета и т.п.).
	SpawnSparks(pos domain.Vec2, color string, count int)
}

// Resolver - разрешение всех физических взаимодействий за тик.
type Resolver struct {
	Grid  *dungeon.Grid
	Index *spatial.Hash

	// Статистика последнего тика (для отладочной панели).
	PairChecks int
}

// NewResolver создает резолвер поверх сетки и индекса.
func NewResolver(grid *dungeon.Grid, index *spatial.Hash) *Resolver {
	return &Resolver{Grid: grid, Index: index}
}

// Rebuild перестраивает broad-phase индекс из живых сущностей.
// Категория NONE и помеченные на удаление не индексируются.
func (r *Resolver) Rebuild(entities []*domain.Entity) {
	r.Index.Clear()
	for _, e := range entities {
		if e.MarkedForRemoval || e.Category == domain.CategoryNone {
			continue
		}
		r.Index.Insert(e)
	}
}

// Resolve выполняет полный проход: перестройка индекса, снаряды против
// стен, затем попарные пересечения окружностей через индекс.
//
// Политика взаимности: исходная реализация рассылала только a->b и
// полагалась на то, что b позже дойдет до a в своем проходе - порядок
// списка и время удаления влияли на результат. Здесь каждая пересекающаяся
// пара диспетчеризуется ровно один раз в обе стороны за тик.
func (r *Resolver) Resolve(entities []*domain.Entity, blockers []*domain.Entity, env Env) {
	r.Rebuild(entities)
	r.PairChecks = 0

	// 1. Снаряды против стен и блокираторов.
	for _, e := range entities {
		if e.MarkedForRemoval || e.Bullet == nil {
			continue
		}
		r.resolveBulletWalls(e, blockers, env)
	}

	// 2. Попарные пересечения. dispatched защищает от повторной
	// диспетчеризации пары, когда до b дойдет внешний цикл.
	dispatched := make(map[[2]string]bool)

	for _, a := range entities {
		if a.MarkedForRemoval || a.Category == domain.CategoryNone {
			continue
		}

		for _, b := range r.Index.Query(a) {
			if a == b || b.MarkedForRemoval {
				continue
			}
			r.PairChecks++

			if !circlesOverlap(a, b) {
				continue
			}

			key := pairKey(a, b)
			if dispatched[key] {
				continue
			}
			dispatched[key] = true

			env.OnPairCollision(a, b)
			if !a.MarkedForRemoval && !b.MarkedForRemoval {
				env.OnPairCollision(b, a)
			}
		}
	}
}

// resolveBulletWalls - физика снаряда у стены: рикошет с откатом по той
// оси, очистка которой снимает контакт (сначала пробуем X), либо
// удаление с опциональным взрывом.
func (r *Resolver) resolveBulletWalls(bullet *domain.Entity, blockers []*domain.Entity, env Env) {
	const probe = 2 // половина габарита пробного AABB снаряда

	if !r.BlockedAt(bullet.Pos.X-probe, bullet.Pos.Y-probe, probe*2, probe*2, blockers) {
		return
	}

	b := bullet.Bullet
	if b.Bounces > 0 {
		b.Bounces--

		backX := bullet.Pos.X - b.Dir.X*10
		backY := bullet.Pos.Y - b.Dir.Y*10

		// Откат по X: если контакт снялся - столкновение по оси X,
		// иначе относим его к оси Y.
		if !r.BlockedAt(backX-probe, bullet.Pos.Y-probe, probe*2, probe*2, blockers) {
			b.Dir.X = -b.Dir.X
			bullet.Pos.X = backX
		} else {
			b.Dir.Y = -b.Dir.Y
			bullet.Pos.Y = backY
		}
		env.SpawnSparks(bullet.Pos, "#ffffff", 3)
		return
	}

	if b.Explosive {
		r.Explode(bullet.Pos, 80, b.Damage, env)
	}
	bullet.MarkedForRemoval = true
	env.SpawnSparks(bullet.Pos, "#aaaaaa", 5)
}

// Explode наносит урон по площади: запрос индекса в радиусе, урон и
// направленный наружу импульс каждому врагу в зоне.
func (r *Resolver) Explode(pos domain.Vec2, radius float64, damage int, env Env) {
	env.SpawnSparks(pos, "#ff8800", 20)
	env.SpawnSparks(pos, "#ffff00", 10)

	for _, target := range r.Index.QueryCircle(pos, radius) {
		if target.Category != domain.CategoryEnemy || target.MarkedForRemoval {
			continue
		}
		dx := target.Pos.X - pos.X
		dy := target.Pos.Y - pos.Y
		distSq := dx*dx + dy*dy
		if distSq > radius*radius {
			continue
		}

		target.TakeDamage(damage)
		dist := math.Sqrt(distSq)
		if dist == 0 {
			dist = 1
		}
		target.ApplyKnockback(dx/dist, dy/dist, 500)
	}

	logger.Log.WithFields(logrus.Fields{
		"component": "collision",
		"x":         pos.X,
		"y":         pos.Y,
		"radius":    radius,
	}).Debug("Explosion resolved")
}

// BlockedAt - единый предикат проходимости: тайлы стен плюс AABB всех
// твердых блокираторов (запертые/закрытые двери, алтари). Касание кромками
// пересечением не считается.
func (r *Resolver) BlockedAt(x, y, w, h float64, blockers []*domain.Entity) bool {
	if r.Grid.CheckRect(x, y, w, h) {
		return true
	}
	for _, e := range blockers {
		if e.MarkedForRemoval || !e.Blocking() {
			continue
		}
		bx, by, bw, bh := e.BlockingRect()
		if x < bx+bw && x+w > bx && y < by+bh && y+h > by {
			return true
		}
	}
	return false
}

// circlesOverlap - точный тест окружностей, без приближений.
func circlesOverlap(a, b *domain.Entity) bool {
	dx := a.Pos.X - b.Pos.X
	dy := a.Pos.Y - b.Pos.Y
	rr := a.Radius + b.Radius
	return dx*dx+dy*dy < rr*rr
}

// pairKey - идентичность пары независимо от направления обхода.
func pairKey(a, b *domain.Entity) [2]string {
	if a.ID < b.ID {
		return [2]string{a.ID, b.ID}
	}
	return [2]string{b.ID, a.ID}
}
