package game

import (
	"testing"

	"depths-server/internal/domain"
	"depths-server/pkg/config"
)

func testEnemy(id string, x, y float64) *domain.Entity {
	return &domain.Entity{
		ID:       id,
		Kind:     domain.KindEnemy,
		Category: domain.CategoryEnemy,
		Pos:      domain.Vec2{X: x, Y: y},
		Radius:   15,
		Mass:     2,
		Combat:   &domain.CombatComponent{HP: 5, MaxHP: 5},
		AI:       &domain.AIComponent{Attack: domain.AttackMelee},
	}
}

func TestPlayerBulletDamagesEnemy(t *testing.T) {
	w := NewWorld(config.Default(), 42)
	enemy := testEnemy("e", 200, 200)
	bullet := &domain.Entity{
		ID: "b", Kind: domain.KindBullet, Category: domain.CategoryProjectile,
		Pos:    domain.Vec2{X: 200, Y: 200},
		Bullet: &domain.BulletComponent{Dir: domain.Vec2{X: 1}, Damage: 2, Knockback: 120},
	}

	w.OnPairCollision(bullet, enemy)

	if enemy.Combat.HP != 3 {
		t.Errorf("Enemy HP = %d, want 3", enemy.Combat.HP)
	}
	if !bullet.MarkedForRemoval {
		t.Error("Bullet must be spent on hit")
	}
	if enemy.Knock.X <= 0 {
		t.Error("Hit must push the enemy along the bullet direction")
	}
}

func TestPlayerBulletIgnoresPickups(t *testing.T) {
	w := NewWorld(config.Default(), 42)
	coin := &domain.Entity{
		ID: "c", Kind: domain.KindCoin, Category: domain.CategoryItem,
		Pickup: &domain.PickupComponent{Value: 10},
	}
	bullet := &domain.Entity{
		ID: "b", Kind: domain.KindBullet, Category: domain.CategoryProjectile,
		Bullet: &domain.BulletComponent{Damage: 2},
	}

	w.OnPairCollision(bullet, coin)

	if bullet.MarkedForRemoval || coin.MarkedForRemoval {
		t.Error("Player bullets must pass through pickups")
	}
}

func TestEnemyBulletOnlyHitsPlayer(t *testing.T) {
	w := NewWorld(config.Default(), 42)
	bullet := &domain.Entity{
		ID: "b", Kind: domain.KindBullet, Category: domain.CategoryProjectile,
		Bullet: &domain.BulletComponent{Damage: 1, FromEnemy: true},
	}

	other := testEnemy("e", 200, 200)
	w.OnPairCollision(bullet, other)
	if other.Combat.HP != 5 || bullet.MarkedForRemoval {
		t.Error("Enemy bullets must not hit other enemies")
	}

	hp := w.Player.Combat.HP
	w.OnPairCollision(bullet, w.Player)
	if w.Player.Combat.HP != hp-1 {
		t.Errorf("Player HP = %d, want %d", w.Player.Combat.HP, hp-1)
	}
	if !bullet.MarkedForRemoval {
		t.Error("Enemy bullet must be spent on the player")
	}
}

func TestBulletsDoNotCollideWithBullets(t *testing.T) {
	w := NewWorld(config.Default(), 42)
	a := &domain.Entity{ID: "a", Bullet: &domain.BulletComponent{Damage: 2}}
	b := &domain.Entity{ID: "b", Bullet: &domain.BulletComponent{Damage: 1, FromEnemy: true}}

	w.OnPairCollision(a, b)

	if a.MarkedForRemoval || b.MarkedForRemoval {
		t.Error("Bullets must pass through each other")
	}
}

func TestMeleeContactRespectsIFrames(t *testing.T) {
	w := NewWorld(config.Default(), 42)
	enemy := testEnemy("e", w.Player.Pos.X+10, w.Player.Pos.Y)

	hp := w.Player.Combat.HP
	w.OnPairCollision(enemy, w.Player)
	if w.Player.Combat.HP != hp-1 {
		t.Fatalf("Melee contact dealt %d damage, want 1", hp-w.Player.Combat.HP)
	}

	// Second contact lands inside the invulnerability window.
	w.OnPairCollision(enemy, w.Player)
	if w.Player.Combat.HP != hp-1 {
		t.Error("Contact during i-frames must not deal damage")
	}
}

func TestDashingPlayerIgnoresMelee(t *testing.T) {
	w := NewWorld(config.Default(), 42)
	w.Player.Player.Dashing = true
	enemy := testEnemy("e", w.Player.Pos.X+10, w.Player.Pos.Y)

	hp := w.Player.Combat.HP
	w.OnPairCollision(enemy, w.Player)

	if w.Player.Combat.HP != hp {
		t.Error("Dashing player must not take contact damage")
	}
}

func TestPickupHealClampsToMax(t *testing.T) {
	w := NewWorld(config.Default(), 42)
	w.Player.Combat.HP = w.Player.Combat.MaxHP - 1

	pack := &domain.Entity{
		ID: "h", Kind: domain.KindHealthPack, Category: domain.CategoryItem,
		Pickup: &domain.PickupComponent{Heal: 5},
	}
	w.OnPairCollision(w.Player, pack)

	if w.Player.Combat.HP != w.Player.Combat.MaxHP {
		t.Errorf("HP = %d, want clamp to max %d", w.Player.Combat.HP, w.Player.Combat.MaxHP)
	}
	if !pack.MarkedForRemoval {
		t.Error("Collected pickup must be removed")
	}

	// The same pickup cannot be collected twice.
	w.Player.Combat.HP = 1
	w.OnPairCollision(w.Player, pack)
	if w.Player.Combat.HP != 1 {
		t.Error("Removed pickup healed again")
	}
}

func TestCoinPickupGrantsGold(t *testing.T) {
	w := NewWorld(config.Default(), 42)
	coin := &domain.Entity{
		ID: "c", Kind: domain.KindCoin, Category: domain.CategoryItem,
		Pickup: &domain.PickupComponent{Value: 10},
	}

	w.OnPairCollision(w.Player, coin)

	if w.Player.Player.Gold != 10 {
		t.Errorf("Gold = %d, want 10", w.Player.Player.Gold)
	}
}
