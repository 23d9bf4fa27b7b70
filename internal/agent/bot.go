package agent

import (
	"math"

	"depths-server/internal/domain"
	"depths-server/internal/game"
	"depths-server/internal/systems"
	"depths-server/pkg/api"
	"depths-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// Bot - "игрок-компьютер" (Headless Agent). Держит прямую ссылку на
// игровую сессию (для простоты в этом проекте) и на каждом тике
// сочиняет кадр ввода по тем же правилам, что играл бы человек:
// стрелять по ближайшему видимому врагу, идти к выходу, когда чисто.
//
// Основное применение - прогон симуляции без клиента: soak-тесты
// и проверка воспроизводимости забегов.
type Bot struct {
	Game *game.Game
}

func NewBot(g *game.Game) *Bot {
	return &Bot{Game: g}
}

// RunTicks прогоняет maxTicks тиков или до конца забега.
// Возвращает количество выполненных тиков.
func (b *Bot) RunTicks(maxTicks int, dt float64) int {
	for i := 0; i < maxTicks; i++ {
		if b.Game.FSM.Is(game.StateGameOver) {
			logger.Log.WithFields(logrus.Fields{
				"component": "bot",
				"ticks":     i,
				"level":     b.Game.World.LevelNum,
			}).Info("Bot run ended: game over")
			return i
		}
		b.Game.Tick(dt, b.NextInput())
	}
	return maxTicks
}

// NextInput - мозг бота: решение на основе текущего состояния мира.
func (b *Bot) NextInput() api.InputFrame {
	w := b.Game.World
	p := w.Player
	if p == nil {
		return api.InputFrame{}
	}

	var in api.InputFrame

	if enemy := b.nearestEnemy(); enemy != nil {
		in.AimX = enemy.Pos.X
		in.AimY = enemy.Pos.Y

		// Стреляем только при прямой видимости, иначе сближаемся.
		if systems.HasLineOfSight(w.Level.Grid, p.Pos, enemy.Pos) {
			in.Fire = true
			// Держим дистанцию: вплотную к врагу контактный урон.
			if p.Pos.DistanceTo(enemy.Pos) > 120 {
				b.steerTowards(&in, enemy.Pos)
			}
		} else {
			b.steerTowards(&in, enemy.Pos)
		}
		return in
	}

	// Врагов не видно: идем к выходу, по пути подбирая взаимодействия.
	if w.Portal != nil {
		b.steerTowards(&in, w.Portal.Pos)
		if p.Pos.DistanceTo(w.Portal.Pos) < w.Portal.Portal.InteractRadius {
			in.Interact = true
		}
	}
	for _, e := range w.Entities {
		if e.Kind == domain.KindAltar && p.Pos.DistanceTo(e.Pos) < 60 {
			in.Interact = true
		}
	}
	return in
}

// nearestEnemy ищет ближайшего активного живого врага.
func (b *Bot) nearestEnemy() *domain.Entity {
	w := b.Game.World
	var best *domain.Entity
	bestDist := math.MaxFloat64

	for _, e := range w.Entities {
		if e.Kind != domain.KindEnemy || !e.Active || !e.Alive() {
			continue
		}
		d := w.Player.Pos.DistanceSquaredTo(e.Pos)
		if d < bestDist {
			bestDist = d
			best = e
		}
	}
	return best
}

func (b *Bot) steerTowards(in *api.InputFrame, target domain.Vec2) {
	dir := target.Sub(b.Game.World.Player.Pos).Normalized()
	in.MoveX = dir.X
	in.MoveY = dir.Y
}
