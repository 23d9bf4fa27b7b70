package game

import (
	"depths-server/pkg/api"
	"depths-server/pkg/config"
)

// Game - одна игровая сессия: мир плюс автомат состояний над ним.
// Мир тикает только в PLAYING; переход между уровнями проходит через
// LEVEL_TRANSITION с отложенным возвратом, чтобы клиент получил ровно
// один кадр в переходном состоянии и успел показать экран загрузки.
type Game struct {
	FSM   *Machine
	World *World

	cfg *config.Config

	// levelDirty выставляется при пересоздании уровня: серверу пора
	// отправить клиенту новый статический кадр.
	levelDirty bool
}

// New создает сессию и сразу грузит первый уровень.
func New(cfg *config.Config, seed int64) *Game {
	g := &Game{
		FSM: NewMachine(),
		cfg: cfg,
	}
	g.FSM.Transition(StateLoading)
	g.World = NewWorld(cfg, seed)
	g.levelDirty = true
	g.FSM.Defer(StatePlaying)
	return g
}

// Resume создает сессию из сохраненного прогресса.
func Resume(cfg *config.Config, p Progress) *Game {
	g := &Game{
		FSM: NewMachine(),
		cfg: cfg,
	}
	g.FSM.Transition(StateLoading)
	g.World = RestoreProgress(p, cfg)
	g.levelDirty = true
	g.FSM.Defer(StatePlaying)
	return g
}

// Tick продвигает сессию на dt секунд. Отложенный переход состояния
// применяется строго в начале тика.
func (g *Game) Tick(dt float64, in api.InputFrame) {
	g.FSM.ApplyPending()

	if !g.FSM.Is(StatePlaying) {
		return
	}

	g.World.Tick(dt, in)

	if g.World.PlayerDead() {
		g.FSM.Transition(StateGameOver)
		return
	}

	if g.World.advanceRequested {
		g.FSM.Transition(StateLevelTransition)
		g.World.AdvanceLevel()
		g.levelDirty = true
		g.FSM.Defer(StatePlaying)
	}
}

// Restart перезапускает забег после GAME_OVER.
func (g *Game) Restart() {
	if !g.FSM.Transition(StateLoading) {
		return
	}
	g.World.Restart()
	g.levelDirty = true
	g.FSM.Defer(StatePlaying)
}

// ConsumeLevelFrame возвращает статический кадр уровня, если клиенту
// пора его переслать, и сбрасывает флаг.
func (g *Game) ConsumeLevelFrame() (api.LevelFrame, bool) {
	if !g.levelDirty {
		return api.LevelFrame{}, false
	}
	g.levelDirty = false
	return g.World.LevelFrame(), true
}
