package game

import (
	"depths-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// Состояния игровой сессии.
const (
	StateBoot            = "BOOT"
	StateLoading         = "LOADING"
	StatePlaying         = "PLAYING"
	StateLevelTransition = "LEVEL_TRANSITION"
	StateGameOver        = "GAME_OVER"
)

// Machine - конечный автомат сессии с таблицей допустимых переходов.
// Недопустимый переход логируется и отклоняется: автомат остается
// в текущем состоянии, а не падает в неопределенное.
type Machine struct {
	current string
	pending string // отложенный переход, применяется в начале следующего тика

	valid map[string][]string
}

// NewMachine создает автомат в состоянии BOOT.
func NewMachine() *Machine {
	return &Machine{
		current: StateBoot,
		valid: map[string][]string{
			StateBoot:            {StateLoading},
			StateLoading:         {StatePlaying},
			StatePlaying:         {StateLevelTransition, StateGameOver},
			StateLevelTransition: {StatePlaying},
			StateGameOver:        {StateLoading},
		},
	}
}

// Current возвращает имя текущего состояния.
func (m *Machine) Current() string {
	return m.current
}

// Is проверяет текущее состояние.
func (m *Machine) Is(state string) bool {
	return m.current == state
}

// Transition выполняет немедленный переход. Возвращает false,
// если переход не разрешен таблицей.
func (m *Machine) Transition(state string) bool {
	allowed := false
	for _, s := range m.valid[m.current] {
		if s == state {
			allowed = true
			break
		}
	}
	if !allowed {
		logger.Log.WithFields(logrus.Fields{
			"component": "fsm",
			"from":      m.current,
			"to":        state,
		}).Warn("Invalid state transition rejected")
		return false
	}

	logger.Log.WithFields(logrus.Fields{
		"component": "fsm",
		"from":      m.current,
		"to":        state,
	}).Debug("State transition")
	m.current = state
	return true
}

// Defer планирует переход на начало СЛЕДУЮЩЕГО тика. Используется для
// переходов, инициированных изнутри обработчика другого перехода:
// немедленный вызов привел бы к реентерабельной рекурсии автомата.
func (m *Machine) Defer(state string) {
	m.pending = state
}

// ApplyPending применяет отложенный переход, если он есть.
// Вызывается ровно один раз в фиксированной точке цикла - в начале тика.
func (m *Machine) ApplyPending() {
	if m.pending == "" {
		return
	}
	next := m.pending
	m.pending = ""
	m.Transition(next)
}
