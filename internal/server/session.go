package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"depths-server/internal/game"
	"depths-server/internal/infrastructure/storage"
	"depths-server/internal/network"
	"depths-server/pkg/api"
	"depths-server/pkg/logger"
	"depths-server/pkg/utils"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Настройки WebSocket
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1024

	// Фиксированный шаг симуляции. Клиент может слать ввод чаще,
	// применяется всегда последний полученный кадр.
	tickRate = 20
	tickStep = time.Second / tickRate
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Session - посредник между Websocket и игровой сессией.
// Каждое подключение владеет собственным миром: читающая горутина
// складывает последний кадр ввода, цикл тиков применяет его с
// фиксированной частотой и шлет снапшоты в writePump.
type Session struct {
	id   string
	Game *game.Game
	Conn *websocket.Conn
	Send chan api.ServerMessage

	mu      sync.Mutex
	input   api.InputFrame
	restart bool

	done     chan struct{}
	doneOnce sync.Once

	// Replay пишет кадры ввода этой сессии; nil отключает запись.
	Replay *storage.ReplaySession

	// OnClose вызывается после остановки цикла тиков (сохранение прогресса).
	OnClose func(*Session)
}

func NewSession(g *game.Game, conn *websocket.Conn) *Session {
	return &Session{
		id:   utils.GenerateID(),
		Game: g,
		Conn: conn,
		Send: make(chan api.ServerMessage, 256),
		done: make(chan struct{}),
	}
}

func (s *Session) ID() string {
	return s.id
}

// Info реализует network.Session. Читает мир без синхронизации с циклом
// тиков: для отладочной сводки устаревшее на кадр значение приемлемо.
func (s *Session) Info() network.SessionInfo {
	return network.SessionInfo{
		ID:       s.id,
		State:    s.Game.FSM.Current(),
		Level:    s.Game.World.LevelNum,
		Tick:     s.Game.World.TickNum,
		Entities: len(s.Game.World.Entities),
	}
}

// Shutdown останавливает цикл тиков. Безопасен к повторным вызовам.
func (s *Session) Shutdown() {
	s.doneOnce.Do(func() { close(s.done) })
}

// readPump читает сообщения клиента и складывает последний кадр ввода.
func (s *Session) readPump(registry *network.Registry) {
	defer func() {
		registry.Unregister(s.id)
		s.Shutdown()
		if err := s.Conn.Close(); err != nil {
			logger.Log.WithError(err).Debug("close websocket failed")
		}
		logger.Log.WithField("session", s.id).Info("Client disconnected")
	}()

	s.Conn.SetReadLimit(maxMessageSize)
	if err := s.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		logger.Log.WithError(err).Warn("failed to set read deadline")
	}
	s.Conn.SetPongHandler(func(string) error {
		if err := s.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			logger.Log.WithError(err).Warn("failed to set pong read deadline")
		}
		return nil
	})

	for {
		var msg api.ClientMessage
		if err := s.Conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Log.WithError(err).Error("WS read error")
			}
			return
		}

		if err := msg.Validate(); err != nil {
			s.sendError(err.Error())
			continue
		}

		switch msg.Type {
		case "INPUT":
			s.mu.Lock()
			s.input = *msg.Input
			s.mu.Unlock()
		case "RESTART":
			s.mu.Lock()
			s.restart = true
			s.mu.Unlock()
		case "PING":
			// Достаточно стандартного pong на уровне протокола.
		}
	}
}

// tickLoop - фиксированный шаг симуляции этой сессии.
func (s *Session) tickLoop() {
	ticker := time.NewTicker(tickStep)
	defer ticker.Stop()

	dt := tickStep.Seconds()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.mu.Lock()
			in := s.input
			restart := s.restart
			s.restart = false
			// Одноразовые действия не должны повторяться на следующем
			// тике, если клиент не пришлет новый кадр.
			s.input.Interact = false
			s.input.Dash = false
			s.mu.Unlock()

			if restart {
				s.Game.Restart()
				// Перезапуск обнуляет симуляцию, старые кадры реплея
				// больше не воспроизводимы.
				if s.Replay != nil {
					s.Replay.Frames = s.Replay.Frames[:0]
				}
			}

			if s.Replay != nil {
				s.Replay.Record(s.Game.World.TickNum, in)
			}
			s.Game.Tick(dt, in)

			if frame, ok := s.Game.ConsumeLevelFrame(); ok {
				s.push("LEVEL", frame)
			}
			s.push("STATE", s.stateFrame())
		}
	}
}

// stateFrame собирает кадр состояния: снапшот мира плюс текущее
// состояние автомата сессии.
func (s *Session) stateFrame() any {
	snap := s.Game.World.Snapshot(game.DepthByY)
	return struct {
		State string `json:"state"`
		game.Snapshot
	}{
		State:    s.Game.FSM.Current(),
		Snapshot: snap,
	}
}

// push сериализует полезную нагрузку и кладет сообщение в исходящий
// канал. Переполненный канал роняет сессию: отстающий клиент хуже
// отключенного.
func (s *Session) push(msgType string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		logger.Log.WithError(err).Error("marshal payload failed")
		return
	}
	select {
	case s.Send <- api.ServerMessage{Type: msgType, Payload: data}:
	default:
		logger.Log.WithFields(logrus.Fields{
			"session": s.id,
			"type":    msgType,
		}).Warn("Send buffer full, dropping session")
		s.Shutdown()
	}
}

func (s *Session) sendError(text string) {
	data, _ := json.Marshal(api.ErrorPayload{Message: text})
	select {
	case s.Send <- api.ServerMessage{Type: "ERROR", Payload: data}:
	default:
	}
}

// writePump отправляет данные клиенту + Ping
func (s *Session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		if err := s.Conn.Close(); err != nil {
			logger.Log.WithError(err).Debug("close websocket in writePump failed")
		}
	}()

	for {
		select {
		case <-s.done:
			if err := s.Conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
				logger.Log.WithError(err).Debug("write close message failed")
			}
			if s.OnClose != nil {
				s.OnClose(s)
			}
			return

		case message := <-s.Send:
			if err := s.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logger.Log.WithError(err).Warn("failed to set write deadline")
			}
			if err := s.Conn.WriteJSON(message); err != nil {
				logger.Log.WithError(err).Debug("write json message failed")
				s.Shutdown()
				return
			}

		case <-ticker.C:
			if err := s.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logger.Log.WithError(err).Warn("failed to set ping write deadline")
			}
			if err := s.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				logger.Log.WithError(err).Debug("ping failed")
				s.Shutdown()
				return
			}
		}
	}
}
