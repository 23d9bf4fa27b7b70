package server

import (
	"encoding/json"
	"math/rand"
	"net/http"
	_ "net/http/pprof" // Profiling
	"os"
	"time"

	"depths-server/internal/game"
	"depths-server/internal/infrastructure/storage"
	"depths-server/internal/network"
	"depths-server/internal/version"
	"depths-server/pkg/config"
	"depths-server/pkg/logger"
)

type Server struct {
	Cfg      *config.Config
	Registry *network.Registry
	Port     string

	// MasterSeed задает сид всех новых сессий; 0 - случайный на сессию.
	MasterSeed int64

	// SavePath - файл прогресса. Пустая строка отключает сохранение.
	SavePath string

	// Replays пишет забеги в каталог; nil отключает запись.
	Replays *storage.ReplayService
}

func New(cfg *config.Config, port string, masterSeed int64, savePath, replayDir string) *Server {
	s := &Server{
		Cfg:        cfg,
		Registry:   network.NewRegistry(),
		Port:       port,
		MasterSeed: masterSeed,
		SavePath:   savePath,
	}
	if replayDir != "" {
		s.Replays = storage.NewReplayService(replayDir)
	}
	return s
}

// Run запускает HTTP сервер
func (s *Server) Run() error {
	mux := http.DefaultServeMux

	// Регистрируем роуты
	mux.HandleFunc("/ws", enableCORS(s.handleWS))
	mux.HandleFunc("/health", enableCORS(s.handleHealth))
	mux.HandleFunc("/version", enableCORS(s.handleVersion))

	debugHandler := NewDebugHandler(s.Registry)
	debugHandler.RegisterRoutes(mux)

	logger.Log.Infof("⚔️  Depths Server running on :%s", s.Port)
	return http.ListenAndServe(":"+s.Port, mux)
}

func enableCORS(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Разрешаем запросы с фронтенда
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		next(w, r)
	}
}

// handleWS обрабатывает подключение по WebSocket: поднимает соединение,
// создает или восстанавливает игровую сессию и запускает ее горутины.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Error("Upgrade error:", err)
		return
	}

	g := s.newGame()
	session := NewSession(g, conn)
	session.OnClose = s.finishSession
	if s.Replays != nil {
		session.Replay = &storage.ReplaySession{
			Seed:       g.World.MasterSeed(),
			Timestamp:  time.Now().Unix(),
			StartLevel: g.World.LevelNum,
		}
	}
	s.Registry.Register(session)

	go session.writePump()
	go session.tickLoop()
	go session.readPump(s.Registry)
}

// newGame создает сессию: из файла прогресса, если он есть, иначе
// с нуля по мастер-сиду.
func (s *Server) newGame() *game.Game {
	if s.SavePath != "" {
		if _, err := os.Stat(s.SavePath); err == nil {
			progress, err := game.LoadProgress(s.SavePath)
			if err == nil {
				logger.Log.WithField("level", progress.Level).Info("Resuming saved run")
				return game.Resume(s.Cfg, progress)
			}
			logger.Log.WithError(err).Warn("Progress file unreadable, starting fresh")
		}
	}

	seed := s.MasterSeed
	if seed == 0 {
		seed = rand.Int63()
	}
	logger.Log.WithField("seed", seed).Info("Starting new run")
	return game.New(s.Cfg, seed)
}

// finishSession завершает учет сессии: реплей и файл прогресса.
func (s *Server) finishSession(session *Session) {
	if s.Replays != nil && session.Replay != nil && len(session.Replay.Frames) > 0 {
		if path, err := s.Replays.Save(session.Replay); err != nil {
			logger.Log.WithError(err).Error("Failed to save replay")
		} else {
			logger.Log.WithField("path", path).Info("Replay saved")
		}
	}

	if s.SavePath == "" {
		return
	}
	// Проигранный забег не сохраняем, файл старого прогресса сгорает.
	if session.Game.FSM.Is(game.StateGameOver) {
		if err := os.Remove(s.SavePath); err != nil && !os.IsNotExist(err) {
			logger.Log.WithError(err).Warn("Failed to remove progress file")
		}
		return
	}
	if err := game.SaveProgress(s.SavePath, session.Game.World.Progress()); err != nil {
		logger.Log.WithError(err).Error("Failed to save progress")
		return
	}
	logger.Log.WithField("path", s.SavePath).Info("Progress saved")
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(version.Info())
}
