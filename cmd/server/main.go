package main

import (
	"flag"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"depths-server/internal/agent"
	"depths-server/internal/game"
	"depths-server/internal/infrastructure/storage"
	"depths-server/internal/server"
	"depths-server/internal/version"
	"depths-server/pkg/config"
	"depths-server/pkg/logger"
)

func init() {
	logger.Init()
}

func main() {
	// 1. Парсинг конфигурации
	var seed int64
	var configPath string
	var savePath string
	var replayDir string
	var replayPath string
	var botTicks int
	// Читаем флаг -seed. По умолчанию 0 (значит сгенерировать случайно).
	flag.Int64Var(&seed, "seed", 0, "Master seed for new runs (0 for random)")
	flag.StringVar(&configPath, "config", "", "Path to YAML config (empty for defaults)")
	flag.StringVar(&savePath, "save", "", "Path to progress file (empty disables saving)")
	flag.StringVar(&replayDir, "replays", "", "Directory for session replays (empty disables recording)")
	flag.StringVar(&replayPath, "replay", "", "Path to .dsrp replay file to simulate")
	flag.IntVar(&botTicks, "bot", 0, "Run a headless bot for N ticks and exit")
	flag.Parse()

	logger.Log.Info("Starting Depths Server...")
	logger.Log.Info(version.String())

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Log.Fatal("Config error: ", err)
	}

	// РЕЖИМ РЕПЛЕЯ
	if replayPath != "" {
		runReplay(cfg, replayPath)
		return
	}

	if seed == 0 {
		seed = rand.New(rand.NewSource(time.Now().UnixNano())).Int63()
		logger.Log.Infof("🎲 Using random master seed: %d", seed)
	} else {
		logger.Log.Infof("🎲 Using explicit master seed: %d", seed)
	}

	// РЕЖИМ БОТА (soak-прогон без клиента)
	if botTicks > 0 {
		runBot(cfg, seed, botTicks)
		return
	}

	port := os.Getenv("DEPTHS_PORT")
	if port == "" {
		port = "8080"
	}

	// 2. Запуск сервера
	srv := server.New(cfg, port, seed, savePath, replayDir)

	// Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := srv.Run(); err != nil {
			logger.Log.Fatal("Server start error:", err)
		}
	}()

	<-stop
	logger.Log.Info("Shutting down...")

	// Останавливаем сессии; их OnClose сохранит прогресс и реплеи.
	srv.Registry.ShutdownAll()

	logger.Log.Info("Done.")
}

// runReplay воспроизводит записанный забег: та же симуляция,
// тот же сид, те же кадры ввода.
func runReplay(cfg *config.Config, path string) {
	logger.Log.Info("💿 Mode: Replay Simulation")

	session, err := storage.NewReplayService(".").Load(path)
	if err != nil {
		logger.Log.Fatal("Failed to load replay: ", err)
	}

	g := game.Resume(cfg, game.Progress{Seed: session.Seed, Level: session.StartLevel})
	dt := 1.0 / 20.0
	for _, frame := range session.Frames {
		g.Tick(dt, frame.Input())
	}

	final := g.World.Progress()
	logger.Log.Infof("Replay finished: state=%s level=%d hp=%d gold=%d ticks=%d",
		g.FSM.Current(), final.Level, final.HP, final.Gold, g.World.TickNum)
}

// runBot прогоняет автономного бота и выходит.
func runBot(cfg *config.Config, seed int64, ticks int) {
	logger.Log.Infof("🤖 Mode: Headless bot, %d ticks", ticks)

	bot := agent.NewBot(game.New(cfg, seed))
	done := bot.RunTicks(ticks, 1.0/20.0)

	final := bot.Game.World.Progress()
	logger.Log.Infof("Bot run finished: state=%s level=%d hp=%d gold=%d ticks=%d",
		bot.Game.FSM.Current(), final.Level, final.HP, final.Gold, done)
}
