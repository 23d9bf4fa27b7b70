package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config - полная игровая конфигурация.
// Загружается ОДИН раз при старте и дальше никогда не мутируется:
// все системы получают её по указателю только для чтения.
type Config struct {
	Level   LevelConfig    `yaml:"level"`
	Spatial SpatialConfig  `yaml:"spatial"`
	Player  PlayerConfig   `yaml:"player"`
	Doors   DoorConfig     `yaml:"doors"`
	Spawn   SpawnConfig    `yaml:"spawn"`
	Enemies []EnemyConfig  `yaml:"enemies"`
	Weapons []WeaponConfig `yaml:"weapons"`
	Drops   DropConfig     `yaml:"drops"`
}

// LevelConfig - параметры генерации уровня.
type LevelConfig struct {
	Width       int `yaml:"width"`        // ширина карты в тайлах
	Height      int `yaml:"height"`       // высота карты в тайлах
	RoomCount   int `yaml:"room_count"`   // целевое число комнат (попыток размещения)
	TileSize    int `yaml:"tile_size"`    // размер тайла в мировых единицах
	MinRoomSize int `yaml:"min_room_size"`
	MaxRoomSize int `yaml:"max_room_size"`
	Padding     int `yaml:"padding"` // зазор между комнатами в тайлах

	// MaxRetries - сколько раз перегенерировать уровень с новым сидом,
	// прежде чем откатиться на гарантированную однокомнатную планировку.
	MaxRetries int `yaml:"max_retries"`
}

// SpatialConfig - настройки broad-phase индекса.
type SpatialConfig struct {
	CellSize float64 `yaml:"cell_size"` // примерно два размера тайла
}

// PlayerConfig - характеристики игрока.
type PlayerConfig struct {
	HP                int     `yaml:"hp"`
	Speed             float64 `yaml:"speed"`
	Radius            float64 `yaml:"radius"`
	DashSpeed         float64 `yaml:"dash_speed"`
	DashDuration      float64 `yaml:"dash_duration"`
	DashCooldown      float64 `yaml:"dash_cooldown"`
	IFrameDuration    float64 `yaml:"iframe_duration"`
	InteractionRadius float64 `yaml:"interaction_radius"`
}

// DoorConfig - поведение дверей.
type DoorConfig struct {
	TriggerRadius  float64 `yaml:"trigger_radius"` // дистанция автооткрытия
	SlideSpeed     float64 `yaml:"slide_speed"`    // скорость створки, ед/сек
	SolidThreshold float64 `yaml:"solid_threshold"` // offset, ниже которого дверь твердая
	SafetyMargin   float64 `yaml:"safety_margin"`  // запас при проверке "игрок в проеме"
}

// SpawnConfig - планирование наполнения комнат.
type SpawnConfig struct {
	DoorClearance float64 `yaml:"door_clearance"` // мин. дистанция спавна от двери
	MaxAttempts   int     `yaml:"max_attempts"`   // бюджет попыток на одного врага
	MaxPerRoom    int     `yaml:"max_per_room"`   // верхний предел численности
	LootGuards    int     `yaml:"loot_guards"`    // охрана LOOT-комнаты
	EliteCount    int     `yaml:"elite_count"`    // фиксированный состав ELITE
	BossCount     int     `yaml:"boss_count"`     // фиксированный состав BOSS
	LootFraction  float64 `yaml:"loot_fraction"`  // доля COMBAT -> LOOT
	EliteFraction float64 `yaml:"elite_fraction"` // доля COMBAT -> ELITE
}

// EnemyConfig - описание типа врага.
// Порядок в списке важен: взвешенный выбор идет по списку,
// а первый элемент служит запасным вариантом (самый слабый тип).
type EnemyConfig struct {
	Name      string  `yaml:"name"`
	HP        int     `yaml:"hp"`
	Speed     float64 `yaml:"speed"`
	Radius    float64 `yaml:"radius"`
	Mass      float64 `yaml:"mass"`
	DropValue int     `yaml:"drop_value"`
	Movement  string  `yaml:"movement"` // chase | pathfinding | stationary
	Attack    string  `yaml:"attack"`   // none | single | spread | melee | burst
	FireRate  float64 `yaml:"fire_rate"`
	Pellets   int     `yaml:"pellets"` // для spread/burst

	// Гейтинг и формула веса: тип доступен с уровня MinLevel,
	// вес = BaseWeight + WeightPerLevel * уровень.
	MinLevel       int `yaml:"min_level"`
	BaseWeight     int `yaml:"base_weight"`
	WeightPerLevel int `yaml:"weight_per_level"`
}

// WeaponConfig - оружие игрока.
type WeaponConfig struct {
	Name     string  `yaml:"name"`
	Damage   int     `yaml:"damage"`
	FireRate float64 `yaml:"fire_rate"`
	Speed    float64 `yaml:"speed"`
	Spread   float64 `yaml:"spread"`
	Count    int     `yaml:"count"`
}

// DropConfig - лут с врагов.
type DropConfig struct {
	CoinValue       int     `yaml:"coin_value"`
	HealthPackValue int     `yaml:"health_pack_value"`
	ChanceHealth    float64 `yaml:"chance_health"`
	ChanceCoin      float64 `yaml:"chance_coin"`
}

// Default возвращает конфигурацию по умолчанию.
func Default() *Config {
	return &Config{
		Level: LevelConfig{
			Width:       50,
			Height:      50,
			RoomCount:   10,
			TileSize:    40,
			MinRoomSize: 7,
			MaxRoomSize: 14,
			Padding:     1,
			MaxRetries:  5,
		},
		Spatial: SpatialConfig{
			CellSize: 80,
		},
		Player: PlayerConfig{
			HP:                10,
			Speed:             200,
			Radius:            15,
			DashSpeed:         600,
			DashDuration:      0.2,
			DashCooldown:      1.0,
			IFrameDuration:    1.0,
			InteractionRadius: 40,
		},
		Doors: DoorConfig{
			TriggerRadius:  100,
			SlideSpeed:     100,
			SolidThreshold: 30,
			SafetyMargin:   10,
		},
		Spawn: SpawnConfig{
			DoorClearance: 120,
			MaxAttempts:   30,
			MaxPerRoom:    12,
			LootGuards:    2,
			EliteCount:    6,
			BossCount:     6,
			LootFraction:  0.15,
			EliteFraction: 0.15,
		},
		Enemies: []EnemyConfig{
			{Name: "walker", HP: 3, Speed: 100, Radius: 15, Mass: 2, DropValue: 10,
				Movement: "chase", Attack: "melee",
				MinLevel: 1, BaseWeight: 150},
			{Name: "shooter", HP: 3, Speed: 80, Radius: 15, Mass: 2, DropValue: 15,
				Movement: "chase", Attack: "single", FireRate: 2.0,
				MinLevel: 1, BaseWeight: 50},
			{Name: "smart", HP: 5, Speed: 110, Radius: 15, Mass: 2, DropValue: 20,
				Movement: "pathfinding", Attack: "single", FireRate: 1.8,
				MinLevel: 2, BaseWeight: 40, WeightPerLevel: 5},
			{Name: "spawner", HP: 8, Speed: 0, Radius: 18, Mass: 0, DropValue: 25,
				Movement: "stationary", Attack: "burst", FireRate: 3.0, Pellets: 6,
				MinLevel: 2, BaseWeight: 10, WeightPerLevel: 2},
			{Name: "rapid", HP: 4, Speed: 90, Radius: 15, Mass: 2, DropValue: 30,
				Movement: "chase", Attack: "single", FireRate: 0.35,
				MinLevel: 3, BaseWeight: 30, WeightPerLevel: 5},
			{Name: "shotgun", HP: 6, Speed: 70, Radius: 16, Mass: 3, DropValue: 30,
				Movement: "chase", Attack: "spread", FireRate: 2.2, Pellets: 5,
				MinLevel: 4, BaseWeight: 20, WeightPerLevel: 5},
			{Name: "stealth", HP: 3, Speed: 40, Radius: 14, Mass: 1, DropValue: 20,
				Movement: "pathfinding", Attack: "melee",
				MinLevel: 4, BaseWeight: 15, WeightPerLevel: 3},
			{Name: "heavy", HP: 12, Speed: 50, Radius: 18, Mass: 5, DropValue: 50,
				Movement: "chase", Attack: "spread", FireRate: 2.6, Pellets: 8,
				MinLevel: 6, BaseWeight: 10, WeightPerLevel: 4},
		},
		Weapons: []WeaponConfig{
			{Name: "pistol", Damage: 2, FireRate: 0.4, Speed: 600, Spread: 0.05, Count: 1},
			{Name: "shotgun", Damage: 1, FireRate: 0.8, Speed: 550, Spread: 0.3, Count: 5},
			{Name: "heavy_shotgun", Damage: 2, FireRate: 1.2, Speed: 500, Spread: 0.4, Count: 8},
		},
		Drops: DropConfig{
			CoinValue:       10,
			HealthPackValue: 2,
			ChanceHealth:    0.2,
			ChanceCoin:      0.5,
		},
	}
}

// Load читает YAML-файл поверх значений по умолчанию.
// Пустой путь возвращает дефолтный конфиг без ошибки.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate проверяет минимальную согласованность параметров.
func (c *Config) Validate() error {
	if c.Level.Width < 10 || c.Level.Height < 10 {
		return fmt.Errorf("level size %dx%d is too small", c.Level.Width, c.Level.Height)
	}
	if c.Level.MinRoomSize < 3 || c.Level.MaxRoomSize < c.Level.MinRoomSize {
		return fmt.Errorf("invalid room size range [%d, %d]", c.Level.MinRoomSize, c.Level.MaxRoomSize)
	}
	if c.Level.MaxRoomSize+2*c.Level.Padding >= c.Level.Width ||
		c.Level.MaxRoomSize+2*c.Level.Padding >= c.Level.Height {
		return fmt.Errorf("max room size %d does not fit the level", c.Level.MaxRoomSize)
	}
	if c.Spatial.CellSize <= 0 {
		return fmt.Errorf("spatial cell size must be positive")
	}
	if len(c.Enemies) == 0 {
		return fmt.Errorf("enemy table is empty")
	}
	return nil
}

// Enemy ищет описание типа врага по имени.
func (c *Config) Enemy(name string) (EnemyConfig, bool) {
	for _, e := range c.Enemies {
		if e.Name == name {
			return e, true
		}
	}
	return EnemyConfig{}, false
}

// Weapon ищет описание оружия по имени.
func (c *Config) Weapon(name string) (WeaponConfig, bool) {
	for _, w := range c.Weapons {
		if w.Name == name {
			return w, true
		}
	}
	return WeaponConfig{}, false
}
