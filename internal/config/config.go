package config

import (
	"log"
	"os"
	"strconv"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
		Env  string `yaml:"env"`
	} `yaml:"server"`

	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`

	Redis struct {
		Addr     string `yaml:"addr"` // пусто = in-memory rate limiter
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	Swipes struct {
		FreeSuperLikesCap   int `yaml:"free_super_likes_cap"`   // дневной кап суперлайков для free-tier
		FreeBoostsCap       int `yaml:"free_boosts_cap"`        // кап бустов для free-tier
		SuperLikeResetHours int `yaml:"super_like_reset_hours"` // интервал периодического пополнения
		PerMinute           int `yaml:"per_minute"`             // rate limit свайпов
		Per10Sec            int `yaml:"per_10_sec"`
		BoostMinutes        int `yaml:"boost_minutes"` // длительность одного буста
	} `yaml:"swipes"`

	Workers struct {
		SweepMinutes int `yaml:"sweep_minutes"` // период фоновых sweeps
	} `yaml:"workers"`
}

var AppConfig *Config

// GetConfig возвращает загруженную конфигурацию
func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}

func LoadConfig() {
	var cfg Config

	dbURL := os.Getenv("DATABASE_URL")

	if dbURL == "" {
		log.Println("Загрузка из config.yaml")

		configPath := os.Getenv("CONFIG_PATH")
		if configPath == "" {
			configPath = "config/config.yaml"
		}

		f, err := os.Open(configPath)
		if err != nil {
			log.Fatalf("Failed to open config file at %s: %v", configPath, err)
		}
		defer f.Close()

		decoder := yaml.NewDecoder(f)
		if err := decoder.Decode(&cfg); err != nil {
			log.Fatalf("Failed to parse config file at %s: %v", configPath, err)
		}

		applyDefaults(&cfg)
		AppConfig = &cfg
		return
	}

	log.Println("Загрузка конфигурации из переменных окружения")

	cfg.Database.DSN = dbURL
	cfg.Server.Env = os.Getenv("SERVER_ENV")
	cfg.Server.Port, _ = strconv.Atoi(os.Getenv("SERVER_PORT"))
	cfg.Redis.Addr = os.Getenv("REDIS_ADDR")

	applyDefaults(&cfg)
	AppConfig = &cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 4000
	}
	if cfg.Swipes.FreeSuperLikesCap <= 0 {
		cfg.Swipes.FreeSuperLikesCap = 1
	}
	if cfg.Swipes.FreeBoostsCap < 0 {
		cfg.Swipes.FreeBoostsCap = 0
	}
	if cfg.Swipes.SuperLikeResetHours <= 0 {
		cfg.Swipes.SuperLikeResetHours = 24
	}
	if cfg.Swipes.PerMinute <= 0 {
		cfg.Swipes.PerMinute = 60
	}
	if cfg.Swipes.Per10Sec <= 0 {
		cfg.Swipes.Per10Sec = 15
	}
	if cfg.Swipes.BoostMinutes <= 0 {
		cfg.Swipes.BoostMinutes = 30
	}
	if cfg.Workers.SweepMinutes <= 0 {
		cfg.Workers.SweepMinutes = 15
	}
}
