package config

import (
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	StorageFile     = "file"
	StorageMemory   = "memory"
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
)

type Config struct {
	APIBaseURL    string        `env:"API_BASE_URL" env-default:"http://localhost:8080/api"`
	UIAddr        string        `env:"UI_ADDR" env-default:"127.0.0.1:3000"`
	LogLevel      string        `env:"LOG_LEVEL" env-default:"info"`
	HTTPTimeout   time.Duration `env:"HTTP_TIMEOUT" env-default:"15s"`
	SubmitTimeout time.Duration `env:"SUBMIT_TIMEOUT" env-default:"60s"`

	StorageBackend string `env:"STORAGE_BACKEND" env-default:"file"`
	StoragePath    string `env:"STORAGE_PATH"`

	RedisAddr      string `env:"REDIS_ADDR" env-default:"localhost:6379"`
	RedisPassword  string `env:"REDIS_PASSWORD"`
	RedisDB        int    `env:"REDIS_DB" env-default:"0"`
	RedisKeyPrefix string `env:"REDIS_KEY_PREFIX" env-default:"brewalgo:"`

	PostgresDSN string `env:"POSTGRES_DSN"`

	DevServerPort    string        `env:"DEV_SERVER_PORT" env-default:"8080"`
	DevJWTSecret     string        `env:"DEV_JWT_SECRET" env-default:"defaultsecret"`
	DevJWTExpiration time.Duration `env:"DEV_JWT_EXPIRATION" env-default:"72h"`
	DevSeedDemoUser  bool          `env:"DEV_SEED_DEMO_USER" env-default:"true"`
}

// Load reads an optional .env file into the process environment and then
// maps the environment onto Config.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	cfg := &Config{}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, err
	}
	if cfg.StoragePath == "" {
		cfg.StoragePath = defaultStoragePath()
	}
	return cfg, nil
}

func defaultStoragePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "brewalgo-session.json"
	}
	return filepath.Join(dir, "brewalgo", "session.json")
}
