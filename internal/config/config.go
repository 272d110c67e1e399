package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

type Config struct {
	LogLevel        string        `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort        string        `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	Storage         string        `yaml:"storage" env:"STORAGE" env-default:"redis"`
	ShutdownTimeout time.Duration `yaml:"shutdown-timeout" env:"SHUTDOWN_TIMEOUT" env-default:"10s"`
	Redis           Redis         `yaml:"redis"`
	Postgres        Postgres      `yaml:"postgres"`
}

type Redis struct {
	Host string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
}

type Postgres struct {
	DSN string `yaml:"dsn" env:"POSTGRES_DSN"`
}

// MustLoad - load all configurations in config.yml file, environment overrides it.
// A .env file next to the binary is loaded first when present.
func MustLoad(path string) *Config {
	config, err := Load(path, ".env")
	if err != nil {
		panic(err)
	}

	return config
}

func Load(path string, envFiles ...string) (*Config, error) {
	for _, envFile := range envFiles {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("unable to load env file %s: %w", envFile, err)
		}
	}

	config := &Config{}
	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}

	switch config.Storage {
	case StorageRedis, StoragePostgres, StorageMemory:
	default:
		return nil, fmt.Errorf("unknown storage %q", config.Storage)
	}

	if config.Storage == StoragePostgres && config.Postgres.DSN == "" {
		return nil, errors.New("postgres storage needs postgres.dsn")
	}

	return config, nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
