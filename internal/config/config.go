package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	LogLevel   string `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort   string `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	SocketPort string `yaml:"socket-port" env:"SOCKET_PORT" env-default:"8080"`
	SocketPath string `yaml:"socket-path" env:"SOCKET_PATH" env-default:"/ws"`
	Redis      Redis  `yaml:"redis" env-prefix:"REDIS_"`
	Game       Game   `yaml:"game" env-prefix:"GAME_"`
}

type Redis struct {
	Enabled    bool          `yaml:"enabled" env:"ENABLED" env-default:"false"`
	Host       string        `yaml:"host" env:"HOST" env-default:"localhost"`
	Port       string        `yaml:"port" env:"PORT" env-default:"6379"`
	SessionTTL time.Duration `yaml:"session-ttl" env:"SESSION_TTL" env-default:"24h"`
}

type Game struct {
	// AllowMovesAfterFinish keeps accepting moves on a won board that still has free cells.
	AllowMovesAfterFinish bool `yaml:"allow-moves-after-finish" env:"ALLOW_MOVES_AFTER_FINISH" env-default:"false"`
}

// Load - reads the optional .env file next to the config, then the config file and the environment.
func Load(path, envPath string) (*Config, error) {
	if err := godotenv.Load(envPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("unable to load env file: %w", err)
	}

	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}

	return config, nil
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path, envPath string) *Config {
	config, err := Load(path, envPath)
	if err != nil {
		panic(err)
	}

	return config
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
