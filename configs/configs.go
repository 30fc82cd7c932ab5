package configs

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

var (
	ServerAddress = "localhost:8080"
	RedisAddress  = "localhost:6379"
	WebSocketPath = "/ws"

	// WriteTimeout bounds a single websocket write of the relay
	WriteTimeout = 10 * time.Second

	// Redis keys

	ServerMessageQueueKey = "server:messages:%s:%s"
)

// Config is the runtime configuration of the relay and its clients.
type Config struct {
	ServerAddress string
	RedisAddress  string
	LogLevel      logrus.Level
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		ServerAddress: ServerAddress,
		RedisAddress:  RedisAddress,
		LogLevel:      logrus.InfoLevel,
	}
}

// Load reads the given .env files, missing ones are skipped, and overrides the
// defaults with SERVER_ADDRESS, REDIS_ADDRESS and LOG_LEVEL. Variables already
// set in the environment win over the files.
func Load(files ...string) (Config, error) {
	for _, file := range files {
		if _, err := os.Stat(file); err != nil {
			continue
		}
		if err := godotenv.Load(file); err != nil {
			return Config{}, err
		}
	}

	cfg := Default()
	if v := os.Getenv("SERVER_ADDRESS"); v != "" {
		cfg.ServerAddress = v
	}
	if v := os.Getenv("REDIS_ADDRESS"); v != "" {
		cfg.RedisAddress = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		level, err := logrus.ParseLevel(v)
		if err != nil {
			return Config{}, err
		}
		cfg.LogLevel = level
	}
	return cfg, nil
}

// NewLogger returns a logger at the configured level.
func (c Config) NewLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(c.LogLevel)
	return logger
}
