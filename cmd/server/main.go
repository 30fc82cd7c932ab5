package main

import (
	"context"
	"net/http"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/redis/go-redis/v9"

	"key-verification/configs"
	"key-verification/events/verification"
	"key-verification/server"
)

var opts struct {
	EnvFile string `long:"env-file" default:".env" description:"dotenv file to read configuration from"`
	Listen  string `long:"listen" description:"address to listen on, overrides SERVER_ADDRESS"`
	Memory  bool   `long:"memory" description:"queue offline messages in memory instead of Redis"`
}

// Main function to start the server
func main() {
	if _, err := flags.Parse(&opts); err != nil {
		if flags.WroteHelp(err) {
			return
		}
		os.Exit(1)
	}

	cfg, err := configs.Load(opts.EnvFile)
	if err != nil {
		configs.Default().NewLogger().Fatalf("Error loading configuration: %v", err)
	}
	logger := cfg.NewLogger()

	listen := cfg.ServerAddress
	if opts.Listen != "" {
		listen = opts.Listen
	}

	var queue server.Queue
	if opts.Memory {
		queue = server.NewMemoryQueue()
	} else {
		queue = server.NewRedisQueue(redis.NewClient(&redis.Options{Addr: cfg.RedisAddress}))
	}

	s := server.NewServer(context.Background(), queue, verification.NewRegistry(), logger)
	defer s.Close()

	logger.Infof("Relay running on ws://%s%s (in-room verification: %t)", listen, configs.WebSocketPath, verification.RoomVerificationEnabled)
	if err := http.ListenAndServe(listen, s.Router()); err != nil {
		logger.Errorf("Error starting server: %v", err)
	}

	logger.Info("Closing server...")
}
