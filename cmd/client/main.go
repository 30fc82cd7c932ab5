package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/sirupsen/logrus"

	"key-verification/client"
	"key-verification/configs"
	"key-verification/events/verification"
)

var opts struct {
	EnvFile string `long:"env-file" default:".env" description:"dotenv file to read configuration from"`
	Args    struct {
		UserID   string `positional-arg-name:"user-id" required:"yes"`
		DeviceID string `positional-arg-name:"device-id" required:"yes"`
	} `positional-args:"yes"`
}

// Connects a device to the relay and logs every verification MAC it receives.
func main() {
	if _, err := flags.Parse(&opts); err != nil {
		if flags.WroteHelp(err) {
			return
		}
		os.Exit(1)
	}

	cfg, err := configs.Load(opts.EnvFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	logger := cfg.NewLogger()
	client.SetLogger(logger)

	serverURL := fmt.Sprintf("ws://%s%s", cfg.ServerAddress, configs.WebSocketPath)
	device, err := client.Dial(context.Background(), serverURL, opts.Args.UserID, opts.Args.DeviceID, verification.NewRegistry())
	if err != nil {
		logger.Fatalf("Error connecting to relay: %v", err)
	}
	defer device.Close()
	logger.Infof("Connected to %s as %s/%s", serverURL, opts.Args.UserID, opts.Args.DeviceID)

	for {
		bundle, content, err := device.Receive()
		if bundle == nil {
			logger.Errorf("Error reading message: %v", err)
			return
		}

		log := logger.WithFields(logrus.Fields{
			"from": bundle.From + "/" + bundle.FromDevice,
			"type": bundle.Type,
		})
		if err != nil {
			log.Warnf("Received invalid content: %v", err)
			continue
		}

		switch c := content.(type) {
		case *verification.DeviceMacContent:
			log.WithField("transaction_id", c.TransactionID).Infof("MAC for keys %s", c.Mac.KeyList())
		case nil:
			log.Info("Received event")
		default:
			log.Infof("Received %T", c)
		}
	}
}
