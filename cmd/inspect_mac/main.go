package main

import (
	"fmt"
	"io"
	"os"

	"github.com/jessevdk/go-flags"

	"key-verification/events"
	"key-verification/events/verification"
)

var (
	Stdin  io.Reader = os.Stdin
	Stdout io.Writer = os.Stdout
	Stderr io.Writer = os.Stderr
)

type options struct {
	Room bool `long:"room" description:"decode as in-room content (needs the unstable_pre_spec build)"`
	Args struct {
		File string `positional-arg-name:"file" description:"content to inspect, stdin when omitted"`
	} `positional-args:"yes"`
}

// Decodes an m.key.verification.mac content, validates it and prints the
// canonical key list its keys MAC covers.
func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	var opts options
	if _, err := flags.ParseArgs(&opts, args); err != nil {
		return err
	}

	var (
		data []byte
		err  error
	)
	if opts.Args.File == "" || opts.Args.File == "-" {
		data, err = io.ReadAll(Stdin)
	} else {
		data, err = os.ReadFile(opts.Args.File)
	}
	if err != nil {
		return err
	}

	channel := events.ToDevice
	if opts.Room {
		channel = events.Room
	}

	content, err := verification.NewRegistry().Decode(verification.MacEventType, channel, data)
	if err != nil {
		return err
	}
	if v, ok := content.(events.Validator); ok {
		if err := v.Validate(); err != nil {
			return err
		}
	}

	if c, ok := content.(*verification.DeviceMacContent); ok {
		fmt.Fprintf(Stdout, "transaction_id: %s\n", c.TransactionID)
	} else {
		fmt.Fprintf(Stdout, "channel: %s\n", content.Channel())
	}
	if lister, ok := content.(interface{ KeyList() string }); ok {
		fmt.Fprintf(Stdout, "key list: %s\n", lister.KeyList())
	}
	return nil
}
