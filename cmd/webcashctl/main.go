// Command webcashctl is a thin driver over libwebcash, in the idiom of
// cmd/lncli: it exercises the amount codec, claim-code codec, serial
// derivation, and the wallet terms-of-service protocol from the command
// line, without adding any wallet semantics beyond what the library
// itself provides.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli"
)

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "[webcashctl] %v\n", err)
	os.Exit(1)
}

func main() {
	cfg, rest, err := loadConfig(os.Args[1:])
	if err != nil {
		fatal(err)
	}

	if err := initLogging(cfg.LogDir, cfg.Debug); err != nil {
		fatal(err)
	}

	app := cli.NewApp()
	app.Name = "webcashctl"
	app.Version = "0.1"
	app.Usage = "command-line driver for libwebcash"
	app.Metadata = map[string]interface{}{"config": cfg}
	app.Commands = []cli.Command{
		amountCommand,
		claimcodeCommand,
		deriveCommand,
		termsCommand,
	}

	argv := append([]string{os.Args[0]}, rest...)
	if err := app.Run(argv); err != nil {
		fatal(err)
	}
}
