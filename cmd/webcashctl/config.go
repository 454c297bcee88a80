package main

import (
	"os"
	"path/filepath"

	flags "github.com/jessevdk/go-flags"
)

const defaultDataDirname = "data"

// webcashctlHomeDir is the default base directory for wallet data and logs,
// mirroring lncli's lndHomeDir default-path convention.
var webcashctlHomeDir = defaultHomeDir()

func defaultHomeDir() string {
	dir, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(dir, ".webcashctl")
}

// config holds the flags shared by every webcashctl subcommand. It is
// parsed once at startup via jessevdk/go-flags, the same library lnd.go
// uses for loadConfig, before urfave/cli takes over dispatching the
// subcommand itself.
type config struct {
	DataDir string `long:"datadir" description:"directory to store wallet data"`
	LogDir  string `long:"logdir" description:"directory to store log output"`
	Debug   bool   `long:"debug" description:"enable debug-level logging"`
}

// loadConfig parses the global flags out of argv, ignoring anything it
// doesn't recognize (subcommand names and their own flags), and returns
// the resolved config plus the untouched remainder for urfave/cli to
// dispatch.
func loadConfig(argv []string) (*config, []string, error) {
	cfg := config{
		DataDir: filepath.Join(webcashctlHomeDir, defaultDataDirname),
		LogDir:  webcashctlHomeDir,
	}

	parser := flags.NewParser(&cfg, flags.Default|flags.IgnoreUnknown)
	rest, err := parser.ParseArgs(argv)
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		return nil, nil, err
	}

	return &cfg, rest, nil
}
