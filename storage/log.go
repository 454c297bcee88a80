package storage

import "github.com/btcsuite/btclog"

// log is this subsystem's logger, following the teacher's per-package
// log.go convention: silent until a host binary wires in a real backend
// via UseLogger.
var log btclog.Logger

func init() {
	UseLogger(btclog.Disabled)
}

// UseLogger sets the logger used by this package. Called from a host
// binary's logging setup, mirroring lnd.go's subsystem logger wiring.
func UseLogger(logger btclog.Logger) {
	log = logger
}
