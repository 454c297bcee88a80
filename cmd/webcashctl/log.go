package main

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/btcsuite/btclog"
	"github.com/jrick/logrotate/rotator"

	"github.com/maaku/libwebcash/serverconn"
	"github.com/maaku/libwebcash/storage"
	"github.com/maaku/libwebcash/wallet"
	"github.com/maaku/libwebcash/walletui"
)

// logWriter wraps a jrick/logrotate rotator so it can back a btclog
// backend, mirroring lnd.go's own log-rotation setup.
type logWriter struct {
	sync.Mutex
	rotator *rotator.Rotator
}

func (w *logWriter) Write(b []byte) (int, error) {
	w.Lock()
	defer w.Unlock()
	return w.rotator.Write(b)
}

var logw = &logWriter{}

// initLogging opens a rotated log file under logDir and wires UseLogger
// into every subsystem that exposes one, following the teacher's
// per-subsystem logger injection pattern.
func initLogging(logDir string, debug bool) error {
	if err := os.MkdirAll(logDir, 0700); err != nil {
		return err
	}

	r, err := rotator.New(filepath.Join(logDir, "webcashctl.log"), 10*1024, false, 3)
	if err != nil {
		return err
	}
	logw.rotator = r

	backend := btclog.NewBackend(logw)
	level := btclog.LevelInfo
	if debug {
		level = btclog.LevelDebug
	}

	mkLogger := func(subsystem string) btclog.Logger {
		l := backend.Logger(subsystem)
		l.SetLevel(level)
		return l
	}

	wallet.UseLogger(mkLogger("WLLT"))
	storage.UseLogger(mkLogger("STOR"))
	serverconn.UseLogger(mkLogger("SRVC"))
	walletui.UseLogger(mkLogger("WLUI"))

	return nil
}
