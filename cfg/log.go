package cfg

import (
	"io"
	"log"
	"os"
)

var PrintDebugInfo = false

var logger *log.Logger

func init() {
	w := io.Discard
	if PrintDebugInfo {
		w = os.Stderr
	}
	logger = log.New(w, "cfg: ", log.Lshortfile)
}

// SetDebugMode toggles PrintDebugInfo and rebuilds the package logger to
// match, for callers (cmd/jbcdump) that only decide at flag-parse time.
func SetDebugMode(enabled bool) {
	PrintDebugInfo = enabled
	w := io.Discard
	if enabled {
		w = os.Stderr
	}
	logger = log.New(w, "cfg: ", log.Lshortfile)
}
