package trace

import (
	"io"
	"log"
	"os"
)

// PrintDebugInfo toggles verbose tracer logging (pass counts, retrace
// decisions) to stderr.
var PrintDebugInfo = false

var logger *log.Logger

func init() {
	w := io.Discard
	if PrintDebugInfo {
		w = os.Stderr
	}
	logger = log.New(w, "trace: ", log.Lshortfile)
}

// SetDebugMode toggles PrintDebugInfo and rebuilds the package logger to
// match, for callers (cmd/jbcdump) that only decide at flag-parse time.
func SetDebugMode(enabled bool) {
	PrintDebugInfo = enabled
	w := io.Discard
	if enabled {
		w = os.Stderr
	}
	logger = log.New(w, "trace: ", log.Lshortfile)
}
