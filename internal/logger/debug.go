package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

var (
	debugMu  sync.Mutex
	verbose  bool
	debugOut io.Writer = os.Stderr
)

// SetVerbose turns the debug trace on or off.
func SetVerbose(v bool) {
	debugMu.Lock()
	defer debugMu.Unlock()
	verbose = v
}

// Verbose reports whether the debug trace is enabled.
func Verbose() bool {
	debugMu.Lock()
	defer debugMu.Unlock()
	return verbose
}

// SetDebugOutput redirects the debug trace and returns the previous writer.
// The TUI points it at a file so trace lines do not tear the screen.
func SetDebugOutput(w io.Writer) io.Writer {
	debugMu.Lock()
	defer debugMu.Unlock()
	prev := debugOut
	if w == nil {
		w = io.Discard
	}
	debugOut = w
	return prev
}

// Debugf writes one trace line when verbose mode is on.
func Debugf(format string, args ...any) {
	debugMu.Lock()
	defer debugMu.Unlock()
	if !verbose {
		return
	}
	line := fmt.Sprintf(format, args...)
	fmt.Fprintf(debugOut, "[DEBUG] %s %s\n", time.Now().Format("15:04:05.000"), strings.TrimRight(line, "\n"))
}
