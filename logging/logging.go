/*package logging controls how much tpcf reports while it runs. Every mode
writes through a single slog.Logger whose level follows Mode.*/
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"sync"
)

type Flag int

const (
	Nil Flag = iota
	Performance
	Debug
)

// This is handled this way so that the mode doesn't need to be passed to
// literally every function in the project.
var (
	Mode Flag = Performance

	mu     sync.Mutex
	out    io.Writer = os.Stderr
	logger *slog.Logger
)

// String returns the name used for the flag on the command line.
func (f Flag) String() string {
	switch f {
	case Nil: return "nil"
	case Performance: return "performance"
	case Debug: return "debug"
	}
	return fmt.Sprintf("Flag(%d)", int(f))
}

// ParseFlag converts a command line name into a Flag.
func ParseFlag(s string) (Flag, error) {
	switch s {
	case "nil", "quiet": return Nil, nil
	case "performance", "info", "": return Performance, nil
	case "debug": return Debug, nil
	}
	return Nil, fmt.Errorf("The logging mode '%s' isn't recognized. "+
		"Use nil, performance, or debug.", s)
}

func (f Flag) level() slog.Level {
	switch f {
	case Nil: return slog.LevelError
	case Debug: return slog.LevelDebug
	}
	return slog.LevelInfo
}

// SetMode changes the logging mode and rebuilds the shared logger.
func SetMode(f Flag) {
	mu.Lock()
	defer mu.Unlock()
	Mode = f
	logger = nil
}

// SetOutput redirects all future log records to w. A nil w restores stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if w == nil { w = os.Stderr }
	out = w
	logger = nil
}

// Logger returns the shared logger for the current Mode.
func Logger() *slog.Logger {
	mu.Lock()
	defer mu.Unlock()
	if logger == nil {
		h := slog.NewTextHandler(out, &slog.HandlerOptions{
			Level: Mode.level(),
		})
		logger = slog.New(h)
	}
	return logger
}

// Or returns l if it isn't nil and the shared logger otherwise.
func Or(l *slog.Logger) *slog.Logger {
	if l != nil { return l }
	return Logger()
}

// MemString returns a string containing various statistics on the current
// memory usage of tpcf.
func MemString() string {
	ms := runtime.MemStats{}
	runtime.ReadMemStats(&ms)
	return fmt.Sprintf(
		"Alloc - %d MB; Sys - %d MB Integrated - %d MB",
		ms.Alloc>>20, ms.Sys>>20, ms.TotalAlloc>>20,
	)
}
