package output

import (
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/log"
)

var (
	logger   *log.Logger
	loggerMu sync.Mutex
	logOut   io.Writer
	logLevel = log.InfoLevel

	// JSONMode silences text output; commands emit a JSON envelope instead.
	JSONMode bool

	// Verbose enables debug-level output.
	Verbose bool
)

// Init configures the global logger. The root command calls it before
// every subcommand runs.
func Init(verbose bool, jsonMode bool) {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	Verbose = verbose
	JSONMode = jsonMode
	jsonWritten = false
	logLevel = log.InfoLevel
	if verbose {
		logLevel = log.DebugLevel
	}
	logger = newLogger(writer())
}

// SetOutput redirects text output. A nil writer restores stderr.
func SetOutput(w io.Writer) {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	logOut = w
	logger = newLogger(writer())
}

func writer() io.Writer {
	if logOut != nil {
		return logOut
	}
	return os.Stderr
}

func newLogger(w io.Writer) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: false,
		Level:           logLevel,
	})
}

func getLogger() *log.Logger {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	if logger == nil {
		logger = newLogger(writer())
	}
	return logger
}

func Info(msg string, keyvals ...interface{}) {
	if JSONMode {
		return
	}
	getLogger().Info(msg, keyvals...)
}

func Warn(msg string, keyvals ...interface{}) {
	if JSONMode {
		return
	}
	getLogger().Warn(msg, keyvals...)
}

func Error(msg string, keyvals ...interface{}) {
	if JSONMode {
		return
	}
	getLogger().Error(msg, keyvals...)
}

// Debug is only visible with -v.
func Debug(msg string, keyvals ...interface{}) {
	if JSONMode {
		return
	}
	getLogger().Debug(msg, keyvals...)
}

func Success(msg string) {
	if JSONMode {
		return
	}
	getLogger().Info(prefix("[OK] ", "✅ ") + msg)
}

func Fail(msg string) {
	if JSONMode {
		return
	}
	getLogger().Error(prefix("[FAIL] ", "❌ ") + msg)
}

// Step announces a phase of a longer command.
func Step(msg string) {
	if JSONMode {
		return
	}
	getLogger().Info(prefix(">> ", "▸ ") + msg)
}

func prefix(plain, fancy string) string {
	if NoColor() {
		return plain
	}
	return fancy
}
