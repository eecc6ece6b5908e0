// Package journal records one JSON line per scaffctl invocation under the
// XDG state directory.
package journal

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
)

// EnvStateDir overrides the directory holding the journal.
const EnvStateDir = "SCAFFCTL_STATE_DIR"

const fileName = "journal.log"

type Event struct {
	Timestamp     string            `json:"timestamp"`
	Operation     string            `json:"operation"`
	Args          []string          `json:"args"`
	Result        string            `json:"result"`
	ExitCode      int               `json:"exitCode"`
	DurationMs    int64             `json:"durationMs"`
	CorrelationID string            `json:"correlationId"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

func BuildEvent(args []string, result string, exitCode int, duration time.Duration) Event {
	op, meta := inferFromArgs(args)
	if len(meta) == 0 {
		meta = nil
	}
	return Event{
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		Operation:     op,
		Args:          args,
		Result:        result,
		ExitCode:      exitCode,
		DurationMs:    duration.Milliseconds(),
		CorrelationID: fmt.Sprintf("%d", time.Now().UTC().UnixNano()),
		Metadata:      meta,
	}
}

func (e Event) MetadataValue(key string) string {
	if e.Metadata == nil {
		return ""
	}
	return e.Metadata[key]
}

// Path returns the journal file location.
func Path() string {
	if dir := os.Getenv(EnvStateDir); dir != "" {
		return filepath.Join(dir, fileName)
	}
	return filepath.Join(xdg.StateHome, "scaffctl", fileName)
}

func Write(event Event) error {
	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}
	line, err := json.Marshal(event)
	if err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.Write(append(line, '\n'))
	return err
}

// Read returns every event in the journal. Malformed lines are skipped.
func Read() ([]Event, error) {
	file, err := os.Open(Path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	var out []Event
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var event Event
		if err := json.Unmarshal([]byte(line), &event); err == nil {
			out = append(out, event)
		}
	}
	return out, scanner.Err()
}

// Tail filters events by operation (empty matches all) and keeps the last limit.
func Tail(events []Event, operation string, limit int) []Event {
	filtered := make([]Event, 0, len(events))
	for _, event := range events {
		if operation != "" && event.Operation != operation {
			continue
		}
		filtered = append(filtered, event)
	}
	if limit > 0 && len(filtered) > limit {
		filtered = filtered[len(filtered)-limit:]
	}
	return filtered
}

func inferFromArgs(args []string) (operation string, meta map[string]string) {
	operation = "root"
	meta = map[string]string{}
	valueFlags := map[string]bool{
		"--out": true, "-o": true, "--config": true, "--pattern": true, "--vars": true,
		"--set": true, "--workers": true, "--timeout": true, "--hook-timeout": true, "--limit": true,
		"--operation": true,
	}

	var positional []string
	for i := 1; i < len(args); i++ {
		arg := args[i]
		if strings.HasPrefix(arg, "-") {
			name, value, hasValue := strings.Cut(arg, "=")
			if !hasValue && valueFlags[name] && i+1 < len(args) {
				value = args[i+1]
				i++
			}
			switch name {
			case "--out", "-o":
				meta["baseDir"] = value
			case "--dry-run":
				meta["dryRun"] = "true"
			}
			continue
		}
		positional = append(positional, arg)
	}
	if len(positional) > 0 {
		operation = positional[0]
	}
	if len(positional) > 1 {
		meta["templatesDir"] = positional[1]
	}
	return operation, meta
}
