package frontmatter

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

func stringField(fields map[string]any, name string) string {
	s, _ := fields[name].(string)
	return s
}

func boolField(fields map[string]any, name string) bool {
	b, _ := fields[name].(bool)
	return b
}

func intField(fields map[string]any, name string) (int, bool) {
	switch v := fields[name].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case uint64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

// parseChmod reads an octal permission string such as "755" or "0644". TOML
// integers are read digit by digit, so chmod = 755 means 0o755.
func parseChmod(v any) (os.FileMode, error) {
	var raw string
	switch typed := v.(type) {
	case string:
		raw = typed
	case int64:
		raw = strconv.FormatInt(typed, 10)
	case int:
		raw = strconv.Itoa(typed)
	default:
		return 0, fmt.Errorf("must be an octal string such as \"755\"")
	}

	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(strings.TrimPrefix(raw, "0o"), "0O")
	if !chmodRe.MatchString(raw) {
		return 0, fmt.Errorf("invalid octal permission %q", raw)
	}

	n, err := strconv.ParseUint(raw, 8, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid octal permission %q: %w", raw, err)
	}
	if n > 0o7777 {
		return 0, fmt.Errorf("permission %q out of range", raw)
	}
	return fileModeFromUnix(uint32(n)), nil
}

// fileModeFromUnix maps setuid/setgid/sticky bits onto their os.FileMode flags.
func fileModeFromUnix(n uint32) os.FileMode {
	mode := os.FileMode(n & 0o777)
	if n&0o4000 != 0 {
		mode |= os.ModeSetuid
	}
	if n&0o2000 != 0 {
		mode |= os.ModeSetgid
	}
	if n&0o1000 != 0 {
		mode |= os.ModeSticky
	}
	return mode
}
