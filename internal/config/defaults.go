package config

import (
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultBaseDir      = "."
	DefaultTemplatesDir = "_templates"
	DefaultPattern      = "**/*.t"
	DefaultWorkers      = 4
	DefaultHookTimeout  = 30 * time.Second
	DefaultShell        = "sh"
)

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("base_dir", DefaultBaseDir)
	v.SetDefault("templates_dir", DefaultTemplatesDir)
	v.SetDefault("pattern", DefaultPattern)
	v.SetDefault("workers", DefaultWorkers)
	v.SetDefault("timeout", time.Duration(0))
	v.SetDefault("hook_timeout", DefaultHookTimeout)
	v.SetDefault("allow_hooks", false)
	v.SetDefault("shell", DefaultShell)
	v.SetDefault("strict_render", false)
}

// ApplyDefaults fills in zero-valued fields. It is called after decoding and
// before validation.
func ApplyDefaults(s *Settings) {
	if s.BaseDir == "" {
		s.BaseDir = DefaultBaseDir
	}
	if s.TemplatesDir == "" {
		s.TemplatesDir = DefaultTemplatesDir
	}
	if s.Pattern == "" {
		s.Pattern = DefaultPattern
	}
	if s.Workers == 0 {
		s.Workers = DefaultWorkers
	}
	if s.HookTimeout == 0 {
		s.HookTimeout = DefaultHookTimeout
	}
	if s.Shell == "" {
		s.Shell = DefaultShell
	}
	if s.Vars == nil {
		s.Vars = map[string]any{}
	}
}
