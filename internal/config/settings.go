// Package config holds scaffctl settings and render-context loading.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

// AppName is used for the config file name, env prefix and XDG directories.
const AppName = "scaffctl"

// Settings is the resolved configuration of one invocation.
type Settings struct {
	BaseDir      string         `mapstructure:"base_dir" json:"base_dir"`
	TemplatesDir string         `mapstructure:"templates_dir" json:"templates_dir"`
	Pattern      string         `mapstructure:"pattern" json:"pattern"`
	Workers      int            `mapstructure:"workers" json:"workers"`
	Timeout      time.Duration  `mapstructure:"timeout" json:"timeout"`
	HookTimeout  time.Duration  `mapstructure:"hook_timeout" json:"hook_timeout"`
	AllowHooks   bool           `mapstructure:"allow_hooks" json:"allow_hooks"`
	Shell        string         `mapstructure:"shell" json:"shell"`
	HookDir      string         `mapstructure:"hook_dir" json:"hook_dir"`
	StrictRender bool           `mapstructure:"strict_render" json:"strict_render"`
	Vars         map[string]any `mapstructure:"vars" json:"vars"`
}

// ConfigDir returns the XDG config directory searched for scaffctl.yaml.
func ConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// SetupViper configures v to read scaffctl.yaml (or cfgFile) and SCAFFCTL_*
// environment variables.
func SetupViper(v *viper.Viper, cfgFile string) {
	SetDefaults(v)
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(AppName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(ConfigDir())
	}
	v.SetEnvPrefix("SCAFFCTL")
	v.AutomaticEnv()
}

// ReadConfig reads the config file. A missing file is not an error unless
// it was named explicitly.
func ReadConfig(v *viper.Viper, explicit bool) error {
	err := v.ReadInConfig()
	if err == nil {
		return nil
	}
	var notFound viper.ConfigFileNotFoundError
	if !explicit && errors.As(err, &notFound) {
		return nil
	}
	return fmt.Errorf("reading config file: %w", err)
}

// Load decodes the settings held by v and applies defaults.
func Load(v *viper.Viper) (*Settings, error) {
	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("decoding settings: %w", err)
	}

	// viper folds keys to lower case; vars keep the case of the file.
	// ConfigFileUsed reports an explicit path even when nothing was read.
	if used := v.ConfigFileUsed(); used != "" && v.InConfig("vars") {
		raw, err := LoadVars(used)
		if err != nil {
			return nil, err
		}
		if vars, ok := raw["vars"].(map[string]any); ok {
			s.Vars = vars
		}
	}

	ApplyDefaults(&s)
	return &s, nil
}
