// Package cmd implements the Cobra-based CLI for scaffctl.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/kjourdan1/scaffctl/internal/config"
	"github.com/kjourdan1/scaffctl/internal/exitcode"
	"github.com/kjourdan1/scaffctl/internal/output"
)

var (
	cfgFile    string
	verbosity  int
	jsonOutput bool // --json flag for machine-readable output
	baseDir    string
	pattern    string

	// settingsViper is rebuilt by initConfig on every Execute.
	settingsViper *viper.Viper
	configErr     error
)

var rootCmd = &cobra.Command{
	Use:   "scaffctl",
	Short: "Frontmatter-driven code scaffolding",
	Long: `scaffctl renders a directory of templates into a target tree.

Each template starts with a YAML (---) or TOML (+++) frontmatter block that
says where its body goes and how it is written:

  to:            destination, relative to the base dir (templated)
  after/before:  inject next to the first line containing an anchor
  append/prepend, lineAt: inject at the end, start or a 1-based line
  skipIf:        condition over the render context, e.g. "!withTests"
  unlessExists:  leave existing files alone
  chmod, sh:     post-write permission and shell hooks

Injections are idempotent: running the same batch twice changes nothing.

Workflow: validate → generate --dry-run --diff → generate`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		output.Init(verbosity > 0, jsonOutput)
		if configErr != nil {
			return exitcode.Wrap(exitcode.Validation, output.WrapErrorWithFix(configErr,
				"loading configuration", "Check scaffctl.yaml or the file passed with --config"))
		}
		if used := settingsViper.ConfigFileUsed(); used != "" {
			output.Debug("using config file", "path", used)
		}
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./scaffctl.yaml, then $XDG_CONFIG_HOME/scaffctl/scaffctl.yaml)")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "increase verbosity (-v shows stage transitions)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output results as JSON (machine-readable)")
	rootCmd.PersistentFlags().StringVarP(&baseDir, "out", "o", config.DefaultBaseDir, "base output directory")
	rootCmd.PersistentFlags().StringVar(&pattern, "pattern", config.DefaultPattern, "glob selecting template files inside the templates dir")
}

func initConfig() {
	settingsViper = viper.New()
	config.SetupViper(settingsViper, cfgFile)

	bind := func(key string, flags *pflag.FlagSet, name string) {
		if f := flags.Lookup(name); f != nil {
			_ = settingsViper.BindPFlag(key, f)
		}
	}
	bind("base_dir", rootCmd.PersistentFlags(), "out")
	bind("pattern", rootCmd.PersistentFlags(), "pattern")
	bind("workers", generateCmd.Flags(), "workers")
	bind("timeout", generateCmd.Flags(), "timeout")
	bind("hook_timeout", generateCmd.Flags(), "hook-timeout")
	bind("allow_hooks", generateCmd.Flags(), "allow-hooks")
	bind("strict_render", generateCmd.Flags(), "strict-render")

	configErr = config.ReadConfig(settingsViper, cfgFile != "")
}

// loadSettings resolves the settings of this invocation. A positional
// templates directory overrides templates_dir.
func loadSettings(args []string) (*config.Settings, error) {
	s, err := config.Load(settingsViper)
	if err != nil {
		return nil, exitcode.Wrap(exitcode.Validation, err)
	}
	if len(args) > 0 {
		s.TemplatesDir = args[0]
	}
	return s, nil
}

// validSettings loads the settings and rejects invalid ones.
func validSettings(args []string) (*config.Settings, error) {
	s, err := loadSettings(args)
	if err != nil {
		return nil, err
	}
	res, err := config.Validate(s)
	if err != nil {
		return nil, exitcode.Wrap(exitcode.Validation, err)
	}
	if !res.Valid {
		return nil, exitcode.Wrap(exitcode.Validation, output.NewErrorWithFix(
			"invalid settings: "+res.Summary(), "Fix scaffctl.yaml, the SCAFFCTL_* environment or the flags"))
	}
	return s, nil
}
