package cmd

import (
	"errors"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/kjourdan1/scaffctl/internal/doctor"
	"github.com/kjourdan1/scaffctl/internal/exitcode"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor [templates-dir]",
	Short: "Check that the environment is ready to generate",
	Long: `Verify that the hook shell can be started, the base output directory is
writable, the templates directory holds matching templates and the
resolved settings are valid.

Each check reports ✅ (pass), ❌ (fail), or ⚠️ (warning) with an
actionable fix suggestion.

Exit code 0 if all critical checks pass, 1 otherwise.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	// Invalid settings are reported by the config check, not rejected here.
	settings, err := loadSettings(args)
	if err != nil {
		return err
	}

	env := doctor.Env{
		Settings: settings,
		FS:       afero.NewOsFs(),
		Exec:     doctor.NewRealExecutor(),
	}
	summary := doctor.RunAll(cmd.Context(), env)
	doctor.PrintResults(summary)

	if summary.HasFailure {
		return exitcode.Wrap(exitcode.Generic, errors.New("doctor found failing checks"))
	}
	return nil
}
