// Package doctor implements environment checks for scaffctl.
//
// It verifies that the hook shell can be started, that the base output
// directory is writable, that the templates directory holds readable
// templates and that the resolved settings pass validation.
package doctor

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/spf13/afero"

	"github.com/kjourdan1/scaffctl/internal/config"
	"github.com/kjourdan1/scaffctl/internal/fsys"
	"github.com/kjourdan1/scaffctl/internal/generator"
)

// Status represents the outcome of a single check.
type Status string

const (
	StatusPass Status = "pass"
	StatusFail Status = "fail"
	StatusWarn Status = "warn"
	StatusSkip Status = "skip"
)

// CheckResult is the outcome of running a single check.
type CheckResult struct {
	Name    string `json:"name"`
	Status  Status `json:"status"`
	Message string `json:"message"`
	Fix     string `json:"fix,omitempty"`
}

// Env is what the checks inspect.
type Env struct {
	Settings *config.Settings
	FS       afero.Fs
	Exec     CmdExecutor
}

// Check defines a single environment check.
type Check struct {
	Name     string
	Category string // "tool", "config", "filesystem"
	Critical bool   // if true, failure => non-zero exit
	Run      func(ctx context.Context, env Env) CheckResult
}

// CmdExecutor abstracts command execution for testability.
type CmdExecutor interface {
	// Run executes a command and returns combined stdout+stderr output.
	Run(ctx context.Context, name string, args ...string) (string, error)
}

type realExecutor struct{}

func (r *realExecutor) Run(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.CombinedOutput()
	return strings.TrimSpace(string(out)), err
}

// NewRealExecutor returns a CmdExecutor backed by os/exec.
func NewRealExecutor() CmdExecutor {
	return &realExecutor{}
}

// Summary holds the aggregated results of all checks.
type Summary struct {
	Results    []CheckResult `json:"results"`
	TotalPass  int           `json:"totalPass"`
	TotalFail  int           `json:"totalFail"`
	TotalWarn  int           `json:"totalWarn"`
	TotalSkip  int           `json:"totalSkip"`
	HasFailure bool          `json:"hasFailure"`

	categories []string
}

// RunAll executes all checks and returns a summary.
func RunAll(ctx context.Context, env Env) Summary {
	checks := AllChecks()
	results := make([]CheckResult, 0, len(checks))
	for _, c := range checks {
		results = append(results, c.Run(ctx, env))
	}
	return buildSummary(results, checks)
}

func buildSummary(results []CheckResult, checks []Check) Summary {
	s := Summary{Results: results}
	for i, r := range results {
		s.categories = append(s.categories, checks[i].Category)
		switch r.Status {
		case StatusPass:
			s.TotalPass++
		case StatusFail:
			s.TotalFail++
			if checks[i].Critical {
				s.HasFailure = true
			}
		case StatusWarn:
			s.TotalWarn++
		case StatusSkip:
			s.TotalSkip++
		}
	}
	return s
}

// AllChecks returns the ordered list of checks.
func AllChecks() []Check {
	return []Check{
		checkShell(),
		checkConfig(),
		checkBaseDir(),
		checkTemplatesDir(),
	}
}

func checkShell() Check {
	return Check{
		Name:     "shell",
		Category: "tool",
		Critical: false, // only needed when hooks are enabled
		Run: func(ctx context.Context, env Env) CheckResult {
			shell := env.Settings.Shell
			out, err := env.Exec.Run(ctx, shell, "-c", "echo ok")
			if err != nil || strings.TrimSpace(out) != "ok" {
				status := StatusWarn
				if env.Settings.AllowHooks {
					status = StatusFail
				}
				return CheckResult{
					Name:    "shell",
					Status:  status,
					Message: fmt.Sprintf("hook shell %q cannot be started", shell),
					Fix:     "Install the shell or set 'shell' in scaffctl.yaml",
				}
			}
			return CheckResult{
				Name:    "shell",
				Status:  StatusPass,
				Message: fmt.Sprintf("hook shell %s available", shell),
			}
		},
	}
}

func checkConfig() Check {
	return Check{
		Name:     "config",
		Category: "config",
		Critical: true,
		Run: func(_ context.Context, env Env) CheckResult {
			res, err := config.Validate(env.Settings)
			if err != nil {
				return CheckResult{Name: "config", Status: StatusFail, Message: err.Error()}
			}
			if !res.Valid {
				return CheckResult{
					Name:    "config",
					Status:  StatusFail,
					Message: "settings are invalid: " + res.Summary(),
					Fix:     "Fix scaffctl.yaml or the SCAFFCTL_* environment variables",
				}
			}
			return CheckResult{Name: "config", Status: StatusPass, Message: "settings are valid"}
		},
	}
}

func checkBaseDir() Check {
	return Check{
		Name:     "base-dir",
		Category: "filesystem",
		Critical: true,
		Run: func(_ context.Context, env Env) CheckResult {
			dir := env.Settings.BaseDir
			info, err := env.FS.Stat(dir)
			if err != nil {
				return CheckResult{
					Name:    "base-dir",
					Status:  StatusWarn,
					Message: fmt.Sprintf("base dir %s does not exist yet", dir),
					Fix:     "It is created on the first overwrite; create it now to use inject modes",
				}
			}
			if !info.IsDir() {
				return CheckResult{
					Name:    "base-dir",
					Status:  StatusFail,
					Message: fmt.Sprintf("base dir %s is not a directory", dir),
					Fix:     "Point --out or base_dir at a directory",
				}
			}
			probe, err := afero.TempFile(env.FS, dir, ".scaffctl-doctor-*")
			if err != nil {
				return CheckResult{
					Name:    "base-dir",
					Status:  StatusFail,
					Message: fmt.Sprintf("base dir %s is not writable: %v", dir, err),
					Fix:     "Check the directory permissions",
				}
			}
			name := probe.Name()
			_ = probe.Close()
			_ = env.FS.Remove(name)
			return CheckResult{
				Name:    "base-dir",
				Status:  StatusPass,
				Message: fmt.Sprintf("base dir %s is writable", dir),
			}
		},
	}
}

func checkTemplatesDir() Check {
	return Check{
		Name:     "templates-dir",
		Category: "filesystem",
		Critical: true,
		Run: func(_ context.Context, env Env) CheckResult {
			dir := env.Settings.TemplatesDir
			templates, err := generator.LoadDir(fsys.New(env.FS), dir, env.Settings.Pattern)
			if err != nil {
				return CheckResult{
					Name:    "templates-dir",
					Status:  StatusFail,
					Message: fmt.Sprintf("cannot read templates from %s: %v", dir, err),
					Fix:     "Pass the templates directory as an argument or set templates_dir",
				}
			}
			if len(templates) == 0 {
				return CheckResult{
					Name:    "templates-dir",
					Status:  StatusWarn,
					Message: fmt.Sprintf("no templates in %s match %s", dir, env.Settings.Pattern),
					Fix:     "Check --pattern or the template file suffixes",
				}
			}
			return CheckResult{
				Name:    "templates-dir",
				Status:  StatusPass,
				Message: fmt.Sprintf("%d template(s) found in %s", len(templates), dir),
			}
		},
	}
}
