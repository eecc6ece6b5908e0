package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kjourdan1/scaffctl/internal/config"
	"github.com/kjourdan1/scaffctl/internal/exitcode"
	"github.com/kjourdan1/scaffctl/internal/fsys"
	"github.com/kjourdan1/scaffctl/internal/generator"
	"github.com/kjourdan1/scaffctl/internal/hooks"
	"github.com/kjourdan1/scaffctl/internal/output"
	"github.com/kjourdan1/scaffctl/internal/pathresolve"
	"github.com/kjourdan1/scaffctl/internal/prompt"
	"github.com/kjourdan1/scaffctl/internal/template"
)

var generateCmd = &cobra.Command{
	Use:   "generate [templates-dir]",
	Short: "Render templates into the base output directory",
	Long: `Renders every template under the templates directory (default _templates)
against the render context and writes the results below --out.

The render context is built from the 'vars' section of scaffctl.yaml, then
--vars files (YAML, JSON or TOML), then --set key=value pairs; later layers
win. Nested keys use dots: --set app.name=web.

Templates run in declaration order; templates targeting the same file are
applied one after the other. A failing template does not stop the others.

Exit codes: 0 ok, 3 a template failed, 4 warnings with --strict,
7 a template tried to escape the base dir.`,
	Example: `  scaffctl generate --set name=users --dry-run --diff
  scaffctl generate _templates/component --out ./src --vars vars.yaml
  scaffctl generate --allow-hooks --confirm-hooks`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGenerate,
}

var (
	genSet          []string
	genVarsFiles    []string
	genDryRun       bool
	genDiff         bool
	genWorkers      int
	genTimeout      time.Duration
	genHookTimeout  time.Duration
	genAllowHooks   bool
	genConfirmHooks bool
	genStrict       bool
	genStrictRender bool
)

// hookPrompter answers --confirm-hooks questions; tests replace it.
var hookPrompter prompt.Prompter = prompt.NewSurveyPrompter()

func init() {
	f := generateCmd.Flags()
	f.StringArrayVar(&genSet, "set", nil, "set a render variable (key=value, repeatable)")
	f.StringArrayVar(&genVarsFiles, "vars", nil, "load render variables from a YAML, JSON or TOML file (repeatable)")
	f.BoolVar(&genDryRun, "dry-run", false, "compute results without writing files or running hooks")
	f.BoolVar(&genDiff, "diff", false, "show a diff for every changed file")
	f.IntVar(&genWorkers, "workers", config.DefaultWorkers, "number of files processed in parallel")
	f.DurationVar(&genTimeout, "timeout", 0, "abort the batch after this long (0 disables)")
	f.DurationVar(&genHookTimeout, "hook-timeout", config.DefaultHookTimeout, "kill a shell hook after this long")
	f.BoolVar(&genAllowHooks, "allow-hooks", false, "run the sh hooks declared in frontmatter")
	f.BoolVar(&genConfirmHooks, "confirm-hooks", false, "ask before each shell hook")
	f.BoolVar(&genStrict, "strict", false, "exit non-zero when any warning was produced")
	f.BoolVar(&genStrictRender, "strict-render", false, "fail templates that reference missing variables")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	settings, err := validSettings(args)
	if err != nil {
		return err
	}

	data, err := renderContext(settings)
	if err != nil {
		return exitcode.Wrap(exitcode.Validation, err)
	}

	fs := fsys.NewOsFS()
	templates, err := generator.LoadDir(fs, settings.TemplatesDir, settings.Pattern)
	if err != nil {
		return exitcode.Wrap(exitcode.Validation, output.WrapErrorWithFix(err,
			"loading templates", "Pass the templates directory as an argument or set templates_dir"))
	}

	absBase, err := filepath.Abs(settings.BaseDir)
	if err != nil {
		return fmt.Errorf("resolving base dir: %w", err)
	}

	engine, err := template.NewEngine(template.Options{Strict: settings.StrictRender})
	if err != nil {
		return fmt.Errorf("creating template engine: %w", err)
	}
	deps := generator.Deps{
		FS:       fs,
		Renderer: engine,
		Runner:   hooks.NewShellRunner(settings.Shell),
		Resolve:  pathresolve.ResolveOnDisk,
	}
	if genConfirmHooks {
		deps.Approve = prompt.HookApprover(hookPrompter)
	}

	opts := generator.Options{
		BaseDir:     absBase,
		DryRun:      genDryRun,
		Diff:        genDiff,
		Workers:     settings.Workers,
		Timeout:     settings.Timeout,
		HookTimeout: settings.HookTimeout,
		AllowHooks:  settings.AllowHooks,
		HookDir:     settings.HookDir,
		HookEnv:     map[string]string{"SCAFFCTL_BASE_DIR": absBase},
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	output.Step(fmt.Sprintf("Generating %d template(s) from %s into %s", len(templates), settings.TemplatesDir, settings.BaseDir))
	start := time.Now()
	var report generator.Report
	if genConfirmHooks {
		report = generator.New(deps).Generate(ctx, templates, data, opts)
	} else {
		sp := output.NewSpinner("rendering templates")
		sp.Start()
		report = generator.New(deps).Generate(ctx, templates, data, opts)
		sp.Stop()
	}
	elapsed := time.Since(start)

	code, reason := generateExitCode(report)
	if jsonOutput {
		payload := generatePayload(report, absBase, elapsed)
		if code == exitcode.OK {
			output.JSON(payload)
		} else {
			output.JSONFailure(payload, reason)
		}
	} else {
		printReport(report, absBase, elapsed)
	}

	if code != exitcode.OK {
		return exitcode.Wrap(code, errors.New(reason))
	}
	return nil
}

// renderContext layers config vars, --vars files and --set pairs.
func renderContext(settings *config.Settings) (map[string]any, error) {
	layers := []map[string]any{settings.Vars}
	for _, path := range genVarsFiles {
		vars, err := config.LoadVars(path)
		if err != nil {
			return nil, output.WrapErrorWithFix(err, "loading vars file "+path, "Use a .yaml, .yml, .json or .toml file")
		}
		layers = append(layers, vars)
	}
	set, err := config.ParseSet(genSet)
	if err != nil {
		return nil, output.WrapErrorWithFix(err, "parsing --set", "Use --set key=value")
	}
	layers = append(layers, set)
	return config.MergeVars(layers...)
}

func generateExitCode(report generator.Report) (int, string) {
	for _, res := range report.Results {
		if res.Failed() && res.Error.Kind == generator.KindPathSecurity {
			return exitcode.SecurityBlock, fmt.Sprintf("template %s targets a path outside the base dir", res.Template)
		}
	}
	if !report.Success {
		return exitcode.Generation, fmt.Sprintf("%d of %d template(s) failed", len(report.Errors()), len(report.Results))
	}
	if genStrict && report.Warnings() > 0 {
		return exitcode.Warnings, fmt.Sprintf("%d warning(s) with --strict", report.Warnings())
	}
	return exitcode.OK, ""
}

func generatePayload(report generator.Report, base string, elapsed time.Duration) map[string]interface{} {
	changed, skipped, unchanged, errored := report.Counts()
	return map[string]interface{}{
		"baseDir":  base,
		"dryRun":   genDryRun,
		"success":  report.Success,
		"results":  report.Results,
		"written":  report.FilesWritten(),
		"warnings": report.Warnings(),
		"counts": map[string]int{
			"changed":   changed,
			"skipped":   skipped,
			"unchanged": unchanged,
			"errored":   errored,
		},
		"durationMs": elapsed.Milliseconds(),
	}
}

func printReport(report generator.Report, base string, elapsed time.Duration) {
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)
	red := color.New(color.FgRed)
	muted := color.New(color.Faint)

	for _, res := range report.Results {
		target := res.Template
		if res.Path != "" {
			target = pathresolve.Rel(base, res.Path)
		}
		switch {
		case res.Failed():
			fmt.Fprintf(os.Stdout, "  %s %s  %s\n", red.Sprint("✖ error    "), res.Template, red.Sprint(res.Error.Error()))
		case res.Skipped:
			fmt.Fprintf(os.Stdout, "  %s %s  %s\n", muted.Sprint("↷ skipped  "), res.Template, muted.Sprint(res.SkipReason))
		case res.Changed && genDryRun:
			fmt.Fprintf(os.Stdout, "  %s %s (%s)\n", yellow.Sprint("~ would write"), target, res.Mode)
		case res.Changed:
			fmt.Fprintf(os.Stdout, "  %s %s (%s)\n", green.Sprint("✔ written  "), target, res.Mode)
		default:
			fmt.Fprintf(os.Stdout, "  %s %s\n", muted.Sprint("= unchanged"), target)
		}
		for _, w := range res.Warnings {
			fmt.Fprintf(os.Stdout, "      %s %s\n", yellow.Sprint("⚠"), w)
		}
		if res.Diff != "" {
			fmt.Fprint(os.Stdout, indent(output.ColorizeDiff(res.Diff), "      "))
		}
	}

	changed, skipped, unchanged, errored := report.Counts()
	verb := "changed"
	if genDryRun {
		verb = "would change"
	}
	summary := fmt.Sprintf("%d %s, %d skipped, %d unchanged, %d failed in %s",
		changed, verb, skipped, unchanged, errored, elapsed.Round(time.Millisecond))
	switch {
	case errored > 0:
		output.Fail(summary)
	case report.Warnings() > 0:
		output.Warn(fmt.Sprintf("%s (%d warning(s))", summary, report.Warnings()))
	default:
		output.Success(summary)
	}
}

func indent(text, prefix string) string {
	lines := strings.SplitAfter(text, "\n")
	var sb strings.Builder
	for _, line := range lines {
		if line == "" {
			continue
		}
		sb.WriteString(prefix + line)
	}
	return sb.String()
}
