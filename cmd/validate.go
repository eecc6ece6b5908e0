package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kjourdan1/scaffctl/internal/condition"
	"github.com/kjourdan1/scaffctl/internal/exitcode"
	"github.com/kjourdan1/scaffctl/internal/frontmatter"
	"github.com/kjourdan1/scaffctl/internal/fsys"
	"github.com/kjourdan1/scaffctl/internal/generator"
	"github.com/kjourdan1/scaffctl/internal/output"
	"github.com/kjourdan1/scaffctl/internal/pathresolve"
)

var validateCmd = &cobra.Command{
	Use:   "validate [templates-dir]",
	Short: "Check templates without writing anything",
	Long: `Parses every template and reports:

  1. frontmatter syntax, unknown keys and conflicting write modes
  2. skipIf expressions that do not compile
  3. static 'to' paths that escape the base dir

Used in CI as the first gate before generate.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

var (
	validateStrict bool
)

type templateCheck struct {
	Template string   `json:"template"`
	Status   string   `json:"status"` // pass, warning, error
	Mode     string   `json:"mode,omitempty"`
	To       string   `json:"to,omitempty"`
	Messages []string `json:"messages,omitempty"`
}

func init() {
	validateCmd.Flags().BoolVar(&validateStrict, "strict", false, "fail on warnings")

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	settings, err := validSettings(args)
	if err != nil {
		return err
	}
	var templates []generator.TemplateFile
	err = output.WithSpinner("loading templates", func() error {
		var loadErr error
		templates, loadErr = generator.LoadDir(fsys.NewOsFS(), settings.TemplatesDir, settings.Pattern)
		return loadErr
	})
	if err != nil {
		return exitcode.Wrap(exitcode.Validation, output.WrapErrorWithFix(err,
			"loading templates", "Pass the templates directory as an argument or set templates_dir"))
	}
	absBase, err := filepath.Abs(settings.BaseDir)
	if err != nil {
		return fmt.Errorf("resolving base dir: %w", err)
	}

	checks := make([]templateCheck, 0, len(templates))
	errorsCount, warningsCount := 0, 0
	for _, tf := range templates {
		c := checkTemplate(tf, absBase)
		switch c.Status {
		case "error":
			errorsCount++
		case "warning":
			warningsCount++
		}
		checks = append(checks, c)
	}

	if jsonOutput {
		output.JSON(map[string]interface{}{
			"templatesDir": settings.TemplatesDir,
			"checks":       checks,
			"errors":       errorsCount,
			"warnings":     warningsCount,
		})
	} else {
		fmt.Fprintf(os.Stderr, "🔎 Validating: %s (%s)\n\n", settings.TemplatesDir, settings.Pattern)
		for _, c := range checks {
			icon := "✅"
			if c.Status == "warning" {
				icon = "⚠️"
			}
			if c.Status == "error" {
				icon = "❌"
			}
			if output.NoColor() {
				icon = "[" + strings.ToUpper(c.Status) + "]"
			}
			fmt.Fprintf(os.Stderr, "  %s %s", icon, c.Template)
			if c.Mode != "" {
				fmt.Fprintf(os.Stderr, " → %s (%s)", c.To, c.Mode)
			}
			fmt.Fprintln(os.Stderr)
			for _, m := range c.Messages {
				fmt.Fprintf(os.Stderr, "      %s\n", m)
			}
		}
		fmt.Fprintln(os.Stderr)
	}

	if errorsCount > 0 {
		return exitcode.Wrap(exitcode.Validation, fmt.Errorf("%d template error(s) found", errorsCount))
	}
	if warningsCount > 0 && validateStrict {
		return exitcode.Wrap(exitcode.Warnings, fmt.Errorf("%d warning(s) found (strict mode)", warningsCount))
	}

	if !jsonOutput {
		color.New(color.FgGreen, color.Bold).Fprintf(os.Stderr, "✅ Validation passed (%d templates, %d warnings)\n", len(checks), warningsCount)
	}
	return nil
}

func checkTemplate(tf generator.TemplateFile, base string) templateCheck {
	c := templateCheck{Template: tf.Name, Status: "pass"}
	doc, err := frontmatter.Parse(tf.Content, tf.DefaultTo)
	if err != nil {
		c.Status = "error"
		c.Messages = append(c.Messages, err.Error())
		return c
	}
	fm := doc.Frontmatter
	c.Mode = string(fm.Mode.Kind())
	c.To = fm.To

	if _, err := condition.Compile(fm.SkipIf); err != nil {
		c.Status = "error"
		c.Messages = append(c.Messages, "skipIf: "+err.Error())
	}
	if !strings.Contains(fm.To, "{{") {
		if _, err := pathresolve.ResolveOnDisk(base, fm.To); err != nil {
			c.Status = "error"
			var secErr *pathresolve.SecurityError
			if errors.As(err, &secErr) {
				c.Messages = append(c.Messages, "to: escapes the base dir: "+err.Error())
			} else {
				c.Messages = append(c.Messages, "to: "+err.Error())
			}
		}
	}
	if len(doc.Warnings) > 0 {
		if c.Status == "pass" {
			c.Status = "warning"
		}
		c.Messages = append(c.Messages, doc.Warnings...)
	}
	return c
}
