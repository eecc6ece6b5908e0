package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kjourdan1/scaffctl/internal/config"
	"github.com/kjourdan1/scaffctl/internal/exitcode"
	"github.com/kjourdan1/scaffctl/internal/frontmatter"
	"github.com/kjourdan1/scaffctl/internal/fsys"
)

// schemas maps the export target to its embedded JSON Schema.
var schemas = map[string]func() []byte{
	"frontmatter": frontmatter.Schema,
	"settings":    config.GetSchema,
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Export the JSON Schemas scaffctl validates against",
	Long: `Schema tooling for template frontmatter and scaffctl.yaml.

Examples:
  scaffctl schema export frontmatter                  # print to stdout
  scaffctl schema export settings --file schema.json  # write to a file`,
}

var schemaExportCmd = &cobra.Command{
	Use:       "export <frontmatter|settings>",
	Short:     "Export an embedded JSON Schema",
	Args:      cobra.ExactArgs(1),
	ValidArgs: schemaNames(),
	RunE:      runSchemaExport,
}

var schemaOutputFile string

func init() {
	schemaExportCmd.Flags().StringVarP(&schemaOutputFile, "file", "f", "", "write schema to file instead of stdout")

	schemaCmd.AddCommand(schemaExportCmd)
	rootCmd.AddCommand(schemaCmd)
}

func schemaNames() []string {
	names := make([]string, 0, len(schemas))
	for name := range schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func runSchemaExport(cmd *cobra.Command, args []string) error {
	get, ok := schemas[args[0]]
	if !ok {
		return exitcode.Wrap(exitcode.Validation,
			fmt.Errorf("unknown schema %q (want one of: %s)", args[0], strings.Join(schemaNames(), ", ")))
	}
	data := get()
	if len(data) == 0 {
		return exitcode.Wrap(exitcode.Validation, fmt.Errorf("no embedded %s schema available", args[0]))
	}

	if schemaOutputFile == "" {
		fmt.Fprintln(os.Stdout, string(data))
		return nil
	}

	outPath, err := filepath.Abs(schemaOutputFile)
	if err != nil {
		return exitcode.Wrap(exitcode.Validation, err)
	}
	fs := fsys.NewOsFS()
	if err := fs.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return exitcode.Wrap(exitcode.Validation, err)
	}
	if err := fs.WriteFile(outPath, data, 0o644); err != nil {
		return exitcode.Wrap(exitcode.Validation, err)
	}
	color.New(color.FgGreen).Fprintf(os.Stderr, "✅ Schema written to %s\n", outPath)
	return nil
}
