package generator

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/kjourdan1/scaffctl/internal/fsys"
)

// DefaultPattern matches template files relative to the templates directory.
const DefaultPattern = "**/*.t"

// templateSuffixes are stripped from a template's relative path to form its
// default destination.
var templateSuffixes = []string{".tmpl", ".t"}

// LoadDir reads every file under dir whose slash-separated relative path
// matches pattern. Results are sorted by name.
func LoadDir(fs fsys.FS, dir, pattern string) ([]TemplateFile, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid template pattern %q", pattern)
	}

	info, err := fs.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("reading templates directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("templates path %s is not a directory", dir)
	}

	var templates []TemplateFile
	err = fs.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		ok, err := doublestar.Match(pattern, rel)
		if err != nil {
			return fmt.Errorf("matching %s: %w", rel, err)
		}
		if !ok {
			return nil
		}

		content, err := fs.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading template %s: %w", rel, err)
		}
		templates = append(templates, TemplateFile{
			Name:      rel,
			Content:   string(content),
			DefaultTo: DefaultTo(rel),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(templates, func(i, j int) bool { return templates[i].Name < templates[j].Name })
	return templates, nil
}

// DefaultTo returns the destination used for a template without `to`.
func DefaultTo(name string) string {
	for _, suffix := range templateSuffixes {
		if strings.HasSuffix(name, suffix) && len(name) > len(suffix) {
			return strings.TrimSuffix(name, suffix)
		}
	}
	return name
}
