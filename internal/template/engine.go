package template

import (
	"fmt"
	"strings"
	texttemplate "text/template"

	"github.com/go-sprout/sprout"
	"github.com/go-sprout/sprout/registry/std"
	sproutstrings "github.com/go-sprout/sprout/registry/strings"
)

// Options tunes rendering.
type Options struct {
	// Strict makes references to missing map keys fail instead of rendering
	// the zero value.
	Strict bool
}

// Engine renders template bodies and frontmatter expressions.
type Engine struct {
	funcMap texttemplate.FuncMap
	opts    Options
}

// NewEngine creates a new template engine with sprout and local helper
// functions.
func NewEngine(opts Options) (*Engine, error) {
	handler := sprout.New()
	if err := handler.AddRegistries(std.NewRegistry(), sproutstrings.NewRegistry()); err != nil {
		return nil, fmt.Errorf("registering template functions: %w", err)
	}

	funcs := texttemplate.FuncMap{}
	for name, fn := range handler.Build() {
		funcs[name] = fn
	}
	for name, fn := range HelperFuncMap() {
		funcs[name] = fn
	}
	return &Engine{funcMap: funcs, opts: opts}, nil
}

// Render executes text against data. Text without any action delimiters is
// returned as-is.
func (e *Engine) Render(name, text string, data map[string]any) (string, error) {
	if !strings.Contains(text, "{{") {
		return text, nil
	}

	missing := "missingkey=zero"
	if e.opts.Strict {
		missing = "missingkey=error"
	}

	t, err := texttemplate.New(name).Option(missing).Funcs(e.funcMap).Parse(text)
	if err != nil {
		return "", fmt.Errorf("parsing template %s: %w", name, err)
	}

	var sb strings.Builder
	if err := t.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("rendering %s: %w", name, err)
	}
	return sb.String(), nil
}

// Funcs returns a copy of the engine's function map.
func (e *Engine) Funcs() texttemplate.FuncMap {
	out := make(texttemplate.FuncMap, len(e.funcMap))
	for name, fn := range e.funcMap {
		out[name] = fn
	}
	return out
}
