// Package generator applies batches of frontmatter templates to a target tree.
//
// Each template moves through Parsed, SkipCheck, PathResolved, Dispatched and
// PostActions to Done, or stops in Errored. A failing template never stops
// the batch. Templates that resolve to the same path run sequentially in
// declaration order; distinct paths run on a bounded worker pool.
package generator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/kjourdan1/scaffctl/internal/condition"
	"github.com/kjourdan1/scaffctl/internal/frontmatter"
	"github.com/kjourdan1/scaffctl/internal/fsys"
	"github.com/kjourdan1/scaffctl/internal/hooks"
	"github.com/kjourdan1/scaffctl/internal/inject"
	"github.com/kjourdan1/scaffctl/internal/output"
	"github.com/kjourdan1/scaffctl/internal/pathresolve"
)

// DefaultWorkers is the pool size used when Options.Workers is unset.
const DefaultWorkers = 4

// Renderer renders template text against the render context.
type Renderer interface {
	Render(name, text string, data map[string]any) (string, error)
}

// Deps are the collaborators of a Generator.
type Deps struct {
	FS       fsys.FS
	Renderer Renderer
	Runner   hooks.CommandRunner
	// Approve, when set, confirms each shell hook before it runs.
	Approve func(cmd string) bool
	// Resolve maps "to" onto a target path. Defaults to pathresolve.Resolve.
	Resolve pathresolve.Resolver
}

// Options configures one Generate call.
type Options struct {
	BaseDir     string
	DryRun      bool
	Diff        bool
	Workers     int
	Timeout     time.Duration
	HookTimeout time.Duration
	AllowHooks  bool
	HookDir     string
	HookEnv     map[string]string
}

// Generator runs templates against a target tree.
type Generator struct {
	deps       Deps
	dispatcher *inject.Dispatcher
}

// New creates a Generator. Renderer may be nil, in which case text is used
// as-is.
func New(deps Deps) *Generator {
	if deps.Renderer == nil {
		deps.Renderer = passthrough{}
	}
	if deps.Runner == nil {
		deps.Runner = hooks.NewShellRunner("")
	}
	if deps.Resolve == nil {
		deps.Resolve = pathresolve.Resolve
	}
	return &Generator{deps: deps, dispatcher: inject.NewDispatcher(deps.FS)}
}

type passthrough struct{}

func (passthrough) Render(_, text string, _ map[string]any) (string, error) { return text, nil }

// job is a template that made it through phase one.
type job struct {
	index int
	name  string
	path  string
	mode  frontmatter.WriteMode
	fm    frontmatter.Frontmatter
	body  string
	sh    []string
	start time.Time
}

// Generate runs templates against data and returns one result per template,
// in input order.
func (g *Generator) Generate(ctx context.Context, templates []TemplateFile, data map[string]any, opts Options) Report {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}
	if data == nil {
		data = map[string]any{}
	}

	results := make([]Result, len(templates))
	jobs := make([]*job, 0, len(templates))
	for i, tf := range templates {
		results[i] = Result{Template: tf.Name, Stage: StagePending}
		if err := ctx.Err(); err != nil {
			g.fail(&results[i], KindCanceled, err)
			continue
		}
		if j := g.prepare(i, tf, data, opts, &results[i]); j != nil {
			jobs = append(jobs, j)
		}
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	p := pool.New().WithMaxGoroutines(workers)
	for _, group := range groupByPath(jobs) {
		p.Go(func() {
			for _, j := range group {
				res := &results[j.index]
				if err := ctx.Err(); err != nil {
					g.fail(res, KindCanceled, err)
					continue
				}
				g.dispatch(ctx, j, data, opts, res)
				res.Duration = time.Since(j.start)
			}
		})
	}
	p.Wait()

	report := Report{Success: true, Results: results}
	for _, res := range results {
		if res.Failed() {
			report.Success = false
			break
		}
	}
	return report
}

// prepare runs the sequential phase: parse, skip check and path resolution.
func (g *Generator) prepare(index int, tf TemplateFile, data map[string]any, opts Options, res *Result) *job {
	start := time.Now()
	defer func() { res.Duration = time.Since(start) }()

	doc, err := frontmatter.Parse(tf.Content, tf.DefaultTo)
	if err != nil {
		g.fail(res, KindParse, err)
		return nil
	}
	g.advance(res, StageParsed)
	res.Mode = string(doc.Frontmatter.Mode.Kind())
	res.Warnings = append(res.Warnings, doc.Warnings...)
	fm := doc.Frontmatter

	g.advance(res, StageSkipCheck)
	skip, err := condition.Evaluate(fm.SkipIf, data)
	if err != nil {
		g.fail(res, KindCondition, err)
		return nil
	}
	if skip {
		res.Skipped = true
		res.SkipReason = fmt.Sprintf("skipIf %q matched", fm.SkipIf)
		g.advance(res, StageDone)
		return nil
	}

	to, err := g.deps.Renderer.Render(tf.Name+":to", fm.To, data)
	if err != nil {
		g.fail(res, KindRender, err)
		return nil
	}
	path, err := g.deps.Resolve(opts.BaseDir, to)
	if err != nil {
		g.fail(res, classify(err), err)
		return nil
	}
	res.Path = path

	mode, err := g.renderMode(tf.Name, fm.Mode, data)
	if err != nil {
		g.fail(res, KindRender, err)
		return nil
	}

	sh := make([]string, 0, len(fm.Sh))
	for i, line := range fm.Sh {
		rendered, err := g.deps.Renderer.Render(fmt.Sprintf("%s:sh[%d]", tf.Name, i), line, data)
		if err != nil {
			g.fail(res, KindRender, err)
			return nil
		}
		sh = append(sh, rendered)
	}
	g.advance(res, StagePathResolved)

	return &job{
		index: index,
		name:  tf.Name,
		path:  path,
		mode:  mode,
		fm:    fm,
		body:  doc.Body,
		sh:    sh,
		start: start,
	}
}

func (g *Generator) renderMode(name string, mode frontmatter.WriteMode, data map[string]any) (frontmatter.WriteMode, error) {
	switch m := mode.(type) {
	case frontmatter.InjectAfter:
		anchor, err := g.deps.Renderer.Render(name+":after", m.Anchor, data)
		if err != nil {
			return nil, err
		}
		return frontmatter.InjectAfter{Anchor: anchor}, nil
	case frontmatter.InjectBefore:
		anchor, err := g.deps.Renderer.Render(name+":before", m.Anchor, data)
		if err != nil {
			return nil, err
		}
		return frontmatter.InjectBefore{Anchor: anchor}, nil
	}
	return mode, nil
}

// dispatch runs the body render, the write and the post-write actions.
func (g *Generator) dispatch(ctx context.Context, j *job, data map[string]any, opts Options, res *Result) {
	body, err := g.deps.Renderer.Render(j.name, j.body, data)
	if err != nil {
		g.fail(res, KindRender, err)
		return
	}

	outcome, err := g.dispatcher.Apply(j.path, body, j.mode, inject.Options{
		DryRun:       opts.DryRun,
		UnlessExists: j.fm.UnlessExists,
	})
	if err != nil {
		g.fail(res, classify(err), err)
		return
	}
	if outcome.Skipped {
		res.Skipped = true
		res.SkipReason = "target exists (unlessExists)"
		g.advance(res, StageDone)
		return
	}

	res.Written = outcome.Written
	res.Changed = outcome.Changed
	if opts.Diff && outcome.Changed {
		res.Diff = output.Diff(pathresolve.Rel(opts.BaseDir, j.path), outcome.Before, outcome.After)
	}
	g.advance(res, StageDispatched)

	if !outcome.Written {
		g.advance(res, StageDone)
		return
	}

	g.advance(res, StagePostActions)
	if j.fm.Chmod != nil {
		if warning := hooks.ApplyChmod(g.deps.FS, j.path, *j.fm.Chmod); warning != "" {
			res.Warnings = append(res.Warnings, warning)
		}
	}
	if len(j.sh) > 0 {
		res.Hooks = hooks.RunAll(ctx, g.deps.Runner, j.sh, hooks.Options{
			File:    j.path,
			Mode:    res.Mode,
			Dir:     opts.HookDir,
			Env:     opts.HookEnv,
			Timeout: opts.HookTimeout,
			Allow:   opts.AllowHooks,
			Approve: g.deps.Approve,
		})
		res.Warnings = append(res.Warnings, hooks.Warnings(res.Hooks)...)
	}
	g.advance(res, StageDone)
}

func (g *Generator) advance(res *Result, stage Stage) {
	res.Stage = stage
	output.Debug("template stage", "template", res.Template, "stage", stage)
}

func (g *Generator) fail(res *Result, kind ErrorKind, err error) {
	res.Error = &Failure{Kind: kind, Message: err.Error(), Stage: res.Stage, Err: err}
	res.Written = false
	res.Stage = StageErrored
	output.Debug("template errored", "template", res.Template, "kind", kind, "error", err)
}

// classify maps a package error onto the error taxonomy.
func classify(err error) ErrorKind {
	var (
		parseErr    *frontmatter.ParseError
		securityErr *pathresolve.SecurityError
		resolveErr  *pathresolve.ResolutionError
		syntaxErr   *condition.SyntaxError
		anchorErr   *inject.AnchorNotFoundError
		lineErr     *inject.LineOutOfRangeError
		targetErr   *inject.TargetNotFoundError
	)
	switch {
	case errors.As(err, &parseErr):
		return KindParse
	case errors.As(err, &securityErr):
		return KindPathSecurity
	case errors.As(err, &resolveErr):
		return KindPathResolution
	case errors.As(err, &syntaxErr):
		return KindCondition
	case errors.As(err, &anchorErr):
		return KindAnchorNotFound
	case errors.As(err, &lineErr):
		return KindLineOutOfRange
	case errors.As(err, &targetErr):
		return KindTargetNotFound
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindCanceled
	default:
		return KindIO
	}
}

// groupByPath groups jobs by target path. Groups are ordered by their first
// job and jobs keep declaration order inside a group.
func groupByPath(jobs []*job) [][]*job {
	index := make(map[string]int)
	var groups [][]*job
	for _, j := range jobs {
		if i, ok := index[j.path]; ok {
			groups[i] = append(groups[i], j)
			continue
		}
		index[j.path] = len(groups)
		groups = append(groups, []*job{j})
	}
	return groups
}
