package generator

import (
	"fmt"
	"time"

	"github.com/kjourdan1/scaffctl/internal/hooks"
)

// Stage is a state of the per-template state machine.
type Stage string

const (
	StagePending      Stage = "pending"
	StageParsed       Stage = "parsed"
	StageSkipCheck    Stage = "skip-check"
	StagePathResolved Stage = "path-resolved"
	StageDispatched   Stage = "dispatched"
	StagePostActions  Stage = "post-actions"
	StageDone         Stage = "done"
	StageErrored      Stage = "errored"
)

// ErrorKind classifies a fatal template failure.
type ErrorKind string

const (
	KindParse          ErrorKind = "parse"
	KindPathSecurity   ErrorKind = "path-security"
	KindPathResolution ErrorKind = "path-resolution"
	KindCondition      ErrorKind = "condition"
	KindAnchorNotFound ErrorKind = "anchor-not-found"
	KindLineOutOfRange ErrorKind = "line-out-of-range"
	KindTargetNotFound ErrorKind = "target-not-found"
	KindRender         ErrorKind = "render"
	KindIO             ErrorKind = "io"
	KindCanceled       ErrorKind = "canceled"
)

// Failure is the fatal error of one template.
type Failure struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
	// Stage is the stage the template was in when it failed.
	Stage Stage `json:"stage"`
	Err   error `json:"-"`
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s: %s", f.Kind, f.Message)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// TemplateFile is one template handed to Generate.
type TemplateFile struct {
	Name    string
	Content string
	// DefaultTo is used when the template has no frontmatter or no `to`.
	DefaultTo string
}

// Result is the outcome of one template.
type Result struct {
	Template   string          `json:"template"`
	Path       string          `json:"path,omitempty"`
	Written    bool            `json:"written"`
	Skipped    bool            `json:"skipped"`
	SkipReason string          `json:"skipReason,omitempty"`
	Changed    bool            `json:"changed"`
	Mode       string          `json:"mode,omitempty"`
	Stage      Stage           `json:"stage"`
	Warnings   []string        `json:"warnings,omitempty"`
	Error      *Failure        `json:"error,omitempty"`
	Hooks      []hooks.Outcome `json:"hooks,omitempty"`
	Diff       string          `json:"diff,omitempty"`
	Duration   time.Duration   `json:"duration"`
}

// Failed reports whether the template errored.
func (r Result) Failed() bool {
	return r.Error != nil
}

// Report aggregates the results of a batch.
type Report struct {
	// Success is true iff no template errored.
	Success bool     `json:"success"`
	Results []Result `json:"results"`
}

// FilesWritten returns the paths of the files that were written, in input order.
func (r Report) FilesWritten() []string {
	var out []string
	for _, res := range r.Results {
		if res.Written {
			out = append(out, res.Path)
		}
	}
	return out
}

// Errors returns the failed results.
func (r Report) Errors() []Result {
	var out []Result
	for _, res := range r.Results {
		if res.Failed() {
			out = append(out, res)
		}
	}
	return out
}

// Warnings returns the number of warnings across all results.
func (r Report) Warnings() int {
	n := 0
	for _, res := range r.Results {
		n += len(res.Warnings)
	}
	return n
}

// Counts tallies changed, skipped, unchanged and errored results. In dry-run
// mode changed counts the files that would be written.
func (r Report) Counts() (changed, skipped, unchanged, errored int) {
	for _, res := range r.Results {
		switch {
		case res.Failed():
			errored++
		case res.Skipped:
			skipped++
		case res.Changed:
			changed++
		default:
			unchanged++
		}
	}
	return changed, skipped, unchanged, errored
}
