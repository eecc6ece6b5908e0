package inject

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kjourdan1/scaffctl/internal/frontmatter"
	"github.com/kjourdan1/scaffctl/internal/fsys"
)

const (
	defaultFileMode os.FileMode = 0o644
	defaultDirMode  os.FileMode = 0o755
)

// Options controls a single dispatch.
type Options struct {
	// DryRun computes the new content without touching the filesystem.
	DryRun bool
	// UnlessExists skips overwrite mode when the target is already present.
	UnlessExists bool
}

// Outcome describes what a dispatch did (or would do, in dry-run mode).
type Outcome struct {
	Path    string
	Mode    frontmatter.ModeKind
	Existed bool
	Before  string
	After   string
	// Changed is true when After differs from Before.
	Changed bool
	// Written is true when the file was actually written.
	Written bool
	// Skipped is true when UnlessExists matched an existing target.
	Skipped bool
}

// Dispatcher performs write-mode mutations against an FS.
type Dispatcher struct {
	FS fsys.FS
}

// NewDispatcher creates a dispatcher bound to fs.
func NewDispatcher(fs fsys.FS) *Dispatcher {
	return &Dispatcher{FS: fs}
}

// Apply writes body to path according to mode.
func (d *Dispatcher) Apply(path, body string, mode frontmatter.WriteMode, opts Options) (Outcome, error) {
	if mode == nil {
		mode = frontmatter.Overwrite{}
	}
	out := Outcome{Path: path, Mode: mode.Kind()}

	exists, err := d.FS.Exists(path)
	if err != nil {
		return out, fmt.Errorf("checking %s: %w", path, err)
	}
	out.Existed = exists

	perm := defaultFileMode
	if exists {
		info, err := d.FS.Stat(path)
		if err != nil {
			return out, fmt.Errorf("stat %s: %w", path, err)
		}
		if info.IsDir() {
			return out, fmt.Errorf("target %s is a directory", path)
		}
		perm = info.Mode().Perm()

		if opts.UnlessExists && !frontmatter.IsInject(mode) {
			out.Skipped = true
			return out, nil
		}

		raw, err := d.FS.ReadFile(path)
		if err != nil {
			return out, fmt.Errorf("reading %s: %w", path, err)
		}
		out.Before = string(raw)
	}

	plan, err := Compute(out.Before, exists, body, mode)
	if err != nil {
		return out, withPath(err, path)
	}
	out.After = plan.Content
	out.Changed = plan.Changed

	if !plan.Write || opts.DryRun {
		return out, nil
	}

	if !frontmatter.IsInject(mode) {
		if err := d.FS.MkdirAll(filepath.Dir(path), defaultDirMode); err != nil {
			return out, fmt.Errorf("creating parent directory for %s: %w", path, err)
		}
	}
	if err := d.FS.WriteFile(path, []byte(plan.Content), perm); err != nil {
		return out, fmt.Errorf("writing file %s: %w", path, err)
	}
	out.Written = true
	return out, nil
}

func withPath(err error, path string) error {
	var (
		anchorErr *AnchorNotFoundError
		lineErr   *LineOutOfRangeError
		targetErr *TargetNotFoundError
	)
	switch {
	case errors.As(err, &anchorErr):
		anchorErr.Path = path
	case errors.As(err, &lineErr):
		lineErr.Path = path
	case errors.As(err, &targetErr):
		targetErr.Path = path
	}
	return err
}
