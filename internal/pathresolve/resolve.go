// Package pathresolve turns a rendered "to" expression into an absolute path
// that is guaranteed to stay inside the output directory.
package pathresolve

import (
	"errors"
	"fmt"
	iofs "io/fs"
	"os"
	"path/filepath"
	"strings"
)

// MaxPathLength bounds resolved paths; most filesystems reject longer ones.
const MaxPathLength = 4096

// SecurityError reports a target that would escape the base directory.
type SecurityError struct {
	To      string
	BaseDir string
}

func (e *SecurityError) Error() string {
	return fmt.Sprintf("path %q escapes output directory %q", e.To, e.BaseDir)
}

// ResolutionError reports a target that cannot be used as a file path.
type ResolutionError struct {
	To     string
	Reason string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("cannot resolve path %q: %s", e.To, e.Reason)
}

// Resolve joins to onto baseDir and returns the cleaned absolute path.
// Absolute targets are accepted only when they already lie inside baseDir.
func Resolve(baseDir, to string) (string, error) {
	if strings.TrimSpace(to) == "" {
		return "", &ResolutionError{To: to, Reason: "path is empty"}
	}
	if strings.ContainsRune(to, 0) {
		return "", &ResolutionError{To: to, Reason: "path contains null bytes"}
	}
	if strings.TrimSpace(baseDir) == "" {
		return "", &ResolutionError{To: to, Reason: "output directory is empty"}
	}

	normalized := filepath.FromSlash(strings.ReplaceAll(strings.TrimSpace(to), `\`, "/"))
	if strings.HasSuffix(normalized, string(filepath.Separator)) {
		return "", &ResolutionError{To: to, Reason: "path names a directory"}
	}

	base, err := filepath.Abs(filepath.Clean(baseDir))
	if err != nil {
		return "", &ResolutionError{To: to, Reason: fmt.Sprintf("resolving output directory: %v", err)}
	}

	var target string
	if filepath.IsAbs(normalized) {
		target = filepath.Clean(normalized)
	} else {
		target = filepath.Join(base, normalized)
	}

	if !within(base, target) {
		return "", &SecurityError{To: to, BaseDir: base}
	}
	if target == base {
		return "", &ResolutionError{To: to, Reason: "path resolves to the output directory itself"}
	}
	if len(target) > MaxPathLength {
		return "", &ResolutionError{To: to, Reason: "path exceeds maximum length"}
	}
	return target, nil
}

// Resolver maps a rendered "to" expression onto a target path.
type Resolver func(baseDir, to string) (string, error)

// ResolveOnDisk is Resolve plus a symlink check against the OS filesystem.
// Once links are followed, the deepest existing ancestor of the target must
// still lie inside the base directory.
func ResolveOnDisk(baseDir, to string) (string, error) {
	target, err := Resolve(baseDir, to)
	if err != nil {
		return "", err
	}
	base, err := filepath.Abs(filepath.Clean(baseDir))
	if err != nil {
		return "", &ResolutionError{To: to, Reason: fmt.Sprintf("resolving output directory: %v", err)}
	}

	realBase, err := evalExisting(base)
	if err != nil {
		return "", &ResolutionError{To: to, Reason: err.Error()}
	}
	realTarget, err := evalExisting(target)
	if err != nil {
		return "", &ResolutionError{To: to, Reason: err.Error()}
	}
	if realTarget == realBase || !within(realBase, realTarget) {
		return "", &SecurityError{To: to, BaseDir: base}
	}
	return target, nil
}

// evalExisting follows symlinks on the longest existing prefix of path and
// appends the missing remainder unchanged.
func evalExisting(path string) (string, error) {
	rest := ""
	for p := path; ; {
		real, err := filepath.EvalSymlinks(p)
		if err == nil {
			return filepath.Join(real, rest), nil
		}
		if !errors.Is(err, iofs.ErrNotExist) {
			return "", fmt.Errorf("following symlinks in %s: %w", p, err)
		}
		// A dangling link exists but cannot be followed.
		if _, lerr := os.Lstat(p); lerr == nil {
			return "", fmt.Errorf("dangling symlink %s", p)
		}
		parent := filepath.Dir(p)
		if parent == p {
			return path, nil
		}
		rest = filepath.Join(filepath.Base(p), rest)
		p = parent
	}
}

func within(base, target string) bool {
	rel, err := filepath.Rel(base, target)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// Rel returns path relative to baseDir for display. It falls back to path.
func Rel(baseDir, path string) string {
	base, err := filepath.Abs(baseDir)
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}
