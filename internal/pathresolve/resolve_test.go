package pathresolve

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_Relative(t *testing.T) {
	got, err := Resolve("/project/output", "src/components/Button.tsx")
	require.NoError(t, err)
	assert.Equal(t, filepath.FromSlash("/project/output/src/components/Button.tsx"), got)
}

func TestResolve_NormalizesSeparatorsAndDots(t *testing.T) {
	got, err := Resolve("/project/output", `src\.\lib\..\index.ts`)
	require.NoError(t, err)
	assert.Equal(t, filepath.FromSlash("/project/output/src/index.ts"), got)
}

func TestResolve_Traversal(t *testing.T) {
	tests := []string{
		"../../etc/passwd",
		"..",
		"src/../../escape.txt",
		`..\..\windows.ini`,
	}
	for _, to := range tests {
		t.Run(to, func(t *testing.T) {
			_, err := Resolve("/project/output", to)
			var secErr *SecurityError
			require.True(t, errors.As(err, &secErr), "want SecurityError, got %v", err)
		})
	}
}

func TestResolve_AbsoluteTargets(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("POSIX absolute paths")
	}
	got, err := Resolve("/project/output", "/project/output/a/b.txt")
	require.NoError(t, err)
	assert.Equal(t, "/project/output/a/b.txt", got)

	_, err = Resolve("/project/output", "/etc/passwd")
	var secErr *SecurityError
	assert.True(t, errors.As(err, &secErr))

	_, err = Resolve("/project/output", "/project/output-other/x")
	assert.True(t, errors.As(err, &secErr), "sibling directory sharing a prefix must be rejected")
}

func TestResolve_Unusable(t *testing.T) {
	tests := []struct {
		name string
		to   string
	}{
		{"empty", ""},
		{"blank", "   "},
		{"null byte", "a\x00b"},
		{"directory", "src/"},
		{"base itself", "."},
		{"base via dots", "src/.."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve("/project/output", tt.to)
			var resErr *ResolutionError
			require.True(t, errors.As(err, &resErr), "want ResolutionError, got %v", err)
		})
	}
}

func TestResolve_RelativeBaseDir(t *testing.T) {
	got, err := Resolve("out", "a.txt")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(got))
	assert.Equal(t, "a.txt", filepath.Base(got))
}

func TestRel(t *testing.T) {
	assert.Equal(t, "src/a.ts", Rel("/project", filepath.FromSlash("/project/src/a.ts")))
}

func requireSymlinks(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
}

func TestResolveOnDisk_SymlinkEscape(t *testing.T) {
	requireSymlinks(t)
	base := t.TempDir()
	outside := t.TempDir()
	require.NoError(t, os.Symlink(outside, filepath.Join(base, "link")))

	_, err := ResolveOnDisk(base, "link/passwd")
	var secErr *SecurityError
	require.True(t, errors.As(err, &secErr), "got %v", err)

	_, err = ResolveOnDisk(base, "link/deeper/missing.txt")
	require.True(t, errors.As(err, &secErr), "got %v", err)
}

func TestResolveOnDisk_InsideLinks(t *testing.T) {
	requireSymlinks(t)
	base := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(base, "real", "src"), 0o755))
	require.NoError(t, os.Symlink(filepath.Join(base, "real"), filepath.Join(base, "alias")))

	got, err := ResolveOnDisk(base, "alias/src/index.ts")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "alias", "src", "index.ts"), got)

	got, err = ResolveOnDisk(filepath.Join(base, "alias"), "new/dir/file.txt")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "alias", "new", "dir", "file.txt"), got)
}

func TestResolveOnDisk_DanglingLink(t *testing.T) {
	requireSymlinks(t)
	base := t.TempDir()
	require.NoError(t, os.Symlink(filepath.Join(t.TempDir(), "gone"), filepath.Join(base, "stale")))

	_, err := ResolveOnDisk(base, "stale")
	var resErr *ResolutionError
	assert.True(t, errors.As(err, &resErr), "got %v", err)
}

func TestResolveOnDisk_LexicalChecksFirst(t *testing.T) {
	_, err := ResolveOnDisk(t.TempDir(), "../escape.txt")
	var secErr *SecurityError
	assert.True(t, errors.As(err, &secErr))
}
