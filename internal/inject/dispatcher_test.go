package inject

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kjourdan1/scaffctl/internal/frontmatter"
	"github.com/kjourdan1/scaffctl/internal/fsys"
)

func TestApply_OverwriteCreatesParents(t *testing.T) {
	fs := fsys.NewMemFS()
	d := NewDispatcher(fs)

	out, err := d.Apply("/out/src/components/index.ts", "export {};\n", frontmatter.Overwrite{}, Options{})
	require.NoError(t, err)
	assert.True(t, out.Written)
	assert.True(t, out.Changed)
	assert.False(t, out.Existed)

	data, err := fs.ReadFile("/out/src/components/index.ts")
	require.NoError(t, err)
	assert.Equal(t, "export {};\n", string(data))

	info, err := fs.Stat("/out/src/components/index.ts")
	require.NoError(t, err)
	assert.Equal(t, defaultFileMode, info.Mode().Perm())
}

func TestApply_OverwritePreservesMode(t *testing.T) {
	fs := fsys.NewMemFS()
	require.NoError(t, fs.MkdirAll("/out", 0o755))
	require.NoError(t, fs.WriteFile("/out/run.sh", []byte("old"), 0o755))

	out, err := NewDispatcher(fs).Apply("/out/run.sh", "new", frontmatter.Overwrite{}, Options{})
	require.NoError(t, err)
	assert.True(t, out.Written)
	assert.Equal(t, "old", out.Before)

	info, err := fs.Stat("/out/run.sh")
	require.NoError(t, err)
	assert.Equal(t, 0o755, int(info.Mode().Perm()))
}

func TestApply_InjectMissingTarget(t *testing.T) {
	fs := fsys.NewMemFS()
	_, err := NewDispatcher(fs).Apply("/out/index.ts", "x", frontmatter.Append{}, Options{})

	var targetErr *TargetNotFoundError
	require.True(t, errors.As(err, &targetErr))
	assert.Equal(t, "/out/index.ts", targetErr.Path)

	exists, err := fs.Exists("/out/index.ts")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestApply_AnchorErrorCarriesPath(t *testing.T) {
	fs := fsys.NewMemFS()
	require.NoError(t, fs.MkdirAll("/out", 0o755))
	require.NoError(t, fs.WriteFile("/out/a.ts", []byte("a\n"), 0o644))

	_, err := NewDispatcher(fs).Apply("/out/a.ts", "x", frontmatter.InjectBefore{Anchor: "zzz"}, Options{})
	var anchorErr *AnchorNotFoundError
	require.True(t, errors.As(err, &anchorErr))
	assert.Equal(t, "/out/a.ts", anchorErr.Path)
	assert.Contains(t, err.Error(), "/out/a.ts")
}

func TestApply_IdempotentAcrossRuns(t *testing.T) {
	modes := []frontmatter.WriteMode{
		frontmatter.InjectAfter{Anchor: "// Components"},
		frontmatter.InjectBefore{Anchor: "// Components"},
		frontmatter.Append{},
		frontmatter.Prepend{},
	}
	for _, mode := range modes {
		t.Run(string(mode.Kind()), func(t *testing.T) {
			fs := fsys.NewMemFS()
			require.NoError(t, fs.MkdirAll("/out", 0o755))
			require.NoError(t, fs.WriteFile("/out/index.ts", []byte("// Components\nexport * from './A';\n"), 0o644))
			d := NewDispatcher(fs)

			first, err := d.Apply("/out/index.ts", "export * from './B';\n", mode, Options{})
			require.NoError(t, err)
			require.True(t, first.Written)
			once, err := fs.ReadFile("/out/index.ts")
			require.NoError(t, err)

			second, err := d.Apply("/out/index.ts", "export * from './B';\n", mode, Options{})
			require.NoError(t, err)
			assert.False(t, second.Written)
			assert.False(t, second.Changed)
			twice, err := fs.ReadFile("/out/index.ts")
			require.NoError(t, err)
			assert.Equal(t, string(once), string(twice))
		})
	}
}

func TestApply_DryRun(t *testing.T) {
	fs := fsys.NewMemFS()
	require.NoError(t, fs.MkdirAll("/out", 0o755))
	require.NoError(t, fs.WriteFile("/out/a.txt", []byte("a\n"), 0o644))

	out, err := NewDispatcher(fs).Apply("/out/a.txt", "b\n", frontmatter.Append{}, Options{DryRun: true})
	require.NoError(t, err)
	assert.False(t, out.Written)
	assert.True(t, out.Changed)
	assert.Equal(t, "a\n", out.Before)
	assert.Equal(t, "a\nb\n", out.After)

	data, err := fs.ReadFile("/out/a.txt")
	require.NoError(t, err)
	assert.Equal(t, "a\n", string(data))

	out, err = NewDispatcher(fs).Apply("/out/new/b.txt", "b", frontmatter.Overwrite{}, Options{DryRun: true})
	require.NoError(t, err)
	assert.False(t, out.Written)
	exists, err := fs.Exists("/out/new")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestApply_UnlessExists(t *testing.T) {
	fs := fsys.NewMemFS()
	require.NoError(t, fs.MkdirAll("/out", 0o755))
	require.NoError(t, fs.WriteFile("/out/keep.txt", []byte("mine"), 0o644))
	d := NewDispatcher(fs)

	out, err := d.Apply("/out/keep.txt", "theirs", frontmatter.Overwrite{}, Options{UnlessExists: true})
	require.NoError(t, err)
	assert.True(t, out.Skipped)
	assert.False(t, out.Written)

	data, err := fs.ReadFile("/out/keep.txt")
	require.NoError(t, err)
	assert.Equal(t, "mine", string(data))

	out, err = d.Apply("/out/fresh.txt", "theirs", frontmatter.Overwrite{}, Options{UnlessExists: true})
	require.NoError(t, err)
	assert.True(t, out.Written)
}

func TestApply_DirectoryTarget(t *testing.T) {
	fs := fsys.NewMemFS()
	require.NoError(t, fs.MkdirAll("/out/dir", 0o755))

	_, err := NewDispatcher(fs).Apply("/out/dir", "x", frontmatter.Overwrite{}, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is a directory")
}
