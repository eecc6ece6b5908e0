package fsys

import (
	iofs "io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemFS_WriteReadExists(t *testing.T) {
	fs := NewMemFS()
	require.NoError(t, fs.MkdirAll("/out/src", 0o755))

	ok, err := fs.Exists("/out/src/index.ts")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, fs.WriteFile("/out/src/index.ts", []byte("export {}\n"), 0o644))

	ok, err = fs.Exists("/out/src/index.ts")
	require.NoError(t, err)
	assert.True(t, ok)

	data, err := fs.ReadFile("/out/src/index.ts")
	require.NoError(t, err)
	assert.Equal(t, "export {}\n", string(data))
}

func TestWriteFile_ReplacesExistingAndLeavesNoTemp(t *testing.T) {
	mem := afero.NewMemMapFs()
	fs := New(mem)
	require.NoError(t, fs.MkdirAll("/out", 0o755))
	require.NoError(t, fs.WriteFile("/out/a.txt", []byte("one"), 0o644))
	require.NoError(t, fs.WriteFile("/out/a.txt", []byte("two"), 0o600))

	data, err := fs.ReadFile("/out/a.txt")
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))

	info, err := fs.Stat("/out/a.txt")
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	entries, err := afero.ReadDir(mem, "/out")
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWriteFile_MissingParentFails(t *testing.T) {
	backends := map[string]func(t *testing.T) (FS, string){
		"mem": func(t *testing.T) (FS, string) { return NewMemFS(), "/out" },
		"os":  func(t *testing.T) (FS, string) { return NewOsFS(), t.TempDir() },
	}
	for name, newFS := range backends {
		t.Run(name, func(t *testing.T) {
			fs, root := newFS(t)
			err := fs.WriteFile(filepath.Join(root, "nope", "a.txt"), []byte("x"), 0o644)
			require.ErrorIs(t, err, iofs.ErrNotExist)

			ok, err := fs.Exists(filepath.Join(root, "nope"))
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestWriteFile_ParentIsFile(t *testing.T) {
	fs := NewMemFS()
	require.NoError(t, fs.MkdirAll("/out", 0o755))
	require.NoError(t, fs.WriteFile("/out/file", []byte("x"), 0o644))
	assert.Error(t, fs.WriteFile("/out/file/a.txt", []byte("y"), 0o644))
}

func TestReadFile_Directory(t *testing.T) {
	fs := NewMemFS()
	require.NoError(t, fs.MkdirAll("/out/dir", 0o755))
	_, err := fs.ReadFile("/out/dir")
	assert.Error(t, err)
}

func TestOsFS_Atomic(t *testing.T) {
	dir := t.TempDir()
	fs := NewOsFS()
	target := filepath.Join(dir, "file.txt")

	require.NoError(t, fs.WriteFile(target, []byte("hello"), 0o644))
	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must be renamed away")
}

func TestWalk(t *testing.T) {
	fs := NewMemFS()
	require.NoError(t, fs.MkdirAll("/tpl/sub", 0o755))
	require.NoError(t, fs.WriteFile("/tpl/a.t", []byte("a"), 0o644))
	require.NoError(t, fs.WriteFile("/tpl/sub/b.t", []byte("b"), 0o644))

	var files []string
	err := fs.Walk("/tpl", func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			files = append(files, filepath.ToSlash(path))
		}
		return nil
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"/tpl/a.t", "/tpl/sub/b.t"}, files)
}
