// Package fsys provides the file access abstraction used by the generator.
//
// Production code runs against the OS filesystem; tests swap in an in-memory
// filesystem. Both are backed by spf13/afero.
package fsys

import (
	"errors"
	iofs "io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// FS is the interface for filesystem operations on the target tree.
type FS interface {
	ReadFile(path string) ([]byte, error)
	// WriteFile replaces path atomically. The parent directory must exist.
	WriteFile(path string, data []byte, perm os.FileMode) error
	Exists(path string) (bool, error)
	Stat(path string) (iofs.FileInfo, error)
	MkdirAll(path string, perm os.FileMode) error
	Chmod(path string, perm os.FileMode) error
	Walk(root string, fn filepath.WalkFunc) error
}

type aferoFS struct {
	fs afero.Fs
}

// New wraps an afero filesystem.
func New(fs afero.Fs) FS {
	return &aferoFS{fs: fs}
}

// NewOsFS returns an FS backed by the real filesystem.
func NewOsFS() FS {
	return New(afero.NewOsFs())
}

// NewMemFS returns an empty in-memory FS.
func NewMemFS() FS {
	return New(afero.NewMemMapFs())
}

func (a *aferoFS) ReadFile(path string) ([]byte, error) {
	info, err := a.fs.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, &iofs.PathError{Op: "read", Path: path, Err: iofs.ErrInvalid}
	}
	return afero.ReadFile(a.fs, path)
}

func (a *aferoFS) WriteFile(path string, data []byte, perm os.FileMode) error {
	return writeFileAtomic(a.fs, path, data, perm)
}

func (a *aferoFS) Exists(path string) (bool, error) {
	_, err := a.fs.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, iofs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

func (a *aferoFS) Stat(path string) (iofs.FileInfo, error) {
	return a.fs.Stat(path)
}

func (a *aferoFS) MkdirAll(path string, perm os.FileMode) error {
	return a.fs.MkdirAll(path, perm)
}

func (a *aferoFS) Chmod(path string, perm os.FileMode) error {
	return a.fs.Chmod(path, perm)
}

func (a *aferoFS) Walk(root string, fn filepath.WalkFunc) error {
	return afero.Walk(a.fs, root, fn)
}
