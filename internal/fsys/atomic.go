package fsys

import (
	iofs "io/fs"
	"os"
	"path/filepath"
	"syscall"

	"github.com/spf13/afero"
)

const tempPattern = ".scaffctl-tmp-*"

// writeFileAtomic writes data to a temp file next to path and renames it into
// place. On failure the original file, if any, is left unchanged.
func writeFileAtomic(fs afero.Fs, path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	// MemMapFs creates files under missing directories; the OS does not.
	info, err := fs.Stat(dir)
	if err != nil {
		return &iofs.PathError{Op: "write", Path: path, Err: iofs.ErrNotExist}
	}
	if !info.IsDir() {
		return &iofs.PathError{Op: "write", Path: path, Err: syscall.ENOTDIR}
	}

	tmp, err := afero.TempFile(fs, dir, tempPattern)
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = fs.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := fs.Chmod(tmpPath, perm); err != nil {
		return err
	}
	if err := fs.Rename(tmpPath, path); err != nil {
		return err
	}

	success = true
	return nil
}
