// Where: internal/infra/fileops/file_ops.go
// What: Shared filesystem operations for descriptor generation and publishing.
// Why: Keep backup/restore and write semantics identical across publish tasks.
package fileops

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// BackupSuffix is appended to a descriptor path to form its backup sibling.
const BackupSuffix = ".orig"

func EnsureDir(path string) error {
	return os.MkdirAll(path, 0o755)
}

// RemoveDir deletes path and everything below it. A missing path is not an error.
func RemoveDir(path string) error {
	if path == "" {
		return nil
	}
	if err := os.RemoveAll(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// WriteFile writes data through a temporary sibling and renames it into
// place, so readers never observe a half-written descriptor.
func WriteFile(path string, data []byte) error {
	if err := EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, path)
}

func CopyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	return copyFileWithMode(src, dst, info.Mode())
}

func copyFileWithMode(src, dst string, mode fs.FileMode) error {
	if err := EnsureDir(filepath.Dir(dst)); err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Chmod(dst, mode)
}

// BackupPath returns the backup sibling of path.
func BackupPath(path string) string {
	return path + BackupSuffix
}

// Backup copies path to its backup sibling, replacing any previous backup.
func Backup(path string) (string, error) {
	backup := BackupPath(path)
	if err := CopyFile(path, backup); err != nil {
		return "", fmt.Errorf("backup %s: %w", path, err)
	}
	return backup, nil
}

// Restore copies the backup sibling back over path and removes it.
func Restore(path string) error {
	backup := BackupPath(path)
	if err := CopyFile(backup, path); err != nil {
		return fmt.Errorf("restore %s: %w", path, err)
	}
	if err := os.Remove(backup); err != nil {
		return fmt.Errorf("remove backup %s: %w", backup, err)
	}
	return nil
}

func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

func DirExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}
