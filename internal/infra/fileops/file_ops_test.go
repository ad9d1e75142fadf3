package fileops

import (
	"os"
	"path/filepath"
	"testing"
)

func TestBackupAndRestore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "publications", "main", "module.json")
	writeFixtureFile(t, path, "original", 0o644)

	backup, err := Backup(path)
	if err != nil {
		t.Fatalf("backup: %v", err)
	}
	if backup != path+BackupSuffix {
		t.Fatalf("unexpected backup path: %s", backup)
	}

	if err := WriteFile(path, []byte("stitched")); err != nil {
		t.Fatalf("write: %v", err)
	}
	assertFile(t, path, "stitched", 0o644)

	if err := Restore(path); err != nil {
		t.Fatalf("restore: %v", err)
	}
	assertFile(t, path, "original", 0o644)
	if FileExists(backup) {
		t.Fatal("expected backup to be removed after restore")
	}
}

func TestBackupMissingFile(t *testing.T) {
	if _, err := Backup(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected backup of a missing file to fail")
	}
}

func TestRestoreWithoutBackup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "module.json")
	writeFixtureFile(t, path, "content", 0o644)
	if err := Restore(path); err == nil {
		t.Fatal("expected restore without backup to fail")
	}
	assertFile(t, path, "content", 0o644)
}

func TestWriteFileCreatesParents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "c.txt")
	if err := WriteFile(path, []byte("hello")); err != nil {
		t.Fatalf("write: %v", err)
	}
	assertFile(t, path, "hello", 0o644)

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected temporary files to be cleaned up, got %d entries", len(entries))
	}
}

func TestCopyFilePreservesMode(t *testing.T) {
	src := filepath.Join(t.TempDir(), "src.txt")
	dst := filepath.Join(t.TempDir(), "nested", "dst.txt")
	writeFixtureFile(t, src, "alpha", 0o600)
	if err := CopyFile(src, dst); err != nil {
		t.Fatalf("copy: %v", err)
	}
	assertFile(t, dst, "alpha", 0o600)
}

func TestExistsHelpers(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "f.txt")
	writeFixtureFile(t, file, "x", 0o644)

	if !FileExists(file) || FileExists(dir) {
		t.Fatal("FileExists mismatch")
	}
	if !DirExists(dir) || DirExists(file) {
		t.Fatal("DirExists mismatch")
	}
	if err := RemoveDir(dir); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if DirExists(dir) {
		t.Fatal("expected directory to be removed")
	}
	if err := RemoveDir(""); err != nil {
		t.Fatalf("remove empty path: %v", err)
	}
}

func writeFixtureFile(t *testing.T, path, content string, perm os.FileMode) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), perm); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	if err := os.Chmod(path, perm); err != nil {
		t.Fatalf("chmod %s: %v", path, err)
	}
}

func assertFile(t *testing.T, path, content string, perm os.FileMode) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	if string(data) != content {
		t.Fatalf("content mismatch for %s: got %q want %q", path, string(data), content)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat %s: %v", path, err)
	}
	if info.Mode().Perm() != perm {
		t.Fatalf("mode mismatch for %s: got %v want %v", path, info.Mode().Perm(), perm)
	}
}
