package fs

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// TempFilePrefix is the prefix used for temporary atomic write files.
	TempFilePrefix = "shelf-tmp-"
)

// writeFileAtomic writes data to a file atomically by writing to a temp file
// and then renaming it to the target filename.
func writeFileAtomic(filename string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(filename)

	// Same directory, so the rename stays on one filesystem.
	tmpFile, err := os.CreateTemp(dir, TempFilePrefix+"*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write to temp file: %w", err)
	}

	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Chmod(tmpFile.Name(), perm); err != nil {
		return fmt.Errorf("failed to chmod temp file: %w", err)
	}

	if err := os.Rename(tmpFile.Name(), filename); err != nil {
		return fmt.Errorf("failed to rename temp file to %s: %w", filename, err)
	}

	return nil
}

// fileSnapshot is the content of a file before a write, so the write can be
// undone if the surrounding transaction fails.
type fileSnapshot struct {
	data    []byte
	existed bool
}

func snapshotFile(filename string) (fileSnapshot, error) {
	data, err := os.ReadFile(filename)
	if os.IsNotExist(err) {
		return fileSnapshot{}, nil
	}
	if err != nil {
		return fileSnapshot{}, fmt.Errorf("failed to read %s: %w", filename, err)
	}
	return fileSnapshot{data: data, existed: true}, nil
}

// digest returns the watcher digest of the snapshot, tombstone when absent.
func (s fileSnapshot) digest() string {
	if !s.existed {
		return tombstone
	}
	return digest(string(s.data))
}

// restore puts filename back to the snapshot, removing it if it did not exist.
func (s fileSnapshot) restore(filename string, perm os.FileMode) error {
	if !s.existed {
		if err := os.Remove(filename); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove %s: %w", filename, err)
		}
		return nil
	}
	return writeFileAtomic(filename, s.data, perm)
}
