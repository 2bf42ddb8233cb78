package platform

import (
	"errors"
	"os"
	"path/filepath"
)

// ConfigFileName is the project configuration file that also marks a root.
const ConfigFileName = "shelf.yaml"

// ErrRootNotFound is returned when no marker exists up to the filesystem root.
var ErrRootNotFound = errors.New("root not found")

// FindRoot walks upwards from startDir looking for a shelf root: a .shelf
// directory, a .git directory or a shelf.yaml file.
func FindRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if hasFile(dir, ".shelf") || hasFile(dir, ".git") || hasFile(dir, ConfigFileName) {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrRootNotFound
		}
		dir = parent
	}
}

func hasFile(dir, name string) bool {
	_, err := os.Stat(filepath.Join(dir, name))
	return err == nil
}
