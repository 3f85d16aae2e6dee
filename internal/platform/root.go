package platform

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/notes/pkg/adapters/fs"
)

// FindRoot walks upwards from startDir looking for the notes system directory
// (".notes" unless systemDir is given) and returns the directory containing it.
func FindRoot(startDir, systemDir string) (string, error) {
	if systemDir == "" {
		systemDir = fs.DefaultSystemDir
	}

	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	dir := abs
	for {
		if isDir(filepath.Join(dir, systemDir)) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("no %s directory found above %s", systemDir, abs)
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
