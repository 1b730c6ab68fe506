package platform

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/timethings/pkg/adapters/fs"
)

// rootMarkers identify a vault root: the timethings system directory or an
// Obsidian configuration directory.
var rootMarkers = []string{fs.DefaultSystemDir, ".obsidian"}

// FindRoot looks upwards from startDir for a vault root and returns its
// absolute path.
func FindRoot(startDir string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	dir := abs
	for {
		for _, marker := range rootMarkers {
			if hasDir(dir, marker) {
				return dir, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("vault root not found from %s", abs)
}

func hasDir(dir, name string) bool {
	info, err := os.Stat(filepath.Join(dir, name))
	return err == nil && info.IsDir()
}
