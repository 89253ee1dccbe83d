package config

import (
	"os"
	"path/filepath"
)

// vaultMarkers are searched for, in order, per spec.md §6 root discovery.
var vaultMarkers = []string{"conf.py", ".git", "_toc.yml"}

// FindVaultRoot walks upward from startPath (a file or directory) looking
// for the closest ancestor containing any vaultMarkers entry. Returns the
// containing directory, or ok=false if none is found before reaching the
// filesystem root.
func FindVaultRoot(startPath string) (string, bool) {
	dir := startPath
	if info, err := os.Stat(startPath); err == nil && !info.IsDir() {
		dir = filepath.Dir(startPath)
	}
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", false
	}

	for {
		for _, marker := range vaultMarkers {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir, true
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// ActiveConfigPath returns the first existing path in SearchPaths(root),
// or the first (preferred) candidate path if none exists yet. This backs
// the "config-path" CLI subcommand (spec.md §6).
func ActiveConfigPath(root string) string {
	paths := SearchPaths(root)
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	if len(paths) > 0 {
		return paths[0]
	}
	return ""
}
