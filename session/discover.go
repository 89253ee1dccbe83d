package session

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// skipDirs are directories discoverMarkdown never descends into: version
// control metadata and the build's own output directories, neither of
// which can hold vault content.
var skipDirs = map[string]bool{
	".git":         true,
	"_build":       true,
	"node_modules": true,
}

// discoverMarkdown walks root for `.md` files, returning their
// root-relative, forward-slash canonical paths. Grounded on the teacher's
// WalkDirectoryForMarkdown (traversal.go), generalized from a single
// root-file scope to a whole-vault walk and from absolute to
// root-relative paths, since vault canonical paths are vault-relative
// (model.Document.CanonicalPath).
func discoverMarkdown(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.EqualFold(filepath.Ext(p), ".md") {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		paths = append(paths, filepath.ToSlash(rel))
		return nil
	})
	return paths, err
}

func readFile(root, relPath string) ([]byte, error) {
	return os.ReadFile(filepath.Join(root, filepath.FromSlash(relPath)))
}
