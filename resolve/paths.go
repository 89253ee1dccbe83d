package resolve

import (
	"path"
	"sort"
	"strings"

	"github.com/moxide-ls/moxide/config"
)

// foldCase applies the configured case-matching mode to a single string
// for comparison purposes (spec.md §4.3 "Case-matching modes"). "smart"
// folds case only when pattern is itself already all-lowercase.
func foldCase(s string, pattern string, mode config.CaseMatching) string {
	switch mode {
	case config.CaseIgnore:
		return strings.ToLower(s)
	case config.CaseSmart:
		if pattern == strings.ToLower(pattern) {
			return strings.ToLower(s)
		}
		return s
	default: // CaseRespect
		return s
	}
}

// stripMdExt removes a trailing ".md" extension, per spec.md §4.3's
// "Strip optional .md" step.
func stripMdExt(p string) string {
	return strings.TrimSuffix(p, ".md")
}

// resolveFilePaths implements the three-strategy path resolution shared
// by MarkdownFileLink, MystRoleDoc, MarkdownHeadingLink, and
// MarkdownBlockLink (spec.md §4.3). sourceDoc is the vault-relative path
// of the referencing document. Returns the vault-relative path(s) of
// matching files; the first strategy to produce any match wins, but all
// matches from that strategy are returned (stem collisions).
func resolveFilePaths(idx Index, sourceDoc, rawTarget string, mode config.CaseMatching) []string {
	target := stripMdExt(rawTarget)
	if target == "" {
		return nil
	}

	// (a) relative to the source document's directory.
	if !strings.HasPrefix(target, "/") {
		candidate := path.Join(path.Dir(sourceDoc), target) + ".md"
		if idx.FileExists(candidate) {
			return []string{candidate}
		}
	}

	// (b) relative to the vault root, if the target is rooted.
	if strings.HasPrefix(target, "/") {
		candidate := strings.TrimPrefix(target, "/") + ".md"
		if idx.FileExists(candidate) {
			return []string{candidate}
		}
	}

	// (c) by-stem lookup across the vault.
	stem := path.Base(target)
	normStem := foldCase(stem, stem, mode)
	var matches []string
	for s, paths := range idx.FilesByStem {
		if foldCase(s, stem, mode) == normStem {
			matches = append(matches, paths...)
		}
	}
	sortStemCollisions(matches)
	return matches
}

// ResolvePath runs the same three-strategy file resolution as
// MarkdownFileLink/MystRoleDoc Reference resolution, exported for the
// Vault Graph's structural (toctree) and transclusion (include) edge
// construction, neither of which goes through a model.Reference.
func ResolvePath(idx Index, sourceDoc, rawTarget string, mode config.CaseMatching) []string {
	return resolveFilePaths(idx, sourceDoc, rawTarget, mode)
}

// sortStemCollisions breaks ties among by-stem matches by shortest path
// then lexicographic order, the tie-break spec.md §9's Open Question
// section suggests for this otherwise-unspecified case. All candidates
// are still returned; this only fixes their order.
func sortStemCollisions(paths []string) {
	sort.SliceStable(paths, func(i, j int) bool {
		if len(paths[i]) != len(paths[j]) {
			return len(paths[i]) < len(paths[j])
		}
		return paths[i] < paths[j]
	})
}
