package query

import (
	"fmt"
	"path"
	"strings"

	"github.com/moxide-ls/moxide/config"
	"github.com/moxide-ls/moxide/model"
	"github.com/moxide-ls/moxide/vault"
)

// CodeActionKind distinguishes the two quick fixes SPEC_FULL.md §4.9
// adds for unresolved-reference diagnostics.
type CodeActionKind int

const (
	CreateMissingFile CodeActionKind = iota
	AppendMissingHeading
)

// CodeAction is a concrete fix for one Diagnostic: either create a file
// at NewFilePath (empty body, seeded with a level-1 heading matching the
// stem), or append a heading to an existing document so a dangling
// fragment link resolves.
type CodeAction struct {
	Kind  CodeActionKind
	Title string

	// NewFilePath is set for CreateMissingFile: the vault-relative path
	// to create.
	NewFilePath string
	// NewFileContent is the seed content for NewFilePath.
	NewFileContent string

	// TargetDoc/Edit are set for AppendMissingHeading: append Edit to
	// the end of TargetDoc.
	TargetDoc string
	Edit      Edit
}

// CodeActions implements SPEC_FULL.md §4.9: scan diags for unresolved
// MarkdownFileLink/MystRoleDoc references (offer create-missing-file) and
// unresolved MarkdownHeadingLink references whose target file exists
// (offer append-missing-heading).
func CodeActions(snap *vault.Snapshot, doc string, diags []Diagnostic, cfg config.Resolved) []CodeAction {
	d, ok := snap.Document(doc)
	if !ok {
		return nil
	}

	var out []CodeAction
	for _, diag := range diags {
		if diag.Severity != SeverityWarning {
			continue
		}
		ref, ok := findSourceReference(d, diag.Span)
		if !ok {
			continue
		}
		switch ref.Kind {
		case model.MarkdownFileLink, model.MystRoleDoc:
			if a, ok := createMissingFileAction(doc, *ref, cfg); ok {
				out = append(out, a)
			}
		case model.MarkdownHeadingLink:
			if a, ok := appendMissingHeadingAction(snap, doc, *ref); ok {
				out = append(out, a)
			}
		}
	}
	return out
}

func createMissingFileAction(sourceDoc string, ref model.Reference, cfg config.Resolved) (CodeAction, bool) {
	target := strings.TrimSuffix(ref.RawTarget, ".md")
	if target == "" {
		return CodeAction{}, false
	}
	newPath := resolveMissingPath(sourceDoc, target, cfg)
	title := strings.TrimSuffix(path.Base(newPath), ".md")
	return CodeAction{
		Kind:           CreateMissingFile,
		Title:          fmt.Sprintf("Create missing file %q", newPath),
		NewFilePath:    newPath,
		NewFileContent: "# " + title + "\n",
	}, true
}

// resolveMissingPath mirrors resolve.resolveFilePaths' (a)/(b) strategies
// (relative-to-source, else vault-root-relative) but without the
// existence check that strategy requires, since this path doesn't exist
// yet — that's the point of the action. A bare stem with no directory
// component lands in cfg.NewFileFolderPath (spec.md §6's
// "new_file_folder_path") rather than alongside the source document, when
// that setting is non-empty.
func resolveMissingPath(sourceDoc, target string, cfg config.Resolved) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/") + ".md"
	}
	if cfg.NewFileFolderPath != "" && !strings.Contains(target, "/") {
		return path.Join(cfg.NewFileFolderPath, target) + ".md"
	}
	return path.Join(path.Dir(sourceDoc), target) + ".md"
}

func appendMissingHeadingAction(snap *vault.Snapshot, sourceDoc string, ref model.Reference) (CodeAction, bool) {
	if ref.Heading == "" {
		return CodeAction{}, false
	}
	targetPath := strings.TrimSuffix(ref.RawTarget, ".md")
	if targetPath == "" {
		targetPath = sourceDoc
	} else {
		targetPath += ".md"
	}
	if strings.HasPrefix(targetPath, "/") {
		targetPath = strings.TrimPrefix(targetPath, "/")
	} else {
		targetPath = path.Join(path.Dir(sourceDoc), targetPath)
	}

	d, ok := snap.Document(targetPath)
	if !ok {
		return CodeAction{}, false
	}

	end := d.Rope.Len()
	headingText := strings.ReplaceAll(ref.Heading, "-", " ")
	return CodeAction{
		Kind:      AppendMissingHeading,
		Title:     fmt.Sprintf("Append heading %q to %q", ref.Heading, targetPath),
		TargetDoc: targetPath,
		Edit: Edit{
			Span:    model.SpanFromOffsets(d.Rope, end, end),
			NewText: "\n## " + headingText + "\n",
		},
	}, true
}
