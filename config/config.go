// Package config loads the moxide TOML settings file described in
// spec.md §6. Unlike a typical CLI tool's config loader, later sources
// here *fill in* unset fields rather than overriding earlier ones: the
// vault-local file wins for any key it sets, and the user settings file
// only supplies values the vault file left blank.
package config

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// CaseMatching controls how stem/path lookups compare case.
type CaseMatching string

const (
	CaseIgnore  CaseMatching = "ignore"
	CaseSmart   CaseMatching = "smart"
	CaseRespect CaseMatching = "respect"
)

// Config holds all recognized settings from spec.md §6. Every field is a
// pointer so the merge step can tell "unset" apart from "set to zero
// value".
type Config struct {
	DailyNote               *string       `toml:"dailynote"`
	DailyNotesFolder        *string       `toml:"daily_notes_folder"`
	NewFileFolderPath       *string       `toml:"new_file_folder_path"`
	HeadingCompletions      *bool         `toml:"heading_completions"`
	TitleHeadings           *bool         `toml:"title_headings"`
	CaseMatching            *CaseMatching `toml:"case_matching"`
	UnresolvedDiagnostics   *bool         `toml:"unresolved_diagnostics"`
	IncludeMdExtensionLink  *bool         `toml:"include_md_extension_md_link"`
	LinkFilenamesOnly       *bool         `toml:"link_filenames_only"`
	TagsInCodeblocks        *bool         `toml:"tags_in_codeblocks"`
	ReferencesInCodeblocks  *bool         `toml:"references_in_codeblocks"`
	Hover                   *bool         `toml:"hover"`
	InlayHints              *bool         `toml:"inlay_hints"`
	SemanticTokens          *bool         `toml:"semantic_tokens"`
}

// Resolved is Config with every field defaulted, handed to the rest of the
// system so callers never deal with nil pointers.
type Resolved struct {
	DailyNote              string
	DailyNotesFolder       string
	NewFileFolderPath      string
	HeadingCompletions     bool
	TitleHeadings          bool
	CaseMatching           CaseMatching
	UnresolvedDiagnostics  bool
	IncludeMdExtensionLink bool
	LinkFilenamesOnly      bool
	TagsInCodeblocks       bool
	ReferencesInCodeblocks bool
	Hover                  bool
	InlayHints             bool
	SemanticTokens         bool
}

// Defaults returns the built-in defaults applied when neither config file
// sets a value.
func Defaults() Resolved {
	return Resolved{
		DailyNote:              "2006-01-02",
		DailyNotesFolder:       "",
		NewFileFolderPath:      "",
		HeadingCompletions:     true,
		TitleHeadings:          true,
		CaseMatching:           CaseSmart,
		UnresolvedDiagnostics:  true,
		IncludeMdExtensionLink: false,
		LinkFilenamesOnly:      false,
		TagsInCodeblocks:       false,
		ReferencesInCodeblocks: false,
		Hover:                  true,
		InlayHints:             false,
		SemanticTokens:         false,
	}
}

// SearchPaths returns the ordered list of files to try, per spec.md §6:
// <root>/.moxide.toml, then $XDG_CONFIG_HOME/moxide/settings.toml (or the
// platform equivalent).
func SearchPaths(root string) []string {
	paths := []string{filepath.Join(root, ".moxide.toml")}
	if p := userSettingsPath(); p != "" {
		paths = append(paths, p)
	}
	return paths
}

func userSettingsPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "moxide", "settings.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "moxide", "settings.toml")
	case "windows":
		return filepath.Join(home, "AppData", "Roaming", "moxide", "settings.toml")
	default:
		return filepath.Join(home, ".config", "moxide", "settings.toml")
	}
}

// Load reads every path in SearchPaths(root) in order. A missing file is
// not an error (spec.md §6: "Missing files are not errors"). Earlier
// sources fill fields first; later sources only supply values the earlier
// ones left nil.
func Load(root string) (Resolved, error) {
	merged := Config{}

	for _, path := range SearchPaths(root) {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return Resolved{}, err
		}
		var layer Config
		if _, err := toml.Decode(string(data), &layer); err != nil {
			return Resolved{}, err
		}
		merged.fillFrom(&layer)
	}

	return merged.resolve(), nil
}

func (c *Config) fillFrom(layer *Config) {
	if c.DailyNote == nil {
		c.DailyNote = layer.DailyNote
	}
	if c.DailyNotesFolder == nil {
		c.DailyNotesFolder = layer.DailyNotesFolder
	}
	if c.NewFileFolderPath == nil {
		c.NewFileFolderPath = layer.NewFileFolderPath
	}
	if c.HeadingCompletions == nil {
		c.HeadingCompletions = layer.HeadingCompletions
	}
	if c.TitleHeadings == nil {
		c.TitleHeadings = layer.TitleHeadings
	}
	if c.CaseMatching == nil {
		c.CaseMatching = layer.CaseMatching
	}
	if c.UnresolvedDiagnostics == nil {
		c.UnresolvedDiagnostics = layer.UnresolvedDiagnostics
	}
	if c.IncludeMdExtensionLink == nil {
		c.IncludeMdExtensionLink = layer.IncludeMdExtensionLink
	}
	if c.LinkFilenamesOnly == nil {
		c.LinkFilenamesOnly = layer.LinkFilenamesOnly
	}
	if c.TagsInCodeblocks == nil {
		c.TagsInCodeblocks = layer.TagsInCodeblocks
	}
	if c.ReferencesInCodeblocks == nil {
		c.ReferencesInCodeblocks = layer.ReferencesInCodeblocks
	}
	if c.Hover == nil {
		c.Hover = layer.Hover
	}
	if c.InlayHints == nil {
		c.InlayHints = layer.InlayHints
	}
	if c.SemanticTokens == nil {
		c.SemanticTokens = layer.SemanticTokens
	}
}

func (c *Config) resolve() Resolved {
	r := Defaults()
	if c.DailyNote != nil {
		r.DailyNote = *c.DailyNote
	}
	if c.DailyNotesFolder != nil {
		r.DailyNotesFolder = *c.DailyNotesFolder
	}
	if c.NewFileFolderPath != nil {
		r.NewFileFolderPath = *c.NewFileFolderPath
	}
	if c.HeadingCompletions != nil {
		r.HeadingCompletions = *c.HeadingCompletions
	}
	if c.TitleHeadings != nil {
		r.TitleHeadings = *c.TitleHeadings
	}
	if c.CaseMatching != nil {
		r.CaseMatching = *c.CaseMatching
	}
	if c.UnresolvedDiagnostics != nil {
		r.UnresolvedDiagnostics = *c.UnresolvedDiagnostics
	}
	if c.IncludeMdExtensionLink != nil {
		r.IncludeMdExtensionLink = *c.IncludeMdExtensionLink
	}
	if c.LinkFilenamesOnly != nil {
		r.LinkFilenamesOnly = *c.LinkFilenamesOnly
	}
	if c.TagsInCodeblocks != nil {
		r.TagsInCodeblocks = *c.TagsInCodeblocks
	}
	if c.ReferencesInCodeblocks != nil {
		r.ReferencesInCodeblocks = *c.ReferencesInCodeblocks
	}
	if c.Hover != nil {
		r.Hover = *c.Hover
	}
	if c.InlayHints != nil {
		r.InlayHints = *c.InlayHints
	}
	if c.SemanticTokens != nil {
		r.SemanticTokens = *c.SemanticTokens
	}
	return r
}
