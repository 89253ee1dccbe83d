// Package errs defines the sentinel errors shared across the moxide
// packages.
package errs

import "errors"

var (
	// ErrDocumentNotFound is returned when a document path does not exist
	// in the current snapshot.
	ErrDocumentNotFound = errors.New("moxide: document not found")

	// ErrVaultRootNotFound is returned when no vault marker (conf.py, .git,
	// _toc.yml) can be found above an opened file.
	ErrVaultRootNotFound = errors.New("moxide: vault root not found")

	// ErrInvalidRename is returned when a rename target is syntactically
	// invalid for the Referenceable variant being renamed.
	ErrInvalidRename = errors.New("moxide: invalid rename target")

	// ErrCycleDetected is returned when committing an edge would introduce
	// a transclusion cycle.
	ErrCycleDetected = errors.New("moxide: transclusion cycle detected")

	// ErrUnsupportedScheme is returned for non-file document URIs.
	ErrUnsupportedScheme = errors.New("moxide: unsupported URI scheme")

	// ErrSnapshotStale is returned when a query is issued against a
	// snapshot that has since been superseded and the caller requested a
	// strict version match.
	ErrSnapshotStale = errors.New("moxide: snapshot is stale")

	// ErrNotIndexed is returned when a query runs before initial indexing
	// has completed.
	ErrNotIndexed = errors.New("moxide: vault not yet indexed")
)
