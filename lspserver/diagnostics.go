package lspserver

import (
	"context"

	"go.uber.org/zap"

	"github.com/moxide-ls/moxide/query"
)

// publishDiagnostics recomputes doc's diagnostics against the current
// Snapshot and pushes them to the client, mirroring how every mutating
// notification handler (didOpen/didChange/didSave/a watched-file update)
// is expected to refresh the diagnostics spec.md §6 calls "pushed, not
// pulled". Failures are logged, not propagated: a stale diagnostics set is
// recoverable on the next edit, and the triggering notification has
// already succeeded by the time this runs.
func (s *Server) publishDiagnostics(ctx context.Context, path string) {
	if s.conn == nil {
		return
	}
	snap, err := s.sess.Snapshot()
	if err != nil {
		return
	}
	diags := query.Diagnostics(snap, path, s.cfg)
	out := make([]diagnostic, 0, len(diags))
	for _, d := range diags {
		out = append(out, diagnostic{
			Range:    toProtocolRange(d.Span),
			Severity: severityNumber(d.Severity),
			Source:   "moxide",
			Message:  d.Message,
		})
	}
	params := publishDiagnosticsParams{
		URI:         s.docURI(path),
		Diagnostics: out,
	}
	if err := s.conn.Notify(ctx, "textDocument/publishDiagnostics", params); err != nil {
		s.log.Warn("publishing diagnostics failed", zap.String("doc", path), zap.Error(err))
	}
}

// severityNumber maps query.Severity onto the standard LSP
// DiagnosticSeverity numbering (1=Error, 2=Warning).
func severityNumber(sev query.Severity) int {
	switch sev {
	case query.SeverityError:
		return 1
	default:
		return 2
	}
}
