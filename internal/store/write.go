package store

import (
	"context"
	"fmt"

	"github.com/roach88/scriptlet/internal/ir"
)

// WriteDiagnostic inserts a diagnostic record.
// Uses ON CONFLICT(invocation_id) DO NOTHING: an invocation has at most one
// diagnostic, and re-writing it is silently ignored.
func (s *Store) WriteDiagnostic(ctx context.Context, d ir.Diagnostic) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO diagnostics
		(invocation_id, template, args_hash, seq, message, recovered)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(invocation_id) DO NOTHING
	`,
		d.InvocationID,
		d.Template,
		d.ArgsHash,
		d.Seq,
		d.Message,
		d.Recovered,
	)
	if err != nil {
		return fmt.Errorf("write diagnostic: %w", err)
	}
	return nil
}
