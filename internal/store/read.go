package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/roach88/scriptlet/internal/ir"
)

// DiagnosticFilter narrows ReadDiagnostics. Zero values match everything.
type DiagnosticFilter struct {
	Template string
	AfterSeq int64
	Limit    int
}

// ReadDiagnostics returns diagnostics ordered by seq ASC, id ASC.
func (s *Store) ReadDiagnostics(ctx context.Context, f DiagnosticFilter) ([]ir.Diagnostic, error) {
	var (
		where []string
		args  []any
	)
	if f.Template != "" {
		where = append(where, "template = ?")
		args = append(args, f.Template)
	}
	if f.AfterSeq > 0 {
		where = append(where, "seq > ?")
		args = append(args, f.AfterSeq)
	}

	query := `SELECT invocation_id, template, args_hash, seq, message, recovered FROM diagnostics`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY seq ASC, id ASC"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("read diagnostics: %w", err)
	}
	defer rows.Close()

	var out []ir.Diagnostic
	for rows.Next() {
		var d ir.Diagnostic
		if err := rows.Scan(&d.InvocationID, &d.Template, &d.ArgsHash, &d.Seq, &d.Message, &d.Recovered); err != nil {
			return nil, fmt.Errorf("scan diagnostic: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read diagnostics: %w", err)
	}
	return out, nil
}

// FaultSummary groups diagnostics of one template and argument list.
type FaultSummary struct {
	Template string `json:"template"`
	ArgsHash string `json:"args_hash"`
	Count    int    `json:"count"`
	LastSeq  int64  `json:"last_seq"`
}

// Summarize groups diagnostics by (template, args_hash), most frequent
// first. Ties order by template then args_hash.
func (s *Store) Summarize(ctx context.Context) ([]FaultSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT template, args_hash, COUNT(*), MAX(seq)
		FROM diagnostics
		GROUP BY template, args_hash
		ORDER BY COUNT(*) DESC, template ASC, args_hash ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("summarize diagnostics: %w", err)
	}
	defer rows.Close()

	var out []FaultSummary
	for rows.Next() {
		var fs FaultSummary
		if err := rows.Scan(&fs.Template, &fs.ArgsHash, &fs.Count, &fs.LastSeq); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		out = append(out, fs)
	}
	return out, rows.Err()
}

// MaxSeq returns the highest recorded seq, or 0 for an empty store.
// Engines resume their clock from it so seq stays unique across runs.
func (s *Store) MaxSeq(ctx context.Context) (int64, error) {
	var seq int64
	err := s.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) FROM diagnostics`).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("max seq: %w", err)
	}
	return seq, nil
}
