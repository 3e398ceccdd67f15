package store

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/roach88/scriptlet/internal/ir"
)

// createTestStore creates a new store in a temp directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestDiagnostic creates a diagnostic with minimal required fields.
func createTestDiagnostic(seq int64, template string) ir.Diagnostic {
	return ir.Diagnostic{
		InvocationID: fmt.Sprintf("inv-%d", seq),
		Template:     template,
		ArgsHash:     "hash-" + template,
		Seq:          seq,
		Message:      "invalid selector",
	}
}

// verifyPragma checks that a pragma reads back as expected.
func (s *Store) verifyPragma(name, expected string) error {
	var value string
	if err := s.db.QueryRow(fmt.Sprintf("PRAGMA %s", name)).Scan(&value); err != nil {
		return fmt.Errorf("failed to query %s: %w", name, err)
	}
	if value != expected {
		return fmt.Errorf("%s = %q, expected %q", name, value, expected)
	}
	return nil
}
