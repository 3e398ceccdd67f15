package cli

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/scriptlet/internal/ir"
	"github.com/roach88/scriptlet/internal/store"
)

func seedDiagnostics(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "faults.db")
	st, err := store.Open(path)
	require.NoError(t, err)
	defer st.Close()

	ctx := context.Background()
	for _, d := range []ir.Diagnostic{
		{InvocationID: "inv-1", Template: "remove-attr.js", ArgsHash: "aaaaaaaaaaaaaaaa", Seq: 1, Message: "invalid selector"},
		{InvocationID: "inv-2", Template: "set-cookie.js", ArgsHash: "bbbbbbbbbbbbbbbb", Seq: 2, Message: "invalid cookie", Recovered: true},
	} {
		require.NoError(t, st.WriteDiagnostic(ctx, d))
	}
	return path
}

func TestDiagText(t *testing.T) {
	db := seedDiagnostics(t)

	out, _, err := executeCommand(t, "diag", db)
	require.NoError(t, err)
	assert.Contains(t, out, "[seq=1] remove-attr.js invalid selector")
	assert.Contains(t, out, "[seq=2] set-cookie.js invalid cookie (recovered panic)")
	assert.Contains(t, out, "args=aaaaaaaaaaaa\n")
}

func TestDiagFilter(t *testing.T) {
	db := seedDiagnostics(t)

	out, _, err := executeCommand(t, "diag", db, "--template", "set-cookie.js")
	require.NoError(t, err)
	assert.NotContains(t, out, "remove-attr.js")
	assert.Contains(t, out, "set-cookie.js")

	out, _, err = executeCommand(t, "diag", db, "--after", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "No diagnostics recorded.")
}

func TestDiagMissingDatabase(t *testing.T) {
	_, _, err := executeCommand(t, "diag", filepath.Join(t.TempDir(), "missing.db"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "database not found")
}
