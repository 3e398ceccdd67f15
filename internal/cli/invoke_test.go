package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/scriptlet/internal/engine"
)

func decodeInvoke(t *testing.T, out string) InvokeResult {
	t.Helper()
	var resp struct {
		Status string       `json:"status"`
		Data   InvokeResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Equal(t, "ok", resp.Status)
	return resp.Data
}

func TestInvokeSetCookie(t *testing.T) {
	out, _, err := executeCommand(t, "invoke", "set-cookie.js", "consent", "yes", "3600")
	require.NoError(t, err)

	assert.Contains(t, out, "✓ set-cookie.js (ok, seq 1)")
	assert.Contains(t, out, "cookie: consent=yes; Max-Age=3600; Path=/")
}

func TestInvokeRemoveAttrOnPage(t *testing.T) {
	dir := t.TempDir()
	html := writeFile(t, dir, "page.html", `<button id="b" onclick="track()">OK</button>`)

	out, _, err := executeCommand(t, "invoke", "ra.js", "onclick", "button", "--html", html, "--format", "json")
	require.NoError(t, err)

	res := decodeInvoke(t, out)
	assert.Equal(t, "remove-attr.js", res.Template)
	assert.Equal(t, engine.OutcomeOK, res.Outcome)
	assert.NotContains(t, res.HTML, "onclick")
	assert.Contains(t, res.HTML, `id="b"`)
	assert.NotEmpty(t, res.InvocationID)
}

func TestInvokePayload(t *testing.T) {
	dir := t.TempDir()
	payload := writeFile(t, dir, "response.json", `{"ads":[1],"data":{"id":7,"track":true}}`)

	out, _, err := executeCommand(t, "invoke", "json-prune.js", "ads", "data.track", "--payload", payload, "--format", "json")
	require.NoError(t, err)

	res := decodeInvoke(t, out)
	require.NotNil(t, res.Result)
	assert.Equal(t, `{"data":{"id":7}}`, *res.Result)
}

func TestInvokeLogWithScript(t *testing.T) {
	dir := t.TempDir()
	script := writeFile(t, dir, "boot.js", `console.info("booted");`)

	out, _, err := executeCommand(t, "invoke", "ulog", "hello", "ERROR", "--script", script)
	require.NoError(t, err)

	assert.Contains(t, out, "✓ log.js (ok, seq 1)")
	assert.Contains(t, out, "console.info: booted")
	assert.Contains(t, out, "console.error: [log.js] hello")
}

func TestInvokeContainedFault(t *testing.T) {
	out, stderr, err := executeCommand(t, "invoke", "remove-attr.js", "id", "[[", "--format", "json")
	require.NoError(t, err)

	res := decodeInvoke(t, out)
	assert.Equal(t, engine.OutcomeFault, res.Outcome)
	assert.NotEmpty(t, res.Fault)
	assert.Contains(t, stderr, "contained fault")
}

func TestInvokeUnknown(t *testing.T) {
	out, _, err := executeCommand(t, "invoke", "missing.js", "a")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.True(t, engine.IsUnknownTemplate(err))
	assert.Contains(t, out, "Error [UNKNOWN_TEMPLATE]")
}

func TestInvokeMetrics(t *testing.T) {
	out, _, err := executeCommand(t, "invoke", "noop.js", "--metrics", "--format", "json")
	require.NoError(t, err)

	res := decodeInvoke(t, out)
	require.NotEmpty(t, res.Metrics)
	var found bool
	for _, m := range res.Metrics {
		if m.Name == "scriptlet_invocations_total" && m.Labels["template"] == "noop.js" {
			found = true
			assert.Equal(t, engine.OutcomeOK, m.Labels["outcome"])
			assert.Equal(t, 1.0, m.Value)
		}
	}
	assert.True(t, found, "metrics: %+v", res.Metrics)
}

func TestInvokeMissingInputs(t *testing.T) {
	dir := t.TempDir()

	_, _, err := executeCommand(t, "invoke", "noop.js", "--html", filepath.Join(dir, "missing.html"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	_, _, err = executeCommand(t, "invoke", "json-prune.js", "--payload", filepath.Join(dir, "missing.json"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	_, _, err = executeCommand(t, "invoke", "noop.js", "--url", "http://[::1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --url")
}

func TestInvokeRecordsDiagnostics(t *testing.T) {
	db := filepath.Join(t.TempDir(), "faults.db")

	for i := 0; i < 2; i++ {
		_, _, err := executeCommand(t, "invoke", "hide-if-contains-image.js", "[[", "ad", "--diagnostics", db)
		require.NoError(t, err)
	}

	out, _, err := executeCommand(t, "diag", db, "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Data DiagResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data.Diagnostics, 2)
	assert.Equal(t, "hide-if-contains-image.js", resp.Data.Diagnostics[0].Template)
	// seq resumes from the stored maximum across runs.
	assert.Equal(t, int64(1), resp.Data.Diagnostics[0].Seq)
	assert.Equal(t, int64(2), resp.Data.Diagnostics[1].Seq)
	assert.Equal(t, resp.Data.Diagnostics[0].ArgsHash, resp.Data.Diagnostics[1].ArgsHash)

	out, _, err = executeCommand(t, "diag", db, "--summary")
	require.NoError(t, err)
	assert.Contains(t, out, "2  hide-if-contains-image.js")
}
