package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/scriptlet/internal/ir"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestLoadDirCUEAndResources(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "catalog.cue", `
package test

scriptlet: "remove-class.js": {
	aliases: ["rc.js"]
	arity: fixed: 2
	params: [
		{name: "class", required: true},
		{name: "selector", default: "*"},
	]
}
`)
	writeFile(t, dir, "remove-class.js", `// Name: remove-class.js
// Arguments:
//   {{1}}: Class.
//   {{2}}: Selector.
(function() { '{{1}}'; '{{2}}'; })();
`)
	writeFile(t, dir, "nothing.js", `// Name: nothing.js
// Kind: application/javascript
(function() {})();
`)

	result, errs := LoadDir(dir, LoadModeCollectAll)
	require.Empty(t, errs)
	assert.Equal(t, 3, result.FileCount)
	assert.Equal(t, 2, result.Catalog.Len())

	rc, err := result.Catalog.Lookup("rc.js")
	require.NoError(t, err)
	assert.True(t, rc.Params[0].Required, "CUE declaration keeps its binding contract")
	assert.Contains(t, rc.Body, "'{{1}}'")

	nothing, err := result.Catalog.Lookup("nothing.js")
	require.NoError(t, err)
	assert.Equal(t, ir.KindResource, nothing.Kind)
}

func TestLoadDirNotFound(t *testing.T) {
	_, errs := LoadDir(filepath.Join(t.TempDir(), "missing"), LoadModeFailFast)
	require.Len(t, errs, 1)
	var le *LoadError
	require.ErrorAs(t, errs[0], &le)
	assert.Equal(t, ErrCodeNotFound, le.Code)
}

func TestLoadDirEmpty(t *testing.T) {
	_, errs := LoadDir(t.TempDir(), LoadModeFailFast)
	require.Len(t, errs, 1)
	var le *LoadError
	require.ErrorAs(t, errs[0], &le)
	assert.Equal(t, ErrCodeNoFiles, le.Code)
}

func TestLoadDirCollectsAllErrors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bad.cue", `
package test

scriptlet: "a.js": {purpose: "no arity"}
scriptlet: "b.js": {arity: fixed: 0, kind: "text/css"}
scriptlet: "c.js": {arity: fixed: 0}
`)

	result, errs := LoadDir(dir, LoadModeCollectAll)
	assert.Len(t, errs, 2)
	require.NotNil(t, result)
	assert.Equal(t, 1, result.Catalog.Len())

	_, errs = LoadDir(dir, LoadModeFailFast)
	assert.Len(t, errs, 1)
}

func TestLoadDirAliasCollision(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "dup.cue", `
package test

scriptlet: "a.js": {aliases: ["x"], arity: fixed: 0}
scriptlet: "b.js": {aliases: ["x"], arity: fixed: 0}
`)

	_, errs := LoadDir(dir, LoadModeCollectAll)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), ErrAliasCollision)
}
