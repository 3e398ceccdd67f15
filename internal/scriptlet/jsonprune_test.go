package scriptlet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/scriptlet/internal/ir"
)

func TestPrune(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		paths []string
		want  string
	}{
		{"nested key", `{"a":{"b":1,"c":2}}`, []string{"a.b"}, `{"a":{"c":2}}`},
		{"missing segment continues", `{"a":{"b":1,"c":2}}`, []string{"a.z.q", "a.c"}, `{"a":{"b":1}}`},
		{"key order kept", `{"z":1,"a":2,"m":3}`, []string{"a"}, `{"z":1,"m":3}`},
		{"array index", `{"list":[1,2]}`, []string{"list.0"}, `{"list":[null,2]}`},
		{"through scalar skipped", `{"a":1}`, []string{"a.b"}, `{"a":1}`},
		{"through null skipped", `{"a":null}`, []string{"a.b"}, `{"a":null}`},
		{"inherited key untouched", `{"a":{}}`, []string{"a.toString"}, `{"a":{}}`},
		{"reformats whitespace", `{ "a" : 1, "b" : 2 }`, []string{"b"}, `{"a":1}`},
		{"top-level scalar", `42`, []string{"a"}, `42`},
		{"empty path ignored", `{"a":1}`, []string{""}, `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Prune(tt.text, tt.paths))
		})
	}
}

func TestPruneReturnsOriginalText(t *testing.T) {
	original := "{ \"a\" : { \"b\" : 1 } }\n"
	assert.Equal(t, original, Prune(original, nil))
	assert.Equal(t, "{not json", Prune("{not json", []string{"a"}))
}

func TestJSONPruneBehavior(t *testing.T) {
	p := newPage(t, "")

	res, err := run(t, p, "json-prune.js", `{"a":{"b":1,"c":2},"ad":true}`, "a.b", "ad")
	require.NoError(t, err)
	assert.Equal(t, ir.Transformed(`{"a":{"c":2}}`), res)

	res, err = run(t, p, "json-prune.js", `{"a":{"b":1}}`, "a.b", "{{3}}", "a")
	require.NoError(t, err)
	assert.Equal(t, ir.Transformed(`{"a":{}}`), res, "scan stops at the first absent position")

	original := `{ "keep" : "spacing" }`
	res, err = run(t, p, "json-prune.js", original)
	require.NoError(t, err)
	assert.Equal(t, ir.Transformed(original), res)

	res, err = run(t, p, "json-prune.js", "{{1}}", "a")
	require.NoError(t, err)
	assert.Equal(t, ir.NoResult, res)
}
