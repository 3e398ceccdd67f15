package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed hashes.
// Version suffix enables future algorithm migration.
const (
	DomainArgs     = "scriptlet/args/v1"
	DomainTemplate = "scriptlet/template/v1"
)

// hashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data)
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// ArgsHash identifies an invocation shape (template + raw argument list).
// Diagnostics store it so repeated faults from the same filter rule group
// together without persisting the arguments themselves.
func ArgsHash(template string, args []string) (string, error) {
	if args == nil {
		args = []string{}
	}
	canonical, err := MarshalCanonical(map[string]any{
		"template": template,
		"args":     args,
	})
	if err != nil {
		return "", fmt.Errorf("ArgsHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainArgs, canonical), nil
}

// TemplateHash fingerprints a compiled template definition.
// Two catalogs that agree on every template hash bind identically.
func TemplateHash(t *Template) (string, error) {
	aliases := make([]any, len(t.Aliases))
	for i, a := range t.Aliases {
		aliases[i] = a
	}
	params := make([]any, len(t.Params))
	for i, p := range t.Params {
		params[i] = map[string]any{
			"index":    p.Index,
			"name":     p.Name,
			"default":  p.Default,
			"required": p.Required,
		}
	}
	canonical, err := MarshalCanonical(map[string]any{
		"name":    t.Name,
		"aliases": aliases,
		"kind":    string(t.Kind),
		"arity":   t.Arity.String(),
		"params":  params,
		"body":    t.Body,
	})
	if err != nil {
		return "", fmt.Errorf("TemplateHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainTemplate, canonical), nil
}
